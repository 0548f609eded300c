package nl2sql

import (
	"fmt"

	"github.com/DachengChen/trinoai/ai"
)

const inlineTemplate = `You are a SQL expert specializing in Trino SQL. Based on the user's question, provide:
1. A brief explanation of what you'll query (1 sentence)
2. The SQL query

%s

User question: %s

Format your response exactly like this:
EXPLANATION: [one sentence explaining the query approach]
SQL:
[the SQL query without any markdown or code blocks]

Requirements for SQL:
- Use proper Trino SQL syntax
- Always specify schema.table format (e.g., dbt_marts.customers)
- Return only SELECT statements
- Use appropriate WHERE clauses, JOINs, and aggregations as needed
- Limit results to 100 rows unless user specifies otherwise

Response:`

const systemTemplate = `You are a SQL expert specializing in Trino SQL. Based on user questions, provide:
1. A brief explanation of your query approach (1 sentence)
2. The SQL query

%s

Format your response exactly like this:
EXPLANATION: [one sentence explaining the query approach]
SQL:
[the SQL query without markdown or code blocks]

Always use schema.table format. Return only SELECT statements. Limit results to 100 rows unless the user specifies otherwise.`

// promptVariants maps each prompt style to its builder.
var promptVariants = map[ai.PromptStyle]func(question, schemaDesc string) ai.Prompt{
	ai.StyleInline: func(question, schemaDesc string) ai.Prompt {
		return ai.Prompt{User: fmt.Sprintf(inlineTemplate, schemaDesc, question)}
	},
	ai.StyleSystem: func(question, schemaDesc string) ai.Prompt {
		return ai.Prompt{System: fmt.Sprintf(systemTemplate, schemaDesc), User: question}
	},
}

// BuildPrompt renders the request for a backend of the given style.
// schemaDesc is the output of db.FormatCatalog.
func BuildPrompt(style ai.PromptStyle, question, schemaDesc string) ai.Prompt {
	build, ok := promptVariants[style]
	if !ok {
		build = promptVariants[ai.StyleInline]
	}
	return build(question, schemaDesc)
}
