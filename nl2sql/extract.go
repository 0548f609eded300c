// Package nl2sql turns natural-language questions into SQL.
//
// Design decisions:
//   - One pipeline serves every backend: prompts come from a small
//     variant table keyed by ai.PromptStyle, and extraction is the same
//     regardless of which model answered.
//   - Extraction is best-effort text processing, not SQL parsing. It
//     always returns something; a statement that is not really SQL
//     surfaces later as an execution error.
//   - The pipeline is stateless. Catalog and history belong to the
//     caller.
package nl2sql

import (
	"strings"
)

// Response markers the prompt asks backends to use.
const (
	ExplanationMarker = "EXPLANATION:"
	SQLMarker         = "SQL:"
)

// Extraction is the parsed form of a backend response.
type Extraction struct {
	Explanation string
	SQL         string
}

// Extract runs the full extraction: marker split, fence cleanup and
// line reconstruction.
func Extract(response string) Extraction {
	explanation, candidate := ParseResponse(response)
	return Extraction{
		Explanation: explanation,
		SQL:         ReconstructSQL(CleanSQL(candidate)),
	}
}

// ParseResponse splits a response on the first SQL: marker when both
// markers are present. Otherwise the whole text is the candidate and
// the explanation is empty.
func ParseResponse(response string) (explanation, candidate string) {
	text := strings.TrimSpace(response)
	if !strings.Contains(text, ExplanationMarker) || !strings.Contains(text, SQLMarker) {
		return "", text
	}
	before, after, _ := strings.Cut(text, SQLMarker)
	explanation = strings.TrimSpace(strings.ReplaceAll(before, ExplanationMarker, ""))
	return explanation, strings.TrimSpace(after)
}

// CleanSQL removes Markdown code fences, surrounding whitespace and
// trailing statement terminators.
func CleanSQL(candidate string) string {
	s := strings.ReplaceAll(candidate, "```sql", "")
	s = strings.ReplaceAll(s, "```", "")
	return trimTerminators(s)
}

// ReconstructSQL keeps the lines from the first one starting with
// SELECT or WITH (case-insensitive) through the first kept line ending
// in ";". When no line starts a statement the cleaned input is
// returned unchanged.
//
// Statements that open with a comment line or with a keyword other
// than SELECT or WITH (VALUES, TABLE) fall through to the fallback.
func ReconstructSQL(candidate string) string {
	var kept []string
	inSQL := false
	for _, line := range strings.Split(candidate, "\n") {
		upper := strings.ToUpper(strings.TrimSpace(line))
		if !inSQL && (strings.HasPrefix(upper, "SELECT") || strings.HasPrefix(upper, "WITH")) {
			inSQL = true
		}
		if !inSQL {
			continue
		}
		kept = append(kept, line)
		if strings.HasSuffix(upper, ";") {
			break
		}
	}

	if len(kept) == 0 {
		return trimTerminators(candidate)
	}
	return trimTerminators(strings.Join(kept, "\n"))
}

// trimTerminators strips whitespace and trailing ";" until neither is
// left at the end.
func trimTerminators(s string) string {
	for {
		t := strings.TrimRight(strings.TrimSpace(s), ";")
		if t == s {
			return t
		}
		s = t
	}
}
