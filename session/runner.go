package session

import (
	"context"
	"time"

	"github.com/DachengChen/trinoai/ai"
	"github.com/DachengChen/trinoai/applog"
	"github.com/DachengChen/trinoai/db"
	"github.com/DachengChen/trinoai/nl2sql"
)

// Runner asks backends a question and executes what they return.
// Backends run one after another; nothing is retried and the SQL is
// executed without the SELECT gate.
type Runner struct {
	registry  *ai.Registry
	engine    db.Engine
	maxTables int
	now       func() time.Time
}

// NewRunner creates a runner. maxTables bounds the schema description.
func NewRunner(registry *ai.Registry, engine db.Engine, maxTables int) *Runner {
	return &Runner{registry: registry, engine: engine, maxTables: maxTables, now: time.Now}
}

// Ask runs question through every backend of mode and returns the
// record. The caller decides whether to add it to History.
func (r *Runner) Ask(ctx context.Context, question string, mode Mode, catalog db.Catalog) Record {
	rec := NewRecord(question, mode, r.now())
	schemaDesc := db.FormatCatalog(catalog, r.maxTables)

	applog.Event("ask", "question received", "id", rec.ID.String(), "mode", string(mode), "question", question)
	for _, kind := range mode.Kinds() {
		rec.Outcomes = append(rec.Outcomes, r.askOne(ctx, kind, question, schemaDesc))
	}
	return rec
}

func (r *Runner) askOne(ctx context.Context, kind ai.Kind, question, schemaDesc string) Outcome {
	out := Outcome{Provider: kind, Model: kind.Label()}

	p, err := r.registry.Get(kind)
	if err != nil {
		out.GenerationError = err.Error()
		return out
	}
	out.Model = p.Name()

	gen := nl2sql.Generate(ctx, p, question, schemaDesc)
	out.GenerationSeconds = gen.Elapsed.Seconds()
	if gen.Err != nil {
		out.GenerationError = gen.Err.Error()
		return out
	}
	out.SQL = gen.SQL
	out.Explanation = gen.Explanation

	res, err := r.engine.Execute(ctx, gen.SQL)
	if res != nil {
		out.ExecutionSeconds = res.Elapsed.Seconds()
	}
	if err != nil {
		out.ExecutionError = err.Error()
		return out
	}
	out.Result = res
	out.Rows = res.RowCount()
	out.Success = true
	return out
}
