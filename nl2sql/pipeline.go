package nl2sql

import (
	"context"
	"time"

	"github.com/DachengChen/trinoai/ai"
	"github.com/DachengChen/trinoai/apperr"
	"github.com/DachengChen/trinoai/applog"
	"github.com/DachengChen/trinoai/metrics"
)

// GenerationResult is the outcome of one backend call. Exactly one of
// SQL and Err is meaningful. Elapsed is zero for configuration errors.
type GenerationResult struct {
	SQL         string
	Explanation string
	Elapsed     time.Duration
	Err         error
}

// OK reports whether generation produced SQL.
func (r GenerationResult) OK() bool { return r.Err == nil }

// Generate asks p for SQL answering question against the formatted
// schema description. A missing credential returns immediately with a
// configuration error; backend failures are wrapped verbatim. No
// retries are attempted.
func Generate(ctx context.Context, p ai.Provider, question, schemaDesc string) GenerationResult {
	kind := string(p.Kind())

	if err := p.Ready(); err != nil {
		metrics.ObserveGeneration(kind, string(apperr.KindConfig), 0)
		applog.Logger().Warn("generation skipped", "category", "generation", "provider", kind, "error", err.Error())
		return GenerationResult{Err: err}
	}

	prompt := BuildPrompt(p.Style(), question, schemaDesc)

	start := time.Now()
	raw, err := p.Generate(ctx, prompt)
	elapsed := time.Since(start)

	if err != nil {
		genErr := err
		if apperr.KindOf(err) == apperr.KindInternal {
			genErr = apperr.Generation(err)
		}
		metrics.ObserveGeneration(kind, string(apperr.KindOf(genErr)), elapsed)
		applog.Logger().Error("generation failed", "category", "generation", "provider", kind,
			"elapsed_ms", elapsed.Milliseconds(), "error", err.Error())
		return GenerationResult{Elapsed: elapsed, Err: genErr}
	}

	ex := Extract(raw)
	metrics.ObserveGeneration(kind, "success", elapsed)
	applog.Logger().Info("sql generated", "category", "generation", "provider", kind,
		"elapsed_ms", elapsed.Milliseconds(), "sql", ex.SQL)
	return GenerationResult{SQL: ex.SQL, Explanation: ex.Explanation, Elapsed: elapsed}
}
