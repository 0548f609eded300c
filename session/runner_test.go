package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/DachengChen/trinoai/ai"
	"github.com/DachengChen/trinoai/apperr"
	"github.com/DachengChen/trinoai/db"
	"github.com/DachengChen/trinoai/mocks"
	"github.com/DachengChen/trinoai/session"
)

func mockProvider(ctrl *gomock.Controller, kind ai.Kind, style ai.PromptStyle) *mocks.MockProvider {
	p := mocks.NewMockProvider(ctrl)
	p.EXPECT().Kind().Return(kind).AnyTimes()
	p.EXPECT().Name().Return(kind.Label() + " (test)").AnyTimes()
	p.EXPECT().Style().Return(style).AnyTimes()
	return p
}

func TestAskCompareAllRunsInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	claude := mockProvider(ctrl, ai.KindClaude, ai.StyleSystem)
	mistral := mockProvider(ctrl, ai.KindMistral, ai.StyleSystem)
	ollama := mockProvider(ctrl, ai.KindOllama, ai.StyleInline)

	gomock.InOrder(
		claude.EXPECT().Ready().Return(nil),
		claude.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("EXPLANATION: c\nSQL:\nSELECT 1;", nil),
		engine.EXPECT().Execute(gomock.Any(), "SELECT 1").Return(&db.QueryResult{
			Columns: []string{"_col0"}, Rows: [][]string{{"1"}}, Elapsed: 20 * time.Millisecond,
		}, nil),
		mistral.EXPECT().Ready().Return(apperr.NotConfigured("Mistral")),
		ollama.EXPECT().Ready().Return(nil),
		ollama.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("SELECT * FROM nope", nil),
		engine.EXPECT().Execute(gomock.Any(), "SELECT * FROM nope").Return(
			&db.QueryResult{Elapsed: 5 * time.Millisecond},
			apperr.Wrap(errors.New("x"), apperr.KindTrino, "Trino Error: Table 'nope' does not exist")),
	)

	runner := session.NewRunner(ai.NewRegistryOf(claude, mistral, ollama), engine, 10)
	rec := runner.Ask(context.Background(), "count", session.ModeAll, nil)

	assert.Equal(t, "count", rec.Question)
	assert.Equal(t, session.ModeAll, rec.Mode)
	require.Len(t, rec.Outcomes, 3)

	c := rec.Outcomes[0]
	assert.Equal(t, ai.KindClaude, c.Provider)
	assert.Equal(t, "SELECT 1", c.SQL)
	assert.Equal(t, "c", c.Explanation)
	assert.True(t, c.Success)
	assert.Equal(t, 1, c.Rows)
	assert.InDelta(t, 0.02, c.ExecutionSeconds, 1e-9)

	m := rec.Outcomes[1]
	assert.Equal(t, ai.KindMistral, m.Provider)
	assert.Equal(t, "Mistral API key not configured", m.GenerationError)
	assert.Zero(t, m.GenerationSeconds)
	assert.False(t, m.Success)
	assert.False(t, m.Executed())

	o := rec.Outcomes[2]
	assert.Equal(t, "Trino Error: Table 'nope' does not exist", o.ExecutionError)
	assert.InDelta(t, 0.005, o.ExecutionSeconds, 1e-9)
	assert.False(t, o.Success)
	assert.True(t, o.Executed())
}

func TestAskSingleModeDoesNotGate(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	ollama := mockProvider(ctrl, ai.KindOllama, ai.StyleInline)

	ollama.EXPECT().Ready().Return(nil)
	ollama.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("SHOW TABLES FROM dbt_marts", nil)
	engine.EXPECT().Execute(gomock.Any(), "SHOW TABLES FROM dbt_marts").Return(&db.QueryResult{Columns: []string{"Table"}}, nil)

	runner := session.NewRunner(ai.NewRegistryOf(ollama), engine, 10)
	rec := runner.Ask(context.Background(), "tables", session.ModeOllama, db.Catalog{})
	require.Len(t, rec.Outcomes, 1)
	assert.True(t, rec.Outcomes[0].Success)
}

func TestAskExecutesEmptyExtraction(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	ollama := mockProvider(ctrl, ai.KindOllama, ai.StyleInline)

	ollama.EXPECT().Ready().Return(nil)
	ollama.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("```sql\n```", nil)
	engine.EXPECT().Execute(gomock.Any(), "").Return(nil, apperr.Execution(errors.New("empty query")))

	runner := session.NewRunner(ai.NewRegistryOf(ollama), engine, 10)
	rec := runner.Ask(context.Background(), "anything", session.ModeOllama, nil)

	require.Len(t, rec.Outcomes, 1)
	o := rec.Outcomes[0]
	assert.Empty(t, o.SQL)
	assert.Empty(t, o.GenerationError)
	assert.Equal(t, "Execution Error: empty query", o.ExecutionError)
	assert.False(t, o.Success)
	assert.True(t, o.Executed())
}

func TestAskUnregisteredBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := session.NewRunner(ai.NewRegistryOf(), mocks.NewMockEngine(ctrl), 10)

	rec := runner.Ask(context.Background(), "q", session.ModeClaude, nil)
	require.Len(t, rec.Outcomes, 1)
	assert.Contains(t, rec.Outcomes[0].GenerationError, "not registered")
}

func TestParseMode(t *testing.T) {
	m, err := session.ParseMode("ALL")
	require.NoError(t, err)
	assert.Equal(t, []ai.Kind{ai.KindClaude, ai.KindMistral, ai.KindOllama}, m.Kinds())
	assert.Equal(t, "Compare All", m.Label())

	_, err = session.ParseMode("gpt")
	assert.Error(t, err)
}
