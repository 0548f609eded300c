package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DachengChen/trinoai/ai"
	"github.com/DachengChen/trinoai/db"
)

func record(question string, outcomes ...Outcome) Record {
	r := NewRecord(question, ModeAll, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	r.Outcomes = outcomes
	return r
}

func TestHistoryLastNewestFirst(t *testing.T) {
	h := NewHistory()
	for _, q := range []string{"a", "b", "c"} {
		h.Add(record(q))
	}

	last := h.Last(2)
	require.Len(t, last, 2)
	assert.Equal(t, "c", last[0].Question)
	assert.Equal(t, "b", last[1].Question)
	assert.Len(t, h.Last(DefaultHistoryView), 3)
	assert.Equal(t, 3, h.Len())
}

func TestHistoryLastNonPositive(t *testing.T) {
	h := NewHistory()
	assert.Empty(t, h.Last(-1))

	h.Add(record("a"))
	assert.Empty(t, h.Last(0))
	assert.Empty(t, h.Last(-5))
}

func TestHistoryStats(t *testing.T) {
	h := NewHistory()
	h.Add(record("q1",
		Outcome{Provider: ai.KindClaude, GenerationSeconds: 1.0, Success: true},
		Outcome{Provider: ai.KindOllama, GenerationSeconds: 4.0, Success: false},
	))
	h.Add(record("q2",
		Outcome{Provider: ai.KindClaude, GenerationSeconds: 3.0, Success: false},
		Outcome{Provider: ai.KindMistral, GenerationSeconds: 0, GenerationError: "Mistral API key not configured"},
	))

	stats := h.Stats()
	require.Len(t, stats, 3)
	assert.Equal(t, ai.KindClaude, stats[0].Provider)
	assert.Equal(t, 2, stats[0].Attempts)
	assert.InDelta(t, 2.0, stats[0].AvgGenerationSeconds, 1e-9)
	assert.InDelta(t, 50.0, stats[0].SuccessRate(), 1e-9)

	assert.Equal(t, ai.KindMistral, stats[1].Provider)
	assert.Zero(t, stats[1].SuccessRate())
	assert.Equal(t, ai.KindOllama, stats[2].Provider)
	assert.InDelta(t, 4.0, stats[2].AvgGenerationSeconds, 1e-9)
}

func TestExportJSON(t *testing.T) {
	h := NewHistory()
	data, err := h.ExportJSON()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	h.Add(record("q", Outcome{
		Provider: ai.KindClaude, SQL: "SELECT 1", Rows: 1, Success: true,
		Result: &db.QueryResult{Rows: [][]string{{"1"}}},
	}))
	data, err = h.ExportJSON()
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "q", decoded[0]["question"])
	outcome := decoded[0]["outcomes"].([]any)[0].(map[string]any)
	assert.Equal(t, "claude", outcome["provider"])
	assert.Equal(t, "SELECT 1", outcome["sql"])
	assert.NotContains(t, outcome, "Result")
}

func TestWriteFile(t *testing.T) {
	h := NewHistory()
	h.Add(record("q"))
	now := time.Date(2024, 5, 1, 9, 8, 7, 0, time.UTC)

	path, err := h.WriteFile(t.TempDir(), now)
	require.NoError(t, err)
	assert.Equal(t, "query_history_20240501_090807.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"question": "q"`)
}
