package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveGeneration(t *testing.T) {
	before := testutil.ToFloat64(generationsTotal.WithLabelValues("claude", "success"))
	ObserveGeneration("claude", "success", 1500*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(generationsTotal.WithLabelValues("claude", "success")))

	cfgBefore := testutil.ToFloat64(generationsTotal.WithLabelValues("mistral", "config"))
	ObserveGeneration("mistral", "config", 0)
	assert.Equal(t, cfgBefore+1, testutil.ToFloat64(generationsTotal.WithLabelValues("mistral", "config")))
}

func TestObserveQueryAndToolCall(t *testing.T) {
	before := testutil.ToFloat64(queriesTotal.WithLabelValues("trino"))
	ObserveQuery("trino", 20*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(queriesTotal.WithLabelValues("trino")))

	toolBefore := testutil.ToFloat64(toolCallsTotal.WithLabelValues("query_trino", "rejected"))
	ObserveToolCall("query_trino", "rejected")
	assert.Equal(t, toolBefore+1, testutil.ToFloat64(toolCallsTotal.WithLabelValues("query_trino", "rejected")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	ObserveToolCall("show_schemas", "success")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "trinoai_tool_calls_total")
	assert.Contains(t, string(body), `tool="show_schemas"`)
}
