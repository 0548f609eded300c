package nl2sql_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/DachengChen/trinoai/ai"
	"github.com/DachengChen/trinoai/apperr"
	"github.com/DachengChen/trinoai/mocks"
	"github.com/DachengChen/trinoai/nl2sql"
)

func TestGenerateSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockProvider(ctrl)
	p.EXPECT().Kind().Return(ai.KindClaude).AnyTimes()
	p.EXPECT().Ready().Return(nil)
	p.EXPECT().Style().Return(ai.StyleSystem)
	p.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, pr ai.Prompt) (string, error) {
		assert.Equal(t, "count customers", pr.User)
		assert.Contains(t, pr.System, "No schema information available.")
		time.Sleep(time.Millisecond)
		return "EXPLANATION: counts rows\nSQL:\n```sql\nSELECT count(*) FROM dbt_marts.customers;\n```", nil
	})

	res := nl2sql.Generate(context.Background(), p, "count customers", "No schema information available.")
	require.True(t, res.OK())
	assert.Equal(t, "SELECT count(*) FROM dbt_marts.customers", res.SQL)
	assert.Equal(t, "counts rows", res.Explanation)
	assert.GreaterOrEqual(t, res.Elapsed, time.Millisecond)
}

func TestGenerateBackendErrorKeepsElapsed(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockProvider(ctrl)
	p.EXPECT().Kind().Return(ai.KindOllama).AnyTimes()
	p.EXPECT().Ready().Return(nil)
	p.EXPECT().Style().Return(ai.StyleInline)
	p.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, ai.Prompt) (string, error) {
		time.Sleep(time.Millisecond)
		return "", errors.New("model 'qwen' not found")
	}).Times(1)

	res := nl2sql.Generate(context.Background(), p, "q", "")
	require.Error(t, res.Err)
	assert.Empty(t, res.SQL)
	assert.Equal(t, "model 'qwen' not found", res.Err.Error())
	assert.True(t, apperr.Is(res.Err, apperr.KindGeneration))
	assert.GreaterOrEqual(t, res.Elapsed, time.Millisecond)
}

func TestGenerateNotConfiguredNeverCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockProvider(ctrl)
	p.EXPECT().Kind().Return(ai.KindMistral).AnyTimes()
	p.EXPECT().Ready().Return(apperr.NotConfigured("Mistral"))

	res := nl2sql.Generate(context.Background(), p, "q", "")
	require.Error(t, res.Err)
	assert.Equal(t, "Mistral API key not configured", res.Err.Error())
	assert.Zero(t, res.Elapsed)
}

func TestGenerateMissingKeyRealProviderNoNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	for _, p := range []ai.Provider{
		ai.NewAnthropic("", "", srv.URL),
		ai.NewMistral("", "", srv.URL),
	} {
		res := nl2sql.Generate(context.Background(), p, "q", "")
		assert.True(t, apperr.Is(res.Err, apperr.KindConfig))
		assert.Zero(t, res.Elapsed)
	}
	assert.Zero(t, hits.Load())
}

func TestGenerateInlineAgainstOllama(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"Here you go:\nSELECT 1;\nThanks!"}`))
	}))
	defer srv.Close()

	res := nl2sql.Generate(context.Background(), ai.NewOllama(srv.URL, "m"), "anything", "")
	require.NoError(t, res.Err)
	assert.Equal(t, "SELECT 1", res.SQL)
	assert.Empty(t, res.Explanation)
}
