package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/DachengChen/trinoai/apperr"
	"github.com/DachengChen/trinoai/db"
	"github.com/DachengChen/trinoai/mocks"
)

func newTestServer(t *testing.T) (*Server, *mocks.MockEngine) {
	t.Helper()
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	return New(engine, "lakehouse", "test"), engine
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestQueryRejectsNonSelectWithoutEngineCall(t *testing.T) {
	s, _ := newTestServer(t)

	for _, sql := range []string{"DROP TABLE x", "  with c as (select 1) select * from c", "DELETE FROM t"} {
		res, err := s.Call(context.Background(), "query_trino", map[string]any{"sql": sql})
		require.NoError(t, err)
		assert.Equal(t, "Error: Only SELECT queries are allowed", resultText(t, res))
	}
}

func TestQueryFormatsRows(t *testing.T) {
	s, engine := newTestServer(t)
	engine.EXPECT().Execute(gomock.Any(), "SELECT name, total FROM dbt_marts.customers").Return(&db.QueryResult{
		Columns: []string{"name", "total"},
		Rows:    [][]string{{"alice", "3"}, {"bob", "NULL"}},
	}, nil)

	res, err := s.Call(context.Background(), "query_trino", map[string]any{"sql": "SELECT name, total FROM dbt_marts.customers"})
	require.NoError(t, err)
	assert.Equal(t, "Columns: name, total\n\n(alice, 3)\n(bob, NULL)\n", resultText(t, res))
}

func TestQueryOverflow(t *testing.T) {
	s, engine := newTestServer(t)
	rows := make([][]string, 25)
	for i := range rows {
		rows[i] = []string{fmt.Sprint(i)}
	}
	engine.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&db.QueryResult{Columns: []string{"n"}, Rows: rows}, nil)

	res, err := s.Call(context.Background(), "query_trino", map[string]any{"sql": "select n from t"})
	require.NoError(t, err)
	text := resultText(t, res)
	assert.Contains(t, text, "(19)\n")
	assert.NotContains(t, text, "(20)")
	assert.Contains(t, text, "\n... and 5 more rows (total: 25)")
}

func TestQueryNoRows(t *testing.T) {
	s, engine := newTestServer(t)
	engine.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&db.QueryResult{Columns: []string{"n"}}, nil)

	res, err := s.Call(context.Background(), "query_trino", map[string]any{"sql": "SELECT n FROM t"})
	require.NoError(t, err)
	assert.Equal(t, "Query returned no rows", resultText(t, res))
}

func TestQueryEngineErrorIncludesHint(t *testing.T) {
	s, engine := newTestServer(t)
	cause := errors.New("line 1:15: Table 'x' does not exist")
	engine.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&db.QueryResult{}, apperr.Wrap(cause, apperr.KindTrino, "Trino Error: "+cause.Error()))

	res, err := s.Call(context.Background(), "query_trino", map[string]any{"sql": "SELECT * FROM x"})
	require.NoError(t, err)
	assert.Equal(t, "Error: line 1:15: Table 'x' does not exist\n\nMake sure Trino is running: docker compose ps trino", resultText(t, res))
}

func TestQueryMissingArgument(t *testing.T) {
	s, _ := newTestServer(t)

	res, err := s.Call(context.Background(), "query_trino", map[string]any{})
	require.NoError(t, err)
	text := resultText(t, res)
	assert.Contains(t, text, "Error: ")
	assert.Contains(t, text, "sql")
	assert.Contains(t, text, "docker compose ps trino")
}

func TestShowSchemas(t *testing.T) {
	s, engine := newTestServer(t)
	engine.EXPECT().ListSchemasIn(gomock.Any(), "lakehouse").Return([]string{"dbt_marts", "dbt_staging"}, nil)

	res, err := s.Call(context.Background(), "show_schemas", nil)
	require.NoError(t, err)
	assert.Equal(t, "Schemas in lakehouse:\ndbt_marts\ndbt_staging", resultText(t, res))
}

func TestShowTables(t *testing.T) {
	s, engine := newTestServer(t)
	engine.EXPECT().ListTablesIn(gomock.Any(), "lakehouse", "dbt_marts").Return([]string{"customers", "orders"}, nil)

	res, err := s.Call(context.Background(), "show_tables", map[string]any{"schema": "dbt_marts"})
	require.NoError(t, err)
	assert.Equal(t, "Tables in lakehouse.dbt_marts:\ncustomers\norders", resultText(t, res))
}

func TestShowTablesEngineDown(t *testing.T) {
	s, engine := newTestServer(t)
	engine.EXPECT().ListTablesIn(gomock.Any(), "lakehouse", "raw").Return(nil, errors.New("connection refused"))

	res, err := s.Call(context.Background(), "show_tables", map[string]any{"schema": "raw"})
	require.NoError(t, err)
	assert.Equal(t, "Error: connection refused\n\nMake sure Trino is running: docker compose ps trino", resultText(t, res))
}

func TestPanicBecomesTextError(t *testing.T) {
	s, engine := newTestServer(t)
	engine.EXPECT().ListSchemasIn(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, string) ([]string, error) {
		panic("boom")
	})

	res, err := s.Call(context.Background(), "show_schemas", nil)
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "Error: boom")
}

func TestUnknownTool(t *testing.T) {
	s, _ := newTestServer(t)
	_, err := s.Call(context.Background(), "drop_everything", nil)
	assert.Error(t, err)
}

func TestFormatRowsExactLimit(t *testing.T) {
	rows := make([][]string, MaxRows)
	for i := range rows {
		rows[i] = []string{"x"}
	}
	out := FormatRows(&db.QueryResult{Columns: []string{"c"}, Rows: rows}, MaxRows)
	assert.NotContains(t, out, "more rows")
}
