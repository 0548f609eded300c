// query.go implements statement execution and catalog introspection.
//
// All functions accept a context and return structured results that the
// dashboard and tool server can render. Errors are returned, never
// printed.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/trinodb/trino-go-client/trino"

	"github.com/DachengChen/trinoai/apperr"
	"github.com/DachengChen/trinoai/applog"
	"github.com/DachengChen/trinoai/metrics"
)

// QueryResult holds the output of a statement.
type QueryResult struct {
	Columns []string
	Rows    [][]string
	Elapsed time.Duration
}

// RowCount returns the number of fetched rows.
func (r *QueryResult) RowCount() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Column describes a single column of a table.
type Column struct {
	Name string
	Type string
}

// Execute runs a statement, fetches all rows and measures the elapsed
// time. On failure the error is an *apperr.Error whose message starts
// with "Trino Error: " for engine-reported user errors and with
// "Execution Error: " otherwise; the returned result still carries the
// elapsed time.
func (d *DB) Execute(ctx context.Context, sql string) (*QueryResult, error) {
	start := time.Now()
	result, err := d.executeQuery(ctx, sql)
	elapsed := time.Since(start)

	if err != nil {
		err = Classify(err)
		metrics.ObserveQuery(string(apperr.KindOf(err)), elapsed)
		applog.Logger().Error("query failed", "category", "trino", "elapsed_ms", elapsed.Milliseconds(), "error", err.Error())
		return &QueryResult{Elapsed: elapsed}, err
	}

	result.Elapsed = elapsed
	metrics.ObserveQuery("success", elapsed)
	applog.Logger().Info("query executed", "category", "trino", "rows", len(result.Rows), "elapsed_ms", elapsed.Milliseconds())
	return result, nil
}

// Classify converts a driver error into the display taxonomy.
func Classify(err error) error {
	var te *trino.ErrTrino
	if errors.As(err, &te) && te.ErrorType == "USER_ERROR" {
		msg := te.Message
		if msg == "" {
			msg = err.Error()
		}
		return apperr.Wrap(err, apperr.KindTrino, "Trino Error: "+msg)
	}
	return apperr.Execution(err)
}

// executeQuery is the internal workhorse for running SQL and collecting results.
func (d *DB) executeQuery(ctx context.Context, query string, args ...any) (*QueryResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := &QueryResult{}
	result.Columns, err = rows.Columns()
	if err != nil {
		return nil, err
	}

	values := make([]any, len(result.Columns))
	ptrs := make([]any, len(values))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = FormatValue(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// FormatValue renders a scanned value as display text.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05.000")
	default:
		return fmt.Sprintf("%v", x)
	}
}

// ListSchemas implements SHOW SCHEMAS for the session catalog.
func (d *DB) ListSchemas(ctx context.Context) ([]string, error) {
	return d.firstColumn(ctx, "SHOW SCHEMAS")
}

// ListSchemasIn implements SHOW SCHEMAS IN <catalog>.
func (d *DB) ListSchemasIn(ctx context.Context, catalog string) ([]string, error) {
	return d.firstColumn(ctx, "SHOW SCHEMAS IN "+QuoteIdent(catalog))
}

// ListTables implements SHOW TABLES FROM <schema>.
func (d *DB) ListTables(ctx context.Context, schema string) ([]string, error) {
	return d.firstColumn(ctx, "SHOW TABLES FROM "+QuoteIdent(schema))
}

// ListTablesIn implements SHOW TABLES IN <catalog>.<schema>.
func (d *DB) ListTablesIn(ctx context.Context, catalog, schema string) ([]string, error) {
	return d.firstColumn(ctx, "SHOW TABLES IN "+QuoteIdent(catalog)+"."+QuoteIdent(schema))
}

// DescribeTable implements DESCRIBE <schema>.<table>. Only the column
// name and type are kept.
func (d *DB) DescribeTable(ctx context.Context, schema, table string) ([]Column, error) {
	res, err := d.executeQuery(ctx, "DESCRIBE "+QuoteIdent(schema)+"."+QuoteIdent(table))
	if err != nil {
		return nil, err
	}
	cols := make([]Column, 0, len(res.Rows))
	for _, row := range res.Rows {
		if len(row) < 2 {
			continue
		}
		cols = append(cols, Column{Name: row[0], Type: row[1]})
	}
	return cols, nil
}

func (d *DB) firstColumn(ctx context.Context, query string) ([]string, error) {
	res, err := d.executeQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		if len(row) > 0 {
			out = append(out, row[0])
		}
	}
	return out, nil
}

// QuoteIdent double-quotes a Trino identifier.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
