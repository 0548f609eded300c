package db

//go:generate mockgen -source=interfaces.go -destination=../mocks/mock_db.go -package=mocks

import "context"

// Engine is the query surface the dashboard, the ask command and the
// tool server depend on. *DB implements it against Trino.
type Engine interface {
	// Ping runs a trivial query to verify connectivity.
	Ping(ctx context.Context) error

	// Execute runs a statement and fetches every row.
	Execute(ctx context.Context, sql string) (*QueryResult, error)

	// ListSchemas lists schemas of the session catalog.
	ListSchemas(ctx context.Context) ([]string, error)

	// ListSchemasIn lists schemas of the named catalog.
	ListSchemasIn(ctx context.Context, catalog string) ([]string, error)

	// ListTables lists tables of a schema in the session catalog.
	ListTables(ctx context.Context, schema string) ([]string, error)

	// ListTablesIn lists tables of catalog.schema.
	ListTablesIn(ctx context.Context, catalog, schema string) ([]string, error)

	// DescribeTable returns the columns of schema.table.
	DescribeTable(ctx context.Context, schema, table string) ([]Column, error)
}
