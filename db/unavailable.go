package db

import "context"

// Unavailable is an Engine that fails every call with the error that
// prevented the connection. Front-ends use it so a dead Trino shows up
// per request instead of aborting startup.
type Unavailable struct {
	Err error
}

var _ Engine = Unavailable{}

func (u Unavailable) Ping(context.Context) error { return u.Err }

func (u Unavailable) Execute(context.Context, string) (*QueryResult, error) { return nil, u.Err }

func (u Unavailable) ListSchemas(context.Context) ([]string, error) { return nil, u.Err }

func (u Unavailable) ListSchemasIn(context.Context, string) ([]string, error) { return nil, u.Err }

func (u Unavailable) ListTables(context.Context, string) ([]string, error) { return nil, u.Err }

func (u Unavailable) ListTablesIn(context.Context, string, string) ([]string, error) {
	return nil, u.Err
}

func (u Unavailable) DescribeTable(context.Context, string, string) ([]Column, error) {
	return nil, u.Err
}
