// Package mcpserver exposes the lakehouse to MCP clients over stdio.
//
// Three tools are served: query_trino (SELECT-only), show_schemas and
// show_tables. Every failure, including a panic inside a handler, is
// returned to the caller as a text payload starting with "Error:".
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/DachengChen/trinoai/apperr"
	"github.com/DachengChen/trinoai/applog"
	"github.com/DachengChen/trinoai/db"
	"github.com/DachengChen/trinoai/metrics"
	"github.com/DachengChen/trinoai/nl2sql"
)

const (
	// ServerName is announced to MCP clients.
	ServerName = "trino-lakehouse"
	// MaxRows caps the rows rendered by query_trino.
	MaxRows = 20

	runningHint = "Make sure Trino is running: docker compose ps trino"
)

// Server serves the tools against an Engine.
type Server struct {
	engine  db.Engine
	catalog string
	mcp     *server.MCPServer
	tools   map[string]server.ToolHandlerFunc
}

// New builds the MCP server and registers its tools. catalog is the
// catalog show_schemas and show_tables operate on.
func New(engine db.Engine, catalog, version string) *Server {
	s := &Server{
		engine:  engine,
		catalog: catalog,
		mcp: server.NewMCPServer(
			ServerName,
			version,
			server.WithToolCapabilities(false),
		),
		tools: make(map[string]server.ToolHandlerFunc),
	}

	queryTool := mcp.NewTool("query_trino",
		mcp.WithDescription(fmt.Sprintf("Execute SQL query on Trino lakehouse. Returns up to %d rows.", MaxRows)),
		mcp.WithString("sql",
			mcp.Required(),
			mcp.Description("SQL query to execute (SELECT statements only)"),
		),
	)
	s.addTool(queryTool, s.handleQuery)

	schemasTool := mcp.NewTool("show_schemas",
		mcp.WithDescription("List all schemas in the lakehouse catalog"),
	)
	s.addTool(schemasTool, s.handleShowSchemas)

	tablesTool := mcp.NewTool("show_tables",
		mcp.WithDescription("List tables in a specific schema"),
		mcp.WithString("schema",
			mcp.Required(),
			mcp.Description("Schema name (e.g., dbt_marts, dbt_staging)"),
		),
	)
	s.addTool(tablesTool, s.handleShowTables)

	return s
}

func (s *Server) addTool(tool mcp.Tool, fn toolFunc) {
	h := s.wrap(tool.Name, fn)
	s.tools[tool.Name] = h
	s.mcp.AddTool(tool, h)
}

// Call invokes a registered tool directly, bypassing the transport.
func (s *Server) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	h, ok := s.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return h(ctx, req)
}

// MCP returns the underlying mcp-go server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// ServeStdio blocks serving the MCP protocol on stdin/stdout.
func (s *Server) ServeStdio() error {
	applog.Event("mcp", "starting trino mcp server", "catalog", s.catalog)
	return server.ServeStdio(s.mcp)
}

type toolFunc func(ctx context.Context, request mcp.CallToolRequest) (string, error)

// wrap logs and counts a tool call and turns errors and panics into
// text payloads.
func (s *Server) wrap(tool string, fn toolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		applog.Event("mcp", "tool called", "tool", tool, "args", request.GetArguments())

		defer func() {
			if r := recover(); r != nil {
				applog.Error("tool %s panicked: %v", tool, r)
				metrics.ObserveToolCall(tool, "error")
				result, err = mcp.NewToolResultText(errorText(fmt.Errorf("%v", r))), nil
			}
		}()

		text, callErr := fn(ctx, request)
		switch {
		case callErr == nil:
			metrics.ObserveToolCall(tool, "success")
			return mcp.NewToolResultText(text), nil
		case apperr.Is(callErr, apperr.KindSafety):
			metrics.ObserveToolCall(tool, "rejected")
			applog.Event("mcp", "query rejected", "tool", tool)
			return mcp.NewToolResultText("Error: " + callErr.Error()), nil
		default:
			metrics.ObserveToolCall(tool, "error")
			applog.Error("tool %s failed: %v", tool, callErr)
			return mcp.NewToolResultText(errorText(callErr)), nil
		}
	}
}

func (s *Server) handleQuery(ctx context.Context, request mcp.CallToolRequest) (string, error) {
	sql, err := request.RequireString("sql")
	if err != nil {
		return "", err
	}
	if err := nl2sql.RequireSelect(sql); err != nil {
		return "", err
	}

	applog.Event("mcp", "executing sql", "sql", sql)
	res, err := s.engine.Execute(ctx, sql)
	if err != nil {
		return "", err
	}
	applog.Event("mcp", "query returned", "rows", res.RowCount())
	return FormatRows(res, MaxRows), nil
}

func (s *Server) handleShowSchemas(ctx context.Context, _ mcp.CallToolRequest) (string, error) {
	schemas, err := s.engine.ListSchemasIn(ctx, s.catalog)
	if err != nil {
		return "", err
	}
	applog.Event("mcp", "schemas listed", "count", len(schemas))
	return fmt.Sprintf("Schemas in %s:\n", s.catalog) + strings.Join(schemas, "\n"), nil
}

func (s *Server) handleShowTables(ctx context.Context, request mcp.CallToolRequest) (string, error) {
	schema, err := request.RequireString("schema")
	if err != nil {
		return "", err
	}
	tables, err := s.engine.ListTablesIn(ctx, s.catalog, schema)
	if err != nil {
		return "", err
	}
	applog.Event("mcp", "tables listed", "schema", schema, "count", len(tables))
	return fmt.Sprintf("Tables in %s.%s:\n", s.catalog, schema) + strings.Join(tables, "\n"), nil
}

// FormatRows renders at most limit rows of res, one "(v1, v2)" tuple
// per line, followed by an overflow note when rows were cut.
func FormatRows(res *db.QueryResult, limit int) string {
	if res.RowCount() == 0 {
		return "Query returned no rows"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Columns: %s\n\n", strings.Join(res.Columns, ", "))

	shown := res.Rows
	if len(shown) > limit {
		shown = shown[:limit]
	}
	for _, row := range shown {
		fmt.Fprintf(&sb, "(%s)\n", strings.Join(row, ", "))
	}

	if total := res.RowCount(); total > limit {
		fmt.Fprintf(&sb, "\n... and %d more rows (total: %d)", total-limit, total)
	}
	return sb.String()
}

// errorText renders a failure with the driver's own message.
func errorText(err error) string {
	msg := err.Error()
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Cause != nil {
		msg = ae.Cause.Error()
	}
	return fmt.Sprintf("Error: %s\n\n%s", msg, runningHint)
}
