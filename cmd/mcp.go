package cmd

import (
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/DachengChen/trinoai/applog"
	"github.com/DachengChen/trinoai/db"
	"github.com/DachengChen/trinoai/mcpserver"
	"github.com/DachengChen/trinoai/metrics"
)

var metricsAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve Trino query tools to MCP clients over stdio",
	Long: `Starts a Model Context Protocol server on stdin/stdout exposing
query_trino (SELECT only), show_schemas and show_tables.

Example client configuration:
  {"mcpServers": {"trino": {"command": "trinoai", "args": ["mcp"]}}}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	var engine db.Engine
	database, err := db.Connect(cmd.Context(), cfg.Trino)
	if err != nil {
		// Keep serving: each tool call reports the failure to the client.
		applog.Error("trino unavailable: %v", err)
		engine = db.Unavailable{Err: err}
	} else {
		defer database.Close()
		engine = database
	}

	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			applog.Info("metrics listening on %s", metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				applog.Error("metrics server: %v", err)
			}
		}()
		defer srv.Close()
	}

	applog.Info("starting trino MCP server (catalog %s)", cfg.Trino.Catalog)
	return mcpserver.New(engine, cfg.Trino.Catalog, version).ServeStdio()
}
