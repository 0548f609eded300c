// Package cmd contains all Cobra commands for trinoai.
//
// Running `trinoai` with no arguments starts the dashboard. Every
// command shares the configuration and log setup done in
// PersistentPreRunE.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DachengChen/trinoai/ai"
	"github.com/DachengChen/trinoai/applog"
	"github.com/DachengChen/trinoai/config"
	"github.com/DachengChen/trinoai/db"
	"github.com/DachengChen/trinoai/session"
	"github.com/DachengChen/trinoai/tui"
)

// version is overridden at build time with -ldflags "-X".
var version = "0.1.0"

// cfg is loaded once before any command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "trinoai",
	Short: "Ask questions about a Trino lakehouse in plain English",
	Long: `trinoai turns natural-language questions into Trino SQL using
Claude, Mistral or a local Ollama model, runs the SQL and shows the result.

  • Dashboard with Ask, Schema, History and Status tabs
  • Compare All mode runs every backend on the same question
  • 'trinoai mcp' exposes query tools to MCP clients over stdio
  • Optional SSH tunnel for remote coordinators

Configuration comes from the environment and an optional .env file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		if err := applog.Setup(cfg.Log); err != nil {
			return fmt.Errorf("setup logging: %w", err)
		}
		applog.Event("app", "start", "command", cmd.Name(), "version", version)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		applog.Close()
	},
	RunE: runDashboard,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	registry := ai.NewRegistry(cfg.AI)
	state := session.NewState()

	deps := tui.Deps{
		Config:   cfg,
		Registry: registry,
		State:    state,
	}
	if p, err := registry.Get(ai.KindOllama); err == nil {
		if pinger, ok := p.(tui.Pinger); ok {
			deps.Ollama = pinger
		}
	}

	var engine db.Engine
	database, err := db.Connect(ctx, cfg.Trino)
	if err != nil {
		applog.Error("startup connection failed: %v", err)
		deps.ConnErr = err
		engine = db.Unavailable{Err: err}
	} else {
		defer database.Close()
		deps.Engine = database
		engine = database
	}
	deps.Runner = session.NewRunner(registry, engine, cfg.Prompt.MaxTablesPerSchema)

	tui.Version = version
	return tui.Start(deps)
}
