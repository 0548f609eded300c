package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/DachengChen/trinoai/ai"
	"github.com/DachengChen/trinoai/apperr"
	"github.com/DachengChen/trinoai/db"
	"github.com/DachengChen/trinoai/session"
	"github.com/DachengChen/trinoai/tui"
)

var (
	askBackend string
	askMaxRows int
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Generate SQL for a question, run it and print the result",
	Long: `Ask one question without opening the dashboard.

Examples:
  trinoai ask "Show me all tables in dbt_marts"
  trinoai ask --backend all "What are the top 5 customers by revenue?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askBackend, "backend", "", "Backend: ollama, claude, mistral or all (default from TRINOAI_BACKEND)")
	askCmd.Flags().IntVar(&askMaxRows, "max-rows", 20, "Maximum rows printed per result")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return apperr.New(apperr.KindConfig, "question must not be empty")
	}

	backend := askBackend
	if backend == "" {
		backend = cfg.AI.Backend
	}
	mode, err := session.ParseMode(backend)
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, cfg.Trino)
	if err != nil {
		return err
	}
	defer database.Close()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Loading schema..."
	s.Start()

	state := session.NewState()
	if err := state.Refresh(ctx, database); err != nil {
		s.Stop()
		fmt.Fprintf(os.Stderr, "Error loading schema: %v\n", err)
		s.Start()
	}

	s.Suffix = fmt.Sprintf(" Asking %s...", mode.Label())
	runner := session.NewRunner(ai.NewRegistry(cfg.AI), database, cfg.Prompt.MaxTablesPerSchema)
	rec := runner.Ask(ctx, question, mode, state.Catalog())
	s.Stop()

	fmt.Println(tui.RenderRecord(rec, askMaxRows))
	for _, o := range rec.Outcomes {
		if o.Success {
			return nil
		}
	}
	return fmt.Errorf("no backend produced a result")
}
