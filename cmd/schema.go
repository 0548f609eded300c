package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DachengChen/trinoai/db"
)

var schemaMaxTables int

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the schema description sent to the backends",
	Args:  cobra.NoArgs,
	RunE:  runSchema,
}

func init() {
	schemaCmd.Flags().IntVar(&schemaMaxTables, "max-tables", 0, "Tables listed per schema (default from TRINOAI_MAX_TABLES_PER_SCHEMA)")
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.Trino)
	if err != nil {
		return err
	}
	defer database.Close()

	snap, err := db.FetchCatalog(ctx, database)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}

	maxTables := schemaMaxTables
	if maxTables <= 0 {
		maxTables = cfg.Prompt.MaxTablesPerSchema
	}
	fmt.Print(db.FormatCatalog(snap.Catalog, maxTables))

	for _, s := range snap.SkippedSchemas {
		fmt.Fprintf(os.Stderr, "skipped schema %s\n", s)
	}
	for _, t := range snap.SkippedTables {
		fmt.Fprintf(os.Stderr, "skipped table %s\n", t)
	}
	return nil
}
