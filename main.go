// trinoai – natural-language questions over a Trino lakehouse.
//
// Entry point: initializes the Cobra root command, which launches the
// dashboard when no subcommand is given.
package main

import (
	"os"

	"github.com/DachengChen/trinoai/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
