package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/refgraph/refgraph/internal/config"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query layer from source data",
	Long: `Rebuild the SQLite query database from the JSONL source files.

Use this after pulling changes from git or if the database becomes
corrupted. The database is a disposable cache; rebuilding never touches
the JSONL source of truth.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
	Edges   int    `json:"edges"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	store := newStore(repoRoot)

	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	nRecords, nEdges, err := db.Rebuild(store)
	if err != nil {
		exitWithError(ExitDataError, "rebuilding query database: %v", err)
	}

	if humanOutput {
		outputHuman("Rebuilt query database with %d records and %d edges\n", nRecords, nEdges)
	} else {
		outputJSON(RebuildResult{Status: "rebuilt", Records: nRecords, Edges: nEdges})
	}
	return nil
}
