package main

import (
	"github.com/spf13/cobra"

	"github.com/refgraph/refgraph/internal/graph"
)

func init() {
	rootCmd.AddCommand(cleanupCmd)
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove citation edges pointing at deleted records",
	Long: `Delete every edge referencing a record that no longer exists.
Normally edges are cleaned up when records are removed; this command
repairs a graph after manual edits to the JSONL files.`,
	Args: cobra.NoArgs,
	RunE: runCleanup,
}

func runCleanup(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	log := newLogger()
	store := newStore(repoRoot)

	records, err := store.GetAllRecords()
	if err != nil {
		exitWithError(ExitError, "loading records: %v", err)
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}

	res, err := graph.New(store).CleanupOrphans(ids)
	if err != nil {
		exitWithError(ExitError, "cleaning up edges: %v", err)
	}

	refreshCache(repoRoot, store, log)

	if humanOutput {
		outputHuman("Removed %d orphaned edges\n", res.EdgesRemoved)
		for _, id := range res.RemovedEdgeIDs {
			outputHuman("  %s\n", id)
		}
	} else {
		outputJSON(res)
	}
	return nil
}
