package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/refgraph/refgraph/internal/dedupe"
	"github.com/refgraph/refgraph/internal/graph"
)

func init() {
	rootCmd.AddCommand(sweepCmd)
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Find and collapse duplicate records across the corpus",
	Long: `Sweep the whole corpus for duplicate groups (pairs scoring at or
above the high similarity threshold) and keep only the most complete
record of each group. Edges referencing removed records are cleaned up
afterwards.

The sweep compares every pair of records, so expect it to take a while
on large corpora.`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

// SweepResponse combines the duplicate sweep and the follow-up edge
// cleanup into one response.
type SweepResponse struct {
	DuplicateGroupsFound int      `json:"duplicate_groups_found"`
	RecordsRemoved       int      `json:"records_removed"`
	OrphanedEdgesRemoved int      `json:"orphaned_edges_removed"`
	Errors               []string `json:"errors,omitempty"`
}

func runSweep(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	log := newLogger()
	store := newStore(repoRoot)

	sweeper := dedupe.New(store, cfg.NewScorer(), log)
	if humanOutput {
		sweeper.OnProgress(func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rscanning %d/%d", done, total)
		})
	}

	res, err := sweeper.Sweep()
	if err != nil {
		exitWithError(ExitError, "sweeping duplicates: %v", err)
	}
	if humanOutput {
		fmt.Fprintln(os.Stderr)
	}

	// Removing records can orphan edges; clean them up in the same run.
	removedEdges := 0
	if res.RecordsRemoved > 0 {
		records, err := store.GetAllRecords()
		if err != nil {
			exitWithError(ExitError, "loading records for edge cleanup: %v", err)
		}
		ids := make([]string, len(records))
		for i, r := range records {
			ids[i] = r.ID
		}

		cleanup, err := graph.New(store).CleanupOrphans(ids)
		if err != nil {
			exitWithError(ExitError, "cleaning up edges: %v", err)
		}
		removedEdges = cleanup.EdgesRemoved
	}

	refreshCache(repoRoot, store, log)

	response := SweepResponse{
		DuplicateGroupsFound: res.DuplicateGroupsFound,
		RecordsRemoved:       res.RecordsRemoved,
		OrphanedEdgesRemoved: removedEdges,
	}
	for _, e := range res.Errors {
		response.Errors = append(response.Errors, fmt.Sprintf("%s: %s", e.ID, e.Err))
	}

	if humanOutput {
		outputHuman("Found %d duplicate groups, removed %d records and %d orphaned edges\n",
			response.DuplicateGroupsFound, response.RecordsRemoved, response.OrphanedEdgesRemoved)
		for _, e := range response.Errors {
			outputHuman("  error: %s\n", e)
		}
	} else {
		outputJSON(response)
	}
	return nil
}
