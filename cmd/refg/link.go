package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/refgraph/refgraph/internal/cache"
	"github.com/refgraph/refgraph/internal/linker"
)

var linkFlags struct {
	all      bool
	strategy string
}

func init() {
	linkCmd.Flags().BoolVar(&linkFlags.all, "all", false, "Link every record in the corpus")
	linkCmd.Flags().StringVarP(&linkFlags.strategy, "strategy", "s", "",
		"Match strategy: all, doi-only, metadata-only (default from config)")
	rootCmd.AddCommand(linkCmd)
}

var linkCmd = &cobra.Command{
	Use:   "link [id]",
	Short: "Discover citation edges for a record or the whole corpus",
	Long: `Discover citations from a record to the rest of the corpus via DOI,
title-similarity, and shared-author/year signals, creating edges for
matches above the confidence floor.

With --all, every record is linked in turn; batch runs are paced by the
configured rate limit.

Examples:
  refg link 3fa1b2c4d5e6f708
  refg link --all --strategy doi-only`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLink,
}

func runLink(cmd *cobra.Command, args []string) error {
	if linkFlags.all == (len(args) == 1) {
		exitWithError(ExitError, "provide exactly one of <id> or --all")
	}

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	log := newLogger()

	// Linking scans the whole corpus once per record; the read cache
	// collapses those scans to one. Writes invalidate it, so freshly
	// created edges are still seen by the duplicate check.
	store := cache.Wrap(newStore(repoRoot), nil)

	strategy := linkFlags.strategy
	if strategy == "" {
		strategy = cfg.Linker.Strategy
	}

	l := linker.New(store, log)
	if cfg.Linker.RatePerSecond > 0 {
		l.SetLimiter(rate.NewLimiter(rate.Limit(cfg.Linker.RatePerSecond), 1))
	}

	if linkFlags.all {
		var progress linker.ProgressFunc
		if humanOutput {
			progress = func(id string, done, total int) {
				fmt.Fprintf(os.Stderr, "\rlinking %d/%d", done, total)
			}
		}

		batch, err := l.LinkAll(context.Background(), strategy, progress)
		if err != nil {
			exitWithError(ExitError, "linking all records: %v", err)
		}
		if humanOutput {
			fmt.Fprintln(os.Stderr)
		}

		refreshCache(repoRoot, store, log)

		if humanOutput {
			outputHuman("Processed %d records: %d links created, %d already present, %d errors\n",
				batch.RecordsProcessed, batch.CreatedLinks, batch.SkippedLinks, len(batch.Errors))
		} else {
			outputJSON(batch)
		}
		return nil
	}

	res, err := l.Link(args[0], strategy)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	refreshCache(repoRoot, store, log)

	if humanOutput {
		outputHuman("%s: %d candidates, %d matches, %d links created, %d already present\n",
			res.TargetID, res.TotalCandidates, res.PotentialMatches, res.CreatedLinks, res.SkippedLinks)
	} else {
		outputJSON(res)
	}
	return nil
}
