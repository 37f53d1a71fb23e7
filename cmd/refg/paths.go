package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/refgraph/refgraph/internal/graph"
)

var pathsMaxDepth int

func init() {
	pathsCmd.Flags().IntVarP(&pathsMaxDepth, "max-depth", "d", 5, "Maximum path length in hops")
	rootCmd.AddCommand(pathsCmd)
}

var pathsCmd = &cobra.Command{
	Use:   "paths <source-id> <target-id>",
	Short: "Find citation paths between two records",
	Long: `Find citation paths from the source record to the target over
outgoing edges, bounded by --max-depth hops and capped at ten paths.

Example:
  refg paths 3fa1b2c4d5e6f708 9a8b7c6d5e4f3a2b -d 3`,
	Args: cobra.ExactArgs(2),
	RunE: runPaths,
}

// PathsResponse lists the discovered citation paths.
type PathsResponse struct {
	SourceID string     `json:"source_id"`
	TargetID string     `json:"target_id"`
	MaxDepth int        `json:"max_depth"`
	Paths    [][]string `json:"paths"`
}

func runPaths(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	store := newStore(repoRoot)

	paths, err := graph.New(store).FindPaths(args[0], args[1], pathsMaxDepth)
	if err != nil {
		exitWithError(ExitError, "finding paths: %v", err)
	}

	if humanOutput {
		if len(paths) == 0 {
			outputHuman("No citation path from %s to %s within %d hops\n", args[0], args[1], pathsMaxDepth)
		}
		for _, p := range paths {
			outputHuman("%s\n", strings.Join(p, " -> "))
		}
	} else {
		outputJSON(PathsResponse{
			SourceID: args[0],
			TargetID: args[1],
			MaxDepth: pathsMaxDepth,
			Paths:    paths,
		})
	}
	return nil
}
