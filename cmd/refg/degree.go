package main

import (
	"github.com/spf13/cobra"

	"github.com/refgraph/refgraph/internal/graph"
)

func init() {
	rootCmd.AddCommand(degreeCmd)
}

var degreeCmd = &cobra.Command{
	Use:   "degree <id>...",
	Short: "Report in/out citation degrees for records",
	Long: `Report the inbound, outbound, and total citation degree of one or
more records. Degrees are recomputed from the current edge set on every
call.

Example:
  refg degree 3fa1b2c4d5e6f708 9a8b7c6d5e4f3a2b`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDegree,
}

func runDegree(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	store := newStore(repoRoot)

	stats, err := graph.New(store).BatchDegrees(args)
	if err != nil {
		exitWithError(ExitError, "computing degrees: %v", err)
	}

	if humanOutput {
		for _, st := range stats {
			outputHuman("%s  in=%d out=%d total=%d\n", st.ID, st.InDegree, st.OutDegree, st.TotalDegree)
		}
	} else {
		outputJSON(stats)
	}
	return nil
}
