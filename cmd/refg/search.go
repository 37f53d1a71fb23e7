package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", DefaultListLimit, "Maximum results")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over titles, authors, and abstracts",
	Long: `Search records with SQLite FTS over title, abstract, authors, and
keywords. Reads from the query cache; run 'refg rebuild' if it is stale.

Example:
  refg search "variational inference"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	query := strings.Join(args, " ")
	records, err := db.Search(query, searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	if humanOutput {
		for _, r := range records {
			outputHuman("%s  %s\n", r.ID, truncateString(r.Title, ListTitleMaxLen))
			if len(r.Authors) > 0 {
				outputHuman("    %s", formatAuthorsShort(r.Authors, 3))
				if r.Year != 0 {
					outputHuman(" (%d)", r.Year)
				}
				outputHuman("\n")
			}
		}
	} else {
		outputJSON(records)
	}
	return nil
}
