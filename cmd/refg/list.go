package main

import (
	"github.com/spf13/cobra"
)

var listLimit int

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", DefaultListLimit, "Maximum records to list")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List records from the query cache",
	Long: `List records ordered by title, reading from the SQLite query cache.

Run 'refg rebuild' first if the cache is stale or missing.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	records, err := db.ListAll(listLimit)
	if err != nil {
		exitWithError(ExitError, "listing records: %v", err)
	}

	if humanOutput {
		for _, r := range records {
			outputHuman("%s  %s", r.ID, truncateString(r.Title, ListTitleMaxLen))
			if r.Year != 0 {
				outputHuman(" (%d)", r.Year)
			}
			outputHuman("\n")
		}
	} else {
		outputJSON(records)
	}
	return nil
}
