package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refgraph/refgraph/internal/export"
	"github.com/refgraph/refgraph/internal/record"
)

func init() {
	exportCmd.AddCommand(exportBibtexCmd)
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records to external bibliography formats",
}

var exportBibtexCmd = &cobra.Command{
	Use:   "bibtex [id...]",
	Short: "Export records as BibTeX",
	Long: `Write BibTeX entries to stdout, for the given record IDs or for the
whole corpus when none are given.

Examples:
  refg export bibtex > library.bib
  refg export bibtex 3fa1b2c4d5e6f708`,
	RunE: runExportBibtex,
}

func runExportBibtex(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	store := newStore(repoRoot)

	var records []record.Record
	if len(args) == 0 {
		all, err := store.GetAllRecords()
		if err != nil {
			exitWithError(ExitError, "loading records: %v", err)
		}
		records = all
	} else {
		for _, id := range args {
			r, err := store.GetRecord(id)
			if err != nil {
				exitWithError(ExitError, "getting record %s: %v", id, err)
			}
			if r == nil {
				exitWithError(ExitError, "record not found: %s", id)
			}
			records = append(records, *r)
		}
	}

	// BibTeX is the output format itself; --human changes nothing here.
	fmt.Print(export.ToBibTeXList(records))
	return nil
}
