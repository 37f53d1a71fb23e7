package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/refgraph/refgraph/internal/importer"
	"github.com/refgraph/refgraph/internal/resolve"
)

func init() {
	importCmd.AddCommand(importPaperpileCmd)
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import records from external reference managers",
}

var importPaperpileCmd = &cobra.Command{
	Use:   "paperpile <file.json>",
	Short: "Import a Paperpile JSON export",
	Long: `Import records from a Paperpile JSON export. Every entry passes
through entity resolution, so records already in the corpus merge
instead of duplicating.

Example:
  refg import paperpile export.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImportPaperpile,
}

func runImportPaperpile(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	log := newLogger()
	store := newStore(repoRoot)

	data, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError(ExitError, "reading export: %v", err)
	}

	records, parseErrs := importer.ParsePaperpile(data)
	if len(records) == 0 && len(parseErrs) > 0 {
		exitWithError(ExitDataError, "no importable entries: %v", parseErrs[0])
	}

	resolver := resolve.New(store, cfg.NewScorer())
	res, err := importer.Ingest(resolver, records, parseErrs)
	if err != nil {
		exitWithError(ExitError, "importing: %v", err)
	}

	refreshCache(repoRoot, store, log)

	if humanOutput {
		outputHuman("Imported %d entries: %d created, %d merged into existing records\n",
			res.Parsed, res.Created, res.Merged)
		for _, e := range res.Errors {
			outputHuman("  error: %s\n", e)
		}
	} else {
		outputJSON(res)
	}
	return nil
}
