package main

import (
	"github.com/spf13/cobra"

	"github.com/refgraph/refgraph/internal/config"
	"github.com/refgraph/refgraph/internal/pdfmeta"
)

func init() {
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a record's PDF in the system viewer",
	Long: `Open the PDF associated with a record. The record's pdf_path is
resolved against the configured pdf_root.

Example:
  refg open 3fa1b2c4d5e6f708`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	store := newStore(repoRoot)

	r, err := store.GetRecord(args[0])
	if err != nil {
		exitWithError(ExitError, "getting record: %v", err)
	}
	if r == nil {
		exitWithError(ExitError, "record not found: %s", args[0])
	}

	fullPath, err := pdfmeta.ResolvePath(config.ExpandPath(cfg.PDFRoot), r.PDFPath)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := pdfmeta.OpenViewer(fullPath); err != nil {
		exitWithError(ExitError, "opening PDF: %v", err)
	}

	if humanOutput {
		outputHuman("Opened %s\n", fullPath)
	} else {
		outputJSON(StatusResponse{Status: "opened", Path: fullPath})
	}
	return nil
}
