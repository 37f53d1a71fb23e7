package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/refgraph/refgraph/internal/record"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a single record by ID",
	Long: `Get a single record by its ID.

Example:
  refg get 3fa1b2c4d5e6f708`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	store := newStore(repoRoot)

	id := args[0]
	r, err := store.GetRecord(id)
	if err != nil {
		exitWithError(ExitError, "getting record: %v", err)
	}
	if r == nil {
		exitWithError(ExitError, "record not found: %s", id)
	}

	if humanOutput {
		printRecordDetail(*r)
	} else {
		outputJSON(r)
	}
	return nil
}

func printRecordDetail(r record.Record) {
	fmt.Println(r.ID)
	fmt.Println(strings.Repeat("=", TextWrapWidth))
	fmt.Println()

	fmt.Printf("Title:    %s\n", wrapText(r.Title, TextWrapWidth, "          "))

	if len(r.Authors) > 0 {
		fmt.Printf("Authors:  %s\n", wrapText(strings.Join(r.Authors, ", "), TextWrapWidth, "          "))
	}
	if r.Venue != "" {
		fmt.Printf("Venue:    %s\n", r.Venue)
	}
	if r.Year != 0 {
		fmt.Printf("Year:     %d\n", r.Year)
	}
	if r.DOI != "" {
		fmt.Printf("DOI:      %s\n", r.DOI)
	}
	if r.URL != "" {
		fmt.Printf("URL:      %s\n", r.URL)
	}
	if len(r.Keywords) > 0 {
		fmt.Printf("Keywords: %s\n", strings.Join(r.Keywords, ", "))
	}
	if r.Abstract != "" {
		fmt.Println()
		fmt.Println("Abstract:")
		fmt.Printf("  %s\n", wrapText(r.Abstract, TextWrapWidth, "  "))
	}
	if r.PDFPath != "" {
		fmt.Println()
		fmt.Printf("PDF:      %s\n", r.PDFPath)
	}
}
