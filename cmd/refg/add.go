package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/refgraph/refgraph/internal/pdfmeta"
	"github.com/refgraph/refgraph/internal/record"
	"github.com/refgraph/refgraph/internal/resolve"
)

var addFlags struct {
	authors  []string
	year     int
	doi      string
	url      string
	abstract string
	venue    string
	keywords []string
	pdf      string
}

func init() {
	addCmd.Flags().StringArrayVarP(&addFlags.authors, "author", "a", nil, "Author name (repeatable)")
	addCmd.Flags().IntVarP(&addFlags.year, "year", "y", 0, "Publication year")
	addCmd.Flags().StringVar(&addFlags.doi, "doi", "", "DOI")
	addCmd.Flags().StringVar(&addFlags.url, "url", "", "URL")
	addCmd.Flags().StringVar(&addFlags.abstract, "abstract", "", "Abstract")
	addCmd.Flags().StringVar(&addFlags.venue, "venue", "", "Venue (journal or conference)")
	addCmd.Flags().StringArrayVarP(&addFlags.keywords, "keyword", "k", nil, "Keyword (repeatable)")
	addCmd.Flags().StringVar(&addFlags.pdf, "pdf", "", "PDF file to sniff title/DOI/year from")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a record, merging into an existing duplicate if found",
	Long: `Add a bibliographic record. Input is resolved against the corpus:
a near-certain duplicate merges into the existing record instead of
creating a new one.

With --pdf, the title, DOI, and year are sniffed from the PDF when not
given explicitly.

Examples:
  refg add "Deep Learning" -a "A. Smith" -y 2020 --doi 10.1/x
  refg add --pdf papers/smith2020.pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	log := newLogger()
	store := newStore(repoRoot)

	input := record.Record{
		Authors:  addFlags.authors,
		Year:     addFlags.year,
		DOI:      addFlags.doi,
		URL:      addFlags.url,
		Abstract: addFlags.abstract,
		Venue:    addFlags.venue,
		Keywords: addFlags.keywords,
		PDFPath:  addFlags.pdf,
		Source:   record.ImportSource{Type: "manual"},
	}
	if len(args) > 0 {
		input.Title = args[0]
	}

	if addFlags.pdf != "" {
		meta, err := pdfmeta.Sniff(addFlags.pdf)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		if input.Title == "" {
			input.Title = meta.Title
		}
		if input.DOI == "" {
			input.DOI = meta.DOI
		}
		if input.Year == 0 {
			input.Year = meta.Year
		}
		input.Source.Type = "pdf"
	}

	resolver := resolve.New(store, cfg.NewScorer())
	res, err := resolver.Resolve(input)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	refreshCache(repoRoot, store, log)

	if humanOutput {
		if res.IsNew {
			outputHuman("Created %s\n", res.ID)
		} else {
			outputHuman("Merged into existing record %s (fields: %s)\n",
				res.ID, strings.Join(res.MergedFields, ", "))
		}
	} else {
		outputJSON(res)
	}
	return nil
}
