package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/refgraph/refgraph/internal/config"
	"github.com/refgraph/refgraph/internal/linker"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change repository configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write it back to config.yml.

Supported keys:
  pdf_root                    Path to the PDF folder
  similarity.title_scorer     jaccard or levenshtein
  similarity.weights.<field>  title, authors, doi, year, url (0..1)
  linker.strategy             all, doi-only, metadata-only
  linker.rate_per_second      Batch linking pace (0 = unthrottled)

Example:
  refg config set similarity.title_scorer levenshtein`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

// UpdateResponse is the response for config set.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	if humanOutput {
		outputHuman("pdf_root:                %s\n", cfg.PDFRoot)
		outputHuman("similarity.title_scorer: %s\n", cfg.Similarity.TitleScorer)
		w := cfg.Similarity.Weights
		outputHuman("similarity.weights:      title=%.2f authors=%.2f doi=%.2f year=%.2f url=%.2f\n",
			w.Title, w.Authors, w.DOI, w.Year, w.URL)
		outputHuman("linker.strategy:         %s\n", cfg.Linker.Strategy)
		outputHuman("linker.rate_per_second:  %g\n", cfg.Linker.RatePerSecond)
	} else {
		outputJSON(cfg)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	key, value := args[0], args[1]

	switch key {
	case "pdf_root":
		if err := config.ValidatePDFRoot(value); err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		cfg.PDFRoot = value
	case "similarity.title_scorer":
		cfg.Similarity.TitleScorer = value
	case "similarity.weights.title":
		cfg.Similarity.Weights.Title = mustParseFloat(value)
	case "similarity.weights.authors":
		cfg.Similarity.Weights.Authors = mustParseFloat(value)
	case "similarity.weights.doi":
		cfg.Similarity.Weights.DOI = mustParseFloat(value)
	case "similarity.weights.year":
		cfg.Similarity.Weights.Year = mustParseFloat(value)
	case "similarity.weights.url":
		cfg.Similarity.Weights.URL = mustParseFloat(value)
	case "linker.strategy":
		if !linker.ValidStrategy(value) {
			exitWithError(ExitDataError, "unknown strategy: %s", value)
		}
		cfg.Linker.Strategy = value
	case "linker.rate_per_second":
		cfg.Linker.RatePerSecond = mustParseFloat(value)
	default:
		exitWithError(ExitError, "unknown config key: %s", key)
	}

	if err := cfg.Validate(); err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if err := cfg.Save(repoRoot); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("Set %s = %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
	}
	return nil
}

func mustParseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		exitWithError(ExitDataError, "not a number: %s", s)
	}
	return f
}
