package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/refgraph/refgraph/internal/similarity"
)

// Title scorer selection values.
const (
	TitleScorerJaccard     = "jaccard"
	TitleScorerLevenshtein = "levenshtein"
)

// ErrBadWeight is returned when a similarity weight falls outside [0,1].
var ErrBadWeight = errors.New("similarity weight must be in [0,1]")

// Config is the repository configuration stored in .refgraph/config.yml.
// Every field has a working default; an absent file is a valid config.
type Config struct {
	PDFRoot string `yaml:"pdf_root,omitempty"` // Absolute path to the PDF folder

	Similarity SimilaritySettings `yaml:"similarity"`
	Linker     LinkerSettings     `yaml:"linker"`
}

// SimilaritySettings tunes the duplicate scorer.
type SimilaritySettings struct {
	Weights     similarity.Weights `yaml:"weights"`
	TitleScorer string             `yaml:"title_scorer,omitempty"` // jaccard (default) or levenshtein
}

// LinkerSettings tunes batch citation linking.
type LinkerSettings struct {
	Strategy      string  `yaml:"strategy,omitempty"`        // default: all
	RatePerSecond float64 `yaml:"rate_per_second,omitempty"` // 0 = unthrottled
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Similarity: SimilaritySettings{
			Weights:     similarity.DefaultWeights(),
			TitleScorer: TitleScorerJaccard,
		},
		Linker: LinkerSettings{Strategy: "all"},
	}
}

// Load reads the repository configuration, returning defaults when the
// file does not exist.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks that every tunable is in range.
func (c *Config) Validate() error {
	w := c.Similarity.Weights
	for name, v := range map[string]float64{
		"title":   w.Title,
		"authors": w.Authors,
		"doi":     w.DOI,
		"year":    w.Year,
		"url":     w.URL,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s = %v", ErrBadWeight, name, v)
		}
	}

	switch c.Similarity.TitleScorer {
	case "", TitleScorerJaccard, TitleScorerLevenshtein:
	default:
		return fmt.Errorf("unknown title_scorer: %s (valid: %s, %s)",
			c.Similarity.TitleScorer, TitleScorerJaccard, TitleScorerLevenshtein)
	}

	if c.Linker.RatePerSecond < 0 {
		return fmt.Errorf("rate_per_second must be non-negative, got %v", c.Linker.RatePerSecond)
	}
	return nil
}

// TitleFn returns the configured title similarity function.
func (c *Config) TitleFn() similarity.TitleScorer {
	if c.Similarity.TitleScorer == TitleScorerLevenshtein {
		return similarity.LevenshteinTitleSimilarity
	}
	return similarity.TitleSimilarity
}

// NewScorer builds a composite scorer from the configured weights and
// title function.
func (c *Config) NewScorer() *similarity.Scorer {
	return similarity.NewScorer(
		similarity.WithWeights(c.Similarity.Weights),
		similarity.WithTitleScorer(c.TitleFn()),
	)
}

// ValidatePDFRoot checks that the PDF root path exists and is a directory.
// An empty path is allowed and means "not configured".
func ValidatePDFRoot(path string) error {
	if path == "" {
		return nil
	}

	expanded := ExpandPath(path)
	info, err := os.Stat(expanded)
	if err != nil {
		return fmt.Errorf("path does not exist: %s", expanded)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", expanded)
	}
	return nil
}
