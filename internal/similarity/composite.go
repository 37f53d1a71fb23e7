package similarity

import (
	"github.com/refgraph/refgraph/internal/record"
)

// Confidence levels for a composite score.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Field names reported in Result.MatchedFields.
const (
	FieldTitle   = "title"
	FieldAuthors = "authors"
	FieldDOI     = "doi"
	FieldYear    = "year"
	FieldURL     = "url"
)

// inclusionGate is the minimum raw title/author similarity for the field to
// contribute to the composite score.
const inclusionGate = 0.3

// Weights holds the per-field weights of the composite scorer. The
// denominator of the composite score is always the sum of all five weights,
// whether or not a field contributed. With the default weights the
// denominator is exactly 1.0.
type Weights struct {
	Title   float64 `yaml:"title"`
	Authors float64 `yaml:"authors"`
	DOI     float64 `yaml:"doi"`
	Year    float64 `yaml:"year"`
	URL     float64 `yaml:"url"`
}

// DefaultWeights returns the standard composite weights.
func DefaultWeights() Weights {
	return Weights{Title: 0.40, Authors: 0.25, DOI: 0.20, Year: 0.10, URL: 0.05}
}

// total returns the unconditional denominator.
func (w Weights) total() float64 {
	return w.Title + w.Authors + w.DOI + w.Year + w.URL
}

// Result is the ephemeral outcome of comparing an input record against one
// candidate. It is consumed immediately by the resolver or citation matcher
// and never persisted.
type Result struct {
	Candidate     record.Record
	Score         float64
	MatchedFields []string
	Confidence    string
}

// TitleScorer computes a [0,1] similarity between two titles. The default is
// Jaccard over word sets; a Levenshtein-based scorer is available as an
// opt-in alternative.
type TitleScorer func(a, b string) float64

// Scorer computes composite similarity scores between records.
type Scorer struct {
	weights Weights
	titleFn TitleScorer
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights overrides the default field weights.
func WithWeights(w Weights) Option {
	return func(s *Scorer) { s.weights = w }
}

// WithTitleScorer overrides the title similarity function.
func WithTitleScorer(fn TitleScorer) Option {
	return func(s *Scorer) { s.titleFn = fn }
}

// NewScorer returns a Scorer with default weights and Jaccard title scoring.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		weights: DefaultWeights(),
		titleFn: TitleSimilarity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compare computes the weighted composite similarity between an input record
// and a candidate.
//
// Title and author similarities contribute only when the raw similarity
// exceeds 0.3; DOI, year, and URL contribute their full weight on exact
// match. The denominator always counts all five weights, so a record with
// sparse metadata cannot reach a high score on title alone.
func (s *Scorer) Compare(input, candidate record.Record) Result {
	res := Result{Candidate: candidate}
	var sum float64

	if t := s.titleFn(input.Title, candidate.Title); t > inclusionGate {
		sum += t * s.weights.Title
		res.MatchedFields = append(res.MatchedFields, FieldTitle)
	}

	if a := AuthorSimilarity(input.Authors, candidate.Authors); a > inclusionGate {
		sum += a * s.weights.Authors
		res.MatchedFields = append(res.MatchedFields, FieldAuthors)
	}

	if input.DOI != "" && input.DOI == candidate.DOI {
		sum += s.weights.DOI
		res.MatchedFields = append(res.MatchedFields, FieldDOI)
	}

	if input.Year != 0 && input.Year == candidate.Year {
		sum += s.weights.Year
		res.MatchedFields = append(res.MatchedFields, FieldYear)
	}

	if input.URL != "" && input.URL == candidate.URL {
		sum += s.weights.URL
		res.MatchedFields = append(res.MatchedFields, FieldURL)
	}

	res.Score = sum / s.weights.total()
	res.Confidence = confidenceFor(res.Score)
	return res
}

// confidenceFor maps a score to a confidence level.
func confidenceFor(score float64) string {
	switch {
	case score >= ThresholdHigh:
		return ConfidenceHigh
	case score >= ThresholdMedium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
