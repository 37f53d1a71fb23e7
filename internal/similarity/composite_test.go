package similarity

import (
	"testing"

	"github.com/refgraph/refgraph/internal/record"
)

func TestScorer_Compare_SelfScore(t *testing.T) {
	r := record.Record{
		Title:   "Deep Learning for Phylogenetics",
		Authors: []string{"A. Smith", "B. Jones"},
		Year:    2020,
		DOI:     "10.1/x",
		URL:     "https://example.org/paper",
	}

	res := NewScorer().Compare(r, r)
	if !almostEqual(res.Score, 1.0) {
		t.Errorf("self-comparison score = %v, want 1.0", res.Score)
	}
	if res.Confidence != ConfidenceHigh {
		t.Errorf("confidence = %q, want high", res.Confidence)
	}
	if len(res.MatchedFields) != 5 {
		t.Errorf("matched fields = %v, want all 5", res.MatchedFields)
	}
}

func TestScorer_Compare_DOIMatchDominates(t *testing.T) {
	// Same DOI, trivially different title punctuation: composite must land
	// in the high band so the resolver merges rather than creating.
	a := record.Record{Title: "Deep Learning", Authors: []string{"A. Smith"}, Year: 2020, DOI: "10.1/x"}
	b := record.Record{Title: "Deep learning!", Authors: []string{"A. Smith"}, Year: 2020, DOI: "10.1/x"}

	res := NewScorer().Compare(a, b)
	if res.Score < ThresholdHigh {
		t.Errorf("score = %v, want >= %v", res.Score, ThresholdHigh)
	}
}

func TestScorer_Compare_UnconditionalDenominator(t *testing.T) {
	// Identical titles but nothing else: with the fixed denominator the
	// title alone contributes only its 0.40 weight.
	a := record.Record{Title: "Deep Learning"}
	b := record.Record{Title: "Deep Learning"}

	res := NewScorer().Compare(a, b)
	// Empty author lists are identical (1.0), so authors contribute too.
	if !almostEqual(res.Score, 0.65) {
		t.Errorf("score = %v, want 0.65 (title 0.40 + authors 0.25)", res.Score)
	}
	if res.Confidence != ConfidenceLow {
		t.Errorf("confidence = %q, want low", res.Confidence)
	}
}

func TestScorer_Compare_InclusionGate(t *testing.T) {
	// Title similarity at or below 0.3 is excluded from score and fields.
	a := record.Record{Title: "deep learning models", Authors: []string{"X"}}
	b := record.Record{Title: "bayesian trees inference sampling methods", Authors: []string{"Y"}}

	res := NewScorer().Compare(a, b)
	for _, f := range res.MatchedFields {
		if f == FieldTitle {
			t.Error("title should be gated out below 0.3 similarity")
		}
		if f == FieldAuthors {
			t.Error("authors should be gated out below 0.3 similarity")
		}
	}
	if !almostEqual(res.Score, 0.0) {
		t.Errorf("score = %v, want 0.0", res.Score)
	}
}

func TestScorer_Compare_YearZeroNeverMatches(t *testing.T) {
	a := record.Record{Title: "Paper A"}
	b := record.Record{Title: "Paper B"}

	res := NewScorer().Compare(a, b)
	for _, f := range res.MatchedFields {
		if f == FieldYear {
			t.Error("absent years (0) must not count as a year match")
		}
	}
}

func TestScorer_Compare_ConfidenceBands(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.95, ConfidenceHigh},
		{0.9, ConfidenceHigh},
		{0.89, ConfidenceMedium},
		{0.7, ConfidenceMedium},
		{0.69, ConfidenceLow},
		{0.0, ConfidenceLow},
	}
	for _, tt := range tests {
		if got := confidenceFor(tt.score); got != tt.want {
			t.Errorf("confidenceFor(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestScorer_WithLevenshteinTitles(t *testing.T) {
	// Word reordering: Jaccard scores 1.0, Levenshtein does not.
	a := record.Record{Title: "learning deep"}
	b := record.Record{Title: "deep learning"}

	jaccard := NewScorer().Compare(a, b)
	lev := NewScorer(WithTitleScorer(LevenshteinTitleSimilarity)).Compare(a, b)

	if !almostEqual(jaccard.Score, 0.65) {
		t.Errorf("jaccard score = %v, want 0.65", jaccard.Score)
	}
	if lev.Score >= jaccard.Score {
		t.Errorf("levenshtein score %v should be below jaccard %v for reordered words", lev.Score, jaccard.Score)
	}
}
