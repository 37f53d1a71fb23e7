package linker

import (
	"math"
	"testing"

	"github.com/refgraph/refgraph/internal/citation"
	"github.com/refgraph/refgraph/internal/record"
	"github.com/refgraph/refgraph/internal/similarity"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMatchCandidate_DOISignal(t *testing.T) {
	target := record.Record{ID: "t", Title: "Alpha", DOI: "10.1/x"}
	candidate := record.Record{ID: "c", Title: "Unrelated Title", DOI: "10.1/x"}

	m := matchCandidate(target, candidate, StrategyAll, similarity.TitleSimilarity)
	if m == nil {
		t.Fatal("expected a match")
	}
	if !almostEqual(m.Confidence, doiConfidence) {
		t.Errorf("confidence = %v, want %v", m.Confidence, doiConfidence)
	}
	if !m.hasSignal("doi") {
		t.Errorf("signals = %v, want doi", m.Signals)
	}
}

func TestMatchCandidate_AuthorYearSignal(t *testing.T) {
	// One common author out of two, same year:
	// confidence = 1/2 * 0.8 + 0.2 = 0.6; only signal fired, so the
	// conditional denominator keeps the combined confidence at 0.6.
	target := record.Record{ID: "t", Title: "Alpha Beta", Authors: []string{"A. Smith"}, Year: 2020}
	candidate := record.Record{ID: "c", Title: "Gamma Delta", Authors: []string{"A. Smith", "B. Jones"}, Year: 2020}

	m := matchCandidate(target, candidate, StrategyAll, similarity.TitleSimilarity)
	if m == nil {
		t.Fatal("expected a match at the 0.6 boundary")
	}
	if !almostEqual(m.Confidence, 0.6) {
		t.Errorf("confidence = %v, want 0.6", m.Confidence)
	}
	if classify(m) != citation.TypeMethodological {
		t.Errorf("classify = %q, want methodological", classify(m))
	}
}

func TestMatchCandidate_AuthorYearGapBonus(t *testing.T) {
	// Adjacent years fire the signal but lose the exact-year bonus:
	// 1/1 * 0.8 + 0 = 0.8.
	target := record.Record{ID: "t", Title: "Alpha", Authors: []string{"A. Smith"}, Year: 2020}
	candidate := record.Record{ID: "c", Title: "Beta", Authors: []string{"A. Smith"}, Year: 2021}

	m := matchCandidate(target, candidate, StrategyAll, similarity.TitleSimilarity)
	if m == nil {
		t.Fatal("expected a match")
	}
	if !almostEqual(m.Confidence, 0.8) {
		t.Errorf("confidence = %v, want 0.8", m.Confidence)
	}
	if classify(m) != citation.TypeSupportive {
		t.Errorf("classify = %q, want supportive", classify(m))
	}
}

func TestMatchCandidate_YearGapTooLarge(t *testing.T) {
	target := record.Record{ID: "t", Title: "Alpha", Authors: []string{"A. Smith"}, Year: 2020}
	candidate := record.Record{ID: "c", Title: "Beta", Authors: []string{"A. Smith"}, Year: 2018}

	if m := matchCandidate(target, candidate, StrategyAll, similarity.TitleSimilarity); m != nil {
		t.Errorf("expected no match for a two-year gap, got %+v", m)
	}
}

func TestMatchCandidate_MissingYearNeverFiresAuthorSignal(t *testing.T) {
	target := record.Record{ID: "t", Title: "Alpha", Authors: []string{"A. Smith"}}
	candidate := record.Record{ID: "c", Title: "Beta", Authors: []string{"A. Smith"}, Year: 2020}

	if m := matchCandidate(target, candidate, StrategyAll, similarity.TitleSimilarity); m != nil {
		t.Errorf("expected no match without both years, got %+v", m)
	}
}

func TestMatchCandidate_BelowMinConfidenceDropped(t *testing.T) {
	// 1/3 * 0.8 = 0.267 with the year bonus lost: below 0.6.
	target := record.Record{ID: "t", Title: "Alpha", Authors: []string{"A. Smith", "B. Jones", "C. Brown"}, Year: 2020}
	candidate := record.Record{ID: "c", Title: "Beta", Authors: []string{"A. Smith"}, Year: 2021}

	if m := matchCandidate(target, candidate, StrategyAll, similarity.TitleSimilarity); m != nil {
		t.Errorf("expected confidence below 0.6 to be dropped, got %v", m.Confidence)
	}
}

func TestMatchCandidate_TitleSignal(t *testing.T) {
	// 12 shared words, 1 unique on each side: Jaccard 12/14 ≈ 0.857,
	// above the 0.85 title threshold. Combined = 0.857 → supportive.
	base := "alpha beta gamma delta epsilon zeta eta theta iota kappa lambda mu"
	target := record.Record{ID: "t", Title: base + " nu"}
	candidate := record.Record{ID: "c", Title: base + " xi"}

	m := matchCandidate(target, candidate, StrategyAll, similarity.TitleSimilarity)
	if m == nil {
		t.Fatal("expected a title match")
	}
	if !m.hasSignal("title") {
		t.Errorf("signals = %v, want title", m.Signals)
	}
	if !almostEqual(m.Confidence, 12.0/14.0) {
		t.Errorf("confidence = %v, want %v", m.Confidence, 12.0/14.0)
	}
	if classify(m) != citation.TypeSupportive {
		t.Errorf("classify = %q, want supportive", classify(m))
	}
}

func TestMatchCandidate_DOIOnlyStrategyIgnoresMetadata(t *testing.T) {
	target := record.Record{ID: "t", Title: "Same Exact Title", Authors: []string{"A. Smith"}, Year: 2020}
	candidate := record.Record{ID: "c", Title: "Same Exact Title", Authors: []string{"A. Smith"}, Year: 2020}

	if m := matchCandidate(target, candidate, StrategyDOIOnly, similarity.TitleSimilarity); m != nil {
		t.Errorf("doi-only strategy must ignore title/author signals, got %+v", m)
	}
}

func TestMatchCandidate_MetadataOnlyStrategyIgnoresDOI(t *testing.T) {
	target := record.Record{ID: "t", Title: "Alpha", DOI: "10.1/x"}
	candidate := record.Record{ID: "c", Title: "Omega", DOI: "10.1/x"}

	if m := matchCandidate(target, candidate, StrategyMetadataOnly, similarity.TitleSimilarity); m != nil {
		t.Errorf("metadata-only strategy must ignore the DOI signal, got %+v", m)
	}
}

func TestClassify_HighConfidenceIsDirect(t *testing.T) {
	m := &Match{Confidence: 0.95, Signals: []string{"doi"}}
	if classify(m) != citation.TypeDirect {
		t.Errorf("classify = %q, want direct", classify(m))
	}
}

func TestClassify_LowWithoutAuthorYearIsBackground(t *testing.T) {
	m := &Match{Confidence: 0.65, Signals: []string{"title"}}
	if classify(m) != citation.TypeBackground {
		t.Errorf("classify = %q, want background", classify(m))
	}
}

func TestSortMatches_Deterministic(t *testing.T) {
	matches := []*Match{
		{Candidate: record.Record{ID: "b"}, Confidence: 0.8},
		{Candidate: record.Record{ID: "a"}, Confidence: 0.8},
		{Candidate: record.Record{ID: "c"}, Confidence: 0.9},
	}
	sortMatches(matches)

	got := []string{matches[0].Candidate.ID, matches[1].Candidate.ID, matches[2].Candidate.ID}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
