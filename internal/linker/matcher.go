// Package linker discovers directed citation relationships between
// bibliographic records and maintains the corresponding edges.
package linker

import (
	"fmt"
	"sort"
	"strings"

	"github.com/refgraph/refgraph/internal/citation"
	"github.com/refgraph/refgraph/internal/record"
	"github.com/refgraph/refgraph/internal/similarity"
)

// Strategies controlling which match signals are considered.
const (
	StrategyAll          = "all"
	StrategyDOIOnly      = "doi-only"
	StrategyMetadataOnly = "metadata-only"
)

// Signal parameters. Unlike the composite duplicate scorer, the combined
// confidence divides by the weights of the signals that actually fired:
// citation inference rewards strong single signals instead of penalizing
// sparse metadata.
const (
	doiWeight     = 1.0
	doiConfidence = 0.95

	titleWeight    = 0.8
	titleThreshold = 0.85

	authorYearWeight = 0.7
	maxYearGap       = 1

	// MinConfidence is the engine's minimum acceptable combined
	// confidence for creating a citation edge.
	MinConfidence = 0.6
)

// Match is a candidate citation with its combined confidence and the
// signals that produced it.
type Match struct {
	Candidate  record.Record
	Confidence float64
	Signals    []string // doi, title, author-year
}

// ValidStrategy reports whether s names a known linking strategy.
func ValidStrategy(s string) bool {
	switch s {
	case StrategyAll, StrategyDOIOnly, StrategyMetadataOnly:
		return true
	}
	return false
}

// matchCandidate computes the citation confidence between the target and
// one candidate. Returns nil when no signal fires or the combined
// confidence falls below MinConfidence.
func matchCandidate(target, candidate record.Record, strategy string, titleFn similarity.TitleScorer) *Match {
	var weighted, weightSum float64
	var signals []string

	if strategy != StrategyMetadataOnly {
		if target.DOI != "" && target.DOI == candidate.DOI {
			weighted += doiConfidence * doiWeight
			weightSum += doiWeight
			signals = append(signals, "doi")
		}
	}

	if strategy != StrategyDOIOnly {
		if t := titleFn(target.Title, candidate.Title); t >= titleThreshold {
			weighted += t * titleWeight
			weightSum += titleWeight
			signals = append(signals, "title")
		}

		if conf, ok := authorYearConfidence(target, candidate); ok {
			weighted += conf * authorYearWeight
			weightSum += authorYearWeight
			signals = append(signals, "author-year")
		}
	}

	if weightSum == 0 {
		return nil
	}

	combined := weighted / weightSum
	if combined < MinConfidence {
		return nil
	}

	return &Match{Candidate: candidate, Confidence: combined, Signals: signals}
}

// authorYearConfidence fires when the records share at least one author
// and were published within a year of each other. The confidence scales
// with the shared-author fraction and gains a bonus for an exact year.
func authorYearConfidence(a, b record.Record) (float64, bool) {
	if a.Year == 0 || b.Year == 0 {
		return 0, false
	}
	gap := a.Year - b.Year
	if gap < 0 {
		gap = -gap
	}
	if gap > maxYearGap {
		return 0, false
	}

	common := similarity.CommonAuthorCount(a.Authors, b.Authors)
	if common == 0 {
		return 0, false
	}

	maxAuthors := len(a.Authors)
	if len(b.Authors) > maxAuthors {
		maxAuthors = len(b.Authors)
	}

	conf := float64(common) / float64(maxAuthors) * 0.8
	if gap == 0 {
		conf += 0.2
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf, true
}

// classify maps a match to a citation type. High confidence implies a
// direct citation; the author/year signal alone suggests shared
// methodology rather than an explicit reference.
func classify(m *Match) string {
	switch {
	case m.Confidence >= 0.9:
		return citation.TypeDirect
	case m.Confidence >= 0.7:
		return citation.TypeSupportive
	case m.hasSignal("author-year"):
		return citation.TypeMethodological
	default:
		return citation.TypeBackground
	}
}

func (m *Match) hasSignal(name string) bool {
	for _, s := range m.Signals {
		if s == name {
			return true
		}
	}
	return false
}

// evidence renders the fired signals as a human-readable context string.
func (m *Match) evidence() string {
	return fmt.Sprintf("matched by %s (confidence %.2f)",
		strings.Join(m.Signals, "+"), m.Confidence)
}

// sortMatches orders matches by confidence descending, breaking ties by
// candidate ID so results are deterministic.
func sortMatches(matches []*Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return matches[i].Candidate.ID < matches[j].Candidate.ID
	})
}
