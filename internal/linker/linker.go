package linker

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/refgraph/refgraph/internal/citation"
	"github.com/refgraph/refgraph/internal/similarity"
	"github.com/refgraph/refgraph/internal/storage"
)

// LinkResult summarizes citation discovery for one target record.
type LinkResult struct {
	TargetID          string  `json:"target_id"`
	TotalCandidates   int     `json:"total_candidates"`
	PotentialMatches  int     `json:"potential_matches"`
	CreatedLinks      int     `json:"created_links"`
	SkippedLinks      int     `json:"skipped_links"`
	AverageConfidence float64 `json:"average_confidence"`
}

// ItemError records a per-record failure during a batch run.
type ItemError struct {
	ID  string `json:"id"`
	Err string `json:"error"`
}

// BatchResult summarizes a corpus-wide linking run.
type BatchResult struct {
	RecordsProcessed int         `json:"records_processed"`
	PotentialMatches int         `json:"potential_matches"`
	CreatedLinks     int         `json:"created_links"`
	SkippedLinks     int         `json:"skipped_links"`
	Errors           []ItemError `json:"errors,omitempty"`
}

// ProgressFunc is invoked after each record in a batch run.
type ProgressFunc func(recordID string, done, total int)

// Linker discovers citation edges for records using configurable match
// strategies.
type Linker struct {
	store   storage.Store
	titleFn similarity.TitleScorer
	log     *logrus.Logger

	// limiter throttles batch runs to bound burst load on the store.
	// Nil means unthrottled.
	limiter *rate.Limiter
}

// New returns a Linker. A nil logger discards log output.
func New(store storage.Store, log *logrus.Logger) *Linker {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel)
	}
	return &Linker{store: store, titleFn: similarity.TitleSimilarity, log: log}
}

// SetLimiter installs a rate limiter consulted once per record during
// LinkAll. This is backpressure on the store, not concurrency control.
func (l *Linker) SetLimiter(limiter *rate.Limiter) {
	l.limiter = limiter
}

// Link discovers citations from the target record to the rest of the
// corpus and creates edges for matches at or above MinConfidence.
//
// Edge creation is check-then-insert, not atomic: concurrent Link calls on
// the same target must be serialized by the caller.
func (l *Linker) Link(targetID, strategy string) (*LinkResult, error) {
	if !ValidStrategy(strategy) {
		return nil, fmt.Errorf("linking citations for %q: unknown strategy %q", targetID, strategy)
	}

	target, err := l.store.GetRecord(targetID)
	if err != nil {
		return nil, fmt.Errorf("linking citations for %q: %w", targetID, err)
	}
	if target == nil {
		return nil, fmt.Errorf("linking citations for %q: %w", targetID, storage.ErrNotFound)
	}

	all, err := l.store.GetAllRecords()
	if err != nil {
		return nil, fmt.Errorf("linking citations for %q: loading candidates: %w", targetID, err)
	}

	result := &LinkResult{TargetID: targetID}
	var matches []*Match
	for _, candidate := range all {
		if candidate.ID == targetID {
			continue // No self-citation
		}
		result.TotalCandidates++
		if m := matchCandidate(*target, candidate, strategy, l.titleFn); m != nil {
			matches = append(matches, m)
		}
	}
	sortMatches(matches)
	result.PotentialMatches = len(matches)

	var confSum float64
	for _, m := range matches {
		confSum += m.Confidence

		existing, err := l.store.GetEdge(targetID, m.Candidate.ID)
		if err != nil {
			return nil, fmt.Errorf("linking citations for %q: checking edge to %q: %w", targetID, m.Candidate.ID, err)
		}
		if existing != nil {
			result.SkippedLinks++
			continue
		}

		edge := citation.Edge{
			SourceID:        targetID,
			TargetID:        m.Candidate.ID,
			CitationType:    classify(m),
			DiscoveryMethod: citation.DiscoveryAutomatic,
			Confidence:      m.Confidence,
			IsVerified:      m.Confidence >= citation.VerifiedThreshold,
			Context:         m.evidence(),
		}
		if err := edge.ValidateForCreate(); err != nil {
			return nil, fmt.Errorf("linking citations for %q: %w", targetID, err)
		}
		if err := l.store.InsertEdge(edge); err != nil {
			return nil, fmt.Errorf("linking citations for %q: inserting edge to %q: %w", targetID, m.Candidate.ID, err)
		}
		result.CreatedLinks++
	}

	if len(matches) > 0 {
		result.AverageConfidence = confSum / float64(len(matches))
	}
	return result, nil
}

// LinkAll runs Link for every record in the corpus sequentially. Per-record
// failures are collected and the run continues; only a failure to load the
// corpus itself aborts. The optional progress callback fires after each
// record, and the configured limiter paces the loop.
func (l *Linker) LinkAll(ctx context.Context, strategy string, progress ProgressFunc) (*BatchResult, error) {
	if !ValidStrategy(strategy) {
		return nil, fmt.Errorf("linking all citations: unknown strategy %q", strategy)
	}

	records, err := l.store.GetAllRecords()
	if err != nil {
		return nil, fmt.Errorf("linking all citations: loading records: %w", err)
	}

	batch := &BatchResult{}
	for i, r := range records {
		if l.limiter != nil {
			if err := l.limiter.Wait(ctx); err != nil {
				return batch, fmt.Errorf("linking all citations: %w", err)
			}
		}

		res, err := l.Link(r.ID, strategy)
		if err != nil {
			batch.Errors = append(batch.Errors, ItemError{ID: r.ID, Err: err.Error()})
			l.log.WithFields(logrus.Fields{"id": r.ID}).WithError(err).Warn("linking failed")
		} else {
			batch.PotentialMatches += res.PotentialMatches
			batch.CreatedLinks += res.CreatedLinks
			batch.SkippedLinks += res.SkippedLinks
		}
		batch.RecordsProcessed++

		if progress != nil {
			progress(r.ID, i+1, len(records))
		}
	}

	l.log.WithFields(logrus.Fields{
		"records": batch.RecordsProcessed,
		"created": batch.CreatedLinks,
		"skipped": batch.SkippedLinks,
		"errors":  len(batch.Errors),
	}).Info("batch linking finished")

	return batch, nil
}
