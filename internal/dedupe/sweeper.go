// Package dedupe partitions the record set into duplicate groups and
// reduces each group to a single surviving record.
package dedupe

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/refgraph/refgraph/internal/record"
	"github.com/refgraph/refgraph/internal/similarity"
	"github.com/refgraph/refgraph/internal/storage"
)

// ItemError records a per-record failure during a sweep. The sweep
// continues past individual failures.
type ItemError struct {
	ID  string `json:"id"`
	Err string `json:"error"`
}

// Result summarizes one sweep run.
type Result struct {
	DuplicateGroupsFound int         `json:"duplicate_groups_found"`
	RecordsRemoved       int         `json:"records_removed"`
	Errors               []ItemError `json:"errors,omitempty"`
}

// ProgressFunc is invoked after each record has been considered for
// grouping, with counts of processed and total records.
type ProgressFunc func(done, total int)

// Sweeper finds and collapses duplicate groups across the whole store.
// Grouping compares every pair of records once, so a sweep is O(n²) and is
// meant to run periodically, not on every write.
type Sweeper struct {
	store    storage.Store
	scorer   *similarity.Scorer
	log      *logrus.Logger
	progress ProgressFunc
}

// New returns a Sweeper. A nil scorer gets the default composite scorer;
// a nil logger discards log output.
func New(store storage.Store, scorer *similarity.Scorer, log *logrus.Logger) *Sweeper {
	if scorer == nil {
		scorer = similarity.NewScorer()
	}
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel)
	}
	return &Sweeper{store: store, scorer: scorer, log: log}
}

// OnProgress registers a callback invoked as the sweep advances.
func (s *Sweeper) OnProgress(fn ProgressFunc) {
	s.progress = fn
}

// Sweep partitions all records into duplicate groups (pairs scoring at or
// above the high threshold) and deletes every group member except the most
// complete one. Running Sweep twice in a row without intervening writes
// finds no groups on the second run.
func (s *Sweeper) Sweep() (*Result, error) {
	records, err := s.store.GetAllRecords()
	if err != nil {
		return nil, fmt.Errorf("sweeping duplicates: loading records: %w", err)
	}

	result := &Result{}
	processed := make([]bool, len(records))

	for i := range records {
		if processed[i] {
			continue
		}
		processed[i] = true

		group := []int{i}
		for j := range records {
			if processed[j] {
				continue
			}
			res := s.scorer.Compare(records[i], records[j])
			if res.Score >= similarity.ThresholdHigh {
				group = append(group, j)
				processed[j] = true
			}
		}

		if s.progress != nil {
			s.progress(i+1, len(records))
		}
		if len(group) < 2 {
			continue
		}

		result.DuplicateGroupsFound++
		primary := pickPrimary(records, group)

		s.log.WithFields(logrus.Fields{
			"group_size": len(group),
			"primary":    records[primary].ID,
		}).Info("duplicate group found")

		for _, idx := range group {
			if idx == primary {
				continue
			}
			id := records[idx].ID
			if err := s.store.DeleteRecord(id); err != nil {
				result.Errors = append(result.Errors, ItemError{ID: id, Err: err.Error()})
				s.log.WithFields(logrus.Fields{"id": id}).WithError(err).Warn("failed to remove duplicate")
				continue
			}
			result.RecordsRemoved++
		}
	}

	return result, nil
}

// pickPrimary selects the most complete record of a group; the first seen
// wins ties.
func pickPrimary(records []record.Record, group []int) int {
	best := group[0]
	bestScore := Completeness(records[best])
	for _, idx := range group[1:] {
		if score := Completeness(records[idx]); score > bestScore {
			best = idx
			bestScore = score
		}
	}
	return best
}

// Completeness scores how much metadata a record carries. Title and
// authors weigh double; every other populated field adds one point.
func Completeness(r record.Record) int {
	score := 0
	if r.Title != "" {
		score += 2
	}
	if len(r.Authors) > 0 {
		score += 2
	}
	if r.Abstract != "" {
		score++
	}
	if r.DOI != "" {
		score++
	}
	if r.URL != "" {
		score++
	}
	if r.Year != 0 {
		score++
	}
	if r.Venue != "" {
		score++
	}
	if len(r.Keywords) > 0 {
		score++
	}
	if r.PDFPath != "" {
		score++
	}
	return score
}
