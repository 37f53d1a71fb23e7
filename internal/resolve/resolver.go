// Package resolve decides whether an incoming bibliographic record is a
// duplicate of, a near-duplicate of, or distinct from the existing records,
// and merges or creates accordingly.
package resolve

import (
	"fmt"

	"github.com/refgraph/refgraph/internal/record"
	"github.com/refgraph/refgraph/internal/similarity"
	"github.com/refgraph/refgraph/internal/storage"
)

// Operations reported in a Result.
const (
	OpCreated = "created"
	OpMerged  = "merged"
)

// Result describes the outcome of resolving one input record.
type Result struct {
	ID           string   `json:"id"`
	IsNew        bool     `json:"is_new"`
	Operation    string   `json:"operation"`
	MergedFields []string `json:"merged_fields,omitempty"`

	// DuplicateScore is set when the input landed in the medium band:
	// a new record was created, but it may duplicate an existing one.
	DuplicateScore float64 `json:"duplicate_score,omitempty"`
}

// Resolver classifies incoming records against the existing record set.
type Resolver struct {
	store  storage.Store
	scorer *similarity.Scorer
}

// New returns a Resolver using the given store and scorer. A nil scorer
// gets the default composite scorer.
func New(store storage.Store, scorer *similarity.Scorer) *Resolver {
	if scorer == nil {
		scorer = similarity.NewScorer()
	}
	return &Resolver{store: store, scorer: scorer}
}

// Resolve classifies the input record and persists the outcome:
//
//   - a candidate scores in the high band (>= 0.9): merge the input into it,
//   - a candidate scores in the medium band [0.7, 0.9): create the input as
//     a new record but report the score so the caller can flag it,
//   - otherwise: create a new record.
//
// Resolution against existing records and the subsequent write are not one
// atomic step; concurrent resolves of the same input must be serialized by
// the caller.
func (r *Resolver) Resolve(input record.Record) (*Result, error) {
	if err := input.ValidateForCreate(); err != nil {
		return nil, fmt.Errorf("resolving record: %w", err)
	}

	existing, err := r.store.GetAllRecords()
	if err != nil {
		return nil, fmt.Errorf("resolving record: loading existing records: %w", err)
	}

	best := r.bestCandidate(input, existing)

	if best != nil && best.Score >= similarity.ThresholdHigh {
		return r.merge(input, best.Candidate)
	}

	id, err := r.store.InsertRecord(input)
	if err != nil {
		return nil, fmt.Errorf("resolving record: %w", err)
	}

	res := &Result{ID: id, IsNew: true, Operation: OpCreated}
	if best != nil && best.Score >= similarity.ThresholdMedium {
		res.DuplicateScore = best.Score
	}
	return res, nil
}

// bestCandidate scores the input against every existing record and returns
// the strongest candidate at or above the low threshold, or nil. Ties are
// broken by creation order: the earliest record wins, which keeps
// resolution deterministic for identical scores.
func (r *Resolver) bestCandidate(input record.Record, existing []record.Record) *similarity.Result {
	var best *similarity.Result
	for _, candidate := range existing {
		res := r.scorer.Compare(input, candidate)
		if res.Score < similarity.ThresholdLow {
			continue
		}
		if best == nil || res.Score > best.Score {
			r := res
			best = &r
		}
	}
	return best
}

// mergeableFields is the fixed set of fields eligible for auto-fill during
// a merge. A field is copied from the input only when the existing record
// has no value for it.
var mergeableFields = []string{"abstract", "doi", "url", "pdf_path"}

// merge folds the input into an existing duplicate: empty fields are filled
// from the input, keywords are unioned, and everything else on the existing
// record is left untouched.
func (r *Resolver) merge(input, existing record.Record) (*Result, error) {
	merged := existing
	var changed []string

	for _, field := range mergeableFields {
		switch field {
		case "abstract":
			if merged.Abstract == "" && input.Abstract != "" {
				merged.Abstract = input.Abstract
				changed = append(changed, field)
			}
		case "doi":
			if merged.DOI == "" && input.DOI != "" {
				merged.DOI = input.DOI
				changed = append(changed, field)
			}
		case "url":
			if merged.URL == "" && input.URL != "" {
				merged.URL = input.URL
				changed = append(changed, field)
			}
		case "pdf_path":
			if merged.PDFPath == "" && input.PDFPath != "" {
				merged.PDFPath = input.PDFPath
				changed = append(changed, field)
			}
		}
	}

	for _, kw := range input.Keywords {
		if !merged.HasKeyword(kw) {
			merged.Keywords = append(merged.Keywords, kw)
			if len(changed) == 0 || changed[len(changed)-1] != "keywords" {
				changed = append(changed, "keywords")
			}
		}
	}

	if len(changed) > 0 {
		if err := r.store.UpdateRecord(existing.ID, merged); err != nil {
			return nil, fmt.Errorf("merging into record %q: %w", existing.ID, err)
		}
	}

	return &Result{
		ID:           existing.ID,
		IsNew:        false,
		Operation:    OpMerged,
		MergedFields: changed,
	}, nil
}
