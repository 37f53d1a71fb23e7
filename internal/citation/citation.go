// Package citation defines the directed "cites" edge between two
// bibliographic records.
package citation

import (
	"errors"
	"time"
)

// Citation types, ordered roughly by strength of the relationship.
const (
	TypeDirect         = "direct"
	TypeSupportive     = "supportive"
	TypeMethodological = "methodological"
	TypeBackground     = "background"
	TypeIndirect       = "indirect"
	TypeContradictory  = "contradictory"
)

// Discovery methods.
const (
	DiscoveryManual    = "manual"
	DiscoveryAutomatic = "automatic"
	DiscoveryInferred  = "ai-inferred"
)

// VerifiedThreshold is the confidence at or above which an edge is marked
// verified at creation time.
const VerifiedThreshold = 0.9

// Edge represents a directed citation: the source record cites the target.
// At most one edge exists per ordered (SourceID, TargetID) pair.
type Edge struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`

	CitationType    string  `json:"citation_type"`
	DiscoveryMethod string  `json:"discovery_method"`
	Confidence      float64 `json:"confidence"`
	IsVerified      bool    `json:"is_verified"`
	Context         string  `json:"context,omitempty"` // Free-text evidence
	CreatedAt       string  `json:"created_at,omitempty"`
}

// Validation errors.
var (
	ErrEmptySourceID     = errors.New("source_id is required")
	ErrEmptyTargetID     = errors.New("target_id is required")
	ErrSelfCitation      = errors.New("source_id and target_id cannot be the same")
	ErrEmptyCitationType = errors.New("citation_type is required")
	ErrBadConfidence     = errors.New("confidence must be in [0,1]")
	ErrBadCitationType   = errors.New("unknown citation_type")
	ErrBadDiscovery      = errors.New("unknown discovery_method")
)

var validTypes = map[string]bool{
	TypeDirect:         true,
	TypeSupportive:     true,
	TypeMethodological: true,
	TypeBackground:     true,
	TypeIndirect:       true,
	TypeContradictory:  true,
}

var validDiscovery = map[string]bool{
	DiscoveryManual:    true,
	DiscoveryAutomatic: true,
	DiscoveryInferred:  true,
}

// ValidateForCreate validates an edge for creation.
func (e *Edge) ValidateForCreate() error {
	if e.SourceID == "" {
		return ErrEmptySourceID
	}
	if e.TargetID == "" {
		return ErrEmptyTargetID
	}
	if e.SourceID == e.TargetID {
		return ErrSelfCitation
	}
	if e.CitationType == "" {
		return ErrEmptyCitationType
	}
	if !validTypes[e.CitationType] {
		return ErrBadCitationType
	}
	if e.DiscoveryMethod != "" && !validDiscovery[e.DiscoveryMethod] {
		return ErrBadDiscovery
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		return ErrBadConfidence
	}
	return nil
}

// SetCreatedAt sets the CreatedAt timestamp to the current time if not set.
func (e *Edge) SetCreatedAt() {
	if e.CreatedAt == "" {
		e.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
}

// Key returns the unique ordered-pair identity of this edge.
func (e *Edge) Key() Key {
	return Key{SourceID: e.SourceID, TargetID: e.TargetID}
}

// Key is the (source, target) identity of an edge.
type Key struct {
	SourceID string
	TargetID string
}

// OrphanInfo describes an edge referencing a record that no longer exists.
type OrphanInfo struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Reason   string `json:"reason"` // missing_source, missing_target, missing_both
}

// DetectOrphans splits edges into orphans (at least one endpoint missing
// from validIDs) and valid edges.
func DetectOrphans(edges []Edge, validIDs map[string]bool) (orphaned []OrphanInfo, valid []Edge) {
	for _, e := range edges {
		sourceOK := validIDs[e.SourceID]
		targetOK := validIDs[e.TargetID]

		if sourceOK && targetOK {
			valid = append(valid, e)
			continue
		}

		info := OrphanInfo{SourceID: e.SourceID, TargetID: e.TargetID}
		switch {
		case !sourceOK && !targetOK:
			info.Reason = "missing_both"
		case !sourceOK:
			info.Reason = "missing_source"
		default:
			info.Reason = "missing_target"
		}
		orphaned = append(orphaned, info)
	}
	return orphaned, valid
}

// FindDuplicates returns counts for ordered pairs appearing more than once.
// A healthy edge set returns an empty map.
func FindDuplicates(edges []Edge) map[Key]int {
	counts := make(map[Key]int)
	for _, e := range edges {
		counts[e.Key()]++
	}

	duplicates := make(map[Key]int)
	for key, count := range counts {
		if count > 1 {
			duplicates[key] = count
		}
	}
	return duplicates
}
