// Package storage persists bibliographic records and citation edges. The
// source of truth is a pair of JSONL files; a SQLite database serves as a
// rebuildable query cache on top of them.
package storage

import (
	"errors"

	"github.com/refgraph/refgraph/internal/citation"
	"github.com/refgraph/refgraph/internal/record"
)

// Sentinel errors returned by Store implementations.
var (
	// ErrNotFound is returned when a mutation targets an absent record or
	// edge. Lookups signal absence with (nil, nil) instead.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID is returned when an insert collides with an existing
	// record ID or edge pair.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrTransient marks failures worth retrying, such as a briefly locked
	// or busy backing file. Wrap it with %w to make a failure retryable.
	ErrTransient = errors.New("transient storage failure")
)

// IsTransient reports whether err is retryable.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// Store is the persistence surface the engine operates against.
//
// Lookups return (nil, nil) when the item is absent. Mutations on absent
// items return ErrNotFound. Implementations need not be safe for
// concurrent mutation; callers serialize writes.
type Store interface {
	GetAllRecords() ([]record.Record, error)
	GetRecord(id string) (*record.Record, error)
	InsertRecord(r record.Record) (string, error)
	UpdateRecord(id string, r record.Record) error
	DeleteRecord(id string) error

	GetAllEdges() ([]citation.Edge, error)
	GetEdge(sourceID, targetID string) (*citation.Edge, error)
	InsertEdge(e citation.Edge) error
	DeleteEdge(sourceID, targetID string) error
}
