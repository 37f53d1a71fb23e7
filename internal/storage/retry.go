package storage

import (
	"time"

	"github.com/refgraph/refgraph/internal/citation"
	"github.com/refgraph/refgraph/internal/record"
)

// RetryBaseDelay controls the base duration for backoff between retries of
// transient store failures. Tests override this to avoid real sleeps.
var RetryBaseDelay = 100 * time.Millisecond

const defaultMaxRetries = 3

// RetryingStore decorates a Store and retries operations that fail with
// ErrTransient a small fixed number of times with linear backoff before
// surfacing the error. Non-transient errors surface immediately.
type RetryingStore struct {
	inner      Store
	maxRetries int
}

// WithRetry wraps a Store with transient-error retries. When maxRetries is
// 0 the default (3) is used.
func WithRetry(inner Store, maxRetries int) *RetryingStore {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &RetryingStore{inner: inner, maxRetries: maxRetries}
}

// retry runs fn, retrying on transient failures.
func (s *RetryingStore) retry(fn func() error) error {
	var err error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * RetryBaseDelay)
		}
		err = fn()
		if err == nil || !IsTransient(err) {
			return err
		}
	}
	return err
}

func (s *RetryingStore) GetAllRecords() (records []record.Record, err error) {
	err = s.retry(func() error {
		records, err = s.inner.GetAllRecords()
		return err
	})
	return records, err
}

func (s *RetryingStore) GetRecord(id string) (r *record.Record, err error) {
	err = s.retry(func() error {
		r, err = s.inner.GetRecord(id)
		return err
	})
	return r, err
}

func (s *RetryingStore) InsertRecord(r record.Record) (id string, err error) {
	err = s.retry(func() error {
		id, err = s.inner.InsertRecord(r)
		return err
	})
	return id, err
}

func (s *RetryingStore) UpdateRecord(id string, r record.Record) error {
	return s.retry(func() error { return s.inner.UpdateRecord(id, r) })
}

func (s *RetryingStore) DeleteRecord(id string) error {
	return s.retry(func() error { return s.inner.DeleteRecord(id) })
}

func (s *RetryingStore) GetAllEdges() (edges []citation.Edge, err error) {
	err = s.retry(func() error {
		edges, err = s.inner.GetAllEdges()
		return err
	})
	return edges, err
}

func (s *RetryingStore) GetEdge(sourceID, targetID string) (e *citation.Edge, err error) {
	err = s.retry(func() error {
		e, err = s.inner.GetEdge(sourceID, targetID)
		return err
	})
	return e, err
}

func (s *RetryingStore) InsertEdge(e citation.Edge) error {
	return s.retry(func() error { return s.inner.InsertEdge(e) })
}

func (s *RetryingStore) DeleteEdge(sourceID, targetID string) error {
	return s.retry(func() error { return s.inner.DeleteEdge(sourceID, targetID) })
}
