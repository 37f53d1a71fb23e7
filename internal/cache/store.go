package cache

import (
	"github.com/refgraph/refgraph/internal/citation"
	"github.com/refgraph/refgraph/internal/record"
	"github.com/refgraph/refgraph/internal/storage"
)

// Cache key prefixes. Record writes invalidate keyPrefixRecords; edge
// writes invalidate keyPrefixEdges.
const (
	keyPrefixRecords = "records:"
	keyPrefixEdges   = "edges:"

	keyAllRecords = keyPrefixRecords + "all"
	keyAllEdges   = keyPrefixEdges + "all"
)

// CachingStore decorates a Store with read caching. Every mutation
// invalidates the affected key prefix, so reads after a write always hit
// the backing store. Correctness never depends on the cache: a cold or
// disabled cache only costs extra reads.
type CachingStore struct {
	inner storage.Store
	cache Cache
}

// Wrap layers a cache over a Store. A nil cache gets a Memory cache with
// the default TTL.
func Wrap(inner storage.Store, c Cache) *CachingStore {
	if c == nil {
		c = NewMemory(DefaultTTL)
	}
	return &CachingStore{inner: inner, cache: c}
}

func (s *CachingStore) GetAllRecords() ([]record.Record, error) {
	if v, ok := s.cache.Get(keyAllRecords); ok {
		return v.([]record.Record), nil
	}
	records, err := s.inner.GetAllRecords()
	if err != nil {
		return nil, err
	}
	s.cache.Set(keyAllRecords, records)
	return records, nil
}

func (s *CachingStore) GetRecord(id string) (*record.Record, error) {
	key := keyPrefixRecords + id
	if v, ok := s.cache.Get(key); ok {
		return v.(*record.Record), nil
	}
	r, err := s.inner.GetRecord(id)
	if err != nil {
		return nil, err
	}
	if r != nil {
		s.cache.Set(key, r)
	}
	return r, nil
}

func (s *CachingStore) InsertRecord(r record.Record) (string, error) {
	id, err := s.inner.InsertRecord(r)
	if err == nil {
		s.cache.InvalidatePrefix(keyPrefixRecords)
	}
	return id, err
}

func (s *CachingStore) UpdateRecord(id string, r record.Record) error {
	err := s.inner.UpdateRecord(id, r)
	if err == nil {
		s.cache.InvalidatePrefix(keyPrefixRecords)
	}
	return err
}

func (s *CachingStore) DeleteRecord(id string) error {
	err := s.inner.DeleteRecord(id)
	if err == nil {
		s.cache.InvalidatePrefix(keyPrefixRecords)
	}
	return err
}

func (s *CachingStore) GetAllEdges() ([]citation.Edge, error) {
	if v, ok := s.cache.Get(keyAllEdges); ok {
		return v.([]citation.Edge), nil
	}
	edges, err := s.inner.GetAllEdges()
	if err != nil {
		return nil, err
	}
	s.cache.Set(keyAllEdges, edges)
	return edges, nil
}

func (s *CachingStore) GetEdge(sourceID, targetID string) (*citation.Edge, error) {
	key := keyPrefixEdges + sourceID + ":" + targetID
	if v, ok := s.cache.Get(key); ok {
		return v.(*citation.Edge), nil
	}
	e, err := s.inner.GetEdge(sourceID, targetID)
	if err != nil {
		return nil, err
	}
	if e != nil {
		s.cache.Set(key, e)
	}
	return e, nil
}

func (s *CachingStore) InsertEdge(e citation.Edge) error {
	err := s.inner.InsertEdge(e)
	if err == nil {
		s.cache.InvalidatePrefix(keyPrefixEdges)
	}
	return err
}

func (s *CachingStore) DeleteEdge(sourceID, targetID string) error {
	err := s.inner.DeleteEdge(sourceID, targetID)
	if err == nil {
		s.cache.InvalidatePrefix(keyPrefixEdges)
	}
	return err
}
