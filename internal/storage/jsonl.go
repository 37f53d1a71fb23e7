package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/refgraph/refgraph/internal/citation"
	"github.com/refgraph/refgraph/internal/record"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines
// (1MB per line), shared across all JSONL readers.
const MaxJSONLLineCapacity = 1024 * 1024

// JSONL file names inside the data directory.
const (
	RecordsFile = "records.jsonl"
	EdgesFile   = "edges.jsonl"
)

// JSONLStore is the Store implementation backed by git-versionable JSONL
// files. Reads scan the whole file; mutations rewrite it. This trades write
// throughput for a diffable, mergeable on-disk format.
type JSONLStore struct {
	recordsPath string
	edgesPath   string
}

// NewJSONLStore returns a JSONLStore rooted at the given data directory.
func NewJSONLStore(dir string) *JSONLStore {
	return &JSONLStore{
		recordsPath: filepath.Join(dir, RecordsFile),
		edgesPath:   filepath.Join(dir, EdgesFile),
	}
}

// Init creates empty JSONL files if they do not exist.
func (s *JSONLStore) Init() error {
	for _, path := range []string{s.recordsPath, s.edgesPath} {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
		}
		f.Close()
	}
	return nil
}

// RecordsPath returns the path to the records JSONL file.
func (s *JSONLStore) RecordsPath() string { return s.recordsPath }

// EdgesPath returns the path to the edges JSONL file.
func (s *JSONLStore) EdgesPath() string { return s.edgesPath }

// GetAllRecords reads every record from the records file.
func (s *JSONLStore) GetAllRecords() ([]record.Record, error) {
	return readLines[record.Record](s.recordsPath)
}

// GetRecord returns the record with the given ID, or (nil, nil) if absent.
func (s *JSONLStore) GetRecord(id string) (*record.Record, error) {
	records, err := s.GetAllRecords()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, nil
}

// InsertRecord appends a record, assigning an ID if it has none.
// Returns the stored ID.
func (s *JSONLStore) InsertRecord(r record.Record) (string, error) {
	records, err := s.GetAllRecords()
	if err != nil {
		return "", err
	}

	if r.ID == "" {
		r.ID = record.UniqueID(records, record.NewID(&r))
	} else {
		for _, existing := range records {
			if existing.ID == r.ID {
				return "", fmt.Errorf("inserting record %q: %w", r.ID, ErrDuplicateID)
			}
		}
	}
	r.SetCreatedAt()

	if err := appendLine(s.recordsPath, r); err != nil {
		return "", fmt.Errorf("inserting record %q: %w", r.ID, err)
	}
	return r.ID, nil
}

// UpdateRecord replaces the stored record with the given ID.
// The ID itself is immutable and cannot be changed by an update.
func (s *JSONLStore) UpdateRecord(id string, r record.Record) error {
	records, err := s.GetAllRecords()
	if err != nil {
		return err
	}

	found := false
	for i := range records {
		if records[i].ID == id {
			r.ID = id
			r.CreatedAt = records[i].CreatedAt
			r.Touch()
			records[i] = r
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("updating record %q: %w", id, ErrNotFound)
	}

	return writeLines(s.recordsPath, records)
}

// DeleteRecord removes the record with the given ID.
func (s *JSONLStore) DeleteRecord(id string) error {
	records, err := s.GetAllRecords()
	if err != nil {
		return err
	}

	kept := make([]record.Record, 0, len(records))
	found := false
	for _, r := range records {
		if r.ID == id {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return fmt.Errorf("deleting record %q: %w", id, ErrNotFound)
	}

	return writeLines(s.recordsPath, kept)
}

// GetAllEdges reads every citation edge from the edges file.
func (s *JSONLStore) GetAllEdges() ([]citation.Edge, error) {
	return readLines[citation.Edge](s.edgesPath)
}

// GetEdge returns the edge for the ordered pair, or (nil, nil) if absent.
func (s *JSONLStore) GetEdge(sourceID, targetID string) (*citation.Edge, error) {
	edges, err := s.GetAllEdges()
	if err != nil {
		return nil, err
	}
	for i := range edges {
		if edges[i].SourceID == sourceID && edges[i].TargetID == targetID {
			return &edges[i], nil
		}
	}
	return nil, nil
}

// InsertEdge appends a citation edge. At most one edge may exist per
// ordered (source, target) pair.
func (s *JSONLStore) InsertEdge(e citation.Edge) error {
	existing, err := s.GetEdge(e.SourceID, e.TargetID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("inserting edge %s->%s: %w", e.SourceID, e.TargetID, ErrDuplicateID)
	}
	e.SetCreatedAt()

	if err := appendLine(s.edgesPath, e); err != nil {
		return fmt.Errorf("inserting edge %s->%s: %w", e.SourceID, e.TargetID, err)
	}
	return nil
}

// DeleteEdge removes the edge for the ordered pair.
func (s *JSONLStore) DeleteEdge(sourceID, targetID string) error {
	edges, err := s.GetAllEdges()
	if err != nil {
		return err
	}

	kept := make([]citation.Edge, 0, len(edges))
	found := false
	for _, e := range edges {
		if e.SourceID == sourceID && e.TargetID == targetID {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return fmt.Errorf("deleting edge %s->%s: %w", sourceID, targetID, ErrNotFound)
	}

	return writeLines(s.edgesPath, kept)
}

// readLines reads all JSONL entries from a file. A missing file yields an
// empty slice, not an error.
func readLines[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	var items []T
	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", filepath.Base(path), lineNum, err)
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return items, nil
}

// appendLine appends one JSON-encoded entry to a file.
func appendLine[T any](path string, item T) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encoding entry: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	return nil
}

// writeLines replaces the file content with the given entries.
func writeLines[T any](path string, items []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encoding entry %d: %w", i, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	return w.Flush()
}
