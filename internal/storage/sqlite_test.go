package storage

import (
	"path/filepath"
	"testing"

	"github.com/refgraph/refgraph/internal/citation"
	"github.com/refgraph/refgraph/internal/record"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenDB() = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_Rebuild(t *testing.T) {
	s := newTestStore(t)
	db := newTestDB(t)

	s.InsertRecord(record.Record{ID: "r1", Title: "Deep Learning", Authors: []string{"A. Smith"}, Year: 2020})
	s.InsertRecord(record.Record{ID: "r2", Title: "Phylogenetic Trees", Keywords: []string{"trees"}})
	s.InsertEdge(citation.Edge{SourceID: "r1", TargetID: "r2", CitationType: citation.TypeDirect, Confidence: 0.95})

	nRecords, nEdges, err := db.Rebuild(s)
	if err != nil {
		t.Fatalf("Rebuild() = %v", err)
	}
	if nRecords != 2 || nEdges != 1 {
		t.Errorf("Rebuild() = (%d, %d), want (2, 1)", nRecords, nEdges)
	}

	count, _ := db.Count()
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
	edgeCount, _ := db.CountEdges()
	if edgeCount != 1 {
		t.Errorf("CountEdges() = %d, want 1", edgeCount)
	}

	// Rebuild is idempotent: a second run replaces, not appends.
	if _, _, err := db.Rebuild(s); err != nil {
		t.Fatalf("second Rebuild() = %v", err)
	}
	count, _ = db.Count()
	if count != 2 {
		t.Errorf("Count() after second rebuild = %d, want 2", count)
	}
}

func TestDB_GetByID(t *testing.T) {
	s := newTestStore(t)
	db := newTestDB(t)

	s.InsertRecord(record.Record{
		ID:       "r1",
		Title:    "Deep Learning",
		Authors:  []string{"A. Smith", "B. Jones"},
		Year:     2020,
		DOI:      "10.1/x",
		Keywords: []string{"ml", "nets"},
	})
	db.Rebuild(s)

	got, err := db.GetByID("r1")
	if err != nil {
		t.Fatalf("GetByID() = %v", err)
	}
	if got == nil {
		t.Fatal("expected record")
	}
	if got.DOI != "10.1/x" || got.Year != 2020 {
		t.Errorf("unexpected record: %+v", got)
	}
	if len(got.Authors) != 2 || got.Authors[0] != "A. Smith" {
		t.Errorf("authors = %v", got.Authors)
	}
	if len(got.Keywords) != 2 {
		t.Errorf("keywords = %v", got.Keywords)
	}

	missing, err := db.GetByID("nope")
	if err != nil {
		t.Fatalf("GetByID(absent) = %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for absent record, got %+v", missing)
	}
}

func TestDB_Search(t *testing.T) {
	s := newTestStore(t)
	db := newTestDB(t)

	s.InsertRecord(record.Record{ID: "r1", Title: "Deep Learning for Trees", Abstract: "neural networks"})
	s.InsertRecord(record.Record{ID: "r2", Title: "Bayesian Inference", Authors: []string{"Carla Gomez"}})
	db.Rebuild(s)

	hits, err := db.Search("learning", 10)
	if err != nil {
		t.Fatalf("Search() = %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "r1" {
		t.Errorf("Search(learning) = %+v, want r1", hits)
	}

	hits, err = db.Search("Gomez", 10)
	if err != nil {
		t.Fatalf("Search() = %v", err)
	}
	if len(hits) != 1 || hits[0].ID != "r2" {
		t.Errorf("Search(Gomez) = %+v, want r2", hits)
	}
}

func TestDB_EdgesBySource(t *testing.T) {
	s := newTestStore(t)
	db := newTestDB(t)

	s.InsertRecord(record.Record{ID: "a", Title: "A"})
	s.InsertRecord(record.Record{ID: "b", Title: "B"})
	s.InsertRecord(record.Record{ID: "c", Title: "C"})
	s.InsertEdge(citation.Edge{SourceID: "a", TargetID: "b", CitationType: citation.TypeDirect, Confidence: 0.9, IsVerified: true})
	s.InsertEdge(citation.Edge{SourceID: "a", TargetID: "c", CitationType: citation.TypeBackground, Confidence: 0.6})
	s.InsertEdge(citation.Edge{SourceID: "b", TargetID: "c", CitationType: citation.TypeSupportive, Confidence: 0.7})
	db.Rebuild(s)

	edges, err := db.EdgesBySource("a")
	if err != nil {
		t.Fatalf("EdgesBySource() = %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("len(edges) = %d, want 2", len(edges))
	}
	if edges[0].TargetID != "b" || edges[1].TargetID != "c" {
		t.Errorf("edges not ordered by target: %+v", edges)
	}
	if !edges[0].IsVerified {
		t.Error("expected a->b to round-trip is_verified")
	}
}
