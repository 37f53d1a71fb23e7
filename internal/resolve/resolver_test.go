package resolve

import (
	"errors"
	"testing"

	"github.com/refgraph/refgraph/internal/record"
	"github.com/refgraph/refgraph/internal/storage"
)

func newTestStore(t *testing.T) *storage.JSONLStore {
	t.Helper()
	s := storage.NewJSONLStore(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	return s
}

func TestResolver_Resolve_RejectsInvalidInput(t *testing.T) {
	r := New(newTestStore(t), nil)

	_, err := r.Resolve(record.Record{Authors: []string{"A. Smith"}})
	if !errors.Is(err, record.ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestResolver_Resolve_CreatesWhenEmpty(t *testing.T) {
	s := newTestStore(t)
	r := New(s, nil)

	res, err := r.Resolve(record.Record{Title: "Deep Learning", Year: 2020})
	if err != nil {
		t.Fatalf("Resolve() = %v", err)
	}
	if res.Operation != OpCreated || !res.IsNew {
		t.Errorf("expected created, got %+v", res)
	}
	if res.DuplicateScore != 0 {
		t.Errorf("duplicate score should be unset, got %v", res.DuplicateScore)
	}

	got, _ := s.GetRecord(res.ID)
	if got == nil {
		t.Fatal("record not persisted")
	}
}

func TestResolver_Resolve_MergesHighBandDuplicate(t *testing.T) {
	s := newTestStore(t)
	r := New(s, nil)

	first, err := r.Resolve(record.Record{
		Title:   "Deep Learning",
		Authors: []string{"A. Smith"},
		Year:    2020,
		DOI:     "10.1/x",
	})
	if err != nil {
		t.Fatalf("first Resolve() = %v", err)
	}

	// Same paper, trivially different title, extra metadata.
	second, err := r.Resolve(record.Record{
		Title:    "Deep learning!",
		Authors:  []string{"A. Smith"},
		Year:     2020,
		DOI:      "10.1/x",
		Abstract: "We study deep nets.",
		URL:      "https://example.org/dl",
		Keywords: []string{"ml"},
	})
	if err != nil {
		t.Fatalf("second Resolve() = %v", err)
	}

	if second.Operation != OpMerged {
		t.Fatalf("operation = %q, want merged", second.Operation)
	}
	if second.ID != first.ID {
		t.Errorf("merged into %q, want %q", second.ID, first.ID)
	}
	if second.IsNew {
		t.Error("merged result must not be new")
	}

	wantFields := map[string]bool{"abstract": true, "url": true, "keywords": true}
	for _, f := range second.MergedFields {
		if !wantFields[f] {
			t.Errorf("unexpected merged field %q", f)
		}
		delete(wantFields, f)
	}
	for f := range wantFields {
		t.Errorf("missing merged field %q", f)
	}

	got, _ := s.GetRecord(first.ID)
	if got.Abstract != "We study deep nets." {
		t.Errorf("abstract not merged: %q", got.Abstract)
	}
	if got.URL != "https://example.org/dl" {
		t.Errorf("url not merged: %q", got.URL)
	}
	if !got.HasKeyword("ml") {
		t.Error("keyword not merged")
	}

	// Only the two original records' count: merge must never create.
	all, _ := s.GetAllRecords()
	if len(all) != 1 {
		t.Errorf("record count = %d, want 1", len(all))
	}
}

func TestResolver_Resolve_MergeDoesNotOverwrite(t *testing.T) {
	s := newTestStore(t)
	r := New(s, nil)

	first, _ := r.Resolve(record.Record{
		Title:    "Deep Learning",
		Authors:  []string{"A. Smith"},
		Year:     2020,
		DOI:      "10.1/x",
		Abstract: "Original abstract.",
	})

	res, err := r.Resolve(record.Record{
		Title:    "Deep Learning",
		Authors:  []string{"A. Smith"},
		Year:     2020,
		DOI:      "10.1/x",
		Abstract: "Different abstract.",
	})
	if err != nil {
		t.Fatalf("Resolve() = %v", err)
	}
	if res.Operation != OpMerged {
		t.Fatalf("operation = %q, want merged", res.Operation)
	}

	got, _ := s.GetRecord(first.ID)
	if got.Abstract != "Original abstract." {
		t.Errorf("existing abstract overwritten: %q", got.Abstract)
	}
	for _, f := range res.MergedFields {
		if f == "abstract" {
			t.Error("abstract reported merged although existing value was kept")
		}
	}
}

func TestResolver_Resolve_MediumBandFlagsPossibleDuplicate(t *testing.T) {
	s := newTestStore(t)
	r := New(s, nil)

	first, _ := r.Resolve(record.Record{
		Title:   "Deep Learning for Phylogenetics",
		Authors: []string{"A. Smith"},
		Year:    2020,
	})

	// Same title and authors, same year, but no DOI/URL: lands in the
	// medium band (0.40 + 0.25 + 0.10 = 0.75).
	res, err := r.Resolve(record.Record{
		Title:   "Deep Learning for Phylogenetics",
		Authors: []string{"A. Smith"},
		Year:    2020,
	})
	if err != nil {
		t.Fatalf("Resolve() = %v", err)
	}
	if res.Operation != OpCreated {
		t.Fatalf("operation = %q, want created", res.Operation)
	}
	if res.ID == first.ID {
		t.Error("medium band must create a distinct record")
	}
	if res.DuplicateScore < 0.7 || res.DuplicateScore >= 0.9 {
		t.Errorf("duplicate score = %v, want in [0.7, 0.9)", res.DuplicateScore)
	}
}

func TestResolver_Resolve_LowBandCreatesSilently(t *testing.T) {
	s := newTestStore(t)
	r := New(s, nil)

	r.Resolve(record.Record{Title: "Deep Learning", Authors: []string{"A. Smith"}, Year: 2020})

	res, err := r.Resolve(record.Record{Title: "Bayesian Trees", Authors: []string{"C. Brown"}, Year: 1999})
	if err != nil {
		t.Fatalf("Resolve() = %v", err)
	}
	if res.Operation != OpCreated {
		t.Errorf("operation = %q, want created", res.Operation)
	}
	if res.DuplicateScore != 0 {
		t.Errorf("duplicate score = %v, want unset", res.DuplicateScore)
	}
}

func TestResolver_Resolve_TieBreakIsDeterministic(t *testing.T) {
	s := newTestStore(t)
	r := New(s, nil)

	// Two identical existing records (as after a bad import): both score
	// the same against the input; the earlier one must win every time.
	dup := record.Record{Title: "Deep Learning", Authors: []string{"A. Smith"}, Year: 2020, DOI: "10.1/x"}
	a := dup
	a.ID = "first"
	b := dup
	b.ID = "second"
	s.InsertRecord(a)
	s.InsertRecord(b)

	for i := 0; i < 5; i++ {
		res, err := r.Resolve(dup)
		if err != nil {
			t.Fatalf("Resolve() = %v", err)
		}
		if res.ID != "first" {
			t.Fatalf("iteration %d merged into %q, want first", i, res.ID)
		}
	}
}
