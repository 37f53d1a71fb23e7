package record

import (
	"strings"
	"testing"
)

func TestRecord_ValidateForCreate(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		wantErr error
	}{
		{
			name:    "valid record",
			record:  Record{Title: "Deep Learning"},
			wantErr: nil,
		},
		{
			name:    "empty title",
			record:  Record{Authors: []string{"A. Smith"}},
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "whitespace-only title",
			record:  Record{Title: "   "},
			wantErr: ErrEmptyTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.ValidateForCreate()
			if err != tt.wantErr {
				t.Errorf("ValidateForCreate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecord_SetCreatedAt(t *testing.T) {
	t.Run("sets timestamp when empty", func(t *testing.T) {
		r := Record{Title: "Paper"}
		r.SetCreatedAt()
		if r.CreatedAt == "" {
			t.Error("expected CreatedAt to be set")
		}
	})

	t.Run("preserves existing timestamp", func(t *testing.T) {
		r := Record{Title: "Paper", CreatedAt: "2024-01-01T00:00:00Z"}
		r.SetCreatedAt()
		if r.CreatedAt != "2024-01-01T00:00:00Z" {
			t.Errorf("expected CreatedAt to be preserved, got %q", r.CreatedAt)
		}
	})
}

func TestRecord_HasKeyword(t *testing.T) {
	r := Record{Keywords: []string{"ml", "phylogenetics"}}

	if !r.HasKeyword("ml") {
		t.Error("expected HasKeyword(ml) = true")
	}
	if r.HasKeyword("ML") {
		t.Error("keyword comparison should be exact, got match for ML")
	}
	if r.HasKeyword("missing") {
		t.Error("expected HasKeyword(missing) = false")
	}
}

func TestNewID(t *testing.T) {
	t.Run("stable for same metadata", func(t *testing.T) {
		a := Record{Title: "Deep Learning", Authors: []string{"A. Smith"}, Year: 2020}
		b := Record{Title: "Deep Learning", Authors: []string{"A. Smith"}, Year: 2020}
		if NewID(&a) != NewID(&b) {
			t.Error("expected identical IDs for identical metadata")
		}
	})

	t.Run("case-insensitive seed", func(t *testing.T) {
		a := Record{Title: "Deep Learning", Year: 2020}
		b := Record{Title: "deep learning", Year: 2020}
		if NewID(&a) != NewID(&b) {
			t.Error("expected IDs to ignore title case")
		}
	})

	t.Run("differs across records", func(t *testing.T) {
		a := Record{Title: "Deep Learning", Year: 2020}
		b := Record{Title: "Deep Learning", Year: 2021}
		if NewID(&a) == NewID(&b) {
			t.Error("expected different IDs for different years")
		}
	})

	t.Run("empty metadata falls back to uuid", func(t *testing.T) {
		r := Record{}
		id := NewID(&r)
		if id == "" {
			t.Fatal("expected non-empty ID")
		}
		// UUIDs contain dashes; hash IDs never do.
		if !strings.Contains(id, "-") {
			t.Errorf("expected UUID fallback, got %q", id)
		}
	})
}

func TestUniqueID(t *testing.T) {
	existing := []Record{
		{ID: "abc"},
		{ID: "abc-2"},
	}

	if got := UniqueID(existing, "xyz"); got != "xyz" {
		t.Errorf("UniqueID(xyz) = %q, want xyz", got)
	}
	if got := UniqueID(existing, "abc"); got != "abc-3" {
		t.Errorf("UniqueID(abc) = %q, want abc-3", got)
	}
}
