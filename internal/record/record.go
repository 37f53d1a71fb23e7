// Package record defines the core domain type for bibliographic records.
package record

import (
	"errors"
	"strings"
	"time"
)

// Record represents a bibliographic record: a paper, article, or preprint.
type Record struct {
	// Identity: opaque stable identifier assigned at creation, immutable.
	ID string `json:"id"`

	// Metadata
	Title    string   `json:"title"`
	Authors  []string `json:"authors,omitempty"`
	Year     int      `json:"year,omitempty"` // 0 if unknown
	DOI      string   `json:"doi,omitempty"`
	URL      string   `json:"url,omitempty"`
	Abstract string   `json:"abstract,omitempty"`
	Venue    string   `json:"venue,omitempty"`
	Keywords []string `json:"keywords,omitempty"`

	// File path (relative to configured PDF root)
	PDFPath string `json:"pdf_path,omitempty"`

	// Import tracking
	Source ImportSource `json:"source,omitempty"`

	// Timestamps, RFC3339 UTC
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ImportSource tracks where a record was imported from.
type ImportSource struct {
	Type string `json:"type,omitempty"` // paperpile, manual, pdf
	ID   string `json:"id,omitempty"`   // Original ID from source system
}

// Validation errors.
var (
	ErrEmptyTitle = errors.New("title is required")
)

// ValidateForCreate validates a record before it enters the store.
func (r *Record) ValidateForCreate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// SetCreatedAt sets the CreatedAt timestamp to the current time if not already set.
func (r *Record) SetCreatedAt() {
	if r.CreatedAt == "" {
		r.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
}

// Touch updates the UpdatedAt timestamp to the current time.
func (r *Record) Touch() {
	r.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

// HasKeyword reports whether the record already carries the given keyword.
// Comparison is by exact string identity.
func (r *Record) HasKeyword(kw string) bool {
	for _, k := range r.Keywords {
		if k == kw {
			return true
		}
	}
	return false
}

// FirstAuthor returns the first author string, or "" if the list is empty.
func (r *Record) FirstAuthor() string {
	if len(r.Authors) == 0 {
		return ""
	}
	return r.Authors[0]
}
