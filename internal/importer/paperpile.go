// Package importer ingests records from external reference managers.
// Every imported record passes through the entity resolver, so an import
// can never introduce duplicates the engine would otherwise catch.
package importer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/refgraph/refgraph/internal/record"
	"github.com/refgraph/refgraph/internal/resolve"
)

// SourcePaperpile is the ImportSource type for Paperpile imports.
const SourcePaperpile = "paperpile"

// FlexibleString unmarshals from either string or number JSON values.
// Paperpile exports are inconsistent about year/month/day types.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleString(n.String())
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into FlexibleString", string(data))
}

func (f FlexibleString) String() string {
	return string(f)
}

// paperpileEntry is one entry of a Paperpile JSON export.
type paperpileEntry struct {
	ID        string   `json:"_id"`
	Citekey   string   `json:"citekey"`
	DOI       string   `json:"doi"`
	Title     string   `json:"title"`
	Abstract  string   `json:"abstract"`
	Journal   string   `json:"journal"`
	Keywords  []string `json:"keywords"`
	URL       []string `json:"url"`
	Published struct {
		Year FlexibleString `json:"year"`
	} `json:"published"`
	Author []struct {
		First string `json:"first"`
		Last  string `json:"last"`
	} `json:"author"`
	Attachments []struct {
		ArticlePDF int    `json:"article_pdf"` // 1 = main PDF, 0 = supplement
		Filename   string `json:"filename"`
	} `json:"attachments"`
}

// ParsePaperpile parses a Paperpile JSON export into records. Entries
// that cannot be converted are reported as errors; the rest import.
func ParsePaperpile(data []byte) ([]record.Record, []error) {
	var entries []paperpileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, []error{fmt.Errorf("parsing Paperpile JSON: %w", err)}
	}

	var records []record.Record
	var errs []error

	for i, entry := range entries {
		r, err := entryToRecord(entry)
		if err != nil {
			errs = append(errs, fmt.Errorf("entry %d (%s): %w", i+1, entry.Citekey, err))
			continue
		}
		records = append(records, r)
	}

	return records, errs
}

// entryToRecord converts one Paperpile entry to a Record.
func entryToRecord(entry paperpileEntry) (record.Record, error) {
	if entry.Title == "" {
		return record.Record{}, fmt.Errorf("missing required field 'title'")
	}

	authors := make([]string, 0, len(entry.Author))
	for _, a := range entry.Author {
		name := strings.TrimSpace(a.First + " " + a.Last)
		if name != "" {
			authors = append(authors, name)
		}
	}

	var year int
	if y := entry.Published.Year.String(); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			return record.Record{}, fmt.Errorf("invalid year: %s", y)
		}
		year = parsed
	}

	var pdfPath string
	for _, att := range entry.Attachments {
		if att.ArticlePDF == 1 {
			pdfPath = att.Filename
			break
		}
	}

	var url string
	if len(entry.URL) > 0 {
		url = entry.URL[0]
	}

	return record.Record{
		Title:    entry.Title,
		Authors:  authors,
		Year:     year,
		DOI:      entry.DOI,
		URL:      url,
		Abstract: entry.Abstract,
		Venue:    entry.Journal,
		Keywords: entry.Keywords,
		PDFPath:  pdfPath,
		Source:   record.ImportSource{Type: SourcePaperpile, ID: entry.ID},
	}, nil
}

// Result summarizes an import run.
type Result struct {
	Parsed  int      `json:"parsed"`
	Created int      `json:"created"`
	Merged  int      `json:"merged"`
	Errors  []string `json:"errors,omitempty"`
}

// Ingest resolves each record against the store. Duplicates of existing
// records merge instead of piling up; per-entry failures are collected
// and the import continues.
func Ingest(resolver *resolve.Resolver, records []record.Record, parseErrs []error) (*Result, error) {
	result := &Result{Parsed: len(records)}
	for _, err := range parseErrs {
		result.Errors = append(result.Errors, err.Error())
	}

	for _, r := range records {
		res, err := resolver.Resolve(r)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", r.Title, err))
			continue
		}
		if res.IsNew {
			result.Created++
		} else {
			result.Merged++
		}
	}

	return result, nil
}
