// Package pdfmeta sniffs bibliographic metadata out of PDF files so that
// records added from a PDF start with a DOI and title candidate instead
// of empty fields.
package pdfmeta

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// sniffPages bounds how many pages are scanned. DOIs and titles live on
// the first page of almost every paper; three covers cover sheets.
const sniffPages = 3

// doiPattern matches 10.NNNN/suffix DOIs in running text.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// yearPattern matches plausible publication years.
var yearPattern = regexp.MustCompile(`\b(19[5-9]\d|20\d{2})\b`)

// Metadata is what could be sniffed from a PDF. Any field may be empty;
// absence is not an error.
type Metadata struct {
	Title string `json:"title,omitempty"`
	DOI   string `json:"doi,omitempty"`
	Year  int    `json:"year,omitempty"`
}

// Sniff scans the leading pages of the PDF at path for a DOI, a title
// candidate, and a publication year. A PDF with no findable metadata
// yields an empty Metadata and no error; only unreadable files fail.
func Sniff(path string) (*Metadata, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	maxPages := sniffPages
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	var text strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text.WriteString(content)
		text.WriteString("\n")
	}

	return SniffText(text.String()), nil
}

// SniffText extracts metadata from already-extracted page text.
func SniffText(text string) *Metadata {
	return &Metadata{
		Title: titleFrom(text),
		DOI:   doiFrom(text),
		Year:  yearFrom(text),
	}
}

// doiFrom returns the first well-formed DOI in text.
func doiFrom(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if wellFormedDOI(match) {
			return match
		}
	}
	return ""
}

// wellFormedDOI rejects regex matches that cannot be real DOIs.
func wellFormedDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slash := strings.Index(doi, "/")
	return slash != -1 && slash < len(doi)-1
}

// titleFrom picks the first substantial line that does not look like a
// journal header or footer. Best effort; an empty result is fine.
func titleFrom(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 && !headerLine(line) {
			return line
		}
	}
	return ""
}

// yearFrom returns the first plausible publication year, ignoring years
// in the future.
func yearFrom(text string) int {
	current := time.Now().Year()
	for _, match := range yearPattern.FindAllString(text, -1) {
		year, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		if year <= current {
			return year
		}
	}
	return 0
}

// headerLine reports whether a line is likely journal boilerplate rather
// than a title.
func headerLine(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "journal"):
		return true
	case strings.Contains(lower, "volume") && strings.Contains(lower, "issue"):
		return true
	case strings.Contains(lower, "copyright"):
		return true
	case strings.Contains(lower, "article") && strings.Contains(lower, "published"):
		return true
	case strings.Contains(lower, "preprint"):
		return true
	}
	return false
}
