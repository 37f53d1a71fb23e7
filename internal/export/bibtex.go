// Package export renders records to external bibliography formats.
package export

import (
	"fmt"
	"strings"

	"github.com/refgraph/refgraph/internal/record"
)

// ToBibTeX converts a record to a BibTeX entry keyed by its record ID.
func ToBibTeX(r record.Record) string {
	entryType := entryTypeFor(r)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, r.ID))

	if len(r.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", formatAuthors(r.Authors)))
	}

	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(r.Title)))

	if r.Venue != "" {
		fieldName := "journal"
		if entryType == "inproceedings" {
			fieldName = "booktitle"
		}
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", fieldName, escapeLatex(r.Venue)))
	}

	if r.Year != 0 {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", r.Year))
	}
	if r.DOI != "" {
		b.WriteString(fmt.Sprintf("  doi = {%s},\n", r.DOI))
	}
	if r.URL != "" {
		b.WriteString(fmt.Sprintf("  url = {%s},\n", r.URL))
	}
	if len(r.Keywords) > 0 {
		b.WriteString(fmt.Sprintf("  keywords = {%s},\n", escapeLatex(strings.Join(r.Keywords, ", "))))
	}
	if r.Abstract != "" {
		b.WriteString(fmt.Sprintf("  abstract = {%s},\n", escapeLatex(r.Abstract)))
	}

	b.WriteString("}\n")
	return b.String()
}

// ToBibTeXList converts multiple records to BibTeX, one entry per record.
func ToBibTeXList(records []record.Record) string {
	var entries []string
	for _, r := range records {
		entries = append(entries, ToBibTeX(r))
	}
	return strings.Join(entries, "\n")
}

// entryTypeFor picks the BibTeX entry type from the venue name.
func entryTypeFor(r record.Record) string {
	venue := strings.ToLower(r.Venue)

	if strings.Contains(venue, "proceedings") ||
		strings.Contains(venue, "conference") ||
		strings.Contains(venue, "workshop") ||
		strings.Contains(venue, "symposium") {
		return "inproceedings"
	}

	// Preprints and journals both render as articles.
	return "article"
}

// formatAuthors joins author names BibTeX-style with " and ".
func formatAuthors(authors []string) string {
	return strings.Join(authors, " and ")
}

// escapeLatex escapes special LaTeX characters. The & replacement must
// come first so later escapes cannot double-escape it.
func escapeLatex(s string) string {
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
