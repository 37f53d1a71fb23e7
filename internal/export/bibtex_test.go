package export

import (
	"strings"
	"testing"

	"github.com/refgraph/refgraph/internal/record"
)

func TestToBibTeX(t *testing.T) {
	r := record.Record{
		ID:       "smith2020",
		Title:    "Deep Learning & You",
		Authors:  []string{"Smith, Alice", "Jones, Bob"},
		Year:     2020,
		DOI:      "10.1/x",
		URL:      "https://example.org",
		Venue:    "Journal of ML",
		Keywords: []string{"ml", "dl"},
	}

	got := ToBibTeX(r)

	for _, want := range []string{
		"@article{smith2020,",
		"author = {Smith, Alice and Jones, Bob}",
		`title = {Deep Learning \& You}`,
		"journal = {Journal of ML}",
		"year = {2020}",
		"doi = {10.1/x}",
		"url = {https://example.org}",
		"keywords = {ml, dl}",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("entry missing %q:\n%s", want, got)
		}
	}
}

func TestToBibTeX_ConferenceUsesBooktitle(t *testing.T) {
	r := record.Record{ID: "x", Title: "T", Venue: "Proceedings of NeurIPS"}
	got := ToBibTeX(r)

	if !strings.Contains(got, "@inproceedings{") {
		t.Errorf("entry type:\n%s", got)
	}
	if !strings.Contains(got, "booktitle = {Proceedings of NeurIPS}") {
		t.Errorf("venue field:\n%s", got)
	}
}

func TestToBibTeX_OmitsEmptyFields(t *testing.T) {
	got := ToBibTeX(record.Record{ID: "x", Title: "Minimal"})

	for _, absent := range []string{"author", "year", "doi", "url", "abstract", "keywords"} {
		if strings.Contains(got, absent+" = ") {
			t.Errorf("empty field %q rendered:\n%s", absent, got)
		}
	}
}

func TestToBibTeXList(t *testing.T) {
	got := ToBibTeXList([]record.Record{
		{ID: "a", Title: "First"},
		{ID: "b", Title: "Second"},
	})

	if strings.Count(got, "@article{") != 2 {
		t.Errorf("want two entries:\n%s", got)
	}
	if !strings.Contains(got, "}\n\n@article{b,") {
		t.Errorf("entries not separated by a blank line:\n%s", got)
	}
}

func TestEscapeLatex(t *testing.T) {
	got := escapeLatex("100% of $5 #1_a {b} ~ ^")
	for _, want := range []string{`\%`, `\$`, `\#`, `\_`, `\{`, `\}`, `\textasciitilde{}`, `\textasciicircum{}`} {
		if !strings.Contains(got, want) {
			t.Errorf("escaped output missing %q: %s", want, got)
		}
	}
}
