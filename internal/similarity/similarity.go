// Package similarity computes normalized similarity between bibliographic
// records, per field and as a weighted composite score.
package similarity

import (
	"regexp"
	"strings"
)

// Score bands driving merge-vs-create-vs-ignore decisions.
const (
	ThresholdHigh   = 0.9
	ThresholdMedium = 0.7
	ThresholdLow    = 0.5
)

// authorPairThreshold is the minimum pairwise similarity for two author
// strings to count as the same person in citation matching.
const authorPairThreshold = 0.8

var nonWord = regexp.MustCompile(`[^\w\s]`)

// normalize lowercases, trims, and strips non-word characters from a string.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimSpace(nonWord.ReplaceAllString(s, ""))
}

// tokenize splits a normalized string into a set of words.
func tokenize(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

// TitleSimilarity returns the Jaccard similarity of the word sets of two
// titles after normalization. Two empty titles are considered identical
// (1.0); if exactly one is empty the similarity is 0.0.
func TitleSimilarity(a, b string) float64 {
	na, nb := normalize(a), normalize(b)

	if na == nb {
		return 1.0 // Covers identical titles and the two-empty case
	}
	if na == "" || nb == "" {
		return 0.0
	}

	setA, setB := tokenize(na), tokenize(nb)
	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// AuthorSimilarity returns the Jaccard similarity of two author lists.
// Author strings are lowercased and trimmed; a pair counts as a set
// intersection member when one string contains the other as a substring.
// This is a deliberately loose match ("J. Smith" intersects "John Smith"
// only by literal containment), not a person-identity match.
// Two empty lists are considered identical (1.0).
func AuthorSimilarity(a, b []string) float64 {
	setA := normalizeAuthors(a)
	setB := normalizeAuthors(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	matched := make([]bool, len(setB))
	intersection := 0
	for _, x := range setA {
		for j, y := range setB {
			if matched[j] {
				continue
			}
			if authorsOverlap(x, y) {
				matched[j] = true
				intersection++
				break
			}
		}
	}

	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// normalizeAuthors lowercases and trims a list into a deduplicated set.
func normalizeAuthors(authors []string) []string {
	seen := make(map[string]bool, len(authors))
	var out []string
	for _, a := range authors {
		n := strings.ToLower(strings.TrimSpace(a))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// authorsOverlap reports whether one normalized author string contains the
// other as a substring.
func authorsOverlap(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// AuthorsMatch reports whether two raw author strings are loosely the same
// person: literal containment in either direction, or word-set Jaccard
// similarity of at least 0.8. Used by the citation matcher's author signal.
func AuthorsMatch(a, b string) bool {
	na := strings.ToLower(strings.TrimSpace(a))
	nb := strings.ToLower(strings.TrimSpace(b))
	if na == "" || nb == "" {
		return false
	}
	if authorsOverlap(na, nb) {
		return true
	}
	return TitleSimilarity(na, nb) >= authorPairThreshold
}

// CommonAuthorCount counts authors of a that loosely match some author of b.
// Each author of b is consumed by at most one match.
func CommonAuthorCount(a, b []string) int {
	matched := make([]bool, len(b))
	count := 0
	for _, x := range a {
		for j, y := range b {
			if matched[j] {
				continue
			}
			if AuthorsMatch(x, y) {
				matched[j] = true
				count++
				break
			}
		}
	}
	return count
}
