package similarity

// LevenshteinTitleSimilarity is an alternate title scorer based on edit
// distance over the normalized strings: 1 - distance/maxLen. It is stricter
// than Jaccard about word order and is offered as an opt-in strategy via
// WithTitleScorer; the Jaccard scorer remains the default.
func LevenshteinTitleSimilarity(a, b string) float64 {
	na, nb := normalize(a), normalize(b)

	if na == nb {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0.0
	}

	dist := levenshtein(na, nb)
	maxLen := len(na)
	if len(nb) > maxLen {
		maxLen = len(nb)
	}
	return 1.0 - float64(dist)/float64(maxLen)
}

// levenshtein computes edit distance with a two-row matrix.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
