package normalize

// editDistance computes the Damerau-Levenshtein distance between two strings
// (insertions, deletions, substitutions, and adjacent transpositions).
// Operates on bytes; the vocabulary is ASCII after normalization.
func editDistance(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev2 := make([]int, lb+1)
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)

	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			d := min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				d = min(d, prev2[j-2]+1)
			}
			curr[j] = d
		}
		prev2, prev, curr = prev, curr, prev2
	}

	return prev[lb]
}

// similarity returns 1 - distance/max(len(a), len(b)), the ratio used by both
// typo acceptance and fuzzy confidence scoring.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(editDistance(a, b))/float64(longest)
}
