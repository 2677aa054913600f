package normalize

// Typo acceptance thresholds. A vocabulary term is accepted as a correction
// when its edit distance is small and the overall shape still matches.
const (
	maxTypoDistance     = 2
	minTypoSimilarity   = 0.8
	minExternalQueryLen = 3 // queries shorter than this never expand usefully
)

// ExpandBrands returns canonical brand names whose abbreviation entry matches
// the normalized term by bidirectional substring containment. Returns the
// matches in table order; empty slice when nothing matches.
func ExpandBrands(normalized string) []string {
	return expandTable(brandAbbreviations, normalized)
}

// ExpandNicknames returns canonical product names whose nickname entry
// matches the normalized term by bidirectional substring containment.
func ExpandNicknames(normalized string) []string {
	return expandTable(nicknames, normalized)
}

// ExpandAbbreviations returns the union of brand and nickname expansions,
// deduplicated, table order preserved (brands first).
func ExpandAbbreviations(normalized string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range ExpandBrands(normalized) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, c := range ExpandNicknames(normalized) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func expandTable(table []entry, normalized string) []string {
	if len(normalized) < 2 {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, e := range table {
		if !containsEither(normalized, e.Key) {
			continue
		}
		if seen[e.Canonical] {
			continue
		}
		seen[e.Canonical] = true
		out = append(out, e.Canonical)
	}
	return out
}

// CorrectTypos returns typo-corrected variants of a normalized term.
// The direct correction table is consulted first; the remaining candidates
// come from a Damerau-Levenshtein scan over vocab. Exact matches (distance 0)
// are excluded by construction: they belong to the exact tier, not fuzzy.
func CorrectTypos(normalized string, vocab []string) []string {
	if len(normalized) < minExternalQueryLen {
		return nil
	}

	seen := make(map[string]bool)
	var out []string

	for _, e := range typoCorrections {
		if e.Key != normalized {
			continue
		}
		corrected := Normalize(e.Canonical)
		if corrected != normalized && !seen[corrected] {
			seen[corrected] = true
			out = append(out, corrected)
		}
	}

	for _, term := range vocab {
		if term == normalized || seen[term] {
			continue
		}
		dist := editDistance(normalized, term)
		if dist == 0 || dist > maxTypoDistance {
			continue
		}
		longest := max(len(normalized), len(term))
		if 1.0-float64(dist)/float64(longest) < minTypoSimilarity {
			continue
		}
		seen[term] = true
		out = append(out, term)
	}

	return out
}
