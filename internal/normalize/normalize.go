// Package normalize provides query-term normalization and fuzzy expansion for
// fragrance searches. It folds raw user input into a canonical form, expands
// brand abbreviations and community nicknames via static lookup tables, and
// generates typo-corrected variants by edit-distance matching against the
// known vocabulary.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks decomposes to NFD, drops combining marks, and recomposes.
// "Hermès" and "hermes" normalize to the same term.
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a raw query term. Deterministic and idempotent:
// Normalize(Normalize(x)) == Normalize(x).
//
// Steps, in fixed order: lowercase, trim, strip diacritics, strip apostrophes
// and backticks, replace "&" with "and", replace dots/hyphens/underscores with
// spaces, collapse whitespace runs.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))

	if folded, _, err := transform.String(foldMarks, s); err == nil {
		s = folded
	}

	s = strings.NewReplacer(
		"'", "",
		"`", "",
		"’", "",
		"&", " and ",
		".", " ",
		"-", " ",
		"_", " ",
	).Replace(s)

	return strings.Join(strings.Fields(s), " ")
}

// containsEither reports bidirectional substring containment between two
// already-normalized terms. Short queries can match many table entries this
// way; callers are expected to deduplicate.
func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
