package populate

import "strings"

// Classification is the external-fetch eligibility of a missed query.
type Classification int

const (
	// ClassSkip means the query is never sent externally.
	ClassSkip Classification = iota
	// ClassPopular means the query hits the curated high-traffic list;
	// external results promote without a per-batch quality vote.
	ClassPopular
	// ClassNiche means the query is unknown; promotion requires at least one
	// candidate to pass the quality gate.
	ClassNiche
)

// minExternalQueryLen is the shortest query worth an external call.
// One- and two-character fragments are too ambiguous to spend budget on.
const minExternalQueryLen = 3

// popularQueries is the curated list of high-traffic brand and product terms.
// Matching is case-insensitive bidirectional containment, same style as the
// abbreviation tables.
//
//nolint:gochecknoglobals
var popularQueries = []string{
	"sauvage", "bleu de chanel", "aventus", "eros", "dylan blue",
	"la nuit de l'homme", "one million", "invictus", "stronger with you",
	"acqua di gio", "light blue", "the one", "spicebomb", "ultra male",
	"baccarat rouge", "santal 33", "black opium", "libre", "good girl",
	"my way", "coco mademoiselle", "miss dior", "la vie est belle",
	"chanel", "dior", "creed", "tom ford", "versace", "armani",
	"yves saint laurent", "jean paul gaultier", "paco rabanne",
}

// Classify decides whether a local-miss query is worth an external fetch and
// how eagerly its results should be promoted.
func Classify(normalized string) Classification {
	if len(normalized) < minExternalQueryLen {
		return ClassSkip
	}

	q := strings.ToLower(normalized)
	for _, entry := range popularQueries {
		if strings.Contains(q, entry) || strings.Contains(entry, q) {
			return ClassPopular
		}
	}
	return ClassNiche
}
