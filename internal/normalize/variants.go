package normalize

import (
	"math"
	"strings"
)

// MaxVariants bounds the OR-predicate fed to the local store. Worst-case
// query cost stays predictable no matter how many table entries match.
const MaxVariants = 10

// Confidence tier scores, highest to lowest.
const (
	scoreExact     = 100
	scoreNickname  = 95
	scoreBrand     = 90
	scoreSubstring = 80
	fuzzyScale     = 70.0
)

// VariantSet is the ephemeral per-query expansion consumed by the local
// store adapter. Each list is deduplicated and ordered; priority for
// predicate-building is exact > nickname > brand > fuzzy.
type VariantSet struct {
	Original   string
	Normalized string

	Exact     []string
	Nicknames []string
	Brands    []string
	Fuzzy     []string
}

// Expand produces the full variant set for a raw query.
//
// The nickname tier includes a cross-reference pass: each brand expansion is
// prefixed onto the normalized query and re-run through the nickname table,
// which resolves compound queries like "ysl la nuit" that need both tables.
func Expand(rawQuery string) *VariantSet {
	normalized := Normalize(rawQuery)

	vs := &VariantSet{
		Original:   rawQuery,
		Normalized: normalized,
	}

	seen := make(map[string]bool)
	appendUnique := func(dst []string, terms ...string) []string {
		for _, t := range terms {
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			dst = append(dst, t)
		}
		return dst
	}

	vs.Exact = appendUnique(vs.Exact, strings.ToLower(strings.TrimSpace(rawQuery)), normalized)

	brands := ExpandBrands(normalized)
	nicks := ExpandNicknames(normalized)

	// Cross-reference pass over "{brand} {query}" compounds.
	for _, brand := range brands {
		compound := Normalize(brand + " " + normalized)
		nicks = append(nicks, ExpandNicknames(compound)...)
	}

	vs.Nicknames = appendUnique(vs.Nicknames, nicks...)
	vs.Brands = appendUnique(vs.Brands, brands...)
	vs.Fuzzy = appendUnique(vs.Fuzzy, CorrectTypos(normalized, Vocabulary())...)

	return vs
}

// Variants flattens the set in priority order, capped at MaxVariants.
func (vs *VariantSet) Variants() []string {
	out := make([]string, 0, MaxVariants)
	for _, tier := range [][]string{vs.Exact, vs.Nicknames, vs.Brands, vs.Fuzzy} {
		for _, v := range tier {
			if len(out) == MaxVariants {
				return out
			}
			out = append(out, v)
		}
	}
	return out
}

// Confidence scores how well a candidate record matches a query, 0-100.
//
// Tiers are strict: 100 exact, 95 nickname, 90 brand, 80 substring, and at
// most 70 for fuzzy similarity, so results sort stably across tiers.
func Confidence(query, candidateName, candidateBrand string) int {
	q := Normalize(query)
	name := Normalize(candidateName)
	brand := Normalize(candidateBrand)

	if q == "" {
		return 0
	}

	if name == q || brand == q {
		return scoreExact
	}

	for _, canonical := range ExpandNicknames(q) {
		if strings.Contains(name, Normalize(canonical)) {
			return scoreNickname
		}
	}

	for _, canonical := range ExpandBrands(q) {
		if strings.Contains(brand, Normalize(canonical)) {
			return scoreBrand
		}
	}

	if containsEither(name, q) || containsEither(brand, q) {
		return scoreSubstring
	}

	// Fuzzy tier: better (smaller-distance) of name vs brand similarity.
	sim := similarity(q, name)
	if brand != "" {
		sim = math.Max(sim, similarity(q, brand))
	}
	if sim < 0 {
		sim = 0
	}
	return int(math.Round(sim * fuzzyScale))
}
