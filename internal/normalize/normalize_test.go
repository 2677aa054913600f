package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "SAUVAGE", "sauvage"},
		{"trims", "  bleu de chanel  ", "bleu de chanel"},
		{"strips apostrophes", "L'Homme", "lhomme"},
		{"strips backticks", "l`homme", "lhomme"},
		{"ampersand becomes and", "Dolce & Gabbana", "dolce and gabbana"},
		{"dots become spaces", "No.5", "no 5"},
		{"hyphens become spaces", "spice-bomb", "spice bomb"},
		{"underscores become spaces", "one_million", "one million"},
		{"collapses whitespace", "tom   ford   noir", "tom ford noir"},
		{"folds diacritics", "Hermès Terre d'Hermès", "hermes terre dhermes"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Dolce & Gabbana Light Blue",
		"  YSL   La-Nuit.De_L'Homme ",
		"Hermès",
		"chanel no.5",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "Normalize must be idempotent for %q", in)
	}
}

func TestExpandBrands(t *testing.T) {
	got := ExpandBrands("ysl")
	assert.Contains(t, got, "Yves Saint Laurent")

	// Bidirectional containment: the query may contain the key.
	got = ExpandBrands("ysl la nuit")
	assert.Contains(t, got, "Yves Saint Laurent")

	assert.Empty(t, ExpandBrands("zzzznothing"))
}

func TestExpandBrands_AllEntriesRoundTrip(t *testing.T) {
	// Every table entry must be reachable through its own key.
	for _, e := range brandAbbreviations {
		got := ExpandBrands(Normalize(e.Key))
		assert.Contains(t, got, e.Canonical, "abbreviation %q must expand to %q", e.Key, e.Canonical)
	}
}

func TestExpandNicknames(t *testing.T) {
	got := ExpandNicknames("chanel blue")
	assert.Contains(t, got, "Bleu de Chanel")

	got = ExpandNicknames("la nuit")
	assert.Contains(t, got, "La Nuit de L'Homme")

	assert.Empty(t, ExpandNicknames("qqqqqq"))
}

func TestCorrectTypos(t *testing.T) {
	vocab := Vocabulary()

	got := CorrectTypos("sovage", vocab)
	assert.Contains(t, got, "sauvage")

	got = CorrectTypos("chanle", vocab)
	assert.Contains(t, got, "chanel")

	// Too short: never corrected.
	assert.Empty(t, CorrectTypos("ys", vocab))
}

func TestCorrectTypos_NeverReturnsExactMatch(t *testing.T) {
	vocab := Vocabulary()
	for _, term := range vocab {
		for _, got := range CorrectTypos(term, vocab) {
			assert.NotEqual(t, term, got, "corrections for %q must exclude distance-0 matches", term)
		}
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"chanel", "chanle", 1}, // transposition counts as one edit
		{"dior", "dioor", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, editDistance(tt.a, tt.b), "editDistance(%q, %q)", tt.a, tt.b)
	}
}
