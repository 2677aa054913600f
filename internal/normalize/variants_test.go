package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand_ExactTierFirst(t *testing.T) {
	vs := Expand("Sauvage")

	require.NotEmpty(t, vs.Exact)
	assert.Equal(t, "sauvage", vs.Exact[0])
	assert.Equal(t, "sauvage", vs.Normalized)

	variants := vs.Variants()
	require.NotEmpty(t, variants)
	assert.Equal(t, "sauvage", variants[0], "exact tier must lead the flattened list")
}

func TestExpand_NicknameResolution(t *testing.T) {
	vs := Expand("chanel blue")
	assert.Contains(t, vs.Nicknames, "Bleu de Chanel")
}

func TestExpand_CrossReferencePass(t *testing.T) {
	// "ysl la nuit" resolves through both tables: the brand tier expands
	// "ysl", and the nickname tier picks up "la nuit".
	vs := Expand("ysl la nuit")
	assert.Contains(t, vs.Brands, "Yves Saint Laurent")
	assert.Contains(t, vs.Nicknames, "La Nuit de L'Homme")
}

func TestExpand_VariantCap(t *testing.T) {
	// A short, broadly-matching query hits many table entries through
	// bidirectional containment; the flattened list must stay bounded.
	queries := []string{"ch", "an", "the one million la nuit good girl light blue", "a"}
	for _, q := range queries {
		vs := Expand(q)
		assert.LessOrEqual(t, len(vs.Variants()), MaxVariants, "variant list for %q exceeds cap", q)
	}
}

func TestExpand_DeduplicatesAcrossTiers(t *testing.T) {
	vs := Expand("bleu de chanel")
	seen := make(map[string]int)
	for _, v := range vs.Variants() {
		seen[v]++
	}
	for v, n := range seen {
		assert.Equal(t, 1, n, "variant %q appears %d times", v, n)
	}
}

func TestConfidence_Tiers(t *testing.T) {
	// Exact name match, case-insensitive.
	assert.Equal(t, 100, Confidence("sauvage", "Sauvage", "Dior"))
	assert.Equal(t, 100, Confidence("SAUVAGE", "sauvage", "Dior"))

	// Exact brand match.
	assert.Equal(t, 100, Confidence("dior", "Sauvage", "Dior"))

	// Nickname hit whose canonical form is contained in the candidate name.
	assert.Equal(t, 95, Confidence("chanel blue", "Bleu de Chanel Parfum", "Chanel"))

	// Brand-table hit whose canonical form is contained in the candidate brand.
	assert.Equal(t, 90, Confidence("ysl libre intense", "Libre Intense", "Yves Saint Laurent"))

	// Substring containment.
	assert.Equal(t, 80, Confidence("aventus cologne", "Aventus", "Creed"))

	// Fuzzy tier never exceeds 70.
	score := Confidence("savauge", "Sausage Roll", "Nobody")
	assert.LessOrEqual(t, score, 70)
	assert.GreaterOrEqual(t, score, 0)
}

func TestConfidence_StrictOrdering(t *testing.T) {
	exact := Confidence("sauvage", "Sauvage", "Dior")
	nickname := Confidence("chanel blue", "Bleu de Chanel", "Chanel")
	brand := Confidence("ysl libre intense", "Libre Intense", "Yves Saint Laurent")
	substring := Confidence("noir extreme 2015", "Noir Extreme", "Tom Ford")

	assert.Greater(t, exact, nickname)
	assert.Greater(t, nickname, brand)
	assert.Greater(t, brand, substring)
	assert.Greater(t, substring, 70)
}
