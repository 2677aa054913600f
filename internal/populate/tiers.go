package populate

import "strings"

// Brand tier weights. Tier four (celebrity/viral) deliberately outranks tier
// three (budget/clone houses): a celebrity launch with supermarket
// distribution still draws more searches than a clone house.
const (
	tierOneWeight   = 1.0
	tierTwoWeight   = 0.8
	tierThreeWeight = 0.6
	tierFourWeight  = 0.7

	// DefaultBrandWeight applies to brands in no tier table.
	DefaultBrandWeight = 0.3
)

// brandTiers lists brand fragments per tier. Matching is case-insensitive
// bidirectional containment; the first matching tier in declaration order
// wins.
//
//nolint:gochecknoglobals
var brandTiers = []struct {
	weight float64
	brands []string
}{
	{tierOneWeight, []string{
		"chanel", "dior", "creed", "tom ford", "yves saint laurent",
		"giorgio armani", "armani", "guerlain", "hermes", "jean paul gaultier",
		"viktor and rolf", "paco rabanne", "maison francis kurkdjian",
		"parfums de marly", "xerjoff", "amouage", "roja",
	}},
	{tierTwoWeight, []string{
		"versace", "prada", "valentino", "givenchy", "burberry", "gucci",
		"dolce and gabbana", "carolina herrera", "montblanc", "azzaro",
		"issey miyake", "calvin klein", "hugo boss", "ralph lauren",
		"mugler", "bvlgari", "lancome", "initio", "mancera", "montale",
	}},
	{tierThreeWeight, []string{
		"armaf", "lattafa", "rasasi", "al haramain", "afnan", "zara",
		"dossier", "alt fragrances", "oakcha", "dua",
	}},
	{tierFourWeight, []string{
		"ariana grande", "billie eilish", "rihanna", "fenty", "sol de janeiro",
		"bath and body works", "victoria secret", "kayali", "skims",
	}},
}

// BrandPriority computes the market-priority weight for a brand.
// Pure function of the brand string; recompute, never store independently.
func BrandPriority(brand string) float64 {
	b := strings.ToLower(strings.TrimSpace(brand))
	if b == "" {
		return DefaultBrandWeight
	}

	for _, tier := range brandTiers {
		for _, entry := range tier.brands {
			if strings.Contains(b, entry) || strings.Contains(entry, b) {
				return tier.weight
			}
		}
	}
	return DefaultBrandWeight
}
