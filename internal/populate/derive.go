package populate

import (
	"strings"

	"github.com/scentdex/scentdex-server/internal/domain"
)

// deriveTrending flags records the market is currently chasing: very popular,
// or well-rated with meaningful popularity.
func deriveTrending(rating, popularity *float64) bool {
	if popularity != nil && *popularity > 80 {
		return true
	}
	if rating != nil && popularity != nil {
		return *rating >= domain.GoodRatingThreshold && *popularity > 50
	}
	return false
}

// deriveDemographic maps the upstream gender tag onto our demographic
// vocabulary. Unknown or absent tags stay empty rather than guessing.
func deriveDemographic(gender string) string {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "male", "men", "m":
		return "masculine"
	case "female", "women", "f":
		return "feminine"
	case "unisex", "u", "shared":
		return "unisex"
	default:
		return ""
	}
}

// DeriveQuality scores field completeness on a 0..1 scale. Identity fields
// (name, brand) are a precondition for reaching this code and score nothing;
// the score measures how much of the optional profile is filled in.
func DeriveQuality(f *domain.Fragrance) float64 {
	const fields = 6.0
	filled := 0.0

	if f.Rating != nil {
		filled++
	}
	if f.Popularity != nil {
		filled++
	}
	if f.ReleaseYear != nil {
		filled++
	}
	if f.Concentration != "" {
		filled++
	}
	if f.HasCompleteNotes() {
		filled++
	}
	if f.Demographic != "" {
		filled++
	}

	return filled / fields
}
