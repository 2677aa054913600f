package populate

import "github.com/scentdex/scentdex-server/internal/domain"

// promotionReason records which signal justified persisting a candidate.
// Evaluated in fixed priority order; the first matching reason wins, even
// when several apply.
func promotionReason(f *domain.Fragrance) domain.PromotionReason {
	switch {
	case f.MarketPriority >= tierOneWeight:
		return domain.ReasonTierOneBrand
	case f.HasGoodRating():
		return domain.ReasonHighRating
	case f.IsPopular():
		return domain.ReasonPopularity
	case f.Trending:
		return domain.ReasonTrending
	default:
		return domain.ReasonQualityProfile
	}
}

// batchQualifies decides batch-level promotion: a popular query promotes
// unconditionally, a niche query needs at least one candidate past the gate.
func batchQualifies(class Classification, candidates []*domain.Fragrance) bool {
	if class == ClassPopular {
		return true
	}
	for _, c := range candidates {
		if c.PassesQualityGate() {
			return true
		}
	}
	return false
}
