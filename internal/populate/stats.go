package populate

import (
	"context"

	"github.com/scentdex/scentdex-server/internal/domain"
)

// DatabaseTotals summarizes the catalog by provenance.
type DatabaseTotals struct {
	Total    int            `json:"total"`
	BySource map[string]int `json:"by_source"`
}

// Stats is the operator-facing population report.
type Stats struct {
	RecentPopulations    int            `json:"recent_populations"` // Promoted in the last 24h
	TotalPopulations     int            `json:"total_populations"`  // All api-promoted rows
	APIUsagePercentage   float64        `json:"api_usage_percentage"`
	AverageQuality       float64        `json:"average_quality"`
	DatabaseTotals       DatabaseTotals `json:"database_totals"`
	MarketCoverageByTier map[string]int `json:"market_coverage_by_tier"`
}

// PopulationStats assembles the population report from store counts and the
// client's budget snapshot.
func (e *Engine) PopulationStats(ctx context.Context) (*Stats, error) {
	total, err := e.store.Total(ctx)
	if err != nil {
		return nil, err
	}

	bySource, err := e.store.CountBySource(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := e.store.CountPromotedSince(ctx, e.now().Add(-populationWindow))
	if err != nil {
		return nil, err
	}

	avgQuality, err := e.store.AverageQuality(ctx)
	if err != nil {
		return nil, err
	}

	coverage, err := e.tierCoverage(ctx, total)
	if err != nil {
		return nil, err
	}

	usage := e.client.Usage()
	usagePct := 0.0
	if usage.Limit > 0 {
		usagePct = float64(usage.Used) / float64(usage.Limit) * 100
	}

	return &Stats{
		RecentPopulations:  recent,
		TotalPopulations:   bySource[string(domain.SourceAPIPromoted)],
		APIUsagePercentage: usagePct,
		AverageQuality:     avgQuality,
		DatabaseTotals: DatabaseTotals{
			Total:    total,
			BySource: bySource,
		},
		MarketCoverageByTier: coverage,
	}, nil
}

// tierCoverage buckets the catalog by market-priority weight. Counts at each
// threshold are cumulative, so buckets are the differences between them.
func (e *Engine) tierCoverage(ctx context.Context, total int) (map[string]int, error) {
	atLeast := make(map[float64]int, 4)
	for _, weight := range []float64{tierOneWeight, tierTwoWeight, tierFourWeight, tierThreeWeight} {
		count, err := e.store.CountByMinPriority(ctx, weight)
		if err != nil {
			return nil, err
		}
		atLeast[weight] = count
	}

	return map[string]int{
		"tier-1":   atLeast[tierOneWeight],
		"tier-2":   atLeast[tierTwoWeight] - atLeast[tierOneWeight],
		"tier-4":   atLeast[tierFourWeight] - atLeast[tierTwoWeight],
		"tier-3":   atLeast[tierThreeWeight] - atLeast[tierFourWeight],
		"unranked": total - atLeast[tierThreeWeight],
	}, nil
}
