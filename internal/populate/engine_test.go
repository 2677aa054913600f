package populate

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scentdex/scentdex-server/internal/domain"
	"github.com/scentdex/scentdex-server/internal/logger"
	"github.com/scentdex/scentdex-server/internal/metadata/perfumero"
	"github.com/scentdex/scentdex-server/internal/store"
	"github.com/scentdex/scentdex-server/internal/store/sqlite"
)

// fakeClient is a scripted MetadataClient that counts outbound calls.
type fakeClient struct {
	available bool
	results   []perfumero.Perfume
	err       error
	calls     int
	usage     perfumero.BudgetStats
}

func (c *fakeClient) IsAvailable() bool { return c.available }

func (c *fakeClient) Search(_ context.Context, _ string, _ int) ([]perfumero.Perfume, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.results, nil
}

func (c *fakeClient) Usage() perfumero.BudgetStats { return c.usage }

func newTestEngine(t *testing.T, client *fakeClient) (*Engine, *sqlite.Store) {
	t.Helper()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger.Discard().Logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return New(st, client, nil, logger.Discard().Logger), st
}

func seedLocal(t *testing.T, st *sqlite.Store, id, name, brand string) {
	t.Helper()
	f := &domain.Fragrance{
		ID:             id,
		Name:           name,
		Brand:          brand,
		MarketPriority: BrandPriority(brand),
		DataSource:     domain.SourceNativeImport,
	}
	require.NoError(t, st.Create(context.Background(), f))
}

func TestSearchLocalHitBypassesExternal(t *testing.T) {
	client := &fakeClient{available: true}
	engine, st := newTestEngine(t, client)
	seedLocal(t, st, "frag-1", "Bleu de Chanel", "Chanel")

	// The nickname table resolves "chanel blue" to "Bleu de Chanel".
	result, err := engine.Search(context.Background(), "chanel blue", store.Filter{}, 20, 0)
	require.NoError(t, err)

	require.Len(t, result.Results, 1)
	assert.Equal(t, "frag-1", result.Results[0].ID)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, "local", result.Source)
	assert.Equal(t, 0, client.calls, "local hit must not touch the external tier")
}

func TestSearchMissWithUnavailableClient(t *testing.T) {
	client := &fakeClient{available: false}
	engine, _ := newTestEngine(t, client)

	result, err := engine.Search(context.Background(), "zzzzznonexistentbrand", store.Filter{}, 20, 0)
	require.NoError(t, err)

	assert.Empty(t, result.Results)
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 0, client.calls)
}

func TestSearchShortQueryNeverGoesExternal(t *testing.T) {
	client := &fakeClient{available: true}
	engine, _ := newTestEngine(t, client)

	result, err := engine.Search(context.Background(), "ab", store.Filter{}, 20, 0)
	require.NoError(t, err)

	assert.Empty(t, result.Results)
	assert.Equal(t, 0, client.calls)
}

func TestSearchExternalFetchFailureDegradesToEmpty(t *testing.T) {
	client := &fakeClient{available: true, err: errors.New("upstream down")}
	engine, _ := newTestEngine(t, client)

	result, err := engine.Search(context.Background(), "zzzzznonexistentbrand", store.Filter{}, 20, 0)
	require.NoError(t, err, "external failures never propagate")

	assert.Empty(t, result.Results)
	assert.Equal(t, 0, result.Total)
}

func TestNichePromotionQualityGate(t *testing.T) {
	client := &fakeClient{
		available: true,
		results: []perfumero.Perfume{
			{PID: "ext-1", Name: "Velvet Smoke", Brand: "Obscura", Rating: 4.5},
			{PID: "ext-2", Name: "Dusty Rose", Brand: "Obscura", Rating: 2.0},
			{PID: "ext-3", Name: "Pale Iris", Brand: "Obscura", Rating: 2.0},
		},
	}
	engine, st := newTestEngine(t, client)
	ctx := context.Background()

	result, err := engine.Search(ctx, "zzzzznonexistentbrand", store.Filter{}, 20, 0)
	require.NoError(t, err)
	require.Len(t, result.Results, 3)
	assert.Equal(t, "external", result.Source)

	// Exactly the gate-passing candidate is persisted.
	total, err := st.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	persisted, err := st.GetByExternalID(ctx, "ext-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceAPIPromoted, persisted.DataSource)
	assert.Equal(t, domain.ReasonHighRating, persisted.PromotionReason)
	require.NotNil(t, persisted.PromotedAt)

	// The failing candidates come back transient, not dropped.
	transient := 0
	for _, f := range result.Results {
		if f.DataSource == domain.SourceAPITransient {
			transient++
			assert.Empty(t, f.ID)
		}
	}
	assert.Equal(t, 2, transient)
}

func TestNicheBatchDeclinedAllTransient(t *testing.T) {
	client := &fakeClient{
		available: true,
		results: []perfumero.Perfume{
			{PID: "ext-1", Name: "Dusty Rose", Brand: "Obscura", Rating: 2.0},
			{PID: "ext-2", Name: "Pale Iris", Brand: "Obscura", Rating: 1.5},
		},
	}
	engine, st := newTestEngine(t, client)
	ctx := context.Background()

	result, err := engine.Search(ctx, "zzzzznonexistentbrand", store.Filter{}, 20, 0)
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	for _, f := range result.Results {
		assert.Equal(t, domain.SourceAPITransient, f.DataSource)
	}

	total, err := st.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestPopularQueryPromotesButGateStillAppliesPerCandidate(t *testing.T) {
	client := &fakeClient{
		available: true,
		results: []perfumero.Perfume{
			{PID: "ext-1", Name: "Dior Sauvage", Brand: "Dior", Rating: 4.3},
			{PID: "ext-2", Name: "Savage Clone", Brand: "Nobody Labs", Rating: 2.0},
		},
	}
	engine, st := newTestEngine(t, client)
	ctx := context.Background()

	result, err := engine.Search(ctx, "sauvage", store.Filter{}, 20, 0)
	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	total, err := st.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	promoted, err := st.GetByExternalID(ctx, "ext-1")
	require.NoError(t, err)
	// Brand redundancy is stripped at promotion time.
	assert.Equal(t, "Sauvage", promoted.Name)
	assert.Equal(t, domain.ReasonTierOneBrand, promoted.PromotionReason)
	assert.InDelta(t, 1.0, promoted.MarketPriority, 0.001)
}

func TestIdempotentPromotionEnhancesExisting(t *testing.T) {
	client := &fakeClient{
		available: true,
		results: []perfumero.Perfume{
			{
				PID: "ext-1", Name: "Obscure Oud", Brand: "Noname House",
				Rating: 3.0, Year: 2019,
				NotesTop: []string{"oud"}, NotesMiddle: []string{"rose"}, NotesBase: []string{"amber"},
			},
		},
	}
	engine, st := newTestEngine(t, client)
	ctx := context.Background()

	rating := 4.8
	existing := &domain.Fragrance{
		ID:             "frag-1",
		ExternalID:     "ext-1",
		Name:           "Obscure Oud",
		Brand:          "Noname House",
		Rating:         &rating,
		MarketPriority: 0.3,
		DataSource:     domain.SourceAPIPromoted,
	}
	require.NoError(t, st.Create(ctx, existing))

	// The query misses locally but the candidate matches by external ID.
	result, err := engine.Search(ctx, "hidden gem attar", store.Filter{}, 20, 0)
	require.NoError(t, err)
	require.Len(t, result.Results, 1)

	total, err := st.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total, "no duplicate row")

	enhanced, err := st.GetByID(ctx, "frag-1")
	require.NoError(t, err)
	require.NotNil(t, enhanced.Rating)
	assert.InDelta(t, 4.8, *enhanced.Rating, 0.001, "existing rating never overwritten")
	require.NotNil(t, enhanced.ReleaseYear)
	assert.Equal(t, 2019, *enhanced.ReleaseYear, "missing year filled in")
	require.NotNil(t, enhanced.EnhancedAt)
}

func TestRepeatNicheQueryThrottled(t *testing.T) {
	client := &fakeClient{available: true}
	engine, _ := newTestEngine(t, client)
	ctx := context.Background()

	_, err := engine.Search(ctx, "zzzzznonexistentbrand", store.Filter{}, 20, 0)
	require.NoError(t, err)
	_, err = engine.Search(ctx, "zzzzznonexistentbrand", store.Filter{}, 20, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, client.calls, "second call short-circuits via the population log")
}

func TestPopulationStats(t *testing.T) {
	client := &fakeClient{
		available: true,
		usage:     perfumero.BudgetStats{Used: 250, Limit: 1000, Remaining: 750},
	}
	engine, st := newTestEngine(t, client)
	ctx := context.Background()

	seedLocal(t, st, "frag-1", "Sauvage", "Dior")       // tier 1
	seedLocal(t, st, "frag-2", "Eros", "Versace")       // tier 2
	seedLocal(t, st, "frag-3", "Nightfall", "Obscura")  // unranked
	now := engine.now()
	promoted := &domain.Fragrance{
		ID: "frag-4", Name: "Cloud", Brand: "Ariana Grande",
		MarketPriority: BrandPriority("Ariana Grande"),
		DataSource:     domain.SourceAPIPromoted,
		PromotedAt:     &now,
	}
	require.NoError(t, st.Create(ctx, promoted))

	stats, err := engine.PopulationStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.RecentPopulations)
	assert.Equal(t, 1, stats.TotalPopulations)
	assert.InDelta(t, 25.0, stats.APIUsagePercentage, 0.001)
	assert.Equal(t, 4, stats.DatabaseTotals.Total)
	assert.Equal(t, 3, stats.DatabaseTotals.BySource[string(domain.SourceNativeImport)])
	assert.Equal(t, 1, stats.MarketCoverageByTier["tier-1"])
	assert.Equal(t, 1, stats.MarketCoverageByTier["tier-2"])
	assert.Equal(t, 1, stats.MarketCoverageByTier["tier-4"])
	assert.Equal(t, 0, stats.MarketCoverageByTier["tier-3"])
	assert.Equal(t, 1, stats.MarketCoverageByTier["unranked"])
}
