// Package populate implements the tiered search-and-population policy:
// local store first, then a budgeted external catalog fetch on miss, with
// quality-gated promotion of external records into the local store.
package populate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/scentdex/scentdex-server/internal/domain"
	"github.com/scentdex/scentdex-server/internal/id"
	"github.com/scentdex/scentdex-server/internal/metadata/perfumero"
	"github.com/scentdex/scentdex-server/internal/normalize"
	"github.com/scentdex/scentdex-server/internal/store"
)

// externalFetchLimit caps how many candidates one miss pulls from upstream.
const externalFetchLimit = 10

// Store is the local-store surface the engine depends on.
type Store interface {
	SearchVariants(ctx context.Context, variants []string, f store.Filter, limit, offset int) ([]*domain.Fragrance, error)
	CountVariants(ctx context.Context, variants []string, f store.Filter) (int, error)
	Create(ctx context.Context, f *domain.Fragrance) error
	Enhance(ctx context.Context, fragranceID string, candidate *domain.Fragrance) (*domain.Fragrance, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.Fragrance, error)
	FindByNameBrand(ctx context.Context, name, brand string) (*domain.Fragrance, error)
	Total(ctx context.Context) (int, error)
	CountBySource(ctx context.Context) (map[string]int, error)
	CountByMinPriority(ctx context.Context, weight float64) (int, error)
	CountPromotedSince(ctx context.Context, since time.Time) (int, error)
	AverageQuality(ctx context.Context) (float64, error)
}

// MetadataClient is the external catalog surface the engine depends on.
type MetadataClient interface {
	IsAvailable() bool
	Search(ctx context.Context, term string, limit int) ([]perfumero.Perfume, error)
	Usage() perfumero.BudgetStats
}

// Indexer receives promoted records so full-text search stays in sync.
type Indexer interface {
	IndexFragrance(f *domain.Fragrance) error
}

// NoopIndexer discards index updates. Used in tests.
type NoopIndexer struct{}

// IndexFragrance is a no-op.
func (NoopIndexer) IndexFragrance(*domain.Fragrance) error { return nil }

// Result is the engine's answer to one search call. Every record carries its
// data-source tag; transient records have no local identifier.
type Result struct {
	Results []*domain.Fragrance `json:"results"`
	Total   int                 `json:"total"`
	Source  string              `json:"source"` // "local" or "external"
}

// Engine owns the tier-fallback and promotion decisions. One instance per
// process; the budget and population log it holds are the only cross-request
// mutable state.
type Engine struct {
	store   Store
	client  MetadataClient
	indexer Indexer
	log     *populationLog
	logger  *slog.Logger

	now func() time.Time // Injectable for tests
}

// New creates a population engine.
func New(st Store, client MetadataClient, indexer Indexer, logger *slog.Logger) *Engine {
	if indexer == nil {
		indexer = NoopIndexer{}
	}
	return &Engine{
		store:   st,
		client:  client,
		indexer: indexer,
		log:     newPopulationLog(),
		logger:  logger,
		now:     time.Now,
	}
}

// SetIndexer wires the full-text indexer after construction. The search
// service holds the engine, so the indexer has to arrive late.
func (e *Engine) SetIndexer(ix Indexer) {
	if ix == nil {
		ix = NoopIndexer{}
	}
	e.indexer = ix
}

// Search resolves a query through the tier chain.
//
// Local-store failures propagate: there is no tier below the local store.
// Nothing from the external tier ever propagates; worst case is an empty
// result list.
func (e *Engine) Search(ctx context.Context, rawQuery string, filter store.Filter, limit, offset int) (*Result, error) {
	variants := normalize.Expand(rawQuery)

	local, err := e.store.SearchVariants(ctx, variants.Variants(), filter, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(local) > 0 {
		total, err := e.store.CountVariants(ctx, variants.Variants(), filter)
		if err != nil {
			return nil, err
		}
		return &Result{Results: local, Total: total, Source: "local"}, nil
	}

	// Local miss. Decide whether the external tier is worth consulting.
	normalized := variants.Normalized

	class := Classify(normalized)
	if class == ClassSkip {
		return emptyResult(), nil
	}
	if !e.log.ShouldPopulate(normalized) {
		e.logger.Debug("population throttled", "query", normalized)
		return emptyResult(), nil
	}
	if !e.client.IsAvailable() {
		e.logger.Debug("external catalog unavailable, staying local", "query", normalized)
		return emptyResult(), nil
	}

	candidates, err := e.client.Search(ctx, normalized, externalFetchLimit)
	if err != nil {
		e.logger.Warn("external fetch failed", "query", normalized, "error", err)
		return emptyResult(), nil
	}
	e.log.MarkPopulated(normalized)

	if len(candidates) == 0 {
		return emptyResult(), nil
	}

	mapped := make([]*domain.Fragrance, 0, len(candidates))
	for i := range candidates {
		mapped = append(mapped, e.mapCandidate(normalized, &candidates[i]))
	}

	if !batchQualifies(class, mapped) {
		for _, f := range mapped {
			f.DataSource = domain.SourceAPITransient
		}
		e.logger.Info("batch returned transient, promotion declined",
			"query", normalized, "candidates", len(mapped))
		return &Result{Results: mapped, Total: len(mapped), Source: "external"}, nil
	}

	processed := e.promoteBatch(ctx, normalized, mapped)
	return &Result{Results: processed, Total: len(processed), Source: "external"}, nil
}

// promoteBatch persists or enhances each candidate. Sequential on purpose:
// the existence check and insert are check-then-act against the store, and
// two writers racing on the same candidate would duplicate it.
func (e *Engine) promoteBatch(ctx context.Context, query string, candidates []*domain.Fragrance) []*domain.Fragrance {
	processed := make([]*domain.Fragrance, 0, len(candidates))
	promoted := 0

	for _, candidate := range candidates {
		result, err := e.promoteOne(ctx, candidate)
		if err != nil {
			// One bad record must not abort the batch.
			e.logger.Warn("candidate promotion failed",
				"query", query,
				"name", candidate.Name,
				"brand", candidate.Brand,
				"error", err,
			)
			continue
		}
		if result.DataSource == domain.SourceAPIPromoted {
			promoted++
		}
		processed = append(processed, result)
	}

	e.logger.Info("population batch processed",
		"query", query,
		"candidates", len(candidates),
		"promoted", promoted,
	)
	return processed
}

// promoteOne resolves a single candidate: enhance an existing row, insert a
// gate-passing new one, or hand it back transient.
func (e *Engine) promoteOne(ctx context.Context, candidate *domain.Fragrance) (*domain.Fragrance, error) {
	existing, err := e.findExisting(ctx, candidate)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		enhanced, err := e.store.Enhance(ctx, existing.ID, candidate)
		if err != nil {
			return nil, err
		}
		if idxErr := e.indexer.IndexFragrance(enhanced); idxErr != nil {
			e.logger.Warn("reindex after enhancement failed", "id", enhanced.ID, "error", idxErr)
		}
		return enhanced, nil
	}

	if !candidate.PassesQualityGate() {
		candidate.DataSource = domain.SourceAPITransient
		return candidate, nil
	}

	now := e.now()
	candidate.ID = id.MustGenerate("frag")
	candidate.DataSource = domain.SourceAPIPromoted
	candidate.PromotionReason = promotionReason(candidate)
	candidate.PromotedAt = &now

	if err := e.store.Create(ctx, candidate); err != nil {
		return nil, err
	}
	if idxErr := e.indexer.IndexFragrance(candidate); idxErr != nil {
		e.logger.Warn("index after promotion failed", "id", candidate.ID, "error", idxErr)
	}
	return candidate, nil
}

// findExisting matches a candidate to a local row by external ID first, then
// by case-insensitive name+brand pair. Returns nil when the candidate is new.
func (e *Engine) findExisting(ctx context.Context, candidate *domain.Fragrance) (*domain.Fragrance, error) {
	if candidate.ExternalID != "" {
		existing, err := e.store.GetByExternalID(ctx, candidate.ExternalID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	existing, err := e.store.FindByNameBrand(ctx, candidate.Name, candidate.Brand)
	if err == nil {
		return existing, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return nil, err
}

// mapCandidate converts a wire record into a domain record with every derived
// field computed. The name is cleaned here so the "name never redundantly
// contains the brand" invariant holds at promotion time.
func (e *Engine) mapCandidate(query string, p *perfumero.Perfume) *domain.Fragrance {
	f := &domain.Fragrance{
		ExternalID:    p.PID,
		Name:          CleanName(p.Name, p.Brand),
		Brand:         p.Brand,
		Concentration: p.Concentration,
		NotesTop:      p.NotesTop,
		NotesMiddle:   p.NotesMiddle,
		NotesBase:     p.NotesBase,
		Season:        p.Season,
		Occasion:      p.Occasion,
		Demographic:   deriveDemographic(p.Gender),
	}

	if p.Year > 0 {
		year := p.Year
		f.ReleaseYear = &year
	}
	if p.Rating > 0 {
		rating := p.Rating
		f.Rating = &rating
	}
	if p.Popularity > 0 {
		popularity := p.Popularity
		f.Popularity = &popularity
	}

	f.MarketPriority = BrandPriority(f.Brand)
	f.Trending = deriveTrending(f.Rating, f.Popularity)
	f.DataQuality = DeriveQuality(f)
	f.RelevanceScore = float64(normalize.Confidence(query, f.Name, f.Brand)) / 100

	return f
}

// UsageStats exposes the external client's daily budget snapshot.
func (e *Engine) UsageStats() perfumero.BudgetStats {
	return e.client.Usage()
}

// ExternalAvailable reports whether the external catalog tier can be
// consulted right now.
func (e *Engine) ExternalAvailable() bool {
	return e.client.IsAvailable()
}

func emptyResult() *Result {
	return &Result{Results: []*domain.Fragrance{}, Total: 0, Source: "local"}
}
