// Package service bridges the search index, the result cache, the local
// store, and the population engine into the search surface exposed to the
// HTTP layer.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/scentdex/scentdex-server/internal/cache"
	"github.com/scentdex/scentdex-server/internal/domain"
	"github.com/scentdex/scentdex-server/internal/normalize"
	"github.com/scentdex/scentdex-server/internal/populate"
	"github.com/scentdex/scentdex-server/internal/search"
	"github.com/scentdex/scentdex-server/internal/store"
	"github.com/scentdex/scentdex-server/internal/store/sqlite"
)

// Cache TTLs for the two cached surfaces.
const (
	searchCacheTTL       = 5 * time.Minute
	autocompleteCacheTTL = 10 * time.Minute

	// minAutocompletePrefix rejects one-character prefixes outright.
	minAutocompletePrefix = 2
)

// SearchRequest is the caller's search input.
type SearchRequest struct {
	Query     string
	Filter    store.Filter
	Limit     int
	Offset    int
	SortBy    string // "relevance", "name", "brand", "year", "rating", "popularity"
	SortOrder string // "asc", "desc"
}

// ResultItem is one ranked record with its match annotation.
type ResultItem struct {
	Fragrance *domain.Fragrance `json:"fragrance"`
	MatchType string            `json:"match_type"` // "exact", "partial", "fuzzy"
	Score     float64           `json:"score"`
}

// SearchResponse is the search surface's answer shape, identical across the
// index path, the store fallback, and the population path.
type SearchResponse struct {
	Results    []ResultItem `json:"results"`
	Total      int          `json:"total"`
	DurationMs int64        `json:"duration_ms"`
	Cached     bool         `json:"cached"`
	Source     string       `json:"source"` // "index", "local", "external"
}

// SearchService resolves searches: cache, then full-text index, then the
// population engine on an empty result; the local store backstops an
// unavailable index. The index and cache paths never surface errors.
type SearchService struct {
	index  *search.Index
	store  *sqlite.Store
	cache  *cache.Cache
	engine *populate.Engine
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.Index, st *sqlite.Store, c *cache.Cache, engine *populate.Engine, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  st,
		cache:  c,
		engine: engine,
		logger: logger,
	}
}

// Search resolves a query through cache, index, and population tiers.
// Only local-store failures propagate; every external tier degrades.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	start := time.Now()

	normalized := normalize.Normalize(req.Query)
	key := searchCacheKey(normalized, req)

	var cached SearchResponse
	if err := s.cache.Get(key, &cached); err == nil {
		cached.Cached = true
		cached.DurationMs = time.Since(start).Milliseconds()
		return &cached, nil
	}

	resp, err := s.resolve(ctx, normalized, req)
	if err != nil {
		return nil, err
	}
	resp.DurationMs = time.Since(start).Milliseconds()

	if cacheErr := s.cache.Set(key, resp, searchCacheTTL); cacheErr != nil {
		s.logger.Warn("search cache write failed", "key", key, "error", cacheErr)
	}
	return resp, nil
}

// resolve runs the uncached tier chain.
func (s *SearchService) resolve(ctx context.Context, normalized string, req SearchRequest) (*SearchResponse, error) {
	resp := s.searchIndex(ctx, normalized, req)

	// Index unreachable: degrade to the store's simple query path.
	if resp == nil {
		var err error
		resp, err = s.searchStoreFallback(ctx, normalized, req)
		if err != nil {
			return nil, err
		}
	}

	if len(resp.Results) > 0 {
		return resp, nil
	}

	// Nothing indexed matches. Hand the query to the population engine,
	// which retries the store with expanded variants and may go external.
	engineResult, err := s.engine.Search(ctx, req.Query, req.Filter, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	results := make([]ResultItem, 0, len(engineResult.Results))
	for _, f := range engineResult.Results {
		matchType, _ := matchHeuristic(normalized, f.Name, f.Brand)
		results = append(results, ResultItem{
			Fragrance: f,
			MatchType: matchType,
			Score:     f.RelevanceScore,
		})
	}

	return &SearchResponse{
		Results: results,
		Total:   engineResult.Total,
		Source:  engineResult.Source,
	}, nil
}

// searchIndex runs the primary full-text path. Returns nil when the index is
// unusable so the caller can fall back; never returns an error.
func (s *SearchService) searchIndex(ctx context.Context, normalized string, req SearchRequest) *SearchResponse {
	if s.index == nil {
		return nil
	}

	params := search.Params{
		Query:         normalized,
		Brand:         req.Filter.Brand,
		Concentration: req.Filter.Concentration,
		Season:        req.Filter.Season,
		Occasion:      req.Filter.Occasion,
		Mood:          req.Filter.Mood,
		MinYear:       req.Filter.YearFrom,
		MaxYear:       req.Filter.YearTo,
		Limit:         store.ClampLimit(req.Limit),
		Offset:        store.ClampOffset(req.Offset),
		SortBy:        req.SortBy,
		SortOrder:     req.SortOrder,
	}

	indexResult, err := s.index.Search(ctx, params)
	if err != nil {
		s.logger.Warn("index search failed, falling back to store", "query", normalized, "error", err)
		return nil
	}

	results := make([]ResultItem, 0, len(indexResult.Hits))
	for _, hit := range indexResult.Hits {
		f, err := s.store.GetByID(ctx, hit.ID)
		if err != nil {
			// Index ahead of the store; skip the orphan hit.
			s.logger.Warn("indexed record missing from store", "id", hit.ID)
			continue
		}
		matchType, _ := matchHeuristic(normalized, f.Name, f.Brand)
		results = append(results, ResultItem{
			Fragrance: f,
			MatchType: matchType,
			Score:     hit.Score,
		})
	}

	return &SearchResponse{
		Results: results,
		Total:   int(indexResult.Total),
		Source:  "index",
	}
}

// searchStoreFallback answers from the local store when the index is down,
// translating rows into the index path's response shape.
func (s *SearchService) searchStoreFallback(ctx context.Context, normalized string, req SearchRequest) (*SearchResponse, error) {
	rows, err := s.store.Search(ctx, normalized, req.Filter, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}
	total, err := s.store.Count(ctx, normalized, req.Filter)
	if err != nil {
		return nil, err
	}

	results := make([]ResultItem, 0, len(rows))
	for _, f := range rows {
		matchType, score := matchHeuristic(normalized, f.Name, f.Brand)
		results = append(results, ResultItem{
			Fragrance: f,
			MatchType: matchType,
			Score:     score,
		})
	}

	return &SearchResponse{
		Results: results,
		Total:   total,
		Source:  "local",
	}, nil
}

// Autocomplete suggests fragrance names for a prefix. Prefixes under two
// characters return empty without touching any tier.
func (s *SearchService) Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if len(prefix) < minAutocompletePrefix {
		return []string{}, nil
	}
	limit = store.ClampLimit(limit)

	key := fmt.Sprintf("ac:%s|%d", strings.ToLower(prefix), limit)
	var cached []string
	if err := s.cache.Get(key, &cached); err == nil {
		return cached, nil
	}

	var names []string
	var err error
	if s.index != nil {
		names, err = s.index.Autocomplete(ctx, prefix, limit)
		if err != nil {
			s.logger.Warn("index autocomplete failed, falling back to store", "prefix", prefix, "error", err)
		}
	}
	if s.index == nil || err != nil {
		names, err = s.store.AutocompleteNames(ctx, prefix, limit)
		if err != nil {
			return nil, err
		}
	}
	if names == nil {
		names = []string{}
	}
	if len(names) > limit {
		names = names[:limit]
	}

	if cacheErr := s.cache.Set(key, names, autocompleteCacheTTL); cacheErr != nil {
		s.logger.Warn("autocomplete cache write failed", "key", key, "error", cacheErr)
	}
	return names, nil
}

// IndexFragrance adds or updates one record in the full-text index.
// Implements the population engine's Indexer contract.
func (s *SearchService) IndexFragrance(f *domain.Fragrance) error {
	if s.index == nil {
		return nil
	}
	return s.index.IndexDocument(search.FromFragrance(f))
}

// DeleteFragrance removes a record from the index.
func (s *SearchService) DeleteFragrance(fragranceID string) error {
	if s.index == nil {
		return nil
	}
	return s.index.DeleteDocument(fragranceID)
}

// DocumentCount returns the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	if s.index == nil {
		return 0, nil
	}
	return s.index.DocumentCount()
}

// ReindexAll rebuilds the index from the store and flushes cached results.
// Heavy; use sparingly.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	if s.index == nil {
		return fmt.Errorf("search index not configured")
	}

	s.logger.Info("starting full reindex")

	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	all, err := s.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list fragrances: %w", err)
	}

	docs := make([]*search.Document, 0, len(all))
	for _, f := range all {
		docs = append(docs, search.FromFragrance(f))
	}
	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index documents: %w", err)
	}

	if err := s.cache.Flush(); err != nil {
		s.logger.Warn("cache flush after reindex failed", "error", err)
	}

	s.logger.Info("full reindex complete", "documents", len(docs))
	return nil
}

// searchCacheKey builds the cache key from the normalized query plus a
// canonical serialization of every option that changes the result.
func searchCacheKey(normalized string, req SearchRequest) string {
	verified := "-"
	if req.Filter.Verified != nil {
		verified = fmt.Sprintf("%t", *req.Filter.Verified)
	}
	return fmt.Sprintf("search:%s|b=%s|c=%s|y=%d-%d|v=%s|s=%s|o=%s|m=%s|l=%d|off=%d|sort=%s.%s",
		normalized,
		strings.ToLower(req.Filter.Brand),
		strings.ToLower(req.Filter.Concentration),
		req.Filter.YearFrom, req.Filter.YearTo,
		verified,
		strings.ToLower(req.Filter.Season),
		strings.ToLower(req.Filter.Occasion),
		strings.ToLower(req.Filter.Mood),
		req.Limit, req.Offset,
		req.SortBy, req.SortOrder,
	)
}

// matchHeuristic labels how a candidate matched the query and assigns the
// fallback path's scalar score: exact 1.0, prefix 0.9, substring 0.7,
// otherwise fuzzy 0.5.
func matchHeuristic(query, name, brand string) (string, float64) {
	q := strings.ToLower(strings.TrimSpace(query))
	n := strings.ToLower(name)
	b := strings.ToLower(brand)

	if q == "" {
		return "fuzzy", 0.5
	}
	if q == n || q == b {
		return "exact", 1.0
	}
	if strings.HasPrefix(n, q) || strings.HasPrefix(b, q) {
		return "partial", 0.9
	}
	if strings.Contains(n, q) || strings.Contains(b, q) ||
		strings.Contains(q, n) || strings.Contains(q, b) {
		return "partial", 0.7
	}
	return "fuzzy", 0.5
}
