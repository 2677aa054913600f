package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a search query.
type Params struct {
	Query string // User's search query, already normalized by the caller

	// Filters
	Brand         string
	Concentration string
	Season        string
	Occasion      string
	Mood          string
	MinYear       int
	MaxYear       int
	MinRating     float64

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "name", "brand", "year", "rating", "popularity"
	SortOrder string // "asc", "desc"
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:     20,
		Offset:    0,
		SortBy:    "relevance",
		SortOrder: "desc",
	}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit represents a single search result.
type Hit struct {
	ID             string  `json:"id"`
	Score          float64 `json:"score"`
	Name           string  `json:"name"`
	Brand          string  `json:"brand"`
	Concentration  string  `json:"concentration,omitempty"`
	ReleaseYear    int     `json:"release_year,omitempty"`
	Rating         float64 `json:"rating,omitempty"`
	Popularity     float64 `json:"popularity,omitempty"`
	MarketPriority float64 `json:"market_priority"`
}

// Search executes a search query.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(params)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)
	addSorting(searchRequest, params)
	searchRequest.Fields = []string{
		"id", "name", "brand", "concentration",
		"release_year", "rating", "popularity", "market_priority",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		h := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if n, ok := hit.Fields["name"].(string); ok {
			h.Name = n
		}
		if b, ok := hit.Fields["brand"].(string); ok {
			h.Brand = b
		}
		if c, ok := hit.Fields["concentration"].(string); ok {
			h.Concentration = c
		}
		if y, ok := hit.Fields["release_year"].(float64); ok {
			h.ReleaseYear = int(y)
		}
		if r, ok := hit.Fields["rating"].(float64); ok {
			h.Rating = r
		}
		if p, ok := hit.Fields["popularity"].(float64); ok {
			h.Popularity = p
		}
		if mp, ok := hit.Fields["market_priority"].(float64); ok {
			h.MarketPriority = mp
		}

		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

// Autocomplete returns fragrance names matching a prefix, best score first.
func (s *Index) Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefixQuery := bleve.NewPrefixQuery(strings.ToLower(prefix))
	prefixQuery.SetField("name")

	searchRequest := bleve.NewSearchRequestOptions(prefixQuery, limit, 0, false)
	searchRequest.Fields = []string{"name"}
	searchRequest.SortBy([]string{"-relevance", "-_score"})

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute autocomplete: %w", err)
	}

	names := make([]string, 0, len(searchResult.Hits))
	seen := make(map[string]struct{}, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		name, ok := hit.Fields["name"].(string)
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params Params) query.Query {
	var queries []query.Query

	// Main text query: name carries the highest boost, brand matters almost
	// as much (people search "creed aventus" as one string), notes catch
	// searches like "vanilla tobacco". Fuzzy and prefix clauses provide typo
	// tolerance and type-ahead behaviour.
	if params.Query != "" {
		textQueries := []query.Query{}

		nameMatch := bleve.NewMatchQuery(params.Query)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)
		textQueries = append(textQueries, nameMatch)

		brandMatch := bleve.NewMatchQuery(params.Query)
		brandMatch.SetField("brand")
		brandMatch.SetBoost(2.0)
		textQueries = append(textQueries, brandMatch)

		notesMatch := bleve.NewMatchQuery(params.Query)
		notesMatch.SetField("notes")
		notesMatch.SetBoost(1.0)
		textQueries = append(textQueries, notesMatch)

		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("name")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("name")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Brand filter uses a match query so "dior" finds "Christian Dior".
	if params.Brand != "" {
		brandQuery := bleve.NewMatchQuery(params.Brand)
		brandQuery.SetField("brand")
		queries = append(queries, brandQuery)
	}

	// Keyword filters are stored lowercase.
	for field, value := range map[string]string{
		"concentration": params.Concentration,
		"season":        params.Season,
		"occasion":      params.Occasion,
		"mood":          params.Mood,
	} {
		if value == "" {
			continue
		}
		tq := bleve.NewTermQuery(strings.ToLower(value))
		tq.SetField(field)
		queries = append(queries, tq)
	}

	if params.MinYear > 0 || params.MaxYear > 0 {
		min := float64(params.MinYear)
		max := float64(params.MaxYear)
		if params.MaxYear == 0 {
			max = 3000 // Far future
		}
		rangeQuery := bleve.NewNumericRangeQuery(&min, &max)
		rangeQuery.SetField("release_year")
		queries = append(queries, rangeQuery)
	}

	if params.MinRating > 0 {
		min := params.MinRating
		max := 5.0
		rangeQuery := bleve.NewNumericRangeQuery(&min, &max)
		rangeQuery.SetField("rating")
		queries = append(queries, rangeQuery)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params Params) {
	field := ""
	switch params.SortBy {
	case "name":
		field = "name"
	case "brand":
		field = "brand"
	case "year":
		field = "release_year"
	case "rating":
		field = "rating"
	case "popularity":
		field = "popularity"
	default:
		// Relevance (score) is the default.
		req.SortBy([]string{"-_score"})
		return
	}

	if params.SortOrder == "desc" {
		req.SortBy([]string{"-" + field, "-_score"})
	} else {
		req.SortBy([]string{field, "-_score"})
	}
}
