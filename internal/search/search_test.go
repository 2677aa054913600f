package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scentdex/scentdex-server/internal/domain"
)

// setupTestIndex creates a temporary search index for testing.
func setupTestIndex(t *testing.T) *Index {
	t.Helper()

	index, err := NewIndex(Options{
		DataPath: t.TempDir(),
		Logger:   nil,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	return index
}

func seedIndex(t *testing.T, index *Index) {
	t.Helper()

	docs := []*Document{
		{
			ID: "frag-1", Name: "Sauvage", Brand: "Dior",
			Notes: []string{"bergamot", "pepper", "ambroxan"},
			Concentration: "EDT", ReleaseYear: 2015,
			Rating: 4.3, Popularity: 98, MarketPriority: 1.0, Relevance: 0.9,
		},
		{
			ID: "frag-2", Name: "Sauvage Elixir", Brand: "Dior",
			Concentration: "Parfum", ReleaseYear: 2021,
			Rating: 4.6, Popularity: 80, MarketPriority: 1.0, Relevance: 0.8,
		},
		{
			ID: "frag-3", Name: "Aventus", Brand: "Creed",
			Notes: []string{"pineapple", "birch", "musk"},
			Concentration: "EDP", ReleaseYear: 2010,
			Rating: 4.4, Popularity: 95, MarketPriority: 1.0, Relevance: 0.95,
		},
		{
			ID: "frag-4", Name: "Tobacco Vanille", Brand: "Tom Ford",
			Notes: []string{"tobacco leaf", "vanilla", "cocoa"},
			Concentration: "EDP", ReleaseYear: 2007,
			Rating: 4.2, Popularity: 70, MarketPriority: 0.8, Relevance: 0.7,
		},
	}

	require.NoError(t, index.IndexDocuments(docs))
}

func TestNewIndex(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestIndexDocument(t *testing.T) {
	index := setupTestIndex(t)

	doc := &Document{
		ID:    "frag-123",
		Name:  "Bleu de Chanel",
		Brand: "Chanel",
	}

	require.NoError(t, index.IndexDocument(doc))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearchByName(t *testing.T) {
	index := setupTestIndex(t)
	seedIndex(t, index)

	params := DefaultParams()
	params.Query = "sauvage"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(result.Hits), 2)

	ids := []string{result.Hits[0].ID, result.Hits[1].ID}
	assert.Contains(t, ids, "frag-1")
	assert.Contains(t, ids, "frag-2")
}

func TestSearchByBrand(t *testing.T) {
	index := setupTestIndex(t)
	seedIndex(t, index)

	params := DefaultParams()
	params.Query = "creed"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "frag-3", result.Hits[0].ID)
}

func TestSearchByNote(t *testing.T) {
	index := setupTestIndex(t)
	seedIndex(t, index)

	params := DefaultParams()
	params.Query = "vanilla"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "frag-4", result.Hits[0].ID)
}

func TestSearchFuzzyTypo(t *testing.T) {
	index := setupTestIndex(t)
	seedIndex(t, index)

	params := DefaultParams()
	params.Query = "aventos"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "frag-3", result.Hits[0].ID)
}

func TestSearchBrandFilter(t *testing.T) {
	index := setupTestIndex(t)
	seedIndex(t, index)

	params := DefaultParams()
	params.Query = "sauvage"
	params.Brand = "dior"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	for _, hit := range result.Hits {
		assert.Equal(t, "Dior", hit.Brand)
	}
}

func TestSearchConcentrationFilter(t *testing.T) {
	index := setupTestIndex(t)
	seedIndex(t, index)

	params := DefaultParams()
	params.Concentration = "parfum"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "frag-2", result.Hits[0].ID)
}

func TestSearchYearRange(t *testing.T) {
	index := setupTestIndex(t)
	seedIndex(t, index)

	params := DefaultParams()
	params.MinYear = 2015
	params.MaxYear = 2021

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, result.Hits, 2)
	for _, hit := range result.Hits {
		assert.GreaterOrEqual(t, hit.ReleaseYear, 2015)
		assert.LessOrEqual(t, hit.ReleaseYear, 2021)
	}
}

func TestSearchMinRating(t *testing.T) {
	index := setupTestIndex(t)
	seedIndex(t, index)

	params := DefaultParams()
	params.MinRating = 4.35

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, result.Hits, 2)
	for _, hit := range result.Hits {
		assert.GreaterOrEqual(t, hit.Rating, 4.35)
	}
}

func TestSearchSortByYear(t *testing.T) {
	index := setupTestIndex(t)
	seedIndex(t, index)

	params := DefaultParams()
	params.SortBy = "year"
	params.SortOrder = "asc"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, result.Hits, 4)
	for i := 1; i < len(result.Hits); i++ {
		assert.LessOrEqual(t, result.Hits[i-1].ReleaseYear, result.Hits[i].ReleaseYear)
	}
}

func TestSearchPagination(t *testing.T) {
	index := setupTestIndex(t)
	seedIndex(t, index)
	ctx := context.Background()

	params := DefaultParams()
	params.Limit = 2

	first, err := index.Search(ctx, params)
	require.NoError(t, err)
	assert.Len(t, first.Hits, 2)
	assert.Equal(t, uint64(4), first.Total)

	params.Offset = 2
	second, err := index.Search(ctx, params)
	require.NoError(t, err)
	assert.Len(t, second.Hits, 2)
}

func TestAutocomplete(t *testing.T) {
	index := setupTestIndex(t)
	seedIndex(t, index)

	names, err := index.Autocomplete(context.Background(), "sau", 10)
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Contains(t, names, "Sauvage")
	assert.Contains(t, names, "Sauvage Elixir")
}

func TestDeleteDocument(t *testing.T) {
	index := setupTestIndex(t)
	seedIndex(t, index)

	require.NoError(t, index.DeleteDocument("frag-1"))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestRebuildEmptiesIndex(t *testing.T) {
	index := setupTestIndex(t)
	seedIndex(t, index)

	require.NoError(t, index.Rebuild())

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestFromFragrance(t *testing.T) {
	year := 2015
	rating := 4.3
	now := time.Now()

	f := &domain.Fragrance{
		ID:             "frag-1",
		Name:           "Sauvage",
		Brand:          "Dior",
		ReleaseYear:    &year,
		Concentration:  "EDT",
		NotesTop:       []string{"bergamot"},
		NotesMiddle:    []string{"pepper"},
		NotesBase:      []string{"ambroxan"},
		Rating:         &rating,
		MarketPriority: 1.0,
		RelevanceScore: 0.9,
		DataSource:     domain.SourceNativeImport,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	doc := FromFragrance(f)
	assert.Equal(t, "frag-1", doc.ID)
	assert.Equal(t, []string{"bergamot", "pepper", "ambroxan"}, doc.Notes)
	assert.Equal(t, 2015, doc.ReleaseYear)
	assert.InDelta(t, 4.3, doc.Rating, 0.001)
	assert.Equal(t, string(domain.SourceNativeImport), doc.DataSource)
	assert.Equal(t, now.UnixMilli(), doc.CreatedAt)
}
