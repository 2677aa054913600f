package api

import (
	"context"
	"encoding/json/v2"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scentdex/scentdex-server/internal/cache"
	"github.com/scentdex/scentdex-server/internal/domain"
	"github.com/scentdex/scentdex-server/internal/logger"
	"github.com/scentdex/scentdex-server/internal/metadata/perfumero"
	"github.com/scentdex/scentdex-server/internal/populate"
	"github.com/scentdex/scentdex-server/internal/search"
	"github.com/scentdex/scentdex-server/internal/service"
	"github.com/scentdex/scentdex-server/internal/store/sqlite"
)

// envelope mirrors the response wrapper for decoding in tests.
type envelope[T any] struct {
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

func newTestServer(t *testing.T) (*Server, *sqlite.Store, *service.SearchService) {
	t.Helper()

	log := logger.Discard().Logger

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	idx, err := search.NewIndex(search.Options{DataPath: t.TempDir(), Logger: log})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	c, err := cache.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	// No credentials: the engine stays local-only.
	client := perfumero.New(perfumero.Config{DailyLimit: 100}, log)
	engine := populate.New(st, client, nil, log)
	svc := service.NewSearchService(idx, st, c, engine, log)
	engine.SetIndexer(svc)

	return NewServer(svc, engine, st, log), st, svc
}

func seedFragrance(t *testing.T, st *sqlite.Store, svc *service.SearchService, id, name, brand string) {
	t.Helper()

	f := &domain.Fragrance{
		ID:             id,
		Name:           name,
		Brand:          brand,
		MarketPriority: populate.BrandPriority(brand),
		RelevanceScore: 0.5,
		DataSource:     domain.SourceNativeImport,
	}
	require.NoError(t, st.Create(context.Background(), f))
	require.NoError(t, svc.IndexFragrance(f))
}

func doRequest(t *testing.T, srv *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHealthCheck(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode[HealthResponse](t, rec)

	// Store and index are up; the metadata API has no credentials.
	assert.Equal(t, "degraded", env.Data.Status)
	assert.Equal(t, "healthy", env.Data.Components["store"].Status)
	assert.Equal(t, "healthy", env.Data.Components["search_index"].Status)
	assert.Equal(t, "degraded", env.Data.Components["metadata_api"].Status)
}

func TestSearchEndpoint(t *testing.T) {
	srv, st, svc := newTestServer(t)
	seedFragrance(t, st, svc, "frag-1", "Sauvage", "Dior")
	seedFragrance(t, st, svc, "frag-2", "Aventus", "Creed")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/search?q=sauvage")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode[service.SearchResponse](t, rec)
	require.True(t, env.Success)

	require.Len(t, env.Data.Results, 1)
	assert.Equal(t, "frag-1", env.Data.Results[0].Fragrance.ID)
	assert.Equal(t, "index", env.Data.Source)
}

func TestSearchRequiresQuery(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/search")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decode[any](t, rec)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestSearchRejectsOversizedLimit(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/search?q=rose&limit=500")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAutocompleteEndpoint(t *testing.T) {
	srv, st, svc := newTestServer(t)
	seedFragrance(t, st, svc, "frag-1", "Sauvage", "Dior")
	seedFragrance(t, st, svc, "frag-2", "Sauvage Elixir", "Dior")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/search/autocomplete?q=sau")
	require.Equal(t, http.StatusOK, rec.Code)

	type suggestions struct {
		Suggestions []string `json:"suggestions"`
	}
	env := decode[suggestions](t, rec)
	assert.Len(t, env.Data.Suggestions, 2)
}

func TestListFragrances(t *testing.T) {
	srv, st, svc := newTestServer(t)
	seedFragrance(t, st, svc, "frag-1", "Sauvage", "Dior")
	seedFragrance(t, st, svc, "frag-2", "Aventus", "Creed")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/fragrances?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode[fragranceListResponse](t, rec)
	assert.Len(t, env.Data.Items, 1)
	assert.Equal(t, 2, env.Data.Total)
	assert.Equal(t, 1, env.Data.Limit)
}

func TestGetFragrance(t *testing.T) {
	srv, st, svc := newTestServer(t)
	seedFragrance(t, st, svc, "frag-1", "Sauvage", "Dior")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/fragrances/frag-1")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode[domain.Fragrance](t, rec)
	assert.Equal(t, "Sauvage", env.Data.Name)
}

func TestGetFragranceNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/fragrances/frag-missing")
	require.Equal(t, http.StatusNotFound, rec.Code)

	env := decode[any](t, rec)
	assert.False(t, env.Success)
}

func TestUsageStats(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/stats/usage")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode[perfumero.BudgetStats](t, rec)
	assert.Equal(t, 100, env.Data.Limit)
	assert.Equal(t, 0, env.Data.Used)
}

func TestPopulationStats(t *testing.T) {
	srv, st, svc := newTestServer(t)
	seedFragrance(t, st, svc, "frag-1", "Sauvage", "Dior")

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/stats/population")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode[populate.Stats](t, rec)
	assert.Equal(t, 1, env.Data.DatabaseTotals.Total)
}

func TestReindexEndpoint(t *testing.T) {
	srv, st, svc := newTestServer(t)
	seedFragrance(t, st, svc, "frag-1", "Sauvage", "Dior")
	seedFragrance(t, st, svc, "frag-2", "Aventus", "Creed")

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/admin/reindex")
	require.Equal(t, http.StatusOK, rec.Code)

	type reindexResult struct {
		Indexed uint64 `json:"indexed"`
	}
	env := decode[reindexResult](t, rec)
	assert.Equal(t, uint64(2), env.Data.Indexed)
}
