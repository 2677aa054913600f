package perfumero

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scentdex/scentdex-server/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, limit int) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(Config{
		APIKey:     "test-key",
		APIHost:    "perfumero1.p.rapidapi.com",
		DailyLimit: limit,
		BaseURL:    srv.URL,
	}, logger.Discard().Logger)
}

func TestSearchSendsAuthHeaders(t *testing.T) {
	var gotKey, gotHost string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-RapidAPI-Key")
		gotHost = r.Header.Get("X-RapidAPI-Host")
		w.Write([]byte(`{"results":[{"pid":"p1","perfume":"Aventus","brand":"Creed"}]}`))
	}, 100)

	results, err := client.Search(context.Background(), "aventus", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Aventus", results[0].Name)
	assert.Equal(t, "Creed", results[0].Brand)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "perfumero1.p.rapidapi.com", gotHost)
}

func TestSearchQueryParams(t *testing.T) {
	var gotQuery, gotLimit string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"results":[]}`))
	}, 100)

	_, err := client.Search(context.Background(), "bleu de chanel", 0)
	require.NoError(t, err)
	assert.Equal(t, "bleu de chanel", gotQuery)
	assert.Equal(t, "10", gotLimit) // default limit applied
}

func TestGetDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "p1", r.URL.Query().Get("pid"))
		w.Write([]byte(`{"pid":"p1","perfume":"Sauvage","brand":"Dior","year":2015,"top":["bergamot"]}`))
	}, 100)

	p, err := client.GetDetails(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Sauvage", p.Name)
	assert.Equal(t, 2015, p.Year)
	assert.Equal(t, []string{"bergamot"}, p.NotesTop)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusBadGateway, ErrServer},
	}

	for _, tt := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}, 100)

		_, err := client.Search(context.Background(), "x", 5)
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
	}
}

func TestMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": "not-a-list"`))
	}, 100)

	_, err := client.Search(context.Background(), "x", 5)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestBudgetExhaustionBlocksDispatch(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"results":[]}`))
	}, 2)

	ctx := context.Background()
	_, err := client.Search(ctx, "a", 5)
	require.NoError(t, err)
	_, err = client.Search(ctx, "b", 5)
	require.NoError(t, err)

	// Third call is rejected locally, no HTTP traffic.
	_, err = client.Search(ctx, "c", 5)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
	assert.Equal(t, 2, calls)
}

func TestFailedRequestStillConsumesBudget(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, 100)

	_, err := client.Search(context.Background(), "x", 5)
	require.Error(t, err)

	assert.Equal(t, 1, client.Usage().Used)
}

func TestNoCredentials(t *testing.T) {
	client := New(Config{DailyLimit: 100}, logger.Discard().Logger)

	assert.False(t, client.IsAvailable())

	_, err := client.Search(context.Background(), "x", 5)
	assert.ErrorIs(t, err, ErrNoCredentials)
	assert.Equal(t, 0, client.Usage().Used)
}

func TestIsAvailableReserveBuffer(t *testing.T) {
	client := New(Config{
		APIKey:     "k",
		APIHost:    "h",
		DailyLimit: reserveBuffer + 1,
	}, logger.Discard().Logger)

	assert.True(t, client.IsAvailable())

	// One consumed unit drops remaining below the reserve.
	require.True(t, client.budget.TryAcquire())
	assert.True(t, client.IsAvailable()) // remaining == reserveBuffer, still ok

	require.True(t, client.budget.TryAcquire())
	assert.False(t, client.IsAvailable())
}

func TestIsAvailableSideEffectFree(t *testing.T) {
	client := New(Config{
		APIKey:     "k",
		APIHost:    "h",
		DailyLimit: 1000,
	}, logger.Discard().Logger)

	for i := 0; i < 50; i++ {
		client.IsAvailable()
	}
	assert.Equal(t, 0, client.Usage().Used)
}
