// Package perfumero provides a budget-aware client for the Perfumero
// fragrance metadata API (RapidAPI). Every outbound call consumes one unit of
// a daily budget; callers are expected to check IsAvailable before relying on
// this client and to fall back to local data when it reports unavailable.
package perfumero

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// Politeness limit toward the upstream: 2 requests per second, burst of 5.
	defaultRPS   = 2.0
	defaultBurst = 5

	defaultTimeout = 10 * time.Second

	// reserveBuffer is how much of the daily budget IsAvailable keeps in
	// reserve. Dispatch only needs remaining > 0; availability wants slack so
	// background population never starves interactive lookups at midnight.
	reserveBuffer = 500

	defaultSearchLimit = 10
	maxSearchLimit     = 25
)

// Config configures the Perfumero client.
type Config struct {
	APIKey     string
	APIHost    string
	DailyLimit int
	BaseURL    string // Override for tests; defaults to https://<APIHost>
}

// Client is a rate-limited, budget-tracked Perfumero API client.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	budget  *UsageBudget
	cfg     Config
	baseURL string
	logger  *slog.Logger
}

// New creates a new Perfumero client. A client without credentials is still
// valid: IsAvailable reports false and every call returns ErrNoCredentials,
// which the service layer treats as "use local data".
func New(cfg Config, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://" + cfg.APIHost
	}

	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRPS), defaultBurst),
		budget:  NewUsageBudget(cfg.DailyLimit),
		cfg:     cfg,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Close releases resources. Currently a no-op but included for interface consistency.
func (c *Client) Close() {
	// No persistent resources to close
}

// hasCredentials reports whether the client can authenticate at all.
func (c *Client) hasCredentials() bool {
	return c.cfg.APIKey != "" && c.cfg.APIHost != ""
}

// IsAvailable reports whether the remote catalog should be consulted.
// Side-effect free: it never consumes budget. Unavailable means missing
// credentials or a daily budget within the reserve buffer.
func (c *Client) IsAvailable() bool {
	if !c.hasCredentials() {
		return false
	}
	return c.budget.Remaining() >= reserveBuffer
}

// Usage returns a snapshot of today's budget consumption.
func (c *Client) Usage() BudgetStats {
	return c.budget.Stats()
}

// doRequest executes a budgeted, rate-limited GET against the API.
// Budget is consumed before dispatch; an in-flight failure still counts.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if !c.hasCredentials() {
		return nil, ErrNoCredentials
	}
	if !c.budget.TryAcquire() {
		return nil, ErrBudgetExceeded
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.cfg.APIKey)
	req.Header.Set("X-RapidAPI-Host", c.cfg.APIHost)

	c.logger.Debug("perfumero request",
		"path", path,
		"remaining_budget", c.budget.Remaining(),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}

// Search queries the remote catalog by free-text term.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]Perfume, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	query := url.Values{}
	query.Set("q", term)
	query.Set("limit", strconv.Itoa(limit))

	body, err := c.doRequest(ctx, "/perfume/search", query)
	if err != nil {
		return nil, wrapError("search", term, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("search", term, ErrMalformed)
	}

	return resp.Results, nil
}

// GetDetails fetches the full record for a perfume ID.
func (c *Client) GetDetails(ctx context.Context, pid string) (*Perfume, error) {
	query := url.Values{}
	query.Set("pid", pid)

	body, err := c.doRequest(ctx, "/perfume/details", query)
	if err != nil {
		return nil, wrapError("getDetails", pid, err)
	}

	var p Perfume
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, wrapError("getDetails", pid, ErrMalformed)
	}
	if p.PID == "" {
		return nil, wrapError("getDetails", pid, ErrMalformed)
	}

	return &p, nil
}

// GetSimilar fetches perfumes the upstream considers similar to pid.
func (c *Client) GetSimilar(ctx context.Context, pid string, limit int) ([]Perfume, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	query := url.Values{}
	query.Set("pid", pid)
	query.Set("limit", strconv.Itoa(limit))

	body, err := c.doRequest(ctx, "/perfume/similar", query)
	if err != nil {
		return nil, wrapError("getSimilar", pid, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("getSimilar", pid, ErrMalformed)
	}

	return resp.Results, nil
}
