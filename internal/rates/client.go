package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Client resolves operation piece rates from the factory's rate service.
// Rates change rarely (renegotiated per season), so responses are cached
// with a TTL; an operation the service does not know falls back to the
// configured default rate.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	defaultRate decimal.Decimal
	ttl         time.Duration

	now func() time.Time

	mu    sync.Mutex
	cache map[string]cachedRate
}

type cachedRate struct {
	rate      decimal.Decimal
	fetchedAt time.Time
}

func NewClient(baseURL string, defaultRate decimal.Decimal, ttl time.Duration) *Client {
	return &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		defaultRate: defaultRate,
		ttl:         ttl,
		now:         time.Now,
		cache:       make(map[string]cachedRate),
	}
}

type rateResponse struct {
	Operation    string          `json:"operation"`
	RatePerPiece decimal.Decimal `json:"rate_per_piece"`
}

// RatePerPiece returns the piece rate for an operation, from cache when
// fresh. An unknown operation resolves to the default rate; only a
// failing rate service is an error.
func (c *Client) RatePerPiece(ctx context.Context, operation string) (decimal.Decimal, error) {
	c.mu.Lock()
	if entry, ok := c.cache[operation]; ok && c.now().Sub(entry.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return entry.rate, nil
	}
	c.mu.Unlock()

	rate, err := c.fetch(ctx, operation)
	if err != nil {
		return decimal.Zero, err
	}

	c.mu.Lock()
	c.cache[operation] = cachedRate{rate: rate, fetchedAt: c.now()}
	c.mu.Unlock()
	return rate, nil
}

func (c *Client) fetch(ctx context.Context, operation string) (decimal.Decimal, error) {
	u := c.baseURL + "/rates/" + url.PathEscape(operation)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("create rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch rate for %q: %w", operation, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var rr rateResponse
		if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
			return decimal.Zero, fmt.Errorf("decode rate for %q: %w", operation, err)
		}
		if rr.RatePerPiece.IsNegative() {
			return decimal.Zero, fmt.Errorf("rate service returned negative rate for %q", operation)
		}
		return rr.RatePerPiece, nil
	case http.StatusNotFound:
		return c.defaultRate, nil
	default:
		return decimal.Zero, fmt.Errorf("rate service returned %d for %q", resp.StatusCode, operation)
	}
}
