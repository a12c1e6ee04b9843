// Package eodhd provides the benchmark closing prices from the EOD Historical Data API.
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the root of the EODHD API.
	DefaultBaseURL = "https://eodhd.com/api"
	// DefaultTimeout bounds each request.
	DefaultTimeout = 30 * time.Second
	// DefaultRateLimit is the number of requests per second.
	DefaultRateLimit = 10
)

// Client is a wealth.PriceSource backed by the EODHD end-of-day API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
	cacheDir   string
	today      func() date.Date
}

var _ wealth.PriceSource = (*Client)(nil)

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the timeout of each request.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithRateLimit sets the rate limit. Zero or less disables it.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// WithCache caches successful responses in dir until the end of the day.
// An empty dir disables the cache.
func WithCache(dir string) ClientOption {
	return func(c *Client) { c.cacheDir = dir }
}

// NewClient creates a new EODHD client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		log:        zerolog.Nop(),
		today:      date.Today,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cacheDir != "" {
		base := c.httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		hc := *c.httpClient
		hc.Transport = &diskCache{base: base, dir: c.cacheDir, today: c.today, log: c.log}
		c.httpClient = &hc
	}
	return c
}

// APIError is a non successful response of the API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// Ticker returns the EODHD ticker of symbol: symbols without an exchange
// suffix are US listings.
func Ticker(symbol string) string {
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + ".US"
}

// eodBar is one day of the /eod endpoint.
//
//	{"date":"2024-02-13","open":675.066,"high":684.219,"low":648.659,"close":668.445,"adjusted_close":67.705,"volume":0}
type eodBar struct {
	Date          string           `json:"date"`
	Close         decimal.Decimal  `json:"close"`
	AdjustedClose *decimal.Decimal `json:"adjusted_close"`
}

// Series returns the daily adjusted closes of symbol for days in [from, to].
func (c *Client) Series(ctx context.Context, symbol string, from, to date.Date) (*wealth.Prices, error) {
	params := url.Values{}
	params.Set("period", "d")
	params.Set("from", from.String())
	params.Set("to", to.String())

	var bars []eodBar
	if err := c.get(ctx, "/eod/"+url.PathEscape(Ticker(symbol)), params, &bars); err != nil {
		return nil, err
	}

	var prices wealth.Prices
	for _, bar := range bars {
		on, err := date.Parse(bar.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid bar for %s: %w", symbol, err)
		}
		price := bar.Close
		if bar.AdjustedClose != nil {
			price = *bar.AdjustedClose
		}
		prices.Append(on, price)
	}
	c.log.Debug().Str("symbol", symbol).Stringer("from", from).Stringer("to", to).Int("bars", prices.Len()).Msg("prices fetched")
	return prices.Between(date.NewRange(from, to)), nil
}

// get performs a rate-limited GET request and decodes the JSON response into result.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body)), Endpoint: path}
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
