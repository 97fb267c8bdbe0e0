// Package tmdb is the read-only HTTP client for the external movie
// catalog.  Responses are passed through to handlers as decoded JSON; the
// client adds the API key, bounds each call with the request context and
// shields the app from a flapping upstream with a circuit breaker.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ErrUpstream is returned for any transport failure, non-2xx status or
// open breaker.  Handlers surface it as a 500 with a safe message and log
// the detail operationally.
var ErrUpstream = errors.New("catalog upstream failure")

// Page is the envelope the catalog returns for every list endpoint.
// Results stay raw JSON; the app does not reinterpret catalog entries,
// it only relays them.
type Page struct {
	Page         int               `json:"page"`
	Results      []json.RawMessage `json:"results"`
	TotalPages   int               `json:"total_pages"`
	TotalResults int               `json:"total_results"`
}

// Client calls the catalog API.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	Log     *zap.Logger

	breaker *gobreaker.CircuitBreaker[[]byte]
}

// New builds a Client with a 10s per-request timeout and a breaker that
// opens after five consecutive failures and probes again after 30s.
func New(baseURL, apiKey string, log *zap.Logger) *Client {
	c := &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Log:     log,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "tmdb",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("catalog breaker state change",
				zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})
	return c
}

// get fetches path with query values, through the breaker.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.APIKey)
	full := c.BaseURL + path + "?" + q.Encode()

	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.HTTP.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			// Drain so the connection can be reused.
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			return nil, fmt.Errorf("status %d from %s", resp.StatusCode, path)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		c.Log.Error("catalog request failed", zap.String("path", path), zap.Error(err))
		return nil, ErrUpstream
	}
	return body, nil
}

// getPage fetches and decodes a list endpoint.
func (c *Client) getPage(ctx context.Context, path string, q url.Values) (Page, error) {
	body, err := c.get(ctx, path, q)
	if err != nil {
		return Page{}, err
	}
	var p Page
	if err := json.Unmarshal(body, &p); err != nil {
		c.Log.Error("catalog decode failed", zap.String("path", path), zap.Error(err))
		return Page{}, ErrUpstream
	}
	return p, nil
}

// Trending returns the trending titles for a media type ("all", "movie"
// or "tv") over the given window ("day" or "week").
func (c *Client) Trending(ctx context.Context, mediaType, window string, page int) (Page, error) {
	if mediaType == "" {
		mediaType = "all"
	}
	if window != "day" && window != "week" {
		window = "week"
	}
	q := url.Values{}
	if page > 1 {
		q.Set("page", fmt.Sprint(page))
	}
	return c.getPage(ctx, fmt.Sprintf("/trending/%s/%s", mediaType, window), q)
}

// Search runs a text search over movies or TV shows.
func (c *Client) Search(ctx context.Context, mediaType, query string, page int) (Page, error) {
	q := url.Values{}
	q.Set("query", query)
	if page > 1 {
		q.Set("page", fmt.Sprint(page))
	}
	return c.getPage(ctx, "/search/"+mediaType, q)
}

// Discover runs the filtered discovery endpoint using the query built by
// DiscoverQuery.
func (c *Client) Discover(ctx context.Context, d DiscoverQuery) (Page, error) {
	return c.getPage(ctx, "/discover/"+d.MediaType, d.Values())
}

// Details returns the raw detail document for one title.
func (c *Client) Details(ctx context.Context, mediaType string, id uint64) (json.RawMessage, error) {
	body, err := c.get(ctx, fmt.Sprintf("/%s/%d", mediaType, id), nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}
