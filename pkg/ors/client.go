package ors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/routelab/routestim/pkg/cache"
	"github.com/routelab/routestim/pkg/geo"
	"github.com/routelab/routestim/pkg/httputil"
)

// DefaultBaseURL is the public OpenRouteService API host.
const DefaultBaseURL = "https://api.openrouteservice.org"

const httpTimeout = 30 * time.Second

// ErrNetwork is returned for HTTP failures (timeouts, connection errors,
// 5xx responses) that survive transport-level retries.
var ErrNetwork = errors.New("network error")

// Client queries the directions API. It issues exactly one logical request
// per Directions call; only transport failures are retried, with bounded
// exponential backoff. Responses may be cached keyed by the request URL.
type Client struct {
	http    *http.Client
	base    string
	apiKey  string
	cache   cache.Cache
	refresh bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used by tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithCache stores valid responses in the given cache and serves repeat
// queries from it.
func WithCache(store cache.Cache) Option {
	return func(c *Client) { c.cache = store }
}

// WithRefresh bypasses the cache on reads. Fresh responses are still
// written back.
func WithRefresh(refresh bool) Option {
	return func(c *Client) { c.refresh = refresh }
}

// NewClient creates a directions client. An empty baseURL selects the
// public API host.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		http:   &http.Client{Timeout: httpTimeout},
		base:   baseURL,
		apiKey: apiKey,
		cache:  cache.NewNullCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Directions fetches one route for the given profile between start and end.
// The returned response must be checked with Valid(): the service signals
// unroutable pairs through an error field or an empty feature list, not
// through a Go error. A non-nil error means the request itself failed.
func (c *Client) Directions(ctx context.Context, profile string, start, end geo.Coordinate) (*RouteResponse, error) {
	reqURL := c.directionsURL(profile, start, end)

	if !c.refresh {
		if data, hit, err := c.cache.Get(ctx, reqURL); err == nil && hit {
			var cached RouteResponse
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var route *RouteResponse
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		route, err = c.doRequest(ctx, reqURL)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Only valid routes are worth keeping; invalid responses are retried
	// by the enricher with a fresh destination anyway.
	if route.Valid() {
		if data, err := json.Marshal(route); err == nil {
			_ = c.cache.Set(ctx, reqURL, data, cache.TTLRoute)
		}
	}
	return route, nil
}

// directionsURL builds the GET URL. The service expects start/end as
// "lng,lat" pairs.
func (c *Client) directionsURL(profile string, start, end geo.Coordinate) string {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("start", fmt.Sprintf("%.6f,%.6f", start.Lng, start.Lat))
	params.Set("end", fmt.Sprintf("%.6f,%.6f", end.Lng, end.Lat))
	return fmt.Sprintf("%s/v2/directions/%s?%s", c.base, profile, params.Encode())
}

func (c *Client) doRequest(ctx context.Context, reqURL string) (*RouteResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)}
	}

	// 4xx responses carry the service's error object in the body; decode
	// them so the enricher can classify the response as invalid.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}
	var route RouteResponse
	if err := json.Unmarshal(body, &route); err != nil {
		return nil, fmt.Errorf("%w: decode response (status %d): %v", ErrNetwork, resp.StatusCode, err)
	}
	if route.Error == nil && resp.StatusCode != http.StatusOK && len(route.Features) == 0 {
		route.Error = &ResponseError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	return &route, nil
}
