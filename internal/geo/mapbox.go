package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"localespot/internal/metrics"
)

const defaultBaseURL = "https://api.mapbox.com"

// MapboxClient proxies the map-provider token and forward geocoding.
// Geocode results are cached per address for the life of the process; the
// same address always resolves to the same pair.
type MapboxClient struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client

	mu    sync.RWMutex
	cache map[string][2]float64
}

func NewMapboxClient(accessToken string) *MapboxClient {
	return &MapboxClient{
		accessToken: accessToken,
		baseURL:     defaultBaseURL,
		httpClient:  http.DefaultClient,
		cache:       make(map[string][2]float64),
	}
}

// Token returns the configured provider token. An unconfigured token is an
// error so callers can degrade to the static fallback view.
func (c *MapboxClient) Token(ctx context.Context) (string, error) {
	if c.accessToken == "" {
		return "", fmt.Errorf("mapbox token not configured")
	}
	return c.accessToken, nil
}

type geocodeResponse struct {
	Features []struct {
		Center []float64 `json:"center"`
	} `json:"features"`
}

// Geocode resolves an address to a [lng, lat] pair. ok is false when the
// provider has no match for the address.
func (c *MapboxClient) Geocode(ctx context.Context, address string) (lng, lat float64, ok bool, err error) {
	c.mu.RLock()
	cached, hit := c.cache[address]
	c.mu.RUnlock()
	if hit {
		metrics.GeocodeRequests.WithLabelValues("cached").Inc()
		return cached[0], cached[1], true, nil
	}

	geocodeURL := fmt.Sprintf(
		"%s/geocoding/v5/mapbox.places/%s.json?access_token=%s&limit=1",
		c.baseURL, url.PathEscape(address), url.QueryEscape(c.accessToken),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, geocodeURL, nil)
	if err != nil {
		return 0, 0, false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return 0, 0, false, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return 0, 0, false, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var parsed geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return 0, 0, false, fmt.Errorf("geocode response: %w", err)
	}

	if len(parsed.Features) == 0 || len(parsed.Features[0].Center) < 2 {
		metrics.GeocodeRequests.WithLabelValues("no_match").Inc()
		return 0, 0, false, nil
	}

	center := parsed.Features[0].Center
	c.mu.Lock()
	c.cache[address] = [2]float64{center[0], center[1]}
	c.mu.Unlock()

	metrics.GeocodeRequests.WithLabelValues("ok").Inc()
	return center[0], center[1], true, nil
}
