// Package geocode resolves free-text place names to coordinates using a
// Mapbox-compatible places API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	ierr "github.com/mark3labs/astroguide/internal/errors"
	"github.com/mark3labs/astroguide/internal/logger"
)

// DefaultBaseURL is the Mapbox forward-geocoding endpoint.
const DefaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Coordinates is a point on the globe in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Client talks to the geocoding service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client. An empty baseURL selects DefaultBaseURL.
// An empty token is accepted here and reported on the first Lookup.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

type placesResponse struct {
	Features []struct {
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"`
	} `json:"features"`
}

// Lookup returns the coordinates of the best match for place.
// Errors are classified as ConfigurationError (no token), LocationNotFound
// (no match or non-success status) or NetworkUnavailable.
func (c *Client) Lookup(ctx context.Context, place string) (Coordinates, error) {
	const op = "geocode"

	if c.token == "" {
		return Coordinates{}, ierr.New(ierr.KindConfiguration, op,
			"Geocoding is not configured: set geocode_token (ASTROGUIDE_GEOCODE_TOKEN)")
	}

	q := url.Values{}
	q.Set("access_token", c.token)
	q.Set("limit", "1")
	endpoint := fmt.Sprintf("%s/%s.json?%s", c.baseURL, url.PathEscape(place), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("creating geocode request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Coordinates{}, ierr.Wrap(ierr.KindNetworkUnavailable, op,
			"Could not reach the geocoding service. Check your connection and try again.", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logger.Warn("geocode: status %d for %q: %s", resp.StatusCode, place, string(body))
		return Coordinates{}, ierr.New(ierr.KindLocationNotFound, op,
			"Location not found. Please try a different location.")
	}

	var pr placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return Coordinates{}, ierr.Wrap(ierr.KindLocationNotFound, op,
			"Location not found. Please try a different location.", err)
	}
	if len(pr.Features) == 0 || len(pr.Features[0].Center) < 2 {
		return Coordinates{}, ierr.New(ierr.KindLocationNotFound, op,
			"Location not found. Please try a different location.")
	}

	center := pr.Features[0].Center
	logger.Debug("geocode: %q -> %s (%f, %f)", place, pr.Features[0].PlaceName, center[1], center[0])
	return Coordinates{Latitude: center[1], Longitude: center[0]}, nil
}
