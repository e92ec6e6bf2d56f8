// Package astro is a client for the astrocartography calculation service.
package astro

import (
	"bytes"
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

// DefaultBaseURL is where the calculation service listens when run locally.
const DefaultBaseURL = "http://localhost:8000"

// DefaultOrbTolerance is the orb, in degrees, sent with every calculation.
const DefaultOrbTolerance = 2.0

// DefaultPlanets is the fixed planet set requested for every calculation:
// the rulers of the love, career and wealth focuses.
var DefaultPlanets = []string{"Venus", "Mars", "Jupiter"}

const genericRejection = "The calculation service could not process the request. Please try again."

// Request is the body of POST /astrocartography.
type Request struct {
	BirthDT      string   `json:"birth_dt"`
	BirthLat     float64  `json:"birth_lat"`
	BirthLon     float64  `json:"birth_lon"`
	Planets      []string `json:"planets"`
	OrbTolerance float64  `json:"orb_tolerance"`
}

// City is one recommended location for a planet.
type City struct {
	City       string  `json:"city"`
	Country    string  `json:"country"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Population float64 `json:"population"`
	DistanceKm float64 `json:"distance_km"`
	Orb        float64 `json:"orb"`
}

// Results maps a planet name to its cities, strongest first.
type Results map[string][]City

// Client talks to the calculation service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the service root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Submit requests a calculation and returns the result handle.
func (c *Client) Submit(ctx context.Context, in Request) (string, error) {
	const op = "submit"

	body, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("marshaling calculation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/astrocartography", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating calculation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", ierr.Wrap(ierr.KindNetworkUnavailable, op,
			"Could not reach the calculation service. Check your connection and try again.", err)
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return "", rejection(op, resp)
	}

	var out struct {
		ResultID string `json:"result_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", ierr.Wrap(ierr.KindServerRejected, op, genericRejection, err)
	}
	if out.ResultID == "" {
		return "", ierr.New(ierr.KindServerRejected, op, "The calculation service did not return a result id.")
	}

	logger.Info("astro: calculation %s created for %s", out.ResultID, in.BirthDT)
	return out.ResultID, nil
}

// Results fetches the stored result set for a handle.
func (c *Client) Results(ctx context.Context, handle string) (Results, error) {
	const op = "results"

	endpoint := c.baseURL + "/results/" + url.PathEscape(handle)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating results request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ierr.Wrap(ierr.KindNetworkUnavailable, op,
			"Could not reach the calculation service. Check your connection and try again.", err)
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return nil, rejection(op, resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ierr.Wrap(ierr.KindNetworkUnavailable, op, "The connection dropped while reading results.", err)
	}
	results, err := decodeResults(raw)
	if err != nil {
		return nil, ierr.Wrap(ierr.KindServerRejected, op, genericRejection, err)
	}
	return results, nil
}

// decodeResults accepts the bare planet mapping and also the
// {"results": {...}} envelope older service builds return.
func decodeResults(raw []byte) (Results, error) {
	var envelope struct {
		Results Results `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Results != nil {
		return envelope.Results, nil
	}

	var results Results
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("decoding results: %w", err)
	}
	return results, nil
}

func success(code int) bool {
	return code >= 200 && code <= 299
}

// rejection turns a non-success response into a ServerRejected error whose
// message is the body's "detail" when that is a plain string.
func rejection(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	msg := Detail(body)
	if msg == "" {
		msg = genericRejection
	}
	logger.Warn("astro: %s returned status %d: %s", op, resp.StatusCode, string(body))
	return ierr.Wrap(ierr.KindServerRejected, op, msg, fmt.Errorf("status %d", resp.StatusCode))
}

// Detail extracts the "detail" field of an error body. Validation errors
// carry a list of objects with a "msg" field; their messages are joined.
func Detail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
