package account

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

// backend is the HTTP plumbing shared by the auth client and the REST store.
// Every request carries the project's public key in the apikey header.
type backend struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func newBackend(baseURL, apiKey string, timeout time.Duration) backend {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return backend{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type call struct {
	op      string
	method  string
	path    string
	query   url.Values
	token   string
	headers map[string]string
	body    any
	out     any
}

// do performs c and decodes a success body into c.out.
// 401 and 403 map to Unauthorized; other failures to ServerRejected, or
// NetworkUnavailable when no response arrived.
func (b backend) do(ctx context.Context, c call) error {
	endpoint := b.baseURL + c.path
	if len(c.query) > 0 {
		endpoint += "?" + c.query.Encode()
	}

	var body io.Reader
	if c.body != nil {
		data, err := json.Marshal(c.body)
		if err != nil {
			return fmt.Errorf("marshaling %s request: %w", c.op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", c.op, err)
	}
	req.Header.Set("apikey", b.apiKey)
	req.Header.Set("Accept", "application/json")
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return ierr.Wrap(ierr.KindNetworkUnavailable, c.op,
			"Could not reach the account service. Check your connection and try again.", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		logger.Warn("account: %s %s returned %d: %s", c.method, c.path, resp.StatusCode, string(raw))
		msg := backendMessage(raw)
		cause := fmt.Errorf("status %d", resp.StatusCode)
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			if msg == "" {
				msg = "Your session has expired. Please sign in again."
			}
			return ierr.Wrap(ierr.KindUnauthorized, c.op, msg, cause)
		default:
			if msg == "" {
				msg = "The account service rejected the request. Please try again."
			}
			return ierr.Wrap(ierr.KindServerRejected, c.op, msg, cause)
		}
	}

	if c.out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(c.out); err != nil && err != io.EOF {
		return ierr.Wrap(ierr.KindServerRejected, c.op, "The account service sent an unreadable response.", err)
	}
	return nil
}

// backendMessage extracts a human-readable message from the error shapes
// used by the auth and REST services.
func backendMessage(raw []byte) string {
	var body struct {
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	for _, s := range []string{body.ErrorDescription, body.Msg, body.Message} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
