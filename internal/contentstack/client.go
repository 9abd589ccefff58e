// Package contentstack is a thin client for the Contentstack Management API v3.
//
// It exposes exactly the five operation shapes the rest of the system depends
// on — fetch, query, create, update, publish — and nothing else. All reads go
// through the Management API (latest draft) rather than the Delivery API,
// because the engagement flow must see un-published mutations: a user who
// just upvoted has a draft-state membership list until the publish step runs.
//
// WIRE FORMAT:
// The API wraps everything in an envelope:
//
//	GET  /v3/content_types/{ct}/entries          → {"entries": [ ... ]}
//	GET  /v3/content_types/{ct}/entries/{uid}    → {"entry": { ... }}
//	POST /v3/content_types/{ct}/entries          ← {"entry": { ... }}
//	PUT  /v3/content_types/{ct}/entries/{uid}    ← {"entry": { ... }}
//	POST /v3/content_types/{ct}/entries/{uid}/publish
//	     ← {"entry": {"environments": [...], "locales": [...]}}
//
// Authentication is two headers on every request: api_key (the stack key)
// and authorization (the stack-level management token).
package contentstack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// requestTimeout bounds every upstream call. The orchestrator issues up to
// six sequential CMS calls per request, so this must stay well under the
// server's write timeout.
const requestTimeout = 10 * time.Second

// Config carries the credentials and targeting for one stack.
type Config struct {
	APIHost         string // "api.contentstack.io" unless using a regional host
	APIKey          string
	ManagementToken string
}

// Client talks to a single Contentstack stack.
//
// It is constructed once in the composition root and injected everywhere —
// no package-level singleton, so tests substitute a fake server by pointing
// APIHost at an httptest.Server.
type Client struct {
	baseURL    string
	apiKey     string
	token      string
	httpClient *http.Client
}

// New creates a Client for the given stack.
func New(cfg Config) *Client {
	host := cfg.APIHost
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return &Client{
		baseURL: strings.TrimSuffix(host, "/") + "/v3",
		apiKey:  cfg.APIKey,
		token:   cfg.ManagementToken,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// StatusError is returned for any non-2xx upstream response. The body is
// truncated — it's for logs, never for API callers.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("contentstack: upstream status %d: %s", e.StatusCode, e.Body)
}

// IsStatus reports whether err is (or wraps) a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// FetchEntry fetches a single entry (latest draft) and decodes it into out.
func (c *Client) FetchEntry(ctx context.Context, contentType, uid string, out any) error {
	path := fmt.Sprintf("/content_types/%s/entries/%s", contentType, url.PathEscape(uid))
	body, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	return decodeEnvelope(body, "entry", out)
}

// QueryEntries runs a field-equality query and decodes the matching entries
// into out (a pointer to a slice). The query is the Management API's JSON
// filter, e.g. {"email": "a@x.com"}.
func (c *Client) QueryEntries(ctx context.Context, contentType string, query map[string]any, out any) error {
	path := fmt.Sprintf("/content_types/%s/entries", contentType)

	var params url.Values
	if len(query) > 0 {
		raw, err := json.Marshal(query)
		if err != nil {
			return fmt.Errorf("contentstack: encoding query: %w", err)
		}
		params = url.Values{"query": []string{string(raw)}}
	}

	body, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	return decodeEnvelope(body, "entries", out)
}

// CreateEntry creates a new draft entry and decodes the created entry
// (including its CMS-assigned uid) into out. Pass nil to discard it.
func (c *Client) CreateEntry(ctx context.Context, contentType string, entry any, out any) error {
	path := fmt.Sprintf("/content_types/%s/entries", contentType)
	body, err := c.do(ctx, http.MethodPost, path, nil, envelope{Entry: entry})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeEnvelope(body, "entry", out)
}

// UpdateEntry overwrites fields of an existing draft entry.
//
// If version > 0 it is sent with the payload for compare-and-swap semantics:
// the store rejects the write with 409 when the entry has moved past that
// version. Callers detect this with IsStatus(err, http.StatusConflict) and
// re-fetch before retrying.
func (c *Client) UpdateEntry(ctx context.Context, contentType, uid string, entry any, version int, out any) error {
	path := fmt.Sprintf("/content_types/%s/entries/%s", contentType, url.PathEscape(uid))

	var params url.Values
	if version > 0 {
		params = url.Values{"version": []string{fmt.Sprintf("%d", version)}}
	}

	body, err := c.do(ctx, http.MethodPut, path, params, envelope{Entry: entry})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeEnvelope(body, "entry", out)
}

// PublishEntry promotes an entry's draft state to the delivery view of the
// given environments. Publishing an already-published state is a no-op
// upstream, so this call is safe to retry.
func (c *Client) PublishEntry(ctx context.Context, contentType, uid string, environments, locales []string) error {
	path := fmt.Sprintf("/content_types/%s/entries/%s/publish", contentType, url.PathEscape(uid))
	payload := envelope{Entry: publishDetails{
		Environments: environments,
		Locales:      locales,
	}}
	_, err := c.do(ctx, http.MethodPost, path, nil, payload)
	return err
}

type envelope struct {
	Entry any `json:"entry"`
}

type publishDetails struct {
	Environments []string `json:"environments"`
	Locales      []string `json:"locales"`
}

// do performs one request and returns the raw response body on 2xx.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("contentstack: encoding payload: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("contentstack: building request: %w", err)
	}
	req.Header.Set("api_key", c.apiKey)
	req.Header.Set("authorization", c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contentstack: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Keep a slice of the error body for logs; Contentstack error
		// payloads name the offending field which is gold when debugging.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("contentstack: reading response: %w", err)
	}
	return body, nil
}

// decodeEnvelope unwraps {"<key>": ...} and decodes the inner value into out.
func decodeEnvelope(body []byte, key string, out any) error {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil {
		return fmt.Errorf("contentstack: decoding response envelope: %w", err)
	}
	inner, ok := outer[key]
	if !ok {
		return fmt.Errorf("contentstack: response missing %q field", key)
	}
	if err := json.Unmarshal(inner, out); err != nil {
		return fmt.Errorf("contentstack: decoding %q: %w", key, err)
	}
	return nil
}
