// Package firefly is a minimal Firefly III API client covering what the
// bot needs: account and category lookup and creation, transaction
// creation, and deletion.
//
// Every request carries the personal access token as a bearer token and
// asks for the JSON:API representation. List endpoints follow the
// pagination links until exhausted and preserve server order.
package firefly

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

	"github.com/jwiebalk/fireflybot/ledger"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx response from the ledger. Message carries the
// message field Firefly puts in error bodies when one is present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("firefly: %s (status %d)", e.Message, e.Status)
}

// Client talks to a single Firefly III instance. It is safe for concurrent
// use, though the bot never needs that.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client and its 30 second
// timeout.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New returns a client for the Firefly III instance at baseURL.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		base:  strings.TrimRight(baseURL, "/"),
		token: token,
		http:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// endpoint builds an api/v1 URL with optional query parameters.
func (c *Client) endpoint(path string, query url.Values) string {
	u := c.base + "/api/v1/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.api+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// newAPIError drains the response body looking for Firefly's message field
// and falls back to the HTTP status text.
func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode, Message: resp.Status}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	}
	return apiErr
}

// resource is one JSON:API object.
type resource struct {
	ID         string          `json:"id"`
	Attributes json.RawMessage `json:"attributes"`
}

// document is a single-resource JSON:API response.
type document struct {
	Data resource `json:"data"`
}

// listPage is one page of a JSON:API collection.
type listPage struct {
	Data  []resource `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

// collect walks a paginated collection starting at rawURL, calling visit
// for every resource in server order.
func (c *Client) collect(ctx context.Context, rawURL string, visit func(resource) error) error {
	for rawURL != "" {
		var page listPage
		if err := c.do(ctx, http.MethodGet, rawURL, nil, &page); err != nil {
			return err
		}
		for _, res := range page.Data {
			if err := visit(res); err != nil {
				return err
			}
		}
		rawURL = page.Links.Next
	}
	return nil
}

// namedAttributes is the slice of account and category attributes the bot
// cares about.
type namedAttributes struct {
	Name string `json:"name"`
}

func (r resource) candidate() (ledger.Candidate, error) {
	var attrs namedAttributes
	if err := json.Unmarshal(r.Attributes, &attrs); err != nil {
		return ledger.Candidate{}, fmt.Errorf("decode attributes of %s: %w", r.ID, err)
	}
	return ledger.Candidate{ID: r.ID, Name: attrs.Name}, nil
}
