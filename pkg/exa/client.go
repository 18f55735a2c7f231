// Package exa provides a client for the Exa neural web-search API.
package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.exa.ai"

// Client performs Exa search operations.
type Client interface {
	Search(ctx context.Context, query string) (*SearchResponse, error)
}

// SearchResponse is the parsed Exa search response.
type SearchResponse struct {
	Results []Result `json:"results"`
}

// Result is one ranked search hit.
type Result struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// APIError is returned for non-2xx responses so callers can branch on the
// status code (auth failures are fatal for a lane, 429/5xx are retryable).
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("exa: status %d: %s", e.StatusCode, e.Body)
}

// IsAuthError reports whether err is an Exa authentication/authorization
// failure.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !eris.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithNumResults sets the per-query result cap.
func WithNumResults(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.numResults = n
		}
	}
}

// WithIncludeDomain restricts results to a single domain.
func WithIncludeDomain(domain string) Option {
	return func(c *httpClient) {
		c.includeDomain = domain
	}
}

// WithMaxTextChars caps the snippet text returned per result.
func WithMaxTextChars(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.maxTextChars = n
		}
	}
}

type httpClient struct {
	apiKey        string
	baseURL       string
	numResults    int
	includeDomain string
	maxTextChars  int
	http          *http.Client
}

// NewClient creates an Exa search client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:        apiKey,
		baseURL:       defaultBaseURL,
		numResults:    10,
		includeDomain: "linkedin.com",
		maxTextChars:  500,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type searchRequest struct {
	Query          string          `json:"query"`
	Type           string          `json:"type"`
	NumResults     int             `json:"numResults"`
	IncludeDomains []string        `json:"includeDomains,omitempty"`
	Contents       contentsRequest `json:"contents"`
}

type contentsRequest struct {
	Text textRequest `json:"text"`
}

type textRequest struct {
	MaxCharacters int `json:"maxCharacters"`
}

func (c *httpClient) Search(ctx context.Context, query string) (*SearchResponse, error) {
	reqBody := searchRequest{
		Query:      query,
		Type:       "neural",
		NumResults: c.numResults,
		Contents:   contentsRequest{Text: textRequest{MaxCharacters: c.maxTextChars}},
	}
	if c.includeDomain != "" {
		reqBody.IncludeDomains = []string{c.includeDomain}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, eris.Wrap(err, "exa: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "exa: create request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "exa: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "exa: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result SearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "exa: unmarshal response")
	}

	return &result, nil
}
