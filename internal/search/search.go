// Package search provides web search for the company researcher, backed by
// the Tavily API with a deterministic mock fallback when no key is set.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DefaultEndpoint is the Tavily search API endpoint.
const DefaultEndpoint = "https://api.tavily.com/search"

// DefaultTimeout bounds a single search request.
const DefaultTimeout = 30 * time.Second

// DefaultMaxResults is the result count requested per query.
const DefaultMaxResults = 5

// Result is one search hit.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Error represents a search request failure.
type Error struct {
	Query   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("search error for %q: %s: %v", e.Query, e.Message, e.Cause)
	}
	return fmt.Sprintf("search error for %q: %s", e.Query, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client performs web searches. With no API key it serves mock results so
// the researcher keeps working in development.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoint overrides the search API endpoint. Used by tests.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a search client. An empty apiKey selects mock mode.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		endpoint:   DefaultEndpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Live reports whether real searches are configured.
func (c *Client) Live() bool {
	return c.apiKey != ""
}

// Search runs a query and returns up to maxResults hits. API failures fall
// back to mock results rather than failing the research pipeline.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if !c.Live() {
		return mockResults(query), nil
	}

	results, err := c.searchTavily(ctx, query, maxResults)
	if err != nil {
		return mockResults(query), err
	}
	return results, nil
}

func (c *Client) searchTavily(ctx context.Context, query string, maxResults int) ([]Result, error) {
	payload, err := json.Marshal(map[string]any{
		"api_key":     c.apiKey,
		"query":       query,
		"max_results": maxResults,
	})
	if err != nil {
		return nil, &Error{Query: query, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Query: query, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Query: query, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Query: query, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	var decoded struct {
		Results []Result `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &Error{Query: query, Message: "failed to decode response", Cause: err}
	}

	if len(decoded.Results) > maxResults {
		decoded.Results = decoded.Results[:maxResults]
	}
	return decoded.Results, nil
}

func mockResults(query string) []Result {
	return []Result{
		{
			Title:   fmt.Sprintf("Result for: %s", query),
			URL:     fmt.Sprintf("https://example.com/search?q=%s", url.QueryEscape(query)),
			Content: fmt.Sprintf("This is a mock search result for %q. Configure TAVILY_API_KEY for real results.", query),
			Score:   0.0,
		},
	}
}

// SearchCompany searches for general information about a company.
func (c *Client) SearchCompany(ctx context.Context, companyName string) ([]Result, error) {
	return c.Search(ctx, fmt.Sprintf("%s company information", companyName), DefaultMaxResults)
}

// SearchCompanyNews searches for recent news about a company.
func (c *Client) SearchCompanyNews(ctx context.Context, companyName string) ([]Result, error) {
	return c.Search(ctx, fmt.Sprintf("%s company news recent", companyName), DefaultMaxResults)
}

// SearchCompanyPeople searches for key people at a company, optionally
// narrowed to a role.
func (c *Client) SearchCompanyPeople(ctx context.Context, companyName, role string) ([]Result, error) {
	query := fmt.Sprintf("%s leadership team executives", companyName)
	if role != "" {
		query = fmt.Sprintf("%s %s LinkedIn", companyName, role)
	}
	return c.Search(ctx, query, DefaultMaxResults)
}

// FormatResults renders search hits as prompt context.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "(no search results)"
	}
	var buf bytes.Buffer
	for i, r := range results {
		fmt.Fprintf(&buf, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.URL, r.Content)
	}
	return buf.String()
}
