package books

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const DefaultMaxResults = 10

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("google books: http %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	http    Doer
	baseURL string
	apiKey  string
	log     *zap.Logger
}

// NewClient builds a Google Books client. baseURL is the API root, e.g.
// https://www.googleapis.com/books/v1. apiKey is optional.
func NewClient(httpClient Doer, baseURL, apiKey string, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{http: httpClient, baseURL: baseURL, apiKey: apiKey, log: log}
}

// Search returns normalized records in upstream order. Failures are logged
// and produce an empty list, never an error.
func (c *Client) Search(ctx context.Context, query string, maxResults int) []BookRecord {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	items, err := c.fetchVolumes(ctx, query, maxResults)
	if err != nil {
		c.log.Error("book search failed", zap.String("query", query), zap.Error(err))
		return []BookRecord{}
	}
	return NormalizeAll(items)
}

func (c *Client) fetchVolumes(ctx context.Context, query string, maxResults int) ([]Volume, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("maxResults", strconv.Itoa(maxResults))
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	endpoint := c.baseURL + "/volumes?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google books GET: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: snippet(raw, 300)}
	}

	var out volumesResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("google books unmarshal: %w", err)
	}
	c.log.Debug("book search ok", zap.String("query", query), zap.Int("items", len(out.Items)), zap.Int("total", out.TotalItems))
	return out.Items, nil
}

// snippet cuts b to at most n bytes without splitting a rune.
func snippet(b []byte, n int) string {
	if len(b) <= n {
		return strings.ToValidUTF8(string(b), "")
	}
	return strings.ToValidUTF8(string(b[:n]), "") + "..."
}
