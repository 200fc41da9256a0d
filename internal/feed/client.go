package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// FetchError reports a failed feed retrieval: transport failure, HTTP error
// status, or an unparseable document.
type FetchError struct {
	URL        string
	StatusCode int // 0 for transport-level failures
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches and parses the halt feed.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new feed client for the given feed URL.
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		logger:    slog.Default(),
		userAgent: "haltwatch/1.0",
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header sent with each fetch.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// Fetch retrieves the feed document once and parses it into raw records.
// It does not retry: a failed cycle is skipped by the caller and the next
// tick fetches fresh.
func (c *Client) Fetch(ctx context.Context) ([]RawRecord, []ParseWarning, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, nil, &FetchError{URL: c.url, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &FetchError{URL: c.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, nil, &FetchError{
			URL:        c.url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", http.StatusText(resp.StatusCode)),
		}
	}

	records, warnings, err := Parse(resp.Body)
	if err != nil {
		return nil, nil, &FetchError{URL: c.url, Err: err}
	}

	c.logger.Debug("feed fetched",
		"url", c.url,
		"records", len(records),
		"warnings", len(warnings),
	)

	return records, warnings, nil
}
