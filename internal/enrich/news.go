package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rickgao/haltwatch/internal/feed"
	"github.com/rickgao/haltwatch/internal/model"
)

const (
	maxHeadlines   = 3
	headlineLength = 80
)

// NewsClient looks up recent headlines for a symbol via a Google News RSS
// search. Results are best-effort flavor for alerts.
type NewsClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewNewsClient creates a headline lookup client.
func NewNewsClient(baseURL string, logger *slog.Logger) *NewsClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		logger: logger,
	}
}

// Lookup returns the top story link and a shortened headline summary.
func (c *NewsClient) Lookup(ctx context.Context, symbol string) (model.NewsSummary, error) {
	query := url.Values{}
	query.Set("q", symbol+" stock")
	query.Set("hl", "en-US")
	query.Set("gl", "US")
	query.Set("ceid", "US:en")
	fullURL := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return model.NewsSummary{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewsSummary{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return model.NewsSummary{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	records, _, err := feed.Parse(resp.Body)
	if err != nil {
		return model.NewsSummary{}, fmt.Errorf("parse news feed: %w", err)
	}
	if len(records) == 0 {
		return model.NewsSummary{}, fmt.Errorf("no headlines for %s", symbol)
	}

	if len(records) > maxHeadlines {
		records = records[:maxHeadlines]
	}

	var headlines []string
	for _, rec := range records {
		if title := rec.Get("title"); title != "" {
			headlines = append(headlines, shorten(title, headlineLength))
		}
	}

	return model.NewsSummary{
		Link:    records[0].Get("link"),
		Summary: strings.Join(headlines, "; "),
	}, nil
}

func shorten(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return strings.TrimRight(text[:limit-3], " ") + "..."
}
