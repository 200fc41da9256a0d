package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/haltwatch/internal/model"
)

// FMPProvider fetches quotes from the Financial Modeling Prep API.
type FMPProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// FMPOption configures an FMPProvider.
type FMPOption func(*FMPProvider)

// NewFMPProvider creates a Financial Modeling Prep quote provider.
func NewFMPProvider(baseURL, apiKey string, opts ...FMPOption) *FMPProvider {
	p := &FMPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// WithFMPHTTPClient sets a custom HTTP client.
func WithFMPHTTPClient(hc *http.Client) FMPOption {
	return func(p *FMPProvider) {
		p.httpClient = hc
	}
}

// WithFMPLogger sets the logger.
func WithFMPLogger(logger *slog.Logger) FMPOption {
	return func(p *FMPProvider) {
		p.logger = logger
	}
}

func (p *FMPProvider) Name() string { return "fmp" }

// fmpQuote is the subset of the /quote payload we use.
type fmpQuote struct {
	Price       *float64 `json:"price"`
	MarketCap   *float64 `json:"marketCap"`
	SharesFloat *float64 `json:"sharesFloat"`
}

// Quote fetches price, market cap, and float for a symbol.
func (p *FMPProvider) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	if p.apiKey == "" {
		return model.Quote{}, fmt.Errorf("no api key configured")
	}

	fullURL := fmt.Sprintf("%s/quote/%s?apikey=%s",
		p.baseURL, url.PathEscape(symbol), url.QueryEscape(p.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return model.Quote{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return model.Quote{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Quote{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return model.Quote{}, fmt.Errorf("status %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var quotes []fmpQuote
	if err := json.Unmarshal(body, &quotes); err != nil {
		return model.Quote{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(quotes) == 0 {
		return model.Quote{}, fmt.Errorf("empty response for %s", symbol)
	}

	q := quotes[0]
	return model.Quote{
		Price:     fromFloat(q.Price),
		MarketCap: fromFloat(q.MarketCap),
		Float:     fromFloat(q.SharesFloat),
	}, nil
}

func fromFloat(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}
