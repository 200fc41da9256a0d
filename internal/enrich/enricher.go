package enrich

import (
	"context"
	"log/slog"
	"time"

	"github.com/rickgao/haltwatch/internal/model"
)

// Result is everything enrichment found for one symbol. Any or all of it
// may be absent.
type Result struct {
	Quote model.Quote
	News  model.NewsSummary
}

// Enricher runs best-effort lookups against the configured providers.
type Enricher struct {
	providers []Provider
	news      *NewsClient
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates an Enricher. providers are tried in order until one succeeds;
// news may be nil to skip headline lookups.
func New(providers []Provider, news *NewsClient, timeout time.Duration, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		providers: providers,
		news:      news,
		timeout:   timeout,
		logger:    logger,
	}
}

// Enrich fetches market data and headlines for a symbol. It never fails:
// every degradation is logged and the corresponding fields stay absent.
func (e *Enricher) Enrich(ctx context.Context, symbol string) Result {
	var res Result

	for _, p := range e.providers {
		quote, err := e.fetchQuote(ctx, p, symbol)
		if err != nil {
			e.logger.Warn("quote lookup degraded",
				"provider", p.Name(),
				"symbol", symbol,
				"err", err,
			)
			continue
		}
		res.Quote = quote
		break
	}

	if e.news != nil {
		news, err := e.fetchNews(ctx, symbol)
		if err != nil {
			e.logger.Warn("news lookup degraded",
				"symbol", symbol,
				"err", err,
			)
		} else {
			res.News = news
		}
	}

	return res
}

func (e *Enricher) fetchQuote(ctx context.Context, p Provider, symbol string) (model.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return p.Quote(ctx, symbol)
}

func (e *Enricher) fetchNews(ctx context.Context, symbol string) (model.NewsSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.news.Lookup(ctx, symbol)
}
