package enrich

import (
	"context"
	"fmt"

	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"

	"github.com/rickgao/haltwatch/internal/model"
)

// YahooProvider fetches quotes from Yahoo Finance. It needs no API key,
// which makes it the fallback when no FMP key is configured. Yahoo does
// not expose share float, so Float stays absent.
type YahooProvider struct{}

// NewYahooProvider creates a Yahoo Finance quote provider.
func NewYahooProvider() *YahooProvider {
	return &YahooProvider{}
}

func (p *YahooProvider) Name() string { return "yahoo" }

// Quote fetches price and market cap for a symbol. The underlying client
// has no context support, so the fetch runs in a goroutine and is abandoned
// on context expiry.
func (p *YahooProvider) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	type result struct {
		quote model.Quote
		err   error
	}
	ch := make(chan result, 1)

	go func() {
		eq, err := equity.Get(symbol)
		if err != nil {
			ch <- result{err: fmt.Errorf("yahoo quote %s: %w", symbol, err)}
			return
		}
		if eq == nil {
			ch <- result{err: fmt.Errorf("yahoo quote %s: no data", symbol)}
			return
		}

		q := model.Quote{}
		if eq.RegularMarketPrice != 0 {
			d := decimal.NewFromFloat(eq.RegularMarketPrice)
			q.Price = &d
		}
		if eq.MarketCap != 0 {
			d := decimal.NewFromInt(eq.MarketCap)
			q.MarketCap = &d
		}
		ch <- result{quote: q}
	}()

	select {
	case <-ctx.Done():
		return model.Quote{}, ctx.Err()
	case r := <-ch:
		return r.quote, r.err
	}
}
