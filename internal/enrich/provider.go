package enrich

import (
	"context"

	"github.com/rickgao/haltwatch/internal/model"
)

// Provider fetches a quote for one symbol from an external source.
type Provider interface {
	Name() string
	Quote(ctx context.Context, symbol string) (model.Quote, error)
}
