package valuation

import (
	"context"

	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/valuation"
)

// ReadScope runs valuation reads against one consistent snapshot of rates,
// assets and purchase records.
type ReadScope interface {
	Read(ctx context.Context, fn func(src Sources) error) error
}

// Sources exposes the read views a valuation needs. All of them are bound to
// the same underlying read transaction.
type Sources interface {
	Rates() valuation.RateStore
	Categories() valuation.CategoryDirectory
	Population() valuation.AssetPopulation
	Assets() asset.AssetRepository
	Purchases() asset.PurchaseRepository
}

// SummaryCache stores computed financial-year summaries. Invalidate drops
// every cached summary at once.
type SummaryCache interface {
	Get(ctx context.Context, label string) (*SummaryResponse, bool, error)
	Set(ctx context.Context, label string, summary *SummaryResponse) error
	Invalidate(ctx context.Context) error
}
