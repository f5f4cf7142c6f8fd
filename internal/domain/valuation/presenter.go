package valuation

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of decimal places of presented amounts
const MoneyPlaces = 2

// Valuation is the displayed valuation of one purchase record
type Valuation struct {
	PurchaseID        uuid.UUID
	AsOf              civil.Date
	Status            asset.Status
	PurchasePrice     decimal.Decimal
	CurrentValue      decimal.Decimal
	TotalDepreciation decimal.Decimal
	Frozen            bool
	Outcome           Outcome
}

// Presenter applies status overrides to engine output and rounds it
type Presenter struct {
	engine *Engine
}

// NewPresenter creates a presenter over engine
func NewPresenter(engine *Engine) *Presenter {
	return &Presenter{engine: engine}
}

// Present values record as of asOf. Stolen or disposed assets whose snapshot
// was taken on or before asOf report a current value of zero and the price
// minus the snapshot as total depreciation.
func (p *Presenter) Present(ctx context.Context, record asset.PurchaseRecord, status asset.Status, asOf civil.Date) (Valuation, error) {
	v := Valuation{
		PurchaseID:    record.ID,
		AsOf:          asOf,
		Status:        status,
		PurchasePrice: Round(record.PurchasePrice),
	}

	if status.IsTerminal() {
		snap := record.SnapshotFor(status)
		if snap == nil {
			return Valuation{}, shared.NewDomainError(ErrSnapshotMissing.Code,
				fmt.Sprintf("Purchase %s has no %s value snapshot", record.ID, status))
		}
		if !snap.TakenOn.After(asOf) {
			v.CurrentValue = decimal.Zero
			v.TotalDepreciation = Round(record.PurchasePrice.Sub(snap.Value))
			v.Frozen = true
			v.Outcome = OutcomeFrozen
			return v, nil
		}
	}

	result, err := p.engine.AccumulatedDepreciation(ctx, Input{
		Price:        record.PurchasePrice,
		PurchaseDate: record.PurchaseDate,
		CategoryID:   record.CategoryID,
		AssetType:    record.AssetType,
		AsOf:         asOf,
	})
	if err != nil {
		return Valuation{}, err
	}

	v.CurrentValue = Round(result.CurrentValue())
	v.TotalDepreciation = v.PurchasePrice.Sub(v.CurrentValue)
	v.Outcome = result.Outcome
	return v, nil
}

// Round rounds an amount to two places, half away from zero
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}
