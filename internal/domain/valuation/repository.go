package valuation

import (
	"context"

	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/google/uuid"
)

// RateStore is the read-only view of the rate schedule the engine consumes
type RateStore interface {
	// RatesFor returns every rate defined for the category, in any order
	RatesFor(ctx context.Context, categoryID uuid.UUID) ([]DepreciationRate, error)
}

// CategoryDirectory answers whether a category still exists
type CategoryDirectory interface {
	CategoryExists(ctx context.Context, categoryID uuid.UUID) (bool, error)
}

// AssetHolding is an asset together with its status and purchase records
type AssetHolding struct {
	AssetID    uuid.UUID
	AssetName  string
	CategoryID uuid.UUID
	AssetType  string
	Status     asset.Status
	Purchases  []asset.PurchaseRecord
}

// AssetPopulation lists the assets that take part in a valuation summary
type AssetPopulation interface {
	// ValuedAssets returns every asset with at least one purchase record
	ValuedAssets(ctx context.Context) ([]AssetHolding, error)
}

// RateFilter contains filter options for listing rates
type RateFilter struct {
	CategoryID    *uuid.UUID
	AssetType     *string
	FinancialYear string
	Page          int
	PageSize      int
}

// RateRepository defines the interface for rate persistence
type RateRepository interface {
	RateStore

	// FindByID finds a rate by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*DepreciationRate, error)

	// FindAll returns rates matching the filter and the total count
	FindAll(ctx context.Context, filter RateFilter) ([]DepreciationRate, int64, error)

	// FindByCategoryAndFinancialYear returns the rates of a category labelled
	// with the financial year
	FindByCategoryAndFinancialYear(ctx context.Context, categoryID uuid.UUID, label string) ([]DepreciationRate, error)

	// Save creates or updates a rate
	Save(ctx context.Context, rate *DepreciationRate) error

	// Delete deletes a rate
	Delete(ctx context.Context, id uuid.UUID) error
}
