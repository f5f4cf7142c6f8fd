package asset

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetRepository defines the interface for asset persistence
type AssetRepository interface {
	// FindByID finds an asset by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Asset, error)

	// FindAll finds assets matching the filter and reports the total count.
	// Supported filters: "category_id", "status", "assigned_to".
	FindAll(ctx context.Context, filter shared.Filter) ([]Asset, int64, error)

	// Save creates or updates an asset
	Save(ctx context.Context, asset *Asset) error

	// CountByStatus counts assets per status
	CountByStatus(ctx context.Context) (map[Status]int64, error)

	// CountByCategory counts assets per category name
	CountByCategory(ctx context.Context) (map[string]int64, error)

	// ExistsInCategory reports whether any asset references the category
	ExistsInCategory(ctx context.Context, categoryID uuid.UUID) (bool, error)
}

// PurchaseRepository defines the interface for purchase record persistence
type PurchaseRepository interface {
	// FindByID finds a purchase record by its ID, with the owning asset's
	// category and asset type populated
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseRecord, error)

	// FindByAsset returns the purchase records of an asset, latest purchase first
	FindByAsset(ctx context.Context, assetID uuid.UUID) ([]PurchaseRecord, error)

	// FindAll finds purchase records matching the filter and reports the total count.
	// Supported filters: "asset_id", "vendor_name".
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseRecord, int64, error)

	// FindExpiringBetween returns records flagged for notification whose
	// warranty expires within [from, to]
	FindExpiringBetween(ctx context.Context, from, to civil.Date) ([]PurchaseRecord, error)

	// CountExpiringBetween counts notify records expiring within [from, to]
	CountExpiringBetween(ctx context.Context, from, to civil.Date) (int64, error)

	// CountExpiredBefore counts notify records whose warranty ended before the day
	CountExpiredBefore(ctx context.Context, day civil.Date) (int64, error)

	// SumPurchasePrice sums the price of every purchase record
	SumPurchasePrice(ctx context.Context) (decimal.Decimal, error)

	// ExistsByInvoiceNumber checks whether an invoice number is already recorded
	ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error)

	// Save creates or updates a purchase record
	Save(ctx context.Context, record *PurchaseRecord) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindAll finds all categories matching the filter and reports the total count
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, int64, error)

	// ExistsByName checks if a category with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)

	// Exists checks whether a category id is present
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error
}

// AssignmentRepository stores the assignment history of assets
type AssignmentRepository interface {
	// Save appends a history row
	Save(ctx context.Context, record *AssignmentRecord) error

	// FindByAsset returns the history of an asset, newest first
	FindByAsset(ctx context.Context, assetID uuid.UUID) ([]AssignmentRecord, error)
}
