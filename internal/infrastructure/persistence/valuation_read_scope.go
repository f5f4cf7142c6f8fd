package persistence

import (
	"context"

	appval "github.com/assetreg/backend/internal/application/valuation"
	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/valuation"
	"gorm.io/gorm"
)

// GormValuationScope implements the valuation ReadScope. Every read made
// through the Sources it hands out shares one read-only transaction.
type GormValuationScope struct {
	db *Database
}

// NewGormValuationScope creates a new GormValuationScope.
func NewGormValuationScope(db *Database) *GormValuationScope {
	return &GormValuationScope{db: db}
}

// Read runs fn inside a read transaction.
func (s *GormValuationScope) Read(ctx context.Context, fn func(src appval.Sources) error) error {
	return s.db.ReadTx(ctx, func(tx *gorm.DB) error {
		return fn(&gormValuationSources{tx: tx})
	})
}

type gormValuationSources struct {
	tx *gorm.DB
}

func (s *gormValuationSources) Rates() valuation.RateStore {
	return NewGormRateRepository(s.tx)
}

func (s *gormValuationSources) Categories() valuation.CategoryDirectory {
	return NewGormCategoryRepository(s.tx)
}

func (s *gormValuationSources) Population() valuation.AssetPopulation {
	return NewGormAssetPopulation(s.tx)
}

func (s *gormValuationSources) Assets() asset.AssetRepository {
	return NewGormAssetRepository(s.tx)
}

func (s *gormValuationSources) Purchases() asset.PurchaseRepository {
	return NewGormPurchaseRepository(s.tx)
}

// Ensure GormValuationScope implements ReadScope
var _ appval.ReadScope = (*GormValuationScope)(nil)

// Ensure gormValuationSources implements Sources
var _ appval.Sources = (*gormValuationSources)(nil)
