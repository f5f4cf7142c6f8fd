package persistence

import (
	"context"

	appasset "github.com/assetreg/backend/internal/application/asset"
	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/valuation"
	"gorm.io/gorm"
)

// GormAssetTransactionScope implements TransactionScope using GORM transactions.
// A lifecycle transition, its assignment history and the value snapshots of
// the asset's purchase records commit together or not at all.
type GormAssetTransactionScope struct {
	db *gorm.DB
}

// NewGormAssetTransactionScope creates a new GormAssetTransactionScope.
func NewGormAssetTransactionScope(db *gorm.DB) *GormAssetTransactionScope {
	return &GormAssetTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormAssetTransactionScope) Execute(ctx context.Context, fn func(repos appasset.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormAssetRepositories{tx: tx})
	})
}

// gormAssetRepositories provides access to all repositories within a transaction.
type gormAssetRepositories struct {
	tx *gorm.DB
}

func (r *gormAssetRepositories) Assets() asset.AssetRepository {
	return NewGormAssetRepository(r.tx)
}

func (r *gormAssetRepositories) Purchases() asset.PurchaseRepository {
	return NewGormPurchaseRepository(r.tx)
}

func (r *gormAssetRepositories) Assignments() asset.AssignmentRepository {
	return NewGormAssignmentRepository(r.tx)
}

// Rates returns the rate schedule as seen by the transaction, so snapshots are
// valued against the same data the transition commits with.
func (r *gormAssetRepositories) Rates() valuation.RateStore {
	return NewGormRateRepository(r.tx)
}

func (r *gormAssetRepositories) Categories() valuation.CategoryDirectory {
	return NewGormCategoryRepository(r.tx)
}

// Ensure GormAssetTransactionScope implements TransactionScope
var _ appasset.TransactionScope = (*GormAssetTransactionScope)(nil)

// Ensure gormAssetRepositories implements TransactionalRepositories
var _ appasset.TransactionalRepositories = (*gormAssetRepositories)(nil)
