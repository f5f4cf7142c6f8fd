package asset

import (
	"context"

	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/valuation"
)

// TransactionScope provides transactional access to the asset register.
// All repository operations made through one Execute call commit or roll
// back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories bound to the
// current transaction.
//
// Rates and Categories are the read views the valuation engine needs when a
// lifecycle transition freezes an asset's value.
type TransactionalRepositories interface {
	Assets() asset.AssetRepository
	Purchases() asset.PurchaseRepository
	Assignments() asset.AssignmentRepository
	Rates() valuation.RateStore
	Categories() valuation.CategoryDirectory
}

// NoOpTransactionScope runs functions without a real transaction.
// This is useful for testing.
type NoOpTransactionScope struct {
	assets      asset.AssetRepository
	purchases   asset.PurchaseRepository
	assignments asset.AssignmentRepository
	rates       valuation.RateStore
	categories  valuation.CategoryDirectory
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	assets asset.AssetRepository,
	purchases asset.PurchaseRepository,
	assignments asset.AssignmentRepository,
	rates valuation.RateStore,
	categories valuation.CategoryDirectory,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		assets:      assets,
		purchases:   purchases,
		assignments: assignments,
		rates:       rates,
		categories:  categories,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Assets() asset.AssetRepository           { return s.assets }
func (s *NoOpTransactionScope) Purchases() asset.PurchaseRepository     { return s.purchases }
func (s *NoOpTransactionScope) Assignments() asset.AssignmentRepository { return s.assignments }
func (s *NoOpTransactionScope) Rates() valuation.RateStore              { return s.rates }
func (s *NoOpTransactionScope) Categories() valuation.CategoryDirectory { return s.categories }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
