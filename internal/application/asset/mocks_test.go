package asset

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	appval "github.com/assetreg/backend/internal/application/valuation"
	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/identity"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/domain/valuation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAssetRepository is a mock implementation of asset.AssetRepository
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]asset.Asset, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]asset.Asset), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssetRepository) Save(ctx context.Context, a *asset.Asset) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssetRepository) CountByStatus(ctx context.Context) (map[asset.Status]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[asset.Status]int64), args.Error(1)
}

func (m *MockAssetRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockAssetRepository) ExistsInCategory(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, categoryID)
	return args.Bool(0), args.Error(1)
}

// MockPurchaseRepository is a mock implementation of asset.PurchaseRepository
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*asset.PurchaseRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.PurchaseRecord), args.Error(1)
}

func (m *MockPurchaseRepository) FindByAsset(ctx context.Context, assetID uuid.UUID) ([]asset.PurchaseRecord, error) {
	args := m.Called(ctx, assetID)
	return args.Get(0).([]asset.PurchaseRecord), args.Error(1)
}

func (m *MockPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]asset.PurchaseRecord, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]asset.PurchaseRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseRepository) FindExpiringBetween(ctx context.Context, from, to civil.Date) ([]asset.PurchaseRecord, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]asset.PurchaseRecord), args.Error(1)
}

func (m *MockPurchaseRepository) CountExpiringBetween(ctx context.Context, from, to civil.Date) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseRepository) CountExpiredBefore(ctx context.Context, day civil.Date) (int64, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseRepository) SumPurchasePrice(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPurchaseRepository) ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	args := m.Called(ctx, invoiceNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseRepository) Save(ctx context.Context, record *asset.PurchaseRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockAssignmentRepository is a mock implementation of asset.AssignmentRepository
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Save(ctx context.Context, record *asset.AssignmentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAssignmentRepository) FindByAsset(ctx context.Context, assetID uuid.UUID) ([]asset.AssignmentRecord, error) {
	args := m.Called(ctx, assetID)
	return args.Get(0).([]asset.AssignmentRecord), args.Error(1)
}

// MockCategoryRepository is a mock implementation of asset.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*asset.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asset.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]asset.Category, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]asset.Category), args.Get(1).(int64), args.Error(2)
}

func (m *MockCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *asset.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) FindAdmins(ctx context.Context) ([]identity.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockObjectStorage is a mock implementation of ObjectStorageService
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// rateTable is a RateStore and CategoryDirectory over fixed data
type rateTable struct {
	rates      map[uuid.UUID][]valuation.DepreciationRate
	categories map[uuid.UUID]bool
}

func newRateTable() *rateTable {
	return &rateTable{
		rates:      make(map[uuid.UUID][]valuation.DepreciationRate),
		categories: make(map[uuid.UUID]bool),
	}
}

func (t *rateTable) RatesFor(ctx context.Context, categoryID uuid.UUID) ([]valuation.DepreciationRate, error) {
	return t.rates[categoryID], nil
}

func (t *rateTable) CategoryExists(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	return t.categories[categoryID], nil
}

// valuationScope serves the valuation read scope from the same fixtures
type valuationScope struct {
	table     *rateTable
	assets    asset.AssetRepository
	purchases asset.PurchaseRepository
}

func (s *valuationScope) Read(ctx context.Context, fn func(src appval.Sources) error) error {
	return fn(s)
}

func (s *valuationScope) Rates() valuation.RateStore              { return s.table }
func (s *valuationScope) Categories() valuation.CategoryDirectory { return s.table }
func (s *valuationScope) Population() valuation.AssetPopulation   { return nil }
func (s *valuationScope) Assets() asset.AssetRepository           { return s.assets }
func (s *valuationScope) Purchases() asset.PurchaseRepository     { return s.purchases }

func day(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}
