package persistence

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPurchaseRepository implements PurchaseRepository using GORM.
// Reads preload the owning asset so records carry its category and type.
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

func (r *GormPurchaseRepository) withAsset(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Asset")
}

// FindByID finds a purchase record by its ID
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*asset.PurchaseRecord, error) {
	var model models.PurchaseRecordModel
	if err := r.withAsset(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAsset returns the purchase records of an asset, latest purchase first
func (r *GormPurchaseRepository) FindByAsset(ctx context.Context, assetID uuid.UUID) ([]asset.PurchaseRecord, error) {
	var recordModels []models.PurchaseRecordModel
	if err := r.withAsset(ctx).
		Where("asset_id = ?", assetID).
		Order("purchase_date DESC, created_at DESC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}
	return toPurchaseRecords(recordModels), nil
}

// FindAll finds purchase records matching the filter and the total count
func (r *GormPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]asset.PurchaseRecord, int64, error) {
	var recordModels []models.PurchaseRecordModel
	var total int64

	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.PurchaseRecordModel{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = purchaseSort.page(query, filter)

	if err := query.Preload("Asset").Find(&recordModels).Error; err != nil {
		return nil, 0, err
	}
	return toPurchaseRecords(recordModels), total, nil
}

// FindExpiringBetween returns notify records whose warranty expires within [from, to]
func (r *GormPurchaseRepository) FindExpiringBetween(ctx context.Context, from, to civil.Date) ([]asset.PurchaseRecord, error) {
	var recordModels []models.PurchaseRecordModel
	if err := r.withAsset(ctx).
		Where("notify = ? AND expiry_date >= ? AND expiry_date <= ?", true, models.DateToTime(from), models.DateToTime(to)).
		Order("expiry_date ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}
	return toPurchaseRecords(recordModels), nil
}

// CountExpiringBetween counts notify records expiring within [from, to]
func (r *GormPurchaseRepository) CountExpiringBetween(ctx context.Context, from, to civil.Date) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PurchaseRecordModel{}).
		Where("notify = ? AND expiry_date >= ? AND expiry_date <= ?", true, models.DateToTime(from), models.DateToTime(to)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountExpiredBefore counts notify records whose warranty ended before the day
func (r *GormPurchaseRepository) CountExpiredBefore(ctx context.Context, day civil.Date) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PurchaseRecordModel{}).
		Where("notify = ? AND expiry_date < ?", true, models.DateToTime(day)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumPurchasePrice sums the price of every purchase record
func (r *GormPurchaseRepository) SumPurchasePrice(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.PurchaseRecordModel{}).
		Select("COALESCE(SUM(purchase_price), 0) AS total").
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// ExistsByInvoiceNumber checks whether an invoice number is already recorded
func (r *GormPurchaseRepository) ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PurchaseRecordModel{}).
		Where("invoice_number = ?", strings.TrimSpace(invoiceNumber)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a purchase record
func (r *GormPurchaseRepository) Save(ctx context.Context, record *asset.PurchaseRecord) error {
	model := &models.PurchaseRecordModel{}
	model.FromDomain(record)
	return r.db.WithContext(ctx).Omit("Asset").Save(model).Error
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPurchaseRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(invoice_number) LIKE ? OR LOWER(vendor_name) LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "asset_id":
			query = query.Where("asset_id = ?", value)
		case "vendor_name":
			query = query.Where("vendor_name = ?", value)
		}
	}

	return query
}

func toPurchaseRecords(recordModels []models.PurchaseRecordModel) []asset.PurchaseRecord {
	records := make([]asset.PurchaseRecord, len(recordModels))
	for i := range recordModels {
		records[i] = *recordModels[i].ToDomain()
	}
	return records
}

// Ensure GormPurchaseRepository implements PurchaseRepository
var _ asset.PurchaseRepository = (*GormPurchaseRepository)(nil)
