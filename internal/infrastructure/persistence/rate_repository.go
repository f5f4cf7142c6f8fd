package persistence

import (
	"context"
	"errors"

	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/domain/valuation"
	"github.com/assetreg/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRateRepository implements RateRepository using GORM. It is also the
// RateStore the depreciation engine reads from.
type GormRateRepository struct {
	db *gorm.DB
}

// NewGormRateRepository creates a new GormRateRepository
func NewGormRateRepository(db *gorm.DB) *GormRateRepository {
	return &GormRateRepository{db: db}
}

// RatesFor returns every rate defined for the category
func (r *GormRateRepository) RatesFor(ctx context.Context, categoryID uuid.UUID) ([]valuation.DepreciationRate, error) {
	var rateModels []models.DepreciationRateModel
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("effective_from ASC, created_at ASC").
		Find(&rateModels).Error; err != nil {
		return nil, err
	}
	return toRates(rateModels), nil
}

// FindByID finds a rate by its ID
func (r *GormRateRepository) FindByID(ctx context.Context, id uuid.UUID) (*valuation.DepreciationRate, error) {
	var model models.DepreciationRateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns rates matching the filter and the total count
func (r *GormRateRepository) FindAll(ctx context.Context, filter valuation.RateFilter) ([]valuation.DepreciationRate, int64, error) {
	var rateModels []models.DepreciationRateModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.DepreciationRateModel{})
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AssetType != nil {
		query = query.Where("asset_type = ?", *filter.AssetType)
	}
	if filter.FinancialYear != "" {
		query = query.Where("financial_year = ?", filter.FinancialYear)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Order("effective_from DESC, created_at DESC").Find(&rateModels).Error; err != nil {
		return nil, 0, err
	}
	return toRates(rateModels), total, nil
}

// FindByCategoryAndFinancialYear returns the rates of a category labelled with the financial year
func (r *GormRateRepository) FindByCategoryAndFinancialYear(ctx context.Context, categoryID uuid.UUID, label string) ([]valuation.DepreciationRate, error) {
	var rateModels []models.DepreciationRateModel
	if err := r.db.WithContext(ctx).
		Where("category_id = ? AND financial_year = ?", categoryID, label).
		Order("effective_from ASC").
		Find(&rateModels).Error; err != nil {
		return nil, err
	}
	return toRates(rateModels), nil
}

// Save creates or updates a rate
func (r *GormRateRepository) Save(ctx context.Context, rate *valuation.DepreciationRate) error {
	model := &models.DepreciationRateModel{}
	model.FromDomain(rate)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a rate
func (r *GormRateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DepreciationRateModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toRates(rateModels []models.DepreciationRateModel) []valuation.DepreciationRate {
	rates := make([]valuation.DepreciationRate, len(rateModels))
	for i := range rateModels {
		rates[i] = *rateModels[i].ToDomain()
	}
	return rates
}

// Ensure GormRateRepository implements RateRepository
var _ valuation.RateRepository = (*GormRateRepository)(nil)
