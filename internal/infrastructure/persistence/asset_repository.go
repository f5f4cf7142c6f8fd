package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssetRepository implements AssetRepository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// FindByID finds an asset by its ID
func (r *GormAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	var model models.AssetModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds assets matching the filter and the total count
func (r *GormAssetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]asset.Asset, int64, error) {
	var assetModels []models.AssetModel
	var total int64

	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.AssetModel{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = assetSort.page(query, filter)

	if err := query.Find(&assetModels).Error; err != nil {
		return nil, 0, err
	}

	assets := make([]asset.Asset, len(assetModels))
	for i := range assetModels {
		assets[i] = *assetModels[i].ToDomain()
	}
	return assets, total, nil
}

// Save creates or updates an asset
func (r *GormAssetRepository) Save(ctx context.Context, a *asset.Asset) error {
	model := &models.AssetModel{}
	model.FromDomain(a)
	return r.db.WithContext(ctx).Save(model).Error
}

// CountByStatus counts assets per status
func (r *GormAssetRepository) CountByStatus(ctx context.Context) (map[asset.Status]int64, error) {
	var rows []struct {
		Status asset.Status
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.AssetModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[asset.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountByCategory counts assets per category name. Assets whose category
// no longer exists are not counted.
func (r *GormAssetRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Name  string
		Count int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.AssetModel{}).
		Select("categories.name AS name, COUNT(assets.id) AS count").
		Joins("JOIN categories ON categories.id = assets.category_id").
		Group("categories.name").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Name] = row.Count
	}
	return counts, nil
}

// ExistsInCategory reports whether any asset references the category
func (r *GormAssetRepository) ExistsInCategory(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AssetModel{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormAssetRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(asset_type) LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "category_id":
			query = query.Where("category_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "asset_type":
			query = query.Where("asset_type = ?", value)
		case "assigned_to":
			if value == nil {
				query = query.Where("assigned_to IS NULL")
			} else {
				query = query.Where("assigned_to = ?", value)
			}
		}
	}

	return query
}

// Ensure GormAssetRepository implements AssetRepository
var _ asset.AssetRepository = (*GormAssetRepository)(nil)
