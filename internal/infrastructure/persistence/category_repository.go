package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/domain/valuation"
	"github.com/assetreg/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM.
// It also serves as the valuation CategoryDirectory.
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*asset.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all categories matching the filter
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]asset.Category, int64, error) {
	var categoryModels []models.CategoryModel
	var total int64

	base := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.CategoryModel{}), filter)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := categorySort.page(base, filter).Find(&categoryModels).Error; err != nil {
		return nil, 0, err
	}

	categories := make([]asset.Category, len(categoryModels))
	for i := range categoryModels {
		categories[i] = *categoryModels[i].ToDomain()
	}
	return categories, total, nil
}

// ExistsByName checks if a category with the given name exists, case-insensitively
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Exists checks whether a category id is present
func (r *GormCategoryRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CategoryExists implements valuation.CategoryDirectory
func (r *GormCategoryRepository) CategoryExists(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	return r.Exists(ctx, categoryID)
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *asset.Category) error {
	model := &models.CategoryModel{}
	model.FromDomain(category)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a category
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCategoryRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	return query
}

// Ensure GormCategoryRepository implements CategoryRepository and CategoryDirectory
var (
	_ asset.CategoryRepository    = (*GormCategoryRepository)(nil)
	_ valuation.CategoryDirectory = (*GormCategoryRepository)(nil)
)
