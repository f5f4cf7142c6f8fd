package persistence

import (
	"context"

	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssignmentRepository stores assignment history rows using GORM
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewGormAssignmentRepository creates a new GormAssignmentRepository
func NewGormAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// Save appends a history row
func (r *GormAssignmentRepository) Save(ctx context.Context, record *asset.AssignmentRecord) error {
	model := &models.AssignmentModel{}
	model.FromDomain(record)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByAsset returns the history of an asset, newest first
func (r *GormAssignmentRepository) FindByAsset(ctx context.Context, assetID uuid.UUID) ([]asset.AssignmentRecord, error) {
	var rows []models.AssignmentModel
	if err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]asset.AssignmentRecord, len(rows))
	for i := range rows {
		records[i] = *rows[i].ToDomain()
	}
	return records, nil
}

// Ensure GormAssignmentRepository implements AssignmentRepository
var _ asset.AssignmentRepository = (*GormAssignmentRepository)(nil)
