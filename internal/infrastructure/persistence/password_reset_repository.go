package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/assetreg/backend/internal/domain/identity"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPasswordResetRepository implements identity.PasswordResetRepository using GORM
type GormPasswordResetRepository struct {
	db *gorm.DB
}

// NewGormPasswordResetRepository creates a new GormPasswordResetRepository
func NewGormPasswordResetRepository(db *gorm.DB) *GormPasswordResetRepository {
	return &GormPasswordResetRepository{db: db}
}

// Save creates or updates a reset code
func (r *GormPasswordResetRepository) Save(ctx context.Context, code *identity.PasswordResetCode) error {
	return r.db.WithContext(ctx).Save(models.PasswordResetCodeModelFromDomain(code)).Error
}

// FindLatest returns the user's most recently issued code. Older codes stop
// counting as soon as a new one is issued.
func (r *GormPasswordResetRepository) FindLatest(ctx context.Context, userID uuid.UUID) (*identity.PasswordResetCode, error) {
	var model models.PasswordResetCodeModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// DeleteExpiredBefore removes codes that expired before cutoff
func (r *GormPasswordResetRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&models.PasswordResetCodeModel{})
	return result.RowsAffected, result.Error
}

var _ identity.PasswordResetRepository = (*GormPasswordResetRepository)(nil)
