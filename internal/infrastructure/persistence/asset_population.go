package persistence

import (
	"context"

	"github.com/assetreg/backend/internal/domain/valuation"
	"github.com/assetreg/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssetPopulation loads the assets that take part in valuation summaries
type GormAssetPopulation struct {
	db *gorm.DB
}

// NewGormAssetPopulation creates a new GormAssetPopulation
func NewGormAssetPopulation(db *gorm.DB) *GormAssetPopulation {
	return &GormAssetPopulation{db: db}
}

// ValuedAssets returns every asset with at least one purchase record, each
// carrying all of its purchases. Two queries are issued regardless of size.
func (p *GormAssetPopulation) ValuedAssets(ctx context.Context) ([]valuation.AssetHolding, error) {
	var recordModels []models.PurchaseRecordModel
	if err := p.db.WithContext(ctx).
		Preload("Asset").
		Order("asset_id ASC, purchase_date ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}

	index := make(map[uuid.UUID]int)
	holdings := make([]valuation.AssetHolding, 0)
	for i := range recordModels {
		m := &recordModels[i]
		if m.Asset == nil {
			// Purchase rows whose asset row is gone cannot be classified.
			continue
		}
		pos, ok := index[m.AssetID]
		if !ok {
			a := m.Asset
			holdings = append(holdings, valuation.AssetHolding{
				AssetID:    a.ID,
				AssetName:  a.Name,
				CategoryID: a.CategoryID,
				AssetType:  a.AssetType,
				Status:     a.Status,
			})
			pos = len(holdings) - 1
			index[m.AssetID] = pos
		}
		holdings[pos].Purchases = append(holdings[pos].Purchases, *m.ToDomain())
	}
	return holdings, nil
}

// Ensure GormAssetPopulation implements AssetPopulation
var _ valuation.AssetPopulation = (*GormAssetPopulation)(nil)
