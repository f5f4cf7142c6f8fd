package valuation

import (
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeDepreciationRate is the aggregate type of rate events
const AggregateTypeDepreciationRate = "DepreciationRate"

// Rate event types
const (
	EventTypeRateCreated = "DepreciationRateCreated"
	EventTypeRateUpdated = "DepreciationRateUpdated"
	EventTypeRateDeleted = "DepreciationRateDeleted"
)

// RateChangedEvent is raised whenever the rate schedule of a category changes
type RateChangedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"category_id"`
	AssetType  string    `json:"asset_type,omitempty"`
}

// NewRateChangedEvent creates a rate event of the given type
func NewRateChangedEvent(eventType string, r *DepreciationRate) *RateChangedEvent {
	return &RateChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeDepreciationRate, r.ID),
		CategoryID:      r.CategoryID,
		AssetType:       r.AssetType,
	}
}
