package asset

import (
	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeAsset    = "Asset"
	AggregateTypePurchase = "PurchaseRecord"
)

// Event type constants
const (
	EventTypeAssetCreated       = "AssetCreated"
	EventTypeAssetRecategorized = "AssetRecategorized"
	EventTypeAssetAssigned      = "AssetAssigned"
	EventTypeAssetReturned      = "AssetReturned"
	EventTypeAssetStolen        = "AssetStolen"
	EventTypeAssetDisposed      = "AssetDisposed"
	EventTypePurchaseRecorded   = "PurchaseRecorded"
)

// AssetCreatedEvent is raised when a new asset enters the register
type AssetCreatedEvent struct {
	shared.BaseDomainEvent
	Name       string    `json:"name"`
	CategoryID uuid.UUID `json:"category_id"`
	AssetType  string    `json:"asset_type,omitempty"`
}

// NewAssetCreatedEvent creates a new AssetCreatedEvent
func NewAssetCreatedEvent(a *Asset) *AssetCreatedEvent {
	return &AssetCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAssetCreated, AggregateTypeAsset, a.ID),
		Name:            a.Name,
		CategoryID:      a.CategoryID,
		AssetType:       a.AssetType,
	}
}

// AssetRecategorizedEvent is raised when an asset moves to another category or
// asset type, which changes the rate schedule its purchases are valued against
type AssetRecategorizedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"category_id"`
	AssetType  string    `json:"asset_type,omitempty"`
}

// NewAssetRecategorizedEvent creates a new AssetRecategorizedEvent
func NewAssetRecategorizedEvent(a *Asset) *AssetRecategorizedEvent {
	return &AssetRecategorizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAssetRecategorized, AggregateTypeAsset, a.ID),
		CategoryID:      a.CategoryID,
		AssetType:       a.AssetType,
	}
}

// AssetAssignedEvent is raised when an asset is handed to a user
type AssetAssignedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewAssetAssignedEvent creates a new AssetAssignedEvent
func NewAssetAssignedEvent(a *Asset, userID uuid.UUID) *AssetAssignedEvent {
	return &AssetAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAssetAssigned, AggregateTypeAsset, a.ID),
		UserID:          userID,
	}
}

// AssetReturnedEvent is raised when an asset comes back from a user
type AssetReturnedEvent struct {
	shared.BaseDomainEvent
	PreviousUserID *uuid.UUID `json:"previous_user_id,omitempty"`
}

// NewAssetReturnedEvent creates a new AssetReturnedEvent
func NewAssetReturnedEvent(a *Asset, previous *uuid.UUID) *AssetReturnedEvent {
	return &AssetReturnedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAssetReturned, AggregateTypeAsset, a.ID),
		PreviousUserID:  previous,
	}
}

// AssetFrozenEvent is raised when an asset becomes stolen or disposed and its
// valuation stops decaying
type AssetFrozenEvent struct {
	shared.BaseDomainEvent
	Status Status     `json:"status"`
	On     civil.Date `json:"on"`
}

// NewAssetFrozenEvent creates a stolen or disposed event
func NewAssetFrozenEvent(eventType string, a *Asset, on civil.Date) *AssetFrozenEvent {
	return &AssetFrozenEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeAsset, a.ID),
		Status:          a.Status,
		On:              on,
	}
}

// PurchaseRecordedEvent is raised when an acquisition is recorded for an asset
type PurchaseRecordedEvent struct {
	shared.BaseDomainEvent
	AssetID       uuid.UUID  `json:"asset_id"`
	InvoiceNumber string     `json:"invoice_number"`
	PurchaseDate  civil.Date `json:"purchase_date"`
}

// NewPurchaseRecordedEvent creates a new PurchaseRecordedEvent
func NewPurchaseRecordedEvent(p *PurchaseRecord) *PurchaseRecordedEvent {
	return &PurchaseRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseRecorded, AggregateTypePurchase, p.ID),
		AssetID:         p.AssetID,
		InvoiceNumber:   p.InvoiceNumber,
		PurchaseDate:    p.PurchaseDate,
	}
}
