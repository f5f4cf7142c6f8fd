package asset

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Asset is an item of organizational property tracked by the register
type Asset struct {
	shared.BaseAggregateRoot
	Name             string
	Description      string
	CategoryID       uuid.UUID
	AssetType        string
	Status           Status
	AssignedTo       *uuid.UUID
	ImageKey         string
	StolenOn         *civil.Date
	StolenReportedBy string
	StolenNotes      string
	DisposedOn       *civil.Date
	DisposalNotes    string
	LastModifiedBy   *uuid.UUID
}

// NewAsset creates a new available asset
func NewAsset(name, description string, categoryID uuid.UUID, assetType string) (*Asset, error) {
	if err := validateAssetName(name); err != nil {
		return nil, err
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Asset category is required")
	}

	a := &Asset{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Description:       description,
		CategoryID:        categoryID,
		AssetType:         strings.TrimSpace(assetType),
		Status:            StatusAvailable,
	}
	a.AddDomainEvent(NewAssetCreatedEvent(a))
	return a, nil
}

// Update changes the descriptive fields and category of the asset
func (a *Asset) Update(name, description string, categoryID uuid.UUID, assetType string, by *uuid.UUID) error {
	if err := validateAssetName(name); err != nil {
		return err
	}
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Asset category is required")
	}
	categoryChanged := a.CategoryID != categoryID || a.AssetType != strings.TrimSpace(assetType)

	a.Name = strings.TrimSpace(name)
	a.Description = description
	a.CategoryID = categoryID
	a.AssetType = strings.TrimSpace(assetType)
	a.LastModifiedBy = by
	a.touch()

	if categoryChanged {
		a.AddDomainEvent(NewAssetRecategorizedEvent(a))
	}
	return nil
}

// AssignTo hands the asset to a user
func (a *Asset) AssignTo(userID uuid.UUID, by *uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "User is required for assignment")
	}
	if a.Status.IsTerminal() || a.Status == StatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Only available or assigned assets can be assigned")
	}

	a.AssignedTo = &userID
	a.Status = StatusAssigned
	a.LastModifiedBy = by
	a.touch()
	a.AddDomainEvent(NewAssetAssignedEvent(a, userID))
	return nil
}

// Return releases the asset from its current user and reports who held it
func (a *Asset) Return(by *uuid.UUID) (*uuid.UUID, error) {
	if a.Status != StatusAssigned {
		return nil, shared.NewDomainError("INVALID_STATE", "Asset is not assigned")
	}

	previous := a.AssignedTo
	a.AssignedTo = nil
	a.Status = StatusAvailable
	a.LastModifiedBy = by
	a.touch()
	a.AddDomainEvent(NewAssetReturnedEvent(a, previous))
	return previous, nil
}

// Deactivate takes the asset out of circulation
func (a *Asset) Deactivate(by *uuid.UUID) error {
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Stolen or disposed assets cannot be deactivated")
	}
	if a.Status == StatusAssigned {
		return shared.NewDomainError("INVALID_STATE", "Return the asset before deactivating it")
	}
	a.Status = StatusInactive
	a.LastModifiedBy = by
	a.touch()
	return nil
}

// Activate puts an inactive asset back into circulation
func (a *Asset) Activate(by *uuid.UUID) error {
	if a.Status != StatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Only inactive assets can be activated")
	}
	a.Status = StatusAvailable
	a.LastModifiedBy = by
	a.touch()
	return nil
}

// MarkStolen moves the asset to the terminal STOLEN state.
// The caller is responsible for writing the value snapshot on the asset's
// purchase records in the same transaction.
func (a *Asset) MarkStolen(on civil.Date, reportedBy, notes string, by *uuid.UUID) error {
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Asset is already "+strings.ToLower(a.Status.String()))
	}
	if !on.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Stolen date is invalid")
	}

	a.StolenOn = &on
	a.StolenReportedBy = reportedBy
	a.StolenNotes = notes
	a.AssignedTo = nil
	a.Status = StatusStolen
	a.LastModifiedBy = by
	a.touch()
	a.AddDomainEvent(NewAssetFrozenEvent(EventTypeAssetStolen, a, on))
	return nil
}

// MarkDisposed moves the asset to the terminal DISPOSED state
func (a *Asset) MarkDisposed(on civil.Date, notes string, by *uuid.UUID) error {
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Asset is already "+strings.ToLower(a.Status.String()))
	}
	if !on.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Disposal date is invalid")
	}

	a.DisposedOn = &on
	a.DisposalNotes = notes
	a.AssignedTo = nil
	a.Status = StatusDisposed
	a.LastModifiedBy = by
	a.touch()
	a.AddDomainEvent(NewAssetFrozenEvent(EventTypeAssetDisposed, a, on))
	return nil
}

// SetImage records the object storage key of the asset's picture
func (a *Asset) SetImage(key string) {
	a.ImageKey = key
	a.touch()
}

func (a *Asset) touch() {
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

func validateAssetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Asset name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_INPUT", "Asset name cannot exceed 200 characters")
	}
	return nil
}
