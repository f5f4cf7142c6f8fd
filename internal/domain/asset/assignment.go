package asset

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentAction is the kind of change recorded in the assignment history
type AssignmentAction string

const (
	AssignmentActionAssigned AssignmentAction = "ASSIGNED"
	AssignmentActionReturned AssignmentAction = "RETURNED"
)

// AssignmentRecord is one row of an asset's assignment history
type AssignmentRecord struct {
	ID        uuid.UUID
	AssetID   uuid.UUID
	UserID    uuid.UUID
	Action    AssignmentAction
	ActedBy   *uuid.UUID
	Notes     string
	CreatedAt time.Time
}

// NewAssignmentRecord creates a history row stamped with the current time
func NewAssignmentRecord(assetID, userID uuid.UUID, action AssignmentAction, actedBy *uuid.UUID, notes string) *AssignmentRecord {
	return &AssignmentRecord{
		ID:        uuid.New(),
		AssetID:   assetID,
		UserID:    userID,
		Action:    action,
		ActedBy:   actedBy,
		Notes:     notes,
		CreatedAt: time.Now(),
	}
}
