package asset

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValueSnapshot is the live current value of a purchase captured at the
// moment its asset left circulation
type ValueSnapshot struct {
	Value   decimal.Decimal
	TakenOn civil.Date
}

// PurchaseRecord is one acquisition event for an asset.
// It is immutable after creation except for the stolen/disposed snapshot
// write and the attached bill.
type PurchaseRecord struct {
	shared.BaseAggregateRoot
	AssetID       uuid.UUID
	PurchasePrice decimal.Decimal
	PurchaseDate  civil.Date
	VendorName    string
	InvoiceNumber string
	Quantity      int
	// WarrantyMonths is the vendor warranty length, 0 when none
	WarrantyMonths int
	ExpiryDate     *civil.Date
	Notify         bool
	Description    string
	BillKey        string
	LastChangedBy  *uuid.UUID

	StolenSnapshot   *ValueSnapshot
	DisposedSnapshot *ValueSnapshot

	// Populated from the owning asset when loaded, not stored on the record
	CategoryID uuid.UUID
	AssetType  string
}

// NewPurchaseInput holds the fields required to record a purchase
type NewPurchaseInput struct {
	AssetID        uuid.UUID
	PurchasePrice  decimal.Decimal
	PurchaseDate   civil.Date
	VendorName     string
	InvoiceNumber  string
	Quantity       int
	WarrantyMonths int
	ExpiryDate     *civil.Date
	Notify         bool
	Description    string
	CreatedBy      *uuid.UUID
}

// NewPurchaseRecord validates the input and creates a purchase record
func NewPurchaseRecord(in NewPurchaseInput) (*PurchaseRecord, error) {
	if in.AssetID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Asset is required")
	}
	if !in.PurchasePrice.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Purchase price must be positive")
	}
	if !in.PurchaseDate.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Purchase date is invalid")
	}
	invoice := strings.TrimSpace(in.InvoiceNumber)
	if invoice == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invoice number is required")
	}
	if in.WarrantyMonths < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Warranty period cannot be negative")
	}
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Quantity must be at least 1")
	}

	expiry := in.ExpiryDate
	if expiry == nil && in.WarrantyMonths > 0 {
		d := civil.DateOf(in.PurchaseDate.In(time.UTC).AddDate(0, in.WarrantyMonths, 0))
		expiry = &d
	}
	if expiry != nil && expiry.Before(in.PurchaseDate) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Expiry date cannot be before purchase date")
	}

	p := &PurchaseRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AssetID:           in.AssetID,
		PurchasePrice:     in.PurchasePrice,
		PurchaseDate:      in.PurchaseDate,
		VendorName:        strings.TrimSpace(in.VendorName),
		InvoiceNumber:     invoice,
		Quantity:          qty,
		WarrantyMonths:    in.WarrantyMonths,
		ExpiryDate:        expiry,
		Notify:            in.Notify,
		Description:       in.Description,
		LastChangedBy:     in.CreatedBy,
	}
	p.AddDomainEvent(NewPurchaseRecordedEvent(p))
	return p, nil
}

// RecordSnapshot freezes the purchase's value for a terminal asset status.
// A snapshot is written once; later calls fail with INVALID_STATE.
func (p *PurchaseRecord) RecordSnapshot(status Status, value decimal.Decimal, on civil.Date) error {
	snap := &ValueSnapshot{Value: value, TakenOn: on}
	switch status {
	case StatusStolen:
		if p.StolenSnapshot != nil {
			return shared.NewDomainError("INVALID_STATE", "Stolen value snapshot already recorded")
		}
		p.StolenSnapshot = snap
	case StatusDisposed:
		if p.DisposedSnapshot != nil {
			return shared.NewDomainError("INVALID_STATE", "Disposed value snapshot already recorded")
		}
		p.DisposedSnapshot = snap
	default:
		return shared.NewDomainError("INVALID_STATE", "Snapshots are only taken for stolen or disposed assets")
	}
	p.touch()
	return nil
}

// SnapshotFor returns the snapshot matching a terminal status, nil otherwise
func (p *PurchaseRecord) SnapshotFor(status Status) *ValueSnapshot {
	switch status {
	case StatusStolen:
		return p.StolenSnapshot
	case StatusDisposed:
		return p.DisposedSnapshot
	default:
		return nil
	}
}

// AttachBill records the object storage key of the scanned invoice
func (p *PurchaseRecord) AttachBill(key string, by *uuid.UUID) error {
	if strings.TrimSpace(key) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Bill key is required")
	}
	p.BillKey = key
	p.LastChangedBy = by
	p.touch()
	return nil
}

// ExpiresBetween reports whether the warranty expiry falls within [from, to]
func (p *PurchaseRecord) ExpiresBetween(from, to civil.Date) bool {
	if p.ExpiryDate == nil {
		return false
	}
	return !p.ExpiryDate.Before(from) && !p.ExpiryDate.After(to)
}

// IsExpired reports whether the warranty ended before the given day
func (p *PurchaseRecord) IsExpired(today civil.Date) bool {
	return p.ExpiryDate != nil && p.ExpiryDate.Before(today)
}

func (p *PurchaseRecord) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
