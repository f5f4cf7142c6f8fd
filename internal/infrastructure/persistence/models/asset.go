package models

import (
	"time"

	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryModel is the persistence model for the asset Category.
type CategoryModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category.
func (m *CategoryModel) ToDomain() *asset.Category {
	return &asset.Category{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
	}
}

// FromDomain populates the persistence model from a domain Category.
func (m *CategoryModel) FromDomain(c *asset.Category) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Description = c.Description
}

// AssetModel is the persistence model for the Asset aggregate.
type AssetModel struct {
	AggregateModel
	Name             string       `gorm:"type:varchar(200);not null"`
	Description      string       `gorm:"type:text"`
	CategoryID       uuid.UUID    `gorm:"type:uuid;not null;index"`
	AssetType        string       `gorm:"type:varchar(100);index"`
	Status           asset.Status `gorm:"type:varchar(20);not null;default:'AVAILABLE';index"`
	AssignedTo       *uuid.UUID   `gorm:"type:uuid;index"`
	ImageKey         string       `gorm:"type:varchar(500)"`
	StolenOn         *time.Time   `gorm:"type:date"`
	StolenReportedBy string       `gorm:"type:varchar(200)"`
	StolenNotes      string       `gorm:"type:text"`
	DisposedOn       *time.Time   `gorm:"type:date"`
	DisposalNotes    string       `gorm:"type:text"`
	LastModifiedBy   *uuid.UUID   `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (AssetModel) TableName() string {
	return "assets"
}

// ToDomain converts the persistence model to a domain Asset.
func (m *AssetModel) ToDomain() *asset.Asset {
	return &asset.Asset{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		CategoryID:        m.CategoryID,
		AssetType:         m.AssetType,
		Status:            m.Status,
		AssignedTo:        m.AssignedTo,
		ImageKey:          m.ImageKey,
		StolenOn:          TimePtrToDate(m.StolenOn),
		StolenReportedBy:  m.StolenReportedBy,
		StolenNotes:       m.StolenNotes,
		DisposedOn:        TimePtrToDate(m.DisposedOn),
		DisposalNotes:     m.DisposalNotes,
		LastModifiedBy:    m.LastModifiedBy,
	}
}

// FromDomain populates the persistence model from a domain Asset.
func (m *AssetModel) FromDomain(a *asset.Asset) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Name = a.Name
	m.Description = a.Description
	m.CategoryID = a.CategoryID
	m.AssetType = a.AssetType
	m.Status = a.Status
	m.AssignedTo = a.AssignedTo
	m.ImageKey = a.ImageKey
	m.StolenOn = DatePtrToTime(a.StolenOn)
	m.StolenReportedBy = a.StolenReportedBy
	m.StolenNotes = a.StolenNotes
	m.DisposedOn = DatePtrToTime(a.DisposedOn)
	m.DisposalNotes = a.DisposalNotes
	m.LastModifiedBy = a.LastModifiedBy
}

// PurchaseRecordModel is the persistence model for a PurchaseRecord.
// Category and asset type are read through the Asset association.
type PurchaseRecordModel struct {
	AggregateModel
	AssetID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	Asset           *AssetModel         `gorm:"foreignKey:AssetID"`
	PurchasePrice   decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	PurchaseDate    time.Time           `gorm:"type:date;not null;index"`
	VendorName      string              `gorm:"type:varchar(200)"`
	InvoiceNumber   string              `gorm:"type:varchar(100);not null;uniqueIndex"`
	Quantity        int                 `gorm:"not null;default:1"`
	WarrantyMonths  int                 `gorm:"not null;default:0"`
	ExpiryDate      *time.Time          `gorm:"type:date;index"`
	Notify          bool                `gorm:"not null;default:false"`
	Description     string              `gorm:"type:text"`
	BillKey         string              `gorm:"type:varchar(500)"`
	LastChangedBy   *uuid.UUID          `gorm:"type:uuid"`
	StolenValue     decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	StolenValueOn   *time.Time          `gorm:"type:date"`
	DisposedValue   decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	DisposedValueOn *time.Time          `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (PurchaseRecordModel) TableName() string {
	return "purchase_records"
}

// ToDomain converts the persistence model to a domain PurchaseRecord.
// CategoryID and AssetType are filled when the Asset association is loaded.
func (m *PurchaseRecordModel) ToDomain() *asset.PurchaseRecord {
	p := &asset.PurchaseRecord{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		AssetID:           m.AssetID,
		PurchasePrice:     m.PurchasePrice,
		PurchaseDate:      TimeToDate(m.PurchaseDate),
		VendorName:        m.VendorName,
		InvoiceNumber:     m.InvoiceNumber,
		Quantity:          m.Quantity,
		WarrantyMonths:    m.WarrantyMonths,
		ExpiryDate:        TimePtrToDate(m.ExpiryDate),
		Notify:            m.Notify,
		Description:       m.Description,
		BillKey:           m.BillKey,
		LastChangedBy:     m.LastChangedBy,
		StolenSnapshot:    toSnapshot(m.StolenValue, m.StolenValueOn),
		DisposedSnapshot:  toSnapshot(m.DisposedValue, m.DisposedValueOn),
	}
	if m.Asset != nil {
		p.CategoryID = m.Asset.CategoryID
		p.AssetType = m.Asset.AssetType
	}
	return p
}

// FromDomain populates the persistence model from a domain PurchaseRecord.
func (m *PurchaseRecordModel) FromDomain(p *asset.PurchaseRecord) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.AssetID = p.AssetID
	m.PurchasePrice = p.PurchasePrice
	m.PurchaseDate = DateToTime(p.PurchaseDate)
	m.VendorName = p.VendorName
	m.InvoiceNumber = p.InvoiceNumber
	m.Quantity = p.Quantity
	m.WarrantyMonths = p.WarrantyMonths
	m.ExpiryDate = DatePtrToTime(p.ExpiryDate)
	m.Notify = p.Notify
	m.Description = p.Description
	m.BillKey = p.BillKey
	m.LastChangedBy = p.LastChangedBy
	m.StolenValue, m.StolenValueOn = fromSnapshot(p.StolenSnapshot)
	m.DisposedValue, m.DisposedValueOn = fromSnapshot(p.DisposedSnapshot)
}

func toSnapshot(value decimal.NullDecimal, on *time.Time) *asset.ValueSnapshot {
	if !value.Valid || on == nil {
		return nil
	}
	return &asset.ValueSnapshot{Value: value.Decimal, TakenOn: TimeToDate(*on)}
}

func fromSnapshot(s *asset.ValueSnapshot) (decimal.NullDecimal, *time.Time) {
	if s == nil {
		return decimal.NullDecimal{}, nil
	}
	on := DateToTime(s.TakenOn)
	return decimal.NewNullDecimal(s.Value), &on
}

// AssignmentModel is the persistence model for an assignment history row.
type AssignmentModel struct {
	ID        uuid.UUID              `gorm:"type:uuid;primary_key"`
	AssetID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	Action    asset.AssignmentAction `gorm:"type:varchar(20);not null"`
	ActedBy   *uuid.UUID             `gorm:"type:uuid"`
	Notes     string                 `gorm:"type:text"`
	CreatedAt time.Time              `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AssignmentModel) TableName() string {
	return "asset_assignments"
}

// ToDomain converts the persistence model to a domain AssignmentRecord.
func (m *AssignmentModel) ToDomain() *asset.AssignmentRecord {
	return &asset.AssignmentRecord{
		ID:        m.ID,
		AssetID:   m.AssetID,
		UserID:    m.UserID,
		Action:    m.Action,
		ActedBy:   m.ActedBy,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain AssignmentRecord.
func (m *AssignmentModel) FromDomain(r *asset.AssignmentRecord) {
	m.ID = r.ID
	m.AssetID = r.AssetID
	m.UserID = r.UserID
	m.Action = r.Action
	m.ActedBy = r.ActedBy
	m.Notes = r.Notes
	m.CreatedAt = r.CreatedAt
}
