package asset

import (
	"time"

	"cloud.google.com/go/civil"
	appval "github.com/assetreg/backend/internal/application/valuation"
	"github.com/assetreg/backend/internal/domain/asset"
	"github.com/assetreg/backend/internal/domain/valuation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=1000"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=1000"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a domain category
func ToCategoryResponse(c *asset.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateAssetRequest represents a request to register an asset
type CreateAssetRequest struct {
	Name        string    `json:"name" binding:"required,min=1,max=200"`
	Description string    `json:"description" binding:"max=2000"`
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	AssetType   string    `json:"asset_type" binding:"max=100"`
	ImageKey    string    `json:"image_key" binding:"max=500"`
}

// UpdateAssetRequest represents a request to update an asset
type UpdateAssetRequest struct {
	Name        string    `json:"name" binding:"required,min=1,max=200"`
	Description string    `json:"description" binding:"max=2000"`
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	AssetType   string    `json:"asset_type" binding:"max=100"`
	ImageKey    *string   `json:"image_key" binding:"omitempty,max=500"`
}

// AssignAssetRequest represents a request to hand an asset to a user
type AssignAssetRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Notes  string    `json:"notes" binding:"max=1000"`
}

// ReturnAssetRequest represents a request to take an asset back
type ReturnAssetRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}

// MarkStolenRequest represents a stolen report
type MarkStolenRequest struct {
	On         civil.Date `json:"on" binding:"required"`
	ReportedBy string     `json:"reported_by" binding:"max=200"`
	Notes      string     `json:"notes" binding:"max=2000"`
}

// MarkDisposedRequest represents a disposal
type MarkDisposedRequest struct {
	On    civil.Date `json:"on" binding:"required"`
	Notes string     `json:"notes" binding:"max=2000"`
}

// AssetListFilter holds the list query of assets
type AssetListFilter struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	Status     string     `form:"status"`
	AssetType  string     `form:"asset_type"`
	AssignedTo *uuid.UUID `form:"assigned_to"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// AssetResponse represents an asset in API responses
type AssetResponse struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	CategoryID       uuid.UUID   `json:"category_id"`
	AssetType        string      `json:"asset_type"`
	Status           string      `json:"status"`
	AssignedTo       *uuid.UUID  `json:"assigned_to,omitempty"`
	ImageKey         string      `json:"image_key,omitempty"`
	StolenOn         *civil.Date `json:"stolen_on,omitempty"`
	StolenReportedBy string      `json:"stolen_reported_by,omitempty"`
	StolenNotes      string      `json:"stolen_notes,omitempty"`
	DisposedOn       *civil.Date `json:"disposed_on,omitempty"`
	DisposalNotes    string      `json:"disposal_notes,omitempty"`
	LastModifiedBy   *uuid.UUID  `json:"last_modified_by,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
	Version          int         `json:"version"`
}

// ToAssetResponse converts a domain asset
func ToAssetResponse(a *asset.Asset) AssetResponse {
	return AssetResponse{
		ID:               a.ID,
		Name:             a.Name,
		Description:      a.Description,
		CategoryID:       a.CategoryID,
		AssetType:        a.AssetType,
		Status:           a.Status.String(),
		AssignedTo:       a.AssignedTo,
		ImageKey:         a.ImageKey,
		StolenOn:         a.StolenOn,
		StolenReportedBy: a.StolenReportedBy,
		StolenNotes:      a.StolenNotes,
		DisposedOn:       a.DisposedOn,
		DisposalNotes:    a.DisposalNotes,
		LastModifiedBy:   a.LastModifiedBy,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
		Version:          a.GetVersion(),
	}
}

// AssignmentResponse is one row of an asset's assignment history
type AssignmentResponse struct {
	ID        uuid.UUID  `json:"id"`
	AssetID   uuid.UUID  `json:"asset_id"`
	UserID    uuid.UUID  `json:"user_id"`
	Action    string     `json:"action"`
	ActedBy   *uuid.UUID `json:"acted_by,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToAssignmentResponse converts a history row
func ToAssignmentResponse(r *asset.AssignmentRecord) AssignmentResponse {
	return AssignmentResponse{
		ID:        r.ID,
		AssetID:   r.AssetID,
		UserID:    r.UserID,
		Action:    string(r.Action),
		ActedBy:   r.ActedBy,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
	}
}

// CreatePurchaseRequest represents a request to record a purchase
type CreatePurchaseRequest struct {
	PurchasePrice  decimal.Decimal `json:"purchase_price" binding:"required"`
	PurchaseDate   civil.Date      `json:"purchase_date" binding:"required"`
	VendorName     string          `json:"vendor_name" binding:"max=200"`
	InvoiceNumber  string          `json:"invoice_number" binding:"required,min=1,max=100"`
	Quantity       int             `json:"quantity" binding:"omitempty,min=1"`
	WarrantyMonths int             `json:"warranty_months" binding:"omitempty,min=0,max=600"`
	ExpiryDate     *civil.Date     `json:"expiry_date"`
	Notify         bool            `json:"notify"`
	Description    string          `json:"description" binding:"max=2000"`
}

// PurchaseListFilter holds the list query of purchase records
type PurchaseListFilter struct {
	Search     string     `form:"search"`
	AssetID    *uuid.UUID `form:"asset_id"`
	VendorName string     `form:"vendor_name"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// PurchaseResponse represents a purchase record with its live valuation
type PurchaseResponse struct {
	ID                uuid.UUID        `json:"id"`
	AssetID           uuid.UUID        `json:"asset_id"`
	PurchasePrice     decimal.Decimal  `json:"purchase_price"`
	PurchaseDate      civil.Date       `json:"purchase_date"`
	FinancialYear     string           `json:"financial_year"`
	VendorName        string           `json:"vendor_name"`
	InvoiceNumber     string           `json:"invoice_number"`
	Quantity          int              `json:"quantity"`
	WarrantyMonths    int              `json:"warranty_months"`
	ExpiryDate        *civil.Date      `json:"expiry_date,omitempty"`
	Notify            bool             `json:"notify"`
	Description       string           `json:"description"`
	HasBill           bool             `json:"has_bill"`
	StolenValue       *decimal.Decimal `json:"stolen_value,omitempty"`
	DisposedValue     *decimal.Decimal `json:"disposed_value,omitempty"`
	CurrentValue      decimal.Decimal  `json:"current_value"`
	TotalDepreciation decimal.Decimal  `json:"total_depreciation"`
	ValuationOutcome  string           `json:"valuation_outcome,omitempty"`
	ValuationFallback bool             `json:"valuation_fallback"`
	CreatedAt         time.Time        `json:"created_at"`
}

// ToPurchaseResponse converts a purchase record and its presented valuation
func ToPurchaseResponse(p *asset.PurchaseRecord, v appval.PurchaseValuationResponse) PurchaseResponse {
	resp := PurchaseResponse{
		ID:                p.ID,
		AssetID:           p.AssetID,
		PurchasePrice:     p.PurchasePrice,
		PurchaseDate:      p.PurchaseDate,
		FinancialYear:     valuation.FinancialYearOf(p.PurchaseDate),
		VendorName:        p.VendorName,
		InvoiceNumber:     p.InvoiceNumber,
		Quantity:          p.Quantity,
		WarrantyMonths:    p.WarrantyMonths,
		ExpiryDate:        p.ExpiryDate,
		Notify:            p.Notify,
		Description:       p.Description,
		HasBill:           p.BillKey != "",
		CurrentValue:      v.CurrentValue,
		TotalDepreciation: v.TotalDepreciation,
		ValuationOutcome:  v.Outcome,
		ValuationFallback: v.Fallback,
		CreatedAt:         p.CreatedAt,
	}
	if p.StolenSnapshot != nil {
		val := p.StolenSnapshot.Value
		resp.StolenValue = &val
	}
	if p.DisposedSnapshot != nil {
		val := p.DisposedSnapshot.Value
		resp.DisposedValue = &val
	}
	return resp
}

// BillURLResponse carries a presigned bill URL
type BillURLResponse struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DashboardStats is the register overview shown on the dashboard
type DashboardStats struct {
	TotalAssets              int64            `json:"total_assets"`
	TotalUsers               int64            `json:"total_users"`
	AssignedAssets           int64            `json:"assigned_assets"`
	UnassignedAssets         int64            `json:"unassigned_assets"`
	AssetsByStatus           map[string]int64 `json:"assets_by_status"`
	AssetsByCategory         map[string]int64 `json:"assets_by_category"`
	WarrantiesExpiringSoon   int64            `json:"warranties_expiring_soon"`
	WarrantiesExpired        int64            `json:"warranties_expired"`
	TotalPurchaseValue       decimal.Decimal  `json:"total_purchase_value"`
	TotalLatestPurchaseValue decimal.Decimal  `json:"total_latest_purchase_value"`
}
