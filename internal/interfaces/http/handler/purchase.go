package handler

import (
	"context"

	assetapp "github.com/assetreg/backend/internal/application/asset"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PurchaseService is the purchase record use case the handler depends on
type PurchaseService interface {
	Create(ctx context.Context, assetID uuid.UUID, req assetapp.CreatePurchaseRequest, by *uuid.UUID) (*assetapp.PurchaseResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*assetapp.PurchaseResponse, error)
	ListByAsset(ctx context.Context, assetID uuid.UUID) ([]assetapp.PurchaseResponse, error)
	List(ctx context.Context, filter assetapp.PurchaseListFilter) ([]assetapp.PurchaseResponse, int64, error)
	BillUploadURL(ctx context.Context, id uuid.UUID, req assetapp.UploadURLRequest, by *uuid.UUID) (*assetapp.BillURLResponse, error)
	BillDownloadURL(ctx context.Context, id uuid.UUID) (*assetapp.BillURLResponse, error)
	ImageUploadURL(ctx context.Context, assetID uuid.UUID, req assetapp.UploadURLRequest) (*assetapp.BillURLResponse, error)
}

// PurchaseHandler handles purchase record endpoints
type PurchaseHandler struct {
	BaseHandler
	purchaseService PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// PurchaseListQuery is the list query of purchase records
type PurchaseListQuery struct {
	Search     string `form:"search" binding:"max=100"`
	VendorName string `form:"vendor_name" binding:"max=200"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	OrderBy    string `form:"order_by" binding:"max=50"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Create godoc
// @Summary      Record purchase
// @Description  Invoice numbers are unique across the register
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Asset ID"
// @Param        request body assetapp.CreatePurchaseRequest true "Purchase"
// @Success      201 {object} dto.Response{data=assetapp.PurchaseResponse}
// @Failure      409 {object} dto.Response
// @Router       /assets/{id}/purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	assetID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req assetapp.CreatePurchaseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	record, err := h.purchaseService.Create(c.Request.Context(), assetID, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, record)
}

// GetByID returns one purchase record with its live valuation
func (h *PurchaseHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.purchaseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// ListByAsset returns every purchase record of an asset
func (h *PurchaseHandler) ListByAsset(c *gin.Context) {
	assetID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	records, err := h.purchaseService.ListByAsset(c.Request.Context(), assetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// List returns a page of purchase records
// @Summary      List purchase records
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Invoice or vendor contains"
// @Param        asset_id query string false "Asset ID"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]assetapp.PurchaseResponse}
// @Router       /purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	var query PurchaseListQuery
	if !h.bindQuery(c, &query) {
		return
	}
	assetID, ok := h.optionalUUIDQuery(c, "asset_id")
	if !ok {
		return
	}
	normalizePage(&query.Page, &query.PageSize)

	records, total, err := h.purchaseService.List(c.Request.Context(), assetapp.PurchaseListFilter{
		Search:     query.Search,
		AssetID:    assetID,
		VendorName: query.VendorName,
		Page:       query.Page,
		PageSize:   query.PageSize,
		OrderBy:    query.OrderBy,
		OrderDir:   query.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, records, total, query.Page, query.PageSize)
}

// BillUploadURL signs a URL the client uploads the bill to and records its key
// @Summary      Bill upload URL
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Purchase ID"
// @Param        request body assetapp.UploadURLRequest true "File"
// @Success      200 {object} dto.Response{data=assetapp.BillURLResponse}
// @Failure      502 {object} dto.Response
// @Router       /purchases/{id}/bill-upload-url [post]
func (h *PurchaseHandler) BillUploadURL(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req assetapp.UploadURLRequest
	if !h.bindJSON(c, &req) {
		return
	}

	url, err := h.purchaseService.BillUploadURL(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, url)
}

// BillDownloadURL signs a URL to fetch the bill
func (h *PurchaseHandler) BillDownloadURL(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	url, err := h.purchaseService.BillDownloadURL(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, url)
}
