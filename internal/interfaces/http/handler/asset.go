package handler

import (
	"context"

	assetapp "github.com/assetreg/backend/internal/application/asset"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AssetService is the asset register use case the handler depends on
type AssetService interface {
	Create(ctx context.Context, req assetapp.CreateAssetRequest, by *uuid.UUID) (*assetapp.AssetResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*assetapp.AssetResponse, error)
	List(ctx context.Context, filter assetapp.AssetListFilter) ([]assetapp.AssetResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req assetapp.UpdateAssetRequest, by *uuid.UUID) (*assetapp.AssetResponse, error)
	Assign(ctx context.Context, id uuid.UUID, req assetapp.AssignAssetRequest, by *uuid.UUID) (*assetapp.AssetResponse, error)
	Return(ctx context.Context, id uuid.UUID, req assetapp.ReturnAssetRequest, by *uuid.UUID) (*assetapp.AssetResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID, by *uuid.UUID) (*assetapp.AssetResponse, error)
	Activate(ctx context.Context, id uuid.UUID, by *uuid.UUID) (*assetapp.AssetResponse, error)
	MarkStolen(ctx context.Context, id uuid.UUID, req assetapp.MarkStolenRequest, by *uuid.UUID) (*assetapp.AssetResponse, error)
	MarkDisposed(ctx context.Context, id uuid.UUID, req assetapp.MarkDisposedRequest, by *uuid.UUID) (*assetapp.AssetResponse, error)
	History(ctx context.Context, id uuid.UUID) ([]assetapp.AssignmentResponse, error)
}

// ImageURLIssuer signs upload URLs for asset images
type ImageURLIssuer interface {
	ImageUploadURL(ctx context.Context, assetID uuid.UUID, req assetapp.UploadURLRequest) (*assetapp.BillURLResponse, error)
}

// AssetHandler handles asset endpoints
type AssetHandler struct {
	BaseHandler
	assetService AssetService
	images       ImageURLIssuer
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assetService AssetService, images ImageURLIssuer) *AssetHandler {
	return &AssetHandler{assetService: assetService, images: images}
}

// AssetListQuery is the list query of assets
type AssetListQuery struct {
	Search    string `form:"search" binding:"max=100"`
	Status    string `form:"status" binding:"omitempty,oneof=AVAILABLE ASSIGNED INACTIVE STOLEN DISPOSED"`
	AssetType string `form:"asset_type" binding:"max=100"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	OrderBy   string `form:"order_by" binding:"max=50"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Create godoc
// @Summary      Register asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body assetapp.CreateAssetRequest true "Asset"
// @Success      201 {object} dto.Response{data=assetapp.AssetResponse}
// @Failure      404 {object} dto.Response "Category not found"
// @Router       /assets [post]
func (h *AssetHandler) Create(c *gin.Context) {
	var req assetapp.CreateAssetRequest
	if !h.bindJSON(c, &req) {
		return
	}

	a, err := h.assetService.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, a)
}

// GetByID returns one asset
func (h *AssetHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	a, err := h.assetService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, a)
}

// List returns a page of assets
// @Summary      List assets
// @Tags         assets
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Name contains"
// @Param        category_id query string false "Category ID"
// @Param        status query string false "Lifecycle status"
// @Param        assigned_to query string false "Assignee user ID"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]assetapp.AssetResponse}
// @Router       /assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	var query AssetListQuery
	if !h.bindQuery(c, &query) {
		return
	}
	categoryID, ok := h.optionalUUIDQuery(c, "category_id")
	if !ok {
		return
	}
	assignedTo, ok := h.optionalUUIDQuery(c, "assigned_to")
	if !ok {
		return
	}
	normalizePage(&query.Page, &query.PageSize)

	assets, total, err := h.assetService.List(c.Request.Context(), assetapp.AssetListFilter{
		Search:     query.Search,
		CategoryID: categoryID,
		Status:     query.Status,
		AssetType:  query.AssetType,
		AssignedTo: assignedTo,
		Page:       query.Page,
		PageSize:   query.PageSize,
		OrderBy:    query.OrderBy,
		OrderDir:   query.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, assets, total, query.Page, query.PageSize)
}

// Update changes an asset's descriptive fields
func (h *AssetHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req assetapp.UpdateAssetRequest
	if !h.bindJSON(c, &req) {
		return
	}

	a, err := h.assetService.Update(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, a)
}

// Assign hands an asset to a user
// @Summary      Assign asset
// @Description  Assigning an already assigned asset records a return for the previous holder first
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Asset ID"
// @Param        request body assetapp.AssignAssetRequest true "Assignee"
// @Success      200 {object} dto.Response{data=assetapp.AssetResponse}
// @Failure      422 {object} dto.Response
// @Router       /assets/{id}/assign [post]
func (h *AssetHandler) Assign(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req assetapp.AssignAssetRequest
	if !h.bindJSON(c, &req) {
		return
	}

	a, err := h.assetService.Assign(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, a)
}

// Return takes an asset back from its holder
func (h *AssetHandler) Return(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req assetapp.ReturnAssetRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	a, err := h.assetService.Return(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, a)
}

// Deactivate takes an asset out of circulation
func (h *AssetHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.assetService.Deactivate)
}

// Activate puts an inactive asset back into circulation
func (h *AssetHandler) Activate(c *gin.Context) {
	h.transition(c, h.assetService.Activate)
}

func (h *AssetHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID, *uuid.UUID) (*assetapp.AssetResponse, error)) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	a, err := fn(c.Request.Context(), id, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, a)
}

// MarkStolen records a theft. The live value of every purchase record as of
// the theft date is frozen on the record.
// @Summary      Mark asset stolen
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Asset ID"
// @Param        request body assetapp.MarkStolenRequest true "Theft details"
// @Success      200 {object} dto.Response{data=assetapp.AssetResponse}
// @Router       /assets/{id}/stolen [post]
func (h *AssetHandler) MarkStolen(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req assetapp.MarkStolenRequest
	if !h.bindJSON(c, &req) {
		return
	}

	a, err := h.assetService.MarkStolen(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, a)
}

// MarkDisposed records a disposal and freezes the purchase record values
func (h *AssetHandler) MarkDisposed(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req assetapp.MarkDisposedRequest
	if !h.bindJSON(c, &req) {
		return
	}

	a, err := h.assetService.MarkDisposed(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, a)
}

// History returns the assignment history of an asset, newest first
func (h *AssetHandler) History(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	history, err := h.assetService.History(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, history)
}

// ImageUploadURL signs a URL the client uploads the asset image to
// @Summary      Asset image upload URL
// @Tags         assets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Asset ID"
// @Param        request body assetapp.UploadURLRequest true "File"
// @Success      200 {object} dto.Response{data=assetapp.BillURLResponse}
// @Router       /assets/{id}/image-upload-url [post]
func (h *AssetHandler) ImageUploadURL(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req assetapp.UploadURLRequest
	if !h.bindJSON(c, &req) {
		return
	}

	url, err := h.images.ImageUploadURL(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, url)
}
