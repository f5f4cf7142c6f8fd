package handler

import (
	"context"

	"cloud.google.com/go/civil"
	appval "github.com/assetreg/backend/internal/application/valuation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RateService is the depreciation rate use case the handler depends on
type RateService interface {
	Create(ctx context.Context, req appval.RateRequest) (*appval.RateWriteResponse, error)
	Update(ctx context.Context, id uuid.UUID, req appval.RateRequest) (*appval.RateWriteResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*appval.RateResponse, error)
	List(ctx context.Context, filter appval.RateListFilter) ([]appval.RateResponse, int64, error)
	ForCategoryAndFinancialYear(ctx context.Context, categoryID uuid.UUID, label string) ([]appval.RateResponse, error)
	Resolve(ctx context.Context, categoryID uuid.UUID, assetType string, date civil.Date) (*appval.RateResolutionResponse, error)
}

// DepreciationRateHandler handles depreciation rate endpoints
type DepreciationRateHandler struct {
	BaseHandler
	rateService RateService
	today       appval.Clock
}

// NewDepreciationRateHandler creates a new DepreciationRateHandler. today
// supplies the default date of a resolution.
func NewDepreciationRateHandler(rateService RateService, today appval.Clock) *DepreciationRateHandler {
	return &DepreciationRateHandler{rateService: rateService, today: today}
}

// RateListQuery is the list query of depreciation rates
type RateListQuery struct {
	AssetType     *string `form:"asset_type" binding:"omitempty,max=100"`
	FinancialYear string  `form:"financial_year" binding:"omitempty,financial_year"`
	Page          int     `form:"page"`
	PageSize      int     `form:"page_size"`
}

// Create godoc
// @Summary      Create depreciation rate
// @Description  Overlapping windows for the same category and asset type are accepted and reported in conflicts
// @Tags         depreciation-rates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body appval.RateRequest true "Rate"
// @Success      201 {object} dto.Response{data=appval.RateWriteResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /depreciation-rates [post]
func (h *DepreciationRateHandler) Create(c *gin.Context) {
	var req appval.RateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.rateService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Update replaces a rate
func (h *DepreciationRateHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req appval.RateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.rateService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes a rate
func (h *DepreciationRateHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.rateService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetByID returns one rate
func (h *DepreciationRateHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	rate, err := h.rateService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rate)
}

// List returns a page of rates
// @Summary      List depreciation rates
// @Tags         depreciation-rates
// @Produce      json
// @Security     BearerAuth
// @Param        category_id query string false "Category ID"
// @Param        asset_type query string false "Asset type, empty for the category default"
// @Param        financial_year query string false "Financial year label, e.g. 2023-24"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]appval.RateResponse}
// @Router       /depreciation-rates [get]
func (h *DepreciationRateHandler) List(c *gin.Context) {
	var query RateListQuery
	if !h.bindQuery(c, &query) {
		return
	}
	categoryID, ok := h.optionalUUIDQuery(c, "category_id")
	if !ok {
		return
	}
	normalizePage(&query.Page, &query.PageSize)

	rates, total, err := h.rateService.List(c.Request.Context(), appval.RateListFilter{
		CategoryID:    categoryID,
		AssetType:     query.AssetType,
		FinancialYear: query.FinancialYear,
		Page:          query.Page,
		PageSize:      query.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, rates, total, query.Page, query.PageSize)
}

// ForCategoryAndFinancialYear returns the rates of a category labelled with a financial year
// @Summary      Rates of a category for a financial year
// @Tags         depreciation-rates
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Category ID"
// @Param        label path string true "Financial year label"
// @Success      200 {object} dto.Response{data=[]appval.RateResponse}
// @Router       /categories/{id}/depreciation-rates/{label} [get]
func (h *DepreciationRateHandler) ForCategoryAndFinancialYear(c *gin.Context) {
	categoryID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	rates, err := h.rateService.ForCategoryAndFinancialYear(c.Request.Context(), categoryID, c.Param("label"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rates)
}

// Resolve returns the rate in force for a category on a date. The date
// defaults to today.
// @Summary      Resolve depreciation rate
// @Tags         depreciation-rates
// @Produce      json
// @Security     BearerAuth
// @Param        category_id query string true "Category ID"
// @Param        date query string false "YYYY-MM-DD"
// @Param        asset_type query string false "Asset type"
// @Success      200 {object} dto.Response{data=appval.RateResolutionResponse}
// @Router       /depreciation-rates/resolve [get]
func (h *DepreciationRateHandler) Resolve(c *gin.Context) {
	categoryID, ok := h.optionalUUIDQuery(c, "category_id")
	if !ok {
		return
	}
	if categoryID == nil {
		h.BadRequest(c, "category_id is required")
		return
	}
	date, ok := h.optionalDateQuery(c, "date")
	if !ok {
		return
	}
	on := h.today()
	if date != nil {
		on = *date
	}

	resolution, err := h.rateService.Resolve(c.Request.Context(), *categoryID, c.Query("asset_type"), on)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resolution)
}
