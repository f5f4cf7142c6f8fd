package handler

import (
	"context"

	assetapp "github.com/assetreg/backend/internal/application/asset"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CategoryService is the category use case the handler depends on
type CategoryService interface {
	Create(ctx context.Context, req assetapp.CreateCategoryRequest) (*assetapp.CategoryResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*assetapp.CategoryResponse, error)
	List(ctx context.Context, filter shared.Filter) ([]assetapp.CategoryResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req assetapp.UpdateCategoryRequest) (*assetapp.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID, force bool) error
}

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CategoryListQuery is the list query of categories
type CategoryListQuery struct {
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by" binding:"max=50"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Create godoc
// @Summary      Create category
// @Description  Category names are unique ignoring case
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body assetapp.CreateCategoryRequest true "Category"
// @Success      201 {object} dto.Response{data=assetapp.CategoryResponse}
// @Failure      409 {object} dto.Response
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req assetapp.CreateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, category)
}

// GetByID returns one category
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// List returns a page of categories
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Name contains"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]assetapp.CategoryResponse}
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	var query CategoryListQuery
	if !h.bindQuery(c, &query) {
		return
	}
	normalizePage(&query.Page, &query.PageSize)

	categories, total, err := h.categoryService.List(c.Request.Context(), shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
		Search:   query.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, categories, total, query.Page, query.PageSize)
}

// Update renames a category
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req assetapp.UpdateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, category)
}

// Delete removes a category. A category still used by assets is only
// removed with ?force=true.
// @Summary      Delete category
// @Tags         categories
// @Security     BearerAuth
// @Param        id path string true "Category ID"
// @Param        force query bool false "Delete even if assets use it"
// @Success      204
// @Failure      422 {object} dto.Response
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), id, queryBool(c, "force")); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
