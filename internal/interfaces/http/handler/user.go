package handler

import (
	"context"

	"github.com/assetreg/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserService is the user administration use case the handler depends on
type UserService interface {
	Create(ctx context.Context, req identity.CreateUserRequest) (*identity.UserDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*identity.UserDTO, error)
	List(ctx context.Context, filter identity.UserListFilter) ([]identity.UserDTO, int64, error)
	Update(ctx context.Context, id uuid.UUID, req identity.UpdateUserRequest) (*identity.UserDTO, error)
	Activate(ctx context.Context, id uuid.UUID) (*identity.UserDTO, error)
	Deactivate(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*identity.UserDTO, error)
	ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) error
}

// UserHandler handles user administration endpoints. Every route is admin-only.
type UserHandler struct {
	BaseHandler
	userService UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create godoc
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body identity.CreateUserRequest true "User"
// @Success      201 {object} dto.Response{data=identity.UserDTO}
// @Failure      409 {object} dto.Response
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req identity.CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// GetByID returns one user
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// List returns a page of users
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Name or email contains"
// @Param        role query string false "ADMIN or USER"
// @Param        active query bool false "Active flag"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]identity.UserDTO}
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter identity.UserListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	users, total, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, users, total, filter.Page, filter.PageSize)
}

// Update changes a user's profile and role
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req identity.UpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Activate re-enables a user
func (h *UserHandler) Activate(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Deactivate disables a user and revokes their tokens
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.userService.Deactivate(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// ResetPassword sets a new password for a user
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req ResetPasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), id, req.NewPassword); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageResponse{Message: "Password reset successfully"})
}
