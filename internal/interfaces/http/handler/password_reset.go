package handler

import (
	"context"

	"github.com/assetreg/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// PasswordResetService is the forgot-password use case the handler depends on
type PasswordResetService interface {
	RequestReset(ctx context.Context, email string) error
	ValidateCode(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, input identity.ResetPasswordInput) error
}

// PasswordResetHandler serves the public forgot-password endpoints
type PasswordResetHandler struct {
	BaseHandler
	resetService PasswordResetService
}

// NewPasswordResetHandler creates a new PasswordResetHandler
func NewPasswordResetHandler(resetService PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{resetService: resetService}
}

// ForgotPassword godoc
// @Summary      Request a reset code
// @Description  Mails a six digit code when the email belongs to an active account. The response is the same either way.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ForgotPasswordRequest true "Account email"
// @Success      200 {object} dto.Response{data=MessageResponse}
// @Router       /auth/forgot-password [post]
func (h *PasswordResetHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.resetService.RequestReset(c.Request.Context(), req.Email); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageResponse{Message: "If the email is registered, a reset code has been sent"})
}

// ValidateOTP godoc
// @Summary      Check a reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ValidateResetCodeRequest true "Email and code"
// @Success      200 {object} dto.Response{data=MessageResponse}
// @Failure      400 {object} dto.Response
// @Router       /auth/validate-otp [post]
func (h *PasswordResetHandler) ValidateOTP(c *gin.Context) {
	var req ValidateResetCodeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.resetService.ValidateCode(c.Request.Context(), req.Email, req.Code); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageResponse{Message: "Reset code is valid"})
}

// ResetPassword godoc
// @Summary      Reset password with a code
// @Description  Sets a new password, uses the code up and signs the user out everywhere
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body CompleteResetRequest true "Email, code and new password"
// @Success      200 {object} dto.Response{data=MessageResponse}
// @Failure      400 {object} dto.Response
// @Router       /auth/reset-password [post]
func (h *PasswordResetHandler) ResetPassword(c *gin.Context) {
	var req CompleteResetRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.resetService.ResetPassword(c.Request.Context(), identity.ResetPasswordInput{
		Email:       req.Email,
		Code:        req.Code,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageResponse{Message: "Password has been reset"})
}
