package handler

import (
	"net/http"
	"testing"

	"github.com/assetreg/backend/internal/application/identity"
	domainidentity "github.com/assetreg/backend/internal/domain/identity"
	"github.com/assetreg/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupPasswordResetRouter(svc PasswordResetService) *gin.Engine {
	r := newTestRouter(uuid.Nil, "")
	h := NewPasswordResetHandler(svc)
	r.POST("/auth/forgot-password", h.ForgotPassword)
	r.POST("/auth/validate-otp", h.ValidateOTP)
	r.POST("/auth/reset-password", h.ResetPassword)
	return r
}

func TestPasswordResetHandler_ForgotPassword(t *testing.T) {
	t.Run("always answers with the same message", func(t *testing.T) {
		svc := new(MockPasswordResetService)
		svc.On("RequestReset", mock.Anything, "jane@example.com").Return(nil)

		w := doRequest(setupPasswordResetRouter(svc), http.MethodPost, "/auth/forgot-password", ForgotPasswordRequest{Email: "jane@example.com"})

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Contains(t, data["message"], "If the email is registered")
		svc.AssertExpectations(t)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := new(MockPasswordResetService)
		w := doRequest(setupPasswordResetRouter(svc), http.MethodPost, "/auth/forgot-password", ForgotPasswordRequest{Email: "nope"})
		assertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
		svc.AssertNotCalled(t, "RequestReset", mock.Anything, mock.Anything)
	})
}

func TestPasswordResetHandler_ValidateOTP(t *testing.T) {
	t.Run("valid code", func(t *testing.T) {
		svc := new(MockPasswordResetService)
		svc.On("ValidateCode", mock.Anything, "jane@example.com", "123456").Return(nil)

		w := doRequest(setupPasswordResetRouter(svc), http.MethodPost, "/auth/validate-otp",
			ValidateResetCodeRequest{Email: "jane@example.com", Code: "123456"})

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("wrong code", func(t *testing.T) {
		svc := new(MockPasswordResetService)
		svc.On("ValidateCode", mock.Anything, "jane@example.com", "654321").Return(domainidentity.ErrResetCodeInvalid)

		w := doRequest(setupPasswordResetRouter(svc), http.MethodPost, "/auth/validate-otp",
			ValidateResetCodeRequest{Email: "jane@example.com", Code: "654321"})

		assertErrorCode(t, w, http.StatusBadRequest, dto.CodeInvalidResetCode)
	})

	t.Run("code must be six digits", func(t *testing.T) {
		svc := new(MockPasswordResetService)
		w := doRequest(setupPasswordResetRouter(svc), http.MethodPost, "/auth/validate-otp",
			ValidateResetCodeRequest{Email: "jane@example.com", Code: "12ab"})
		assertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})
}

func TestPasswordResetHandler_ResetPassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockPasswordResetService)
		svc.On("ResetPassword", mock.Anything, identity.ResetPasswordInput{
			Email:       "jane@example.com",
			Code:        "123456",
			NewPassword: "brandnew99",
		}).Return(nil)

		w := doRequest(setupPasswordResetRouter(svc), http.MethodPost, "/auth/reset-password", CompleteResetRequest{
			Email:       "jane@example.com",
			Code:        "123456",
			NewPassword: "brandnew99",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("expired code", func(t *testing.T) {
		svc := new(MockPasswordResetService)
		svc.On("ResetPassword", mock.Anything, mock.Anything).Return(domainidentity.ErrResetCodeInvalid)

		w := doRequest(setupPasswordResetRouter(svc), http.MethodPost, "/auth/reset-password", CompleteResetRequest{
			Email:       "jane@example.com",
			Code:        "123456",
			NewPassword: "brandnew99",
		})

		assertErrorCode(t, w, http.StatusBadRequest, dto.CodeInvalidResetCode)
	})

	t.Run("short password", func(t *testing.T) {
		svc := new(MockPasswordResetService)
		w := doRequest(setupPasswordResetRouter(svc), http.MethodPost, "/auth/reset-password", CompleteResetRequest{
			Email:       "jane@example.com",
			Code:        "123456",
			NewPassword: "short",
		})
		assertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
		svc.AssertNotCalled(t, "ResetPassword", mock.Anything, mock.Anything)
	})
}
