package handler

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,max=128"`
}

// RefreshTokenRequest carries a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally names a refresh token to revoke with the session
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ForgotPasswordRequest asks for a reset code by email
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email,max=200"`
}

// ValidateResetCodeRequest checks a reset code
type ValidateResetCodeRequest struct {
	Email string `json:"email" binding:"required,email,max=200"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// CompleteResetRequest sets a new password with a reset code
type CompleteResetRequest struct {
	Email       string `json:"email" binding:"required,email,max=200"`
	Code        string `json:"code" binding:"required,len=6,numeric"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// ChangePasswordRequest represents the request body for password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// ResetPasswordRequest represents an administrator setting a user's password
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// MessageResponse carries a human-readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}
