package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/assetreg/backend/internal/domain/identity"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PasswordResetNotification carries a reset code to the mail relay
type PasswordResetNotification struct {
	CodeID    uuid.UUID `json:"code_id"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
}

// PasswordResetNotifier delivers reset codes
type PasswordResetNotifier interface {
	PublishPasswordReset(ctx context.Context, n PasswordResetNotification) error
}

// PasswordResetSettings tunes the forgot-password flow
type PasswordResetSettings struct {
	CodeTTL     time.Duration
	MaxAttempts int
	// SessionTTL is how long existing tokens stay revoked after a reset
	SessionTTL time.Duration
}

// ResetPasswordInput completes a forgot-password request
type ResetPasswordInput struct {
	Email       string
	Code        string
	NewPassword string
}

// PasswordResetService runs the forgot-password flow: a six digit code is
// mailed to the user, checked, and exchanged for a new password
type PasswordResetService struct {
	userRepo  identity.UserRepository
	resetRepo identity.PasswordResetRepository
	notifier  PasswordResetNotifier
	blacklist auth.TokenBlacklist
	settings  PasswordResetSettings
	now       func() time.Time
	logger    *zap.Logger
}

// NewPasswordResetService creates a new PasswordResetService
func NewPasswordResetService(
	userRepo identity.UserRepository,
	resetRepo identity.PasswordResetRepository,
	notifier PasswordResetNotifier,
	blacklist auth.TokenBlacklist,
	settings PasswordResetSettings,
	logger *zap.Logger,
) *PasswordResetService {
	return &PasswordResetService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		notifier:  notifier,
		blacklist: blacklist,
		settings:  settings,
		now:       time.Now,
		logger:    logger.Named("password_reset"),
	}
}

// RequestReset mails a fresh code to the user. Unknown and deactivated
// accounts get the same silent success so callers cannot enumerate emails.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("Password reset requested for unknown email", zap.String("email", email))
			return nil
		}
		s.logger.Error("Failed to find user for password reset", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to request password reset")
	}
	if !user.CanLogin() {
		s.logger.Warn("Password reset requested for deactivated account", zap.String("user_id", user.ID.String()))
		return nil
	}

	code, plain, err := identity.NewPasswordResetCode(user, s.settings.CodeTTL, s.now())
	if err != nil {
		s.logger.Error("Failed to issue reset code", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to request password reset")
	}
	if err := s.resetRepo.Save(ctx, code); err != nil {
		s.logger.Error("Failed to store reset code", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to request password reset")
	}

	minutes := int(s.settings.CodeTTL.Round(time.Minute) / time.Minute)
	err = s.notifier.PublishPasswordReset(ctx, PasswordResetNotification{
		CodeID:    code.ID,
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Code:      plain,
		ExpiresAt: code.ExpiresAt,
		Subject:   "Password reset code",
		Body:      fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.", plain, minutes),
	})
	if err != nil {
		s.logger.Error("Failed to publish reset code",
			zap.String("code_id", code.ID.String()), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to send reset code")
	}

	s.logger.Info("Password reset code issued",
		zap.String("user_id", user.ID.String()),
		zap.String("code_id", code.ID.String()))
	return nil
}

// ValidateCode checks a code without using it up
func (s *PasswordResetService) ValidateCode(ctx context.Context, email, code string) error {
	_, resetCode, err := s.verify(ctx, email, code)
	if err != nil {
		return err
	}
	s.logger.Info("Password reset code validated", zap.String("code_id", resetCode.ID.String()))
	return nil
}

// ResetPassword sets a new password for the holder of a valid code, uses the
// code up and signs the user out everywhere
func (s *PasswordResetService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	user, resetCode, err := s.verify(ctx, input.Email, input.Code)
	if err != nil {
		return err
	}
	if err := user.SetPassword(input.NewPassword); err != nil {
		return err
	}

	resetCode.Consume(s.now())
	if err := s.resetRepo.Save(ctx, resetCode); err != nil {
		s.logger.Error("Failed to consume reset code", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save reset password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	if s.blacklist != nil {
		if err := s.blacklist.RevokeUser(ctx, user.ID.String(), s.settings.SessionTTL); err != nil {
			s.logger.Error("Failed to revoke tokens after password reset",
				zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}

	s.logger.Info("Password reset with code", zap.String("user_id", user.ID.String()))
	return nil
}

// PurgeExpired deletes codes that expired before now
func (s *PasswordResetService) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := s.resetRepo.DeleteExpiredBefore(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired reset codes: %w", err)
	}
	return deleted, nil
}

// verify loads the user's latest code and checks it. Failed attempts are
// persisted so the attempt limit holds across requests.
func (s *PasswordResetService) verify(ctx context.Context, email, code string) (*identity.User, *identity.PasswordResetCode, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, identity.ErrResetCodeInvalid
		}
		s.logger.Error("Failed to find user for reset code", zap.Error(err))
		return nil, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check reset code")
	}
	if !user.CanLogin() {
		return nil, nil, identity.ErrResetCodeInvalid
	}

	resetCode, err := s.resetRepo.FindLatest(ctx, user.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, identity.ErrResetCodeInvalid
		}
		s.logger.Error("Failed to load reset code", zap.Error(err))
		return nil, nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check reset code")
	}

	attempts := resetCode.Attempts
	if err := resetCode.Verify(code, s.now(), s.settings.MaxAttempts); err != nil {
		if resetCode.Attempts != attempts {
			if saveErr := s.resetRepo.Save(ctx, resetCode); saveErr != nil {
				s.logger.Error("Failed to record reset code attempt", zap.Error(saveErr))
			}
		}
		s.logger.Warn("Invalid reset code presented",
			zap.String("user_id", user.ID.String()),
			zap.Int("attempts", resetCode.Attempts))
		return nil, nil, err
	}
	return user, resetCode, nil
}
