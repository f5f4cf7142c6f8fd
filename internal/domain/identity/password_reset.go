package identity

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ResetCodeDigits is the length of a password reset code
const ResetCodeDigits = 6

// ErrResetCodeInvalid covers wrong, expired, used and exhausted codes alike so
// callers cannot tell which one applied
var ErrResetCodeInvalid = shared.NewDomainError("INVALID_RESET_CODE", "Invalid or expired reset code")

// PasswordResetCode is a one-time code mailed to a user who forgot their
// password. Only a bcrypt hash of the code is stored.
type PasswordResetCode struct {
	shared.BaseEntity
	UserID    uuid.UUID
	Email     string
	CodeHash  string
	ExpiresAt time.Time
	Attempts  int
	UsedAt    *time.Time
}

// NewPasswordResetCode issues a code for user valid for ttl. The plain code is
// returned once and never kept.
func NewPasswordResetCode(user *User, ttl time.Duration, now time.Time) (*PasswordResetCode, string, error) {
	if ttl <= 0 {
		return nil, "", shared.NewDomainError("INVALID_INPUT", "Reset code lifetime must be positive")
	}
	code, err := randomDigits(ResetCodeDigits)
	if err != nil {
		return nil, "", fmt.Errorf("generate reset code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash reset code: %w", err)
	}

	return &PasswordResetCode{
		BaseEntity: shared.BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		UserID:     user.ID,
		Email:      user.Email,
		CodeHash:   string(hash),
		ExpiresAt:  now.Add(ttl),
	}, code, nil
}

// IsActive reports whether the code is unused and unexpired at now
func (c *PasswordResetCode) IsActive(now time.Time) bool {
	return c.UsedAt == nil && now.Before(c.ExpiresAt)
}

// Verify checks code without consuming it. A wrong code counts as an attempt;
// once maxAttempts is reached the code stops matching.
func (c *PasswordResetCode) Verify(code string, now time.Time, maxAttempts int) error {
	if !c.IsActive(now) || (maxAttempts > 0 && c.Attempts >= maxAttempts) {
		return ErrResetCodeInvalid
	}
	if bcrypt.CompareHashAndPassword([]byte(c.CodeHash), []byte(code)) != nil {
		c.Attempts++
		c.UpdatedAt = now
		return ErrResetCodeInvalid
	}
	return nil
}

// Consume marks the code used
func (c *PasswordResetCode) Consume(now time.Time) {
	c.UsedAt = &now
	c.UpdatedAt = now
}

// PasswordResetRepository stores password reset codes
type PasswordResetRepository interface {
	Save(ctx context.Context, code *PasswordResetCode) error

	// FindLatest returns the most recently issued code of the user, or
	// shared.ErrNotFound
	FindLatest(ctx context.Context, userID uuid.UUID) (*PasswordResetCode, error)

	// DeleteExpiredBefore removes codes that expired before cutoff
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

func randomDigits(n int) (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < n; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	v, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", n, v), nil
}
