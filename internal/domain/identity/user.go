package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/assetreg/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is the access level of a user
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// IsValid returns true if the role is known
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Password cost for bcrypt
const bcryptCost = 12

var (
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	hasLetterRegex = regexp.MustCompile(`[a-zA-Z]`)
	hasNumberRegex = regexp.MustCompile(`[0-9]`)
)

// User is a person who can hold assets and sign in to the register
type User struct {
	shared.BaseAggregateRoot
	Email        string
	Name         string
	Mobile       string
	PasswordHash string
	Role         Role
	Active       bool
	LastLoginAt  *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(email, name, password string, role Role) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Name cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown role")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		Name:              strings.TrimSpace(name),
		PasswordHash:      passwordHash,
		Role:              role,
		Active:            true,
	}
	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// Update changes the user's profile fields
func (u *User) Update(name, mobile string, role Role) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Name cannot be empty")
	}
	if len(mobile) > 20 {
		return shared.NewDomainError("INVALID_INPUT", "Mobile cannot exceed 20 characters")
	}
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown role")
	}

	u.Name = strings.TrimSpace(name)
	u.Mobile = strings.TrimSpace(mobile)
	u.Role = role
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// ChangePassword changes the user's password
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password (admin reset, no old password check)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// Deactivate prevents the user from signing in
func (u *User) Deactivate() error {
	if !u.Active {
		return shared.NewDomainError("INVALID_STATE", "User is already inactive")
	}
	u.Active = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	u.AddDomainEvent(NewUserDeactivatedEvent(u))
	return nil
}

// Activate re-enables sign in
func (u *User) Activate() error {
	if u.Active {
		return shared.NewDomainError("INVALID_STATE", "User is already active")
	}
	u.Active = true
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// RecordLogin stamps the last successful sign in
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

// IsAdmin reports whether the user administers the register
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanLogin reports whether the user may sign in
func (u *User) CanLogin() bool {
	return u.Active
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}

	if !hasLetterRegex.MatchString(password) || !hasNumberRegex.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
