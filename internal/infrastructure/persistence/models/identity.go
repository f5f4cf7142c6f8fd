package models

import (
	"time"

	"github.com/assetreg/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Email        string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	Name         string        `gorm:"type:varchar(200);not null"`
	Mobile       string        `gorm:"type:varchar(20)"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null;default:'USER'"`
	Active       bool          `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		Name:              m.Name,
		Mobile:            m.Mobile,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
		Active:            m.Active,
		LastLoginAt:       m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.Name = u.Name
	m.Mobile = u.Mobile
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.Active = u.Active
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// PasswordResetCodeModel is the persistence model for a password reset code
type PasswordResetCodeModel struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Email     string    `gorm:"type:varchar(200);not null"`
	CodeHash  string    `gorm:"type:varchar(255);not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	Attempts  int       `gorm:"not null;default:0"`
	UsedAt    *time.Time
}

// TableName returns the table name for GORM
func (PasswordResetCodeModel) TableName() string {
	return "password_reset_codes"
}

// ToDomain converts the persistence model to a domain PasswordResetCode
func (m *PasswordResetCodeModel) ToDomain() *identity.PasswordResetCode {
	return &identity.PasswordResetCode{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Email:      m.Email,
		CodeHash:   m.CodeHash,
		ExpiresAt:  m.ExpiresAt,
		Attempts:   m.Attempts,
		UsedAt:     m.UsedAt,
	}
}

// PasswordResetCodeModelFromDomain creates a persistence model from a domain PasswordResetCode
func PasswordResetCodeModelFromDomain(c *identity.PasswordResetCode) *PasswordResetCodeModel {
	m := &PasswordResetCodeModel{
		UserID:    c.UserID,
		Email:     c.Email,
		CodeHash:  c.CodeHash,
		ExpiresAt: c.ExpiresAt,
		Attempts:  c.Attempts,
		UsedAt:    c.UsedAt,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}
