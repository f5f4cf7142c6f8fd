package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByIDs finds users by ID, silently skipping unknown ids
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll returns users with pagination
	FindAll(ctx context.Context, filter UserFilter) ([]User, int64, error)

	// FindAdmins returns every active administrator
	FindAdmins(ctx context.Context) ([]User, error)

	// ExistsByEmail checks if an email already exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// Count returns the total number of users
	Count(ctx context.Context) (int64, error)
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	// Search keyword for email or name
	Keyword string

	// Filter by role
	Role *Role

	// Filter by active flag
	Active *bool

	Page     int
	PageSize int
}
