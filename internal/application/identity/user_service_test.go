package identity

import (
	"context"
	"testing"
	"time"

	"github.com/assetreg/backend/internal/domain/identity"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to the user role", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("ExistsByEmail", ctx, "new@example.com").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
		svc := NewUserService(repo, nil, newTestJWTService(), zap.NewNop())

		dto, err := svc.Create(ctx, CreateUserRequest{
			Email:    "new@example.com",
			Name:     "New Person",
			Mobile:   "+91 98765 43210",
			Password: testPassword,
		})
		require.NoError(t, err)
		assert.Equal(t, "USER", dto.Role)
		assert.Equal(t, "+91 98765 43210", dto.Mobile)
		assert.True(t, dto.Active)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("ExistsByEmail", ctx, "dup@example.com").Return(true, nil)
		svc := NewUserService(repo, nil, newTestJWTService(), zap.NewNop())

		_, err := svc.Create(ctx, CreateUserRequest{Email: "dup@example.com", Name: "Dup", Password: testPassword})
		requireCode(t, err, "EMAIL_EXISTS")
	})

	t.Run("weak password", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("ExistsByEmail", ctx, "weak@example.com").Return(false, nil)
		svc := NewUserService(repo, nil, newTestJWTService(), zap.NewNop())

		_, err := svc.Create(ctx, CreateUserRequest{Email: "weak@example.com", Name: "Weak", Password: "abcdefgh"})
		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	active := true

	t.Run("maps the filter", func(t *testing.T) {
		admin := identity.RoleAdmin
		repo := new(MockUserRepository)
		repo.On("FindAll", ctx, identity.UserFilter{Keyword: "ja", Role: &admin, Active: &active, Page: 1, PageSize: 20}).
			Return([]identity.User{*newTestUser(t, identity.RoleAdmin)}, int64(1), nil)
		svc := NewUserService(repo, nil, newTestJWTService(), zap.NewNop())

		users, total, err := svc.List(ctx, UserListFilter{Keyword: "ja", Role: "ADMIN", Active: &active, Page: 1, PageSize: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, users, 1)
	})

	t.Run("unknown role", func(t *testing.T) {
		svc := NewUserService(new(MockUserRepository), nil, newTestJWTService(), zap.NewNop())
		_, _, err := svc.List(ctx, UserListFilter{Role: "ROOT"})
		requireCode(t, err, "INVALID_INPUT")
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, identity.RoleUser)
	repo := new(MockUserRepository)
	repo.On("FindByID", ctx, user.ID).Return(user, nil)
	repo.On("Save", ctx, user).Return(nil)
	svc := NewUserService(repo, nil, newTestJWTService(), zap.NewNop())

	dto, err := svc.Update(ctx, user.ID, UpdateUserRequest{Name: "Jane Doe", Mobile: "123", Role: "ADMIN"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", dto.Name)
	assert.Equal(t, "ADMIN", dto.Role)
}

func TestUserService_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes issued tokens", func(t *testing.T) {
		user := newTestUser(t, identity.RoleUser)
		blacklist := auth.NewInMemoryTokenBlacklist()
		repo := new(MockUserRepository)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)
		svc := NewUserService(repo, blacklist, newTestJWTService(), zap.NewNop())

		issuedAt := time.Now().Add(-time.Minute)
		dto, err := svc.Deactivate(ctx, user.ID, uuid.New())
		require.NoError(t, err)
		assert.False(t, dto.Active)

		revoked, err := blacklist.IsUserRevoked(ctx, user.ID.String(), issuedAt)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("cannot deactivate yourself", func(t *testing.T) {
		id := uuid.New()
		svc := NewUserService(new(MockUserRepository), nil, newTestJWTService(), zap.NewNop())
		_, err := svc.Deactivate(ctx, id, id)
		requireCode(t, err, "INVALID_STATE")
	})

	t.Run("already inactive", func(t *testing.T) {
		user := newTestUser(t, identity.RoleUser)
		require.NoError(t, user.Deactivate())
		repo := new(MockUserRepository)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		svc := NewUserService(repo, nil, newTestJWTService(), zap.NewNop())

		_, err := svc.Deactivate(ctx, user.ID, uuid.New())
		requireCode(t, err, "INVALID_STATE")
	})
}

func TestUserService_Activate(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, identity.RoleUser)
	require.NoError(t, user.Deactivate())
	repo := new(MockUserRepository)
	repo.On("FindByID", ctx, user.ID).Return(user, nil)
	repo.On("Save", ctx, user).Return(nil)
	svc := NewUserService(repo, nil, newTestJWTService(), zap.NewNop())

	dto, err := svc.Activate(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, dto.Active)
}

func TestUserService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("sets the new password", func(t *testing.T) {
		user := newTestUser(t, identity.RoleUser)
		repo := new(MockUserRepository)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)
		svc := NewUserService(repo, nil, newTestJWTService(), zap.NewNop())

		require.NoError(t, svc.ResetPassword(ctx, user.ID, "resetpass9"))
		assert.True(t, user.VerifyPassword("resetpass9"))
	})

	t.Run("unknown user", func(t *testing.T) {
		id := uuid.New()
		repo := new(MockUserRepository)
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)
		svc := NewUserService(repo, nil, newTestJWTService(), zap.NewNop())

		requireCode(t, svc.ResetPassword(ctx, id, "resetpass9"), "USER_NOT_FOUND")
	})
}
