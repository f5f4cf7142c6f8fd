package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/assetreg/backend/internal/domain/identity"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/infrastructure/auth"
	"github.com/assetreg/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) FindAdmins(ctx context.Context) ([]identity.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

const testPassword = "s3cretpass"

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        3,
	})
}

func newTestUser(t *testing.T, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser("jane@example.com", "Jane", testPassword, role)
	require.NoError(t, err)
	user.ClearDomainEvents()
	return user
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, identity.RoleAdmin)
	jwtService := newTestJWTService()

	t.Run("issues a token carrying the role", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)
		svc := NewAuthService(repo, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())

		result, err := svc.Login(ctx, LoginInput{Email: "  Jane@Example.com ", Password: testPassword})
		require.NoError(t, err)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, "ADMIN", result.User.Role)
		assert.NotNil(t, user.LastLoginAt)

		claims, err := jwtService.ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.True(t, claims.IsAdmin())
		assert.Equal(t, user.ID.String(), claims.UserID)

		refresh, err := jwtService.ValidateRefreshToken(result.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), refresh.UserID)
		assert.True(t, result.RefreshExpiresAt.After(result.ExpiresAt))
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)
		svc := NewAuthService(repo, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())

		_, err := svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "nope12345"})
		requireCode(t, err, "INVALID_CREDENTIALS")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)
		svc := NewAuthService(repo, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())

		_, err := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: testPassword})
		requireCode(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("deactivated account", func(t *testing.T) {
		inactive := newTestUser(t, identity.RoleUser)
		require.NoError(t, inactive.Deactivate())
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "jane@example.com").Return(inactive, nil)
		svc := NewAuthService(repo, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())

		_, err := svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: testPassword})
		requireCode(t, err, "ACCOUNT_DEACTIVATED")
	})

	t.Run("save failure does not fail the login", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", ctx, "jane@example.com").Return(user, nil)
		repo.On("Save", ctx, user).Return(errors.New("db down"))
		svc := NewAuthService(repo, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())

		_, err := svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: testPassword})
		assert.NoError(t, err)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := NewAuthService(new(MockUserRepository), newTestJWTService(), blacklist, zap.NewNop())

	require.NoError(t, svc.Logout(ctx, LogoutInput{UserID: uuid.New(), TokenJTI: "jti-1", TTL: time.Minute}))

	revoked, err := blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// An already expired token needs no entry.
	require.NoError(t, svc.Logout(ctx, LogoutInput{UserID: uuid.New(), TokenJTI: "jti-2"}))
	revoked, err = blacklist.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestAuthService_LogoutRevokesRefreshToken(t *testing.T) {
	ctx := context.Background()
	jwtService := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := NewAuthService(new(MockUserRepository), jwtService, blacklist, zap.NewNop())
	userID := uuid.New()

	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{UserID: userID, Email: "jane@example.com", Role: "USER"})
	require.NoError(t, err)
	refresh, err := jwtService.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	// A refresh token of another user is ignored
	require.NoError(t, svc.Logout(ctx, LogoutInput{UserID: uuid.New(), RefreshToken: pair.RefreshToken}))
	revoked, err := blacklist.IsRevoked(ctx, refresh.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.Logout(ctx, LogoutInput{UserID: userID, RefreshToken: pair.RefreshToken}))
	revoked, err = blacklist.IsRevoked(ctx, refresh.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	jwtService := newTestJWTService()

	login := func(t *testing.T, user *identity.User) string {
		t.Helper()
		pair, err := jwtService.GenerateTokenPair(tokenInput(user))
		require.NoError(t, err)
		return pair.RefreshToken
	}

	t.Run("rotates the pair with the current role", func(t *testing.T) {
		user := newTestUser(t, identity.RoleAdmin)
		refreshToken := login(t, user)
		require.NoError(t, user.Update("Jane", "", identity.RoleUser))
		repo := new(MockUserRepository)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		blacklist := auth.NewInMemoryTokenBlacklist()
		svc := NewAuthService(repo, jwtService, blacklist, zap.NewNop())

		result, err := svc.Refresh(ctx, refreshToken)
		require.NoError(t, err)
		assert.Equal(t, "Bearer", result.TokenType)

		access, err := jwtService.ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.False(t, access.IsAdmin())

		next, err := jwtService.ValidateRefreshToken(result.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 1, next.RefreshCount)

		_, err = svc.Refresh(ctx, refreshToken)
		requireCode(t, err, "TOKEN_REVOKED")
	})

	t.Run("access token is rejected", func(t *testing.T) {
		user := newTestUser(t, identity.RoleUser)
		access, err := jwtService.GenerateAccessToken(tokenInput(user))
		require.NoError(t, err)
		svc := NewAuthService(new(MockUserRepository), jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())

		_, err = svc.Refresh(ctx, access.Token)
		requireCode(t, err, "TOKEN_INVALID")
	})

	t.Run("revoked user", func(t *testing.T) {
		user := newTestUser(t, identity.RoleUser)
		refreshToken := login(t, user)
		blacklist := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, blacklist.RevokeUser(ctx, user.ID.String(), time.Hour))
		svc := NewAuthService(new(MockUserRepository), jwtService, blacklist, zap.NewNop())

		_, err := svc.Refresh(ctx, refreshToken)
		requireCode(t, err, "TOKEN_REVOKED")
	})

	t.Run("deactivated account", func(t *testing.T) {
		user := newTestUser(t, identity.RoleUser)
		refreshToken := login(t, user)
		require.NoError(t, user.Deactivate())
		repo := new(MockUserRepository)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		svc := NewAuthService(repo, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())

		_, err := svc.Refresh(ctx, refreshToken)
		requireCode(t, err, "ACCOUNT_DEACTIVATED")
	})

	t.Run("refresh limit ends the session", func(t *testing.T) {
		user := newTestUser(t, identity.RoleUser)
		limited := auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-at-least-32-chars",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			MaxRefreshCount:        1,
		})
		pair, err := limited.GenerateTokenPair(tokenInput(user))
		require.NoError(t, err)
		repo := new(MockUserRepository)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		svc := NewAuthService(repo, limited, auth.NewInMemoryTokenBlacklist(), zap.NewNop())

		first, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		_, err = svc.Refresh(ctx, first.RefreshToken)
		requireCode(t, err, "TOKEN_EXPIRED")
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("changes password", func(t *testing.T) {
		user := newTestUser(t, identity.RoleUser)
		repo := new(MockUserRepository)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Save", ctx, user).Return(nil)
		svc := NewAuthService(repo, newTestJWTService(), nil, zap.NewNop())

		err := svc.ChangePassword(ctx, ChangePasswordInput{UserID: user.ID, OldPassword: testPassword, NewPassword: "newpass123"})
		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("newpass123"))
	})

	t.Run("wrong current password", func(t *testing.T) {
		user := newTestUser(t, identity.RoleUser)
		repo := new(MockUserRepository)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		svc := NewAuthService(repo, newTestJWTService(), nil, zap.NewNop())

		err := svc.ChangePassword(ctx, ChangePasswordInput{UserID: user.ID, OldPassword: "wrong-pass1", NewPassword: "newpass123"})
		requireCode(t, err, "INVALID_PASSWORD")
	})
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, identity.RoleUser)
	repo := new(MockUserRepository)
	repo.On("FindByID", ctx, user.ID).Return(user, nil)
	repo.On("FindByID", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
	svc := NewAuthService(repo, newTestJWTService(), nil, zap.NewNop())

	dto, err := svc.GetCurrentUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", dto.Email)

	_, err = svc.GetCurrentUser(ctx, uuid.New())
	requireCode(t, err, "USER_NOT_FOUND")
}
