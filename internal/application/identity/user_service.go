package identity

import (
	"context"
	"errors"

	"github.com/assetreg/backend/internal/domain/identity"
	"github.com/assetreg/backend/internal/domain/shared"
	"github.com/assetreg/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles user management operations
type UserService struct {
	userRepo   identity.UserRepository
	blacklist  auth.TokenBlacklist
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	blacklist auth.TokenBlacklist,
	jwtService *auth.JWTService,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		blacklist:  blacklist,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Create creates a new user
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	s.logger.Info("Creating new user", zap.String("email", req.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_EXISTS", "Email already exists")
	}

	role := identity.Role(req.Role)
	if role == "" {
		role = identity.RoleUser
	}
	user, err := identity.NewUser(req.Email, req.Name, req.Password, role)
	if err != nil {
		return nil, err
	}
	if req.Mobile != "" {
		if err := user.Update(user.Name, req.Mobile, user.Role); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	s.logger.Info("User created successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	dto := toUserDTO(user)
	return &dto, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(user)
	return &dto, nil
}

// List retrieves a paginated list of users
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserDTO, int64, error) {
	domainFilter := identity.UserFilter{
		Keyword:  filter.Keyword,
		Active:   filter.Active,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.Role != "" {
		role := identity.Role(filter.Role)
		if !role.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Unknown role "+filter.Role)
		}
		domainFilter.Role = &role
	}

	users, total, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = toUserDTO(&users[i])
	}
	return dtos, total, nil
}

// Update changes a user's profile and role
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Update(req.Name, req.Mobile, identity.Role(req.Role)); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	s.logger.Info("User updated", zap.String("user_id", id.String()))
	dto := toUserDTO(user)
	return &dto, nil
}

// Activate re-enables sign in for a user
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Activate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to activate user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to activate user")
	}

	s.logger.Info("User activated", zap.String("user_id", id.String()))
	dto := toUserDTO(user)
	return &dto, nil
}

// Deactivate blocks sign in for a user and revokes the tokens already issued
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID, actorID uuid.UUID) (*UserDTO, error) {
	if id == actorID {
		return nil, shared.NewDomainError("INVALID_STATE", "You cannot deactivate your own account")
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to deactivate user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to deactivate user")
	}

	if s.blacklist != nil {
		if err := s.blacklist.RevokeUser(ctx, id.String(), s.jwtService.GetSessionLifetime()); err != nil {
			s.logger.Error("Failed to revoke tokens of deactivated user",
				zap.String("user_id", id.String()), zap.Error(err))
		}
	}

	s.logger.Info("User deactivated", zap.String("user_id", id.String()))
	dto := toUserDTO(user)
	return &dto, nil
}

// ResetPassword sets a new password without checking the old one
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to reset password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to reset password")
	}

	s.logger.Info("User password reset", zap.String("user_id", id.String()))
	return nil
}

func (s *UserService) find(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		s.logger.Error("Failed to find user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find user")
	}
	return user, nil
}
