package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/proshop/user-service/internal/apperrors"
	"github.com/proshop/user-service/internal/models"
)

// AdminUserRepository is the interface that wraps the user data access
// methods needed by the admin service.
type AdminUserRepository interface {
	// GetByID retrieves a user by ID, without the password hash.
	// A missing user is reported as apperrors.ErrNotFound.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// GetAll retrieves all users, without password hashes.
	GetAll(ctx context.Context) ([]models.User, error)
	// ExistsByEmail checks if a user exists with the given email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Update updates name, email, and the admin flag; empty strings and a
	// nil isAdmin keep the current values.
	Update(ctx context.Context, userID int, name, email string, isAdmin *bool) error
	// Delete removes a user by ID. A missing user is reported as
	// apperrors.ErrNotFound.
	Delete(ctx context.Context, userID int) error
}

// adminService implements user management for admin callers
type adminService struct {
	userRepo AdminUserRepository
	logger   *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo AdminUserRepository, logger *zap.Logger) *adminService {
	return &adminService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetUsersList retrieves all users without password hashes
func (s *adminService) GetUsersList(ctx context.Context) ([]models.UserResponse, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]models.UserResponse, len(users))
	for i := range users {
		list[i] = *models.NewUserResponse(&users[i])
	}

	return list, nil
}

// GetUser retrieves a user by ID
func (s *adminService) GetUser(ctx context.Context, userID int) (*models.UserResponse, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: invalid user id", apperrors.ErrInvalidData)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return models.NewUserResponse(user), nil
}

// UpdateUser applies the provided fields to a user. Name and email are
// replaced only when present and non-empty. The admin flag is replaced only
// when the field was present in the request; an omitted isAdmin never
// demotes anyone.
func (s *adminService) UpdateUser(ctx context.Context, userID int, req *models.UpdateUserRequest) (*models.UserResponse, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: invalid user id", apperrors.ErrInvalidData)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	normalizedName := strings.TrimSpace(req.Name)
	normalizedEmail := strings.TrimSpace(strings.ToLower(req.Email))

	if normalizedEmail == user.Email {
		normalizedEmail = ""
	}

	if normalizedEmail != "" {
		if !emailRegex.MatchString(normalizedEmail) {
			return nil, fmt.Errorf("%w: invalid email format", apperrors.ErrInvalidData)
		}
		exists, err := s.userRepo.ExistsByEmail(ctx, normalizedEmail)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.ErrEmailExists
		}
	}

	if err := s.userRepo.Update(ctx, userID, normalizedName, normalizedEmail, req.IsAdmin); err != nil {
		return nil, err
	}

	if normalizedName != "" {
		user.Name = normalizedName
	}
	if normalizedEmail != "" {
		user.Email = normalizedEmail
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}

	return models.NewUserResponse(user), nil
}

// DeleteUser deletes a user by ID
func (s *adminService) DeleteUser(ctx context.Context, userID int) error {
	if userID <= 0 {
		return fmt.Errorf("%w: invalid user id", apperrors.ErrInvalidData)
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("user deleted", zap.Int("userID", userID))
	return nil
}
