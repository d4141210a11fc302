package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/proshop/user-service/internal/apperrors"
	"github.com/proshop/user-service/internal/auth"
	"github.com/proshop/user-service/internal/models"
)

// ProfileUserRepository is the interface that wraps the user data access
// methods needed by the profile service.
type ProfileUserRepository interface {
	// GetByID retrieves a user by ID, without the password hash.
	// A missing user is reported as apperrors.ErrNotFound.
	GetByID(ctx context.Context, userID int) (*models.User, error)
	// ExistsByEmail checks if a user exists with the given email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Update updates name and email; empty values keep the current ones.
	Update(ctx context.Context, userID int, name, email string, isAdmin *bool) error
	// UpdatePasswordHash stores a new password hash for a user.
	UpdatePasswordHash(ctx context.Context, userID int, passwordHash string) error
}

// profileService implements profile self-service for the authenticated user
type profileService struct {
	userRepo       ProfileUserRepository
	tokenGenerator *auth.TokenGenerator
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo ProfileUserRepository, tokenGenerator *auth.TokenGenerator) *profileService {
	return &profileService{
		userRepo:       userRepo,
		tokenGenerator: tokenGenerator,
	}
}

// GetProfile retrieves the caller's own profile
func (s *profileService) GetProfile(ctx context.Context, userID int) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return models.NewUserResponse(user), nil
}

// UpdateProfile applies the provided fields to the caller's own record and
// returns the updated fields with a freshly issued token. Name and email are
// replaced only when present and non-empty; the password is replaced only
// when supplied, and is hashed here, never in the store.
func (s *profileService) UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	normalizedName := strings.TrimSpace(req.Name)
	normalizedEmail := strings.TrimSpace(strings.ToLower(req.Email))

	// Re-submitting the current email is a no-op, not a uniqueness conflict
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

	if normalizedName != "" || normalizedEmail != "" {
		if err := s.userRepo.Update(ctx, userID, normalizedName, normalizedEmail, nil); err != nil {
			return nil, err
		}
	}

	if req.Password != "" {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.userRepo.UpdatePasswordHash(ctx, userID, string(passwordHash)); err != nil {
			return nil, err
		}
	}

	if normalizedName != "" {
		user.Name = normalizedName
	}
	if normalizedEmail != "" {
		user.Email = normalizedEmail
	}

	token, err := s.tokenGenerator.Generate(userID)
	if err != nil {
		return nil, err
	}

	return models.NewAuthResponse(user, token), nil
}
