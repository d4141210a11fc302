package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/proshop/user-service/internal/apperrors"
	"github.com/proshop/user-service/internal/auth"
	"github.com/proshop/user-service/internal/models"
)

// AuthUserRepository is the interface that wraps the user data access methods
// needed by the auth service.
type AuthUserRepository interface {
	// Create inserts a new user and fills in the generated ID.
	// A duplicate email is reported as apperrors.ErrEmailExists.
	Create(ctx context.Context, user *models.User) error
	// GetByEmail retrieves a user by email, including the password hash.
	// A missing user is reported as apperrors.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// ExistsByEmail checks if a user exists with the given email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// authService implements registration and login
type authService struct {
	userRepo       AuthUserRepository
	tokenGenerator *auth.TokenGenerator
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo AuthUserRepository,
	tokenGenerator *auth.TokenGenerator,
	logger *zap.Logger,
) *authService {
	return &authService{
		userRepo:       userRepo,
		tokenGenerator: tokenGenerator,
		logger:         logger,
	}
}

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Register creates a new user account and returns the user fields together
// with a freshly issued token. The password is hashed exactly once, here,
// before it reaches the store.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	normalizedName := strings.TrimSpace(req.Name)
	normalizedEmail := strings.TrimSpace(strings.ToLower(req.Email))

	if normalizedName == "" || normalizedEmail == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email, and password are required", apperrors.ErrInvalidData)
	}
	if !emailRegex.MatchString(normalizedEmail) {
		return nil, fmt.Errorf("%w: invalid email format", apperrors.ErrInvalidData)
	}

	// Existence check before insert. Two concurrent registrations can both
	// pass it; the unique index on email turns the loser into the same
	// duplicate-email error.
	exists, err := s.userRepo.ExistsByEmail(ctx, normalizedEmail)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         normalizedName,
		Email:        normalizedEmail,
		PasswordHash: string(passwordHash),
		IsAdmin:      false, // Default
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokenGenerator.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	return models.NewAuthResponse(user, token), nil
}

// Login authenticates a user by email and password. A missing user and a
// wrong password produce the same error so a caller cannot probe which
// emails are registered.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	normalizedEmail := strings.TrimSpace(strings.ToLower(req.Email))
	if normalizedEmail == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, normalizedEmail)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokenGenerator.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	return models.NewAuthResponse(user, token), nil
}
