package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/proshop/user-service/internal/apperrors"
	"github.com/proshop/user-service/internal/auth"
	"github.com/proshop/user-service/internal/models"
)

// mockAuthUserRepository is a hand-written mock for AuthUserRepository
type mockAuthUserRepository struct {
	createFunc        func(ctx context.Context, user *models.User) error
	getByEmailFunc    func(ctx context.Context, email string) (*models.User, error)
	existsByEmailFunc func(ctx context.Context, email string) (bool, error)
}

func (m *mockAuthUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.createFunc(ctx, user)
}

func (m *mockAuthUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.getByEmailFunc(ctx, email)
}

func (m *mockAuthUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return m.existsByEmailFunc(ctx, email)
}

func newTestTokenGenerator() *auth.TokenGenerator {
	return auth.NewTokenGenerator("test-secret", time.Hour)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		req           *models.RegisterRequest
		repo          *mockAuthUserRepository
		expectedError error
	}{
		{
			name: "success",
			req: &models.RegisterRequest{
				Name:     "Test User",
				Email:    "Test@Example.com",
				Password: "password123",
			},
			repo: &mockAuthUserRepository{
				existsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
					return false, nil
				},
				createFunc: func(ctx context.Context, user *models.User) error {
					user.ID = 1
					return nil
				},
			},
		},
		{
			name: "missing name",
			req: &models.RegisterRequest{
				Email:    "test@example.com",
				Password: "password123",
			},
			repo:          &mockAuthUserRepository{},
			expectedError: apperrors.ErrInvalidData,
		},
		{
			name: "missing email",
			req: &models.RegisterRequest{
				Name:     "Test User",
				Password: "password123",
			},
			repo:          &mockAuthUserRepository{},
			expectedError: apperrors.ErrInvalidData,
		},
		{
			name: "missing password",
			req: &models.RegisterRequest{
				Name:  "Test User",
				Email: "test@example.com",
			},
			repo:          &mockAuthUserRepository{},
			expectedError: apperrors.ErrInvalidData,
		},
		{
			name: "invalid email format",
			req: &models.RegisterRequest{
				Name:     "Test User",
				Email:    "not-an-email",
				Password: "password123",
			},
			repo:          &mockAuthUserRepository{},
			expectedError: apperrors.ErrInvalidData,
		},
		{
			name: "email already exists",
			req: &models.RegisterRequest{
				Name:     "Test User",
				Email:    "taken@example.com",
				Password: "password123",
			},
			repo: &mockAuthUserRepository{
				existsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
					return true, nil
				},
			},
			expectedError: apperrors.ErrEmailExists,
		},
		{
			name: "create reports duplicate after race",
			req: &models.RegisterRequest{
				Name:     "Test User",
				Email:    "taken@example.com",
				Password: "password123",
			},
			repo: &mockAuthUserRepository{
				existsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
					return false, nil
				},
				createFunc: func(ctx context.Context, user *models.User) error {
					return apperrors.ErrEmailExists
				},
			},
			expectedError: apperrors.ErrEmailExists,
		},
		{
			name: "repository error",
			req: &models.RegisterRequest{
				Name:     "Test User",
				Email:    "test@example.com",
				Password: "password123",
			},
			repo: &mockAuthUserRepository{
				existsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
					return false, errors.New("database error")
				},
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewAuthService(tt.repo, newTestTokenGenerator(), zap.NewNop())

			resp, err := service.Register(context.Background(), tt.req)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.Nil(t, resp)
				if errors.Is(tt.expectedError, apperrors.ErrInvalidData) ||
					errors.Is(tt.expectedError, apperrors.ErrEmailExists) {
					assert.ErrorIs(t, err, tt.expectedError)
				}
			} else {
				require.NoError(t, err)
				require.NotNil(t, resp)
				assert.Equal(t, 1, resp.ID)
				assert.Equal(t, "Test User", resp.Name)
				assert.Equal(t, "test@example.com", resp.Email)
				assert.False(t, resp.IsAdmin)
				assert.NotEmpty(t, resp.Token)
			}
		})
	}
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	var stored *models.User
	repo := &mockAuthUserRepository{
		existsByEmailFunc: func(ctx context.Context, email string) (bool, error) {
			return false, nil
		},
		createFunc: func(ctx context.Context, user *models.User) error {
			user.ID = 1
			stored = user
			return nil
		},
	}

	service := NewAuthService(repo, newTestTokenGenerator(), zap.NewNop())

	_, err := service.Register(context.Background(), &models.RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestAuthService_Login(t *testing.T) {
	passwordHash := hashPassword(t, "password123")

	existingUser := &models.User{
		ID:           1,
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: passwordHash,
		IsAdmin:      false,
	}

	tests := []struct {
		name          string
		req           *models.LoginRequest
		repo          *mockAuthUserRepository
		expectedError error
	}{
		{
			name: "success",
			req: &models.LoginRequest{
				Email:    "Test@Example.com",
				Password: "password123",
			},
			repo: &mockAuthUserRepository{
				getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
					assert.Equal(t, "test@example.com", email)
					return existingUser, nil
				},
			},
		},
		{
			name: "missing email",
			req: &models.LoginRequest{
				Password: "password123",
			},
			repo:          &mockAuthUserRepository{},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name: "missing password",
			req: &models.LoginRequest{
				Email: "test@example.com",
			},
			repo:          &mockAuthUserRepository{},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name: "unknown email",
			req: &models.LoginRequest{
				Email:    "missing@example.com",
				Password: "password123",
			},
			repo: &mockAuthUserRepository{
				getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
					return nil, apperrors.ErrNotFound
				},
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name: "wrong password",
			req: &models.LoginRequest{
				Email:    "test@example.com",
				Password: "wrongpassword",
			},
			repo: &mockAuthUserRepository{
				getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
					return existingUser, nil
				},
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name: "repository error",
			req: &models.LoginRequest{
				Email:    "test@example.com",
				Password: "password123",
			},
			repo: &mockAuthUserRepository{
				getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
					return nil, errors.New("database error")
				},
			},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewAuthService(tt.repo, newTestTokenGenerator(), zap.NewNop())

			resp, err := service.Login(context.Background(), tt.req)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.Nil(t, resp)
				if errors.Is(tt.expectedError, apperrors.ErrInvalidCredentials) {
					assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
				}
			} else {
				require.NoError(t, err)
				require.NotNil(t, resp)
				assert.Equal(t, existingUser.ID, resp.ID)
				assert.Equal(t, existingUser.Email, resp.Email)
				assert.NotEmpty(t, resp.Token)
			}
		})
	}
}

// Unknown email and wrong password must look identical to the caller
func TestAuthService_Login_UniformCredentialError(t *testing.T) {
	passwordHash := hashPassword(t, "password123")

	repo := &mockAuthUserRepository{
		getByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			if email == "known@example.com" {
				return &models.User{ID: 1, Email: email, PasswordHash: passwordHash}, nil
			}
			return nil, apperrors.ErrNotFound
		},
	}

	service := NewAuthService(repo, newTestTokenGenerator(), zap.NewNop())

	_, errUnknown := service.Login(context.Background(), &models.LoginRequest{
		Email:    "unknown@example.com",
		Password: "password123",
	})
	_, errWrongPass := service.Login(context.Background(), &models.LoginRequest{
		Email:    "known@example.com",
		Password: "wrongpassword",
	})

	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)
	assert.Equal(t, errUnknown, errWrongPass)
	assert.Equal(t, apperrors.Status(errUnknown), apperrors.Status(errWrongPass))
}
