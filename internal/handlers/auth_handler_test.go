package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/proshop/user-service/internal/apperrors"
	"github.com/proshop/user-service/internal/models"
)

// stubAuthService is a hand-written stub for AuthService
type stubAuthService struct {
	registerFunc func(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	loginFunc    func(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
}

func (s *stubAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	return s.registerFunc(ctx, req)
}

func (s *stubAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	return s.loginFunc(ctx, req)
}

func setupAuthRouter(service *stubAuthService) *chi.Mux {
	handler := NewAuthHandler(service, zap.NewNop())
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func TestAuthHandler_Register(t *testing.T) {
	authResp := &models.AuthResponse{
		ID:      1,
		Name:    "Test User",
		Email:   "test@example.com",
		IsAdmin: false,
		Token:   "test-token",
	}

	tests := []struct {
		name           string
		body           string
		service        *stubAuthService
		expectedStatus int
		expectedError  string
	}{
		{
			name: "success",
			body: `{"name":"Test User","email":"test@example.com","password":"password123"}`,
			service: &stubAuthService{
				registerFunc: func(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
					return authResp, nil
				},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid json body",
			body:           `{not json`,
			service:        &stubAuthService{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
		{
			name: "invalid data",
			body: `{"name":"","email":"","password":""}`,
			service: &stubAuthService{
				registerFunc: func(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
					return nil, apperrors.ErrInvalidData
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid user data",
		},
		{
			name: "email already exists",
			body: `{"name":"Test User","email":"taken@example.com","password":"password123"}`,
			service: &stubAuthService{
				registerFunc: func(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
					return nil, apperrors.ErrEmailExists
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "email already exists",
		},
		{
			name: "internal error is masked",
			body: `{"name":"Test User","email":"test@example.com","password":"password123"}`,
			service: &stubAuthService{
				registerFunc: func(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
					return nil, assert.AnError
				},
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupAuthRouter(tt.service)

			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedError != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedError, body["error"])
			} else {
				var body models.AuthResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, *authResp, body)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	authResp := &models.AuthResponse{
		ID:      1,
		Name:    "Test User",
		Email:   "test@example.com",
		IsAdmin: false,
		Token:   "test-token",
	}

	tests := []struct {
		name           string
		body           string
		service        *stubAuthService
		expectedStatus int
		expectedError  string
	}{
		{
			name: "success",
			body: `{"email":"test@example.com","password":"password123"}`,
			service: &stubAuthService{
				loginFunc: func(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
					return authResp, nil
				},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid json body",
			body:           `{not json`,
			service:        &stubAuthService{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body",
		},
		{
			name: "invalid credentials",
			body: `{"email":"test@example.com","password":"wrongpassword"}`,
			service: &stubAuthService{
				loginFunc: func(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
					return nil, apperrors.ErrInvalidCredentials
				},
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "invalid email or password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupAuthRouter(tt.service)

			req := httptest.NewRequest(http.MethodPost, "/users/login", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedError != "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedError, body["error"])
			} else {
				var body models.AuthResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, *authResp, body)
			}
		})
	}
}
