package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/proshop/user-service/internal/auth/middleware"
	"github.com/proshop/user-service/internal/models"
)

// ProfileService is the interface that wraps profile self-service operations.
type ProfileService interface {
	// GetProfile retrieves the caller's own profile.
	GetProfile(ctx context.Context, userID int) (*models.UserResponse, error)
	// UpdateProfile applies the provided fields to the caller's own record
	// and returns the updated fields with a freshly issued token.
	UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest) (*models.AuthResponse, error)
}

// ProfileHandler handles the authenticated profile routes
type ProfileHandler struct {
	BaseHandler
	profileService ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		profileService: profileService,
	}
}

// RegisterRoutes registers the profile routes behind the authentication
// middleware.
// Note: This assumes the router is already scoped to /api
func (h *ProfileHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/users/profile", h.GetProfile)
		r.Put("/users/profile", h.UpdateProfile)
	})
}

// GetProfile handles GET /users/profile
// @Summary Get own profile
// @Description Return the authenticated caller's profile. The password hash is never included.
// @Tags users
// @Produce json
// @Success 200 {object} models.UserResponse "Profile"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 404 {object} map[string]string "User no longer exists"
// @Security ApiKeyAuth
// @Router /users/profile [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	resp, err := h.profileService.GetProfile(r.Context(), user.ID)
	if err != nil {
		h.RespondAppError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, resp)
}

// UpdateProfile handles PUT /users/profile
// @Summary Update own profile
// @Description Update the authenticated caller's name, email, and/or password. Omitted fields keep their current values. Returns the updated fields and a fresh token.
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.UpdateProfileRequest true "Profile update request"
// @Success 200 {object} models.AuthResponse "Updated profile"
// @Failure 400 {object} map[string]string "Invalid data or email already exists"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 404 {object} map[string]string "User no longer exists"
// @Security ApiKeyAuth
// @Router /users/profile [put]
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.profileService.UpdateProfile(r.Context(), user.ID, &req)
	if err != nil {
		h.RespondAppError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, resp)
}
