package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/proshop/user-service/internal/models"
)

// AdminService is the interface that wraps admin user management operations.
type AdminService interface {
	// GetUsersList retrieves all users without password hashes.
	GetUsersList(ctx context.Context) ([]models.UserResponse, error)
	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID int) (*models.UserResponse, error)
	// UpdateUser applies the provided fields to a user. The admin flag is
	// changed only when explicitly present in the request.
	UpdateUser(ctx context.Context, userID int, req *models.UpdateUserRequest) (*models.UserResponse, error)
	// DeleteUser deletes a user by ID.
	DeleteUser(ctx context.Context, userID int) error
}

// AdminHandler handles the admin-only user management routes
type AdminHandler struct {
	BaseHandler
	adminService AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		adminService: adminService,
	}
}

// RegisterRoutes registers the admin routes behind the authentication and
// admin middlewares, in that order.
// Note: This assumes the router is already scoped to /api
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)
		r.Get("/users", h.GetUsers)
		r.Get("/users/{id}", h.GetUser)
		r.Put("/users/{id}", h.UpdateUser)
		r.Delete("/users/{id}", h.DeleteUser)
	})
}

// GetUsers handles GET /users
// @Summary List all users
// @Description Return all users. Password hashes are never included.
// @Tags admin
// @Produce json
// @Success 200 {array} models.UserResponse "Users"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 403 {object} map[string]string "Caller is not an admin"
// @Security ApiKeyAuth
// @Router /users [get]
func (h *AdminHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.GetUsersList(r.Context())
	if err != nil {
		h.RespondAppError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, users)
}

// GetUser handles GET /users/{id}
// @Summary Get user by ID
// @Description Return a single user by ID. The password hash is never included.
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserResponse "User"
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 403 {object} map[string]string "Caller is not an admin"
// @Failure 404 {object} map[string]string "User not found"
// @Security ApiKeyAuth
// @Router /users/{id} [get]
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userIDParam(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.adminService.GetUser(r.Context(), userID)
	if err != nil {
		h.RespondAppError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// UpdateUser handles PUT /users/{id}
// @Summary Update user by ID
// @Description Update a user's name, email, and/or admin flag. Omitted fields keep their current values; the admin flag changes only when explicitly provided.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body models.UpdateUserRequest true "User update request"
// @Success 200 {object} models.UserResponse "Updated user"
// @Failure 400 {object} map[string]string "Invalid data or email already exists"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 403 {object} map[string]string "Caller is not an admin"
// @Failure 404 {object} map[string]string "User not found"
// @Security ApiKeyAuth
// @Router /users/{id} [put]
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userIDParam(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.adminService.UpdateUser(r.Context(), userID, &req)
	if err != nil {
		h.RespondAppError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /users/{id}
// @Summary Delete user by ID
// @Description Permanently delete a user. There is no soft delete.
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string "Confirmation message"
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 401 {object} map[string]string "Missing or invalid token"
// @Failure 403 {object} map[string]string "Caller is not an admin"
// @Failure 404 {object} map[string]string "User not found"
// @Security ApiKeyAuth
// @Router /users/{id} [delete]
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userIDParam(r)
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.adminService.DeleteUser(r.Context(), userID); err != nil {
		h.RespondAppError(w, r, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// userIDParam parses the {id} route parameter
func (h *AdminHandler) userIDParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}
