package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/swapsouq/messaging/internal/models"
)

// CreateUserRequest represents the request to create a user record.
type CreateUserRequest struct {
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Governorate string `json:"governorate,omitempty"`
}

// CreateUser handles POST /users. Account management proper lives in
// another service; this endpoint exists for seeding and local development.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	name := sanitizeName(req.Name)
	if name == "" {
		h.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	user, err := h.db.CreateUser(r.Context(), &models.User{
		Name:        name,
		AvatarURL:   req.AvatarURL,
		Governorate: req.Governorate,
	})
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.JSON(w, http.StatusCreated, user)
}

// GetUser handles GET /users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	user, err := h.db.UserByID(r.Context(), id)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		h.Error(w, http.StatusNotFound, "user not found")
		return
	}

	h.JSON(w, http.StatusOK, user)
}
