package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/swapsouq/messaging/internal/api/middleware"
	"github.com/swapsouq/messaging/internal/models"
)

// CreateListingRequest represents the request to create a listing record.
type CreateListingRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category,omitempty"`
	Governorate string `json:"governorate,omitempty"`
}

// CreateListing handles POST /listings. Listing CRUD proper lives in
// another service; this endpoint exists for seeding and local development.
func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.GetUserFromContext(r.Context())
	if viewer == nil {
		h.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	title := sanitizeName(req.Title)
	if title == "" {
		h.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	listing, err := h.db.CreateListing(r.Context(), &models.Listing{
		OwnerID:     viewer.ID,
		Title:       title,
		Category:    req.Category,
		Governorate: req.Governorate,
	})
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to create listing")
		return
	}

	h.JSON(w, http.StatusCreated, listing)
}

// GetListing handles GET /listings/{id}.
func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid listing ID")
		return
	}

	listing, err := h.db.ListingByID(r.Context(), id)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to load listing")
		return
	}
	if listing == nil {
		h.Error(w, http.StatusNotFound, "listing not found")
		return
	}

	h.JSON(w, http.StatusOK, listing)
}
