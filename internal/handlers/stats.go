package handlers

import (
	"net/http"
)

// StatsResponse represents the response from the stats endpoint.
type StatsResponse struct {
	TotalUsers    int64 `json:"total_users"`
	TotalListings int64 `json:"total_listings"`
	TotalMessages int64 `json:"total_messages"`
}

// Stats returns aggregate platform counts.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalUsers, err := h.db.CountUsers(ctx)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to count users")
		return
	}

	totalListings, err := h.db.CountListings(ctx)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to count listings")
		return
	}

	totalMessages, err := h.db.CountMessages(ctx)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to count messages")
		return
	}

	h.JSON(w, http.StatusOK, StatsResponse{
		TotalUsers:    totalUsers,
		TotalListings: totalListings,
		TotalMessages: totalMessages,
	})
}
