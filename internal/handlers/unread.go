package handlers

import (
	"net/http"

	"github.com/swapsouq/messaging/internal/api/middleware"
)

// UnreadResponse represents the response from the unread-count endpoint.
type UnreadResponse struct {
	Unread int  `json:"unread"`
	Cached bool `json:"cached"`
}

// Unread handles GET /unread. The count feeds the client's badge, so it is
// served from a short-lived Redis cache when possible and recomputed from
// the store on a miss.
func (h *Handler) Unread(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := middleware.GetUserFromContext(ctx)
	if viewer == nil {
		h.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	viewerID := viewer.ID.String()

	if h.cache != nil {
		if count, ok := h.cache.CachedUnread(ctx, viewerID); ok {
			h.JSON(w, http.StatusOK, UnreadResponse{Unread: count, Cached: true})
			return
		}
	}

	count, err := h.db.CountUnread(ctx, viewerID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to count unread messages")
		return
	}

	if h.cache != nil {
		h.cache.SetCachedUnread(ctx, viewerID, count)
	}

	h.JSON(w, http.StatusOK, UnreadResponse{Unread: count})
}
