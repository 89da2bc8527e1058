package handlers

import (
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/swapsouq/messaging/internal/api/middleware"
	"github.com/swapsouq/messaging/internal/metrics"
	"github.com/swapsouq/messaging/internal/models"
	"github.com/swapsouq/messaging/internal/store"
)

// FindResult represents a single search result.
type FindResult struct {
	MessageID string `json:"id"`
	ListingID string `json:"listing_id"`
	SenderID  string `json:"sender_id"`
	Body      string `json:"body"`
	Timestamp int64  `json:"ts"`
}

// FindResponse represents the search response.
type FindResponse struct {
	Query   string       `json:"query"`
	Results []FindResult `json:"results"`
	Total   int          `json:"total"`
}

// Find handles GET /find. It searches the viewer's own text messages
// through the Redis index, optionally scoped to one listing.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := middleware.GetUserFromContext(ctx)
	if viewer == nil {
		h.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if h.cache == nil {
		h.Error(w, http.StatusServiceUnavailable, "search is not available")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		h.Error(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	if len(query) > 100 {
		h.Error(w, http.StatusBadRequest, "query too long (max 100 chars)")
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if limit > 100 {
		limit = 100
	}

	listingFilter := r.URL.Query().Get("listing")
	if listingFilter != "" {
		if _, err := uuid.Parse(listingFilter); err != nil {
			h.Error(w, http.StatusBadRequest, "invalid listing ID format")
			return
		}
	}

	metrics.SearchQueries.Inc()

	tokens := store.Tokenize(query)
	if len(tokens) == 0 {
		h.JSON(w, http.StatusOK, FindResponse{
			Query:   query,
			Results: []FindResult{},
			Total:   0,
		})
		return
	}

	ids, err := h.cache.SearchMessages(ctx, viewer.ID.String(), tokens, limit, listingFilter)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "search failed")
		return
	}

	// The index holds references, not bodies; hydrate from the store and
	// drop entries whose message has since vanished.
	results := make([]FindResult, 0, len(ids))
	for _, id := range ids {
		msg, err := h.db.MessageByID(ctx, id)
		if err != nil || msg == nil || msg.Type != models.MessageText {
			continue
		}

		body := msg.Content
		if utf8.RuneCountInString(body) > 200 {
			body = string([]rune(body)[:197]) + "..."
		}

		results = append(results, FindResult{
			MessageID: msg.ID,
			ListingID: msg.ListingID,
			SenderID:  msg.SenderID,
			Body:      body,
			Timestamp: msg.CreatedAt,
		})
	}

	h.JSON(w, http.StatusOK, FindResponse{
		Query:   query,
		Results: results,
		Total:   len(results),
	})
}
