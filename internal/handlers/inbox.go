package handlers

import (
	"net/http"

	"github.com/swapsouq/messaging/internal/api/middleware"
	"github.com/swapsouq/messaging/internal/chat"
	"github.com/swapsouq/messaging/internal/models"
)

// InboxPartner is the partner summary shown on an inbox row.
type InboxPartner struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// InboxListing is the listing summary shown on an inbox row.
type InboxListing struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// InboxRow is one conversation in the viewer's inbox.
type InboxRow struct {
	Partner     InboxPartner   `json:"partner"`
	Listing     InboxListing   `json:"listing"`
	LastMessage models.Message `json:"last_message"`
	Unread      int            `json:"unread"`
}

// InboxResponse represents the response from the inbox endpoint.
type InboxResponse struct {
	Conversations []InboxRow `json:"conversations"`
	Count         int        `json:"count"`
}

// Inbox handles GET /inbox. It derives one row per (partner, listing) pair
// from the viewer's messages, newest activity first.
func (h *Handler) Inbox(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := middleware.GetUserFromContext(ctx)
	if viewer == nil {
		h.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	viewerID := viewer.ID.String()

	messages, err := h.db.MessagesByParticipant(ctx, viewerID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to load messages")
		return
	}

	// Resolve every partner and listing the keys reference in two batch
	// lookups instead of one query per row.
	partnerIDs := make([]string, 0)
	listingIDs := make([]string, 0)
	seenPartner := make(map[string]bool)
	seenListing := make(map[string]bool)
	for _, msg := range messages {
		key, ok := chat.KeyOf(msg, viewerID)
		if !ok {
			continue
		}
		if !seenPartner[key.PartnerID] {
			seenPartner[key.PartnerID] = true
			partnerIDs = append(partnerIDs, key.PartnerID)
		}
		if !seenListing[key.ListingID] {
			seenListing[key.ListingID] = true
			listingIDs = append(listingIDs, key.ListingID)
		}
	}

	usersByID, err := h.db.UsersByIDs(ctx, partnerIDs)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to load users")
		return
	}
	listingsByID, err := h.db.ListingsByIDs(ctx, listingIDs)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to load listings")
		return
	}

	entries := chat.BuildInbox(messages, viewerID, usersByID, listingsByID)

	rows := make([]InboxRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, InboxRow{
			Partner: InboxPartner{
				ID:        e.Partner.ID.String(),
				Name:      e.Partner.Name,
				AvatarURL: e.Partner.AvatarURL,
			},
			Listing: InboxListing{
				ID:     e.Listing.ID.String(),
				Title:  e.Listing.Title,
				Status: e.Listing.Status,
			},
			LastMessage: e.LastMessage,
			Unread:      e.Unread,
		})
	}

	h.JSON(w, http.StatusOK, InboxResponse{
		Conversations: rows,
		Count:         len(rows),
	})
}
