package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/swapsouq/messaging/internal/api/middleware"
	"github.com/swapsouq/messaging/internal/chat"
	"github.com/swapsouq/messaging/internal/media"
	"github.com/swapsouq/messaging/internal/metrics"
	"github.com/swapsouq/messaging/internal/models"
)

// ConversationResponse represents one open conversation: the resolved
// partner and listing plus the full message stream, oldest first.
type ConversationResponse struct {
	Partner  InboxPartner     `json:"partner"`
	Listing  InboxListing     `json:"listing"`
	Messages []models.Message `json:"messages"`
	Count    int              `json:"count"`
}

// SendMessageRequest represents the request to send a message.
// Content carries the text body for text messages and a base64 data URL
// for image and audio messages.
type SendMessageRequest struct {
	Type    models.MessageType `json:"type"`
	Content string             `json:"content"`
}

// conversationScope resolves the {partnerID}/{listingID} route pair against
// the directory. Writes the error response itself and returns ok=false on
// failure.
func (h *Handler) conversationScope(w http.ResponseWriter, r *http.Request, viewer *models.User) (*models.User, *models.Listing, bool) {
	partnerID, err := uuid.Parse(chi.URLParam(r, "partnerID"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid partner ID")
		return nil, nil, false
	}
	listingID, err := uuid.Parse(chi.URLParam(r, "listingID"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid listing ID")
		return nil, nil, false
	}
	if partnerID == viewer.ID {
		h.Error(w, http.StatusBadRequest, "cannot message yourself")
		return nil, nil, false
	}

	partner, err := h.db.UserByID(r.Context(), partnerID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to load partner")
		return nil, nil, false
	}
	if partner == nil {
		h.Error(w, http.StatusNotFound, "partner not found")
		return nil, nil, false
	}

	listing, err := h.db.ListingByID(r.Context(), listingID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to load listing")
		return nil, nil, false
	}
	if listing == nil {
		h.Error(w, http.StatusNotFound, "listing not found")
		return nil, nil, false
	}

	return partner, listing, true
}

// Conversation handles GET /conversations/{partnerID}/{listingID}. Opening
// a conversation marks the partner's unread messages as read.
func (h *Handler) Conversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := middleware.GetUserFromContext(ctx)
	if viewer == nil {
		h.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	partner, listing, ok := h.conversationScope(w, r, viewer)
	if !ok {
		return
	}

	sess := h.session(*viewer)
	messages, err := sess.OpenConversation(ctx, *partner, *listing)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}
	metrics.ConversationsOpened.Inc()

	if h.cache != nil {
		// Unread count just changed; drop the cached value.
		h.cache.InvalidateUnread(ctx, viewer.ID.String())
	}

	h.JSON(w, http.StatusOK, ConversationResponse{
		Partner: InboxPartner{
			ID:        partner.ID.String(),
			Name:      partner.Name,
			AvatarURL: partner.AvatarURL,
		},
		Listing: InboxListing{
			ID:     listing.ID.String(),
			Title:  listing.Title,
			Status: listing.Status,
		},
		Messages: messages,
		Count:    len(messages),
	})
}

// SendMessage handles POST /conversations/{partnerID}/{listingID}/messages.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := middleware.GetUserFromContext(ctx)
	if viewer == nil {
		h.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	partner, listing, ok := h.conversationScope(w, r, viewer)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !req.Type.Valid() {
		h.Error(w, http.StatusBadRequest, "unknown message type")
		return
	}

	var payload []byte
	switch req.Type {
	case models.MessageText:
		payload = []byte(req.Content)
	case models.MessageImage, models.MessageAudio:
		mimeType, decoded, err := media.DecodeDataURL(req.Content)
		if err != nil {
			h.Error(w, http.StatusBadRequest, "invalid media payload")
			return
		}
		if !media.AllowedType(string(req.Type), mimeType) {
			h.Error(w, http.StatusBadRequest, "unsupported media type")
			return
		}
		payload = decoded
	}

	sess := h.session(*viewer)
	if _, err := sess.OpenConversation(ctx, *partner, *listing); err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}

	msg, err := sess.SendMessage(ctx, req.Type, payload)
	if req.Type != models.MessageText {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.MediaUploads.WithLabelValues(string(req.Type), status).Inc()
	}
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			h.Error(w, http.StatusBadRequest, "message body is empty")
		case errors.Is(err, media.ErrPayloadTooLarge):
			h.Error(w, http.StatusRequestEntityTooLarge, "media payload too large")
		case errors.Is(err, chat.ErrUploadFailed):
			h.Error(w, http.StatusBadGateway, "media upload failed")
		default:
			h.Error(w, http.StatusInternalServerError, "failed to send message")
		}
		return
	}

	metrics.MessagesSent.WithLabelValues(string(msg.Type)).Inc()

	if h.cache != nil {
		h.cache.InvalidateUnread(ctx, msg.ReceiverID)
		if msg.Type == models.MessageText {
			h.cache.IndexMessage(ctx, msg.ID, msg.ListingID, msg.Content, msg.SenderID, msg.ReceiverID)
		}
	}

	h.JSON(w, http.StatusCreated, msg)
}
