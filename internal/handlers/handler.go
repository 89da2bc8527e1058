package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/swapsouq/messaging/internal/chat"
	"github.com/swapsouq/messaging/internal/media"
	"github.com/swapsouq/messaging/internal/models"
	"github.com/swapsouq/messaging/internal/store"
)

// Cache is the Redis-backed sidecar the handlers consult for unread-count
// caching and the text-message search index. A nil Cache disables both;
// messages always land in the DataStore regardless. *store.RedisStore is the
// production implementation.
type Cache interface {
	CachedUnread(ctx context.Context, userID string) (int, bool)
	SetCachedUnread(ctx context.Context, userID string, count int)
	InvalidateUnread(ctx context.Context, userID string)
	IndexMessage(ctx context.Context, msgID, listingID, body string, participantIDs ...string)
	SearchMessages(ctx context.Context, userID string, tokens []string, limit int, listingFilter string) ([]string, error)
	Ping(ctx context.Context) error
}

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	db     store.DataStore
	cache  Cache
	media  media.Uploader
	logger zerolog.Logger
}

// NewHandler creates a new Handler with the given stores. cache may be nil.
func NewHandler(db store.DataStore, cache Cache, uploader media.Uploader, logger zerolog.Logger) *Handler {
	return &Handler{db: db, cache: cache, media: uploader, logger: logger}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// session builds a chat session bound to the viewer, wired to the shared
// store and media uploader.
func (h *Handler) session(viewer models.User) *chat.Session {
	composer := chat.NewComposer(h.db, h.media)
	return chat.NewSession(viewer, h.db, composer, h.logger)
}

// sanitizeName trims and limits a display name to 100 characters,
// removing control characters.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)

	// Remove control characters
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	// Limit to 100 characters. Rune-wise: names are often Arabic and a byte
	// cut would split a character.
	if utf8.RuneCountInString(name) > 100 {
		name = string([]rune(name)[:100])
	}

	return name
}
