package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/swapsouq/messaging/internal/models"
	"github.com/swapsouq/messaging/internal/store"
)

type contextKey string

const UserContextKey contextKey = "user"

// IdentityMiddleware resolves the viewer for authenticated endpoints.
// Authentication itself happens upstream; the gateway forwards the verified
// user ID in the X-Souq-User header and this middleware turns it into a
// models.User, rejecting unknown and banned accounts.
type IdentityMiddleware struct {
	directory store.Directory
}

// NewIdentityMiddleware creates a new identity middleware.
func NewIdentityMiddleware(directory store.Directory) *IdentityMiddleware {
	return &IdentityMiddleware{directory: directory}
}

// RequireUser middleware resolves and validates the viewer.
func (m *IdentityMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idStr := r.Header.Get("X-Souq-User")
		if idStr == "" {
			jsonError(w, http.StatusUnauthorized, "missing X-Souq-User header")
			return
		}

		id, err := uuid.Parse(idStr)
		if err != nil {
			jsonError(w, http.StatusUnauthorized, "invalid user ID format")
			return
		}

		user, err := m.directory.UserByID(r.Context(), id)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "directory lookup failed")
			return
		}
		if user == nil {
			jsonError(w, http.StatusUnauthorized, "unknown user")
			return
		}
		if user.Status == models.UserBanned {
			jsonError(w, http.StatusForbidden, "account banned")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func jsonError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// GetUserFromContext retrieves the resolved viewer from the request context.
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
