package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/swapsouq/messaging/internal/models"
	"github.com/swapsouq/messaging/internal/store"
)

func identityFixture(t *testing.T) (*IdentityMiddleware, models.User, models.User) {
	t.Helper()
	db := store.NewMemoryStore()
	active, err := db.CreateUser(context.Background(), &models.User{Name: "Alice"})
	if err != nil {
		t.Fatal(err)
	}
	banned, err := db.CreateUser(context.Background(), &models.User{Name: "Mallory", Status: models.UserBanned})
	if err != nil {
		t.Fatal(err)
	}
	return NewIdentityMiddleware(db), *active, *banned
}

func TestRequireUserResolvesViewer(t *testing.T) {
	identity, active, _ := identityFixture(t)

	var resolved *models.User
	handler := identity.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resolved = GetUserFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/inbox", nil)
	req.Header.Set("X-Souq-User", active.ID.String())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resolved == nil || resolved.Name != "Alice" {
		t.Fatalf("viewer not resolved: %+v", resolved)
	}
}

func TestRequireUserRejections(t *testing.T) {
	identity, _, banned := identityFixture(t)

	handler := identity.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed id", "not-a-uuid", http.StatusUnauthorized},
		{"unknown user", "7f000000-0000-4000-8000-00000000000f", http.StatusUnauthorized},
		{"banned user", banned.ID.String(), http.StatusForbidden},
	}

	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/inbox", nil)
		if tc.header != "" {
			req.Header.Set("X-Souq-User", tc.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, rec.Code)
		}
	}
}

func TestGetUserFromContextEmpty(t *testing.T) {
	if user := GetUserFromContext(context.Background()); user != nil {
		t.Fatalf("expected nil from empty context, got %+v", user)
	}
}
