package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/swapsouq/messaging/internal/models"
)

// MemoryStore is an in-memory DataStore for tests and throwaway development
// runs. It honors the same append/mark-read semantics as the SQL stores.
type MemoryStore struct {
	mu       sync.Mutex
	messages []models.Message
	users    map[string]models.User
	listings map[string]models.Listing
	clock    int64 // monotonic fallback when two appends share a millisecond
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]models.User),
		listings: make(map[string]models.Listing),
	}
}

// Close is a no-op.
func (s *MemoryStore) Close() {}

// Ping is a no-op.
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

// AppendMessage stores a message, assigning its ID and timestamp.
func (s *MemoryStore) AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *msg
	if stored.ID == "" {
		stored.ID = ulid.Make().String()
	}
	if stored.CreatedAt == 0 {
		now := time.Now().UnixMilli()
		if now <= s.clock {
			now = s.clock + 1
		}
		s.clock = now
		stored.CreatedAt = now
	}
	stored.Read = false
	s.messages = append(s.messages, stored)
	return &stored, nil
}

// MessageByID retrieves a message by ID.
func (s *MemoryStore) MessageByID(ctx context.Context, id string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.ID == id {
			msg := m
			return &msg, nil
		}
	}
	return nil, nil
}

// MessagesByParticipant retrieves every message the user sent or received.
func (s *MemoryStore) MessagesByParticipant(ctx context.Context, userID string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Message
	for _, m := range s.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ConversationBetween retrieves the messages two users exchanged about a
// listing.
func (s *MemoryStore) ConversationBetween(ctx context.Context, userA, userB, listingID string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Message
	for _, m := range s.messages {
		if m.ListingID != listingID {
			continue
		}
		if (m.SenderID == userA && m.ReceiverID == userB) || (m.SenderID == userB && m.ReceiverID == userA) {
			out = append(out, m)
		}
	}
	return out, nil
}

// MarkMessagesRead flips the read flag for the given messages.
func (s *MemoryStore) MarkMessagesRead(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	for i := range s.messages {
		if wanted[s.messages[i].ID] {
			s.messages[i].Read = true
		}
	}
	return nil
}

// CountUnread returns the user's total unread message count.
func (s *MemoryStore) CountUnread(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, m := range s.messages {
		if m.ReceiverID == userID && !m.Read {
			count++
		}
	}
	return count, nil
}

// CreateUser creates a user record.
func (s *MemoryStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *u
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if stored.Status == "" {
		stored.Status = models.UserActive
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.users[stored.ID.String()] = stored
	return &stored, nil
}

// UserByID retrieves a user by ID.
func (s *MemoryStore) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id.String()]; ok {
		user := u
		return &user, nil
	}
	return nil, nil
}

// UsersByIDs retrieves the given users as a lookup map.
func (s *MemoryStore) UsersByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

// CreateListing creates a listing record.
func (s *MemoryStore) CreateListing(ctx context.Context, l *models.Listing) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *l
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if stored.Status == "" {
		stored.Status = models.ListingActive
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.listings[stored.ID.String()] = stored
	return &stored, nil
}

// ListingByID retrieves a listing by ID.
func (s *MemoryStore) ListingByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.listings[id.String()]; ok {
		listing := l
		return &listing, nil
	}
	return nil, nil
}

// ListingsByIDs retrieves the given listings as a lookup map.
func (s *MemoryStore) ListingsByIDs(ctx context.Context, ids []string) (map[string]models.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.Listing, len(ids))
	for _, id := range ids {
		if l, ok := s.listings[id]; ok {
			out[id] = l
		}
	}
	return out, nil
}

// CountUsers returns the total number of users.
func (s *MemoryStore) CountUsers(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

// CountListings returns the total number of listings.
func (s *MemoryStore) CountListings(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.listings)), nil
}

// CountMessages returns the total number of messages.
func (s *MemoryStore) CountMessages(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.messages)), nil
}
