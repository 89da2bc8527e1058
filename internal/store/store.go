package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/swapsouq/messaging/internal/models"
)

// MessageStore is the system of record for chat messages. AppendMessage
// assigns the ID and CreatedAt; messages are never deleted through this
// interface and only the Read flag is ever updated.
type MessageStore interface {
	AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error)
	MessageByID(ctx context.Context, id string) (*models.Message, error)
	MessagesByParticipant(ctx context.Context, userID string) ([]models.Message, error)
	ConversationBetween(ctx context.Context, userA, userB, listingID string) ([]models.Message, error)
	MarkMessagesRead(ctx context.Context, ids []string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}

// Directory resolves the user and listing records conversations hang off.
// The create operations exist for seeding and tests; full account and
// listing management is another service's job.
type Directory interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UsersByIDs(ctx context.Context, ids []string) (map[string]models.User, error)
	CreateListing(ctx context.Context, l *models.Listing) (*models.Listing, error)
	ListingByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	ListingsByIDs(ctx context.Context, ids []string) (map[string]models.Listing, error)
}

// DataStore is the full persistent contract. PostgresStore, SQLiteStore and
// MemoryStore implement it.
type DataStore interface {
	MessageStore
	Directory

	CountUsers(ctx context.Context) (int64, error)
	CountListings(ctx context.Context) (int64, error)
	CountMessages(ctx context.Context) (int64, error)

	Close()
	Ping(ctx context.Context) error
}
