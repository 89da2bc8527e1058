package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/swapsouq/messaging/internal/models"
)

// PostgresStore handles PostgreSQL database operations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool and
// initializes the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	store := &PostgresStore{pool: pool}
	if err := store.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		avatar_url TEXT DEFAULT '',
		governorate TEXT DEFAULT '',
		status TEXT DEFAULT 'active',
		created_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS listings (
		id UUID PRIMARY KEY,
		owner_id UUID NOT NULL,
		title TEXT NOT NULL,
		category TEXT DEFAULT '',
		governorate TEXT DEFAULT '',
		status TEXT DEFAULT 'active',
		created_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		sender_id TEXT NOT NULL,
		receiver_id TEXT NOT NULL,
		listing_id TEXT NOT NULL,
		type TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		read BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id);
	CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages(receiver_id);
	CREATE INDEX IF NOT EXISTS idx_messages_unread ON messages(receiver_id, read);
	CREATE INDEX IF NOT EXISTS idx_messages_listing ON messages(listing_id);
	`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// AppendMessage stores a message, assigning its ID and timestamp.
func (s *PostgresStore) AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	stored := *msg
	if stored.ID == "" {
		stored.ID = ulid.Make().String()
	}
	if stored.CreatedAt == 0 {
		stored.CreatedAt = time.Now().UnixMilli()
	}
	stored.Read = false

	_, err := s.pool.Exec(ctx, `
		INSERT INTO messages (id, sender_id, receiver_id, listing_id, type, content, created_at, read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
	`, stored.ID, stored.SenderID, stored.ReceiverID, stored.ListingID, string(stored.Type), stored.Content, stored.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// MessageByID retrieves a message by ID.
func (s *PostgresStore) MessageByID(ctx context.Context, id string) (*models.Message, error) {
	msg := &models.Message{}
	var typ string
	err := s.pool.QueryRow(ctx, `
		SELECT id, sender_id, receiver_id, listing_id, type, content, created_at, read
		FROM messages WHERE id = $1
	`, id).Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.ListingID, &typ, &msg.Content, &msg.CreatedAt, &msg.Read)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	msg.Type = models.MessageType(typ)
	return msg, nil
}

// MessagesByParticipant retrieves every message the user sent or received,
// ascending by timestamp.
func (s *PostgresStore) MessagesByParticipant(ctx context.Context, userID string) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, sender_id, receiver_id, listing_id, type, content, created_at, read
		FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPgMessages(rows)
}

// ConversationBetween retrieves the messages two users exchanged about a
// listing, ascending by timestamp.
func (s *PostgresStore) ConversationBetween(ctx context.Context, userA, userB, listingID string) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, sender_id, receiver_id, listing_id, type, content, created_at, read
		FROM messages
		WHERE listing_id = $1
		  AND ((sender_id = $2 AND receiver_id = $3) OR (sender_id = $3 AND receiver_id = $2))
		ORDER BY created_at ASC
	`, listingID, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPgMessages(rows)
}

// MarkMessagesRead flips the read flag for the given messages.
func (s *PostgresStore) MarkMessagesRead(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `UPDATE messages SET read = TRUE WHERE id = ANY($1)`, ids)
	return err
}

// CountUnread returns the user's total unread message count.
func (s *PostgresStore) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND read = FALSE`, userID).Scan(&count)
	return count, err
}

// CreateUser creates a user record.
func (s *PostgresStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
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

	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, name, avatar_url, governorate, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, stored.ID, stored.Name, stored.AvatarURL, stored.Governorate, stored.Status, stored.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// UserByID retrieves a user by ID.
func (s *PostgresStore) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u := &models.User{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, avatar_url, governorate, status, created_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.AvatarURL, &u.Governorate, &u.Status, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// UsersByIDs retrieves the given users as a lookup map.
func (s *PostgresStore) UsersByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	out := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, avatar_url, governorate, status, created_at
		FROM users WHERE id::text = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.AvatarURL, &u.Governorate, &u.Status, &u.CreatedAt); err != nil {
			return nil, err
		}
		out[u.ID.String()] = u
	}
	return out, rows.Err()
}

// CreateListing creates a listing record.
func (s *PostgresStore) CreateListing(ctx context.Context, l *models.Listing) (*models.Listing, error) {
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

	_, err := s.pool.Exec(ctx, `
		INSERT INTO listings (id, owner_id, title, category, governorate, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, stored.ID, stored.OwnerID, stored.Title, stored.Category, stored.Governorate, stored.Status, stored.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListingByID retrieves a listing by ID.
func (s *PostgresStore) ListingByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	l := &models.Listing{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, owner_id, title, category, governorate, status, created_at
		FROM listings WHERE id = $1
	`, id).Scan(&l.ID, &l.OwnerID, &l.Title, &l.Category, &l.Governorate, &l.Status, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

// ListingsByIDs retrieves the given listings as a lookup map.
func (s *PostgresStore) ListingsByIDs(ctx context.Context, ids []string) (map[string]models.Listing, error) {
	out := make(map[string]models.Listing, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, owner_id, title, category, governorate, status, created_at
		FROM listings WHERE id::text = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Title, &l.Category, &l.Governorate, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		out[l.ID.String()] = l
	}
	return out, rows.Err()
}

// CountUsers returns the total number of users.
func (s *PostgresStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// CountListings returns the total number of listings.
func (s *PostgresStore) CountListings(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM listings`).Scan(&count)
	return count, err
}

// CountMessages returns the total number of messages.
func (s *PostgresStore) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count)
	return count, err
}

func collectPgMessages(rows pgx.Rows) ([]models.Message, error) {
	var out []models.Message
	for rows.Next() {
		var msg models.Message
		var typ string
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.ListingID, &typ, &msg.Content, &msg.CreatedAt, &msg.Read); err != nil {
			return nil, err
		}
		msg.Type = models.MessageType(typ)
		out = append(out, msg)
	}
	return out, rows.Err()
}
