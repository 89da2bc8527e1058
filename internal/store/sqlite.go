package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/swapsouq/messaging/internal/models"
)

// SQLiteStore handles SQLite database operations for single-node and
// development deployments.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/swapsouq.db"
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/swapsouq.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}

	// Initialize schema
	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		avatar_url TEXT DEFAULT '',
		governorate TEXT DEFAULT '',
		status TEXT DEFAULT 'active',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS listings (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		title TEXT NOT NULL,
		category TEXT DEFAULT '',
		governorate TEXT DEFAULT '',
		status TEXT DEFAULT 'active',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		sender_id TEXT NOT NULL,
		receiver_id TEXT NOT NULL,
		listing_id TEXT NOT NULL,
		type TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		read INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id);
	CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages(receiver_id);
	CREATE INDEX IF NOT EXISTS idx_messages_unread ON messages(receiver_id, read);
	CREATE INDEX IF NOT EXISTS idx_messages_listing ON messages(listing_id);
	CREATE INDEX IF NOT EXISTS idx_listings_owner ON listings(owner_id);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// AppendMessage stores a message, assigning its ID and timestamp.
func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	stored := *msg
	if stored.ID == "" {
		stored.ID = ulid.Make().String()
	}
	if stored.CreatedAt == 0 {
		stored.CreatedAt = time.Now().UnixMilli()
	}
	stored.Read = false

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, sender_id, receiver_id, listing_id, type, content, created_at, read)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)
	`, stored.ID, stored.SenderID, stored.ReceiverID, stored.ListingID, string(stored.Type), stored.Content, stored.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// MessageByID retrieves a message by ID.
func (s *SQLiteStore) MessageByID(ctx context.Context, id string) (*models.Message, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, sender_id, receiver_id, listing_id, type, content, created_at, read
		FROM messages WHERE id = ?
	`, id)
	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return msg, nil
}

// MessagesByParticipant retrieves every message the user sent or received,
// ascending by timestamp.
func (s *SQLiteStore) MessagesByParticipant(ctx context.Context, userID string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sender_id, receiver_id, listing_id, type, content, created_at, read
		FROM messages
		WHERE sender_id = ? OR receiver_id = ?
		ORDER BY created_at ASC
	`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

// ConversationBetween retrieves the messages two users exchanged about a
// listing, ascending by timestamp.
func (s *SQLiteStore) ConversationBetween(ctx context.Context, userA, userB, listingID string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sender_id, receiver_id, listing_id, type, content, created_at, read
		FROM messages
		WHERE listing_id = ?
		  AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))
		ORDER BY created_at ASC
	`, listingID, userA, userB, userB, userA)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

// MarkMessagesRead flips the read flag for the given messages. The flag is
// one-directional: nothing ever sets it back to false.
func (s *SQLiteStore) MarkMessagesRead(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE messages SET read = 1 WHERE id IN (%s)`, placeholders), args...)
	return err
}

// CountUnread returns the user's total unread message count.
func (s *SQLiteStore) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE receiver_id = ? AND read = 0`, userID).Scan(&count)
	return count, err
}

// CreateUser creates a user record.
func (s *SQLiteStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, avatar_url, governorate, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, stored.ID.String(), stored.Name, stored.AvatarURL, stored.Governorate, stored.Status, stored.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// UserByID retrieves a user by ID.
func (s *SQLiteStore) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u := &models.User{}
	var idStr string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, avatar_url, governorate, status, created_at
		FROM users WHERE id = ?
	`, id.String()).Scan(&idStr, &u.Name, &u.AvatarURL, &u.Governorate, &u.Status, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.ID = uuid.MustParse(idStr)
	return u, nil
}

// UsersByIDs retrieves the given users as a lookup map. Unknown IDs are
// simply absent from the result.
func (s *SQLiteStore) UsersByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	out := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, name, avatar_url, governorate, status, created_at
		FROM users WHERE id IN (%s)
	`, placeholders), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var u models.User
		var idStr string
		if err := rows.Scan(&idStr, &u.Name, &u.AvatarURL, &u.Governorate, &u.Status, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.ID = uuid.MustParse(idStr)
		out[idStr] = u
	}
	return out, rows.Err()
}

// CreateListing creates a listing record.
func (s *SQLiteStore) CreateListing(ctx context.Context, l *models.Listing) (*models.Listing, error) {
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

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO listings (id, owner_id, title, category, governorate, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, stored.ID.String(), stored.OwnerID.String(), stored.Title, stored.Category, stored.Governorate, stored.Status, stored.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListingByID retrieves a listing by ID.
func (s *SQLiteStore) ListingByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	l := &models.Listing{}
	var idStr, ownerStr string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, category, governorate, status, created_at
		FROM listings WHERE id = ?
	`, id.String()).Scan(&idStr, &ownerStr, &l.Title, &l.Category, &l.Governorate, &l.Status, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	l.ID = uuid.MustParse(idStr)
	l.OwnerID = uuid.MustParse(ownerStr)
	return l, nil
}

// ListingsByIDs retrieves the given listings as a lookup map.
func (s *SQLiteStore) ListingsByIDs(ctx context.Context, ids []string) (map[string]models.Listing, error) {
	out := make(map[string]models.Listing, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, owner_id, title, category, governorate, status, created_at
		FROM listings WHERE id IN (%s)
	`, placeholders), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var l models.Listing
		var idStr, ownerStr string
		if err := rows.Scan(&idStr, &ownerStr, &l.Title, &l.Category, &l.Governorate, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.ID = uuid.MustParse(idStr)
		l.OwnerID = uuid.MustParse(ownerStr)
		out[idStr] = l
	}
	return out, rows.Err()
}

// CountUsers returns the total number of users.
func (s *SQLiteStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// CountListings returns the total number of listings.
func (s *SQLiteStore) CountListings(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`).Scan(&count)
	return count, err
}

// CountMessages returns the total number of messages.
func (s *SQLiteStore) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count)
	return count, err
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMessage(row rowScanner) (*models.Message, error) {
	var (
		msg     models.Message
		typ     string
		readInt int
	)
	err := row.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.ListingID, &typ, &msg.Content, &msg.CreatedAt, &readInt)
	if err != nil {
		return nil, err
	}
	msg.Type = models.MessageType(typ)
	msg.Read = readInt == 1
	return &msg, nil
}

func collectMessages(rows *sql.Rows) ([]models.Message, error) {
	var out []models.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *msg)
	}
	return out, rows.Err()
}
