package models

// MessageType discriminates what Content carries.
type MessageType string

const (
	MessageText  MessageType = "text"  // Content is the message body
	MessageImage MessageType = "image" // Content is a stored media URL
	MessageAudio MessageType = "audio" // Content is a stored media URL
)

// Valid reports whether t is one of the known message types.
func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageImage, MessageAudio:
		return true
	}
	return false
}

// Message is one chat message exchanged about a listing. Immutable once
// stored except for the Read flag, which only the receiver flips.
type Message struct {
	ID         string      `json:"id"`          // ULID, store-assigned
	SenderID   string      `json:"sender_id"`   // User UUID
	ReceiverID string      `json:"receiver_id"` // User UUID
	ListingID  string      `json:"listing_id"`  // Listing UUID
	Type       MessageType `json:"type"`
	Content    string      `json:"content"`
	CreatedAt  int64       `json:"ts"` // Unix ms, store-assigned
	Read       bool        `json:"read"`
}
