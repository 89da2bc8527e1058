package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/swapsouq/messaging/internal/metrics"
	"github.com/swapsouq/messaging/internal/models"
)

// SessionState is the coordinator state: the viewer is either looking at the
// inbox or inside one conversation.
type SessionState int

const (
	StateInbox SessionState = iota
	StateConversation
)

func (s SessionState) String() string {
	if s == StateConversation {
		return "conversation"
	}
	return "inbox"
}

// Store is the message-store contract a session needs.
type Store interface {
	Appender
	ConversationBetween(ctx context.Context, userA, userB, listingID string) ([]models.Message, error)
	MarkMessagesRead(ctx context.Context, ids []string) error
}

// Session coordinates the inbox ⇄ conversation transitions for one viewer
// and owns the mark-read side effect. Sends are delegated to the Composer
// and are only valid while a conversation is open.
type Session struct {
	mu       sync.Mutex
	state    SessionState
	viewer   models.User
	partner  *models.User
	listing  *models.Listing
	store    Store
	composer *Composer
	logger   zerolog.Logger
}

// NewSession creates a session for viewer in the Inbox state.
func NewSession(viewer models.User, store Store, composer *Composer, logger zerolog.Logger) *Session {
	return &Session{
		state:    StateInbox,
		viewer:   viewer,
		store:    store,
		composer: composer,
		logger:   logger,
	}
}

// State returns the current coordinator state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OpenConversation transitions to the Conversation state for (partner,
// listing) and returns the ascending message stream. Unread messages from
// the partner are marked read as a side effect; a mark-read failure is
// logged and counted but never returned, since the messages stay unread in
// the store and the next open will try again.
func (s *Session) OpenConversation(ctx context.Context, partner models.User, listing models.Listing) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	viewerID := s.viewer.ID.String()
	partnerID := partner.ID.String()
	listingID := listing.ID.String()

	msgs, err := s.store.ConversationBetween(ctx, viewerID, partnerID, listingID)
	if err != nil {
		return nil, err
	}
	msgs = ConversationMessages(msgs, viewerID, partnerID, listingID)

	if unread := UnreadIDs(msgs, viewerID); len(unread) > 0 {
		if err := s.store.MarkMessagesRead(ctx, unread); err != nil {
			metrics.MarkReadFailures.Inc()
			s.logger.Warn().
				Err(err).
				Str("partner", partnerID).
				Str("listing", listingID).
				Int("count", len(unread)).
				Msg("mark read failed")
		} else {
			for i := range msgs {
				if msgs[i].ReceiverID == viewerID {
					msgs[i].Read = true
				}
			}
		}
	}

	s.state = StateConversation
	s.partner = &partner
	s.listing = &listing
	return msgs, nil
}

// CloseConversation returns to the Inbox state and discards the conversation
// context. Closing while already in the inbox is a no-op.
func (s *Session) CloseConversation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateInbox
	s.partner = nil
	s.listing = nil
}

// SendMessage composes and stores a message of the given kind in the open
// conversation. Payload is the text body for text messages and the raw media
// bytes for image and audio. Only valid in the Conversation state.
func (s *Session) SendMessage(ctx context.Context, kind models.MessageType, payload []byte) (*models.Message, error) {
	s.mu.Lock()
	if s.state != StateConversation || s.partner == nil || s.listing == nil {
		s.mu.Unlock()
		return nil, ErrNoActiveConversation
	}
	conv := Conversation{
		ViewerID:  s.viewer.ID.String(),
		PartnerID: s.partner.ID.String(),
		ListingID: s.listing.ID.String(),
	}
	s.mu.Unlock()

	switch kind {
	case models.MessageText:
		return s.composer.ComposeText(ctx, conv, string(payload))
	case models.MessageImage:
		return s.composer.ComposeImage(ctx, conv, payload)
	case models.MessageAudio:
		return s.composer.ComposeAudio(ctx, conv, payload)
	default:
		return nil, fmt.Errorf("chat: unknown message type %q", kind)
	}
}
