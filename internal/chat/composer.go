package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/swapsouq/messaging/internal/models"
)

// Appender stores outbound messages, assigning ID and CreatedAt.
type Appender interface {
	AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error)
}

// Uploader moves a raw media payload to durable storage and returns the URL
// the stored message will carry. Kind is "image" or "audio".
type Uploader interface {
	Upload(ctx context.Context, payload []byte, kind string) (string, error)
}

// Conversation is the identity triple every compose operation requires.
type Conversation struct {
	ViewerID  string
	PartnerID string
	ListingID string
}

// Composer turns user input into stored messages of a tagged type. It never
// inserts anything before the store confirms creation, so a failed send
// leaves the conversation unchanged.
type Composer struct {
	store Appender
	media Uploader
}

// NewComposer creates a Composer over the given store and media uploader.
func NewComposer(store Appender, media Uploader) *Composer {
	return &Composer{store: store, media: media}
}

// ComposeText stores a text message. Bodies that are empty after trimming
// are rejected with ErrEmptyMessage and cause no store call.
func (c *Composer) ComposeText(ctx context.Context, conv Conversation, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}
	return c.append(ctx, conv, models.MessageText, body)
}

// ComposeImage uploads an image payload and stores a message pointing at it.
func (c *Composer) ComposeImage(ctx context.Context, conv Conversation, payload []byte) (*models.Message, error) {
	url, err := c.media.Upload(ctx, payload, "image")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	return c.append(ctx, conv, models.MessageImage, url)
}

// ComposeAudio uploads a finalized recording and stores a message pointing
// at it. The recorder guarantees the payload is above the minimum size.
func (c *Composer) ComposeAudio(ctx context.Context, conv Conversation, payload []byte) (*models.Message, error) {
	url, err := c.media.Upload(ctx, payload, "audio")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	return c.append(ctx, conv, models.MessageAudio, url)
}

func (c *Composer) append(ctx context.Context, conv Conversation, typ models.MessageType, content string) (*models.Message, error) {
	msg := &models.Message{
		SenderID:   conv.ViewerID,
		ReceiverID: conv.PartnerID,
		ListingID:  conv.ListingID,
		Type:       typ,
		Content:    content,
	}
	stored, err := c.store.AppendMessage(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return stored, nil
}
