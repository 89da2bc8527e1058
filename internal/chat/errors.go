package chat

import "errors"

var (
	// ErrEmptyMessage is returned when a text body is empty after trimming.
	ErrEmptyMessage = errors.New("chat: empty message body")

	// ErrNoActiveConversation is returned when a send is attempted outside
	// the Conversation state. Reaching it indicates a caller bug.
	ErrNoActiveConversation = errors.New("chat: no active conversation")

	// ErrUploadFailed wraps media-storage failures. No message is created;
	// the caller may retry the whole send.
	ErrUploadFailed = errors.New("chat: media upload failed")

	// ErrSendFailed wraps store append failures. Nothing was inserted
	// optimistically, so there is no local state to roll back.
	ErrSendFailed = errors.New("chat: message append failed")
)
