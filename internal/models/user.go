package models

import (
	"time"

	"github.com/google/uuid"
)

// User statuses.
const (
	UserActive = "active"
	UserBanned = "banned"
)

// User is a marketplace member. Account management lives outside this
// service; users exist here as conversation participants.
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Governorate string    `json:"governorate,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
