package models

import (
	"time"

	"github.com/google/uuid"
)

// Listing statuses.
const (
	ListingActive = "active"
	ListingTraded = "traded"
)

// Listing is a barter offer. Listing CRUD lives outside this service;
// listings exist here because every conversation is about one of them.
type Listing struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	Category    string    `json:"category,omitempty"`
	Governorate string    `json:"governorate,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
