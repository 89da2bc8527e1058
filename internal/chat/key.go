// Package chat derives conversation views from the message collection and
// coordinates composing, sending and read-state bookkeeping. All derivations
// are pure functions over a snapshot of messages; the stores own the data.
package chat

import "github.com/swapsouq/messaging/internal/models"

// ConversationKey identifies one thread from a viewer's perspective. Two
// messages belong to the same conversation iff they share this key: the same
// pair of users can hold independent conversations about different listings.
type ConversationKey struct {
	PartnerID string
	ListingID string
}

// KeyOf returns the conversation key of msg as seen by viewerID. The second
// return is false when the viewer is neither sender nor receiver.
func KeyOf(msg models.Message, viewerID string) (ConversationKey, bool) {
	switch viewerID {
	case msg.SenderID:
		return ConversationKey{PartnerID: msg.ReceiverID, ListingID: msg.ListingID}, true
	case msg.ReceiverID:
		return ConversationKey{PartnerID: msg.SenderID, ListingID: msg.ListingID}, true
	}
	return ConversationKey{}, false
}
