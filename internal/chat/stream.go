package chat

import (
	"sort"

	"github.com/swapsouq/messaging/internal/models"
)

// ConversationMessages returns the ascending-by-CreatedAt subsequence of
// messages belonging to the (viewer, partner, listing) conversation. The
// input may be any superset of the conversation, in any order.
func ConversationMessages(messages []models.Message, viewerID, partnerID, listingID string) []models.Message {
	var out []models.Message
	for _, m := range messages {
		if m.ListingID != listingID {
			continue
		}
		if (m.SenderID == viewerID && m.ReceiverID == partnerID) ||
			(m.SenderID == partnerID && m.ReceiverID == viewerID) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out
}

// UnreadIDs returns the IDs of messages in the conversation slice that the
// viewer received and has not read yet.
func UnreadIDs(messages []models.Message, viewerID string) []string {
	var ids []string
	for _, m := range messages {
		if m.ReceiverID == viewerID && !m.Read {
			ids = append(ids, m.ID)
		}
	}
	return ids
}
