package chat

import (
	"sort"

	"github.com/swapsouq/messaging/internal/models"
)

// InboxEntry is one derived row of the conversation list: the partner and
// listing for a conversation key, the newest message under that key, and the
// viewer's unread count. Entries are ephemeral and recomputed per snapshot.
type InboxEntry struct {
	Partner     models.User
	Listing     models.Listing
	LastMessage models.Message
	Unread      int
}

// BuildInbox derives one entry per distinct conversation key from the
// messages the viewer participates in, newest last-message first. Messages
// whose partner or listing cannot be resolved through the lookup maps are
// skipped: their key cannot be formed, which is a defined degradation rather
// than an error. Equal timestamps keep input (store-assignment) order.
func BuildInbox(messages []models.Message, viewerID string, usersByID map[string]models.User, listingsByID map[string]models.Listing) []InboxEntry {
	byKey := make(map[ConversationKey]*InboxEntry)
	var order []ConversationKey

	for _, msg := range messages {
		key, ok := KeyOf(msg, viewerID)
		if !ok {
			continue
		}
		partner, ok := usersByID[key.PartnerID]
		if !ok {
			continue
		}
		listing, ok := listingsByID[key.ListingID]
		if !ok {
			continue
		}

		entry := byKey[key]
		if entry == nil {
			entry = &InboxEntry{Partner: partner, Listing: listing, LastMessage: msg}
			byKey[key] = entry
			order = append(order, key)
		} else if msg.CreatedAt > entry.LastMessage.CreatedAt {
			entry.LastMessage = msg
		}
		if msg.ReceiverID == viewerID && !msg.Read {
			entry.Unread++
		}
	}

	entries := make([]InboxEntry, 0, len(order))
	for _, key := range order {
		entries = append(entries, *byKey[key])
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastMessage.CreatedAt > entries[j].LastMessage.CreatedAt
	})
	return entries
}
