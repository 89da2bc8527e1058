package chat

import (
	"testing"

	"github.com/swapsouq/messaging/internal/models"
)

func TestConversationMessagesFiltersAndSorts(t *testing.T) {
	m1 := msg(t, bob, alice, bike, "one")
	m2 := msg(t, alice, bob, bike, "two")
	m3 := msg(t, bob, alice, guitar, "other listing")
	m4 := msg(t, carol, alice, bike, "other partner")
	m5 := msg(t, bob, alice, bike, "three")

	// Deliberately out of order.
	snapshot := []models.Message{m5, m3, m1, m4, m2}

	out := ConversationMessages(snapshot, alice, bob, bike)
	if len(out) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(out))
	}
	for i, want := range []string{"one", "two", "three"} {
		if out[i].Content != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, out[i].Content)
		}
	}
}

func TestConversationMessagesEmpty(t *testing.T) {
	if out := ConversationMessages(nil, alice, bob, bike); len(out) != 0 {
		t.Fatalf("expected empty stream, got %d", len(out))
	}
}

func TestUnreadIDsViewerReceivedOnly(t *testing.T) {
	m1 := msg(t, bob, alice, bike, "unread")
	m2 := msg(t, bob, alice, bike, "already read")
	m2.Read = true
	m3 := msg(t, alice, bob, bike, "sent by viewer")

	ids := UnreadIDs([]models.Message{m1, m2, m3}, alice)
	if len(ids) != 1 || ids[0] != m1.ID {
		t.Fatalf("expected only %s unread, got %v", m1.ID, ids)
	}
}
