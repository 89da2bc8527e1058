package chat

import (
	"testing"

	"github.com/google/uuid"

	"github.com/swapsouq/messaging/internal/models"
)

var (
	alice   = uuid.New().String()
	bob     = uuid.New().String()
	carol   = uuid.New().String()
	bike    = uuid.New().String()
	guitar  = uuid.New().String()
	nextSeq int64
)

func msg(t *testing.T, sender, receiver, listing, body string) models.Message {
	t.Helper()
	nextSeq++
	return models.Message{
		ID:         uuid.New().String(),
		SenderID:   sender,
		ReceiverID: receiver,
		ListingID:  listing,
		Type:       models.MessageText,
		Content:    body,
		CreatedAt:  nextSeq,
	}
}

func lookups(t *testing.T) (map[string]models.User, map[string]models.Listing) {
	t.Helper()
	users := map[string]models.User{
		alice: {ID: uuid.MustParse(alice), Name: "Alice"},
		bob:   {ID: uuid.MustParse(bob), Name: "Bob"},
		carol: {ID: uuid.MustParse(carol), Name: "Carol"},
	}
	listings := map[string]models.Listing{
		bike:   {ID: uuid.MustParse(bike), Title: "Mountain bike"},
		guitar: {ID: uuid.MustParse(guitar), Title: "Acoustic guitar"},
	}
	return users, listings
}

func TestInboxPartitionsByPartnerAndListing(t *testing.T) {
	users, listings := lookups(t)

	// Same pair of users, two different listings: two conversations.
	messages := []models.Message{
		msg(t, bob, alice, bike, "is the bike available?"),
		msg(t, bob, alice, guitar, "does the guitar come with a case?"),
		msg(t, alice, bob, bike, "yes, still here"),
	}

	entries := BuildInbox(messages, alice, users, listings)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Partner.Name != "Bob" {
			t.Fatalf("expected partner Bob, got %q", e.Partner.Name)
		}
	}
	if entries[0].Listing.Title != "Mountain bike" {
		t.Fatalf("expected bike conversation first (latest activity), got %q", entries[0].Listing.Title)
	}
}

func TestInboxNewestFirstWithLastMessage(t *testing.T) {
	users, listings := lookups(t)

	messages := []models.Message{
		msg(t, bob, alice, bike, "first"),
		msg(t, carol, alice, guitar, "second"),
		msg(t, bob, alice, bike, "third"),
	}

	entries := BuildInbox(messages, alice, users, listings)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Partner.Name != "Bob" || entries[0].LastMessage.Content != "third" {
		t.Fatalf("expected Bob's conversation first with last message 'third', got %q / %q",
			entries[0].Partner.Name, entries[0].LastMessage.Content)
	}
	if entries[1].LastMessage.Content != "second" {
		t.Fatalf("expected 'second' as Carol's last message, got %q", entries[1].LastMessage.Content)
	}
}

func TestInboxUnreadCountsReceivedOnly(t *testing.T) {
	users, listings := lookups(t)

	read := msg(t, bob, alice, bike, "old news")
	read.Read = true
	messages := []models.Message{
		read,
		msg(t, bob, alice, bike, "unread one"),
		msg(t, bob, alice, bike, "unread two"),
		msg(t, alice, bob, bike, "my own reply"),
	}

	entries := BuildInbox(messages, alice, users, listings)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Unread != 2 {
		t.Fatalf("expected 2 unread, got %d", entries[0].Unread)
	}

	// The same snapshot from Bob's perspective: Alice's reply is unread.
	entries = BuildInbox(messages, bob, users, listings)
	if entries[0].Unread != 1 {
		t.Fatalf("expected 1 unread for bob, got %d", entries[0].Unread)
	}
}

func TestInboxSkipsUnresolvableReferences(t *testing.T) {
	users, listings := lookups(t)
	ghost := uuid.New().String()

	messages := []models.Message{
		msg(t, bob, alice, bike, "fine"),
		msg(t, ghost, alice, bike, "from a deleted account"),
		msg(t, bob, alice, uuid.New().String(), "about a deleted listing"),
	}

	entries := BuildInbox(messages, alice, users, listings)
	if len(entries) != 1 {
		t.Fatalf("expected only the resolvable conversation, got %d entries", len(entries))
	}
	if entries[0].LastMessage.Content != "fine" {
		t.Fatalf("unexpected last message %q", entries[0].LastMessage.Content)
	}
}

func TestInboxIgnoresMessagesOfOtherViewers(t *testing.T) {
	users, listings := lookups(t)

	messages := []models.Message{
		msg(t, bob, carol, bike, "not alice's business"),
	}

	if entries := BuildInbox(messages, alice, users, listings); len(entries) != 0 {
		t.Fatalf("expected empty inbox, got %d entries", len(entries))
	}
}

func TestInboxEmptySnapshot(t *testing.T) {
	users, listings := lookups(t)
	if entries := BuildInbox(nil, alice, users, listings); len(entries) != 0 {
		t.Fatalf("expected empty inbox, got %d entries", len(entries))
	}
}

func TestKeyOfSymmetry(t *testing.T) {
	m := msg(t, alice, bob, bike, "hey")

	fromAlice, ok := KeyOf(m, alice)
	if !ok || fromAlice.PartnerID != bob {
		t.Fatalf("expected bob as partner for alice, got %+v ok=%v", fromAlice, ok)
	}
	fromBob, ok := KeyOf(m, bob)
	if !ok || fromBob.PartnerID != alice {
		t.Fatalf("expected alice as partner for bob, got %+v ok=%v", fromBob, ok)
	}
	if _, ok := KeyOf(m, carol); ok {
		t.Fatal("carol is not a participant, expected no key")
	}
}
