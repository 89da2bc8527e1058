package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/swapsouq/messaging/internal/models"
)

func appendText(t *testing.T, s *MemoryStore, sender, receiver, listing uuid.UUID, body string) *models.Message {
	t.Helper()
	stored, err := s.AppendMessage(context.Background(), &models.Message{
		SenderID:   sender.String(),
		ReceiverID: receiver.String(),
		ListingID:  listing.String(),
		Type:       models.MessageText,
		Content:    body,
	})
	if err != nil {
		t.Fatal(err)
	}
	return stored
}

func TestAppendAssignsIdentityAndClock(t *testing.T) {
	s := NewMemoryStore()
	a, b, l := uuid.New(), uuid.New(), uuid.New()

	first := appendText(t, s, a, b, l, "one")
	second := appendText(t, s, a, b, l, "two")

	if first.ID == "" || second.ID == "" {
		t.Fatal("expected store-assigned IDs")
	}
	if first.ID == second.ID {
		t.Fatal("IDs must be unique")
	}
	if second.CreatedAt <= first.CreatedAt {
		t.Fatalf("timestamps must be strictly increasing: %d then %d", first.CreatedAt, second.CreatedAt)
	}
	if first.Read {
		t.Fatal("new messages must start unread")
	}
}

func TestConversationBetweenIsSymmetricAndScoped(t *testing.T) {
	s := NewMemoryStore()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	l1, l2 := uuid.New(), uuid.New()

	appendText(t, s, a, b, l1, "about l1")
	appendText(t, s, b, a, l1, "reply about l1")
	appendText(t, s, a, b, l2, "about l2")
	appendText(t, s, a, c, l1, "different partner")

	fromA, err := s.ConversationBetween(context.Background(), a.String(), b.String(), l1.String())
	if err != nil {
		t.Fatal(err)
	}
	fromB, err := s.ConversationBetween(context.Background(), b.String(), a.String(), l1.String())
	if err != nil {
		t.Fatal(err)
	}
	if len(fromA) != 2 || len(fromB) != 2 {
		t.Fatalf("expected 2 messages from both directions, got %d / %d", len(fromA), len(fromB))
	}
}

func TestMarkMessagesReadAndCountUnread(t *testing.T) {
	s := NewMemoryStore()
	a, b, l := uuid.New(), uuid.New(), uuid.New()

	m1 := appendText(t, s, a, b, l, "one")
	m2 := appendText(t, s, a, b, l, "two")
	appendText(t, s, b, a, l, "reply")

	count, err := s.CountUnread(context.Background(), b.String())
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("expected 2 unread, got %d", count)
	}

	if err := s.MarkMessagesRead(context.Background(), []string{m1.ID, m2.ID}); err != nil {
		t.Fatal(err)
	}

	count, _ = s.CountUnread(context.Background(), b.String())
	if count != 0 {
		t.Fatalf("expected 0 unread after mark, got %d", count)
	}

	// The other direction is untouched.
	count, _ = s.CountUnread(context.Background(), a.String())
	if count != 1 {
		t.Fatalf("expected 1 unread for the sender, got %d", count)
	}
}

func TestMessagesByParticipant(t *testing.T) {
	s := NewMemoryStore()
	a, b, c, l := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	appendText(t, s, a, b, l, "a to b")
	appendText(t, s, b, a, l, "b to a")
	appendText(t, s, b, c, l, "b to c")

	msgs, err := s.MessagesByParticipant(context.Background(), a.String())
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages for a, got %d", len(msgs))
	}

	msgs, _ = s.MessagesByParticipant(context.Background(), b.String())
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages for b, got %d", len(msgs))
	}
}

func TestDirectoryLookups(t *testing.T) {
	s := NewMemoryStore()

	user, err := s.CreateUser(context.Background(), &models.User{Name: "Alice"})
	if err != nil {
		t.Fatal(err)
	}
	if user.Status != models.UserActive {
		t.Fatalf("expected active default, got %q", user.Status)
	}

	listing, err := s.CreateListing(context.Background(), &models.Listing{OwnerID: user.ID, Title: "Bike"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.UserByID(context.Background(), user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Name != "Alice" {
		t.Fatalf("lookup failed: %+v", got)
	}

	missing, err := s.UserByID(context.Background(), uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Fatal("expected nil for unknown user")
	}

	users, err := s.UsersByIDs(context.Background(), []string{user.ID.String(), uuid.New().String()})
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 resolvable user, got %d", len(users))
	}

	listings, err := s.ListingsByIDs(context.Background(), []string{listing.ID.String()})
	if err != nil {
		t.Fatal(err)
	}
	if listings[listing.ID.String()].Title != "Bike" {
		t.Fatalf("listing lookup failed: %+v", listings)
	}
}

func TestCounts(t *testing.T) {
	s := NewMemoryStore()
	a, _ := s.CreateUser(context.Background(), &models.User{Name: "A"})
	b, _ := s.CreateUser(context.Background(), &models.User{Name: "B"})
	l, _ := s.CreateListing(context.Background(), &models.Listing{OwnerID: a.ID, Title: "X"})
	appendText(t, s, a.ID, b.ID, l.ID, "hi")

	if n, _ := s.CountUsers(context.Background()); n != 2 {
		t.Fatalf("expected 2 users, got %d", n)
	}
	if n, _ := s.CountListings(context.Background()); n != 1 {
		t.Fatalf("expected 1 listing, got %d", n)
	}
	if n, _ := s.CountMessages(context.Background()); n != 1 {
		t.Fatalf("expected 1 message, got %d", n)
	}
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("Is the Mountain BIKE still available? bike?")
	want := map[string]bool{"the": true, "mountain": true, "bike": true, "still": true, "available": true}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %v", len(want), tokens)
	}
	for _, tok := range tokens {
		if !want[tok] {
			t.Fatalf("unexpected token %q", tok)
		}
	}
}
