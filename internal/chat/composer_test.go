package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/swapsouq/messaging/internal/models"
	"github.com/swapsouq/messaging/internal/store"
)

type countingAppender struct {
	inner   *store.MemoryStore
	appends int
}

func (a *countingAppender) AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	a.appends++
	return a.inner.AppendMessage(ctx, msg)
}

type fakeUploader struct {
	url     string
	err     error
	uploads int
}

func (u *fakeUploader) Upload(ctx context.Context, payload []byte, kind string) (string, error) {
	u.uploads++
	if u.err != nil {
		return "", u.err
	}
	return u.url + "/" + kind, nil
}

func testConversation() Conversation {
	return Conversation{ViewerID: alice, PartnerID: bob, ListingID: bike}
}

func TestComposeTextTrimsBody(t *testing.T) {
	appender := &countingAppender{inner: store.NewMemoryStore()}
	c := NewComposer(appender, &fakeUploader{})

	stored, err := c.ComposeText(context.Background(), testConversation(), "  hello there  ")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Content != "hello there" {
		t.Fatalf("expected trimmed body, got %q", stored.Content)
	}
	if stored.Type != models.MessageText {
		t.Fatalf("expected text type, got %q", stored.Type)
	}
	if stored.ID == "" || stored.CreatedAt == 0 {
		t.Fatal("expected store-assigned ID and timestamp")
	}
	if stored.SenderID != alice || stored.ReceiverID != bob || stored.ListingID != bike {
		t.Fatalf("conversation scope not carried: %+v", stored)
	}
}

func TestComposeTextWhitespaceIsNoOp(t *testing.T) {
	appender := &countingAppender{inner: store.NewMemoryStore()}
	c := NewComposer(appender, &fakeUploader{})

	for _, body := range []string{"", "   ", "\n\t  \n"} {
		_, err := c.ComposeText(context.Background(), testConversation(), body)
		if !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("body %q: expected ErrEmptyMessage, got %v", body, err)
		}
	}
	if appender.appends != 0 {
		t.Fatalf("expected no store calls, got %d", appender.appends)
	}
}

func TestComposeImageStoresUploadedURL(t *testing.T) {
	appender := &countingAppender{inner: store.NewMemoryStore()}
	c := NewComposer(appender, &fakeUploader{url: "/media"})

	stored, err := c.ComposeImage(context.Background(), testConversation(), []byte("png-bytes"))
	if err != nil {
		t.Fatal(err)
	}
	if stored.Type != models.MessageImage {
		t.Fatalf("expected image type, got %q", stored.Type)
	}
	if stored.Content != "/media/image" {
		t.Fatalf("expected stored URL, got %q", stored.Content)
	}
}

func TestComposeAudioUploadFailureCreatesNothing(t *testing.T) {
	appender := &countingAppender{inner: store.NewMemoryStore()}
	uploader := &fakeUploader{err: errors.New("disk full")}
	c := NewComposer(appender, uploader)

	_, err := c.ComposeAudio(context.Background(), testConversation(), []byte("opus-bytes"))
	if !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	if appender.appends != 0 {
		t.Fatalf("upload failed but store was called %d times", appender.appends)
	}
}

func TestComposeAppendFailureReportsSendFailed(t *testing.T) {
	c := NewComposer(failingAppender{}, &fakeUploader{url: "/media"})

	_, err := c.ComposeText(context.Background(), testConversation(), "hello")
	if !errors.Is(err, ErrSendFailed) {
		t.Fatalf("expected ErrSendFailed, got %v", err)
	}
}

type failingAppender struct{}

func (failingAppender) AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	return nil, errors.New("connection reset")
}
