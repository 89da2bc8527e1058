package media

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeDataURL(t *testing.T) {
	payload := []byte("fake-image-bytes")
	url := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	mimeType, decoded, err := DecodeDataURL(url)
	if err != nil {
		t.Fatal(err)
	}
	if mimeType != "image/png" {
		t.Fatalf("expected image/png, got %q", mimeType)
	}
	if string(decoded) != "fake-image-bytes" {
		t.Fatalf("payload mangled: %q", decoded)
	}
}

func TestDecodeDataURLRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"http://example.com/image.png",
		"data:image/png",                   // no payload
		"data:image/png;base64,!!!not64!!", // bad base64
		"data:image/png;url,abcd",          // wrong encoding marker
	}
	for _, input := range cases {
		if _, _, err := DecodeDataURL(input); !errors.Is(err, ErrInvalidDataURL) {
			t.Fatalf("input %q: expected ErrInvalidDataURL, got %v", input, err)
		}
	}
}

func TestAllowedType(t *testing.T) {
	if !AllowedType(KindImage, "image/jpeg") {
		t.Fatal("image/jpeg should be allowed for images")
	}
	if AllowedType(KindImage, "audio/webm") {
		t.Fatal("audio type must not pass as image")
	}
	if !AllowedType(KindAudio, "audio/webm;codecs=opus") {
		t.Fatal("opus audio should be allowed")
	}
	if !AllowedType(KindAudio, "video/webm") {
		t.Fatal("webm container recordings should be allowed as audio")
	}
	if AllowedType(KindAudio, "application/octet-stream") {
		t.Fatal("arbitrary binaries must not pass as audio")
	}
	if AllowedType("document", "application/pdf") {
		t.Fatal("unknown kinds must not be allowed")
	}
}

func TestDiskStoreUpload(t *testing.T) {
	root := t.TempDir()
	ds, err := NewDiskStore(root, "/media", 1<<20)
	if err != nil {
		t.Fatal(err)
	}

	url, err := ds.Upload(context.Background(), []byte("opus-bytes"), KindAudio)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "/media/audio/") {
		t.Fatalf("unexpected URL %q", url)
	}

	name := strings.TrimPrefix(url, "/media/audio/")
	data, err := os.ReadFile(filepath.Join(root, KindAudio, name))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "opus-bytes" {
		t.Fatalf("stored payload mangled: %q", data)
	}
}

func TestDiskStoreRejectsOversizedPayload(t *testing.T) {
	ds, err := NewDiskStore(t.TempDir(), "/media", 8)
	if err != nil {
		t.Fatal(err)
	}

	_, err = ds.Upload(context.Background(), []byte("way too many bytes"), KindImage)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestDiskStoreRejectsUnknownKind(t *testing.T) {
	ds, err := NewDiskStore(t.TempDir(), "/media", 0)
	if err != nil {
		t.Fatal(err)
	}

	_, err = ds.Upload(context.Background(), []byte("x"), "document")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestDiskStoreUniqueNames(t *testing.T) {
	ds, err := NewDiskStore(t.TempDir(), "/media", 0)
	if err != nil {
		t.Fatal(err)
	}

	a, err := ds.Upload(context.Background(), []byte("one"), KindImage)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ds.Upload(context.Background(), []byte("two"), KindImage)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("two uploads share a URL: %q", a)
	}
}
