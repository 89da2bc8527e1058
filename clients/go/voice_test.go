package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/swapsouq/messaging/internal/audio"
)

func writeRecording(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRecordVoiceFromFile(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 3*voiceChunkSize+17)
	path := writeRecording(t, "note.webm", data)

	payload, mime, err := recordVoice(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if mime != "audio/webm" {
		t.Fatalf("mime = %q", mime)
	}
	if !bytes.Equal(payload, data) {
		t.Fatalf("payload length %d, want %d", len(payload), len(data))
	}
}

func TestRecordVoiceTooShort(t *testing.T) {
	path := writeRecording(t, "blip.webm", []byte{0x01, 0x02, 0x03})

	_, _, err := recordVoice(context.Background(), path)
	if !errors.Is(err, audio.ErrRecordingTooShort) {
		t.Fatalf("expected ErrRecordingTooShort, got %v", err)
	}
}

func TestRecordVoiceMissingFile(t *testing.T) {
	_, _, err := recordVoice(context.Background(), filepath.Join(t.TempDir(), "absent.ogg"))
	if !errors.Is(err, audio.ErrMicrophoneUnavailable) {
		t.Fatalf("expected ErrMicrophoneUnavailable, got %v", err)
	}
}

func TestMimeForFile(t *testing.T) {
	cases := map[string]string{
		"note.webm": "audio/webm",
		"note.m4a":  "audio/mp4",
		"note.MP4":  "audio/mp4",
		"note.opus": "audio/ogg;codecs=opus",
		"note":      "audio/webm",
	}
	for path, want := range cases {
		if got := mimeForFile(path); got != want {
			t.Fatalf("mimeForFile(%q) = %q, want %q", path, got, want)
		}
	}
}
