package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/swapsouq/messaging/internal/audio"
)

// voiceChunkSize mirrors the chunk cadence of a live encoder so the recorder
// assembles the payload the same way it would from a microphone.
const voiceChunkSize = 32 * 1024

// fileDevice is an audio.Device backed by a pre-encoded file. It stands in
// for a microphone on headless clients: the recorder drives the same
// lifecycle, the chunks just come from disk.
type fileDevice struct {
	path string
	mime string
}

func (d *fileDevice) Supports(format string) bool {
	return format == d.mime
}

func (d *fileDevice) Acquire(ctx context.Context, format string) (audio.Stream, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return nil, err
	}
	return newFileStream(data), nil
}

// fileStream delivers the file contents in encoder-sized chunks. The channel
// is filled and closed up front, so the recorder's collector drains it fully
// before Stop returns.
type fileStream struct {
	ch chan []byte
}

func newFileStream(data []byte) *fileStream {
	n := len(data)/voiceChunkSize + 1
	ch := make(chan []byte, n)
	for off := 0; off < len(data); off += voiceChunkSize {
		end := off + voiceChunkSize
		if end > len(data) {
			end = len(data)
		}
		ch <- data[off:end]
	}
	close(ch)
	return &fileStream{ch: ch}
}

func (s *fileStream) Chunks() <-chan []byte { return s.ch }

// Close is a no-op: the chunk channel is closed at construction.
func (s *fileStream) Close() error { return nil }

// mimeForFile maps a recording file extension onto the served MIME type.
func mimeForFile(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".m4a":
		return "audio/mp4"
	case ".ogg", ".opus":
		return "audio/ogg;codecs=opus"
	default:
		return "audio/webm"
	}
}

// recordVoice runs a pre-encoded file through the capture lifecycle and
// returns the finalized payload with its MIME type.
func recordVoice(ctx context.Context, path string) ([]byte, string, error) {
	mime := mimeForFile(path)
	rec := audio.NewRecorder(&fileDevice{path: path, mime: mime})
	if err := rec.Start(ctx); err != nil {
		return nil, "", err
	}
	payload, err := rec.Stop(true)
	if err != nil {
		return nil, "", err
	}
	return payload, mime, nil
}
