// Package media moves raw message attachments to durable storage. The
// service accepts media the way the web client produces it — as data URLs
// inside the JSON body — decodes them here and hands the bytes to an
// Uploader.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Media kinds accepted for upload.
const (
	KindImage = "image"
	KindAudio = "audio"
)

var (
	// ErrPayloadTooLarge is returned when a decoded payload exceeds the
	// configured size cap.
	ErrPayloadTooLarge = errors.New("media: payload too large")

	// ErrUnsupportedType is returned when the declared MIME type does not
	// match the message kind.
	ErrUnsupportedType = errors.New("media: unsupported content type")

	// ErrInvalidDataURL is returned when a payload is not a well-formed
	// base64 data URL.
	ErrInvalidDataURL = errors.New("media: invalid data URL")
)

// Uploader stores a raw media payload durably and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, payload []byte, kind string) (string, error)
}

// DecodeDataURL splits a "data:<mime>;base64,<data>" URL into its MIME type
// and decoded payload.
func DecodeDataURL(s string) (mimeType string, payload []byte, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	meta, data, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	mimeType, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return "", nil, fmt.Errorf("%w: expected base64 encoding", ErrInvalidDataURL)
	}
	payload, err = base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return mimeType, payload, nil
}

// AllowedType reports whether mimeType is acceptable for the given kind:
// image/* for images, audio/* (plus video/webm containers some recorders
// emit) for audio.
func AllowedType(kind, mimeType string) bool {
	switch kind {
	case KindImage:
		return strings.HasPrefix(mimeType, "image/")
	case KindAudio:
		return strings.HasPrefix(mimeType, "audio/") || strings.HasPrefix(mimeType, "video/webm")
	}
	return false
}
