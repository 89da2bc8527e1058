package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
)

// DiskStore writes uploads beneath a root directory, one subdirectory per
// kind, and returns URLs under a base path the router serves statically.
type DiskStore struct {
	root     string
	baseURL  string
	maxBytes int
}

// NewDiskStore creates the storage directories and returns a DiskStore.
// maxBytes caps a single payload; zero means no cap.
func NewDiskStore(root, baseURL string, maxBytes int) (*DiskStore, error) {
	for _, kind := range []string{KindImage, KindAudio} {
		if err := os.MkdirAll(filepath.Join(root, kind), 0o755); err != nil {
			return nil, fmt.Errorf("media: create storage dir: %w", err)
		}
	}
	return &DiskStore{root: root, baseURL: baseURL, maxBytes: maxBytes}, nil
}

// Upload writes the payload under a ULID name and returns its URL.
func (s *DiskStore) Upload(ctx context.Context, payload []byte, kind string) (string, error) {
	if kind != KindImage && kind != KindAudio {
		return "", fmt.Errorf("%w: unknown kind %q", ErrUnsupportedType, kind)
	}
	if s.maxBytes > 0 && len(payload) > s.maxBytes {
		return "", ErrPayloadTooLarge
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := ulid.Make().String()
	path := filepath.Join(s.root, kind, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("media: write payload: %w", err)
	}
	return s.baseURL + "/" + kind + "/" + name, nil
}
