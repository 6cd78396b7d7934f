package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aviscan-ph/aviscan/internal/media"
)

func init() {
	media.Register("local", New)
}

// Store writes images to a local directory served statically by the HTTP
// server under /uploads. Suitable for single-node deployments; the directory
// is the durable copy, not a staging area.
type Store struct {
	dir     string
	baseURL string
}

// New creates a local media store, creating the upload directory if needed.
func New(cfg media.Config) (media.Store, error) {
	dir := cfg.UploadDir
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local media: failed to create upload dir: %w", err)
	}
	return &Store{
		dir:     dir,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// Upload writes the bytes under the given name and returns the URL the
// server resolves for it. Write failures map to media.ErrUnavailable.
func (s *Store) Upload(ctx context.Context, data []byte, name, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Object names come from media.UniqueName, but never trust them as paths.
	name = filepath.Base(name)

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", media.ErrUnavailable, err)
	}

	return s.baseURL + "/uploads/" + name, nil
}

// Dir returns the directory served under /uploads.
func (s *Store) Dir() string {
	return s.dir
}
