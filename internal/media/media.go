package media

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnavailable indicates the backing store could not be reached.
var ErrUnavailable = errors.New("media: store unavailable")

// ErrUploadRejected indicates the store reported a non-success response.
var ErrUploadRejected = errors.New("media: upload rejected")

// Store persists uploaded image bytes and returns a stable, publicly
// resolvable URL. A scan is not complete without a media reference, so
// callers must treat any Upload error as a failure of the whole request.
type Store interface {
	Upload(ctx context.Context, data []byte, name, contentType string) (string, error)
}

// UniqueName derives a collision-free object name from the original upload
// filename: a random hex token prefix joined to a sanitized base name.
// Concurrent requests uploading identically named files never collide.
func UniqueName(original string) string {
	base := filepath.Base(original)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		base = "upload"
	}
	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	return token + "_" + base
}

// ContentTypeFor guesses a MIME type from the object name's extension.
// Defaults to JPEG, the overwhelmingly common case for camera uploads.
func ContentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "image/jpeg"
	}
}

// Constructor builds a Store from provider-specific configuration.
type Constructor func(cfg Config) (Store, error)

// Config carries the settings a provider may need. Providers ignore fields
// that do not apply to them.
type Config struct {
	BaseURL   string // public base URL of this service (local provider)
	UploadDir string // staging/serving directory (local provider)
	Endpoint  string // supabase project URL
	APIKey    string // supabase service or anon key
	Bucket    string // supabase storage bucket
}

var registry = map[string]Constructor{}

// Register adds a store constructor under the given provider name.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Get returns the store constructor for the given provider name.
func Get(name string) (Constructor, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("media: unknown provider: %s", name)
	}
	return ctor, nil
}

// Providers returns the names of all registered media providers.
func Providers() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
