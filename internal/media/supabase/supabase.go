package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aviscan-ph/aviscan/internal/media"
	"github.com/aviscan-ph/aviscan/internal/media/httpclient"
)

func init() {
	media.Register("supabase", New)
}

// Store uploads images to a Supabase Storage bucket and returns the public
// object URL. The bucket is expected to allow anonymous read access.
type Store struct {
	client   *httpclient.Client
	endpoint string
	bucket   string
}

// New creates a Supabase media store from the provider config.
func New(cfg media.Config) (media.Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("supabase media: missing project URL")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase media: missing API key")
	}
	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "images"
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	return &Store{
		client:   httpclient.New(endpoint, cfg.APIKey),
		endpoint: endpoint,
		bucket:   bucket,
	}, nil
}

// Upload stores the bytes under the given object name and returns the public
// URL. Transport failures map to media.ErrUnavailable; any non-success
// response from the storage API maps to media.ErrUploadRejected.
func (s *Store) Upload(ctx context.Context, data []byte, name, contentType string) (string, error) {
	path := "/storage/v1/object/" + s.bucket + "/" + url.PathEscape(name)

	if err := s.client.PostBytes(ctx, path, data, contentType); err != nil {
		var apiErr *httpclient.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: %v", media.ErrUploadRejected, apiErr)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", media.ErrUnavailable, err)
	}

	return s.publicURL(name), nil
}

func (s *Store) publicURL(name string) string {
	return s.endpoint + "/storage/v1/object/public/" + s.bucket + "/" + url.PathEscape(name)
}
