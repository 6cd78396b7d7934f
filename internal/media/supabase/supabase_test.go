package supabase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aviscan-ph/aviscan/internal/media"
)

func newStore(t *testing.T, endpoint string) media.Store {
	t.Helper()
	s, err := New(media.Config{Endpoint: endpoint, APIKey: "anon-key", Bucket: "images"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestUpload_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := newStore(t, srv.URL)
	publicURL, err := s.Upload(context.Background(), []byte("jpegbytes"), "abc123_hen.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/storage/v1/object/images/abc123_hen.jpg" {
		t.Fatalf("unexpected upload path: %s", gotPath)
	}
	if gotAuth != "Bearer anon-key" {
		t.Fatalf("unexpected auth header: %s", gotAuth)
	}
	if string(gotBody) != "jpegbytes" {
		t.Fatalf("body not forwarded verbatim: %q", gotBody)
	}
	want := srv.URL + "/storage/v1/object/public/images/abc123_hen.jpg"
	if publicURL != want {
		t.Fatalf("unexpected public URL:\ngot:  %s\nwant: %s", publicURL, want)
	}
}

func TestUpload_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"duplicate"}`, http.StatusConflict)
	}))
	defer srv.Close()

	s := newStore(t, srv.URL)
	_, err := s.Upload(context.Background(), []byte("x"), "n.jpg", "image/jpeg")
	if err == nil {
		t.Fatal("expected error for rejected upload")
	}
	if !errors.Is(err, media.ErrUploadRejected) {
		t.Fatalf("expected ErrUploadRejected, got: %v", err)
	}
}

func TestUpload_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	s := newStore(t, srv.URL)
	_, err := s.Upload(context.Background(), []byte("x"), "n.jpg", "image/jpeg")
	if err == nil {
		t.Fatal("expected error for unreachable store")
	}
	if !errors.Is(err, media.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got: %v", err)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(media.Config{APIKey: "k"}); err == nil {
		t.Fatal("expected error for missing endpoint")
	}
	if _, err := New(media.Config{Endpoint: "https://x.supabase.co"}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestRegistered(t *testing.T) {
	found := false
	for _, p := range media.Providers() {
		if p == "supabase" {
			found = true
		}
	}
	if !found {
		t.Fatal("supabase provider not registered")
	}
}

func TestUpload_EscapesObjectName(t *testing.T) {
	var gotRawPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRawPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := newStore(t, srv.URL)
	if _, err := s.Upload(context.Background(), []byte("x"), "odd name.jpg", "image/jpeg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotRawPath, "odd%20name.jpg") {
		t.Fatalf("expected escaped object name in path, got %s", gotRawPath)
	}
}
