package media

import (
	"strings"
	"testing"
)

func TestUniqueName_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		name := UniqueName("chicken.jpg")
		if seen[name] {
			t.Fatalf("duplicate generated name: %s", name)
		}
		seen[name] = true
	}
}

func TestUniqueName_KeepsExtension(t *testing.T) {
	name := UniqueName("photo.PNG")
	if !strings.HasSuffix(name, "_photo.PNG") {
		t.Fatalf("expected suffix '_photo.PNG', got %s", name)
	}
}

func TestUniqueName_SanitizesPathAndSpaces(t *testing.T) {
	name := UniqueName("../../etc/my photo.jpg")
	if strings.Contains(name, "/") || strings.Contains(name, " ") {
		t.Fatalf("name not sanitized: %s", name)
	}
	if !strings.HasSuffix(name, "my_photo.jpg") {
		t.Fatalf("expected sanitized base name, got %s", name)
	}
}

func TestUniqueName_EmptyOriginal(t *testing.T) {
	name := UniqueName("")
	if !strings.HasSuffix(name, "_upload") {
		t.Fatalf("expected fallback base name, got %s", name)
	}
}

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a.png", "image/png"},
		{"a.jpg", "image/jpeg"},
		{"a.JPEG", "image/jpeg"},
		{"noext", "image/jpeg"},
	}
	for _, tt := range tests {
		if got := ContentTypeFor(tt.name); got != tt.want {
			t.Errorf("ContentTypeFor(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRegistry(t *testing.T) {
	Register("fake", func(cfg Config) (Store, error) { return nil, nil })

	if _, err := Get("fake"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Get("nope"); err == nil {
		t.Fatal("expected error for unknown provider")
	}

	found := false
	for _, p := range Providers() {
		if p == "fake" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected 'fake' in providers list")
	}
}
