package engine

import (
	"strings"
	"testing"
)

func TestParseCatalog_Array(t *testing.T) {
	data := []byte(`["Coccidiosis", "Newcastle Disease", "Salmonellosis", "Healthy", "Nonfecal"]`)

	cat, err := parseCatalog(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat) != 5 {
		t.Fatalf("expected 5 labels, got %d", len(cat))
	}
	if cat[0] != "Coccidiosis" || cat[3] != "Healthy" {
		t.Fatalf("labels out of order: %v", cat)
	}
}

func TestParseCatalog_IndexedObject(t *testing.T) {
	data := []byte(`{"2": "Salmonellosis", "0": "Coccidiosis", "1": "Newcastle Disease"}`)

	cat, err := parseCatalog(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Coccidiosis", "Newcastle Disease", "Salmonellosis"}
	for i, name := range want {
		if cat[i] != name {
			t.Fatalf("expected %q at index %d, got %q", name, i, cat[i])
		}
	}
}

func TestParseCatalog_GapInIndices(t *testing.T) {
	// Index 3 with only 3 entries leaves index 1 unfilled.
	data := []byte(`{"0": "a", "3": "b", "2": "c"}`)
	_, err := parseCatalog(data)
	if err == nil {
		t.Fatal("expected error for non-contiguous indices")
	}
}

func TestParseCatalog_NonNumericKey(t *testing.T) {
	data := []byte(`{"zero": "Coccidiosis"}`)
	_, err := parseCatalog(data)
	if err == nil {
		t.Fatal("expected error for non-numeric key")
	}
	if !strings.Contains(err.Error(), "not an index") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestParseCatalog_DuplicateLabel(t *testing.T) {
	data := []byte(`["Healthy", "Healthy"]`)
	if _, err := parseCatalog(data); err == nil {
		t.Fatal("expected error for duplicate label")
	}
}

func TestParseCatalog_Empty(t *testing.T) {
	if _, err := parseCatalog([]byte(`[]`)); err == nil {
		t.Fatal("expected error for empty label map")
	}
}

func TestParseCatalog_Garbage(t *testing.T) {
	if _, err := parseCatalog([]byte(`42`)); err == nil {
		t.Fatal("expected error for non-catalog JSON")
	}
}
