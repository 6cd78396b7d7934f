package engine

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

const (
	testModelPath  = "../../models/cdd_efficientnet.onnx"
	testLabelsPath = "../../models/label_map.json"
)

func skipIfNoModel(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(testModelPath); os.IsNotExist(err) {
		t.Skip("model files not found; run 'make download-model' first")
	}
}

func testImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 320, 240))
	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestEngineLoad(t *testing.T) {
	skipIfNoModel(t)

	eng, err := New(testModelPath, testLabelsPath)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	defer eng.Close()

	h, w := eng.InputSize()
	if h <= 0 || w <= 0 {
		t.Fatalf("expected positive input dims, got %dx%d", w, h)
	}
	if len(eng.Labels()) == 0 {
		t.Fatal("expected a non-empty label catalog")
	}

	t.Logf("input size: %dx%d", w, h)
	t.Logf("labels: %v", eng.Labels())
}

func TestEngineClassify(t *testing.T) {
	skipIfNoModel(t)

	eng, err := New(testModelPath, testLabelsPath)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	defer eng.Close()

	p, err := eng.Classify(context.Background(), testImage(t))
	if err != nil {
		t.Fatalf("classification failed: %v", err)
	}

	if p.Label == "" {
		t.Fatal("expected a non-empty predicted label")
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		t.Fatalf("confidence out of range: %f", p.Confidence)
	}
	if len(p.Probabilities) != len(eng.Labels()) {
		t.Fatalf("expected %d probabilities, got %d", len(eng.Labels()), len(p.Probabilities))
	}
	if p.Probabilities[p.Label] != p.Confidence {
		t.Fatal("confidence must equal the predicted label's probability")
	}

	t.Logf("prediction: %s (%.4f)", p.Label, p.Confidence)
}

func TestEngineCatalogMismatch(t *testing.T) {
	skipIfNoModel(t)

	// A deliberately short catalog must fail at construction, not at request time.
	dir := t.TempDir()
	short := filepath.Join(dir, "labels.json")
	if err := os.WriteFile(short, []byte(`["only", "two"]`), 0o644); err != nil {
		t.Fatalf("failed to write label map: %v", err)
	}

	if _, err := New(testModelPath, short); err == nil {
		t.Fatal("expected catalog/output length mismatch error at startup")
	}
}

func TestEngineClassify_CancelledContext(t *testing.T) {
	skipIfNoModel(t)

	eng, err := New(testModelPath, testLabelsPath)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	defer eng.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := eng.Classify(ctx, testImage(t)); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
