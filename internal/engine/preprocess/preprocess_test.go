package preprocess

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPreprocess_Shape(t *testing.T) {
	raw := encodePNG(t, solidImage(100, 80, color.RGBA{R: 200, G: 100, B: 50, A: 255}))

	data, err := Preprocess(raw, 224, 224)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != 224*224*3 {
		t.Fatalf("expected %d values, got %d", 224*224*3, len(data))
	}
}

func TestPreprocess_ValueRange(t *testing.T) {
	raw := encodePNG(t, solidImage(64, 64, color.RGBA{R: 255, G: 0, B: 128, A: 255}))

	data, err := Preprocess(raw, 32, 32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range data {
		if v < 0.0 || v > 1.0 {
			t.Fatalf("value at index %d out of [0,1]: %f", i, v)
		}
	}
}

func TestPreprocess_SolidColorChannels(t *testing.T) {
	// Pure red: first channel near 1, other channels 0.
	raw := encodePNG(t, solidImage(10, 10, color.RGBA{R: 255, A: 255}))

	data, err := Preprocess(raw, 8, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// NHWC layout: triplets of (r, g, b) per pixel.
	for i := 0; i < len(data); i += 3 {
		if data[i] < 0.99 {
			t.Fatalf("expected red channel ~1.0 at pixel %d, got %f", i/3, data[i])
		}
		if data[i+1] > 0.01 || data[i+2] > 0.01 {
			t.Fatalf("expected green/blue ~0 at pixel %d, got %f/%f", i/3, data[i+1], data[i+2])
		}
	}
}

func TestPreprocess_JPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solidImage(50, 50, color.RGBA{G: 255, A: 255}), nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}

	data, err := Preprocess(buf.Bytes(), 16, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != 16*16*3 {
		t.Fatalf("expected %d values, got %d", 16*16*3, len(data))
	}
}

func TestPreprocess_TruncatedImage(t *testing.T) {
	raw := encodePNG(t, solidImage(100, 100, color.RGBA{R: 10, G: 20, B: 30, A: 255}))
	truncated := raw[:len(raw)/2]

	_, err := Preprocess(truncated, 224, 224)
	if err == nil {
		t.Fatal("expected error for truncated image")
	}
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got: %v", err)
	}
}

func TestPreprocess_NotAnImage(t *testing.T) {
	_, err := Preprocess([]byte("definitely not pixels"), 224, 224)
	if err == nil {
		t.Fatal("expected error for non-image bytes")
	}
	if !errors.Is(err, ErrUnsupportedFormat) && !errors.Is(err, ErrDecode) {
		t.Fatalf("expected a decode-class error, got: %v", err)
	}
}

func TestPreprocess_InvalidTargetSize(t *testing.T) {
	raw := encodePNG(t, solidImage(10, 10, color.RGBA{A: 255}))
	if _, err := Preprocess(raw, 0, 224); err == nil {
		t.Fatal("expected error for zero target height")
	}
}
