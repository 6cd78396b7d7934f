package preprocess

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

// ErrDecode indicates the uploaded bytes are not a valid image.
var ErrDecode = errors.New("preprocess: cannot decode image")

// ErrUnsupportedFormat indicates the image encoding is not one we accept
// (JPEG and PNG are registered).
var ErrUnsupportedFormat = errors.New("preprocess: unsupported image format")

// Preprocess decodes raw image bytes and converts them to the flat NHWC
// float32 tensor the classifier expects: resized to height x width, RGB,
// pixel intensities scaled to [0,1], batch dimension of 1.
// The returned slice has length height*width*3.
func Preprocess(raw []byte, height, width int) ([]float32, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("preprocess: invalid target size %dx%d", width, height)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() < 1 || bounds.Dy() < 1 {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}

	resized := resize.Resize(uint(width), uint(height), img, resize.Lanczos3)

	data := make([]float32, height*width*3)
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			// RGBA returns 16-bit channel values.
			data[i] = float32(r) / 65535.0
			data[i+1] = float32(g) / 65535.0
			data[i+2] = float32(b) / 65535.0
			i += 3
		}
	}
	return data, nil
}
