package diffusion

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// PNG magic bytes for file identification
var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// Image validation errors
var (
	ErrImageEmpty       = errors.New("diffusion: image data is empty")
	ErrImageNotPNG      = errors.New("diffusion: image data is not a valid PNG")
	ErrImageTooSmall    = errors.New("diffusion: image data too small to be valid")
	ErrImageDecodeFail  = errors.New("diffusion: failed to decode image")
	ErrImageEncodeFail  = errors.New("diffusion: failed to encode image")
	ErrImageInvalidSize = errors.New("diffusion: invalid image dimensions")
)

// minPNGSize is signature (8) + IHDR (25) + IEND (12).
const minPNGSize = 45

// IsPNG checks if the given data starts with PNG magic bytes.
func IsPNG(data []byte) bool {
	if len(data) < len(pngMagic) {
		return false
	}
	return bytes.Equal(data[:len(pngMagic)], pngMagic)
}

// ValidateImageData validates that data is a decodable PNG image.
func ValidateImageData(data []byte) error {
	if len(data) == 0 {
		return ErrImageEmpty
	}
	if len(data) < minPNGSize {
		return ErrImageTooSmall
	}
	if !IsPNG(data) {
		return ErrImageNotPNG
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrImageDecodeFail, err)
	}
	return nil
}

// PixelsToImage wraps raw RGBA pixels (4 bytes per pixel) as an image.
// The pixel slice is copied.
func PixelsToImage(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d height=%d", ErrImageInvalidSize, width, height)
	}

	expectedLen := ImageDataSize(width, height)
	if len(pixels) != expectedLen {
		return nil, fmt.Errorf("%w: expected %d bytes for %dx%d RGBA, got %d",
			ErrImageInvalidSize, expectedLen, width, height, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pixels)
	return img, nil
}

// ToRGBA copies img into a packed RGBA image anchored at the origin, so Pix
// holds exactly ImageDataSize(width, height) bytes.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// RGBToRGBA expands packed 3-byte pixels to RGBA with opaque alpha.
func RGBToRGBA(rgb []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 || len(rgb) != width*height*3 {
		return nil, fmt.Errorf("%w: expected %d bytes for %dx%d RGB, got %d",
			ErrImageInvalidSize, width*height*3, width, height, len(rgb))
	}
	out := make([]byte, ImageDataSize(width, height))
	for i, j := 0, 0; i < len(rgb); i, j = i+3, j+4 {
		out[j] = rgb[i]
		out[j+1] = rgb[i+1]
		out[j+2] = rgb[i+2]
		out[j+3] = 0xff
	}
	return out, nil
}

// EncodePNG encodes an image to PNG bytes in memory.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrImageInvalidSize)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: width=%d height=%d", ErrImageInvalidSize, b.Dx(), b.Dy())
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageEncodeFail, err)
	}
	return buf.Bytes(), nil
}

// ImageDataSize calculates the byte size needed for RGBA image data.
func ImageDataSize(width, height int) int {
	return width * height * 4
}
