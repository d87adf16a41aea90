package diffusion

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 10))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestIsPNG(t *testing.T) {
	if !IsPNG(encodeTestPNG(t)) {
		t.Error("expected IsPNG to return true for valid PNG")
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"too short", []byte{0x89, 0x50}},
		{"wrong magic", make([]byte, 8)},
		{"jpeg magic", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IsPNG(tt.data) {
				t.Errorf("expected IsPNG to return false for %s", tt.name)
			}
		})
	}
}

func TestValidateImageData(t *testing.T) {
	truncated := encodeTestPNG(t)
	truncated = truncated[:minPNGSize+1]

	notPNG := make([]byte, 100)
	notPNG[0] = 0xFF

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"valid", encodeTestPNG(t), nil},
		{"empty", nil, ErrImageEmpty},
		{"too small", pngMagic, ErrImageTooSmall},
		{"not png", notPNG, ErrImageNotPNG},
		{"truncated", truncated, ErrImageDecodeFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageData(tt.data)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateImageData() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateImageData() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPixelsToImage(t *testing.T) {
	pixels := make([]byte, ImageDataSize(2, 1))
	copy(pixels, []byte{255, 0, 0, 255, 0, 0, 255, 255})

	img, err := PixelsToImage(pixels, 2, 1)
	if err != nil {
		t.Fatalf("PixelsToImage() error = %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel (0,0) = %v, want red", got)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("pixel (1,0) = %v, want blue", got)
	}

	pixels[0] = 0
	if img.RGBAAt(0, 0).R != 255 {
		t.Error("PixelsToImage did not copy the pixel buffer")
	}
}

func TestPixelsToImage_InvalidSize(t *testing.T) {
	tests := []struct {
		name          string
		pixels        []byte
		width, height int
	}{
		{"zero width", nil, 0, 4},
		{"negative height", nil, 4, -1},
		{"short buffer", make([]byte, 10), 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PixelsToImage(tt.pixels, tt.width, tt.height)
			if !errors.Is(err, ErrImageInvalidSize) {
				t.Errorf("error = %v, want ErrImageInvalidSize", err)
			}
		})
	}
}

func TestEncodePNG_RoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	src.Set(3, 4, color.RGBA{G: 200, A: 255})

	data, err := EncodePNG(src)
	if err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	if err := ValidateImageData(data); err != nil {
		t.Fatalf("encoded data invalid: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if decoded.Bounds() != src.Bounds() {
		t.Errorf("bounds = %v, want %v", decoded.Bounds(), src.Bounds())
	}
}

func TestEncodePNG_Invalid(t *testing.T) {
	if _, err := EncodePNG(nil); !errors.Is(err, ErrImageInvalidSize) {
		t.Errorf("nil image error = %v, want ErrImageInvalidSize", err)
	}
	if _, err := EncodePNG(image.NewRGBA(image.Rectangle{})); !errors.Is(err, ErrImageInvalidSize) {
		t.Errorf("empty image error = %v, want ErrImageInvalidSize", err)
	}
}
