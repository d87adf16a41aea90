package smoke

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go_fluxcheck/core"
	"go_fluxcheck/diffusion"
)

// SaveResult describes the written image.
type SaveResult struct {
	Path   string
	Width  int
	Height int
	Bytes  int64
	SHA256 string
}

// GenerateAndSave calls pipe once with Prompt and writes the first image as
// PNG to OutputPath inside dir ("" means the working directory).
//
// The PNG is encoded in memory first, so a failed generation or encoding
// leaves any existing output file untouched. An existing file is truncated.
func GenerateAndSave(ctx context.Context, pipe diffusion.Pipeline, dir string, out io.Writer) (SaveResult, error) {
	fmt.Fprintf(out, "Generating image with prompt: %s\n", Prompt)

	result, err := pipe.Generate(ctx, Prompt)
	if err != nil {
		return SaveResult{}, err
	}
	img, err := result.First()
	if err != nil {
		return SaveResult{}, err
	}

	data, err := diffusion.EncodePNG(img)
	if err != nil {
		return SaveResult{}, err
	}
	if err := diffusion.ValidateImageData(data); err != nil {
		return SaveResult{}, err
	}

	path := OutputPath
	if dir != "" {
		path = filepath.Join(dir, OutputPath)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return SaveResult{}, fmt.Errorf("write %s: %w", OutputPath, err)
	}

	fmt.Fprintf(out, "Image saved to: %s\n", OutputPath)

	b := img.Bounds()
	return SaveResult{
		Path:   path,
		Width:  b.Dx(),
		Height: b.Dy(),
		Bytes:  int64(len(data)),
		SHA256: core.ComputeSHA256FromBytes(data),
	}, nil
}
