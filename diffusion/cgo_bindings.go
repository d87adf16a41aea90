package diffusion

import (
	"context"
	"fmt"
	"os"
)

// ModelPaths lists the weight files that make up one pipeline.
type ModelPaths struct {
	Diffusion   string // diffusion transformer
	VAE         string // latent decoder
	TextEncoder string // prompt encoder
}

// files returns the paths in load order.
func (p ModelPaths) files() []string {
	return []string{p.Diffusion, p.VAE, p.TextEncoder}
}

// SDContext represents an opaque handle to a runtime context.
// In the cgo build it maps to a sd_ctx_t; the CLI build records the
// resolved sd binary and the placement flags to run it with.
type SDContext struct {
	id        uint64
	paths     ModelPaths
	precision Precision
	device    Device
	threads   int
	binary    string
	valid     bool
}

// IsValid returns whether this context is valid and usable.
func (c *SDContext) IsValid() bool {
	if c == nil {
		return false
	}
	return c.valid
}

// Paths returns the weight files this context was loaded from.
func (c *SDContext) Paths() ModelPaths {
	if c == nil {
		return ModelPaths{}
	}
	return c.paths
}

// Precision returns the precision the weights were loaded in.
func (c *SDContext) Precision() Precision {
	if c == nil {
		return ""
	}
	return c.precision
}

// Device returns the device the context currently runs on.
func (c *SDContext) Device() Device {
	if c == nil {
		return ""
	}
	return c.device
}

// GenerateResult holds the raw output of one native generation call.
type GenerateResult struct {
	// Pixels is the image in RGBA order, 4 bytes per pixel.
	Pixels []byte
	Width  int
	Height int
	// Seed actually used (resolved when the request asked for -1).
	Seed int64
}

// LoadModel loads pipeline weights in the given precision onto device and
// returns a context for generation. threads <= 0 lets the runtime decide.
//
// Errors:
//   - ErrUnsupportedPrecision / ErrUnsupportedDevice for bad placement
//   - ErrModelNotFound when a weight file does not exist
//   - ErrModelLoadFailed when the runtime cannot build a context
//
// The returned SDContext must be freed with FreeContext.
func LoadModel(paths ModelPaths, precision Precision, device Device, threads int) (*SDContext, error) {
	if !precision.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPrecision, precision)
	}
	if !device.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDevice, device)
	}
	if err := statModelFiles(paths); err != nil {
		return nil, err
	}
	return loadModelImpl(paths, precision, device, threads)
}

// MoveContext places an existing context on device. Moving to the current
// device is a no-op. The native runtime binds a context to one backend, so
// a real move rebuilds the context from the same weight files.
func MoveContext(ctx *SDContext, device Device) error {
	if !ctx.IsValid() {
		return fmt.Errorf("%w: context is nil or invalid", ErrPipelineClosed)
	}
	if !device.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedDevice, device)
	}
	if ctx.device == device {
		return nil
	}

	moved, err := loadModelImpl(ctx.paths, ctx.precision, device, ctx.threads)
	if err != nil {
		return err
	}
	freeContextImpl(ctx)
	*ctx = *moved
	return nil
}

// GenerateImage runs one generation with sdCtx.
// params are validated first and fail with ErrInvalidParams or ErrInvalidPrompt.
//
// The CLI backend stops the sd process when ctx is cancelled. The linked
// library cannot be interrupted and ignores ctx.
func GenerateImage(ctx context.Context, sdCtx *SDContext, params GenerateParams) (*GenerateResult, error) {
	if err := ValidateParams(params); err != nil {
		return nil, err
	}
	return generateImageImpl(ctx, sdCtx, params)
}

// FreeContext releases resources associated with an SDContext.
// Calling it on a nil or already-freed context is a no-op.
func FreeContext(ctx *SDContext) {
	freeContextImpl(ctx)
}

// GetBackendInfo returns a human-readable description of the linked runtime.
func GetBackendInfo() string {
	return getBackendInfoImpl()
}

func statModelFiles(paths ModelPaths) error {
	for _, path := range paths.files() {
		if path == "" {
			return fmt.Errorf("%w: empty weight file path", ErrModelNotFound)
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrModelNotFound, path)
		} else if err != nil {
			return fmt.Errorf("%w: unable to access %s: %v", ErrModelLoadFailed, path, err)
		}
	}
	return nil
}
