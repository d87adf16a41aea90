package diffusion

import "fmt"

// Precision is the numeric format the model weights are computed in.
type Precision string

const (
	// BFloat16 is the reduced precision used on accelerators.
	BFloat16 Precision = "bfloat16"
	// Float32 is full precision, used on CPU.
	Float32 Precision = "float32"
)

// Valid reports whether p is a precision the runtime can load.
func (p Precision) Valid() bool {
	return p == BFloat16 || p == Float32
}

// Device names a compute target.
type Device string

const (
	DeviceCUDA Device = "cuda"
	DeviceCPU  Device = "cpu"
)

// Valid reports whether d is a device the runtime can place a model on.
func (d Device) Valid() bool {
	return d == DeviceCUDA || d == DeviceCPU
}

// LoadOptions controls how a registry materializes a pipeline.
type LoadOptions struct {
	// Precision of the loaded weights. Required.
	Precision Precision
	// DeviceMap places the model on a device at load time. Empty means the
	// model is loaded on the CPU and may be moved with Pipeline.To.
	DeviceMap Device
}

// Validate checks that the options name a supported precision and device.
func (o LoadOptions) Validate() error {
	if !o.Precision.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedPrecision, o.Precision)
	}
	if o.DeviceMap != "" && !o.DeviceMap.Valid() {
		return fmt.Errorf("%w: device map %q", ErrUnsupportedDevice, o.DeviceMap)
	}
	return nil
}

// TargetDevice returns the device the model is placed on at load time.
func (o LoadOptions) TargetDevice() Device {
	if o.DeviceMap == "" {
		return DeviceCPU
	}
	return o.DeviceMap
}

// GenerateParams holds parameters for one native generation call.
type GenerateParams struct {
	Prompt   string  // Required: text description of the image to generate
	Width    int     // Image width in pixels (256-2048, must be divisible by 16)
	Height   int     // Image height in pixels (256-2048, must be divisible by 16)
	Steps    int     // Number of inference steps (1-100)
	CFGScale float64 // Guidance scale (1.0-30.0)
	Seed     int64   // Random seed for reproducibility (-1 for random)
}

// Parameter validation constants
const (
	MinImageSize      = 256
	MaxImageSize      = 2048
	ImageSizeMultiple = 16 // FLUX latents are packed in 2x2 patches of 8x downsampled pixels

	MinSteps = 1
	MaxSteps = 100

	MinCFGScale = 1.0
	MaxCFGScale = 30.0

	MaxPromptLength = 2000
)

// DefaultParams returns the runtime's defaults for a step-distilled FLUX.2
// klein model. The caller sets Prompt.
//
// Default values:
//   - Width: 1024
//   - Height: 1024
//   - Steps: 4
//   - CFGScale: 1.0
//   - Seed: -1 (random)
func DefaultParams() GenerateParams {
	return GenerateParams{
		Width:    1024,
		Height:   1024,
		Steps:    4,
		CFGScale: 1.0,
		Seed:     -1,
	}
}

// ValidateParams validates generation parameters and returns an error if invalid.
func ValidateParams(p GenerateParams) error {
	if err := ValidatePrompt(p.Prompt); err != nil {
		return err
	}

	if p.Width < MinImageSize || p.Width > MaxImageSize {
		return fmt.Errorf("%w: width %d must be between %d and %d",
			ErrInvalidParams, p.Width, MinImageSize, MaxImageSize)
	}
	if p.Width%ImageSizeMultiple != 0 {
		return fmt.Errorf("%w: width %d must be divisible by %d",
			ErrInvalidParams, p.Width, ImageSizeMultiple)
	}

	if p.Height < MinImageSize || p.Height > MaxImageSize {
		return fmt.Errorf("%w: height %d must be between %d and %d",
			ErrInvalidParams, p.Height, MinImageSize, MaxImageSize)
	}
	if p.Height%ImageSizeMultiple != 0 {
		return fmt.Errorf("%w: height %d must be divisible by %d",
			ErrInvalidParams, p.Height, ImageSizeMultiple)
	}

	if p.Steps < MinSteps || p.Steps > MaxSteps {
		return fmt.Errorf("%w: steps %d must be between %d and %d",
			ErrInvalidParams, p.Steps, MinSteps, MaxSteps)
	}

	if p.CFGScale < MinCFGScale || p.CFGScale > MaxCFGScale {
		return fmt.Errorf("%w: CFGScale %.2f must be between %.1f and %.1f",
			ErrInvalidParams, p.CFGScale, MinCFGScale, MaxCFGScale)
	}

	return nil
}
