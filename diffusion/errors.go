package diffusion

import "errors"

// Sentinel errors for pipeline operations.
var (
	// Model-related errors
	ErrModelNotFound   = errors.New("diffusion: model file not found")
	ErrModelLoadFailed = errors.New("diffusion: failed to load model")
	ErrModelCorrupted  = errors.New("diffusion: model file is corrupted or invalid")

	// Generation errors
	ErrGenerationFailed = errors.New("diffusion: image generation failed")
	ErrNoImages         = errors.New("diffusion: pipeline returned no images")

	// Input validation errors
	ErrInvalidPrompt = errors.New("diffusion: invalid prompt")
	ErrInvalidParams = errors.New("diffusion: invalid generation parameters")

	// Placement errors
	ErrUnsupportedPrecision = errors.New("diffusion: unsupported precision")
	ErrUnsupportedDevice    = errors.New("diffusion: unsupported device")

	// Lifecycle errors
	ErrPipelineClosed = errors.New("diffusion: pipeline is closed")
)

// IsModelCorrupted checks if an error indicates model corruption.
func IsModelCorrupted(err error) bool {
	return errors.Is(err, ErrModelCorrupted)
}

// IsModelNotFound checks if an error indicates a missing model file.
func IsModelNotFound(err error) bool {
	return errors.Is(err, ErrModelNotFound)
}
