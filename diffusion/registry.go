package diffusion

import (
	"context"
	"image"
)

// Registry materializes named pretrained pipelines.
type Registry interface {
	// FromPretrained resolves modelID and returns a pipeline loaded with the
	// requested precision. When opts.DeviceMap is set the pipeline is
	// already placed on that device.
	FromPretrained(ctx context.Context, modelID string, opts LoadOptions) (Pipeline, error)
}

// Pipeline is a loaded text-to-image model.
type Pipeline interface {
	// To moves the pipeline to device and returns the pipeline to use from
	// then on. Callers must not use the receiver after a successful call.
	To(device Device) (Pipeline, error)

	// Generate runs the model once for prompt using the runtime defaults.
	Generate(ctx context.Context, prompt string) (*Output, error)

	// Close releases native resources. Safe to call more than once.
	Close() error
}

// Output is the result of one pipeline invocation.
type Output struct {
	Images []image.Image
}

// First returns the first image or ErrNoImages.
func (o *Output) First() (image.Image, error) {
	if o == nil || len(o.Images) == 0 || o.Images[0] == nil {
		return nil, ErrNoImages
	}
	return o.Images[0], nil
}
