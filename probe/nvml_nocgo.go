//go:build !cgo

package probe

import (
	"context"
	"fmt"
)

// NVMLReader is unavailable without cgo; detection falls through to nvidia-smi.
type NVMLReader struct{}

// NewNVMLReader returns a reader that always reports NVML as unavailable.
func NewNVMLReader() GPUReader {
	return NVMLReader{}
}

// Name implements GPUReader.
func (NVMLReader) Name() string { return "nvml" }

// ReadGPUInfo implements GPUReader.
func (NVMLReader) ReadGPUInfo(ctx context.Context) (GPUInfo, error) {
	return GPUInfo{}, fmt.Errorf("%w: built without cgo", ErrNVMLUnavailable)
}
