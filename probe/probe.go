// Package probe reports what the host offers for running a diffusion model:
// the linked runtime, and the first NVIDIA accelerator if there is one.
package probe

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go_fluxcheck/diffusion"
)

// Sentinel errors for accelerator detection.
var (
	ErrNVMLUnavailable = errors.New("probe: NVML not available")
	ErrNoGPU           = errors.New("probe: no NVIDIA GPU found")
)

// GPUInfo describes one accelerator.
type GPUInfo struct {
	Name          string
	DriverVersion string
	CUDAVersion   string
	MemoryTotal   int64 // bytes
}

// GPUReader reads accelerator facts from one source.
type GPUReader interface {
	// Name identifies the source in logs ("nvml", "nvidia-smi").
	Name() string
	// ReadGPUInfo returns the first accelerator, or an error if none is usable.
	ReadGPUInfo(ctx context.Context) (GPUInfo, error)
}

// Environment is the result of probing the host.
type Environment struct {
	// RuntimeVersion names the diffusion runtime backend and the Go version.
	RuntimeVersion string

	// Accelerator is true when an NVIDIA GPU was found.
	Accelerator   bool
	DeviceName    string
	DriverVersion string
	CUDAVersion   string
	VRAMTotal     int64

	// Source is the reader that found the accelerator.
	Source string
	// Err holds the last detection error when Accelerator is false.
	// It is informational only.
	Err error
}

// Detector probes the host environment.
type Detector interface {
	Detect(ctx context.Context) Environment
}

// SystemDetector tries its readers in order and reports the first success.
type SystemDetector struct {
	readers     []GPUReader
	backendInfo func() string
}

// NewSystemDetector creates a detector that asks NVML first and falls back
// to nvidia-smi.
func NewSystemDetector() *SystemDetector {
	return NewDetectorWithReaders(diffusion.GetBackendInfo, NewNVMLReader(), NewSMIReader(""))
}

// NewDetectorWithReaders creates a detector with custom readers.
// This is primarily used for testing.
func NewDetectorWithReaders(backendInfo func() string, readers ...GPUReader) *SystemDetector {
	if backendInfo == nil {
		backendInfo = diffusion.GetBackendInfo
	}
	return &SystemDetector{readers: readers, backendInfo: backendInfo}
}

// Detect never fails; detection problems leave Accelerator false.
func (d *SystemDetector) Detect(ctx context.Context) Environment {
	env := Environment{
		RuntimeVersion: RuntimeVersion(d.backendInfo()),
		Err:            ErrNoGPU,
	}

	for _, r := range d.readers {
		if ctx.Err() != nil {
			env.Err = ctx.Err()
			break
		}
		info, err := r.ReadGPUInfo(ctx)
		if err != nil {
			env.Err = fmt.Errorf("%s: %w", r.Name(), err)
			continue
		}
		env.Accelerator = true
		env.DeviceName = info.Name
		env.DriverVersion = info.DriverVersion
		env.CUDAVersion = info.CUDAVersion
		env.VRAMTotal = info.MemoryTotal
		env.Source = r.Name()
		env.Err = nil
		break
	}

	return env
}

// Detect probes the host with the default readers.
func Detect(ctx context.Context) Environment {
	return NewSystemDetector().Detect(ctx)
}

// RuntimeVersion formats the runtime version line from the backend string.
func RuntimeVersion(backend string) string {
	return fmt.Sprintf("%s, %s %s/%s", backend, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
