//go:build cgo

package probe

import (
	"context"
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// NVMLReader reads accelerator facts through the NVIDIA management library.
// libnvidia-ml is opened at runtime, so machines without the driver get an
// error rather than a load failure.
type NVMLReader struct{}

// NewNVMLReader returns a reader backed by NVML.
func NewNVMLReader() GPUReader {
	return NVMLReader{}
}

// Name implements GPUReader.
func (NVMLReader) Name() string { return "nvml" }

// ReadGPUInfo implements GPUReader.
func (NVMLReader) ReadGPUInfo(ctx context.Context) (GPUInfo, error) {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return GPUInfo{}, fmt.Errorf("%w: init: %s", ErrNVMLUnavailable, nvml.ErrorString(ret))
	}
	defer nvml.Shutdown()

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return GPUInfo{}, fmt.Errorf("%w: device count: %s", ErrNVMLUnavailable, nvml.ErrorString(ret))
	}
	if count == 0 {
		return GPUInfo{}, ErrNoGPU
	}

	device, ret := nvml.DeviceGetHandleByIndex(0)
	if ret != nvml.SUCCESS {
		return GPUInfo{}, fmt.Errorf("%w: device 0: %s", ErrNVMLUnavailable, nvml.ErrorString(ret))
	}

	name, ret := device.GetName()
	if ret != nvml.SUCCESS {
		return GPUInfo{}, fmt.Errorf("%w: device name: %s", ErrNVMLUnavailable, nvml.ErrorString(ret))
	}

	info := GPUInfo{Name: name}

	// Memory and versions are best-effort; the name alone proves the device works.
	if mem, ret := device.GetMemoryInfo(); ret == nvml.SUCCESS {
		info.MemoryTotal = int64(mem.Total)
	}
	if driver, ret := nvml.SystemGetDriverVersion(); ret == nvml.SUCCESS {
		info.DriverVersion = driver
	}
	if cuda, ret := nvml.SystemGetCudaDriverVersion(); ret == nvml.SUCCESS {
		info.CUDAVersion = FormatCUDAVersion(cuda)
	}

	return info, nil
}
