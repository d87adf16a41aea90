// Package smoke runs the FLUX.2-klein-9B end-to-end check: probe the host,
// load the pipeline for the best available device, generate one image from a
// fixed prompt and write it to a fixed file.
package smoke

import (
	"go_fluxcheck/diffusion"
	"go_fluxcheck/probe"
)

const (
	// ModelID is the registry name of the pipeline under test.
	ModelID = "black-forest-labs/FLUX.2-klein-9B"
	// ModelName is the short name used in console messages.
	ModelName = "FLUX.2-klein-9B"

	// Prompt is the only generation input.
	Prompt = "Blue hoodie with geometric patterns, professional product photography, " +
		"clean white background, studio lighting, high quality, detailed, realistic, " +
		"e-commerce style, front view, centered composition, photorealistic, 4k resolution"

	// OutputPath is relative to the working directory and overwritten on every run.
	OutputPath = "test_flux2_output.png"
)

// Execution is the device and precision a run uses.
type Execution struct {
	Accelerator bool
	Device      diffusion.Device
	Precision   diffusion.Precision
}

// SelectExecution picks bfloat16 on the accelerator and float32 on the CPU.
func SelectExecution(env probe.Environment) Execution {
	if env.Accelerator {
		return Execution{
			Accelerator: true,
			Device:      diffusion.DeviceCUDA,
			Precision:   diffusion.BFloat16,
		}
	}
	return Execution{
		Device:    diffusion.DeviceCPU,
		Precision: diffusion.Float32,
	}
}

// LoadOptions returns the registry options for e. The accelerator is placed
// at load time; the CPU pipeline is moved afterwards with Pipeline.To.
func (e Execution) LoadOptions() diffusion.LoadOptions {
	if e.Accelerator {
		return diffusion.LoadOptions{Precision: e.Precision, DeviceMap: e.Device}
	}
	return diffusion.LoadOptions{Precision: e.Precision}
}
