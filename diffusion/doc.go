// Package diffusion loads pretrained text-to-image pipelines and runs them.
//
// A Registry materializes a named model for a precision and device and
// returns a Pipeline. The production registry, HubRegistry, resolves weight
// files from the Hugging Face hub, verifies them against known SHA256
// digests and hands them to the native stable-diffusion.cpp runtime through
// cgo bindings.
//
// # Quick Start
//
//	cfg := diffusion.LoadRuntimeConfig()
//	reg, err := diffusion.NewHubRegistry(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pipe, err := reg.FromPretrained(ctx, "black-forest-labs/FLUX.2-klein-9B",
//	    diffusion.LoadOptions{Precision: diffusion.BFloat16, DeviceMap: diffusion.DeviceCUDA})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pipe.Close()
//
//	out, err := pipe.Generate(ctx, "a red bicycle, studio lighting")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	img := out.Images[0]
//
// # Build Modes
//
// By default generation runs the stable-diffusion.cpp CLI (sd) once per
// image. Building with the sd tag links the library through cgo instead.
//
//	go build                          # runs sd from PATH or SD_CLI_PATH
//	CGO_ENABLED=1 go build -tags sd   # links libstable-diffusion
//
// # Configuration
//
// LoadRuntimeConfig reads:
//
//	HUGGINGFACE_API_KEY   # hub access token
//	HF_TOKEN              # fallback when HUGGINGFACE_API_KEY is unset
//	HF_TOKEN_PATH         # token file written by huggingface-cli login
//	HF_HOME               # token file directory when HF_TOKEN_PATH is unset
//	SD_THREADS            # native runtime CPU threads (default: all cores)
//	SD_CLI_PATH           # sd binary for the default build (default: sd on PATH)
//
// # Error Handling
//
// Errors wrap the sentinels in errors.go and can be matched with errors.Is:
//
//	if errors.Is(err, diffusion.ErrModelCorrupted) {
//	    // delete the cached file and fetch it again
//	}
package diffusion
