//go:build !sd || !cgo

// Default backend: runs the stable-diffusion.cpp command line tool once per
// generation. Build with CGO_ENABLED=1 and -tags sd to link the library instead.

package diffusion

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go_fluxcheck/core"
)

const nativeRuntime = false

const (
	// cliWaitDelay bounds how long a killed sd process may hold its output open.
	cliWaitDelay = 2 * time.Second
	// cliOutputTail is how much of the CLI output goes into an error.
	cliOutputTail = 512
)

var cliContextCounter uint64

// loadModelImpl resolves the sd binary. The CLI reads the weights itself on
// every run, so nothing is loaded here.
func loadModelImpl(paths ModelPaths, precision Precision, device Device, threads int) (*SDContext, error) {
	binary, err := exec.LookPath(core.GetEnvOrDefault(EnvSDCLIPath, DefaultCLIName))
	if err != nil {
		return nil, fmt.Errorf("%w: stable-diffusion.cpp CLI not found (set %s or build with -tags sd): %v",
			ErrModelLoadFailed, EnvSDCLIPath, err)
	}

	return &SDContext{
		id:        atomic.AddUint64(&cliContextCounter, 1),
		paths:     paths,
		precision: precision,
		device:    device,
		threads:   threads,
		binary:    binary,
		valid:     true,
	}, nil
}

// cliArgs builds the sd command line for one image written to out.
func cliArgs(sdCtx *SDContext, params GenerateParams, out string) []string {
	args := []string{
		"--diffusion-model", sdCtx.paths.Diffusion,
		"--vae", sdCtx.paths.VAE,
		"--llm", sdCtx.paths.TextEncoder,
		"--type", cliWeightType(sdCtx.precision),
		"-p", params.Prompt,
		"-W", strconv.Itoa(params.Width),
		"-H", strconv.Itoa(params.Height),
		"--steps", strconv.Itoa(params.Steps),
		"--cfg-scale", strconv.FormatFloat(params.CFGScale, 'f', -1, 64),
		"-s", strconv.FormatInt(params.Seed, 10),
		"-o", out,
	}
	if sdCtx.threads > 0 {
		args = append(args, "-t", strconv.Itoa(sdCtx.threads))
	}
	if sdCtx.device == DeviceCPU {
		args = append(args, "--offload-to-cpu", "--clip-on-cpu", "--vae-on-cpu")
	}
	return args
}

func cliWeightType(p Precision) string {
	if p == BFloat16 {
		return "bf16"
	}
	return "f32"
}

func generateImageImpl(ctx context.Context, sdCtx *SDContext, params GenerateParams) (*GenerateResult, error) {
	if !sdCtx.IsValid() {
		return nil, fmt.Errorf("%w: context is nil or invalid", ErrGenerationFailed)
	}

	dir, err := os.MkdirTemp("", "fluxcheck-")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer os.RemoveAll(dir)
	out := filepath.Join(dir, "image.png")

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, sdCtx.binary, cliArgs(sdCtx, params, out)...)
	cmd.Stdout = &output
	cmd.Stderr = &output
	cmd.WaitDelay = cliWaitDelay

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %v: %s",
			ErrGenerationFailed, filepath.Base(sdCtx.binary), err, outputTail(output.Bytes()))
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("%w: sd wrote no image: %v", ErrGenerationFailed, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecodeFail, err)
	}

	rgba := ToRGBA(img)
	return &GenerateResult{
		Pixels: rgba.Pix,
		Width:  rgba.Rect.Dx(),
		Height: rgba.Rect.Dy(),
		Seed:   params.Seed,
	}, nil
}

func outputTail(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > cliOutputTail {
		s = "..." + s[len(s)-cliOutputTail:]
	}
	return s
}

func freeContextImpl(sdCtx *SDContext) {
	if sdCtx == nil {
		return
	}
	sdCtx.valid = false
}

func getBackendInfoImpl() string {
	return "stable-diffusion.cpp CLI (" + core.GetEnvOrDefault(EnvSDCLIPath, DefaultCLIName) + ")"
}
