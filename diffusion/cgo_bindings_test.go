package diffusion

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadModel_FileNotFound(t *testing.T) {
	paths := writeModelFiles(t)
	paths.VAE = filepath.Join(t.TempDir(), "missing.safetensors")

	_, err := LoadModel(paths, Float32, DeviceCPU, 1)
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("error = %v, want ErrModelNotFound", err)
	}
}

func TestLoadModel_EmptyPath(t *testing.T) {
	paths := writeModelFiles(t)
	paths.TextEncoder = ""

	if _, err := LoadModel(paths, Float32, DeviceCPU, 1); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("error = %v, want ErrModelNotFound", err)
	}
}

func TestLoadModel_InvalidPlacement(t *testing.T) {
	paths := writeModelFiles(t)

	if _, err := LoadModel(paths, "float16", DeviceCPU, 1); !errors.Is(err, ErrUnsupportedPrecision) {
		t.Errorf("precision error = %v, want ErrUnsupportedPrecision", err)
	}
	if _, err := LoadModel(paths, Float32, "tpu", 1); !errors.Is(err, ErrUnsupportedDevice) {
		t.Errorf("device error = %v, want ErrUnsupportedDevice", err)
	}
}

func TestLoadModel_CLI(t *testing.T) {
	binary := installFakeCLI(t, "exit 0\n")
	paths := writeModelFiles(t)

	ctx, err := LoadModel(paths, BFloat16, DeviceCUDA, 4)
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	defer FreeContext(ctx)

	if !ctx.IsValid() {
		t.Error("context not valid after load")
	}
	if ctx.Paths() != paths {
		t.Errorf("Paths() = %+v, want %+v", ctx.Paths(), paths)
	}
	if ctx.Precision() != BFloat16 || ctx.Device() != DeviceCUDA {
		t.Errorf("placement = %s/%s, want bfloat16/cuda", ctx.Precision(), ctx.Device())
	}
	if ctx.binary != binary {
		t.Errorf("binary = %q, want %q", ctx.binary, binary)
	}
}

func TestLoadModel_CLIMissing(t *testing.T) {
	if nativeRuntime {
		t.Skip("native runtime linked")
	}
	t.Setenv(EnvSDCLIPath, filepath.Join(t.TempDir(), "no-such-sd"))

	_, err := LoadModel(writeModelFiles(t), Float32, DeviceCPU, 1)
	if !errors.Is(err, ErrModelLoadFailed) {
		t.Fatalf("error = %v, want ErrModelLoadFailed", err)
	}
	if !strings.Contains(err.Error(), EnvSDCLIPath) {
		t.Errorf("error = %q, want it to name %s", err, EnvSDCLIPath)
	}
}

func TestMoveContext_CLI(t *testing.T) {
	installFakeCLI(t, "exit 0\n")
	ctx, err := LoadModel(writeModelFiles(t), Float32, DeviceCPU, 1)
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	defer FreeContext(ctx)

	firstID := ctx.id
	if err := MoveContext(ctx, DeviceCPU); err != nil {
		t.Fatalf("MoveContext(cpu) error = %v", err)
	}
	if ctx.id != firstID {
		t.Error("moving to the current device rebuilt the context")
	}

	if err := MoveContext(ctx, DeviceCUDA); err != nil {
		t.Fatalf("MoveContext(cuda) error = %v", err)
	}
	if ctx.Device() != DeviceCUDA || !ctx.IsValid() {
		t.Errorf("after move: device=%s valid=%v", ctx.Device(), ctx.IsValid())
	}
	if ctx.Precision() != Float32 {
		t.Errorf("precision changed on move: %s", ctx.Precision())
	}

	if err := MoveContext(ctx, "tpu"); !errors.Is(err, ErrUnsupportedDevice) {
		t.Errorf("error = %v, want ErrUnsupportedDevice", err)
	}
}

func TestMoveContext_Freed(t *testing.T) {
	if err := MoveContext(nil, DeviceCPU); !errors.Is(err, ErrPipelineClosed) {
		t.Errorf("nil context error = %v, want ErrPipelineClosed", err)
	}
}

func TestGenerateImage_CLI(t *testing.T) {
	argsFile := installImageCLI(t, 32, 16)
	paths := writeModelFiles(t)
	ctx, err := LoadModel(paths, BFloat16, DeviceCUDA, 3)
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	defer FreeContext(ctx)

	params := DefaultParams()
	params.Prompt = "a blue hoodie"
	params.Seed = 42

	res, err := GenerateImage(context.Background(), ctx, params)
	if err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}
	if res.Width != 32 || res.Height != 16 {
		t.Errorf("size = %dx%d, want 32x16", res.Width, res.Height)
	}
	if len(res.Pixels) != ImageDataSize(32, 16) {
		t.Errorf("len(Pixels) = %d, want %d", len(res.Pixels), ImageDataSize(32, 16))
	}
	if res.Pixels[1] != 200 || res.Pixels[3] != 255 {
		t.Errorf("first pixel = %v, want opaque green", res.Pixels[:4])
	}
	if res.Seed != 42 {
		t.Errorf("Seed = %d, want 42", res.Seed)
	}

	args := readArgs(t, argsFile)
	want := map[string]string{
		"--diffusion-model": paths.Diffusion,
		"--vae":             paths.VAE,
		"--llm":             paths.TextEncoder,
		"--type":            "bf16",
		"-p":                "a blue hoodie",
		"-W":                "1024",
		"-H":                "1024",
		"--steps":           "4",
		"--cfg-scale":       "1",
		"-s":                "42",
		"-t":                "3",
	}
	for flag, value := range want {
		if got, ok := argValue(args, flag); !ok || got != value {
			t.Errorf("%s = %q (present %v), want %q", flag, got, ok, value)
		}
	}
	if hasArg(args, "--offload-to-cpu") {
		t.Error("cuda placement passed --offload-to-cpu")
	}
}

func TestGenerateImage_CLIOnCPU(t *testing.T) {
	argsFile := installImageCLI(t, 16, 16)
	ctx, err := LoadModel(writeModelFiles(t), Float32, DeviceCPU, 0)
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	defer FreeContext(ctx)

	params := DefaultParams()
	params.Prompt = "a blue hoodie"
	if _, err := GenerateImage(context.Background(), ctx, params); err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}

	args := readArgs(t, argsFile)
	if got, _ := argValue(args, "--type"); got != "f32" {
		t.Errorf("--type = %q, want f32", got)
	}
	for _, flag := range []string{"--offload-to-cpu", "--clip-on-cpu", "--vae-on-cpu"} {
		if !hasArg(args, flag) {
			t.Errorf("missing %s for cpu placement", flag)
		}
	}
	if hasArg(args, "-t") {
		t.Error("-t passed with threads <= 0")
	}
}

func TestGenerateImage_CLIFailure(t *testing.T) {
	installFakeCLI(t, "echo 'failed to load model' >&2\nexit 3\n")
	ctx, err := LoadModel(writeModelFiles(t), Float32, DeviceCPU, 1)
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	defer FreeContext(ctx)

	params := DefaultParams()
	params.Prompt = "a blue hoodie"
	_, err = GenerateImage(context.Background(), ctx, params)
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("error = %v, want ErrGenerationFailed", err)
	}
	if !strings.Contains(err.Error(), "failed to load model") {
		t.Errorf("error = %q, want the sd output", err)
	}
}

func TestGenerateImage_CLIWritesNothing(t *testing.T) {
	installFakeCLI(t, "exit 0\n")
	ctx, err := LoadModel(writeModelFiles(t), Float32, DeviceCPU, 1)
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	defer FreeContext(ctx)

	params := DefaultParams()
	params.Prompt = "a blue hoodie"
	if _, err := GenerateImage(context.Background(), ctx, params); !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("error = %v, want ErrGenerationFailed", err)
	}
}

func TestGenerateImage_InvalidParams(t *testing.T) {
	if _, err := GenerateImage(context.Background(), nil, GenerateParams{}); !errors.Is(err, ErrInvalidPrompt) {
		t.Errorf("error = %v, want ErrInvalidPrompt", err)
	}
}

func TestFreeContext_Idempotent(t *testing.T) {
	FreeContext(nil)

	installFakeCLI(t, "exit 0\n")
	ctx, err := LoadModel(writeModelFiles(t), Float32, DeviceCPU, 1)
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	FreeContext(ctx)
	FreeContext(ctx)
	if ctx.IsValid() {
		t.Error("context valid after FreeContext")
	}
}
