package diffusion

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeModelFiles creates fake weight files and returns their paths.
// The CLI backend only checks that the files exist before running sd.
func writeModelFiles(t *testing.T) ModelPaths {
	t.Helper()
	dir := t.TempDir()
	paths := ModelPaths{
		Diffusion:   filepath.Join(dir, "transformer.safetensors"),
		VAE:         filepath.Join(dir, "vae.safetensors"),
		TextEncoder: filepath.Join(dir, "text_encoder.safetensors"),
	}
	for _, p := range paths.files() {
		if err := os.WriteFile(p, []byte("fake model data"), 0644); err != nil {
			t.Fatalf("failed to create fake model file: %v", err)
		}
	}
	return paths
}

// installFakeCLI writes a shell script standing in for sd and points
// SD_CLI_PATH at it.
func installFakeCLI(t *testing.T, body string) string {
	t.Helper()
	if nativeRuntime {
		t.Skip("native runtime linked")
	}
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in")
	}
	path := filepath.Join(t.TempDir(), "sd")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("write fake sd: %v", err)
	}
	t.Setenv(EnvSDCLIPath, path)
	return path
}

// installImageCLI installs an sd stand-in that records its arguments, one per
// line, and writes a width x height green PNG to the -o path.
func installImageCLI(t *testing.T, width, height int) (argsFile string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "result.png")
	argsFile = filepath.Join(dir, "args.txt")

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{G: 200, A: 255})
		}
	}
	f, err := os.Create(src)
	if err != nil {
		t.Fatalf("create png: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	f.Close()

	installFakeCLI(t, `printf '%s\n' "$@" > '`+argsFile+`'
out=
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out=$2; fi
  shift
done
cp '`+src+`' "$out"
`)
	return argsFile
}

// readArgs returns the arguments recorded by installImageCLI.
func readArgs(t *testing.T, argsFile string) []string {
	t.Helper()
	data, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// argValue returns the value following flag in args.
func argValue(args []string, flag string) (string, bool) {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1], true
		}
	}
	return "", false
}

func hasArg(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}
