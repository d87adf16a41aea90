package smoke

import (
	"context"
	"image"
	"image/color"

	"go_fluxcheck/diffusion"
	"go_fluxcheck/probe"
)

// fakeDetector returns a fixed environment.
type fakeDetector struct {
	env probe.Environment
}

func (d fakeDetector) Detect(ctx context.Context) probe.Environment { return d.env }

var (
	gpuEnv = probe.Environment{
		RuntimeVersion: "stub, go1.24",
		Accelerator:    true,
		DeviceName:     "NVIDIA GeForce RTX 4090",
		DriverVersion:  "550.54.14",
		VRAMTotal:      24 << 30,
	}
	cpuEnv = probe.Environment{RuntimeVersion: "stub, go1.24"}
)

// fakeRegistry records FromPretrained calls and hands out one fakePipeline.
type fakeRegistry struct {
	pipe  *fakePipeline
	err   error
	calls []loadCall
}

type loadCall struct {
	modelID string
	opts    diffusion.LoadOptions
}

func (r *fakeRegistry) FromPretrained(ctx context.Context, modelID string, opts diffusion.LoadOptions) (diffusion.Pipeline, error) {
	r.calls = append(r.calls, loadCall{modelID: modelID, opts: opts})
	if r.err != nil {
		return nil, r.err
	}
	return r.pipe, nil
}

// fakePipeline records To and Generate calls.
type fakePipeline struct {
	images      []image.Image
	generateErr error
	toErr       error

	toCalls []diffusion.Device
	prompts []string
	closed  int
	movedTo *fakePipeline
}

func (p *fakePipeline) To(device diffusion.Device) (diffusion.Pipeline, error) {
	p.toCalls = append(p.toCalls, device)
	if p.toErr != nil {
		return nil, p.toErr
	}
	if p.movedTo != nil {
		return p.movedTo, nil
	}
	return p, nil
}

func (p *fakePipeline) Generate(ctx context.Context, prompt string) (*diffusion.Output, error) {
	p.prompts = append(p.prompts, prompt)
	if p.generateErr != nil {
		return nil, p.generateErr
	}
	return &diffusion.Output{Images: p.images}, nil
}

func (p *fakePipeline) Close() error {
	p.closed++
	return nil
}

// solidImage returns a w x h image filled with c.
func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func newFakePipeline() *fakePipeline {
	return &fakePipeline{
		images: []image.Image{solidImage(8, 8, color.RGBA{B: 255, A: 255})},
	}
}
