package diffusion

import (
	"context"
	"fmt"
	"image"
	"sync"
)

// SDPipeline is a Pipeline backed by a native runtime context.
type SDPipeline struct {
	mu     sync.Mutex
	sdCtx  *SDContext
	params GenerateParams
	closed bool
}

// NewSDPipeline wraps a loaded context. params supplies everything except
// the prompt; use DefaultParams for the runtime defaults.
func NewSDPipeline(sdCtx *SDContext, params GenerateParams) *SDPipeline {
	return &SDPipeline{
		sdCtx:  sdCtx,
		params: params,
	}
}

// Device returns the device the pipeline runs on.
func (p *SDPipeline) Device() Device {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sdCtx.Device()
}

// Precision returns the precision the weights were loaded in.
func (p *SDPipeline) Precision() Precision {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sdCtx.Precision()
}

// To moves the pipeline to device. The returned Pipeline is p itself.
func (p *SDPipeline) To(device Device) (Pipeline, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPipelineClosed
	}
	if err := MoveContext(p.sdCtx, device); err != nil {
		return nil, fmt.Errorf("move pipeline to %s: %w", device, err)
	}
	return p, nil
}

// Generate runs one generation for prompt.
//
// If ctx is cancelled while the runtime works, Generate returns ctx.Err()
// immediately and the result is discarded. The CLI backend kills the sd
// process, so the pipeline is free again within cliWaitDelay. The linked
// library cannot be interrupted and keeps the pipeline busy until its call
// returns.
func (p *SDPipeline) Generate(ctx context.Context, prompt string) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPipelineClosed
	}
	params := p.params
	params.Prompt = prompt
	if err := ValidateParams(params); err != nil {
		p.mu.Unlock()
		return nil, err
	}
	params.Seed = ResolveSeed(params.Seed)

	type result struct {
		res *GenerateResult
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer p.mu.Unlock()
		res, err := GenerateImage(ctx, p.sdCtx, params)
		done <- result{res: res, err: err}
	}()

	var r result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-done:
	}
	if r.err != nil {
		return nil, r.err
	}

	img, err := PixelsToImage(r.res.Pixels, r.res.Width, r.res.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return &Output{Images: []image.Image{img}}, nil
}

// Close frees the runtime context. It waits for an in-flight Generate to
// finish, since the context cannot be freed while in use. Close is safe to
// call multiple times.
func (p *SDPipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	FreeContext(p.sdCtx)
	return nil
}
