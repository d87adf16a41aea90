package diffusion

import (
	"context"
	"fmt"

	"github.com/maruel/sillybot/huggingface"
)

// FetchFunc returns a local path for file in the hub repository repo,
// downloading it when it is not cached yet.
type FetchFunc func(ctx context.Context, repo, file string) (string, error)

// DefaultLayout is the repository layout of diffusers-format FLUX.2 models.
var DefaultLayout = ModelPaths{
	Diffusion:   "transformer/diffusion_pytorch_model.safetensors",
	VAE:         "vae/diffusion_pytorch_model.safetensors",
	TextEncoder: "text_encoder/model.safetensors",
}

// HubRegistry is a Registry that resolves models from the Hugging Face hub
// and loads them into the native runtime.
type HubRegistry struct {
	fetch   FetchFunc
	layouts map[string]ModelPaths
	threads int
	params  GenerateParams
}

// NewHubRegistry creates a registry backed by the Hugging Face hub client.
// Downloads go to the client's default cache. An empty cfg.Token means
// anonymous access, which gated models reject at fetch time.
func NewHubRegistry(cfg *RuntimeConfig) (*HubRegistry, error) {
	if cfg == nil {
		cfg = LoadRuntimeConfig()
	}

	client, err := huggingface.New(cfg.Token, "")
	if err != nil {
		return nil, fmt.Errorf("create hub client: %w", err)
	}

	fetch := func(ctx context.Context, repo, file string) (string, error) {
		return client.EnsureFile(ctx, huggingface.PackedFileRef("hf:"+repo+"/HEAD/"+file), 0o666)
	}
	return NewHubRegistryWithFetcher(fetch, cfg.Threads), nil
}

// NewHubRegistryWithFetcher creates a registry over an arbitrary fetcher.
func NewHubRegistryWithFetcher(fetch FetchFunc, threads int) *HubRegistry {
	return &HubRegistry{
		fetch:   fetch,
		layouts: make(map[string]ModelPaths),
		threads: threads,
		params:  DefaultParams(),
	}
}

// SetLayout overrides the repository layout for modelID.
func (r *HubRegistry) SetLayout(modelID string, layout ModelPaths) {
	r.layouts[modelID] = layout
}

// Layout returns the repository layout used for modelID.
func (r *HubRegistry) Layout(modelID string) ModelPaths {
	if layout, ok := r.layouts[modelID]; ok {
		return layout
	}
	return DefaultLayout
}

// FromPretrained fetches, verifies and loads modelID.
//
// The weights are loaded in opts.Precision onto opts.DeviceMap, or onto the
// CPU when no device map is given.
func (r *HubRegistry) FromPretrained(ctx context.Context, modelID string, opts LoadOptions) (Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	layout := r.Layout(modelID)
	var local ModelPaths
	targets := []struct {
		file string
		dst  *string
	}{
		{layout.Diffusion, &local.Diffusion},
		{layout.VAE, &local.VAE},
		{layout.TextEncoder, &local.TextEncoder},
	}

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path, err := r.fetch(ctx, modelID, t.file)
		if err != nil {
			return nil, fmt.Errorf("fetch %s from %s: %w", t.file, modelID, err)
		}
		if err := VerifyModelChecksum(modelID, t.file, path); err != nil {
			return nil, err
		}
		*t.dst = path
	}

	sdCtx, err := LoadModel(local, opts.Precision, opts.TargetDevice(), r.threads)
	if err != nil {
		return nil, err
	}
	return NewSDPipeline(sdCtx, r.params), nil
}
