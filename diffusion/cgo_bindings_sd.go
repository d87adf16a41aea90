//go:build sd && cgo

// cgo implementation of the stable-diffusion.cpp bindings.
// Build with: CGO_ENABLED=1 go build -tags sd
//
// Example:
//   CGO_CFLAGS="-I${SD_CPP_PATH}/include" \
//   CGO_LDFLAGS="-L${SD_CPP_PATH}/build/bin -lstable-diffusion -Wl,-rpath,${SD_CPP_PATH}/build/bin" \
//   go build -tags sd

package diffusion

/*
#cgo CFLAGS: -I${SRCDIR}/../vendor/stable-diffusion.cpp/include
#cgo LDFLAGS: -L${SRCDIR}/../vendor/stable-diffusion.cpp/build/bin -lstable-diffusion

#include <stdlib.h>
#include "stable-diffusion.h"
*/
import "C"

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

const nativeRuntime = true

var sdContextCounter uint64

type cgoContext struct {
	cCtx *C.sd_ctx_t
}

// contextMap maps SDContext.id to its native handle.
var (
	contextMu  sync.Mutex
	contextMap = make(map[uint64]*cgoContext)
)

func weightType(p Precision) C.enum_sd_type_t {
	if p == BFloat16 {
		return C.SD_TYPE_BF16
	}
	return C.SD_TYPE_F32
}

func loadModelImpl(paths ModelPaths, precision Precision, device Device, threads int) (*SDContext, error) {
	cDiffusion := C.CString(paths.Diffusion)
	defer C.free(unsafe.Pointer(cDiffusion))
	cVAE := C.CString(paths.VAE)
	defer C.free(unsafe.Pointer(cVAE))
	cTextEncoder := C.CString(paths.TextEncoder)
	defer C.free(unsafe.Pointer(cTextEncoder))

	var params C.sd_ctx_params_t
	C.sd_ctx_params_init(&params)
	params.diffusion_model_path = cDiffusion
	params.vae_path = cVAE
	params.llm_path = cTextEncoder
	params.wtype = weightType(precision)
	params.vae_decode_only = C.bool(true)
	params.free_params_immediately = C.bool(false)
	if threads > 0 {
		params.n_threads = C.int(threads)
	}
	// The library runs on the backend it was built for; CPU placement keeps
	// every component on host memory.
	if device == DeviceCPU {
		params.offload_params_to_cpu = C.bool(true)
		params.keep_clip_on_cpu = C.bool(true)
		params.keep_vae_on_cpu = C.bool(true)
	}

	cCtx := C.new_sd_ctx(&params)
	if cCtx == nil {
		return nil, fmt.Errorf("%w: new_sd_ctx failed for %s on %s", ErrModelLoadFailed, precision, device)
	}
	return registerContext(cCtx, paths, precision, device, threads), nil
}

func registerContext(cCtx *C.sd_ctx_t, paths ModelPaths, precision Precision, device Device, threads int) *SDContext {
	id := atomic.AddUint64(&sdContextCounter, 1)

	contextMu.Lock()
	contextMap[id] = &cgoContext{cCtx: cCtx}
	contextMu.Unlock()

	return &SDContext{
		id:        id,
		paths:     paths,
		precision: precision,
		device:    device,
		threads:   threads,
		valid:     true,
	}
}

func lookupContext(sdCtx *SDContext) (*cgoContext, bool) {
	contextMu.Lock()
	defer contextMu.Unlock()
	c, ok := contextMap[sdCtx.id]
	return c, ok && c != nil && c.cCtx != nil
}

func generateImageImpl(_ context.Context, sdCtx *SDContext, params GenerateParams) (*GenerateResult, error) {
	if !sdCtx.IsValid() {
		return nil, fmt.Errorf("%w: context is nil or invalid", ErrGenerationFailed)
	}
	c, ok := lookupContext(sdCtx)
	if !ok {
		return nil, fmt.Errorf("%w: no native context found", ErrGenerationFailed)
	}

	cPrompt := C.CString(params.Prompt)
	defer C.free(unsafe.Pointer(cPrompt))

	var gen C.sd_img_gen_params_t
	C.sd_img_gen_params_init(&gen)
	gen.prompt = cPrompt
	gen.width = C.int(params.Width)
	gen.height = C.int(params.Height)
	gen.sample_params.sample_steps = C.int(params.Steps)
	gen.sample_params.guidance.txt_cfg = C.float(params.CFGScale)
	gen.seed = C.int64_t(params.Seed)
	gen.batch_count = 1

	images := C.generate_image(c.cCtx, &gen)
	if images == nil {
		return nil, fmt.Errorf("%w: generate_image returned no images", ErrGenerationFailed)
	}
	defer freeImage(images)

	if images.data == nil {
		return nil, fmt.Errorf("%w: generate_image returned an empty buffer", ErrGenerationFailed)
	}
	width, height, channels := int(images.width), int(images.height), int(images.channel)
	raw := C.GoBytes(unsafe.Pointer(images.data), C.int(width*height*channels))

	var pixels []byte
	switch channels {
	case 4:
		pixels = raw
	case 3:
		var err error
		if pixels, err = RGBToRGBA(raw, width, height); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported channel count %d", ErrGenerationFailed, channels)
	}

	return &GenerateResult{
		Pixels: pixels,
		Width:  width,
		Height: height,
		Seed:   params.Seed,
	}, nil
}

// freeImage releases a single-image batch returned by generate_image.
func freeImage(img *C.sd_image_t) {
	C.free(unsafe.Pointer(img.data))
	C.free(unsafe.Pointer(img))
}

func freeContextImpl(sdCtx *SDContext) {
	if sdCtx == nil {
		return
	}

	contextMu.Lock()
	c := contextMap[sdCtx.id]
	delete(contextMap, sdCtx.id)
	contextMu.Unlock()

	if c != nil && c.cCtx != nil {
		C.free_sd_ctx(c.cCtx)
	}
	sdCtx.valid = false
}

func getBackendInfoImpl() string {
	return "stable-diffusion.cpp (cgo, " + C.GoString(C.sd_get_system_info()) + ")"
}
