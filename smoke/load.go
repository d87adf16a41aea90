package smoke

import (
	"context"
	"fmt"
	"io"

	"go_fluxcheck/diffusion"
)

// LoadPipeline fetches ModelID from reg for exec.
//
// On the accelerator the registry places the model directly. On the CPU the
// pipeline is loaded without a device map and then moved with exactly one
// To call, whose result replaces the original handle.
func LoadPipeline(ctx context.Context, reg diffusion.Registry, exec Execution, out io.Writer) (diffusion.Pipeline, error) {
	fmt.Fprintf(out, "Loading %s pipeline...\n", ModelName)

	pipe, err := reg.FromPretrained(ctx, ModelID, exec.LoadOptions())
	if err != nil {
		return nil, err
	}

	if !exec.Accelerator {
		moved, err := pipe.To(exec.Device)
		if err != nil {
			pipe.Close()
			return nil, err
		}
		pipe = moved
	}

	fmt.Fprintln(out, "Pipeline loaded successfully!")
	return pipe, nil
}
