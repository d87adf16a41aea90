package probe

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultNvidiaSMIPath relies on PATH lookup.
const DefaultNvidiaSMIPath = "nvidia-smi"

// smiTimeout bounds one nvidia-smi invocation.
const smiTimeout = 5 * time.Second

// SMIReader reads accelerator facts by running nvidia-smi.
type SMIReader struct {
	path string
}

// NewSMIReader returns a reader that runs the nvidia-smi at path.
// An empty path uses DefaultNvidiaSMIPath.
func NewSMIReader(path string) *SMIReader {
	if path == "" {
		path = DefaultNvidiaSMIPath
	}
	return &SMIReader{path: path}
}

// Name implements GPUReader.
func (r *SMIReader) Name() string { return "nvidia-smi" }

// ReadGPUInfo implements GPUReader.
func (r *SMIReader) ReadGPUInfo(ctx context.Context) (GPUInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, smiTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.path,
		"--query-gpu=name,driver_version,memory.total",
		"--format=csv,noheader,nounits")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return GPUInfo{}, fmt.Errorf("nvidia-smi failed: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}

	return parseNvidiaSMIOutput(stdout.String())
}

// parseNvidiaSMIOutput parses the first row of the CSV query output.
// nvidia-smi reports memory in MiB.
func parseNvidiaSMIOutput(output string) (GPUInfo, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return GPUInfo{}, ErrNoGPU
	}

	reader := csv.NewReader(strings.NewReader(output))
	reader.FieldsPerRecord = -1
	record, err := reader.Read()
	if err != nil {
		return GPUInfo{}, fmt.Errorf("failed to parse CSV: %w", err)
	}

	if len(record) < 3 {
		return GPUInfo{}, fmt.Errorf("unexpected field count: got %d, expected 3", len(record))
	}

	name := strings.TrimSpace(record[0])
	if name == "" {
		return GPUInfo{}, fmt.Errorf("empty GPU name")
	}

	memTotalMiB, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return GPUInfo{}, fmt.Errorf("failed to parse memory total: %w", err)
	}

	const mibToBytes = 1024 * 1024
	return GPUInfo{
		Name:          name,
		DriverVersion: strings.TrimSpace(record[1]),
		MemoryTotal:   int64(memTotalMiB * mibToBytes),
	}, nil
}

// FormatCUDAVersion turns NVML's integer CUDA version (12040) into "12.4".
func FormatCUDAVersion(v int) string {
	if v <= 0 {
		return ""
	}
	return fmt.Sprintf("%d.%d", v/1000, (v%1000)/10)
}
