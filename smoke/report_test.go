package smoke

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestPrintEnvironment_Accelerator(t *testing.T) {
	var out bytes.Buffer
	PrintEnvironment(&out, gpuEnv)

	got := out.String()
	for _, want := range []string{
		"Testing FLUX.2-klein-9B model...\n",
		"Runtime version: stub, go1.24\n",
		"CUDA available: true\n",
		"CUDA device: NVIDIA GeForce RTX 4090\n",
		"VRAM: 24.00 GB, driver 550.54.14",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Using CPU") {
		t.Error("CPU notice printed with an accelerator")
	}
}

func TestReportFailure_Order(t *testing.T) {
	var out bytes.Buffer
	ReportFailure(&out, errors.New("connection refused"))
	assertFailureReport(t, out.String(), "connection refused")

	if !strings.HasPrefix(out.String(), "Error: connection refused\n") {
		t.Errorf("report does not start with the error:\n%s", out.String())
	}
}
