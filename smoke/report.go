package smoke

import (
	"fmt"
	"io"

	"go_fluxcheck/core"
	"go_fluxcheck/probe"

	"github.com/fatih/color"
)

// Remediation hints printed after every failure, in this order.
const (
	InstallHint = "CGO_ENABLED=1 go build -tags sd"
	LicenseURL  = "https://huggingface.co/" + ModelID
	LoginHint   = "huggingface-cli login"
)

// RemediationHints lists the install command, the license URL and the login
// command.
var RemediationHints = []string{InstallHint, LicenseURL, LoginHint}

// PrintEnvironment writes the probe results.
func PrintEnvironment(out io.Writer, env probe.Environment) {
	header := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.FgHiBlack)

	header.Fprintf(out, "Testing %s model...\n", ModelName)
	fmt.Fprintf(out, "Runtime version: %s\n", env.RuntimeVersion)
	fmt.Fprintf(out, "CUDA available: %t\n", env.Accelerator)

	if env.Accelerator {
		color.New(color.FgGreen).Fprintf(out, "CUDA device: %s\n", env.DeviceName)
		if env.VRAMTotal > 0 {
			dim.Fprintf(out, "  VRAM: %s, driver %s\n", core.FormatBytes(env.VRAMTotal), env.DriverVersion)
		}
		return
	}
	color.New(color.FgYellow).Fprintln(out, "Using CPU (this will be slow)")
}

// ReportFailure writes the error followed by the remediation hints.
func ReportFailure(out io.Writer, err error) {
	errColor := color.New(color.FgRed, color.Bold)
	hint := color.New(color.FgYellow)

	errColor.Fprintf(out, "Error: %v\n", err)
	fmt.Fprintln(out, "Make sure you have the required packages installed:")
	hint.Fprintln(out, InstallHint)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "If you get authentication errors, you may need to:")
	fmt.Fprintln(out, "1. Create a Hugging Face account")
	fmt.Fprintf(out, "2. Accept the model license at: %s\n", LicenseURL)
	fmt.Fprintf(out, "3. Login with: %s\n", LoginHint)
}
