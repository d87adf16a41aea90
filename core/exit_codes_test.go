package core

import (
	"os"
	"syscall"
	"testing"
)

func TestExitCodeName(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{ExitCodeSuccess, "success"},
		{ExitCodeError, "error"},
		{ExitCodeSIGINT, "interrupted (SIGINT)"},
		{ExitCodeSIGTERM, "terminated (SIGTERM)"},
		{99, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ExitCodeName(tt.code); got != tt.want {
				t.Errorf("ExitCodeName(%d) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestExitCodeForSignal(t *testing.T) {
	tests := []struct {
		name string
		sig  os.Signal
		want int
	}{
		{"interrupt", os.Interrupt, ExitCodeSIGINT},
		{"sigterm", syscall.SIGTERM, ExitCodeSIGTERM},
		{"kill", os.Kill, ExitCodeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCodeForSignal(tt.sig); got != tt.want {
				t.Errorf("ExitCodeForSignal(%v) = %d, want %d", tt.sig, got, tt.want)
			}
		})
	}
}
