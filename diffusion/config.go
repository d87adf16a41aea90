package diffusion

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go_fluxcheck/core"
)

// Environment variables read by LoadRuntimeConfig. EnvSDCLIPath is read by
// the CLI backend of builds without the sd tag.
const (
	EnvHFToken        = "HF_TOKEN"
	EnvHuggingFaceKey = "HUGGINGFACE_API_KEY"
	EnvHFHome         = "HF_HOME"
	EnvHFTokenPath    = "HF_TOKEN_PATH"
	EnvSDThreads      = "SD_THREADS"
	EnvSDCLIPath      = "SD_CLI_PATH"
)

// DefaultCLIName is looked up on PATH when SD_CLI_PATH is unset.
const DefaultCLIName = "sd"

const (
	// tokenFileName is written by `huggingface-cli login` under HF_HOME.
	tokenFileName = "token"
	// TokenSourceFile is reported as TokenSource when the token came from disk.
	TokenSourceFile = "token file"
)

// RuntimeConfig holds registry and native runtime settings.
type RuntimeConfig struct {
	// Token authenticates hub requests. Empty means anonymous access.
	Token string
	// TokenSource names the variable Token came from, for logging.
	TokenSource string

	// Threads is the CPU thread count handed to the native runtime.
	Threads int
}

// LoadRuntimeConfig reads registry and runtime settings from the environment.
// Token lookup order: HUGGINGFACE_API_KEY, HF_TOKEN, then the token file
// saved by `huggingface-cli login`.
func LoadRuntimeConfig() *RuntimeConfig {
	home := core.GetEnvOrDefault(EnvHFHome, "")

	token, source := core.FirstEnv(EnvHuggingFaceKey, EnvHFToken)
	if token == "" {
		if token = readTokenFile(tokenFilePath(home)); token != "" {
			source = TokenSourceFile
		}
	}

	threads := core.ParseIntEnv(EnvSDThreads, 0)
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	return &RuntimeConfig{
		Token:       token,
		TokenSource: source,
		Threads:     threads,
	}
}

// HasToken reports whether a hub token is configured.
func (c *RuntimeConfig) HasToken() bool {
	return c != nil && c.Token != ""
}

// tokenFilePath returns where `huggingface-cli login` stores the token.
func tokenFilePath(hfHome string) string {
	if p := core.GetEnvOrDefault(EnvHFTokenPath, ""); p != "" {
		return p
	}
	if hfHome != "" {
		return filepath.Join(hfHome, tokenFileName)
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(userHome, ".cache", "huggingface", tokenFileName)
}

// readTokenFile returns the trimmed token at path, or "" if it cannot be read.
func readTokenFile(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
