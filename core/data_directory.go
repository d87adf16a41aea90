package core

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the application name used in data directory paths.
const AppName = "fluxcheck"

// GetDataDirectory returns the platform-specific data directory path for the tool.
//
// Paths by platform:
//   - Windows: %APPDATA%/fluxcheck
//   - Linux/macOS: ~/.fluxcheck
//
// Does NOT create the directory; EnsureParentDirectory does that for files inside it.
func GetDataDirectory() string {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return AppName
			}
			return filepath.Join(home, "AppData", "Roaming", AppName)
		}
		return filepath.Join(appData, AppName)
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "." + AppName
		}
		return filepath.Join(home, "."+AppName)
	}
}

// EnsureParentDirectory creates the directory that will hold path, if missing.
func EnsureParentDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0700)
}
