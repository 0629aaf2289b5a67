// Package paths resolves configuration and data directory locations for the
// pulse CLI host.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory name used for data when no override is active.
const DefaultDataDirName = ".pulse-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "PULSE_CONFIG_DIR"
	EnvDataDir   = "PULSE_DATA_DIR"
)

// DefaultConfigDir returns the platform-specific default configuration
// directory.
//
// Linux:   $XDG_CONFIG_HOME/pulse (fallback ~/.config/pulse)
// macOS:   ~/Library/Application Support/pulse
// Windows: %APPDATA%/pulse
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "pulse"), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "pulse"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pulse"), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > PULSE_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > config value > PULSE_DATA_DIR env > $(CWD)/.pulse-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
