// Package paths resolves where workledger keeps its config file and its
// database. Each location follows flag > environment > platform default.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "workledger"

// ConfigFileName is the config file looked up in the config directory.
const ConfigFileName = "config.yaml"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "WORKLEDGER_CONFIG_DIR"
	EnvDataDir   = "WORKLEDGER_DATA_DIR"
)

// platformDir holds platform lookups that tests override.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/workledger (fallback ~/.config/workledger)
// macOS:   ~/Library/Application Support/workledger
// Windows: %APPDATA%/workledger
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform default data directory.
//
// Linux:   $XDG_DATA_HOME/workledger (fallback ~/.local/share/workledger)
// macOS and Windows share the config directory.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

func xdgDir(env string, homeRelative ...string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, homeRelative...), appName)...), nil
}

// ResolveConfigDir returns flag, else $WORKLEDGER_CONFIG_DIR, else
// DefaultConfigDir, made absolute.
func ResolveConfigDir(flag string) (string, error) {
	return resolve(flag, EnvConfigDir, DefaultConfigDir)
}

// ResolveDataDir returns flag, else the data_dir value from the config file,
// else $WORKLEDGER_DATA_DIR, else DefaultDataDir, made absolute.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag == "" {
		flag = configValue
	}
	return resolve(flag, EnvDataDir, DefaultDataDir)
}

func resolve(flag, env string, fallback func() (string, error)) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if v := os.Getenv(env); v != "" {
		return filepath.Abs(v)
	}
	return fallback()
}
