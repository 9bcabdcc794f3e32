// Package data is the file layer of iqcore: the config directory, the typed
// config store and the answer history.
//
// Architecture: cmd → service → data
// Only this package touches viper or the files under the config directory.
package data

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// GetConfigDir returns the application configuration directory.
// Example: ~/.config/iqcore on Linux, ~/Library/Application Support/iqcore on macOS
func GetConfigDir() string {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory if UserConfigDir fails
		userConfigDir, _ = homedir.Dir()
		userConfigDir = filepath.Join(userConfigDir, ".config")
	}
	return filepath.Join(userConfigDir, "iqcore")
}

// GetConfigFilePath returns the path to the configuration file.
func GetConfigFilePath() string {
	return filepath.Join(GetConfigDir(), "iqcore.yaml")
}

// GetHistoryDirPath returns the path to the answer history directory.
func GetHistoryDirPath() string {
	return filepath.Join(GetConfigDir(), "history")
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	return os.MkdirAll(GetConfigDir(), 0750)
}
