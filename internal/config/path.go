// Package config provides configuration utilities for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DataDir returns the directory holding the database and export files,
// honoring the data_dir config key. Defaults to ~/.local/share/xpentrik.
func DataDir() (string, error) {
	if dir := viper.GetString("data_dir"); dir != "" {
		return ExpandPath(dir), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "xpentrik"), nil
}

// DatabasePath returns the SQLite database path, honoring the database.path
// config key.
func DatabasePath() (string, error) {
	if path := viper.GetString("database.path"); path != "" {
		return ExpandPath(path), nil
	}

	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "xpentrik.db"), nil
}

// InboxPath returns the configured SMS inbox export path, or empty when no
// inbox is configured (manual-paste-only mode).
func InboxPath() string {
	return ExpandPath(viper.GetString("sms.inbox"))
}
