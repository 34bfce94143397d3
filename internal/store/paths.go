package store

import (
	"os"
	"path/filepath"
)

// DefaultDir returns the platform-appropriate directory for the database.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "pacer")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "pacer")
}

// DefaultPath returns the full path to the database.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "pacer.db")
}
