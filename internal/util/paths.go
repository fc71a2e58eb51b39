// Package util holds small filesystem helpers shared across msgsync.
package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// MsgsyncConfigPath returns the msgsync configuration directory.
// MSGSYNC_HOME overrides the default of ~/.msgsync.
func MsgsyncConfigPath() string {
	if v := os.Getenv("MSGSYNC_HOME"); v != "" {
		return v
	}
	return filepath.Join(HomeDir(), ".msgsync")
}

// MsgsyncBackupsPath returns the default directory for snapshot backups
func MsgsyncBackupsPath() string {
	return filepath.Join(MsgsyncConfigPath(), "backups")
}

// ExpandPath expands a leading ~ and resolves relative paths against baseDir.
// An empty path stays empty.
func ExpandPath(path, baseDir string) string {
	if path == "" {
		return ""
	}

	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(HomeDir(), path[2:])
	}

	if filepath.IsAbs(path) || baseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}
