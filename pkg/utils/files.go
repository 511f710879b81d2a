// =============================================================================
// langcsv - File Utilities
// =============================================================================
//
// This module provides the small file helpers shared by the writer and the
// CLI:
//   - Directory creation
//   - Whole-file writes with fixed permissions
//   - Display paths for log lines
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirPerm and FilePerm are the permissions of created directories and files.
const (
	DirPerm  os.FileMode = 0o755
	FilePerm os.FileMode = 0o644
)

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir and any missing parents. An empty dir is a no-op.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// FILE OPERATIONS
// =============================================================================

// WriteFile creates or truncates path and writes data to it.
// The parent directory must already exist.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, FilePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DisplayPath returns path as shown in log lines: relative paths get a
// leading "./", absolute paths are left alone.
func DisplayPath(path string) string {
	if filepath.IsAbs(path) || strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../") {
		return path
	}
	return "./" + path
}
