// Package security restricts the serve surface to a configured set of
// allowed directories.
package security

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator checks requested paths against the allowed directories.
type PathValidator struct {
	allowedDirectories []string
	logger             *slog.Logger
}

// NewPathValidator creates a validator for the given allowed directories.
func NewPathValidator(allowedDirs []string, logger *slog.Logger) *PathValidator {
	normalizedDirs := make([]string, 0, len(allowedDirs))
	for _, dir := range allowedDirs {
		normalizedDirs = append(normalizedDirs, filepath.Clean(dir))
	}

	return &PathValidator{
		allowedDirectories: normalizedDirs,
		logger:             logger,
	}
}

// ValidatePath validates a requested path against the allowed directories
// and returns it in absolute form. The path itself is not resolved through
// symlinks (date-added operations target a symlink itself), but its parent
// directory is, so a link pointing out of the allowed set cannot be used to
// smuggle a containing directory in.
func (pv *PathValidator) ValidatePath(requestedPath string) (string, error) {
	if requestedPath == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	expandedPath := ExpandHomePath(requestedPath)

	absolutePath, err := filepath.Abs(expandedPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", requestedPath, err)
	}
	absolutePath = filepath.Clean(absolutePath)

	if !pv.isPathAllowed(absolutePath) {
		pv.logger.Warn("Access denied to path outside allowed directories",
			"requested_path", requestedPath,
			"absolute_path", absolutePath)
		return "", fmt.Errorf("access denied - path outside allowed directories: %s", absolutePath)
	}

	parentDir := filepath.Dir(absolutePath)
	realParent, err := filepath.EvalSymlinks(parentDir)
	if err != nil {
		return "", fmt.Errorf("parent directory does not exist: %s", parentDir)
	}
	if !pv.isPathAllowed(realParent) {
		pv.logger.Warn("Parent directory outside allowed directories",
			"parent_dir", realParent)
		return "", fmt.Errorf("access denied - parent directory outside allowed directories")
	}

	return absolutePath, nil
}

// isPathAllowed checks if a path is within any allowed directory
func (pv *PathValidator) isPathAllowed(absolutePath string) bool {
	normalizedPath := filepath.Clean(absolutePath)
	for _, allowedDir := range pv.allowedDirectories {
		if isPathUnderDirectory(normalizedPath, allowedDir) {
			return true
		}
	}
	return false
}

// isPathUnderDirectory checks if a path is under a given directory
func isPathUnderDirectory(path, dir string) bool {
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	if !strings.HasSuffix(path, string(filepath.Separator)) {
		path += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}

// GetAllowedDirectories returns a copy of the allowed directories
func (pv *PathValidator) GetAllowedDirectories() []string {
	dirs := make([]string, len(pv.allowedDirectories))
	copy(dirs, pv.allowedDirectories)
	return dirs
}

// ExpandHomePath expands ~ and ~/ in file paths.
func ExpandHomePath(path string) string {
	if path == "~" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return homeDir
		}
	} else if len(path) > 1 && path[:2] == "~/" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
