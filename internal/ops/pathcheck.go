package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/lectern/internal/config"
	"github.com/hpungsan/lectern/internal/errors"
)

// ValidateExportPath checks a destination for a run export:
// 1. No directory traversal (..)
// 2. Extension matches the export format
// 3. The file sits DIRECTLY in exportsDir or an allowed_paths entry (no subdirectories)
// 4. Neither the parent directory nor the file is a symlink
//
// Requiring the file to sit directly in an allowed directory leaves no
// intermediate component to swap for a symlink between validation and open;
// O_NOFOLLOW covers the final component.
func ValidateExportPath(path string, format ExportFormat, exportsDir string, cfg *config.Config) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}

	if containsTraversal(path) {
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	if want := format.Ext(); !strings.EqualFold(filepath.Ext(cleaned), want) {
		return errors.NewInvalidRequest(fmt.Sprintf("path must have %s extension for %s export", want, format))
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	// allow_unsafe_paths lifts the directory rule only; symlinks stay rejected.
	if cfg != nil && cfg.AllowUnsafePaths {
		return rejectSymlink(absPath)
	}

	allowedDirs, err := getAllowedDirs(exportsDir, cfg)
	if err != nil {
		return err
	}

	parentDir := filepath.Dir(absPath)
	if !isDirectlyInAllowedDir(parentDir, allowedDirs) {
		return errors.NewInvalidRequest(
			fmt.Sprintf("file must be directly in an allowed directory (no subdirectories); allowed: %v",
				allowedDirs))
	}

	if info, err := os.Lstat(parentDir); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return errors.NewInvalidRequest("parent directory must not be a symlink")
		}
	}

	return rejectSymlink(absPath)
}

func rejectSymlink(absPath string) error {
	if info, err := os.Lstat(absPath); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return errors.NewInvalidRequest("path must not be a symlink")
		}
	}
	return nil
}

// getAllowedDirs returns exportsDir plus the absolute allowed_paths entries,
// cleaned. Symlinked entries are resolved to their targets.
func getAllowedDirs(exportsDir string, cfg *config.Config) ([]string, error) {
	var dirs []string
	if exportsDir != "" {
		dirs = append(dirs, exportsDir)
	}
	if cfg != nil {
		for _, p := range cfg.AllowedPaths {
			if filepath.IsAbs(p) {
				dirs = append(dirs, filepath.Clean(p))
			}
		}
	}

	result := make([]string, 0, len(dirs))
	for _, d := range dirs {
		abs, err := filepath.Abs(filepath.Clean(d))
		if err != nil {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid allowed path: %v", err))
		}

		if info, err := os.Lstat(abs); err == nil && info.Mode()&os.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(abs)
			if err != nil {
				return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot resolve symlink in allowed path: %v", err))
			}
			abs = resolved
		}
		result = append(result, abs)
	}

	return result, nil
}

// isDirectlyInAllowedDir reports whether parentDir is exactly one of allowedDirs.
func isDirectlyInAllowedDir(parentDir string, allowedDirs []string) bool {
	parentDir = filepath.Clean(parentDir)
	for _, dir := range allowedDirs {
		if parentDir == filepath.Clean(dir) {
			return true
		}
	}
	return false
}

// ExportsDir returns the default export directory under baseDir.
func ExportsDir(baseDir string) string {
	return filepath.Join(baseDir, "exports")
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}

// SanitizeForFilename makes s safe to use as a file name: path separators
// and ".." become dashes, control characters are dropped.
func SanitizeForFilename(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, "..", "-")
	s = strings.ReplaceAll(s, " ", "-")

	var result strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			result.WriteRune(r)
		}
	}
	s = result.String()

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}

	s = strings.Trim(s, "-.")

	if s == "" {
		s = "unnamed"
	}

	return s
}
