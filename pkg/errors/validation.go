package errors

import (
	"strings"
	"unicode"
)

// ValidateModuleID checks that a module identifier can be written into a
// Graphviz description. Identifiers are opaque, so only empty names and
// control characters are rejected.
func ValidateModuleID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "module identifier cannot be empty")
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "module identifier %q contains control characters", id)
		}
	}
	return nil
}

// ValidateOutputPath validates a destination path for rendered artifacts.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Path must not name a directory (no trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "path %q names a directory", path)
	}

	return nil
}
