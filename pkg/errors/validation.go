package errors

import (
	"strings"
	"unicode"
)

// maxRunIDLength bounds run identifiers accepted from users. UUIDs are 36
// characters; the slack allows for scoped prefixes.
const maxRunIDLength = 128

// ValidateRunID validates a run identifier before it is used as a storage key
// or file name. It rejects identifiers that could escape the run directory.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateRunID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "run id cannot be empty")
	}
	if len(id) > maxRunIDLength {
		return New(ErrCodeInvalidInput, "run id too long (max %d characters)", maxRunIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "run id contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "run id contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidatePath validates a user-supplied file path (graph or config file).
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
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
	return nil
}
