package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// graphIDPattern restricts graph document ids to characters that are safe as
// file names, redis keys and SQL parameters alike.
var graphIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateGraphID validates a graph document id before it reaches a store.
// It rejects ids that could be used for path traversal in the file store.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - Maximum length of 128 characters
//   - Letters, digits, '_', '.', '-' only, not starting with a separator
//   - No ".." sequences
func ValidateGraphID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "graph id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "graph id too long (max 128 characters)")
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "graph id contains invalid sequence %q", "..")
	}
	if !graphIDPattern.MatchString(id) {
		return New(ErrCodeInvalidInput, "graph id %q contains invalid characters", id)
	}
	return nil
}

// ValidatePath validates a local file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > 4096 {
		return New(ErrCodeInvalidPath, "path too long (max 4096 characters)")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}
	return nil
}
