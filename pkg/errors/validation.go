package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// nodeIDRegex matches valid diagram node identifiers: a letter or digit
// followed by letters, digits, underscores or hyphens.
var nodeIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateNodeID validates a node identifier from a diagram spec.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or whitespace
//   - Maximum length of 128 characters
//   - Must match ^[A-Za-z0-9][A-Za-z0-9_-]*$
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "node ID cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidGraph, "node ID too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "node ID contains control characters")
		}
	}

	if !nodeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidGraph, "invalid node ID: %q", id)
	}

	return nil
}

// renderFormats lists the output formats the render pipeline supports.
var renderFormats = map[string]bool{
	"svg":  true,
	"dot":  true,
	"png":  true,
	"json": true,
}

// ValidateFormat validates a render output format name.
func ValidateFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "output format cannot be empty")
	}

	if !renderFormats[strings.ToLower(format)] {
		return New(ErrCodeInvalidFormat, "unsupported output format: %q (expected svg, dot, png or json)", format)
	}

	return nil
}

// themeNameRegex matches valid theme names.
var themeNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateThemeName validates a theme name for safety.
// Theme names resolve to files on disk, so path components are rejected.
func ValidateThemeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidTheme, "theme name cannot be empty")
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidTheme, "theme name cannot contain path separators")
	}

	if !themeNameRegex.MatchString(name) {
		return New(ErrCodeInvalidTheme, "invalid theme name: %q", name)
	}

	return nil
}

// ValidatePath validates a user-supplied file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateDiagramTitle validates a diagram title.
// Titles appear in rendered output and stored metadata. Newlines are
// allowed because markdown specs produce multi-line titles.
func ValidateDiagramTitle(title string) error {
	if len(title) > 256 {
		return New(ErrCodeInvalidSpec, "diagram title too long (max 256 characters)")
	}

	for _, r := range title {
		if r != '\t' && r != '\n' && unicode.IsControl(r) {
			return New(ErrCodeInvalidSpec, "diagram title contains control characters")
		}
	}

	return nil
}
