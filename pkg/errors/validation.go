package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// nodeIDRegex matches the ids the compiler produces: bare identifiers and
// slugged free text. Slugs keep leading digits ("3rd tier" becomes
// "3rd_tier"), so digits are allowed anywhere.
var nodeIDRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateNodeID validates a node id received from an editing client before
// it is used to locate a source line.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPatch, "node id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidPatch, "node id too long (max 256 characters)")
	}
	if !nodeIDRegex.MatchString(id) {
		return New(ErrCodeInvalidPatch, "invalid node id: %q", id)
	}
	return nil
}

// clusterIDRegex matches the structural cluster ids the compiler assigns.
var clusterIDRegex = regexp.MustCompile(`^cluster_\d+$`)

// ValidateClusterID validates a cluster id of the form "cluster_N".
func ValidateClusterID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPatch, "cluster id cannot be empty")
	}
	if !clusterIDRegex.MatchString(id) {
		return New(ErrCodeInvalidPatch, "invalid cluster id: %q", id)
	}
	return nil
}

// ValidateLineNumber validates a 1-based source line number against the
// document length.
func ValidateLineNumber(line, total int) error {
	if line < 1 {
		return New(ErrCodeInvalidPatch, "line number must be positive, got %d", line)
	}
	if line > total {
		return New(ErrCodeInvalidPatch, "line %d is past the end of the document (%d lines)", line, total)
	}
	return nil
}

// ValidateSourcePath validates a user-supplied source file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateSourcePath(path string) error {
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

// ValidateDocumentName validates a stored document name. Names are simple
// identifiers, not paths.
func ValidateDocumentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "document name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "document name too long (max 128 characters)")
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "document name cannot contain path separators")
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidInput, "document name cannot be a hidden file")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "document name contains invalid control characters")
		}
	}
	return nil
}
