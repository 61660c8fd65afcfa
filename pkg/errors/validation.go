package errors

import (
	"slices"
	"strings"
	"unicode"
)

// Known option values accepted by the CLI, the config file and the HTTP API.
var (
	Schemes    = []string{"string", "hash"}
	Traversals = []string{"iterative", "recursive", "parallel"}
	Formats    = []string{"svg", "dot"}
)

// ValidateScheme checks that name is a known canonical key scheme.
// Matching is case-insensitive; the empty string is rejected.
func ValidateScheme(name string) error {
	if !slices.Contains(Schemes, strings.ToLower(name)) {
		return New(ErrCodeInvalidScheme, "unknown key scheme %q (want one of: %s)", name, strings.Join(Schemes, ", "))
	}
	return nil
}

// ValidateTraversal checks that name is a known traversal strategy.
func ValidateTraversal(name string) error {
	if !slices.Contains(Traversals, strings.ToLower(name)) {
		return New(ErrCodeInvalidTraversal, "unknown traversal %q (want one of: %s)", name, strings.Join(Traversals, ", "))
	}
	return nil
}

// ValidateFormat checks that name is a supported render output format.
func ValidateFormat(name string) error {
	if !slices.Contains(Formats, strings.ToLower(name)) {
		return New(ErrCodeInvalidFormat, "unsupported output format %q (want one of: %s)", name, strings.Join(Formats, ", "))
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

// ValidateRepr checks that a value representation cannot break the nested
// string serialization. Parentheses inside a value make two different trees
// render to the same key, and so does an empty value, which leaves nothing
// between the children to tell left from right. The string scheme refuses
// both.
func ValidateRepr(repr string) error {
	if repr == "" {
		return New(ErrCodeInvalidInput, "value renders as the empty string; left and right children would be indistinguishable, use the hash scheme")
	}
	if strings.ContainsAny(repr, "()") {
		return New(ErrCodeInvalidInput, "value %q contains a key delimiter; use the hash scheme", repr)
	}
	return nil
}
