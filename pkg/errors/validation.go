package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// identifierRegex matches names usable as node types, categories, and fields.
// They end up as CBOR map keys and as Go-style identifiers in generated code.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reservedPrefixes cannot start a field name: "@" is used by the wire format
// for sequence ids, discriminators, and cardinality markers, and "{" marks
// annotation keys.
var reservedPrefixes = []string{"@", "{"}

// ValidateIdentifier validates a schema identifier (node type, category, or
// field name).
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - ASCII letters, digits, and underscores only
//   - Must not start with a digit
//   - Maximum length of 128 characters
func ValidateIdentifier(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidSchema, "%s name cannot be empty", kind)
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidSchema, "%s name too long (max 128 characters)", kind)
	}
	for _, p := range reservedPrefixes {
		if strings.HasPrefix(name, p) {
			return New(ErrCodeInvalidSchema, "%s name %q uses reserved prefix %q", kind, name, p)
		}
	}
	if !identifierRegex.MatchString(name) {
		return New(ErrCodeInvalidSchema, "invalid %s name: %q", kind, name)
	}
	return nil
}

// ValidateAnnotationKey validates an annotation key.
// Any printable string is accepted; control characters are rejected because
// keys are echoed verbatim by the dump and diagnostic output.
func ValidateAnnotationKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "annotation key cannot be empty")
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "annotation key contains invalid control characters")
		}
	}
	return nil
}

// cacheKeyRegex matches the content-addressed keys produced by the cache
// package: an optional "tree:" namespace followed by 64 lowercase hex digits.
var cacheKeyRegex = regexp.MustCompile(`^(tree:)?[0-9a-f]{64}$`)

// ValidateCacheKey validates a tree cache key received from outside the
// process (HTTP path, CLI argument).
func ValidateCacheKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "cache key cannot be empty")
	}
	if !cacheKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidInput, "invalid cache key: %q", key)
	}
	return nil
}

// ValidatePath validates a file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// ValidateStoreURI validates a cache backend address such as a Redis or
// MongoDB connection string.
func ValidateStoreURI(scheme, uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidConfig, "%s address cannot be empty", scheme)
	}
	for _, r := range uri {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidConfig, "%s address contains invalid characters", scheme)
		}
	}
	if scheme == "mongodb" && !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return New(ErrCodeInvalidConfig, "mongodb URI must use mongodb:// or mongodb+srv:// scheme")
	}
	return nil
}
