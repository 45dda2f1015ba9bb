package errors

import (
	"strings"
	"unicode"
)

// ValidateTileID validates a tile identifier taken from user input.
// Tile identifiers are positive; zero is reserved for "no neighbor".
func ValidateTileID(id int) error {
	if id <= 0 {
		return New(ErrCodeInvalidInput, "tile id must be positive, got %d", id)
	}
	return nil
}

// ValidateOutputPath validates a file path that the CLI is about to write.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Path must not name a directory (no trailing separator)
func ValidateOutputPath(path string) error {
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

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory")
	}

	return nil
}

// ValidateRedisURL validates a Redis connection URL.
// Only the redis and rediss schemes are accepted.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "redis URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidConfig, "redis URL must use redis or rediss scheme")
	}

	return nil
}
