package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// identifierRegex matches valid structure identifiers: a word character
// followed by word characters, spaces, dots or dashes.
var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_ .\-]*$`)

// ValidateIdentifier validates a structure identifier for the database.
// Identifiers name database entries and output tables, so the rules are
// intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 64 characters
func ValidateIdentifier(id string) error {
	if id == "" {
		return New(ErrCodeInvalidIdentifier, "identifier cannot be empty")
	}

	if len(id) > 64 {
		return New(ErrCodeInvalidIdentifier, "identifier too long (max 64 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidIdentifier, "identifier contains control characters")
		}
	}

	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return New(ErrCodeInvalidIdentifier, "identifier contains path characters: %q", id)
	}

	if !identifierRegex.MatchString(id) {
		return New(ErrCodeInvalidIdentifier, "invalid identifier: %q", id)
	}

	return nil
}
