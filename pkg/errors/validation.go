package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateFraction checks that v lies in the closed interval [0,1].
// name identifies the attribute in the error message.
func ValidateFraction(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeConstraint, "%s must be between 0 and 1, got %v", name, v)
	}
	return nil
}

// ValidateNonNegative checks that v is not negative.
// Undefined dimensions are represented by their absence, never by NaN.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || v < 0 {
		return New(ErrCodeConstraint, "%s must be non-negative, got %v", name, v)
	}
	return nil
}

// ValidateID validates an entity identifier.
//
// Identifiers come from external tables, so the rules are conservative:
//   - No empty identifiers
//   - No control characters
//   - Maximum length of 256 characters
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidRecord, "identifier cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidRecord, "identifier too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRecord, "identifier contains invalid control characters")
		}
	}

	return nil
}

// ValidateName validates a table or field name used in configuration.
// Names are interpolated into SQL identifiers, so only letters, digits and
// underscores are accepted.
func ValidateName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "%s name cannot be empty", kind)
	}

	for _, r := range name {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return New(ErrCodeInvalidConfig, "%s name %q contains invalid character %q", kind, name, r)
		}
	}

	return nil
}
