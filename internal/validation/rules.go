// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"
	"unicode/utf8"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/sporeid/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NoSeparator rejects strings containing the device id segment separator.
var NoSeparator = validation.NewStringRuleWithError(
	func(s string) bool {
		return !strings.Contains(s, "-")
	},
	validation.NewError("validation_no_separator", "must not contain '-'"),
)

// LocationCode requires exactly three characters once surrounding whitespace is removed.
var LocationCode = validation.NewStringRuleWithError(
	func(s string) bool {
		return utf8.RuneCountInString(strings.TrimSpace(s)) == 3
	},
	validation.NewError("validation_location_code", "must be exactly 3 characters"),
)

// OneOf validates that a string is one of the allowed values.
func OneOf(allowed ...string) validation.Rule {
	values := make([]any, len(allowed))
	for i, v := range allowed {
		values[i] = v
	}
	return validation.In(values...).Error("must be one of: " + strings.Join(allowed, ", "))
}
