// Package response turns errors into the one-line messages shown to the
// user at the console.
//
// Rather than formatting validator output in every menu handler, we
// centralise it here so all messages look the same.
package response

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ─────────────────────────────────────────────────────────────────────────────
// GeneralError renders any error. Validation failures are expanded into
// per-field sentences; everything else is printed as-is.
//
// Example usage:
//
//	ui.Error(response.GeneralError(err))
//
// ─────────────────────────────────────────────────────────────────────────────
func GeneralError(err error) string {
	var validateErrs validator.ValidationErrors
	if errors.As(err, &validateErrs) {
		return ValidationError(validateErrs)
	}
	return "Error: " + err.Error()
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts a slice of validator.FieldError values into
// a single human-readable message.
//
// The go-playground/validator package returns one FieldError per failing
// struct field. We convert each to a plain English sentence and join them
// with ", ".
//
// Example output:
//
//	Invalid record: field Name is required, field Roll must be greater than 0
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) string {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		// "required" tag: field was missing or zero-valued
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		// "gt" tag: numeric lower bound
		case "gt":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be greater than %s", e.Field(), e.Param()))
		// "max" tag: string length upper bound
		case "max":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be at most %s characters", e.Field(), e.Param()))
		// "excludes" tag: forbidden substring
		case "excludes":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must not contain %q", e.Field(), e.Param()))
		// "finite" tag: NaN and infinities
		case "finite":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a finite number", e.Field()))
		// Catch-all for any other validation tag
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return "Invalid record: " + strings.Join(errMessages, ", ")
}
