// Package validator adapts go-playground struct-tag validation to the error
// conventions used across the service.
package validator

import (
	"github.com/go-playground/validator/v10"
	ierr "github.com/quotekit/quotekit/internal/errors"
)

// The shared instance is ready at init so request validation never depends
// on construction order.
var validate = validator.New()

// NewValidator returns the shared validator instance
func NewValidator() *validator.Validate {
	return validate
}

// ValidateRequest checks a request struct against its validate tags and
// converts failures into a validation error carrying per-field details
func ValidateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	details := make(map[string]any)
	var fieldErrs validator.ValidationErrors
	if ierr.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			details[fe.Field()] = fe.Error()
		}
	}
	return ierr.WithError(err).
		WithHint("Request validation failed").
		WithReportableDetails(details).
		Mark(ierr.ErrValidation)
}
