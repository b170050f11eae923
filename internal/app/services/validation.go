package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/silani/discipline/internal/pkg/apperrors"
)

var (
	validate = newValidator()

	// raw guardian phone as typed: digits with optional +, spaces, dashes and dots
	rawPhonePattern = regexp.MustCompile(`^\+?[0-9][0-9 .\-]{5,24}$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("rawphone", func(fl validator.FieldLevel) bool {
		return rawPhonePattern.MatchString(fl.Field().String())
	})
	return v
}

// validateStruct runs tag validation and folds the result into
// apperrors.ErrValidationFailed
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return fmt.Errorf("%w: %s", apperrors.ErrValidationFailed, strings.Join(msgs, "; "))
}

// formatFieldError creates a human-readable validation error message
func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min", "gte":
		return e.Field() + " must be at least " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "max", "lte":
		return e.Field() + " must be at most " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "rawphone":
		return e.Field() + " must be a phone number"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
