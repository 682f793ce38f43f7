package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidationError represents a validation error for a specific field
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (ve *ValidationError) Error() string {
	return ve.Message
}

// NewValidationError creates a validation error for field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// fieldMessager is implemented by requests that report fixed, user-facing
// messages for failed fields
type fieldMessager interface {
	ValidationMessage(field string) string
}

// checker is implemented by requests with rules struct tags cannot express
type checker interface {
	Check() error
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// Amounts are validated through their string form
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if amount, ok := field.Interface().(decimal.Decimal); ok {
			return amount.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("positive_amount", func(fl validator.FieldLevel) bool {
		amount, err := decimal.NewFromString(fl.Field().String())
		return err == nil && amount.IsPositive()
	})

	return v
}

// Validate checks a request against its struct tags and custom rules.
// The first failure is returned as a *ValidationError.
func Validate(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			return err
		}

		first := fieldErrs[0]
		message := defaultMessage(first)
		if m, ok := req.(fieldMessager); ok {
			if custom := m.ValidationMessage(first.Field()); custom != "" {
				message = custom
			}
		}
		return &ValidationError{Field: first.Field(), Message: message}
	}

	if c, ok := req.(checker); ok {
		return c.Check()
	}
	return nil
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", fe.Field(), fe.Param())
	case "positive_amount":
		return "Amount must be greater than zero"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
