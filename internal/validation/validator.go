// Package validation validates request parameters and configuration with
// go-playground/validator.
//
// A single validator instance is shared by the whole process; it caches
// struct metadata and carries the custom "catalogid" tag used for set and
// part numbers:
//
//	type inventoryRequest struct {
//	    SetNum string `validate:"required,catalogid"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    // err.Error() is a user-facing message
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MaxIDLength is the longest set or part number accepted
const MaxIDLength = 64

var catalogIDPattern = regexp.MustCompile(`(?i)^[-.a-z0-9]+$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single field that failed validation
type FieldError struct {
	field   string
	tag     string
	param   string
	value   any
	message string
}

// Field returns the name of the field that failed
func (e *FieldError) Field() string { return e.field }

// Tag returns the validation tag that failed
func (e *FieldError) Tag() string { return e.tag }

// Param returns the tag parameter, e.g. "1" for "min=1"
func (e *FieldError) Param() string { return e.param }

// Value returns the rejected value
func (e *FieldError) Value() any { return e.value }

func (e *FieldError) Error() string { return e.message }

// RequestValidationError collects every field that failed validation
type RequestValidationError struct {
	errors []FieldError
}

// Errors returns the individual field failures
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.errors
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.errors))
	for i, err := range ve.errors {
		messages[i] = err.message
	}
	return strings.Join(messages, "; ")
}

// Rejected builds a single-field failure for values that never reach the
// validator, such as query parameters that do not parse.
func Rejected(field, tag string, value any, message string) *RequestValidationError {
	return &RequestValidationError{errors: []FieldError{{
		field:   field,
		tag:     tag,
		value:   value,
		message: message,
	}}}
}

// ValidateVar validates a single value against tag, reporting failures under field
func ValidateVar(field string, value any, tag string) *RequestValidationError {
	err := GetValidator().Var(value, tag)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return Rejected(field, "unknown", value, err.Error())
	}
	fe := validationErrs[0]
	message := translateError(fe)
	// Var reports an empty field name
	message = field + strings.TrimPrefix(message, fe.Field())
	return Rejected(field, fe.Tag(), value, message)
}

// IsCatalogID reports whether s is a well-formed set or part number
func IsCatalogID(s string) bool {
	return len(s) <= MaxIDLength && catalogIDPattern.MatchString(s)
}

// GetValidator returns the shared validator instance
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(fieldName)
		_ = validate.RegisterValidation("catalogid", func(fl validator.FieldLevel) bool {
			return IsCatalogID(fl.Field().String())
		})
	})
	return validate
}

// ValidateStruct validates s, returning nil or a *RequestValidationError
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{errors: []FieldError{{
			field:   "unknown",
			tag:     "unknown",
			message: err.Error(),
		}}}
	}

	fieldErrors := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		fieldErrors[i] = FieldError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			param:   fe.Param(),
			value:   fe.Value(),
			message: translateError(fe),
		}
	}
	return &RequestValidationError{errors: fieldErrors}
}

// fieldName reports fields by their query, toml or name tag so messages
// use the names callers actually typed.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"query", "toml", "name"} {
		if name, _, _ := strings.Cut(f.Tag.Get(key), ","); name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

var errorMessageTemplates = map[string]string{
	"required":      "%s is required",
	"catalogid":     "%s must contain only letters, digits, '-' and '.', at most 64 characters",
	"hostname_port": "%s must be a host:port address",
}

var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func translateError(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	isString := fe.Kind().String() == "string"
	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
