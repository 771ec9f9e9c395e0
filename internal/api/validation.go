package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/medium-api/internal/api/shared"
	"github.com/phrazzld/medium-api/internal/domain"
)

const fieldReasonRichText = "must be a list of rich-text operations or a string"

// FieldError describes why one input field was rejected.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationDetail is the error object of a 400 "invalid input" response.
type ValidationDetail struct {
	Fields []FieldError `json:"fields"`
}

// ValidationError is a rejected request. It matches domain.ErrValidation.
type ValidationError struct {
	Fields []FieldError
	Err    error
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, strings.TrimSpace(f.Field+" "+f.Reason))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == domain.ErrValidation
}

// newFieldError builds a ValidationError for a single field.
func newFieldError(field, reason string, err error) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Reason: reason}}, Err: err}
}

// decodeError converts a body decoding failure into a ValidationError.
func decodeError(err error) *ValidationError {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, shared.ErrEmptyBody):
		return newFieldError("body", "is required", err)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return newFieldError(typeErr.Field, "must be a "+jsonTypeName(typeErr.Type.Kind().String()), err)
	default:
		return newFieldError("body", "must be valid JSON", err)
	}
}

func jsonTypeName(kind string) string {
	switch kind {
	case "bool":
		return "boolean"
	case "string":
		return "string"
	case "slice", "array":
		return "list"
	case "map", "struct":
		return "object"
	default:
		return "number"
	}
}

// validate runs the shared validator over req.
func validate(req any) error {
	err := shared.ValidateRequest(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Reason: fieldReason(fe)})
	}
	return &ValidationError{Fields: fields, Err: err}
}

func fieldReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("must be at most %s bytes", fe.Param())
	case "number":
		return "must be a non-negative integer"
	case "richtext":
		return fieldReasonRichText
	default:
		return "is invalid"
	}
}

// validationDetail extracts the field list carried by err.
func validationDetail(err error) ValidationDetail {
	var apiErr *ValidationError
	if errors.As(err, &apiErr) {
		return ValidationDetail{Fields: apiErr.Fields}
	}

	var domainErr *domain.ValidationError
	if errors.As(err, &domainErr) {
		return ValidationDetail{Fields: []FieldError{{Field: domainErr.Field, Reason: domainErr.Message}}}
	}

	return ValidationDetail{Fields: []FieldError{}}
}
