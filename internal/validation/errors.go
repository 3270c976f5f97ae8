package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationErrorType represents the kind of validation failure
type ValidationErrorType string

const (
	ErrorTypeEmptyValue      ValidationErrorType = "EmptyValue"
	ErrorTypeTooLong         ValidationErrorType = "TooLong"
	ErrorTypeTooShort        ValidationErrorType = "TooShort"
	ErrorTypeInvalidDate     ValidationErrorType = "InvalidDate"
	ErrorTypePastDate        ValidationErrorType = "PastDate"
	ErrorTypeUnknownPriority ValidationErrorType = "UnknownPriority"
)

// Field names used in FieldError.Field. They match the form input names.
const (
	FieldTitle         = "title"
	FieldDescription   = "description"
	FieldDueDate       = "dueDate"
	FieldPriority      = "priority"
	FieldChecklistItem = "checklistItem"
	FieldProjectName   = "name"
)

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string
	Type    ValidationErrorType
	Message string
	Value   interface{}
}

// Error implements the error interface for FieldError
func (fe *FieldError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", fe.Field, fe.Message)
}

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []FieldError
}

// Error implements the error interface for ValidationError
func (ve *ValidationError) Error() string {
	if len(ve.Errors) == 0 {
		return "validation error"
	}

	if len(ve.Errors) == 1 {
		return ve.Errors[0].Error()
	}

	var messages []string
	for i := range ve.Errors {
		messages = append(messages, ve.Errors[i].Error())
	}

	return fmt.Sprintf("multiple validation errors: %s", strings.Join(messages, "; "))
}

// NewValidationError creates a new ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{
		Errors: make([]FieldError, 0),
	}
}

// IsValidationError checks if an error is a ValidationError or a FieldError
func IsValidationError(err error) bool {
	var ve *ValidationError
	var fe *FieldError
	return errors.As(err, &ve) || errors.As(err, &fe)
}

// KindOf returns the kind of the first validation failure in err.
// The second result is false when err carries no validation failure.
func KindOf(err error) (ValidationErrorType, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Type, true
	}
	var ve *ValidationError
	if errors.As(err, &ve) && len(ve.Errors) > 0 {
		return ve.Errors[0].Type, true
	}
	return "", false
}

// HasErrors returns true if the ValidationError has any errors
func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// AddError adds a new field error to the validation error
func (ve *ValidationError) AddError(field string, errorType ValidationErrorType, message string, value interface{}) {
	ve.Errors = append(ve.Errors, FieldError{
		Field:   field,
		Type:    errorType,
		Message: message,
		Value:   value,
	})
}

// Collect appends err when it is a validation failure. Other non-nil errors are
// returned unchanged so the caller can stop.
func (ve *ValidationError) Collect(err error) error {
	if err == nil {
		return nil
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		ve.Errors = append(ve.Errors, *fe)
		return nil
	}
	var other *ValidationError
	if errors.As(err, &other) {
		ve.Errors = append(ve.Errors, other.Errors...)
		return nil
	}
	return err
}

// OrNil returns ve when it has errors and nil otherwise
func (ve *ValidationError) OrNil() error {
	if ve.HasErrors() {
		return ve
	}
	return nil
}

// GetFieldErrors returns all errors for a specific field
func (ve *ValidationError) GetFieldErrors(field string) []FieldError {
	var fieldErrors []FieldError
	for _, err := range ve.Errors {
		if err.Field == field {
			fieldErrors = append(fieldErrors, err)
		}
	}
	return fieldErrors
}

// FieldMessages maps each errored field to its first message
func (ve *ValidationError) FieldMessages() map[string]string {
	messages := make(map[string]string, len(ve.Errors))
	for _, err := range ve.Errors {
		if _, seen := messages[err.Field]; !seen {
			messages[err.Field] = err.Message
		}
	}
	return messages
}

// GetUserFriendlyMessage returns a user-friendly error message
func (ve *ValidationError) GetUserFriendlyMessage() string {
	if len(ve.Errors) == 0 {
		return "Input validation failed"
	}

	if len(ve.Errors) == 1 {
		return ve.Errors[0].Message
	}

	return fmt.Sprintf("Multiple validation errors occurred:\n%s",
		strings.Join(ve.getUserFriendlyMessages(), "\n"))
}

// getUserFriendlyMessages returns user-friendly messages for all errors
func (ve *ValidationError) getUserFriendlyMessages() []string {
	var messages []string
	for _, err := range ve.Errors {
		messages = append(messages, fmt.Sprintf("- %s", err.Message))
	}
	return messages
}

func newFieldError(field string, errorType ValidationErrorType, message string, value interface{}) *FieldError {
	return &FieldError{Field: field, Type: errorType, Message: message, Value: value}
}
