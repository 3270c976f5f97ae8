package errors

import (
	"errors"
	"fmt"
)

const (
	storageMessage = "Your planner data could not be saved or loaded. Please try again."
	timeoutMessage = "The operation timed out. Please try again."
	unknownMessage = "An unexpected error occurred. Please try again."
)

func newAppError(t ErrorType, message string, cause error, context map[string]interface{}) *AppError {
	if context == nil {
		context = make(map[string]interface{})
	}
	return &AppError{
		Type:    t,
		Message: message,
		Code:    t.Code(),
		Cause:   cause,
		Context: context,
	}
}

// NewValidationError wraps a field level validation failure. The cause is
// what the user sees.
func NewValidationError(message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, message, cause, nil)
}

// NewNotFoundError reports an unknown project, task or checklist item
func NewNotFoundError(resource string, identifier string) *AppError {
	return newAppError(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", resource, identifier), nil,
		map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		})
}

// NewPersistenceError reports a failure to save or restore the projects document
func NewPersistenceError(operation string, cause error) *AppError {
	return newAppError(ErrorTypePersistence, "persistence operation failed: "+operation, cause,
		map[string]interface{}{"operation": operation})
}

// NewStorageError reports a failing key/value backend
func NewStorageError(operation string, cause error) *AppError {
	return newAppError(ErrorTypeStorage, "storage operation failed: "+operation, cause,
		map[string]interface{}{"operation": operation})
}

// NewInvalidInputError reports a malformed argument, flag or event
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return newAppError(ErrorTypeInvalidInput, fmt.Sprintf("invalid input for %s: %s", field, reason), nil,
		map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		})
}

// NewTimeoutError reports an operation that ran past its deadline
func NewTimeoutError(operation string, timeout interface{}) *AppError {
	return newAppError(ErrorTypeTimeout, "operation timed out: "+operation, nil,
		map[string]interface{}{
			"operation": operation,
			"timeout":   timeout,
		})
}

// WrapError wraps err in an AppError whose code is the type name
func WrapError(err error, errorType ErrorType, message string) *AppError {
	wrapped := newAppError(errorType, message, err, nil)
	wrapped.Code = errorType.String()
	return wrapped
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError finds the first AppError in err's chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.IsType(errorType)
}

// IsNotFound reports whether err is a not found error
func IsNotFound(err error) bool {
	return IsErrorType(err, ErrorTypeNotFound)
}

// GetUserMessage returns the text to show for err. Failures of the
// storage layers collapse to one generic message.
func GetUserMessage(err error) string {
	appErr, ok := AsAppError(err)
	if !ok {
		return err.Error()
	}

	switch appErr.Type {
	case ErrorTypeValidation:
		if appErr.Cause != nil {
			return appErr.Cause.Error()
		}
		return appErr.Message
	case ErrorTypeNotFound, ErrorTypeInvalidInput:
		return appErr.Message
	case ErrorTypePersistence, ErrorTypeStorage:
		return storageMessage
	case ErrorTypeTimeout:
		return timeoutMessage
	default:
		return unknownMessage
	}
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError reports whether err is a system error. User mistakes are
// not logged.
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type.System()
	}
	return true
}
