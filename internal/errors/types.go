package errors

import (
	"fmt"
)

// ErrorType is the category of an AppError. Codes, user messages and
// logging all follow from it.
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypePersistence
	ErrorTypeStorage
	ErrorTypeInvalidInput
	ErrorTypeTimeout
)

type typeInfo struct {
	name   string
	code   string
	system bool
}

var errorTypes = map[ErrorType]typeInfo{
	ErrorTypeValidation:   {name: "validation", code: "VALIDATION_FAILED"},
	ErrorTypeNotFound:     {name: "not_found", code: "NOT_FOUND"},
	ErrorTypePersistence:  {name: "persistence", code: "PERSISTENCE_ERROR", system: true},
	ErrorTypeStorage:      {name: "storage", code: "STORAGE_ERROR", system: true},
	ErrorTypeInvalidInput: {name: "invalid_input", code: "INVALID_INPUT"},
	ErrorTypeTimeout:      {name: "timeout", code: "TIMEOUT", system: true},
}

// String returns the name used in error strings and logs
func (et ErrorType) String() string {
	if info, ok := errorTypes[et]; ok {
		return info.name
	}
	return "unknown"
}

// Code returns the stable code the constructors assign to this type
func (et ErrorType) Code() string {
	if info, ok := errorTypes[et]; ok {
		return info.code
	}
	return "UNKNOWN_ERROR"
}

// System reports whether errors of this type come from the machine rather
// than from the user. Unknown types count as system errors.
func (et ErrorType) System() bool {
	info, ok := errorTypes[et]
	return !ok || info.system
}

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (caused by: %v)", msg, e.Cause)
}

// Unwrap returns the underlying error for error unwrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError of the same type and code, so sentinel
// comparisons ignore the message and context.
func (e *AppError) Is(target error) bool {
	other, ok := target.(*AppError)
	return ok && e.Type == other.Type && e.Code == other.Code
}

// IsType checks if this error is of the specified type
func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

// WithContext adds context information to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetContext returns the value recorded under key
func (e *AppError) GetContext(key string) (interface{}, bool) {
	value, exists := e.Context[key]
	return value, exists
}
