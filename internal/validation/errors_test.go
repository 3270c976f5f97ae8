package validation

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name        string
		errors      []FieldError
		expectError string
	}{
		{"No errors", []FieldError{}, "validation error"},
		{"Single error", []FieldError{{Field: "title", Message: "Title cannot be empty"}}, "validation error for field 'title': Title cannot be empty"},
		{"Multiple errors", []FieldError{
			{Field: "title", Message: "Title cannot be empty"},
			{Field: "priority", Message: "Priority must be one of Low, Medium, High"},
		}, "multiple validation errors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			result := ve.Error()
			if !strings.HasPrefix(result, tt.expectError) {
				t.Errorf("ValidationError.Error() = %v, expected prefix %v", result, tt.expectError)
			}
		})
	}
}

func TestValidationError_Collect(t *testing.T) {
	ve := NewValidationError()

	if err := ve.Collect(nil); err != nil {
		t.Errorf("Collect(nil) = %v, want nil", err)
	}
	if ve.HasErrors() {
		t.Errorf("Collect(nil) should not add errors")
	}

	_, titleErr := NewTaskValidator().ValidateTitle("")
	if err := ve.Collect(titleErr); err != nil {
		t.Errorf("Collect(field error) = %v, want nil", err)
	}

	other := NewValidationError()
	other.AddError(FieldPriority, ErrorTypeUnknownPriority, "bad priority", "Urgent")
	if err := ve.Collect(other); err != nil {
		t.Errorf("Collect(validation error) = %v, want nil", err)
	}

	plain := errors.New("disk failure")
	if err := ve.Collect(plain); err != plain {
		t.Errorf("Collect(plain) = %v, want the plain error back", err)
	}

	if len(ve.Errors) != 2 {
		t.Fatalf("expected 2 collected errors, got %d", len(ve.Errors))
	}
	if ve.OrNil() == nil {
		t.Errorf("OrNil should return the error when it has entries")
	}
	if NewValidationError().OrNil() != nil {
		t.Errorf("OrNil should return nil when empty")
	}
}

func TestValidationError_FieldMessages(t *testing.T) {
	ve := NewValidationError()
	ve.AddError(FieldTitle, ErrorTypeEmptyValue, "first", "")
	ve.AddError(FieldTitle, ErrorTypeTooLong, "second", "")
	ve.AddError(FieldDueDate, ErrorTypePastDate, "past", "")

	messages := ve.FieldMessages()
	if messages[FieldTitle] != "first" {
		t.Errorf("FieldMessages()[title] = %q, want first", messages[FieldTitle])
	}
	if messages[FieldDueDate] != "past" {
		t.Errorf("FieldMessages()[dueDate] = %q, want past", messages[FieldDueDate])
	}
	if len(ve.GetFieldErrors(FieldTitle)) != 2 {
		t.Errorf("GetFieldErrors(title) should return both entries")
	}
}

func TestValidationError_GetUserFriendlyMessage(t *testing.T) {
	ve := NewValidationError()
	if ve.GetUserFriendlyMessage() != "Input validation failed" {
		t.Errorf("empty message = %q", ve.GetUserFriendlyMessage())
	}

	ve.AddError(FieldTitle, ErrorTypeEmptyValue, "Title cannot be empty", "")
	if ve.GetUserFriendlyMessage() != "Title cannot be empty" {
		t.Errorf("single message = %q", ve.GetUserFriendlyMessage())
	}

	ve.AddError(FieldDescription, ErrorTypeTooShort, "Description too short", "x")
	msg := ve.GetUserFriendlyMessage()
	if !strings.Contains(msg, "- Title cannot be empty") || !strings.Contains(msg, "- Description too short") {
		t.Errorf("multi message = %q", msg)
	}
}

func TestKindOf(t *testing.T) {
	ve := NewValidationError()
	ve.AddError(FieldDescription, ErrorTypeTooShort, "short", "short")

	tests := []struct {
		name   string
		err    error
		want   ValidationErrorType
		wantOK bool
	}{
		{"field error", &FieldError{Type: ErrorTypePastDate}, ErrorTypePastDate, true},
		{"wrapped field error", fmt.Errorf("wrap: %w", &FieldError{Type: ErrorTypeTooLong}), ErrorTypeTooLong, true},
		{"collection", ve, ErrorTypeTooShort, true},
		{"empty collection", NewValidationError(), "", false},
		{"plain", errors.New("plain"), "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KindOf(tt.err)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("KindOf() = %v, %v, want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if !IsValidationError(ve) || !IsValidationError(&FieldError{}) || IsValidationError(errors.New("x")) {
		t.Errorf("IsValidationError misclassified an error")
	}
}
