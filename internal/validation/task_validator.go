package validation

import (
	"fmt"
	"strings"
	"time"
)

// Priority names accepted by ValidatePriority, in display order.
var PriorityNames = []string{"Low", "Medium", "High"}

// TaskValidator validates the user editable fields of a task
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// ValidateTitle returns the trimmed title or a *FieldError
func (tv *TaskValidator) ValidateTitle(title string) (string, error) {
	trimmed := tv.validator.TrimAndValidateString(title)
	if !tv.validator.IsNonEmptyString(trimmed) {
		return "", newFieldError(FieldTitle, ErrorTypeEmptyValue, "Title cannot be empty", title)
	}
	if tv.validator.Length(trimmed) > TitleMaxLength {
		return "", newFieldError(FieldTitle, ErrorTypeTooLong,
			fmt.Sprintf("Title cannot be longer than %d characters", TitleMaxLength), title)
	}
	return trimmed, nil
}

// ValidateDescription returns the trimmed description or a *FieldError
func (tv *TaskValidator) ValidateDescription(description string) (string, error) {
	trimmed := tv.validator.TrimAndValidateString(description)
	if !tv.validator.IsNonEmptyString(trimmed) {
		return "", newFieldError(FieldDescription, ErrorTypeEmptyValue, "Description cannot be empty", description)
	}
	if tv.validator.Length(trimmed) < DescriptionMinLength {
		return "", newFieldError(FieldDescription, ErrorTypeTooShort,
			fmt.Sprintf("Description must be at least %d characters long", DescriptionMinLength), description)
	}
	return trimmed, nil
}

// ParseDueDate parses a calendar date from form input. Both YYYY-MM-DD and
// RFC3339 are accepted; the result is midnight UTC of that date.
func (tv *TaskValidator) ParseDueDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if d, err := time.Parse(DueDateLayout, trimmed); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return DateOnly(t), nil
	}
	return time.Time{}, newFieldError(FieldDueDate, ErrorTypeInvalidDate, "Due date must be a valid date", value)
}

// ValidateDueDate checks that due is a real date not earlier than today.
// Only the calendar dates are compared.
func (tv *TaskValidator) ValidateDueDate(due, today time.Time) (time.Time, error) {
	if due.IsZero() {
		return time.Time{}, newFieldError(FieldDueDate, ErrorTypeInvalidDate, "Due date must be a valid date", due)
	}
	date := DateOnly(due)
	if date.Before(DateOnly(today)) {
		return time.Time{}, newFieldError(FieldDueDate, ErrorTypePastDate, "Due date cannot be in the past", due)
	}
	return date, nil
}

// ValidateDueDateString parses and validates a due date from form input
func (tv *TaskValidator) ValidateDueDateString(value string, today time.Time) (time.Time, error) {
	due, err := tv.ParseDueDate(value)
	if err != nil {
		return time.Time{}, err
	}
	return tv.ValidateDueDate(due, today)
}

// ValidatePriority accepts exactly Low, Medium or High
func (tv *TaskValidator) ValidatePriority(priority string) (string, error) {
	for _, name := range PriorityNames {
		if priority == name {
			return priority, nil
		}
	}
	return "", newFieldError(FieldPriority, ErrorTypeUnknownPriority,
		fmt.Sprintf("Priority must be one of %s", strings.Join(PriorityNames, ", ")), priority)
}

// ValidateChecklistText returns the trimmed checklist item text or a *FieldError
func (tv *TaskValidator) ValidateChecklistText(text string) (string, error) {
	trimmed := tv.validator.TrimAndValidateString(text)
	if !tv.validator.IsNonEmptyString(trimmed) {
		return "", newFieldError(FieldChecklistItem, ErrorTypeEmptyValue, "Checklist item cannot be empty", text)
	}
	return trimmed, nil
}
