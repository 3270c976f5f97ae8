package validation

import "fmt"

// ProjectNameMessage is shown next to the project name input on any failure.
var ProjectNameMessage = fmt.Sprintf("Project name cannot be empty or longer than %d characters", ProjectNameMaxLength)

// ProjectValidator validates project names
type ProjectValidator struct {
	validator *Validator
}

// NewProjectValidator creates a new project validator
func NewProjectValidator() *ProjectValidator {
	return &ProjectValidator{validator: NewValidator()}
}

// ValidateProjectName returns the trimmed name or a *FieldError
func (pv *ProjectValidator) ValidateProjectName(name string) (string, error) {
	trimmed := pv.validator.TrimAndValidateString(name)
	if !pv.validator.IsNonEmptyString(trimmed) {
		return "", newFieldError(FieldProjectName, ErrorTypeEmptyValue, ProjectNameMessage, name)
	}
	if pv.validator.Length(trimmed) > ProjectNameMaxLength {
		return "", newFieldError(FieldProjectName, ErrorTypeTooLong, ProjectNameMessage, name)
	}
	return trimmed, nil
}
