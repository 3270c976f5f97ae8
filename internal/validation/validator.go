package validation

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Length limits for user supplied text. Lengths are counted in runes after trimming.
const (
	TitleMaxLength       = 50
	DescriptionMinLength = 10
	ProjectNameMaxLength = 50
	DueDateLayout        = "2006-01-02"
)

// Validator provides common validation utilities
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Length returns the rune count of s after trimming whitespace
func (v *Validator) Length(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// DateOnly truncates t to its calendar date, expressed as midnight UTC.
// The year, month and day are read in t's own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
