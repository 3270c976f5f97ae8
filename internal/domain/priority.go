package domain

import (
	"planerly/internal/validation"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists every priority in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority converts form input into a Priority. The match is exact.
func ParsePriority(s string) (Priority, error) {
	name, err := validation.NewTaskValidator().ValidatePriority(s)
	if err != nil {
		return "", err
	}
	return Priority(name), nil
}

// Symbol returns the colored badge shown next to a task title.
func (p Priority) Symbol() string {
	switch p {
	case PriorityLow:
		return "🟢"
	case PriorityMedium:
		return "🟠"
	case PriorityHigh:
		return "🔴"
	default:
		return "⚪"
	}
}

// String returns the priority name.
func (p Priority) String() string {
	return string(p)
}
