package ui

import (
	"github.com/charmbracelet/lipgloss"

	"planerly/internal/view"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	failureStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	// classStyles styles a token by the first class of its node found here.
	classStyles = map[string]lipgloss.Style{
		"project-title":   lipgloss.NewStyle().Bold(true).Underline(true),
		"task-title":      lipgloss.NewStyle().Bold(true),
		"checklist-title": lipgloss.NewStyle().Faint(true),
		"task-created":    lipgloss.NewStyle().Faint(true),
		"task-count":      lipgloss.NewStyle().Faint(true),
		"empty-state":     lipgloss.NewStyle().Italic(true).Faint(true),
		"error-message":   failureStyle,
		"priority-high":   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		"priority-medium": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"priority-low":    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}

	completedStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	overdueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	currentStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
)

// styleFor picks the style of a node from its own classes and the state of
// the task card or project entry around it.
func styleFor(n *view.Node) (lipgloss.Style, bool) {
	for _, c := range n.Classes {
		if s, ok := classStyles[c]; ok {
			if c == "task-title" {
				if card := ancestorWithClass(n, "task-card"); card != nil && card.HasClass("completed") {
					return completedStyle, true
				}
			}
			return s, true
		}
	}

	switch {
	case n.HasClass("task-due"):
		if card := ancestorWithClass(n, "task-card"); card != nil && card.HasClass("overdue") {
			return overdueStyle, true
		}
	case n.Attr("data-action") == "select-project":
		if entry := ancestorWithClass(n, "project-name"); entry != nil && entry.HasClass("current") {
			return currentStyle, true
		}
	}
	return lipgloss.Style{}, false
}

func ancestorWithClass(n *view.Node, class string) *view.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.HasClass(class) {
			return p
		}
	}
	return nil
}
