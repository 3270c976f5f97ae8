package services

import (
	"time"

	"planerly/internal/domain"
)

// Status selects tasks by completion.
type Status string

const (
	StatusAll  Status = ""
	StatusOpen Status = "open"
	StatusDone Status = "done"
)

// SearchCriteria represents criteria for filtering the tasks of a project
type SearchCriteria struct {
	TextFilter  string          `json:"text_filter,omitempty"`
	Status      Status          `json:"status,omitempty"`
	Priority    domain.Priority `json:"priority,omitempty"`
	OverdueOnly bool            `json:"overdue_only,omitempty"`
}

// SortOrder defines how task results should be sorted
type SortOrder string

const (
	SortByPosition SortOrder = ""         // Project order (default)
	SortByDueDate  SortOrder = "due"      // Earliest due date first
	SortByPriority SortOrder = "priority" // High before Low
	SortByTitle    SortOrder = "title"    // Alphabetical by title
	SortByCreated  SortOrder = "created"  // Newest first
)

// ProjectSummary reports progress across one project.
type ProjectSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Current        bool   `json:"current"`
	Tasks          int    `json:"tasks"`
	Completed      int    `json:"completed"`
	Overdue        int    `json:"overdue"`
	ChecklistDone  int    `json:"checklist_done"`
	ChecklistTotal int    `json:"checklist_total"`
}

// SearchService handles filtering and ordering of tasks
type SearchService interface {
	// SearchTasks returns the tasks matching criteria, in their original order
	SearchTasks(tasks []*domain.Task, criteria SearchCriteria, now time.Time) []*domain.Task

	// SortTasks returns a sorted copy of tasks
	SortTasks(tasks []*domain.Task, order SortOrder) []*domain.Task

	// ResolveID expands a unique id prefix among ids
	ResolveID(resource, prefix string, ids []string) (string, error)
}

// ReportingService handles progress reporting
type ReportingService interface {
	// Summarize reports progress per project in list order
	Summarize(list *domain.ProjectsList, now time.Time) []ProjectSummary

	// Totals adds up summaries; the result has no id or name
	Totals(summaries []ProjectSummary) ProjectSummary

	// CompletionPercent returns part as a percentage of whole, 0 when whole is 0
	CompletionPercent(part, whole int) float64
}

// ServiceContainer manages all services
type ServiceContainer struct {
	SearchService    SearchService
	ReportingService ReportingService
}

// NewServiceContainer creates the default services
func NewServiceContainer() *ServiceContainer {
	return &ServiceContainer{
		SearchService:    NewSearchService(),
		ReportingService: NewReportingService(),
	}
}
