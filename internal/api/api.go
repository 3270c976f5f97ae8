package api

import (
	"context"

	"planerly/internal/document"
	"planerly/internal/domain"
	"planerly/internal/services"
)

// ProjectSummary reports progress across one project.
type ProjectSummary = services.ProjectSummary

// TaskEdit carries the fields to change on a task. Nil fields keep their
// current value.
type TaskEdit struct {
	Title       *string
	Description *string
	DueDate     *string
	Priority    *string
}

// PlannerAPI defines the planner operations used by the command line.
// Every mutation is saved before it returns.
type PlannerAPI interface {
	// ========== Projects ==========

	// ListProjects returns every project in display order
	ListProjects(ctx context.Context) []*domain.Project

	// CurrentProject returns the selected project
	CurrentProject(ctx context.Context) (*domain.Project, error)

	// AddProject creates a project; the first project becomes current
	AddProject(ctx context.Context, name string) (*domain.Project, error)

	// RenameProject changes a project name
	RenameProject(ctx context.Context, projectID, name string) (*domain.Project, error)

	// RemoveProject deletes a project and its tasks
	RemoveProject(ctx context.Context, projectID string) (*domain.Project, error)

	// SelectProject makes a project current
	SelectProject(ctx context.Context, projectID string) (*domain.Project, error)

	// ========== Tasks ==========

	// ListTasks returns the tasks of a project, or of the current project when projectID is empty
	ListTasks(ctx context.Context, projectID string) (*domain.Project, []*domain.Task, error)

	// SearchTasks filters and orders the tasks of a project, or of the current project when projectID is empty
	SearchTasks(ctx context.Context, projectID string, criteria services.SearchCriteria, order services.SortOrder) (*domain.Project, []*domain.Task, error)

	// GetTask returns a task and the project holding it
	GetTask(ctx context.Context, taskID string) (*domain.Project, *domain.Task, error)

	// AddTask creates a task from form values
	AddTask(ctx context.Context, projectID string, input domain.TaskInput) (*domain.Task, error)

	// EditTask changes task fields; nothing changes unless every field is valid
	EditTask(ctx context.Context, taskID string, edit TaskEdit) (*domain.Task, error)

	// RemoveTask deletes a task
	RemoveTask(ctx context.Context, taskID string) (*domain.Task, error)

	// ToggleTask flips completion, cascading to the checklist
	ToggleTask(ctx context.Context, taskID string) (*domain.Task, error)

	// ========== Checklists ==========

	// AddChecklistItem appends an item to a task checklist
	AddChecklistItem(ctx context.Context, taskID, text string) (domain.ChecklistItem, error)

	// ToggleChecklistItem flips one checklist item
	ToggleChecklistItem(ctx context.Context, taskID, itemID string) error

	// RemoveChecklistItem deletes one checklist item
	RemoveChecklistItem(ctx context.Context, taskID, itemID string) error

	// ========== Lookup ==========

	// ResolveProjectID expands a unique id prefix to a project id
	ResolveProjectID(prefix string) (string, error)

	// ResolveTaskID expands a unique id prefix to a task id
	ResolveTaskID(prefix string) (string, error)

	// ResolveItemID expands a unique id prefix to a checklist item id of a task
	ResolveItemID(taskID, prefix string) (string, error)

	// ========== Reporting ==========

	// Summary reports progress per project
	Summary(ctx context.Context) []ProjectSummary

	// Document returns the persisted form of the current state
	Document(ctx context.Context) *document.Document

	// Reset deletes the saved data and starts over from the seed
	Reset(ctx context.Context) error
}
