// Package api holds the application state: the projects list, the clock
// and the persistence adapter that saves every change.
package api

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"planerly/internal/document"
	"planerly/internal/domain"
	"planerly/internal/errors"
	"planerly/internal/logging"
	"planerly/internal/persistence"
	"planerly/internal/services"
	"planerly/internal/validation"
)

// Workspace owns the projects list. It implements PlannerAPI for the
// command line and view.State for the interactive front ends.
type Workspace struct {
	list     *domain.ProjectsList
	adapter  *persistence.Adapter
	mapper   *domain.Mapper
	services *services.ServiceContainer
	clock    func() time.Time
	logger   *log.Logger
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(w *Workspace) {
		if clock != nil {
			w.clock = clock
		}
	}
}

// WithLogger sets the workspace logger.
func WithLogger(logger *log.Logger) Option {
	return func(w *Workspace) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWorkspace loads the saved projects, falling back to the seed.
func NewWorkspace(ctx context.Context, adapter *persistence.Adapter, opts ...Option) *Workspace {
	w := &Workspace{
		adapter:  adapter,
		mapper:   domain.NewMapper(),
		services: services.NewServiceContainer(),
		clock:    time.Now,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.list = adapter.LoadOrSeed(ctx, w.Now())
	return w
}

// Projects returns the live projects list.
func (w *Workspace) Projects() *domain.ProjectsList {
	return w.list
}

// Now returns the workspace clock time.
func (w *Workspace) Now() time.Time {
	return w.clock()
}

// Persist saves the list. Failures are logged by the adapter and dropped,
// so rendering never blocks on storage.
func (w *Workspace) Persist(ctx context.Context) {
	if err := w.adapter.Save(ctx, w.list); err != nil {
		w.logger.Warn("continuing without saving", "err", err)
	}
}

func (w *Workspace) save(ctx context.Context) error {
	return w.adapter.Save(ctx, w.list)
}

// ========== Projects ==========

func (w *Workspace) ListProjects(ctx context.Context) []*domain.Project {
	return w.list.Projects()
}

func (w *Workspace) CurrentProject(ctx context.Context) (*domain.Project, error) {
	current := w.list.CurrentProject()
	if current == nil {
		return nil, errors.NewNotFoundError("project", "current")
	}
	return current, nil
}

func (w *Workspace) AddProject(ctx context.Context, name string) (*domain.Project, error) {
	project, err := domain.NewProject(name)
	if err != nil {
		return nil, errors.NewValidationError("invalid project name", err)
	}
	if err := w.list.AddProject(project); err != nil {
		return nil, err
	}
	return project, w.save(ctx)
}

func (w *Workspace) RenameProject(ctx context.Context, projectID, name string) (*domain.Project, error) {
	project, err := w.list.ProjectByID(projectID)
	if err != nil {
		return nil, err
	}
	if err := project.Rename(name); err != nil {
		return nil, errors.NewValidationError("invalid project name", err)
	}
	return project, w.save(ctx)
}

func (w *Workspace) RemoveProject(ctx context.Context, projectID string) (*domain.Project, error) {
	removed := w.list.RemoveProject(projectID)
	if removed == nil {
		return nil, errors.NewNotFoundError("project", projectID)
	}
	return removed, w.save(ctx)
}

func (w *Workspace) SelectProject(ctx context.Context, projectID string) (*domain.Project, error) {
	if err := w.list.SetCurrentProject(projectID); err != nil {
		return nil, err
	}
	return w.list.CurrentProject(), w.save(ctx)
}

// ========== Tasks ==========

func (w *Workspace) projectOrCurrent(ctx context.Context, projectID string) (*domain.Project, error) {
	if projectID == "" {
		return w.CurrentProject(ctx)
	}
	return w.list.ProjectByID(projectID)
}

func (w *Workspace) ListTasks(ctx context.Context, projectID string) (*domain.Project, []*domain.Task, error) {
	project, err := w.projectOrCurrent(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	return project, project.Tasks(), nil
}

func (w *Workspace) GetTask(ctx context.Context, taskID string) (*domain.Project, *domain.Task, error) {
	return w.list.FindTask(taskID)
}

func (w *Workspace) SearchTasks(ctx context.Context, projectID string, criteria services.SearchCriteria, order services.SortOrder) (*domain.Project, []*domain.Task, error) {
	project, tasks, err := w.ListTasks(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	search := w.services.SearchService
	return project, search.SortTasks(search.SearchTasks(tasks, criteria, w.Now()), order), nil
}

func (w *Workspace) AddTask(ctx context.Context, projectID string, input domain.TaskInput) (*domain.Task, error) {
	// 1. Find the target project
	project, err := w.projectOrCurrent(ctx, projectID)
	if err != nil {
		return nil, err
	}

	// 2. Validate every field at once
	task, err := domain.NewTaskFromInput(input, w.Now())
	if err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}

	// 3. Attach and save
	if err := project.AddTask(task); err != nil {
		return nil, err
	}
	return task, w.save(ctx)
}

func (w *Workspace) EditTask(ctx context.Context, taskID string, edit TaskEdit) (*domain.Task, error) {
	_, task, err := w.list.FindTask(taskID)
	if err != nil {
		return nil, err
	}

	input := domain.TaskInput{
		Title:       valueOr(edit.Title, task.Title()),
		Description: valueOr(edit.Description, task.Description()),
		DueDate:     valueOr(edit.DueDate, task.DueDate().Format(validation.DueDateLayout)),
		Priority:    valueOr(edit.Priority, task.Priority().String()),
	}
	if err := task.Update(input, w.Now()); err != nil {
		return nil, errors.NewValidationError("invalid task", err)
	}
	return task, w.save(ctx)
}

func valueOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func (w *Workspace) RemoveTask(ctx context.Context, taskID string) (*domain.Task, error) {
	project, _, err := w.list.FindTask(taskID)
	if err != nil {
		return nil, err
	}
	removed, err := project.RemoveTask(taskID)
	if err != nil {
		return nil, err
	}
	return removed, w.save(ctx)
}

func (w *Workspace) ToggleTask(ctx context.Context, taskID string) (*domain.Task, error) {
	_, task, err := w.list.FindTask(taskID)
	if err != nil {
		return nil, err
	}
	task.ToggleCompleted()
	return task, w.save(ctx)
}

// ========== Checklists ==========

func (w *Workspace) AddChecklistItem(ctx context.Context, taskID, text string) (domain.ChecklistItem, error) {
	_, task, err := w.list.FindTask(taskID)
	if err != nil {
		return domain.ChecklistItem{}, err
	}
	item, err := task.AddChecklistItem(text)
	if err != nil {
		return domain.ChecklistItem{}, errors.NewValidationError("invalid checklist item", err)
	}
	return item, w.save(ctx)
}

func (w *Workspace) ToggleChecklistItem(ctx context.Context, taskID, itemID string) error {
	_, task, err := w.list.FindTask(taskID)
	if err != nil {
		return err
	}
	if err := task.ToggleChecklistItem(itemID); err != nil {
		return err
	}
	return w.save(ctx)
}

func (w *Workspace) RemoveChecklistItem(ctx context.Context, taskID, itemID string) error {
	_, task, err := w.list.FindTask(taskID)
	if err != nil {
		return err
	}
	if err := task.RemoveChecklistItem(itemID); err != nil {
		return err
	}
	return w.save(ctx)
}

// ========== Lookup ==========

func (w *Workspace) resolve(resource, prefix string, ids []string) (string, error) {
	return w.services.SearchService.ResolveID(resource, prefix, ids)
}

func (w *Workspace) ResolveProjectID(prefix string) (string, error) {
	var ids []string
	for _, p := range w.list.Projects() {
		ids = append(ids, p.ID())
	}
	return w.resolve("project", prefix, ids)
}

func (w *Workspace) ResolveTaskID(prefix string) (string, error) {
	var ids []string
	for _, p := range w.list.Projects() {
		for _, t := range p.Tasks() {
			ids = append(ids, t.ID())
		}
	}
	return w.resolve("task", prefix, ids)
}

func (w *Workspace) ResolveItemID(taskID, prefix string) (string, error) {
	_, task, err := w.list.FindTask(taskID)
	if err != nil {
		return "", err
	}
	var ids []string
	for _, item := range task.Checklist() {
		ids = append(ids, item.ID)
	}
	return w.resolve("checklist item", prefix, ids)
}

// ========== Reporting ==========

func (w *Workspace) Summary(ctx context.Context) []ProjectSummary {
	return w.services.ReportingService.Summarize(w.list, w.Now())
}

func (w *Workspace) Document(ctx context.Context) *document.Document {
	return w.mapper.ToDocument(w.list)
}

func (w *Workspace) Reset(ctx context.Context) error {
	if err := w.adapter.Clear(ctx); err != nil {
		return err
	}
	w.list = domain.SeedProjectsList(w.Now())
	w.logger.Info("reset to seed projects")
	return w.save(ctx)
}
