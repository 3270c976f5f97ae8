package domain

import (
	"encoding/json"
	"fmt"

	"planerly/internal/document"
	"planerly/internal/errors"
	"planerly/internal/validation"
)

// Mapper converts between the entity graph and its persisted document.
type Mapper struct{}

// NewMapper creates a new Mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// ToDocument converts a projects list to a document at the current schema version.
func (m *Mapper) ToDocument(list *ProjectsList) *document.Document {
	doc := document.New()
	if list == nil {
		return doc
	}
	if current := list.CurrentProject(); current != nil {
		doc.CurrentProjectID = current.ID()
	}
	for _, p := range list.projects {
		doc.Projects = append(doc.Projects, m.ProjectToRecord(p))
	}
	return doc
}

// FromDocument rebuilds a projects list. Any invalid field, duplicate id or
// dangling current project id rejects the whole document.
func (m *Mapper) FromDocument(doc *document.Document) (*ProjectsList, error) {
	if doc == nil {
		return nil, errors.NewInvalidInputError("document", nil, "document is required")
	}

	list := NewProjectsList()
	taskIDs := make(map[string]struct{})

	for i, rec := range doc.Projects {
		p, err := m.ProjectFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("project %d: %w", i, err)
		}
		for _, t := range p.tasks {
			if _, dup := taskIDs[t.ID()]; dup {
				return nil, errors.NewInvalidInputError("task id", t.ID(), "task appears more than once")
			}
			taskIDs[t.ID()] = struct{}{}
		}
		if err := list.AddProject(p); err != nil {
			return nil, fmt.Errorf("project %d: %w", i, err)
		}
	}

	if doc.CurrentProjectID != "" {
		if err := list.SetCurrentProject(doc.CurrentProjectID); err != nil {
			return nil, fmt.Errorf("current project: %w", err)
		}
	}
	return list, nil
}

// ProjectToRecord converts a project and its tasks.
func (m *Mapper) ProjectToRecord(p *Project) document.ProjectRecord {
	rec := document.ProjectRecord{
		ID:    p.ID(),
		Name:  p.Name(),
		Tasks: make([]document.TaskRecord, 0, len(p.tasks)),
	}
	for _, t := range p.tasks {
		rec.Tasks = append(rec.Tasks, m.TaskToRecord(t))
	}
	return rec
}

// ProjectFromRecord restores a project and its tasks.
func (m *Mapper) ProjectFromRecord(rec document.ProjectRecord) (*Project, error) {
	if rec.ID == "" {
		return nil, errors.NewInvalidInputError("project id", rec.ID, "id is required")
	}
	p := &Project{id: rec.ID, tasks: make([]*Task, 0, len(rec.Tasks))}
	if err := p.Rename(rec.Name); err != nil {
		return nil, err
	}
	for j, tr := range rec.Tasks {
		t, err := m.TaskFromRecord(tr)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", j, err)
		}
		if err := p.AddTask(t); err != nil {
			return nil, fmt.Errorf("task %d: %w", j, err)
		}
	}
	return p, nil
}

// TaskToRecord converts a task.
func (m *Mapper) TaskToRecord(t *Task) document.TaskRecord {
	rec := document.TaskRecord{
		ID:          t.id,
		Title:       t.title,
		Description: t.description,
		DueDate:     t.dueDate,
		Priority:    string(t.priority),
		Completed:   t.completed,
		Checklist:   make([]document.ChecklistRecord, 0, len(t.checklist)),
		CreatedAt:   t.createdAt,
	}
	for _, item := range t.checklist {
		rec.Checklist = append(rec.Checklist, document.ChecklistRecord{
			ID:        item.ID,
			Text:      item.Text,
			Completed: item.Completed,
		})
	}
	return rec
}

// TaskFromRecord restores a task. Every field rule applies except PastDate,
// since a stored task may have become overdue.
func (m *Mapper) TaskFromRecord(rec document.TaskRecord) (*Task, error) {
	if rec.ID == "" {
		return nil, errors.NewInvalidInputError("task id", rec.ID, "id is required")
	}
	if rec.CreatedAt.IsZero() {
		return nil, errors.NewInvalidInputError("createdAt", rec.CreatedAt, "creation time is required")
	}

	t := &Task{
		id:        rec.ID,
		completed: rec.Completed,
		createdAt: rec.CreatedAt,
		checklist: make([]ChecklistItem, 0, len(rec.Checklist)),
	}

	verr := validation.NewValidationError()
	verr.Collect(t.SetTitle(rec.Title))
	verr.Collect(t.SetDescription(rec.Description))
	verr.Collect(t.SetPriority(Priority(rec.Priority)))
	// Checking the due date against itself only rejects the zero time.
	verr.Collect(t.SetDueDate(rec.DueDate, rec.DueDate))
	if verr.HasErrors() {
		return nil, verr
	}

	seen := make(map[string]struct{}, len(rec.Checklist))
	for _, item := range rec.Checklist {
		if item.ID == "" {
			return nil, errors.NewInvalidInputError("checklist item id", item.ID, "id is required")
		}
		if _, dup := seen[item.ID]; dup {
			return nil, errors.NewInvalidInputError("checklist item id", item.ID, "id appears more than once")
		}
		seen[item.ID] = struct{}{}

		text, err := taskValidator.ValidateChecklistText(item.Text)
		if err != nil {
			return nil, err
		}
		t.checklist = append(t.checklist, ChecklistItem{ID: item.ID, Text: text, Completed: item.Completed})
	}
	return t, nil
}

// MarshalJSON encodes the task in its persisted form.
func (t *Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(NewMapper().TaskToRecord(t))
}

// UnmarshalJSON decodes and validates a task in its persisted form.
func (t *Task) UnmarshalJSON(data []byte) error {
	var rec document.TaskRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	restored, err := NewMapper().TaskFromRecord(rec)
	if err != nil {
		return err
	}
	*t = *restored
	return nil
}
