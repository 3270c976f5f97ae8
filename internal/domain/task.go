package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"planerly/internal/errors"
	"planerly/internal/validation"
)

var taskValidator = validation.NewTaskValidator()

// newID returns a fresh random identifier for a task, project or checklist item.
func newID() string {
	return uuid.New().String()
}

// ChecklistItem is a single step of a task.
type ChecklistItem struct {
	ID        string
	Text      string
	Completed bool
}

// Task represents one actionable item.
// Title, description, due date and priority only change through the setters,
// which leave the previous value in place when they fail.
type Task struct {
	id          string
	title       string
	description string
	dueDate     time.Time
	priority    Priority
	completed   bool
	checklist   []ChecklistItem
	createdAt   time.Time
}

// TaskInput carries the raw string values of a task form.
type TaskInput struct {
	Title       string
	Description string
	DueDate     string
	Priority    string
}

// NewTask validates every field and returns a task created at now.
// All failures are reported together in a *validation.ValidationError.
func NewTask(title, description string, dueDate time.Time, priority Priority, now time.Time) (*Task, error) {
	t := &Task{
		id:        newID(),
		checklist: []ChecklistItem{},
		createdAt: now,
	}

	verr := validation.NewValidationError()
	verr.Collect(t.SetTitle(title))
	verr.Collect(t.SetDescription(description))
	verr.Collect(t.SetDueDate(dueDate, now))
	verr.Collect(t.SetPriority(priority))
	if verr.HasErrors() {
		return nil, verr
	}
	return t, nil
}

// NewTaskFromInput builds a task from form values.
func NewTaskFromInput(input TaskInput, now time.Time) (*Task, error) {
	verr := validation.NewValidationError()

	due, err := taskValidator.ParseDueDate(input.DueDate)
	verr.Collect(err)

	t, err := NewTask(input.Title, input.Description, due, Priority(input.Priority), now)
	if err != nil {
		verr.Collect(err)
	}
	if verr.HasErrors() {
		return nil, dedupeDueDate(verr)
	}
	return t, nil
}

// dedupeDueDate drops the InvalidDate reported twice when form input could not be parsed.
func dedupeDueDate(verr *validation.ValidationError) *validation.ValidationError {
	out := validation.NewValidationError()
	seen := false
	for _, fe := range verr.Errors {
		if fe.Field == validation.FieldDueDate {
			if seen {
				continue
			}
			seen = true
		}
		out.Errors = append(out.Errors, fe)
	}
	return out
}

func (t *Task) ID() string             { return t.id }
func (t *Task) Title() string          { return t.title }
func (t *Task) Description() string    { return t.description }
func (t *Task) DueDate() time.Time     { return t.dueDate }
func (t *Task) Priority() Priority     { return t.priority }
func (t *Task) Completed() bool        { return t.completed }
func (t *Task) CreatedAt() time.Time   { return t.createdAt }
func (t *Task) IsChecklistEmpty() bool { return len(t.checklist) == 0 }
func (t *Task) String() string         { return t.title }

// SetTitle stores the trimmed title.
func (t *Task) SetTitle(title string) error {
	v, err := taskValidator.ValidateTitle(title)
	if err != nil {
		return err
	}
	t.title = v
	return nil
}

// SetDescription stores the trimmed description.
func (t *Task) SetDescription(description string) error {
	v, err := taskValidator.ValidateDescription(description)
	if err != nil {
		return err
	}
	t.description = v
	return nil
}

// SetDueDate stores the calendar date of due. It fails with PastDate when that
// date is before today's date.
func (t *Task) SetDueDate(due, today time.Time) error {
	v, err := taskValidator.ValidateDueDate(due, today)
	if err != nil {
		return err
	}
	t.dueDate = v
	return nil
}

// SetPriority stores p when it is one of the known priorities.
func (t *Task) SetPriority(p Priority) error {
	v, err := taskValidator.ValidatePriority(string(p))
	if err != nil {
		return err
	}
	t.priority = Priority(v)
	return nil
}

// Update applies form values. Every field is validated first and nothing
// changes unless all of them pass. A due date equal to the stored one is kept
// as is, so an overdue task can still be edited.
func (t *Task) Update(input TaskInput, today time.Time) error {
	verr := validation.NewValidationError()

	title, err := taskValidator.ValidateTitle(input.Title)
	verr.Collect(err)
	description, err := taskValidator.ValidateDescription(input.Description)
	verr.Collect(err)
	priority, err := taskValidator.ValidatePriority(input.Priority)
	verr.Collect(err)

	due, err := taskValidator.ParseDueDate(input.DueDate)
	if err == nil && !due.Equal(t.dueDate) {
		due, err = taskValidator.ValidateDueDate(due, today)
	}
	verr.Collect(err)

	if verr.HasErrors() {
		return verr
	}

	t.title = title
	t.description = description
	t.priority = Priority(priority)
	t.dueDate = due
	return nil
}

// ToggleCompleted flips the completed flag and sets every checklist item to
// the new value.
func (t *Task) ToggleCompleted() {
	t.SetCompleted(!t.completed)
}

// SetCompleted sets the completed flag and cascades it to the checklist.
func (t *Task) SetCompleted(completed bool) {
	t.completed = completed
	for i := range t.checklist {
		t.checklist[i].Completed = completed
	}
}

// Checklist returns a copy of the checklist in insertion order.
func (t *Task) Checklist() []ChecklistItem {
	out := make([]ChecklistItem, len(t.checklist))
	copy(out, t.checklist)
	return out
}

// ChecklistProgress returns the number of completed items and the total.
func (t *Task) ChecklistProgress() (done, total int) {
	for _, item := range t.checklist {
		if item.Completed {
			done++
		}
	}
	return done, len(t.checklist)
}

// AddChecklistItem appends an incomplete item with a fresh id.
func (t *Task) AddChecklistItem(text string) (ChecklistItem, error) {
	v, err := taskValidator.ValidateChecklistText(text)
	if err != nil {
		return ChecklistItem{}, err
	}
	item := ChecklistItem{ID: newID(), Text: v}
	t.checklist = append(t.checklist, item)
	return item, nil
}

// ToggleChecklistItem flips the item with the given id.
func (t *Task) ToggleChecklistItem(id string) error {
	i := t.checklistIndex(id)
	if i < 0 {
		return errors.NewNotFoundError("checklist item", id)
	}
	t.checklist[i].Completed = !t.checklist[i].Completed
	return nil
}

// RemoveChecklistItem deletes the item with the given id.
func (t *Task) RemoveChecklistItem(id string) error {
	i := t.checklistIndex(id)
	if i < 0 {
		return errors.NewNotFoundError("checklist item", id)
	}
	t.checklist = append(t.checklist[:i], t.checklist[i+1:]...)
	return nil
}

func (t *Task) checklistIndex(id string) int {
	for i := range t.checklist {
		if t.checklist[i].ID == id {
			return i
		}
	}
	return -1
}

// IsOverdue reports whether the task is unfinished and its due date is before today.
func (t *Task) IsOverdue(today time.Time) bool {
	return !t.completed && t.dueDate.Before(validation.DateOnly(today))
}

// TimeSinceCreation describes how long ago the task was created.
func (t *Task) TimeSinceCreation(now time.Time) string {
	elapsed := now.Sub(t.createdAt)
	minutes := int(elapsed / time.Minute)
	hours := int(elapsed / time.Hour)
	days := int(elapsed / (24 * time.Hour))

	switch {
	case minutes < 1:
		return "less than 1 minute(s) ago"
	case hours < 1:
		return fmt.Sprintf("%d minute(s) ago", minutes)
	case days < 1:
		return fmt.Sprintf("%d hour(s) ago", hours)
	default:
		return fmt.Sprintf("%d day(s) ago", days)
	}
}
