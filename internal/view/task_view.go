package view

import (
	"context"

	"planerly/internal/domain"
	"planerly/internal/validation"
)

// TaskState is the lifecycle state of a task card.
type TaskState int

const (
	TaskViewing TaskState = iota
	TaskEditing
	TaskDestroyed
)

func (s TaskState) String() string {
	switch s {
	case TaskViewing:
		return "viewing"
	case TaskEditing:
		return "editing"
	case TaskDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// TaskView controls one task card.
type TaskView struct {
	env     Env
	project *domain.Project
	task    *domain.Task

	node      *Node
	state     TaskState
	form      TaskFormState
	checklist ChecklistFormState

	mounted bool
	timer   Timer

	// onRemoved runs after the task was deleted and the card destroyed.
	onRemoved func(*TaskView) *Node
}

// NewTaskView creates the controller of task inside project.
func NewTaskView(env Env, project *domain.Project, task *domain.Task) *TaskView {
	return &TaskView{env: env, project: project, task: task}
}

// ID returns the task id.
func (v *TaskView) ID() string { return v.task.ID() }

// State returns the lifecycle state.
func (v *TaskView) State() TaskState { return v.state }

// Node returns the card, rendering it on first use.
func (v *TaskView) Node() *Node {
	if v.node == nil {
		v.node = v.renderCard()
	}
	return v.node
}

func (v *TaskView) renderCard() *Node {
	return RenderTaskCard(v.task, v.env.State.Now(), CardOptions{
		Editing:   v.state == TaskEditing,
		Form:      v.form,
		Checklist: v.checklist,
	})
}

// Mount binds the card's actions and starts the "Created" label refresher.
// Mounting again does nothing.
func (v *TaskView) Mount() {
	if v.mounted || v.state == TaskDestroyed {
		return
	}
	v.mounted = true
	v.Node()

	v.env.Dispatcher.Bind(TaskScope(v.task.ID()), map[string]Handler{
		"edit-task":            v.edit,
		"close-edit-task":      v.closeEdit,
		"update-task":          v.update,
		"delete-task":          v.remove,
		"toggle-completed":     v.toggleCompleted,
		"open-checklist-form":  v.openChecklistForm,
		"close-checklist-form": v.closeChecklistForm,
		"add-checklist-item":   v.addChecklistItem,
		"toggle-check":         v.toggleCheck,
		"delete-check":         v.deleteCheck,
	})
	if v.env.Scheduler != nil {
		v.timer = v.env.Scheduler.Every(v.env.interval(), v.Refresh)
	}
}

// Destroy stops the refresher, unbinds the actions and detaches the card.
// It is safe to call more than once.
func (v *TaskView) Destroy() {
	if v.state == TaskDestroyed {
		return
	}
	v.state = TaskDestroyed
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
	if v.mounted {
		v.env.Dispatcher.Unbind(TaskScope(v.task.ID()))
	}
	if v.node != nil {
		v.node.Detach()
	}
}

// Refresh updates the "Created" label in place. A destroyed or detached
// card is left alone.
func (v *TaskView) Refresh() {
	if v.state == TaskDestroyed || v.node == nil || !v.node.Attached() {
		return
	}
	if label := v.node.Find(ByClass("task-created")); label != nil {
		label.SetText("Created: " + v.task.TimeSinceCreation(v.env.State.Now()))
	}
}

// rerender replaces the card in its parent and returns the new card.
func (v *TaskView) rerender() *Node {
	card := v.renderCard()
	if v.node != nil {
		v.node.ReplaceWith(card)
	}
	v.node = card
	return card
}

// rerenderChecklist replaces only the checklist section of the card.
func (v *TaskView) rerenderChecklist() *Node {
	section := RenderChecklist(v.task, v.checklist)
	card := v.Node()
	if old := card.Find(ByClass("checklist")); old != nil && old.ReplaceWith(section) {
		return section
	}
	return v.rerender()
}

func (v *TaskView) edit(_ context.Context, _ Event) (*Node, error) {
	v.state = TaskEditing
	v.form = EditFormFor(v.task)
	return v.rerender(), nil
}

func (v *TaskView) closeEdit(_ context.Context, _ Event) (*Node, error) {
	v.state = TaskViewing
	v.form = TaskFormState{}
	return v.rerender(), nil
}

func (v *TaskView) update(ctx context.Context, ev Event) (*Node, error) {
	if err := v.task.Update(taskInput(ev), v.env.State.Now()); err != nil {
		v.state = TaskEditing
		v.form = TaskFormState{
			Open:   true,
			Mode:   FormEdit,
			TaskID: v.task.ID(),
			Values: formValues(ev),
			Errors: fieldErrors(err),
		}
		return v.rerender(), err
	}
	v.state = TaskViewing
	v.form = TaskFormState{}
	v.env.State.Persist(ctx)
	return v.rerender(), nil
}

func (v *TaskView) remove(ctx context.Context, _ Event) (*Node, error) {
	if _, err := v.project.RemoveTask(v.task.ID()); err != nil {
		return nil, err
	}
	v.env.State.Persist(ctx)
	v.Destroy()
	if v.onRemoved != nil {
		return v.onRemoved(v), nil
	}
	return nil, nil
}

func (v *TaskView) toggleCompleted(ctx context.Context, _ Event) (*Node, error) {
	v.task.ToggleCompleted()
	v.env.State.Persist(ctx)
	return v.rerender(), nil
}

func (v *TaskView) openChecklistForm(_ context.Context, _ Event) (*Node, error) {
	v.checklist = ChecklistFormState{Open: true}
	return v.rerenderChecklist(), nil
}

func (v *TaskView) closeChecklistForm(_ context.Context, _ Event) (*Node, error) {
	v.checklist = ChecklistFormState{}
	return v.rerenderChecklist(), nil
}

func (v *TaskView) addChecklistItem(ctx context.Context, ev Event) (*Node, error) {
	text := ev.Value(validation.FieldChecklistItem)
	if _, err := v.task.AddChecklistItem(text); err != nil {
		v.checklist = ChecklistFormState{
			Open:  true,
			Value: text,
			Error: fieldErrors(err)[validation.FieldChecklistItem],
		}
		return v.rerenderChecklist(), err
	}
	v.checklist = ChecklistFormState{}
	v.env.State.Persist(ctx)
	return v.rerenderChecklist(), nil
}

func (v *TaskView) toggleCheck(ctx context.Context, ev Event) (*Node, error) {
	if err := v.task.ToggleChecklistItem(ev.ItemID); err != nil {
		return nil, err
	}
	v.env.State.Persist(ctx)
	return v.rerenderChecklist(), nil
}

func (v *TaskView) deleteCheck(ctx context.Context, ev Event) (*Node, error) {
	if err := v.task.RemoveChecklistItem(ev.ItemID); err != nil {
		return nil, err
	}
	v.env.State.Persist(ctx)
	return v.rerenderChecklist(), nil
}
