package view

import (
	"context"

	"planerly/internal/domain"
)

// ProjectView controls one project and owns the views of its tasks.
type ProjectView struct {
	env     Env
	project *domain.Project

	node      *Node
	form      TaskFormState
	tasks     map[string]*TaskView
	mounted   bool
	destroyed bool
}

// NewProjectView creates the controller of project.
func NewProjectView(env Env, project *domain.Project) *ProjectView {
	return &ProjectView{
		env:     env,
		project: project,
		tasks:   map[string]*TaskView{},
	}
}

// ID returns the project id.
func (v *ProjectView) ID() string { return v.project.ID() }

// Node returns the project subtree, rendering it on first use.
func (v *ProjectView) Node() *Node {
	if v.node == nil {
		v.node = v.render()
	}
	return v.node
}

// TaskView returns the view of a task, or nil.
func (v *ProjectView) TaskView(id string) *TaskView {
	return v.tasks[id]
}

// Mount binds the project actions and mounts every task view. Mounting
// again does nothing.
func (v *ProjectView) Mount() {
	if v.mounted || v.destroyed {
		return
	}
	v.mounted = true
	v.Node()

	v.env.Dispatcher.Bind(ProjectScope(v.project.ID()), map[string]Handler{
		"open-task-form":  v.openTaskForm,
		"close-task-form": v.closeTaskForm,
		"add-task":        v.addTask,
	})
	for _, tv := range v.tasks {
		tv.Mount()
	}
}

// Destroy unbinds the project, destroys every task view and detaches the
// subtree. It is safe to call more than once.
func (v *ProjectView) Destroy() {
	if v.destroyed {
		return
	}
	v.destroyed = true
	if v.mounted {
		v.env.Dispatcher.Unbind(ProjectScope(v.project.ID()))
	}
	for id, tv := range v.tasks {
		tv.Destroy()
		delete(v.tasks, id)
	}
	if v.node != nil {
		v.node.Detach()
	}
}

// syncTasks creates views for new tasks and destroys views of tasks that
// left the project.
func (v *ProjectView) syncTasks() {
	present := map[string]bool{}
	for _, t := range v.project.Tasks() {
		present[t.ID()] = true
		if _, ok := v.tasks[t.ID()]; ok {
			continue
		}
		tv := NewTaskView(v.env, v.project, t)
		tv.onRemoved = v.taskRemoved
		v.tasks[t.ID()] = tv
		if v.mounted {
			tv.Mount()
		}
	}
	for id, tv := range v.tasks {
		if !present[id] {
			tv.Destroy()
			delete(v.tasks, id)
		}
	}
}

func (v *ProjectView) render() *Node {
	v.syncTasks()
	return RenderProject(v.project, v.env.State.Now(), ProjectOptions{
		TaskForm: v.form,
		Card: func(t *domain.Task) *Node {
			return v.tasks[t.ID()].Node()
		},
	})
}

// Refresh re-renders the project subtree. Task cards are reused, so open
// card forms survive.
func (v *ProjectView) Refresh() *Node {
	return v.rerender()
}

func (v *ProjectView) rerender() *Node {
	node := v.render()
	if v.node != nil {
		v.node.ReplaceWith(node)
	}
	v.node = node
	return node
}

func (v *ProjectView) taskRemoved(tv *TaskView) *Node {
	delete(v.tasks, tv.ID())
	if v.destroyed {
		return nil
	}
	return v.rerender()
}

func (v *ProjectView) openTaskForm(_ context.Context, _ Event) (*Node, error) {
	v.form = TaskFormState{Open: true, Mode: FormAdd}
	return v.rerender(), nil
}

func (v *ProjectView) closeTaskForm(_ context.Context, _ Event) (*Node, error) {
	v.form = TaskFormState{}
	return v.rerender(), nil
}

func (v *ProjectView) addTask(ctx context.Context, ev Event) (*Node, error) {
	task, err := domain.NewTaskFromInput(taskInput(ev), v.env.State.Now())
	if err != nil {
		v.form = TaskFormState{
			Open:   true,
			Mode:   FormAdd,
			Values: formValues(ev),
			Errors: fieldErrors(err),
		}
		return v.rerender(), err
	}
	if err := v.project.AddTask(task); err != nil {
		return nil, err
	}
	v.form = TaskFormState{}
	v.env.State.Persist(ctx)
	return v.rerender(), nil
}
