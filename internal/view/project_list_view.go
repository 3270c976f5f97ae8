package view

import (
	"context"

	"planerly/internal/domain"
	"planerly/internal/errors"
	"planerly/internal/validation"
)

// ProjectListView controls the whole page: the sidebar and the view of the
// current project.
type ProjectListView struct {
	env Env

	node    *Node
	sidebar ProjectFormState
	current *ProjectView
	mounted bool
}

// NewProjectListView creates the page controller.
func NewProjectListView(env Env) *ProjectListView {
	return &ProjectListView{env: env}
}

// Node returns the page, rendering it on first use.
func (v *ProjectListView) Node() *Node {
	if v.node == nil {
		v.node = v.render()
	}
	return v.node
}

// Current returns the view of the current project, or nil.
func (v *ProjectListView) Current() *ProjectView {
	return v.current
}

// Mount binds the page actions and mounts the current project view.
// Mounting again does nothing.
func (v *ProjectListView) Mount() {
	if v.mounted {
		return
	}
	v.mounted = true
	v.Node()

	v.env.Dispatcher.Bind(RootScope, map[string]Handler{
		"open-project-form":  v.openProjectForm,
		"close-project-form": v.closeProjectForm,
		"add-project":        v.addProject,
		"select-project":     v.selectProject,
		"edit-project":       v.editProject,
		"close-edit-project": v.closeEditProject,
		"update-project":     v.updateProject,
		"delete-project":     v.deleteProject,
	})
	if v.current != nil {
		v.current.Mount()
	}
}

// Destroy unbinds everything, stops every refresher and drops the page, so
// a later Mount renders and binds it afresh.
func (v *ProjectListView) Destroy() {
	if v.mounted {
		v.env.Dispatcher.Unbind(RootScope)
		v.mounted = false
	}
	if v.current != nil {
		v.current.Destroy()
		v.current = nil
	}
	if v.node != nil {
		v.node.Detach()
		v.node = nil
	}
}

// Refresh re-renders the whole page.
func (v *ProjectListView) Refresh() *Node {
	v.node = v.render()
	return v.node
}

// syncCurrent swaps the project view when the current project changed.
func (v *ProjectListView) syncCurrent() {
	current := v.env.State.Projects().CurrentProject()
	if v.current != nil && (current == nil || v.current.ID() != current.ID()) {
		v.current.Destroy()
		v.current = nil
	}
	if v.current == nil && current != nil {
		v.current = NewProjectView(v.env, current)
		if v.mounted {
			v.current.Mount()
		}
	}
}

func (v *ProjectListView) render() *Node {
	v.syncCurrent()
	return RenderProjectList(v.env.State.Projects(), v.env.State.Now(), ProjectListOptions{
		Sidebar: v.sidebar,
		Project: func(*domain.Project) *Node {
			return v.current.Refresh()
		},
	})
}

func (v *ProjectListView) rerenderSidebar() *Node {
	sidebar := RenderSidebar(v.env.State.Projects(), v.sidebar)
	if old := v.Node().Find(ByClass("sidebar")); old != nil && old.ReplaceWith(sidebar) {
		return sidebar
	}
	return v.Refresh()
}

func (v *ProjectListView) openProjectForm(_ context.Context, _ Event) (*Node, error) {
	v.sidebar = ProjectFormState{Open: true}
	return v.rerenderSidebar(), nil
}

func (v *ProjectListView) closeProjectForm(_ context.Context, _ Event) (*Node, error) {
	v.sidebar = ProjectFormState{}
	return v.rerenderSidebar(), nil
}

func (v *ProjectListView) addProject(ctx context.Context, ev Event) (*Node, error) {
	name := ev.Value(validation.FieldProjectName)
	project, err := domain.NewProject(name)
	if err != nil {
		v.sidebar = ProjectFormState{
			Open:  true,
			Value: name,
			Error: fieldErrors(err)[validation.FieldProjectName],
		}
		return v.rerenderSidebar(), err
	}
	if err := v.env.State.Projects().AddProject(project); err != nil {
		return nil, err
	}
	v.sidebar = ProjectFormState{}
	v.env.State.Persist(ctx)
	return v.Refresh(), nil
}

func (v *ProjectListView) selectProject(ctx context.Context, ev Event) (*Node, error) {
	if err := v.env.State.Projects().SetCurrentProject(ev.ProjectID); err != nil {
		return nil, err
	}
	v.env.State.Persist(ctx)
	return v.Refresh(), nil
}

func (v *ProjectListView) editProject(_ context.Context, ev Event) (*Node, error) {
	project, err := v.env.State.Projects().ProjectByID(ev.ProjectID)
	if err != nil {
		return nil, err
	}
	v.sidebar = ProjectFormState{Open: true, EditingID: project.ID(), Value: project.Name()}
	return v.rerenderSidebar(), nil
}

func (v *ProjectListView) closeEditProject(_ context.Context, _ Event) (*Node, error) {
	v.sidebar = ProjectFormState{}
	return v.rerenderSidebar(), nil
}

func (v *ProjectListView) updateProject(ctx context.Context, ev Event) (*Node, error) {
	project, err := v.env.State.Projects().ProjectByID(ev.ProjectID)
	if err != nil {
		return nil, err
	}
	name := ev.Value(validation.FieldProjectName)
	if err := project.Rename(name); err != nil {
		v.sidebar = ProjectFormState{
			Open:      true,
			EditingID: project.ID(),
			Value:     name,
			Error:     fieldErrors(err)[validation.FieldProjectName],
		}
		return v.rerenderSidebar(), err
	}
	v.sidebar = ProjectFormState{}
	v.env.State.Persist(ctx)
	return v.Refresh(), nil
}

func (v *ProjectListView) deleteProject(ctx context.Context, ev Event) (*Node, error) {
	if removed := v.env.State.Projects().RemoveProject(ev.ProjectID); removed == nil {
		return nil, errors.NewNotFoundError("project", ev.ProjectID)
	}
	if v.sidebar.EditingID == ev.ProjectID {
		v.sidebar = ProjectFormState{}
	}
	v.env.State.Persist(ctx)
	return v.Refresh(), nil
}
