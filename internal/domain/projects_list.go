package domain

import (
	"planerly/internal/errors"
)

// ProjectsList is the ordered collection of all projects with one current
// selection. While the list is non-empty the current project is always one
// of its members.
type ProjectsList struct {
	projects []*Project
	current  *Project
}

// NewProjectsList returns an empty list.
func NewProjectsList() *ProjectsList {
	return &ProjectsList{projects: []*Project{}}
}

// AddProject appends p and makes it current when nothing is selected yet.
func (l *ProjectsList) AddProject(p *Project) error {
	if p == nil {
		return errors.NewInvalidInputError("project", nil, "project is required")
	}
	if l.index(p.ID()) >= 0 {
		return errors.NewInvalidInputError("project", p.ID(), "project is already in the list")
	}
	l.projects = append(l.projects, p)
	if l.current == nil {
		l.current = p
	}
	return nil
}

// RemoveProject removes and returns the project with the given id, or nil
// when there is no such project. Removing the current project selects the new
// first project, or nothing when the list becomes empty.
func (l *ProjectsList) RemoveProject(id string) *Project {
	i := l.index(id)
	if i < 0 {
		return nil
	}
	removed := l.projects[i]
	l.projects = append(l.projects[:i], l.projects[i+1:]...)

	if l.current == removed {
		l.current = nil
		if len(l.projects) > 0 {
			l.current = l.projects[0]
		}
	}
	return removed
}

// SetCurrentProject selects the project with the given id.
func (l *ProjectsList) SetCurrentProject(id string) error {
	i := l.index(id)
	if i < 0 {
		return errors.NewNotFoundError("project", id)
	}
	l.current = l.projects[i]
	return nil
}

// CurrentProject returns the selected project, or nil when the list is empty.
func (l *ProjectsList) CurrentProject() *Project {
	return l.current
}

// ProjectByID returns the project with the given id.
func (l *ProjectsList) ProjectByID(id string) (*Project, error) {
	i := l.index(id)
	if i < 0 {
		return nil, errors.NewNotFoundError("project", id)
	}
	return l.projects[i], nil
}

// Projects returns the projects in order. The slice is a copy.
func (l *ProjectsList) Projects() []*Project {
	out := make([]*Project, len(l.projects))
	copy(out, l.projects)
	return out
}

// ProjectsNames returns the project names in order.
func (l *ProjectsList) ProjectsNames() []string {
	names := make([]string, len(l.projects))
	for i, p := range l.projects {
		names[i] = p.Name()
	}
	return names
}

// Len returns the number of projects.
func (l *ProjectsList) Len() int {
	return len(l.projects)
}

// FindTask locates a task in any project.
func (l *ProjectsList) FindTask(taskID string) (*Project, *Task, error) {
	for _, p := range l.projects {
		if t, err := p.TaskByID(taskID); err == nil {
			return p, t, nil
		}
	}
	return nil, nil, errors.NewNotFoundError("task", taskID)
}

func (l *ProjectsList) index(id string) int {
	for i, p := range l.projects {
		if p.ID() == id {
			return i
		}
	}
	return -1
}
