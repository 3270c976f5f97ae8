package domain

import (
	"fmt"

	"planerly/internal/errors"
	"planerly/internal/validation"
)

var projectValidator = validation.NewProjectValidator()

// Project is a named, ordered group of tasks. A project owns its tasks.
type Project struct {
	id    string
	name  string
	tasks []*Task
}

// NewProject creates an empty project with a trimmed, validated name.
func NewProject(name string) (*Project, error) {
	p := &Project{id: newID(), tasks: []*Task{}}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Project) ID() string     { return p.id }
func (p *Project) Name() string   { return p.name }
func (p *Project) Len() int       { return len(p.tasks) }
func (p *Project) String() string { return p.name }

// Rename replaces the project name. The previous name is kept on failure.
func (p *Project) Rename(name string) error {
	v, err := projectValidator.ValidateProjectName(name)
	if err != nil {
		return err
	}
	p.name = v
	return nil
}

// Tasks returns the tasks in insertion order. The slice is a copy; the tasks are not.
func (p *Project) Tasks() []*Task {
	out := make([]*Task, len(p.tasks))
	copy(out, p.tasks)
	return out
}

// AddTask appends t. A task id may appear only once in a project.
func (p *Project) AddTask(t *Task) error {
	if t == nil {
		return errors.NewInvalidInputError("task", nil, "task is required")
	}
	if p.taskIndex(t.ID()) >= 0 {
		return errors.NewInvalidInputError("task", t.ID(), fmt.Sprintf("task already belongs to project %q", p.name))
	}
	p.tasks = append(p.tasks, t)
	return nil
}

// TaskByID returns the task with the given id.
func (p *Project) TaskByID(id string) (*Task, error) {
	i := p.taskIndex(id)
	if i < 0 {
		return nil, errors.NewNotFoundError("task", id)
	}
	return p.tasks[i], nil
}

// RemoveTask detaches and returns the task with the given id.
func (p *Project) RemoveTask(id string) (*Task, error) {
	i := p.taskIndex(id)
	if i < 0 {
		return nil, errors.NewNotFoundError("task", id)
	}
	t := p.tasks[i]
	p.tasks = append(p.tasks[:i], p.tasks[i+1:]...)
	return t, nil
}

// UpdateTaskByID runs fn on the task with the given id and returns its error.
func (p *Project) UpdateTaskByID(id string, fn func(*Task) error) error {
	t, err := p.TaskByID(id)
	if err != nil {
		return err
	}
	return fn(t)
}

func (p *Project) taskIndex(id string) int {
	for i, t := range p.tasks {
		if t.ID() == id {
			return i
		}
	}
	return -1
}
