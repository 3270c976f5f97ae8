package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"planerly/internal/domain"
	"planerly/internal/validation"
)

// Empty state messages.
const (
	NoChecklistItems = "No checklist items"
	NoTasks          = "No tasks yet. Add a task to get started!"
	NoProjects       = "No projects yet to display. Add a project to get started!"
)

// FormMode tells a task form whether it creates or edits.
type FormMode string

const (
	FormAdd  FormMode = "add"
	FormEdit FormMode = "edit"
)

// TaskFormState is what a task form shows: the submitted values and the
// message for each errored field.
type TaskFormState struct {
	Open   bool
	Mode   FormMode
	TaskID string
	Values map[string]string
	Errors map[string]string
}

// EditFormFor returns an open edit form filled with the task's values.
func EditFormFor(task *domain.Task) TaskFormState {
	return TaskFormState{
		Open:   true,
		Mode:   FormEdit,
		TaskID: task.ID(),
		Values: map[string]string{
			validation.FieldTitle:       task.Title(),
			validation.FieldDescription: task.Description(),
			validation.FieldDueDate:     task.DueDate().Format(validation.DueDateLayout),
			validation.FieldPriority:    task.Priority().String(),
		},
	}
}

// ChecklistFormState is the add-item form under a task.
type ChecklistFormState struct {
	Open  bool
	Value string
	Error string
}

// ProjectFormState is the sidebar project form. EditingID names the project
// being renamed; when empty an open form adds a project.
type ProjectFormState struct {
	Open      bool
	EditingID string
	Value     string
	Error     string
}

// CardOptions controls the transient parts of a task card.
type CardOptions struct {
	Editing   bool
	Form      TaskFormState
	Checklist ChecklistFormState
}

// ProjectOptions controls a project view. Card renders each task; when nil
// a plain card is rendered.
type ProjectOptions struct {
	TaskForm TaskFormState
	Card     func(*domain.Task) *Node
}

// ProjectListOptions controls the whole page. Project renders the current
// project; when nil RenderProject is used.
type ProjectListOptions struct {
	Sidebar ProjectFormState
	Project func(*domain.Project) *Node
}

// FormatDueDate formats a due date as "1st Dec 2025".
func FormatDueDate(t time.Time) string {
	t = t.UTC()
	return humanize.Ordinal(t.Day()) + t.Format(" Jan 2006")
}

// PriorityClass returns the CSS class of a priority badge.
func PriorityClass(p domain.Priority) string {
	return "priority-" + strings.ToLower(p.String())
}

func button(action, label string) *Node {
	return El("button").SetAttr("type", "button").SetAttr("data-action", action).SetText(label)
}

func checkbox(action string, checked bool) *Node {
	n := El("input").SetAttr("type", "checkbox").SetAttr("data-action", action)
	if checked {
		n.SetAttr("checked", "checked")
	}
	return n
}

func errorMessage(msg string) *Node {
	return El("span", "error-message", "active").SetText(msg)
}

// RenderTaskCard renders one task as an article.
func RenderTaskCard(task *domain.Task, now time.Time, opts CardOptions) *Node {
	card := El("article", "task-card").
		SetAttr("data-task-id", task.ID()).
		SetAttr("data-priority", task.Priority().String())
	if task.Completed() {
		card.AddClass("completed")
	}
	if task.IsOverdue(now) {
		card.AddClass("overdue")
	}

	header := El("header", "task-header").Append(
		checkbox("toggle-completed", task.Completed()).AddClass("task-toggle"),
		El("span", "priority-badge", PriorityClass(task.Priority())).
			SetText(task.Priority().Symbol()+" "+task.Priority().String()),
		El("h3", "task-title").SetText(task.Title()),
	)

	card.Append(
		header,
		El("p", "task-description").SetText(task.Description()),
		El("p", "task-due").SetText("Due: "+FormatDueDate(task.DueDate())),
		El("p", "task-created").SetText("Created: "+task.TimeSinceCreation(now)),
		El("div", "task-actions").Append(
			button("edit-task", "Edit"),
			button("delete-task", "Delete"),
		),
		RenderChecklist(task, opts.Checklist),
	)

	if opts.Editing {
		form := opts.Form
		form.Open = true
		form.Mode = FormEdit
		form.TaskID = task.ID()
		card.Append(El("div", "form-overlay").Append(RenderTaskForm(form)))
	}
	return card
}

// RenderChecklist renders the checklist section of a task.
func RenderChecklist(task *domain.Task, state ChecklistFormState) *Node {
	done, total := task.ChecklistProgress()
	section := El("section", "checklist").SetAttr("data-task-id", task.ID())
	section.Append(El("h4", "checklist-title").SetText(fmt.Sprintf("Checklist (%d/%d)", done, total)))

	if task.IsChecklistEmpty() {
		section.Append(El("p", "checklist-empty", "empty-state").SetText(NoChecklistItems))
	} else {
		items := El("ul", "checklist-items")
		for _, item := range task.Checklist() {
			li := El("li", "checklist-item").SetAttr("data-item-id", item.ID)
			if item.Completed {
				li.AddClass("completed")
			}
			li.Append(
				checkbox("toggle-check", item.Completed),
				El("span", "checklist-text").SetText(item.Text),
				button("delete-check", "Delete"),
			)
			items.Append(li)
		}
		section.Append(items)
	}

	if !state.Open {
		section.Append(button("open-checklist-form", "Add item"))
		return section
	}

	input := El("input").
		SetAttr("type", "text").
		SetAttr("name", validation.FieldChecklistItem).
		SetAttr("value", state.Value)
	form := El("form", "checklist-form").SetAttr("data-action", "add-checklist-item")
	form.Append(input)
	if state.Error != "" {
		input.AddClass("input-error")
		form.Append(errorMessage(state.Error))
	}
	form.Append(
		El("button").SetAttr("type", "submit").SetText("Add"),
		button("close-checklist-form", "Cancel"),
	)
	return section.Append(form)
}

type formField struct {
	name  string
	label string
	kind  string
}

var taskFormFields = []formField{
	{validation.FieldTitle, "Title", "text"},
	{validation.FieldDescription, "Description", "textarea"},
	{validation.FieldDueDate, "Due date", "date"},
	{validation.FieldPriority, "Priority", "select"},
}

// RenderTaskForm renders the add or edit task form. Errored fields get the
// input-error class and a message next to them; values are kept.
func RenderTaskForm(state TaskFormState) *Node {
	mode := state.Mode
	if mode == "" {
		mode = FormAdd
	}
	submit, cancel, label := "add-task", "close-task-form", "Add Task"
	if mode == FormEdit {
		submit, cancel, label = "update-task", "close-edit-task", "Save"
	}

	form := El("form", "task-form").
		SetAttr("data-action", submit).
		SetAttr("data-mode", string(mode))
	if state.TaskID != "" {
		form.SetAttr("data-task-id", state.TaskID)
	}

	for _, f := range taskFormFields {
		value := state.Values[f.name]
		row := El("div", "form-field").Append(
			El("label").SetAttr("for", f.name).SetText(f.label),
		)

		var input *Node
		switch f.kind {
		case "textarea":
			input = El("textarea").SetAttr("name", f.name).SetText(value)
		case "select":
			input = El("select").SetAttr("name", f.name)
			for _, p := range domain.Priorities {
				opt := El("option").SetAttr("value", p.String()).SetText(p.String())
				if p.String() == value {
					opt.SetAttr("selected", "selected")
				}
				input.Append(opt)
			}
		default:
			input = El("input").SetAttr("type", f.kind).SetAttr("name", f.name).SetAttr("value", value)
		}
		input.SetAttr("id", f.name)
		row.Append(input)

		if msg, ok := state.Errors[f.name]; ok {
			input.AddClass("input-error")
			row.Append(errorMessage(msg))
		}
		form.Append(row)
	}

	return form.Append(
		El("button").SetAttr("type", "submit").SetText(label),
		button(cancel, "Cancel"),
	)
}

// RenderProject renders a project with its task cards.
func RenderProject(project *domain.Project, now time.Time, opts ProjectOptions) *Node {
	card := opts.Card
	if card == nil {
		card = func(t *domain.Task) *Node {
			return RenderTaskCard(t, now, CardOptions{})
		}
	}

	section := El("section", "project").SetAttr("data-project-id", project.ID())
	section.Append(El("header", "project-header").Append(
		El("h2", "project-title").SetText(project.Name()),
		El("span", "task-count").SetText(fmt.Sprintf("%d task(s)", project.Len())),
	))

	if opts.TaskForm.Open {
		form := opts.TaskForm
		form.Mode = FormAdd
		section.Append(RenderTaskForm(form))
	} else {
		section.Append(button("open-task-form", "Add Task"))
	}

	list := El("div", "task-list")
	tasks := project.Tasks()
	if len(tasks) == 0 {
		list.Append(El("p", "empty-state").SetText(NoTasks))
	}
	for _, t := range tasks {
		list.Append(card(t))
	}
	return section.Append(list)
}

func projectForm(action, cancel, label string, state ProjectFormState) *Node {
	input := El("input").
		SetAttr("type", "text").
		SetAttr("name", validation.FieldProjectName).
		SetAttr("value", state.Value)
	form := El("form", "project-form").SetAttr("data-action", action).Append(input)
	if state.Error != "" {
		input.AddClass("input-error")
		form.Append(errorMessage(state.Error))
	}
	return form.Append(
		El("button").SetAttr("type", "submit").SetText(label),
		button(cancel, "Cancel"),
	)
}

// RenderSidebar renders the project names with their controls.
func RenderSidebar(list *domain.ProjectsList, state ProjectFormState) *Node {
	nav := El("nav", "sidebar").Append(El("h2").SetText("Projects"))

	var currentID string
	if current := list.CurrentProject(); current != nil {
		currentID = current.ID()
	}

	names := El("ul", "project-names")
	for _, p := range list.Projects() {
		li := El("li", "project-name").SetAttr("data-project-id", p.ID())
		if p.ID() == currentID {
			li.AddClass("current")
		}
		if state.EditingID == p.ID() {
			li.Append(projectForm("update-project", "close-edit-project", "Save", state))
		} else {
			li.Append(
				button("select-project", p.Name()),
				button("edit-project", "Edit"),
				button("delete-project", "Delete"),
			)
		}
		names.Append(li)
	}
	nav.Append(names)

	if state.Open && state.EditingID == "" {
		return nav.Append(projectForm("add-project", "close-project-form", "Add", state))
	}
	return nav.Append(button("open-project-form", "Add Project"))
}

// RenderProjectList renders the sidebar and the current project.
func RenderProjectList(list *domain.ProjectsList, now time.Time, opts ProjectListOptions) *Node {
	render := opts.Project
	if render == nil {
		render = func(p *domain.Project) *Node {
			return RenderProject(p, now, ProjectOptions{})
		}
	}

	content := El("div", "content")
	if current := list.CurrentProject(); current != nil {
		content.Append(render(current))
	} else {
		content.Append(El("p", "projects-empty", "empty-state").SetText(NoProjects))
	}

	return El("main", "app").Append(RenderSidebar(list, opts.Sidebar), content)
}
