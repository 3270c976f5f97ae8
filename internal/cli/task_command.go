package cli

import (
	"context"
	"fmt"
	"time"

	"planerly/internal/api"
	"planerly/internal/domain"
	"planerly/internal/errors"
	"planerly/internal/services"
	"planerly/internal/view"
)

// Task field keys accepted as key=value arguments.
const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldDue         = "due"
	fieldPriority    = "priority"
	fieldProject     = "project"
	fieldSearch      = "search"
	fieldStatus      = "status"
	fieldSort        = "sort"
)

var taskFields = []string{fieldTitle, fieldDescription, fieldDue, fieldPriority, fieldProject, fieldSearch, fieldStatus, fieldSort}

// TaskCommand handles the task command
type TaskCommand struct {
	app *App
}

// NewTaskCommand creates a new task command handler
func NewTaskCommand(app *App) *TaskCommand {
	return &TaskCommand{app: app}
}

// Execute runs the task subcommand named by the first argument.
// Task fields are passed as title=..., description=..., due=YYYY-MM-DD,
// priority=Low|Medium|High and project=<id>. list also takes search=...,
// status=open|done, priority=... and sort=due|priority|title|created.
func (c *TaskCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.list(ctx, nil)
	}

	sub := args[0]
	positional, fields := parseArgs(args[1:], taskFields...)
	switch sub {
	case "list":
		return c.list(ctx, fields)
	case "add":
		return c.add(ctx, fields)
	case "edit":
		return c.edit(ctx, positional, fields)
	case "remove":
		return c.remove(ctx, positional)
	case "toggle":
		return c.toggle(ctx, positional)
	case "show":
		return c.show(ctx, positional)
	default:
		return errors.NewInvalidInputError("task", sub, "unknown subcommand")
	}
}

func (c *TaskCommand) projectID(fields map[string]string) (string, error) {
	prefix, ok := fields[fieldProject]
	if !ok {
		return "", nil
	}
	return c.app.planner.ResolveProjectID(prefix)
}

func (c *TaskCommand) taskID(args []string, usage string) (string, error) {
	if len(args) != 1 {
		return "", errors.NewInvalidInputError("task id", "", usage)
	}
	return c.app.planner.ResolveTaskID(args[0])
}

func (c *TaskCommand) list(ctx context.Context, fields map[string]string) error {
	projectID, err := c.projectID(fields)
	if err != nil {
		return err
	}
	criteria, order, err := searchOptions(fields)
	if err != nil {
		return err
	}
	project, tasks, err := c.app.planner.SearchTasks(ctx, projectID, criteria, order)
	if err != nil {
		return err
	}

	c.app.printf("%s (%s)\n", project.Name(), plural(len(tasks), "task"))
	if len(tasks) == 0 {
		if project.Len() > 0 {
			c.app.printf("No matching tasks\n")
		} else {
			c.app.printf("%s\n", view.NoTasks)
		}
		return nil
	}

	now := c.app.planner.Now()
	for _, t := range tasks {
		c.app.printf("%s\n", taskLine(t, now))
	}
	return nil
}

func searchOptions(fields map[string]string) (services.SearchCriteria, services.SortOrder, error) {
	criteria := services.SearchCriteria{TextFilter: fields[fieldSearch]}

	status, err := services.ParseStatus(fields[fieldStatus])
	if err != nil {
		return criteria, "", err
	}
	criteria.Status = status

	if p, ok := fields[fieldPriority]; ok && p != "" {
		priority, err := domain.ParsePriority(p)
		if err != nil {
			return criteria, "", errors.NewInvalidInputError(fieldPriority, p, "priority must be Low, Medium or High")
		}
		criteria.Priority = priority
	}

	order, err := services.ParseSortOrder(fields[fieldSort])
	if err != nil {
		return criteria, "", err
	}
	return criteria, order, nil
}

func (c *TaskCommand) add(ctx context.Context, fields map[string]string) error {
	projectID, err := c.projectID(fields)
	if err != nil {
		return err
	}

	input := domain.TaskInput{
		Title:       fields[fieldTitle],
		Description: fields[fieldDescription],
		DueDate:     fields[fieldDue],
		Priority:    fields[fieldPriority],
	}
	if input.Priority == "" {
		input.Priority = domain.PriorityLow.String()
	}

	task, err := c.app.planner.AddTask(ctx, projectID, input)
	if err != nil {
		return err
	}
	c.app.printf("Added task %q (%s)\n", task.Title(), shortID(task.ID()))
	return nil
}

func (c *TaskCommand) edit(ctx context.Context, args []string, fields map[string]string) error {
	id, err := c.taskID(args, "usage: planerly task edit <id> [title=...] [description=...] [due=...] [priority=...]")
	if err != nil {
		return err
	}

	var edit api.TaskEdit
	changed := false
	for key, target := range map[string]**string{
		fieldTitle:       &edit.Title,
		fieldDescription: &edit.Description,
		fieldDue:         &edit.DueDate,
		fieldPriority:    &edit.Priority,
	} {
		if value, ok := fields[key]; ok {
			*target = &value
			changed = true
		}
	}
	if !changed {
		return errors.NewInvalidInputError("task", id, "nothing to change")
	}

	task, err := c.app.planner.EditTask(ctx, id, edit)
	if err != nil {
		return err
	}
	c.app.printf("Updated task %q\n", task.Title())
	return nil
}

func (c *TaskCommand) remove(ctx context.Context, args []string) error {
	id, err := c.taskID(args, "usage: planerly task remove <id>")
	if err != nil {
		return err
	}
	task, err := c.app.planner.RemoveTask(ctx, id)
	if err != nil {
		return err
	}
	c.app.printf("Removed task %q\n", task.Title())
	return nil
}

func (c *TaskCommand) toggle(ctx context.Context, args []string) error {
	id, err := c.taskID(args, "usage: planerly task toggle <id>")
	if err != nil {
		return err
	}
	task, err := c.app.planner.ToggleTask(ctx, id)
	if err != nil {
		return err
	}
	state := "not done"
	if task.Completed() {
		state = "done"
	}
	c.app.printf("Marked %q as %s\n", task.Title(), state)
	return nil
}

func (c *TaskCommand) show(ctx context.Context, args []string) error {
	id, err := c.taskID(args, "usage: planerly task show <id>")
	if err != nil {
		return err
	}
	_, task, err := c.app.planner.GetTask(ctx, id)
	if err != nil {
		return err
	}
	card := view.RenderTaskCard(task, c.app.planner.Now(), view.CardOptions{})
	c.app.printf("%s\n", view.RenderText(card))
	return nil
}

// taskLine is the one-line listing of a task.
func taskLine(t *domain.Task, now time.Time) string {
	mark := " "
	if t.Completed() {
		mark = "x"
	}
	line := fmt.Sprintf("[%s] %s  %s %s  due %s", mark, shortID(t.ID()), t.Priority().Symbol(), t.Title(), view.FormatDueDate(t.DueDate()))
	if done, total := t.ChecklistProgress(); total > 0 {
		line += fmt.Sprintf("  checklist %d/%d", done, total)
	}
	if t.IsOverdue(now) {
		line += "  overdue"
	}
	return line
}
