package cli

import (
	"context"
	"strings"

	"planerly/internal/errors"
)

// CheckCommand handles the check command, which edits task checklists
type CheckCommand struct {
	app *App
}

// NewCheckCommand creates a new check command handler
func NewCheckCommand(app *App) *CheckCommand {
	return &CheckCommand{app: app}
}

// Execute runs the checklist subcommand named by the first argument
func (c *CheckCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("check", "", "usage: planerly check add|toggle|remove <task> ...")
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "add":
		return c.add(ctx, rest)
	case "toggle":
		return c.toggle(ctx, rest)
	case "remove":
		return c.remove(ctx, rest)
	default:
		return errors.NewInvalidInputError("check", sub, "unknown subcommand")
	}
}

func (c *CheckCommand) add(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.NewInvalidInputError("checklist item", "", "usage: planerly check add <task> <text>")
	}
	taskID, err := c.app.planner.ResolveTaskID(args[0])
	if err != nil {
		return err
	}
	item, err := c.app.planner.AddChecklistItem(ctx, taskID, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	c.app.printf("Added checklist item %q (%s)\n", item.Text, shortID(item.ID))
	return nil
}

// resolve expands the task and item id prefixes in args.
func (c *CheckCommand) resolve(args []string, usage string) (string, string, error) {
	if len(args) != 2 {
		return "", "", errors.NewInvalidInputError("checklist item", "", usage)
	}
	taskID, err := c.app.planner.ResolveTaskID(args[0])
	if err != nil {
		return "", "", err
	}
	itemID, err := c.app.planner.ResolveItemID(taskID, args[1])
	if err != nil {
		return "", "", err
	}
	return taskID, itemID, nil
}

func (c *CheckCommand) toggle(ctx context.Context, args []string) error {
	taskID, itemID, err := c.resolve(args, "usage: planerly check toggle <task> <item>")
	if err != nil {
		return err
	}
	if err := c.app.planner.ToggleChecklistItem(ctx, taskID, itemID); err != nil {
		return err
	}
	return c.progress(ctx, taskID)
}

func (c *CheckCommand) remove(ctx context.Context, args []string) error {
	taskID, itemID, err := c.resolve(args, "usage: planerly check remove <task> <item>")
	if err != nil {
		return err
	}
	if err := c.app.planner.RemoveChecklistItem(ctx, taskID, itemID); err != nil {
		return err
	}
	return c.progress(ctx, taskID)
}

func (c *CheckCommand) progress(ctx context.Context, taskID string) error {
	_, task, err := c.app.planner.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	done, total := task.ChecklistProgress()
	c.app.printf("Checklist for %q: %d/%d done\n", task.Title(), done, total)
	return nil
}
