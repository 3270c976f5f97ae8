package cli

import (
	"context"
	"strings"

	"planerly/internal/errors"
)

// ProjectCommand handles the project command
type ProjectCommand struct {
	app *App
}

// NewProjectCommand creates a new project command handler
func NewProjectCommand(app *App) *ProjectCommand {
	return &ProjectCommand{app: app}
}

// Execute runs the project subcommand named by the first argument
func (c *ProjectCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.list(ctx)
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		return c.list(ctx)
	case "current":
		return c.current(ctx)
	case "add":
		return c.add(ctx, rest)
	case "rename":
		return c.rename(ctx, rest)
	case "remove":
		return c.remove(ctx, rest)
	case "select":
		return c.selectProject(ctx, rest)
	default:
		return errors.NewInvalidInputError("project", sub, "unknown subcommand")
	}
}

func (c *ProjectCommand) list(ctx context.Context) error {
	projects := c.app.planner.ListProjects(ctx)
	if len(projects) == 0 {
		c.app.printf("No projects found\n")
		return nil
	}

	var currentID string
	if current, err := c.app.planner.CurrentProject(ctx); err == nil {
		currentID = current.ID()
	}
	for _, p := range projects {
		marker := " "
		if p.ID() == currentID {
			marker = "*"
		}
		c.app.printf("%s %s  %s (%s)\n", marker, shortID(p.ID()), p.Name(), plural(p.Len(), "task"))
	}
	return nil
}

func (c *ProjectCommand) current(ctx context.Context) error {
	project, err := c.app.planner.CurrentProject(ctx)
	if err != nil {
		return err
	}
	c.app.printf("%s  %s (%s)\n", shortID(project.ID()), project.Name(), plural(project.Len(), "task"))
	return nil
}

func (c *ProjectCommand) add(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("name", "", "usage: planerly project add <name>")
	}
	project, err := c.app.planner.AddProject(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	c.app.printf("Added project %q (%s)\n", project.Name(), shortID(project.ID()))
	return nil
}

func (c *ProjectCommand) rename(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.NewInvalidInputError("name", "", "usage: planerly project rename <id> <name>")
	}
	id, err := c.app.planner.ResolveProjectID(args[0])
	if err != nil {
		return err
	}
	project, err := c.app.planner.RenameProject(ctx, id, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	c.app.printf("Renamed project to %q\n", project.Name())
	return nil
}

func (c *ProjectCommand) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("project id", "", "usage: planerly project remove <id>")
	}
	id, err := c.app.planner.ResolveProjectID(args[0])
	if err != nil {
		return err
	}
	project, err := c.app.planner.RemoveProject(ctx, id)
	if err != nil {
		return err
	}
	c.app.printf("Removed project %q and %s\n", project.Name(), plural(project.Len(), "task"))
	return nil
}

func (c *ProjectCommand) selectProject(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("project id", "", "usage: planerly project select <id>")
	}
	id, err := c.app.planner.ResolveProjectID(args[0])
	if err != nil {
		return err
	}
	project, err := c.app.planner.SelectProject(ctx, id)
	if err != nil {
		return err
	}
	c.app.printf("Current project is now %q\n", project.Name())
	return nil
}
