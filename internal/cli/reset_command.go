package cli

import (
	"context"
)

// ResetCommand handles the reset command
type ResetCommand struct {
	app *App
}

// NewResetCommand creates a new reset command handler
func NewResetCommand(app *App) *ResetCommand {
	return &ResetCommand{app: app}
}

// Execute deletes the saved planner data and restores the starter project
func (c *ResetCommand) Execute(ctx context.Context, args []string) error {
	if err := c.app.planner.Reset(ctx); err != nil {
		return err
	}
	projects := c.app.planner.ListProjects(ctx)
	c.app.printf("Planner data reset to %s\n", plural(len(projects), "starter project"))
	return nil
}
