package cli

import (
	"context"

	"planerly/internal/ui"
)

// UICommand handles the ui command
type UICommand struct {
	app *App
}

// NewUICommand creates a new ui command handler
func NewUICommand(app *App) *UICommand {
	return &UICommand{app: app}
}

// Execute runs the terminal UI until the user quits
func (c *UICommand) Execute(ctx context.Context, args []string) error {
	return ui.Run(ctx, c.app.planner, ui.Options{
		Title:           c.app.config.Display.AppName,
		RefreshInterval: c.app.config.Display.RefreshInterval,
		Logger:          c.app.logger,
		Metrics:         c.app.metrics,
	})
}
