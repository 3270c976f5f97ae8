package cli

import (
	"context"

	"planerly/internal/server"
)

// ServeCommand handles the serve command
type ServeCommand struct {
	app *App
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App) *ServeCommand {
	return &ServeCommand{app: app}
}

// Execute serves the planner over HTTP until ctx is done. An addr=host:port
// argument overrides the configured address.
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	_, fields := parseArgs(args, "addr")
	addr := c.app.config.Server.Addr
	if a, ok := fields["addr"]; ok && a != "" {
		addr = a
	}

	s := server.New(c.app.planner, server.Options{
		Addr:            addr,
		AllowedOrigins:  c.app.config.Server.AllowedOrigins,
		Title:           c.app.config.Display.AppName,
		RefreshInterval: c.app.config.Display.RefreshInterval,
		Logger:          c.app.logger,
		Metrics:         c.app.metrics,
	})
	c.app.printf("Serving %s on http://%s\n", c.app.config.Display.AppName, addr)
	return s.ListenAndServe(ctx)
}
