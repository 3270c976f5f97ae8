package cli

import (
	"context"

	"planerly/internal/errors"
)

// Command represents a CLI command
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// CommandRegistry manages all available commands
type CommandRegistry struct {
	commands map[string]Command
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry(app *App) *CommandRegistry {
	registry := &CommandRegistry{
		commands: make(map[string]Command),
	}

	// Register all commands
	registry.Register("project", NewProjectCommand(app))
	registry.Register("task", NewTaskCommand(app))
	registry.Register("check", NewCheckCommand(app))
	registry.Register("summary", NewSummaryCommand(app))
	registry.Register("export", NewExportCommand(app))
	registry.Register("reset", NewResetCommand(app))
	registry.Register("ui", NewUICommand(app))
	registry.Register("serve", NewServeCommand(app))

	return registry
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(name string, command Command) {
	r.commands[name] = command
}

// Lookup returns the command registered under name.
func (r *CommandRegistry) Lookup(name string) (Command, bool) {
	command, exists := r.commands[name]
	return command, exists
}

// Execute runs the specified command with the given arguments
func (r *CommandRegistry) Execute(ctx context.Context, commandName string, args []string) error {
	command, exists := r.commands[commandName]
	if !exists {
		return errors.NewInvalidInputError("command", commandName, "unknown command")
	}
	return command.Execute(ctx, args)
}

// GetUsage returns the usage string for the CLI
func (r *CommandRegistry) GetUsage() string {
	return "usage: planerly project|task|check <subcommand> or planerly summary or planerly export format=json|yaml|csv or planerly reset or planerly ui or planerly serve"
}
