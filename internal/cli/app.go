package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"planerly/internal/api"
	"planerly/internal/config"
	"planerly/internal/errors"
	"planerly/internal/logging"
	"planerly/internal/metrics"
	"planerly/internal/view"
)

// Planner is the application state behind every command: the planner
// operations for the plain commands and the view state for ui and serve.
type Planner interface {
	api.PlannerAPI
	view.State
}

// App represents the main CLI application
type App struct {
	planner  Planner
	config   *config.Config
	out      io.Writer
	logger   *log.Logger
	metrics  *metrics.Metrics
	registry *CommandRegistry
}

// AppOption configures an App.
type AppOption func(*App)

// WithOutput sends command output to w instead of stdout.
func WithOutput(w io.Writer) AppOption {
	return func(a *App) {
		if w != nil {
			a.out = w
		}
	}
}

// WithLogger sets the logger handed to the interactive front ends.
func WithLogger(logger *log.Logger) AppOption {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMetrics sets the metrics served by the serve command.
func WithMetrics(m *metrics.Metrics) AppOption {
	return func(a *App) {
		a.metrics = m
	}
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(planner Planner, cfg *config.Config, opts ...AppOption) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	app := &App{
		planner: planner,
		config:  cfg,
		out:     os.Stdout,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(app)
	}
	app.registry = NewCommandRegistry(app)
	return app
}

// Run executes the CLI application with the given arguments
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("command", "", a.registry.GetUsage())
	}
	return a.registry.Execute(ctx, args[0], args[1:])
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

// shortID is the id prefix printed in listings. Any unique prefix is
// accepted back as an argument.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// parseArgs splits command arguments into positional values and
// key=value fields. Only the keys in allowed are accepted.
func parseArgs(args []string, allowed ...string) ([]string, map[string]string) {
	var positional []string
	fields := make(map[string]string)
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || !contains(allowed, key) {
			positional = append(positional, arg)
			continue
		}
		fields[key] = value
	}
	return positional, fields
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
