package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"planerly/internal/config"
)

// Builder opens the planner for a resolved configuration. The returned
// cleanup func releases the storage behind it.
type Builder func(ctx context.Context, cfg *config.Config) (*App, func(), error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	loader  *config.Loader
	build   Builder
	config  *config.Config
	app     *App
	cleanup func()
	errors  *ErrorHandler
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(loader *config.Loader, build Builder) *RootCommand {
	if loader == nil {
		loader = config.NewLoader()
	}
	root := &RootCommand{
		loader: loader,
		build:  build,
		errors: NewErrorHandler(),
	}

	root.cmd = &cobra.Command{
		Use:   "planerly",
		Short: "A project and task planner for the terminal and the browser",
		Long: `Planerly keeps projects of tasks with due dates, priorities and checklists.

FEATURES:
  • Group tasks into projects and switch the current project
  • Track due dates, priorities and checklist progress per task
  • Work interactively in the terminal (ui) or in the browser (serve)
  • Export the planner as JSON, YAML or CSV
  • Store data in SQLite, a JSON file, NATS key-value or memory

EXAMPLES:
  planerly project add Travel                         # Create a project
  planerly task add --title "Plan trip" --description "Book flights and hotel" --due 2030-01-01 --priority High
  planerly task list                                  # Tasks of the current project
  planerly task toggle 3f2a                           # Complete a task by id prefix
  planerly check add 3f2a Pack passport               # Add a checklist item
  planerly summary                                    # Progress of every project
  planerly export --format yaml > planner.yaml        # Export the planner
  planerly ui                                         # Open the terminal UI
  planerly serve --addr 127.0.0.1:9000                # Serve the planner page

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > config file > defaults
  The config file is --config, or config.toml in the data directory when it exists.

  Storage Configuration:
    PL_STORAGE_BACKEND                     sqlite, file, memory or nats (default: sqlite)
    PL_DATA_DIR                            Data directory (default: ~/.planerly)
    PL_DB_FILENAME                         SQLite filename (default: planerly.db)
    PL_STORAGE_KEY                         Key the planner is saved under (default: planerly-todo-application-data)
    PL_NATS_URL                            NATS server URL (default: nats://127.0.0.1:4222)
    PL_NATS_BUCKET                         NATS key-value bucket (default: PLANERLY)
    PL_DATA_DIR_PERMISSIONS                Data directory permissions (default: 0755)

  Display Configuration:
    PL_APP_NAME                            Title of the ui and the page (default: Planerly)
    PL_REFRESH_INTERVAL                    Refresh of created times (default: 60s)

  Logging Configuration:
    PL_LOG_LEVEL                           debug, info, warn or error (default: warn)
    PL_LOG_FORMAT                          text, json or logfmt (default: text)

  Application Configuration:
    PL_APP_TIMEOUT                         Command timeout (default: 60s)
    PL_APP_VERBOSE                         Enable verbose output (default: false)

  Server Configuration:
    PL_SERVER_ADDR                         Listen address (default: 127.0.0.1:8080)
    PL_ALLOWED_ORIGINS                     Comma separated CORS origins (default: *)

GETTING HELP:
  planerly [command] --help                # Get help for any specific command
  planerly completion bash                 # Generate bash completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			root.close()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Command returns the underlying cobra command.
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	defer r.close()
	return r.cmd.Execute()
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "TOML config file (default: config.toml in the data directory)")

	// Storage configuration
	flags.String("store", "", "Storage backend: sqlite, file, memory or nats (overrides PL_STORAGE_BACKEND)")
	flags.String("data-dir", "", "Data directory (overrides PL_DATA_DIR)")
	flags.String("key", "", "Key the planner is saved under (overrides PL_STORAGE_KEY)")
	flags.String("nats-url", "", "NATS server URL (overrides PL_NATS_URL)")

	// Display configuration
	flags.Duration("refresh-interval", 0, "Refresh of created times (overrides PL_REFRESH_INTERVAL)")

	// Logging configuration
	flags.String("log-level", "", "Log level (overrides PL_LOG_LEVEL)")
	flags.String("log-format", "", "Log format (overrides PL_LOG_FORMAT)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Command timeout (overrides PL_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides PL_APP_VERBOSE)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	// Project commands
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
		Long:  "List, add, rename, remove and select projects. Without a subcommand the projects are listed.",
		Args:  cobra.NoArgs,
		RunE:  r.run("list projects", "project", []string{"list"}),
	}
	projectCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List projects",
			Args:  cobra.NoArgs,
			RunE:  r.run("list projects", "project", []string{"list"}),
		},
		&cobra.Command{
			Use:   "current",
			Short: "Show the current project",
			Args:  cobra.NoArgs,
			RunE:  r.run("show current project", "project", []string{"current"}),
		},
		&cobra.Command{
			Use:   "add [name]",
			Short: "Add a project",
			Args:  cobra.MinimumNArgs(1),
			RunE:  r.run("add project", "project", []string{"add"}),
		},
		&cobra.Command{
			Use:   "rename [project] [name]",
			Short: "Rename a project",
			Args:  cobra.MinimumNArgs(2),
			RunE:  r.run("rename project", "project", []string{"rename"}),
		},
		&cobra.Command{
			Use:   "remove [project]",
			Short: "Remove a project and its tasks",
			Args:  cobra.ExactArgs(1),
			RunE:  r.run("remove project", "project", []string{"remove"}),
		},
		&cobra.Command{
			Use:   "select [project]",
			Short: "Make a project the current one",
			Args:  cobra.ExactArgs(1),
			RunE:  r.run("select project", "project", []string{"select"}),
		},
	)

	// Task commands
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the tasks of a project",
		Long: `Manage tasks. Tasks and projects are referred to by any unique prefix of their id.

Examples:
  planerly task list --project 9c1e
  planerly task list --status open --sort due
  planerly task add --title "Plan trip" --description "Book flights and hotel" --due 2030-01-01
  planerly task edit 3f2a --priority High
  planerly task show 3f2a`,
	}
	taskList := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of a project",
		Args:  cobra.NoArgs,
		RunE:  r.run("list tasks", "task", []string{"list"}, "project", "search", "status", "priority", "sort"),
	}
	taskList.Flags().String("project", "", "Project id (default: the current project)")
	taskList.Flags().String("search", "", "Only tasks whose title or description contains this text")
	taskList.Flags().String("status", "", "Only open or done tasks")
	taskList.Flags().String("priority", "", "Only tasks of this priority")
	taskList.Flags().String("sort", "", "Order by due, priority, title or created")

	taskAdd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		Args:  cobra.NoArgs,
		RunE:  r.run("add task", "task", []string{"add"}, "title", "description", "due", "priority", "project"),
	}
	addTaskFlags(taskAdd)
	taskAdd.Flags().String("project", "", "Project id (default: the current project)")

	taskEdit := &cobra.Command{
		Use:   "edit [task]",
		Short: "Change the fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE:  r.run("edit task", "task", []string{"edit"}, "title", "description", "due", "priority"),
	}
	addTaskFlags(taskEdit)

	taskCmd.AddCommand(
		taskList,
		taskAdd,
		taskEdit,
		&cobra.Command{
			Use:   "remove [task]",
			Short: "Remove a task",
			Args:  cobra.ExactArgs(1),
			RunE:  r.run("remove task", "task", []string{"remove"}),
		},
		&cobra.Command{
			Use:   "toggle [task]",
			Short: "Mark a task as done or not done",
			Args:  cobra.ExactArgs(1),
			RunE:  r.run("toggle task", "task", []string{"toggle"}),
		},
		&cobra.Command{
			Use:   "show [task]",
			Short: "Show a task card",
			Args:  cobra.ExactArgs(1),
			RunE:  r.run("show task", "task", []string{"show"}),
		},
	)

	// Checklist commands
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Manage the checklist of a task",
	}
	checkCmd.AddCommand(
		&cobra.Command{
			Use:   "add [task] [text]",
			Short: "Add a checklist item",
			Args:  cobra.MinimumNArgs(2),
			RunE:  r.run("add checklist item", "check", []string{"add"}),
		},
		&cobra.Command{
			Use:   "toggle [task] [item]",
			Short: "Mark a checklist item as done or not done",
			Args:  cobra.ExactArgs(2),
			RunE:  r.run("toggle checklist item", "check", []string{"toggle"}),
		},
		&cobra.Command{
			Use:   "remove [task] [item]",
			Short: "Remove a checklist item",
			Args:  cobra.ExactArgs(2),
			RunE:  r.run("remove checklist item", "check", []string{"remove"}),
		},
	)

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the progress of every project",
		Args:  cobra.NoArgs,
		RunE:  r.run("show summary", "summary", nil),
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the planner",
		Long: `Export every project and task in the specified format.

Supported formats:
  json - the persisted document
  yaml - the same document as YAML
  csv  - one row per task

Example:
  planerly export --format csv > tasks.csv`,
		Args: cobra.NoArgs,
		RunE: r.run("export planner", "export", nil, "format"),
	}
	exportCmd.Flags().String("format", FormatJSON, "Output format: json, yaml or csv")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace all data with the starter projects",
		Long:  "Replace every project and task with the starter projects. This operation cannot be undone.",
		Args:  cobra.NoArgs,
		RunE:  r.run("reset planner", "reset", nil),
	}

	uiCmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the terminal UI",
		Args:  cobra.NoArgs,
		RunE:  r.interactive("run terminal UI", "ui"),
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner page over HTTP",
		Args:  cobra.NoArgs,
		RunE:  r.interactive("serve planner", "serve", "addr"),
	}
	serveCmd.Flags().String("addr", "", "Listen address (overrides PL_SERVER_ADDR)")

	r.cmd.AddCommand(
		projectCmd,
		taskCmd,
		checkCmd,
		summaryCmd,
		exportCmd,
		resetCmd,
		uiCmd,
		serveCmd,
	)
}

func addTaskFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "Task title")
	cmd.Flags().String("description", "", "Task description, at least 10 characters")
	cmd.Flags().String("due", "", "Due date as YYYY-MM-DD")
	cmd.Flags().String("priority", "", "Low, Medium or High")
}

// run returns a RunE executing the registered command name with prefix and
// the positional arguments, followed by every changed flag in flags as a
// key=value field.
func (r *RootCommand) run(op, name string, prefix []string, flags ...string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), r.getAppTimeout())
		defer cancel()
		return r.execute(ctx, op, name, commandArgs(cmd, prefix, args, flags))
	}
}

// interactive is run for the long running front ends, which stop on an
// interrupt instead of a timeout.
func (r *RootCommand) interactive(op, name string, flags ...string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return r.execute(ctx, op, name, commandArgs(cmd, nil, args, flags))
	}
}

func (r *RootCommand) execute(ctx context.Context, op, name string, args []string) error {
	app, err := r.application(ctx)
	if err != nil {
		return r.errors.Handle("open planner", err)
	}
	if err := app.registry.Execute(ctx, name, args); err != nil {
		if r.errors.ShouldLog(err) {
			app.logger.Error(op+" failed", "err", err)
		}
		return r.errors.Handle(op, err)
	}
	return nil
}

func commandArgs(cmd *cobra.Command, prefix, args, flags []string) []string {
	out := make([]string, 0, len(prefix)+len(args)+len(flags))
	out = append(out, prefix...)
	out = append(out, args...)
	for _, name := range flags {
		if !cmd.Flags().Changed(name) {
			continue
		}
		value, _ := cmd.Flags().GetString(name)
		out = append(out, name+"="+value)
	}
	return out
}

// application opens the planner on first use, so help and completion
// never touch the storage.
func (r *RootCommand) application(ctx context.Context) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}
	if r.config == nil {
		r.config = config.NewConfig()
	}
	app, cleanup, err := r.build(ctx, r.config)
	if err != nil {
		return nil, err
	}
	r.app, r.cleanup = app, cleanup
	return app, nil
}

func (r *RootCommand) close() {
	if r.cleanup != nil {
		r.cleanup()
		r.cleanup = nil
	}
	r.app = nil
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// loadConfig resolves the configuration with the flags set on the command
// line applied last.
func (r *RootCommand) loadConfig(cmd *cobra.Command) error {
	cfg, err := r.loader.LoadWithOverrides(overridesFromFlags(cmd))
	if err != nil {
		return r.errors.Handle("load configuration", err)
	}
	r.config = cfg
	return nil
}

func overridesFromFlags(cmd *cobra.Command) *config.ConfigOverrides {
	flags := cmd.Flags()
	overrides := &config.ConfigOverrides{}

	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	durationFlag := func(name string) *time.Duration {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetDuration(name)
		return &v
	}

	overrides.ConfigFile = stringFlag("config")
	overrides.Backend = stringFlag("store")
	overrides.DataDir = stringFlag("data-dir")
	overrides.StorageKey = stringFlag("key")
	overrides.NATSURL = stringFlag("nats-url")
	overrides.RefreshInterval = durationFlag("refresh-interval")
	overrides.LogLevel = stringFlag("log-level")
	overrides.LogFormat = stringFlag("log-format")
	overrides.Timeout = durationFlag("app-timeout")
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		overrides.Verbose = &v
	}
	return overrides
}
