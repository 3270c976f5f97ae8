package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"planerly/internal/api"
	"planerly/internal/config"
	"planerly/internal/document"
	"planerly/internal/domain"
	"planerly/internal/errors"
	"planerly/internal/persistence"
	"planerly/internal/repository/memory"
	"planerly/internal/validation"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

// setupTestApp returns an app over a seeded in-memory workspace whose
// output is captured.
func setupTestApp(t *testing.T) (*App, *bytes.Buffer, *api.Workspace) {
	t.Helper()
	adapter := persistence.New(memory.New())
	ws := api.NewWorkspace(context.Background(), adapter, api.WithClock(func() time.Time { return testNow }))
	out := &bytes.Buffer{}
	return NewApp(ws, config.NewConfig(), WithOutput(out)), out, ws
}

func run(t *testing.T, app *App, out *bytes.Buffer, args ...string) (string, error) {
	t.Helper()
	out.Reset()
	err := app.Run(context.Background(), args)
	return out.String(), err
}

func seedProject(t *testing.T, ws *api.Workspace) *domain.Project {
	t.Helper()
	project, err := ws.CurrentProject(context.Background())
	require.NoError(t, err)
	return project
}

func TestApp_Run(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{
			name:    "should require a command",
			args:    []string{},
			wantErr: "usage: planerly",
		},
		{
			name:    "should reject unknown commands",
			args:    []string{"start", "Working on feature X"},
			wantErr: "unknown command",
		},
		{
			name: "should list projects by default",
			args: []string{"project"},
			want: "Procrastination Station (3 tasks)",
		},
		{
			name: "should list the tasks of the current project",
			args: []string{"task", "list"},
			want: "Triage the Todo Tsunami",
		},
		{
			name:    "should reject unknown subcommands",
			args:    []string{"task", "archive"},
			wantErr: "unknown subcommand",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, out, _ := setupTestApp(t)
			got, err := run(t, app, out, tt.args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestProjectCommand(t *testing.T) {
	app, out, ws := setupTestApp(t)
	seed := seedProject(t, ws)

	got, err := run(t, app, out, "project", "add", "Home", "Renovation")
	require.NoError(t, err)
	assert.Contains(t, got, `Added project "Home Renovation"`)

	projects := ws.ListProjects(context.Background())
	require.Len(t, projects, 2)
	home := projects[1]

	got, err = run(t, app, out, "project", "list")
	require.NoError(t, err)
	assert.Equal(t,
		"* "+shortID(seed.ID())+"  Procrastination Station (3 tasks)\n"+
			"  "+shortID(home.ID())+"  Home Renovation (0 tasks)\n",
		got)

	got, err = run(t, app, out, "project", "select", shortID(home.ID()))
	require.NoError(t, err)
	assert.Equal(t, "Current project is now \"Home Renovation\"\n", got)

	got, err = run(t, app, out, "project", "current")
	require.NoError(t, err)
	assert.Equal(t, shortID(home.ID())+"  Home Renovation (0 tasks)\n", got)

	got, err = run(t, app, out, "project", "rename", home.ID(), "Garden")
	require.NoError(t, err)
	assert.Equal(t, "Renamed project to \"Garden\"\n", got)

	got, err = run(t, app, out, "project", "remove", shortID(seed.ID()))
	require.NoError(t, err)
	assert.Equal(t, "Removed project \"Procrastination Station\" and 3 tasks\n", got)
	assert.Equal(t, []string{"Garden"}, ws.Projects().ProjectsNames())
}

func TestProjectCommand_Errors(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		assertion func(t *testing.T, err error)
	}{
		{
			name: "should reject an empty name",
			args: []string{"project", "add", " "},
			assertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
			},
		},
		{
			name: "should require a name to add",
			args: []string{"project", "add"},
			assertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
			},
		},
		{
			name: "should report unknown ids",
			args: []string{"project", "select", "zzzz"},
			assertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsNotFound(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, out, _ := setupTestApp(t)
			_, err := run(t, app, out, tt.args...)
			require.Error(t, err)
			tt.assertion(t, err)
		})
	}
}

func TestTaskCommand_Add(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		want      string
		wantField string
	}{
		{
			name: "should add a task with the default priority",
			args: []string{"title=Pack bags", "description=Clothes and chargers", "due=2030-01-01"},
			want: `Added task "Pack bags"`,
		},
		{
			name: "should add a task with a priority",
			args: []string{"title=Book hotel", "description=Near the station", "due=2030-01-01", "priority=High"},
			want: `Added task "Book hotel"`,
		},
		{
			name:      "should reject a short description",
			args:      []string{"title=Pack bags", "description=short", "due=2030-01-01"},
			wantField: validation.FieldDescription,
		},
		{
			name:      "should reject a past due date",
			args:      []string{"title=Pack bags", "description=Clothes and chargers", "due=2020-01-01"},
			wantField: validation.FieldDueDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, out, ws := setupTestApp(t)
			got, err := run(t, app, out, append([]string{"task", "add"}, tt.args...)...)
			if tt.wantField != "" {
				require.Error(t, err)
				assert.True(t, validation.IsValidationError(err))
				assert.Equal(t, 3, seedProject(t, ws).Len())
				return
			}
			require.NoError(t, err)
			assert.Contains(t, got, tt.want)
			assert.Equal(t, 4, seedProject(t, ws).Len())
		})
	}
}

func TestTaskCommand_Lifecycle(t *testing.T) {
	app, out, ws := setupTestApp(t)

	_, err := run(t, app, out, "task", "add", "title=Pack bags", "description=Clothes and chargers", "due=2030-01-01", "priority=Medium")
	require.NoError(t, err)
	tasks := seedProject(t, ws).Tasks()
	task := tasks[len(tasks)-1]
	id := shortID(task.ID())

	got, err := run(t, app, out, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, got, "Procrastination Station (4 tasks)\n")
	assert.Contains(t, got, "[ ] "+id+"  🟠 Pack bags  due 1st Jan 2030\n")
	assert.Contains(t, got, "checklist 0/3")

	got, err = run(t, app, out, "task", "edit", id, "title=Pack all bags", "priority=High")
	require.NoError(t, err)
	assert.Equal(t, "Updated task \"Pack all bags\"\n", got)
	assert.Equal(t, domain.PriorityHigh, task.Priority())
	assert.Equal(t, "Clothes and chargers", task.Description(), "unset fields are kept")

	_, err = run(t, app, out, "task", "edit", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")

	got, err = run(t, app, out, "task", "toggle", id)
	require.NoError(t, err)
	assert.Equal(t, "Marked \"Pack all bags\" as done\n", got)
	assert.True(t, task.Completed())

	got, err = run(t, app, out, "task", "show", id)
	require.NoError(t, err)
	assert.Contains(t, got, "Pack all bags")
	assert.Contains(t, got, "Clothes and chargers")

	got, err = run(t, app, out, "task", "remove", id)
	require.NoError(t, err)
	assert.Equal(t, "Removed task \"Pack all bags\"\n", got)
	assert.Equal(t, 3, seedProject(t, ws).Len())
}

func TestTaskCommand_ListOtherProject(t *testing.T) {
	app, out, ws := setupTestApp(t)
	home, err := ws.AddProject(context.Background(), "Home")
	require.NoError(t, err)

	got, err := run(t, app, out, "task", "list", "project="+shortID(home.ID()))
	require.NoError(t, err)
	assert.Contains(t, got, "Home (0 tasks)")
	assert.Contains(t, got, "No tasks yet")
}

func TestTaskCommand_ListFilters(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
		wantErr string
	}{
		{
			name:    "should filter by text",
			args:    []string{"search=weekly"},
			want:    []string{"(1 task)", "Make the Plan Plan"},
			notWant: []string{"Triage the Todo Tsunami"},
		},
		{
			name:    "should filter by priority",
			args:    []string{"priority=High"},
			want:    []string{"Triage the Todo Tsunami"},
			notWant: []string{"Set Realistic Deadlines"},
		},
		{
			name: "should say when nothing matches",
			args: []string{"status=done"},
			want: []string{"(0 tasks)", "No matching tasks"},
		},
		{
			name:    "should reject unknown sort orders",
			args:    []string{"sort=size"},
			wantErr: "sort must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, out, _ := setupTestApp(t)
			got, err := run(t, app, out, append([]string{"task", "list"}, tt.args...)...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, got, w)
			}
		})
	}
}

func TestTaskCommand_ListSortedByTitle(t *testing.T) {
	app, out, _ := setupTestApp(t)

	got, err := run(t, app, out, "task", "list", "sort=title")
	require.NoError(t, err)
	plan := strings.Index(got, "Make the Plan Plan")
	triage := strings.Index(got, "Triage the Todo Tsunami")
	require.True(t, plan >= 0 && triage >= 0)
	assert.Less(t, plan, triage)
}

func TestCheckCommand(t *testing.T) {
	app, out, ws := setupTestApp(t)
	task := seedProject(t, ws).Tasks()[2]
	taskID := shortID(task.ID())

	got, err := run(t, app, out, "check", "add", taskID, "Pick", "a", "date")
	require.NoError(t, err)
	assert.Contains(t, got, `Added checklist item "Pick a date"`)
	require.Len(t, task.Checklist(), 1)
	itemID := task.Checklist()[0].ID

	got, err = run(t, app, out, "check", "toggle", taskID, itemID[:6])
	require.NoError(t, err)
	assert.Equal(t, "Checklist for \"Set Realistic Deadlines\": 1/1 done\n", got)
	assert.True(t, task.Checklist()[0].Completed)

	got, err = run(t, app, out, "check", "remove", taskID, itemID)
	require.NoError(t, err)
	assert.Equal(t, "Checklist for \"Set Realistic Deadlines\": 0/0 done\n", got)
	assert.Empty(t, task.Checklist())

	_, err = run(t, app, out, "check", "toggle", taskID)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
}

func TestSummaryCommand(t *testing.T) {
	app, out, ws := setupTestApp(t)
	task := seedProject(t, ws).Tasks()[0]
	_, err := ws.ToggleTask(context.Background(), task.ID())
	require.NoError(t, err)
	require.Len(t, task.Checklist(), 1)
	require.True(t, task.Checklist()[0].Completed, "completing a task completes its checklist")

	got, err := run(t, app, out, "summary")
	require.NoError(t, err)

	assert.Contains(t, got, "* Procrastination Station\n")
	assert.Contains(t, got, "    3 tasks, 1 completed, 0 overdue\n")
	assert.Contains(t, got, "    checklist 1/4 (25%)\n")
	assert.Contains(t, got, strings.Repeat("=", summaryWidth))
	assert.Contains(t, got, "3 tasks across 1 project: 1 completed, 0 overdue, checklist 1/4\n")
}

func TestExportCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, got string)
		wantErr string
	}{
		{
			name: "should export the saved document as json by default",
			check: func(t *testing.T, got string) {
				doc, err := document.Decode([]byte(got))
				require.NoError(t, err)
				require.Len(t, doc.Projects, 1)
				assert.Len(t, doc.Projects[0].Tasks, 3)
			},
		},
		{
			name: "should export yaml",
			args: []string{"format=yaml"},
			check: func(t *testing.T, got string) {
				var doc document.Document
				require.NoError(t, yaml.Unmarshal([]byte(got), &doc))
				require.Len(t, doc.Projects, 1)
				assert.Equal(t, "Procrastination Station", doc.Projects[0].Name)
			},
		},
		{
			name: "should export one csv row per task",
			args: []string{"format=csv"},
			check: func(t *testing.T, got string) {
				records, err := csv.NewReader(strings.NewReader(got)).ReadAll()
				require.NoError(t, err)
				require.Len(t, records, 4)
				assert.Equal(t, "Project", records[0][0])
				assert.Equal(t, "Procrastination Station", records[2][0])
				assert.Equal(t, "Make the Plan Plan", records[2][2])
				assert.Equal(t, "Medium", records[2][5])
				assert.Equal(t, "3", records[2][8])
			},
		},
		{
			name:    "should reject unknown formats",
			args:    []string{"format=xml"},
			wantErr: "unsupported format",
		},
		{
			name:    "should reject stray arguments",
			args:    []string{"csv"},
			wantErr: "invalid format option",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, out, _ := setupTestApp(t)
			got, err := run(t, app, out, append([]string{"export"}, tt.args...)...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestResetCommand(t *testing.T) {
	app, out, ws := setupTestApp(t)
	_, err := ws.AddProject(context.Background(), "Home")
	require.NoError(t, err)

	got, err := run(t, app, out, "reset")
	require.NoError(t, err)
	assert.Equal(t, "Planner data reset to 1 starter project\n", got)
	assert.Equal(t, []string{"Procrastination Station"}, ws.Projects().ProjectsNames())
}

func TestParseArgs(t *testing.T) {
	positional, fields := parseArgs([]string{"3f2a", "title=a=b", "color=red", "due="}, "title", "due")

	assert.Equal(t, []string{"3f2a", "color=red"}, positional)
	assert.Equal(t, map[string]string{"title": "a=b", "due": ""}, fields)
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 task", plural(1, "task"))
	assert.Equal(t, "0 tasks", plural(0, "task"))
	assert.Equal(t, "2 projects", plural(2, "project"))
}
