package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planerly/internal/domain"
	"planerly/internal/errors"
	"planerly/internal/persistence"
	"planerly/internal/repository/memory"
	"planerly/internal/services"
	"planerly/internal/validation"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// setupTestWorkspace returns a seeded workspace over an in-memory store.
func setupTestWorkspace(t *testing.T) (*Workspace, *persistence.Adapter) {
	t.Helper()
	adapter := persistence.New(memory.New())
	return NewWorkspace(context.Background(), adapter, WithClock(fixedClock)), adapter
}

func strPtr(s string) *string { return &s }

func reload(t *testing.T, adapter *persistence.Adapter) *domain.ProjectsList {
	t.Helper()
	list, ok := adapter.Load(context.Background())
	require.True(t, ok)
	return list
}

func TestNewWorkspace_SeedsAndSaves(t *testing.T) {
	ws, adapter := setupTestWorkspace(t)

	projects := ws.ListProjects(context.Background())
	require.Len(t, projects, 1)
	assert.Equal(t, "Procrastination Station", projects[0].Name())
	assert.Equal(t, 3, projects[0].Len())
	assert.Equal(t, []string{"Procrastination Station"}, reload(t, adapter).ProjectsNames())

	again := NewWorkspace(context.Background(), adapter, WithClock(fixedClock))
	assert.Equal(t, projects[0].ID(), again.Projects().CurrentProject().ID(), "the saved list is loaded, not reseeded")
}

func TestWorkspace_AddProject(t *testing.T) {
	tests := []struct {
		name           string
		projectName    string
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:        "should add project with trimmed name",
			projectName: "  Home  ",
		},
		{
			name:        "should return validation error when name is blank",
			projectName: "   ",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
				kind, ok := validation.KindOf(err)
				assert.True(t, ok)
				assert.Equal(t, validation.ErrorTypeEmptyValue, kind)
			},
		},
		{
			name:        "should return validation error when name is too long",
			projectName: "This project name is much longer than fifty characters",
			errorAssertion: func(t *testing.T, err error) {
				kind, _ := validation.KindOf(err)
				assert.Equal(t, validation.ErrorTypeTooLong, kind)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, adapter := setupTestWorkspace(t)
			project, err := ws.AddProject(context.Background(), tt.projectName)

			if tt.errorAssertion != nil {
				require.Error(t, err)
				tt.errorAssertion(t, err)
				assert.Equal(t, 1, reload(t, adapter).Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Home", project.Name())
			assert.Equal(t, []string{"Procrastination Station", "Home"}, reload(t, adapter).ProjectsNames())
		})
	}
}

func TestWorkspace_ProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	ws, adapter := setupTestWorkspace(t)
	seed, err := ws.CurrentProject(ctx)
	require.NoError(t, err)

	home, err := ws.AddProject(ctx, "Home")
	require.NoError(t, err)

	selected, err := ws.SelectProject(ctx, home.ID())
	require.NoError(t, err)
	assert.Equal(t, home.ID(), selected.ID())
	assert.Equal(t, home.ID(), reload(t, adapter).CurrentProject().ID())

	renamed, err := ws.RenameProject(ctx, home.ID(), "House")
	require.NoError(t, err)
	assert.Equal(t, "House", renamed.Name())

	_, err = ws.RenameProject(ctx, home.ID(), "")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
	assert.Equal(t, "House", home.Name())

	removed, err := ws.RemoveProject(ctx, home.ID())
	require.NoError(t, err)
	assert.Equal(t, home.ID(), removed.ID())
	current, err := ws.CurrentProject(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed.ID(), current.ID(), "current falls back to a remaining project")

	_, err = ws.RemoveProject(ctx, home.ID())
	assert.True(t, errors.IsNotFound(err))
	_, err = ws.SelectProject(ctx, "missing")
	assert.True(t, errors.IsNotFound(err))

	_, err = ws.RemoveProject(ctx, seed.ID())
	require.NoError(t, err)
	_, err = ws.CurrentProject(ctx)
	assert.True(t, errors.IsNotFound(err))
	_, _, err = ws.ListTasks(ctx, "")
	assert.True(t, errors.IsNotFound(err))
}

func TestWorkspace_AddTask(t *testing.T) {
	tests := []struct {
		name       string
		input      domain.TaskInput
		wantFields []string
	}{
		{
			name:  "should add task to current project",
			input: domain.TaskInput{Title: "Plan trip", Description: "Book flights and hotel", DueDate: "2030-01-01", Priority: "High"},
		},
		{
			name:  "should accept a due date of today",
			input: domain.TaskInput{Title: "Today", Description: "Something due today", DueDate: "2026-10-15", Priority: "Low"},
		},
		{
			name:       "should report every invalid field",
			input:      domain.TaskInput{Title: "", Description: "short", DueDate: "2026-10-14", Priority: "Urgent"},
			wantFields: []string{validation.FieldTitle, validation.FieldDescription, validation.FieldDueDate, validation.FieldPriority},
		},
		{
			name:       "should reject an unparseable due date once",
			input:      domain.TaskInput{Title: "Plan trip", Description: "Book flights and hotel", DueDate: "next week", Priority: "High"},
			wantFields: []string{validation.FieldDueDate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			ws, adapter := setupTestWorkspace(t)

			task, err := ws.AddTask(ctx, "", tt.input)
			if tt.wantFields != nil {
				require.Error(t, err)
				var verr *validation.ValidationError
				require.ErrorAs(t, err, &verr)
				var fields []string
				for _, fe := range verr.Errors {
					fields = append(fields, fe.Field)
				}
				assert.ElementsMatch(t, tt.wantFields, fields)
				assert.Equal(t, 3, reload(t, adapter).CurrentProject().Len())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.input.Title, task.Title())
			project, saved, err := reload(t, adapter).FindTask(task.ID())
			require.NoError(t, err)
			assert.Equal(t, ws.Projects().CurrentProject().ID(), project.ID())
			assert.Equal(t, task.DueDate(), saved.DueDate())
		})
	}
}

func TestWorkspace_EditTask(t *testing.T) {
	ctx := context.Background()
	ws, adapter := setupTestWorkspace(t)
	task, err := ws.AddTask(ctx, "", domain.TaskInput{Title: "Plan trip", Description: "Book flights and hotel", DueDate: "2030-01-01", Priority: "High"})
	require.NoError(t, err)

	edited, err := ws.EditTask(ctx, task.ID(), TaskEdit{Title: strPtr("Plan holiday")})
	require.NoError(t, err)
	assert.Equal(t, "Plan holiday", edited.Title())
	assert.Equal(t, "Book flights and hotel", edited.Description(), "unset fields keep their value")
	assert.Equal(t, domain.PriorityHigh, edited.Priority())

	_, err = ws.EditTask(ctx, task.ID(), TaskEdit{Title: strPtr("Valid title"), Description: strPtr("short")})
	require.Error(t, err)
	assert.Equal(t, "Plan holiday", task.Title(), "an invalid field blocks the whole edit")

	_, saved, err := reload(t, adapter).FindTask(task.ID())
	require.NoError(t, err)
	assert.Equal(t, "Plan holiday", saved.Title())

	_, err = ws.EditTask(ctx, "missing", TaskEdit{})
	assert.True(t, errors.IsNotFound(err))
}

func TestWorkspace_ToggleAndChecklist(t *testing.T) {
	ctx := context.Background()
	ws, adapter := setupTestWorkspace(t)
	task, err := ws.AddTask(ctx, "", domain.TaskInput{Title: "Plan trip", Description: "Book flights and hotel", DueDate: "2030-01-01", Priority: "High"})
	require.NoError(t, err)

	flights, err := ws.AddChecklistItem(ctx, task.ID(), "Book flights")
	require.NoError(t, err)
	_, err = ws.AddChecklistItem(ctx, task.ID(), "Book hotel")
	require.NoError(t, err)
	_, err = ws.AddChecklistItem(ctx, task.ID(), " ")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))

	require.NoError(t, ws.ToggleChecklistItem(ctx, task.ID(), flights.ID))
	done, total := task.ChecklistProgress()
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, total)

	toggled, err := ws.ToggleTask(ctx, task.ID())
	require.NoError(t, err)
	assert.True(t, toggled.Completed())
	done, _ = toggled.ChecklistProgress()
	assert.Equal(t, 2, done)

	require.NoError(t, ws.RemoveChecklistItem(ctx, task.ID(), flights.ID))
	assert.True(t, errors.IsNotFound(ws.RemoveChecklistItem(ctx, task.ID(), flights.ID)))
	assert.True(t, errors.IsNotFound(ws.ToggleChecklistItem(ctx, "missing", flights.ID)))

	_, saved, err := reload(t, adapter).FindTask(task.ID())
	require.NoError(t, err)
	assert.True(t, saved.Completed())
	require.Len(t, saved.Checklist(), 1)
	assert.Equal(t, "Book hotel", saved.Checklist()[0].Text)

	removed, err := ws.RemoveTask(ctx, task.ID())
	require.NoError(t, err)
	assert.Equal(t, task.ID(), removed.ID())
	_, _, err = ws.GetTask(ctx, task.ID())
	assert.True(t, errors.IsNotFound(err))
}

func TestWorkspace_SearchTasks(t *testing.T) {
	ctx := context.Background()
	ws, _ := setupTestWorkspace(t)
	seed := ws.Projects().CurrentProject()
	_, err := ws.ToggleTask(ctx, seed.Tasks()[1].ID())
	require.NoError(t, err)

	tests := []struct {
		name     string
		criteria services.SearchCriteria
		order    services.SortOrder
		want     []string
	}{
		{
			name:     "should list open tasks with the latest due date last",
			criteria: services.SearchCriteria{Status: services.StatusOpen},
			order:    services.SortByDueDate,
			want:     []string{"Triage the Todo Tsunami", "Set Realistic Deadlines"},
		},
		{
			name:     "should find tasks by description",
			criteria: services.SearchCriteria{TextFilter: "weekly"},
			want:     []string{"Make the Plan Plan"},
		},
		{
			name:  "should order by title",
			order: services.SortByTitle,
			want:  []string{"Make the Plan Plan", "Set Realistic Deadlines", "Triage the Todo Tsunami"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project, tasks, err := ws.SearchTasks(ctx, "", tt.criteria, tt.order)
			require.NoError(t, err)
			assert.Equal(t, seed.ID(), project.ID())
			var got []string
			for _, task := range tasks {
				got = append(got, task.Title())
			}
			assert.Equal(t, tt.want, got)
		})
	}

	_, _, err = ws.SearchTasks(ctx, "missing", services.SearchCriteria{}, services.SortByPosition)
	assert.True(t, errors.IsNotFound(err))
}

func TestWorkspace_ResolveIDs(t *testing.T) {
	ctx := context.Background()
	ws, _ := setupTestWorkspace(t)
	project := ws.Projects().CurrentProject()
	task := project.Tasks()[0]
	item, err := ws.AddChecklistItem(ctx, task.ID(), "First step")
	require.NoError(t, err)

	got, err := ws.ResolveProjectID(project.ID()[:8])
	require.NoError(t, err)
	assert.Equal(t, project.ID(), got)

	got, err = ws.ResolveTaskID(task.ID())
	require.NoError(t, err)
	assert.Equal(t, task.ID(), got)

	got, err = ws.ResolveItemID(task.ID(), item.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, item.ID, got)
}

func TestWorkspace_Summary(t *testing.T) {
	ctx := context.Background()
	ws, _ := setupTestWorkspace(t)
	seed := ws.Projects().CurrentProject()

	first := seed.Tasks()[0]
	_, err := ws.AddChecklistItem(ctx, first.ID(), "Step one")
	require.NoError(t, err)
	_, err = ws.ToggleTask(ctx, first.ID())
	require.NoError(t, err)
	_, err = ws.AddChecklistItem(ctx, seed.Tasks()[1].ID(), "Step two")
	require.NoError(t, err)
	_, err = ws.AddProject(ctx, "Empty")
	require.NoError(t, err)

	later := NewWorkspace(ctx, ws.adapter, WithClock(func() time.Time { return testNow.AddDate(0, 0, 15) }))
	summary := later.Summary(ctx)
	require.Len(t, summary, 2)
	assert.Equal(t, ProjectSummary{
		ID: seed.ID(), Name: seed.Name(), Current: true,
		Tasks: 3, Completed: 1, Overdue: 1, ChecklistDone: 2, ChecklistTotal: 6,
	}, summary[0])
	assert.Equal(t, "Empty", summary[1].Name)
	assert.False(t, summary[1].Current)
	assert.Zero(t, summary[1].Tasks)
}

func TestWorkspace_DocumentAndReset(t *testing.T) {
	ctx := context.Background()
	ws, adapter := setupTestWorkspace(t)
	_, err := ws.AddProject(ctx, "Home")
	require.NoError(t, err)

	doc := ws.Document(ctx)
	assert.Len(t, doc.Projects, 2)
	assert.Equal(t, ws.Projects().CurrentProject().ID(), doc.CurrentProjectID)

	require.NoError(t, ws.Reset(ctx))
	assert.Equal(t, []string{"Procrastination Station"}, ws.Projects().ProjectsNames())
	assert.Equal(t, []string{"Procrastination Station"}, reload(t, adapter).ProjectsNames())
}

func TestWorkspace_PersistSwallowsFailures(t *testing.T) {
	ws, _ := setupTestWorkspace(t)
	ws.adapter = persistence.New(failingStore{})

	assert.NotPanics(t, func() { ws.Persist(context.Background()) })
	_, err := ws.AddProject(context.Background(), "Home")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypePersistence), "command line callers still see save failures")
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.NewStorageError("get", context.DeadlineExceeded)
}
func (failingStore) Put(context.Context, string, []byte) error {
	return errors.NewStorageError("put", context.DeadlineExceeded)
}
func (failingStore) Delete(context.Context, string) error { return nil }
func (failingStore) Close() error                         { return nil }
