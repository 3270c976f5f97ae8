package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planerly/internal/errors"
	"planerly/internal/validation"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func newTestTask(t *testing.T) *Task {
	t.Helper()
	task, err := NewTask("Plan trip", "Book flights and hotel", time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), PriorityHigh, testNow)
	require.NoError(t, err)
	return task
}

func requireKind(t *testing.T, err error, want validation.ValidationErrorType) {
	t.Helper()
	require.Error(t, err)
	kind, ok := validation.KindOf(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	assert.Equal(t, want, kind)
}

func TestNewTask(t *testing.T) {
	task := newTestTask(t)

	assert.NotEmpty(t, task.ID())
	assert.Equal(t, "Plan trip", task.Title())
	assert.Equal(t, "Book flights and hotel", task.Description())
	assert.Equal(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), task.DueDate())
	assert.Equal(t, PriorityHigh, task.Priority())
	assert.False(t, task.Completed())
	assert.True(t, task.IsChecklistEmpty())
	assert.Equal(t, testNow, task.CreatedAt())
}

func TestNewTask_CollectsEveryFailure(t *testing.T) {
	_, err := NewTask("", "short", testNow.AddDate(0, 0, -1), Priority("Urgent"), testNow)

	var verr *validation.ValidationError
	require.ErrorAs(t, err, &verr)
	messages := verr.FieldMessages()
	assert.Len(t, messages, 4)
	for _, field := range []string{validation.FieldTitle, validation.FieldDescription, validation.FieldDueDate, validation.FieldPriority} {
		assert.Contains(t, messages, field)
	}
}

func TestNewTask_UniqueIDs(t *testing.T) {
	a := newTestTask(t)
	b := newTestTask(t)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestNewTaskFromInput(t *testing.T) {
	task, err := NewTaskFromInput(TaskInput{
		Title:       "Plan trip",
		Description: "Book flights and hotel",
		DueDate:     "2030-01-01",
		Priority:    "High",
	}, testNow)
	require.NoError(t, err)
	assert.Equal(t, "2030-01-01", task.DueDate().Format("2006-01-02"))

	_, err = NewTaskFromInput(TaskInput{
		Title:       "Plan trip",
		Description: "Book flights and hotel",
		DueDate:     "not a date",
		Priority:    "High",
	}, testNow)
	var verr *validation.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, validation.ErrorTypeInvalidDate, verr.Errors[0].Type)
}

func TestTask_SetTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		errKind validation.ValidationErrorType
	}{
		{"single character", "a", "a", ""},
		{"fifty characters", strings.Repeat("x", 50), strings.Repeat("x", 50), ""},
		{"trimmed", "  Pack bags  ", "Pack bags", ""},
		{"empty", "", "Plan trip", validation.ErrorTypeEmptyValue},
		{"blank", "   ", "Plan trip", validation.ErrorTypeEmptyValue},
		{"fifty one characters", strings.Repeat("x", 51), "Plan trip", validation.ErrorTypeTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := newTestTask(t)
			err := task.SetTitle(tt.input)
			if tt.errKind == "" {
				assert.NoError(t, err)
			} else {
				requireKind(t, err, tt.errKind)
			}
			assert.Equal(t, tt.want, task.Title())
		})
	}
}

func TestTask_SetDescription_TooShortKeepsPrevious(t *testing.T) {
	task := newTestTask(t)

	err := task.SetDescription("short")

	requireKind(t, err, validation.ErrorTypeTooShort)
	assert.Equal(t, "Book flights and hotel", task.Description())
}

func TestTask_SetDescription(t *testing.T) {
	task := newTestTask(t)

	requireKind(t, task.SetDescription("   "), validation.ErrorTypeEmptyValue)
	require.NoError(t, task.SetDescription("  Pack light and early  "))
	assert.Equal(t, "Pack light and early", task.Description())
}

func TestTask_SetDueDate(t *testing.T) {
	today := time.Date(2026, 10, 15, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   time.Time
		errKind validation.ValidationErrorType
	}{
		{"yesterday", today.AddDate(0, 0, -1), validation.ErrorTypePastDate},
		{"a year ago", today.AddDate(-1, 0, 0), validation.ErrorTypePastDate},
		{"today at midnight", time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), ""},
		{"tomorrow", today.AddDate(0, 0, 1), ""},
		{"zero", time.Time{}, validation.ErrorTypeInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := newTestTask(t)
			before := task.DueDate()
			err := task.SetDueDate(tt.input, today)
			if tt.errKind == "" {
				require.NoError(t, err)
				assert.Equal(t, validation.DateOnly(tt.input), task.DueDate())
			} else {
				requireKind(t, err, tt.errKind)
				assert.Equal(t, before, task.DueDate())
			}
		})
	}
}

func TestTask_SetPriority(t *testing.T) {
	task := newTestTask(t)

	require.NoError(t, task.SetPriority(PriorityLow))
	assert.Equal(t, PriorityLow, task.Priority())

	requireKind(t, task.SetPriority(Priority("low")), validation.ErrorTypeUnknownPriority)
	assert.Equal(t, PriorityLow, task.Priority())
}

func TestTask_Update(t *testing.T) {
	t.Run("applies every field", func(t *testing.T) {
		task := newTestTask(t)
		err := task.Update(TaskInput{
			Title:       "Plan road trip",
			Description: "Rent a car and map the route",
			DueDate:     "2031-06-01",
			Priority:    "Medium",
		}, testNow)
		require.NoError(t, err)
		assert.Equal(t, "Plan road trip", task.Title())
		assert.Equal(t, "Rent a car and map the route", task.Description())
		assert.Equal(t, "2031-06-01", task.DueDate().Format("2006-01-02"))
		assert.Equal(t, PriorityMedium, task.Priority())
	})

	t.Run("one invalid field changes nothing", func(t *testing.T) {
		task := newTestTask(t)
		err := task.Update(TaskInput{
			Title:       "Plan road trip",
			Description: "short",
			DueDate:     "2031-06-01",
			Priority:    "Medium",
		}, testNow)

		var verr *validation.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.GetFieldErrors(validation.FieldDescription), 1)
		assert.Equal(t, "Plan trip", task.Title())
		assert.Equal(t, PriorityHigh, task.Priority())
	})

	t.Run("unchanged overdue due date is kept", func(t *testing.T) {
		task := newTestTask(t)
		later := time.Date(2030, 1, 5, 9, 0, 0, 0, time.UTC)
		err := task.Update(TaskInput{
			Title:       "Renamed",
			Description: "Book flights and hotel",
			DueDate:     "2030-01-01",
			Priority:    "High",
		}, later)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", task.Title())
	})

	t.Run("new past due date is rejected", func(t *testing.T) {
		task := newTestTask(t)
		err := task.Update(TaskInput{
			Title:       "Plan trip",
			Description: "Book flights and hotel",
			DueDate:     "2026-10-14",
			Priority:    "High",
		}, testNow)
		requireKind(t, err, validation.ErrorTypePastDate)
	})
}

func TestTask_ToggleCompletedCascades(t *testing.T) {
	task := newTestTask(t)
	first, err := task.AddChecklistItem("Book flights")
	require.NoError(t, err)
	_, err = task.AddChecklistItem("Book hotel")
	require.NoError(t, err)
	require.NoError(t, task.ToggleChecklistItem(first.ID))
	require.NoError(t, task.ToggleChecklistItem(first.ID))
	second := task.Checklist()[1]
	require.NoError(t, task.ToggleChecklistItem(second.ID))

	task.ToggleCompleted()
	assert.True(t, task.Completed())
	for _, item := range task.Checklist() {
		assert.True(t, item.Completed, item.Text)
	}

	task.ToggleCompleted()
	assert.False(t, task.Completed())
	for _, item := range task.Checklist() {
		assert.False(t, item.Completed, item.Text)
	}
}

func TestTask_Checklist(t *testing.T) {
	task := newTestTask(t)

	_, err := task.AddChecklistItem("   ")
	requireKind(t, err, validation.ErrorTypeEmptyValue)
	assert.True(t, task.IsChecklistEmpty())

	a, err := task.AddChecklistItem("Book flights")
	require.NoError(t, err)
	b, err := task.AddChecklistItem(" Book hotel ")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "Book hotel", b.Text)

	require.NoError(t, task.ToggleChecklistItem(b.ID))
	done, total := task.ChecklistProgress()
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, total)

	require.NoError(t, task.RemoveChecklistItem(a.ID))
	items := task.Checklist()
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)
	assert.True(t, items[0].Completed)

	assert.True(t, errors.IsNotFound(task.ToggleChecklistItem("missing")))
	assert.True(t, errors.IsNotFound(task.RemoveChecklistItem("missing")))

	items[0].Text = "mutated copy"
	assert.Equal(t, "Book hotel", task.Checklist()[0].Text)
}

func TestTask_TimeSinceCreation(t *testing.T) {
	task := newTestTask(t)

	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{-time.Minute, "less than 1 minute(s) ago"},
		{0, "less than 1 minute(s) ago"},
		{59 * time.Second, "less than 1 minute(s) ago"},
		{time.Minute, "1 minute(s) ago"},
		{59 * time.Minute, "59 minute(s) ago"},
		{time.Hour, "1 hour(s) ago"},
		{23*time.Hour + 59*time.Minute, "23 hour(s) ago"},
		{24 * time.Hour, "1 day(s) ago"},
		{10 * 24 * time.Hour, "10 day(s) ago"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, task.TimeSinceCreation(testNow.Add(tt.elapsed)))
		})
	}
}

func TestTask_IsOverdue(t *testing.T) {
	task := newTestTask(t)

	assert.False(t, task.IsOverdue(testNow))
	assert.False(t, task.IsOverdue(time.Date(2030, 1, 1, 23, 0, 0, 0, time.UTC)))
	assert.True(t, task.IsOverdue(time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)))

	task.SetCompleted(true)
	assert.False(t, task.IsOverdue(time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestTask_JSONRoundTrip(t *testing.T) {
	task := newTestTask(t)
	item, err := task.AddChecklistItem("Book flights")
	require.NoError(t, err)
	require.NoError(t, task.ToggleChecklistItem(item.ID))

	data, err := json.Marshal(task)
	require.NoError(t, err)

	var restored Task
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, task.ID(), restored.ID())
	assert.Equal(t, "Plan trip", restored.Title())
	assert.Equal(t, task.Description(), restored.Description())
	assert.True(t, task.DueDate().Equal(restored.DueDate()))
	assert.Equal(t, task.Priority(), restored.Priority())
	assert.Equal(t, task.Completed(), restored.Completed())
	assert.True(t, task.CreatedAt().Equal(restored.CreatedAt()))

	checklist := restored.Checklist()
	require.Len(t, checklist, 1)
	assert.Equal(t, item.ID, checklist[0].ID)
	assert.True(t, checklist[0].Completed)

	// Day granularity comparisons still hold after the round trip.
	require.NoError(t, restored.SetDueDate(restored.DueDate(), time.Date(2030, 1, 1, 20, 0, 0, 0, time.UTC)))
}

func TestTask_UnmarshalJSONRejectsInvalid(t *testing.T) {
	var task Task
	err := json.Unmarshal([]byte(`{"id":"t","title":"","description":"long enough","dueDate":"2030-01-01T00:00:00Z","priority":"High","completed":false,"checklist":[],"createdAt":"2026-01-01T00:00:00Z"}`), &task)
	requireKind(t, err, validation.ErrorTypeEmptyValue)
}

func TestParsePriority(t *testing.T) {
	for _, p := range Priorities {
		got, err := ParsePriority(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	_, err := ParsePriority("Critical")
	requireKind(t, err, validation.ErrorTypeUnknownPriority)

	assert.Equal(t, "🔴", PriorityHigh.Symbol())
	assert.Equal(t, "🟠", PriorityMedium.Symbol())
	assert.Equal(t, "🟢", PriorityLow.Symbol())
}
