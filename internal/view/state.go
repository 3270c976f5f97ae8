package view

import (
	"context"
	"time"

	"planerly/internal/domain"
	"planerly/internal/validation"
)

// State is the application state the controllers read and mutate.
type State interface {
	Projects() *domain.ProjectsList
	// Persist saves the projects list. Failures are handled by the state.
	Persist(ctx context.Context)
	Now() time.Time
}

// Env is what every controller needs.
type Env struct {
	State           State
	Dispatcher      *Dispatcher
	Scheduler       Scheduler
	RefreshInterval time.Duration
}

func (e Env) interval() time.Duration {
	if e.RefreshInterval <= 0 {
		return DefaultRefreshInterval
	}
	return e.RefreshInterval
}

// fieldErrors maps each errored field of a validation failure to its message.
func fieldErrors(err error) map[string]string {
	verr := validation.NewValidationError()
	if verr.Collect(err) != nil {
		return nil
	}
	return verr.FieldMessages()
}

func taskInput(ev Event) domain.TaskInput {
	return domain.TaskInput{
		Title:       ev.Value(validation.FieldTitle),
		Description: ev.Value(validation.FieldDescription),
		DueDate:     ev.Value(validation.FieldDueDate),
		Priority:    ev.Value(validation.FieldPriority),
	}
}

func formValues(ev Event) map[string]string {
	values := make(map[string]string, len(ev.Form))
	for k, v := range ev.Form {
		values[k] = v
	}
	return values
}
