package view

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"planerly/internal/errors"
	"planerly/internal/logging"
	"planerly/internal/metrics"
	"planerly/internal/validation"
)

// Event is a user action together with the ids of the elements it came from
// and the submitted form values.
type Event struct {
	Action    string
	ProjectID string
	TaskID    string
	ItemID    string
	Form      map[string]string
}

// Value returns the submitted form value for name.
func (e Event) Value(name string) string {
	return e.Form[name]
}

// Handler reacts to an event and returns the re-rendered subtree. A
// validation failure is returned together with the subtree that shows it.
type Handler func(ctx context.Context, ev Event) (*Node, error)

// RootScope holds the handlers not tied to a project or task.
const RootScope = "root"

// ProjectScope is the handler scope of one project view.
func ProjectScope(id string) string { return "project:" + id }

// TaskScope is the handler scope of one task card.
func TaskScope(id string) string { return "task:" + id }

// Dispatcher routes events to the handlers bound for their scope. Task
// events are offered to the task scope first, then to the project scope,
// then to the root scope.
type Dispatcher struct {
	mu      sync.RWMutex
	scopes  map[string]map[string]Handler
	logger  *log.Logger
	metrics *metrics.Metrics
}

// NewDispatcher creates an empty dispatcher. m may be nil.
func NewDispatcher(logger *log.Logger, m *metrics.Metrics) *Dispatcher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Dispatcher{
		scopes:  map[string]map[string]Handler{},
		logger:  logger,
		metrics: m,
	}
}

// Bind registers the handlers of a scope, replacing any bound before.
func (d *Dispatcher) Bind(scope string, handlers map[string]Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	bound := make(map[string]Handler, len(handlers))
	for action, h := range handlers {
		bound[action] = h
	}
	d.scopes[scope] = bound
}

// Unbind removes every handler of a scope.
func (d *Dispatcher) Unbind(scope string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.scopes, scope)
}

// Bound reports how many actions a scope handles.
func (d *Dispatcher) Bound(scope string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.scopes[scope])
}

func (d *Dispatcher) lookup(ev Event) Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var scopes []string
	if ev.TaskID != "" {
		scopes = append(scopes, TaskScope(ev.TaskID))
	}
	if ev.ProjectID != "" {
		scopes = append(scopes, ProjectScope(ev.ProjectID))
	}
	scopes = append(scopes, RootScope)

	for _, scope := range scopes {
		if h, ok := d.scopes[scope][ev.Action]; ok {
			return h
		}
	}
	return nil
}

// Dispatch runs the handler for ev. Events nobody handles fail with a
// not found error.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) (*Node, error) {
	h := d.lookup(ev)
	if h == nil {
		d.metrics.ObserveAction(ev.Action, "unhandled")
		d.logger.Debug("unhandled event", "action", ev.Action, "project", ev.ProjectID, "task", ev.TaskID)
		return nil, errors.NewNotFoundError("action", ev.Action)
	}

	node, err := h(ctx, ev)
	outcome := "ok"
	switch {
	case err == nil:
	case validation.IsValidationError(err):
		outcome = "invalid"
	case errors.IsNotFound(err):
		outcome = "not_found"
	default:
		outcome = "error"
	}
	d.metrics.ObserveAction(ev.Action, outcome)
	d.logger.Debug("dispatched event", "action", ev.Action, "outcome", outcome)
	return node, err
}
