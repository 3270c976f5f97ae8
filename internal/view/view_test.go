package view

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"planerly/internal/domain"
)

var (
	testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	due2030 = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
)

type fakeState struct {
	list  *domain.ProjectsList
	now   time.Time
	saves int
}

func (s *fakeState) Projects() *domain.ProjectsList { return s.list }
func (s *fakeState) Persist(context.Context)        { s.saves++ }
func (s *fakeState) Now() time.Time                 { return s.now }

type fixture struct {
	state   *fakeState
	env     Env
	sched   *ManualScheduler
	project *domain.Project
	task    *domain.Task
}

// newFixture builds a list with one project "Travel" holding the task
// "Plan trip", created five minutes before testNow.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	list := domain.NewProjectsList()
	project, err := domain.NewProject("Travel")
	require.NoError(t, err)
	task, err := domain.NewTask("Plan trip", "Book flights and hotel", due2030, domain.PriorityHigh, testNow.Add(-5*time.Minute))
	require.NoError(t, err)
	require.NoError(t, project.AddTask(task))
	require.NoError(t, list.AddProject(project))

	state := &fakeState{list: list, now: testNow}
	sched := NewManualScheduler()
	return &fixture{
		state:   state,
		env:     Env{State: state, Dispatcher: NewDispatcher(nil, nil), Scheduler: sched},
		sched:   sched,
		project: project,
		task:    task,
	}
}

func (f *fixture) dispatch(t *testing.T, ev Event) (*Node, error) {
	t.Helper()
	return f.env.Dispatcher.Dispatch(context.Background(), ev)
}

func texts(nodes []*Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Text)
	}
	return out
}
