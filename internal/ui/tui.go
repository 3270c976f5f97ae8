// Package ui runs the planner as a terminal application on top of the
// view controllers.
package ui

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"planerly/internal/domain"
	"planerly/internal/errors"
	"planerly/internal/logging"
	"planerly/internal/metrics"
	"planerly/internal/validation"
	"planerly/internal/view"
)

// DefaultTitle is shown above the planner.
const DefaultTitle = "Planerly"

// tickInterval is how often the refresh timers are advanced.
const tickInterval = time.Second

// Options configures the terminal UI.
type Options struct {
	Title           string
	RefreshInterval time.Duration
	Logger          *log.Logger
	Metrics         *metrics.Metrics

	// Input and Output replace the terminal, mostly for tests.
	Input  io.Reader
	Output io.Writer
}

// opens maps the actions that open a form to the action of that form.
var opens = map[string]string{
	"open-task-form":      "add-task",
	"edit-task":           "update-task",
	"open-checklist-form": "add-checklist-item",
	"open-project-form":   "add-project",
	"edit-project":        "update-project",
}

// Run starts the terminal UI and blocks until the user quits or ctx is done.
func Run(ctx context.Context, state view.State, opts Options) error {
	m := New(ctx, state, opts)
	defer m.Close()

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	} else {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}

	_, err := tea.NewProgram(m, programOpts...).Run()
	if stderrors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

type tickMsg time.Time

// Model is the bubbletea model of the planner.
type Model struct {
	ctx    context.Context
	env    view.Env
	sched  *view.ManualScheduler
	list   *view.ProjectListView
	title  string
	logger *log.Logger

	cursor int

	// form is the focused form, nil while moving between controls
	form   *view.Node
	fields []*view.Node
	inputs []textinput.Model
	field  int

	status string
	failed bool

	listKeys listKeys
	formKeys formKeys
	help     help.Model
}

// New mounts the project list view over state.
func New(ctx context.Context, state view.State, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	sched := view.NewManualScheduler()
	env := view.Env{
		State:           state,
		Dispatcher:      view.NewDispatcher(logger, opts.Metrics),
		Scheduler:       sched,
		RefreshInterval: opts.RefreshInterval,
	}
	list := view.NewProjectListView(env)
	list.Node()
	list.Mount()

	return &Model{
		ctx:      ctx,
		env:      env,
		sched:    sched,
		list:     list,
		title:    title,
		logger:   logger,
		listKeys: newListKeys(),
		formKeys: newFormKeys(),
		help:     help.New(),
	}
}

// Close unmounts the views and stops their timers.
func (m *Model) Close() {
	m.list.Destroy()
}

func (m *Model) Init() tea.Cmd {
	return tickCmd(tickInterval)
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.sched.Advance(tickInterval)
		return m, tickCmd(tickInterval)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *Model) controls() []*view.Node {
	return view.Controls(m.list.Node())
}

// selected returns the control under the cursor, or nil.
func (m *Model) selected() *view.Node {
	controls := m.controls()
	if len(controls) == 0 {
		return nil
	}
	m.cursor = clamp(m.cursor, len(controls))
	return controls[m.cursor]
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.listKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.listKeys.Up):
		m.cursor = clamp(m.cursor-1, len(m.controls()))
	case key.Matches(msg, m.listKeys.Down):
		m.cursor = clamp(m.cursor+1, len(m.controls()))
	case key.Matches(msg, m.listKeys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.listKeys.Activate):
		return m, m.activate(m.selected())
	}
	return m, nil
}

// activate clicks a control. The submit button of a form focuses the form
// so its fields can be edited first.
func (m *Model) activate(control *view.Node) tea.Cmd {
	if control == nil {
		return nil
	}
	if control.Attr("type") == "submit" {
		if form := view.EnclosingForm(control); form != nil {
			return m.focusForm(form)
		}
	}
	return m.dispatch(view.EventFor(control))
}

func (m *Model) dispatch(ev view.Event) tea.Cmd {
	node, err := m.env.Dispatcher.Dispatch(m.ctx, ev)
	m.report(err)

	target := opens[ev.Action]
	if validation.IsValidationError(err) {
		target = ev.Action
	}
	if target != "" && node != nil {
		form := node.Find(func(n *view.Node) bool {
			return n.Tag == "form" && n.Attr("data-action") == target
		})
		if form != nil {
			return m.focusForm(form)
		}
	}

	m.blurForm()
	m.cursor = clamp(m.cursor, len(m.controls()))
	return nil
}

func (m *Model) report(err error) {
	switch {
	case err == nil:
		m.status, m.failed = "", false
	case validation.IsValidationError(err):
		m.status, m.failed = "Please correct the highlighted fields", true
	default:
		m.status, m.failed = errors.GetUserMessage(err), true
		if errors.ShouldLogError(err) {
			m.logger.Error("action failed", "err", err)
		}
	}
}

// focusForm gives one text input to every field of form, starting at the
// first field with an error.
func (m *Model) focusForm(form *view.Node) tea.Cmd {
	m.form = form
	m.fields = form.FindAll(view.Field)
	m.inputs = make([]textinput.Model, len(m.fields))
	m.field = 0

	first := -1
	for i, f := range m.fields {
		ti := textinput.New()
		ti.Prompt = f.Attr("name") + ": "
		ti.CharLimit = 256
		ti.SetValue(view.FieldValue(f))
		switch f.Attr("name") {
		case validation.FieldDueDate:
			ti.Placeholder = "YYYY-MM-DD"
		case validation.FieldPriority:
			names := make([]string, 0, len(domain.Priorities))
			for _, p := range domain.Priorities {
				names = append(names, p.String())
			}
			ti.Placeholder = strings.Join(names, "|")
		}
		m.inputs[i] = ti

		if first < 0 && f.HasClass("input-error") {
			first = i
		}
	}
	if first < 0 {
		first = 0
	}
	return m.focusField(first)
}

func (m *Model) focusField(i int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	m.inputs[m.field].Blur()
	m.field = (i + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.field].Focus()
}

func (m *Model) blurForm() {
	m.form, m.fields, m.inputs, m.field = nil, nil, nil, 0
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.formKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.formKeys.Cancel):
		return m, m.cancelForm()
	case key.Matches(msg, m.formKeys.Submit):
		return m, m.submitForm()
	case key.Matches(msg, m.formKeys.Next):
		return m, m.focusField(m.field + 1)
	case key.Matches(msg, m.formKeys.Prev):
		return m, m.focusField(m.field - 1)
	}

	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.field], cmd = m.inputs[m.field].Update(msg)
	return m, cmd
}

func (m *Model) submitForm() tea.Cmd {
	ev := view.EventFor(m.form)
	ev.Form = make(map[string]string, len(m.fields))
	for i, f := range m.fields {
		ev.Form[f.Attr("name")] = m.inputs[i].Value()
	}
	m.blurForm()
	return m.dispatch(ev)
}

// cancelForm clicks the cancel button of the focused form.
func (m *Model) cancelForm() tea.Cmd {
	cancel := m.form.Find(func(n *view.Node) bool {
		return n.Tag == "button" && n.Attr("data-action") != ""
	})
	m.blurForm()
	if cancel == nil {
		return nil
	}
	return m.dispatch(view.EventFor(cancel))
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	var selected *view.Node
	if m.form == nil {
		selected = m.selected()
	}
	b.WriteString(view.RenderTextFunc(m.list.Node(), func(n *view.Node, token string) string {
		return m.decorate(n, token, selected)
	}))
	b.WriteString("\n\n")

	if m.status != "" {
		style := statusStyle
		if m.failed {
			style = failureStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	if m.form != nil {
		b.WriteString(m.help.View(m.formKeys))
	} else {
		b.WriteString(m.help.View(m.listKeys))
	}
	return b.String()
}

func (m *Model) decorate(n *view.Node, token string, selected *view.Node) string {
	for i, f := range m.fields {
		if f == n {
			return m.inputs[i].View()
		}
	}
	if n == selected {
		return selectedStyle.Render(token)
	}
	if style, ok := styleFor(n); ok {
		return style.Render(token)
	}
	return token
}
