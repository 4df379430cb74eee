package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"squiggles/internal/controller"
	"squiggles/internal/settings"
	"squiggles/internal/squiggle"
)

// Services aggregates the dependencies the TUI needs. The CLI wires the real
// controller and settings file; tests pass fakes.
type Services struct {
	Squiggles Squiggles
	Options   OptionStore
	Watch     SettingsWatch
	Status    *StatusLine

	// SettingsPath is shown in the info section only.
	SettingsPath string
}

// Squiggles is the controller surface the dashboard drives.
type Squiggles interface {
	Toggle(ctx context.Context) (controller.Outcome, error)
	Activate(ctx context.Context) error
	Deactivate(ctx context.Context) error
	Refresh(ctx context.Context) (squiggle.State, error)
}

// OptionStore reads and writes the invisibleSquiggles.* switches.
type OptionStore interface {
	Options(ctx context.Context) (settings.Options, error)
	SetOption(ctx context.Context, name string, v bool) error
}

// SettingsWatch emits a signal whenever settings.json changes on disk.
type SettingsWatch interface {
	Changes(ctx context.Context) <-chan struct{}
}

// row is one checkbox line of the dashboard.
type row struct {
	label  string
	option string
	get    func(settings.Options) bool
}

func rows() []row {
	var out []row
	for _, c := range squiggle.Categories() {
		c := c
		out = append(out, row{
			label:  "Hide " + strings.ToLower(string(c)) + " squiggles",
			option: settings.OptionFor(c),
			get:    func(o settings.Options) bool { return o.Toggles.Enabled(c) },
		})
	}
	return append(out,
		row{label: "Start hidden", option: settings.OptStartHidden, get: func(o settings.Options) bool { return o.StartHidden }},
		row{label: "Show status messages", option: settings.OptShowMessage, get: func(o settings.Options) bool { return o.ShowStatusMessage }},
	)
}

// Run activates squiggle management, shows the dashboard until the user quits
// and deactivates on the way out.
func Run(ctx context.Context, svcs Services, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var changes <-chan struct{}
	if svcs.Watch != nil {
		changes = svcs.Watch.Changes(ctx)
	}
	p := tea.NewProgram(NewAppModel(ctx, svcs, changes), append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)
	m, err := p.Run()
	if err != nil {
		return err
	}
	if am, ok := m.(appModel); ok && am.fatal != nil {
		return am.fatal
	}
	return nil
}

// NewAppModel builds the dashboard. changes may be nil.
func NewAppModel(ctx context.Context, svcs Services, changes <-chan struct{}) tea.Model {
	if svcs.Status == nil {
		svcs.Status = NewStatusLine()
	}
	return appModel{
		ctx:     ctx,
		svcs:    svcs,
		changes: changes,
		rows:    rows(),
		keys:    defaultKeyMap(),
		help:    help.New(),
		busy:    true, // Init starts with Activate
	}
}

type appModel struct {
	ctx     context.Context
	svcs    Services
	changes <-chan struct{}

	keys keyMap
	help help.Model
	rows []row

	width  int
	height int

	cursor   int
	opts     settings.Options
	state    squiggle.State
	loaded   bool
	busy     bool
	quitting bool
	// pendingQuit defers the restore until the running write has finished,
	// so a hide can never land after it
	pendingQuit bool

	flash    string
	flashErr bool
	err      error
	// fatal is returned from Run, set when the restore on quit fails
	fatal error
}

// ---------- Commands / messages ----------

type fsChangeMsg struct{}

type loadedMsg struct {
	opts  settings.Options
	state squiggle.State
	err   error
}

type opDoneMsg struct {
	what string
	err  error
}

type deactivatedMsg struct{ err error }

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.activate(), waitChange(m.changes))
}

func (m appModel) activate() tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{what: "activate", err: m.svcs.Squiggles.Activate(m.ctx)}
	}
}

func (m appModel) toggle() tea.Cmd {
	return func() tea.Msg {
		_, err := m.svcs.Squiggles.Toggle(m.ctx)
		return opDoneMsg{what: "toggle", err: err}
	}
}

func (m appModel) restore() tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{what: "restore", err: m.svcs.Squiggles.Deactivate(m.ctx)}
	}
}

func (m appModel) setOption(name string, v bool) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{what: "set " + name, err: m.svcs.Options.SetOption(m.ctx, name, v)}
	}
}

func (m appModel) deactivate() tea.Cmd {
	return func() tea.Msg {
		return deactivatedMsg{err: m.svcs.Squiggles.Deactivate(context.WithoutCancel(m.ctx))}
	}
}

func (m appModel) load() tea.Cmd {
	return func() tea.Msg {
		o, err := m.svcs.Options.Options(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		st, err := m.svcs.Squiggles.Refresh(m.ctx)
		return loadedMsg{opts: o, state: st, err: err}
	}
}

// waitChange blocks until the watcher fires once. It is re-issued after each
// change; a closed channel ends the loop.
func waitChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return fsChangeMsg{}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case fsChangeMsg:
		return m, tea.Batch(m.load(), waitChange(m.changes))

	case loadedMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.opts = msg.opts
			m.state = msg.state
		}
		return m, nil

	case opDoneMsg:
		m.busy = false
		if m.pendingQuit {
			m.pendingQuit = false
			return m, m.deactivate()
		}
		if note, isErr := m.svcs.Status.TakeMessage(); note != "" {
			m.flash, m.flashErr = note, isErr
		}
		if msg.err != nil {
			m.flash, m.flashErr = fmt.Sprintf("%s: %v", msg.what, msg.err), true
		}
		return m, m.load()

	case deactivatedMsg:
		m.fatal = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if m.busy {
			m.pendingQuit = true
			return m, nil
		}
		return m, m.deactivate()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil
	}

	// everything below writes settings; one at a time
	if m.busy || !m.loaded {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.busy = true
		return m, m.toggle()
	case key.Matches(msg, m.keys.Flip):
		r := m.rows[m.cursor]
		m.busy = true
		return m, m.setOption(r.option, !r.get(m.opts))
	case key.Matches(msg, m.keys.Restore):
		m.busy = true
		return m, m.restore()
	}
	return m, nil
}

func (m appModel) View() string {
	if m.quitting {
		return "Restoring squiggles…\n"
	}
	width := m.width
	if width <= 0 {
		width = 60
	}

	text, _ := m.svcs.Status.Snapshot()
	header := renderBar(text, text != squiggle.TextHidden, width)

	var body string
	switch {
	case !m.loaded:
		body = "Loading…"
	case m.err != nil:
		body = renderFlash(m.err.Error(), true)
	default:
		on := func(r row) bool { return r.get(m.opts) }
		body = renderOptions(m.rows, on, m.cursor) + "\n\n" +
			renderFacts([][2]string{
				{"state", m.state.String()},
				{"file", m.svcs.SettingsPath},
			})
	}

	return header + "\n\n" + body + "\n\n" + renderFlash(m.flash, m.flashErr) + "\n" + m.help.View(m.keys)
}
