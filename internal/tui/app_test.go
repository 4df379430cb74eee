package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"squiggles/internal/controller"
	"squiggles/internal/settings"
	"squiggles/internal/squiggle"
)

type testRig struct {
	file   *settings.File
	status *StatusLine
	model  appModel
}

func newRig(t *testing.T) *testRig {
	t.Helper()
	f := &settings.File{Path: filepath.Join(t.TempDir(), "settings.json")}
	ctx := context.Background()
	if err := f.UpdateCustomizations(ctx, squiggle.Customizations{"editorError.background": "#ff0000"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	status := NewStatusLine()
	c := controller.New(f, controller.WithIndicator(status), controller.WithNotifier(status))
	m := NewAppModel(ctx, Services{Squiggles: c, Options: f, Status: status, SettingsPath: f.Path}, nil).(appModel)
	return &testRig{file: f, status: status, model: m}
}

// run executes cmd and feeds every resulting message back into the model
// until no commands remain. It reports whether tea.Quit was reached.
func (r *testRig) run(t *testing.T, cmd tea.Cmd) bool {
	t.Helper()
	queue := []tea.Cmd{cmd}
	quit := false
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.QuitMsg:
			quit = true
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			next, nc := r.model.Update(msg)
			r.model = next.(appModel)
			queue = append(queue, nc)
		}
	}
	return quit
}

func (r *testRig) press(t *testing.T, k tea.KeyMsg) bool {
	t.Helper()
	next, cmd := r.model.Update(k)
	r.model = next.(appModel)
	return r.run(t, cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

func (r *testRig) customizations(t *testing.T) squiggle.Customizations {
	t.Helper()
	cur, err := r.file.Customizations(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return cur
}

func TestApp_ActivateLoadsDashboard(t *testing.T) {
	r := newRig(t)
	r.run(t, r.model.activate())

	if !r.model.loaded {
		t.Fatalf("expected dashboard to be loaded")
	}
	if r.model.state != squiggle.Visible {
		t.Fatalf("state = %v, want Visible", r.model.state)
	}
	view := r.model.View()
	for _, want := range []string{squiggle.TextVisible, "[x] Hide error squiggles", "[ ] Start hidden"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestApp_SpaceTogglesAndShowsMessage(t *testing.T) {
	r := newRig(t)
	r.run(t, r.model.activate())

	r.press(t, space)
	if r.model.state != squiggle.Hidden {
		t.Fatalf("state = %v, want Hidden", r.model.state)
	}
	if r.model.flash != squiggle.MessageHidden || r.model.flashErr {
		t.Fatalf("flash = %q (err=%v)", r.model.flash, r.model.flashErr)
	}
	if got := r.customizations(t)["editorError.background"]; got != squiggle.TransparentColor {
		t.Fatalf("error background = %v", got)
	}

	r.press(t, space)
	if r.model.state != squiggle.Visible {
		t.Fatalf("state = %v, want Visible", r.model.state)
	}
	if got := r.customizations(t)["editorError.background"]; got != "#ff0000" {
		t.Fatalf("error background = %v, want restored", got)
	}
}

func TestApp_FlipWritesOption(t *testing.T) {
	r := newRig(t)
	r.run(t, r.model.activate())

	// move to "Hide warning squiggles" and back down past the end
	r.press(t, runes("j"))
	r.press(t, tea.KeyMsg{Type: tea.KeyUp})
	r.press(t, tea.KeyMsg{Type: tea.KeyDown})
	if r.model.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", r.model.cursor)
	}
	r.press(t, runes("x"))

	o, err := r.file.Options(context.Background())
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if o.Toggles.Warnings {
		t.Fatalf("hideWarnings should be off after flip")
	}
	if !strings.Contains(r.model.View(), "[ ] Hide warning squiggles") {
		t.Fatalf("view not refreshed:\n%s", r.model.View())
	}

	for i := 0; i < 10; i++ {
		r.press(t, runes("j"))
	}
	if r.model.cursor != len(r.model.rows)-1 {
		t.Fatalf("cursor should clamp at last row, got %d", r.model.cursor)
	}
}

func TestApp_QuitRestores(t *testing.T) {
	r := newRig(t)
	r.run(t, r.model.activate())
	r.press(t, space)

	if quit := r.press(t, runes("q")); !quit {
		t.Fatalf("expected quit")
	}
	if r.model.fatal != nil {
		t.Fatalf("unexpected error: %v", r.model.fatal)
	}
	cur := r.customizations(t)
	if cur.Has(squiggle.MarkerKey) || cur["editorError.background"] != "#ff0000" {
		t.Fatalf("settings not restored on quit: %v", cur)
	}
}

func TestApp_IgnoresWritesWhileBusy(t *testing.T) {
	r := newRig(t)
	r.run(t, r.model.activate())

	next, cmd := r.model.Update(space)
	r.model = next.(appModel)
	if cmd == nil || !r.model.busy {
		t.Fatalf("expected a pending toggle")
	}
	if _, second := r.model.Update(space); second != nil {
		t.Fatalf("second toggle must be ignored while busy")
	}
}

func TestApp_ExternalChangeReloads(t *testing.T) {
	r := newRig(t)
	changes := make(chan struct{}, 1)
	r.model.changes = changes
	r.run(t, r.model.activate())

	if err := r.file.SetOption(context.Background(), settings.OptStartHidden, true); err != nil {
		t.Fatalf("SetOption: %v", err)
	}
	changes <- struct{}{}
	close(changes)
	r.run(t, waitChange(changes))

	if !r.model.opts.StartHidden {
		t.Fatalf("external edit was not picked up")
	}
}

type failingSquiggles struct{}

func (failingSquiggles) Toggle(context.Context) (controller.Outcome, error) {
	return controller.Outcome{}, errors.New("disk full")
}
func (failingSquiggles) Activate(context.Context) error   { return nil }
func (failingSquiggles) Deactivate(context.Context) error { return errors.New("read-only") }
func (failingSquiggles) Refresh(context.Context) (squiggle.State, error) {
	return squiggle.Visible, nil
}

func TestApp_ErrorsAreShown(t *testing.T) {
	r := newRig(t)
	r.model.svcs.Squiggles = failingSquiggles{}
	r.run(t, r.model.activate())

	r.press(t, space)
	if !r.model.flashErr || !strings.Contains(r.model.flash, "disk full") {
		t.Fatalf("flash = %q (err=%v)", r.model.flash, r.model.flashErr)
	}

	r.press(t, runes("q"))
	if r.model.fatal == nil {
		t.Fatalf("restore failure on quit should be reported")
	}
}

func TestStatusLine_TakeMessageClears(t *testing.T) {
	s := NewStatusLine()
	s.Error(squiggle.MessageFailed)
	msg, isErr := s.TakeMessage()
	if msg != squiggle.MessageFailed || !isErr {
		t.Fatalf("got %q %v", msg, isErr)
	}
	if msg, _ := s.TakeMessage(); msg != "" {
		t.Fatalf("message should be consumed, got %q", msg)
	}
	squiggle.SetStatus(s, false)
	if text, tip := s.Snapshot(); text != squiggle.TextHidden || tip != squiggle.TooltipHidden {
		t.Fatalf("snapshot = %q %q", text, tip)
	}
}

func TestApp_QuitWhileToggleRunningRestoresLast(t *testing.T) {
	r := newRig(t)
	r.run(t, r.model.activate())

	next, hide := r.model.Update(space)
	r.model = next.(appModel)
	if hide == nil {
		t.Fatalf("expected a toggle command")
	}

	// quit arrives before the hide has been written
	next, cmd := r.model.Update(runes("q"))
	r.model = next.(appModel)
	if cmd != nil {
		t.Fatalf("restore must wait for the running toggle")
	}
	if !r.model.quitting {
		t.Fatalf("expected quitting state")
	}

	if quit := r.run(t, hide); !quit {
		t.Fatalf("expected quit once the toggle finished")
	}
	cur := r.customizations(t)
	if cur.Has(squiggle.MarkerKey) || cur["editorError.background"] != "#ff0000" {
		t.Fatalf("settings left hidden after quit: %v", cur)
	}
}

func TestApp_QuitDuringStartupHideRestores(t *testing.T) {
	r := newRig(t)
	if err := r.file.SetOption(context.Background(), settings.OptStartHidden, true); err != nil {
		t.Fatalf("SetOption: %v", err)
	}

	next, cmd := r.model.Update(runes("q"))
	r.model = next.(appModel)
	if cmd != nil {
		t.Fatalf("restore must wait for activation")
	}
	if quit := r.run(t, r.model.activate()); !quit {
		t.Fatalf("expected quit after activation")
	}
	if cur := r.customizations(t); cur.Has(squiggle.MarkerKey) {
		t.Fatalf("startup hide survived quit: %v", cur)
	}
}

func TestApp_RestoreKey(t *testing.T) {
	r := newRig(t)
	r.run(t, r.model.activate())
	r.press(t, space)
	if r.model.state != squiggle.Hidden {
		t.Fatalf("state = %v, want Hidden", r.model.state)
	}

	r.press(t, runes("r"))
	if r.model.state != squiggle.Visible {
		t.Fatalf("state = %v, want Visible after restore", r.model.state)
	}
	if got := r.customizations(t)["editorError.background"]; got != "#ff0000" {
		t.Fatalf("error background = %v, want restored", got)
	}
}
