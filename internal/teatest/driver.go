// Package teatest drives bubbletea models synchronously in tests.
//
// Update is called directly and every returned Cmd is run to completion
// before the next input, so assertions never race the model. Cmds that do
// not return within a few milliseconds (cursor blinks, tickers) are dropped.
package teatest

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxDepth bounds Cmd chains so a model that reschedules itself forever
// cannot hang a test.
const maxDepth = 100

const cmdTimeout = 10 * time.Millisecond

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// Driver owns a model and feeds it input.
type Driver struct {
	t        *testing.T
	model    tea.Model
	quitting bool
}

type Option func(*Driver)

// WithSize delivers a WindowSizeMsg before Init.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.model, _ = d.model.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// New wraps model, applies opts and runs the model's Init command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{t: t, model: model}
	for _, opt := range opts {
		opt(d)
	}
	d.run(d.model.Init(), 0)
	return d
}

// Model returns the current model for type assertions.
func (d *Driver) Model() tea.Model { return d.model }

// Quitting reports whether the model returned tea.Quit.
func (d *Driver) Quitting() bool { return d.quitting }

// Send delivers msg and runs the resulting Cmds. Input after quit is ignored.
func (d *Driver) Send(msg tea.Msg) {
	d.t.Helper()
	if d.quitting {
		return
	}
	var cmd tea.Cmd
	d.model, cmd = d.model.Update(msg)
	d.run(cmd, 0)
}

var namedKeys = map[string]tea.KeyType{
	"enter":  tea.KeyEnter,
	"esc":    tea.KeyEsc,
	"tab":    tea.KeyTab,
	"space":  tea.KeySpace,
	"up":     tea.KeyUp,
	"down":   tea.KeyDown,
	"left":   tea.KeyLeft,
	"right":  tea.KeyRight,
	"ctrl+c": tea.KeyCtrlC,
}

// Press sends one key by name ("enter", "space", "left", "ctrl+c") or, for
// any other string, each rune as a separate key press.
func (d *Driver) Press(keys ...string) {
	d.t.Helper()
	for _, k := range keys {
		if typ, ok := namedKeys[k]; ok {
			msg := tea.KeyMsg{Type: typ}
			if typ == tea.KeySpace {
				msg.Runes = []rune{' '}
			}
			d.Send(msg)
			continue
		}
		for _, r := range k {
			d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		}
	}
}

// View returns the rendered model with ANSI styling removed.
func (d *Driver) View() string {
	return ansiPattern.ReplaceAllString(d.model.View(), "")
}

// RequireView fails the test unless the view contains every fragment.
func (d *Driver) RequireView(fragments ...string) {
	d.t.Helper()
	view := d.View()
	for _, f := range fragments {
		if !strings.Contains(view, f) {
			d.t.Fatalf("view does not contain %q:\n%s", f, view)
		}
	}
}

func (d *Driver) run(cmd tea.Cmd, depth int) {
	if cmd == nil {
		return
	}
	if depth >= maxDepth {
		d.t.Logf("teatest: command chain deeper than %d, stopping", maxDepth)
		return
	}

	msg := await(cmd)
	switch m := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, c := range m {
			d.run(c, depth+1)
		}
		return
	case tea.QuitMsg:
		d.quitting = true
		d.model, _ = d.model.Update(m)
		return
	}
	if blink(msg) {
		return
	}

	var next tea.Cmd
	d.model, next = d.model.Update(msg)
	d.run(next, depth+1)
}

func await(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// blink matches the unexported cursor blink messages of bubbles/cursor.
func blink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
