package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"go-mnml/midi"
	"go-mnml/sequencer"
	"go-mnml/theme"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	opts := sequencer.DefaultOptions()
	opts.Tempos = []int{1, 1, 1}
	opts.Seed = 7
	e, err := sequencer.NewEngine(opts, midi.NewRecorder())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Stop)
	return NewModel(e, midi.NewDeviceManager(midi.NewOutput()), theme.New(nil))
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestPlayPauseStop(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "p")
	if m.Engine.State() != sequencer.Playing {
		t.Fatalf("state %v after p", m.Engine.State())
	}
	m = press(m, "p")
	if m.Engine.State() != sequencer.Paused {
		t.Fatalf("state %v after second p", m.Engine.State())
	}
	m = press(m, ".")
	if m.Engine.State() != sequencer.Stopped {
		t.Fatalf("state %v after stop", m.Engine.State())
	}
}

func TestEditAtCursor(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "j", "l", "l", "3")
	tr := m.Engine.Tracks()[1]
	if got := tr.Step(2); got != 2 {
		t.Fatalf("step = %v, want degree 2", got)
	}
	m = press(m, "x")
	if !tr.Step(2).IsRest() {
		t.Fatal("x did not rest the step")
	}
	m = press(m, " ")
	if got := tr.Step(2); got != 2 {
		t.Fatalf("space placed %v, want the last selected degree", got)
	}
}

func TestCursorWraps(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "h")
	if m.step != 7 {
		t.Fatalf("step = %d, want last step of the 8-step track", m.step)
	}
	m = press(m, "k")
	if m.track != 4 || m.step != 7 {
		t.Fatalf("cursor = %d,%d", m.track, m.step)
	}
	m.step = 18
	m = press(m, "j")
	if m.track != 0 || m.step != 7 {
		t.Fatalf("cursor not clamped to shorter track: %d,%d", m.track, m.step)
	}
}

func TestActiveVoiceKeys(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "]", "]", "]")
	if got := m.Engine.ActiveVoices(); got != 3 {
		t.Fatalf("active voices = %d", got)
	}
	m = press(m, "[", "[", "[")
	if got := m.Engine.ActiveVoices(); got != 1 {
		t.Fatalf("active voices = %d", got)
	}
}

func TestScaleKey(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "tab")
	if m.Engine.Scale().Name != "SUSPENDED" {
		t.Fatalf("scale = %s", m.Engine.Scale().Name)
	}
	if !strings.Contains(m.status, "SUSPENDED") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "p")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if next.(Model).Engine.State() != sequencer.Stopped {
		t.Fatal("quit should stop the engine")
	}
	if next.View() != "" {
		t.Fatal("view after quit should be empty")
	}
}

func TestView(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "p")
	v := m.View()
	for _, want := range []string{"PLAY", "MAJOR", "voices:1/3", "1bpm", "quit"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPortEvents(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(PortEventMsg{Type: midi.PortAdded, Name: "IAC Bus 1"})
	if cmd == nil {
		t.Fatal("expected re-listen command")
	}
	if got := next.(Model).status; got != "port added: IAC Bus 1" {
		t.Fatalf("status = %q", got)
	}
	m = press(next.(Model), "o")
	if m.status != "no MIDI outputs" {
		t.Fatalf("status = %q", m.status)
	}
}
