package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-mnml/debug"
	"go-mnml/midi"
	"go-mnml/sequencer"
	"go-mnml/theme"
	"go-mnml/widgets"
)

const barWidth = 24

type Model struct {
	Engine    *sequencer.Engine
	DeviceMgr *midi.DeviceManager
	Theme     *theme.Theme

	track    int // edit cursor
	step     int
	pitch    sequencer.Step // last selected degree, used by space
	status   string
	quitting bool
}

type UpdateMsg struct{}

type PortEventMsg midi.PortEvent

func NewModel(engine *sequencer.Engine, deviceMgr *midi.DeviceManager, th *theme.Theme) Model {
	return Model{
		Engine:    engine,
		DeviceMgr: deviceMgr,
		Theme:     th,
	}
}

func ListenForUpdates(engine *sequencer.Engine) tea.Cmd {
	return func() tea.Msg {
		<-engine.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForPorts(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return PortEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Engine),
		ListenForPorts(m.DeviceMgr),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case UpdateMsg:
		return m, ListenForUpdates(m.Engine)

	case PortEventMsg:
		switch msg.Type {
		case midi.PortAdded:
			m.status = "port added: " + msg.Name
		case midi.PortRemoved:
			m.status = "port removed: " + msg.Name
		}
		return m, ListenForPorts(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	e := m.Engine
	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		e.Stop()
		return m, tea.Quit

	case "p", "enter":
		if e.State() == sequencer.Playing {
			e.Pause()
		} else {
			e.Start()
		}

	case ".":
		e.Stop()

	case "r":
		e.Restart()

	case "c":
		e.Clear()

	case "R":
		e.RandomFill()

	case "tab":
		m.status = "scale: " + e.CycleScale().Name

	case "[":
		e.SetActiveVoices(e.ActiveVoices() - 1)

	case "]":
		e.SetActiveVoices(e.ActiveVoices() + 1)

	case "o":
		m.cyclePort()

	case "h", "left":
		m.moveStep(-1)
	case "l", "right":
		m.moveStep(1)
	case "k", "up":
		m.moveTrack(-1)
	case "j", "down":
		m.moveTrack(1)

	case "1", "2", "3", "4", "5":
		m.pitch = sequencer.Step(key[0] - '1')
		e.ToggleNote(m.track, m.step, m.pitch)

	case " ", "space":
		e.ToggleNote(m.track, m.step, m.pitch)

	case "x", "backspace":
		// toggling the step's own degree rests it
		if s := e.Tracks()[m.track].Step(m.step); !s.IsRest() {
			e.ToggleNote(m.track, m.step, s)
		}
	}
	return m, nil
}

func (m *Model) moveStep(d int) {
	n := m.Engine.Tracks()[m.track].Len()
	m.step = (m.step + d + n) % n
}

func (m *Model) moveTrack(d int) {
	tracks := m.Engine.Tracks()
	m.track = (m.track + d + len(tracks)) % len(tracks)
	if n := tracks[m.track].Len(); m.step >= n {
		m.step = n - 1
	}
}

// cyclePort prefers the next visible output port
func (m *Model) cyclePort() {
	ports := m.DeviceMgr.Ports()
	if len(ports) == 0 {
		m.status = "no MIDI outputs"
		return
	}
	next := 0
	for i, p := range ports {
		if p == m.DeviceMgr.Preferred() {
			next = (i + 1) % len(ports)
		}
	}
	m.DeviceMgr.SetPreferred(ports[next])
	m.status = "output: " + ports[next]
	debug.Log("tui", "preferred output %s", ports[next])
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.Engine.Snapshot()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	labelStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())

	port := m.DeviceMgr.Preferred()
	if port == "" {
		port = "-"
	}
	header := headerStyle.Render(fmt.Sprintf("mnml  %s  %s  voices:%d/%d  out:%s (%s)",
		snap.State, snap.Scale.Name, snap.ActiveVoices, len(snap.Tickers), port, m.DeviceMgr.State()))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")

	for i, tr := range snap.Tracks {
		pitches := make([]int, len(tr.Pattern))
		for j, s := range tr.Pattern {
			pitches[j] = int(s)
		}
		playheads := make(map[int]bool)
		for _, v := range tr.Voices {
			if v.Active() {
				playheads[v.Cursor] = true
			}
		}
		cursor := -1
		if i == m.track {
			cursor = m.step
		}
		out.WriteString(labelStyle.Render(fmt.Sprintf("%d o%d %2d ", i+1, tr.Octave, len(tr.Pattern))))
		out.WriteString(widgets.StepRow(m.Theme, pitches, playheads, cursor))
		out.WriteString("\n")
	}
	out.WriteString("\n")

	for _, tk := range snap.Tickers {
		frac, ok := tk.Metrics.Progress()
		out.WriteString(labelStyle.Render(fmt.Sprintf("%3dbpm ", tk.BPM)))
		out.WriteString(widgets.ProgressBar(m.Theme, barWidth, frac, ok))
		if tk.Metrics.Length > 0 {
			out.WriteString(dimStyle.Render(fmt.Sprintf("  cycle %d", tk.Metrics.Length)))
		}
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render(widgets.RenderKeyLine([]widgets.KeyBinding{
		{Key: "hjkl", Desc: "move"},
		{Key: "1-5", Desc: "note"},
		{Key: "space", Desc: "toggle"},
		{Key: "x", Desc: "rest"},
		{Key: "p", Desc: "play/pause"},
		{Key: ".", Desc: "stop"},
		{Key: "r", Desc: "restart"},
		{Key: "c/R", Desc: "clear/random"},
		{Key: "tab", Desc: "scale"},
		{Key: "[ ]", Desc: "voices"},
		{Key: "o", Desc: "output"},
		{Key: "q", Desc: "quit"},
	})))

	if m.status != "" {
		out.WriteString("\n")
		out.WriteString(dimStyle.Render(m.status))
	}

	return out.String()
}
