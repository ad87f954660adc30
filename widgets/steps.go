package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-mnml/theme"
)

// RenderPad renders a single colored cell
func RenderPad(color theme.RGB, r rune) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color.Hex())).Render(string(r))
}

// StepRow renders one track. pitches holds a scale degree per step, -1 for
// a rest. Steps in playheads are the current steps of the track's voices.
// cursor is the edit cursor, -1 for none.
func StepRow(th *theme.Theme, pitches []int, playheads map[int]bool, cursor int) string {
	var out strings.Builder
	for i, p := range pitches {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderPad(th.StepRGB(p, playheads[i]), stepRune(th.Symbols, p, playheads[i], i == cursor)))
	}
	return out.String()
}

func stepRune(sym theme.Symbols, pitch int, playhead, cursor bool) rune {
	rest := pitch < 0
	switch {
	case cursor && rest:
		return sym.CursorRest
	case cursor:
		return sym.CursorNote
	case playhead && rest:
		return sym.StepPlayhead
	case playhead:
		return sym.StepPlaying
	case rest:
		return sym.StepRest
	}
	return sym.StepNote
}

// ProgressBar renders frac of width cells filled followed by a percentage.
// When ok is false the cycle position is unknown and the bar is drawn empty
// with "--".
func ProgressBar(th *theme.Theme, width int, frac float64, ok bool) string {
	if width < 1 {
		width = 1
	}
	filled := 0
	label := " --"
	if ok {
		frac = max(0, min(1, frac))
		filled = int(frac*float64(width) + 0.5)
		label = fmt.Sprintf("%3.0f%%", frac*100)
	}
	full := lipgloss.NewStyle().Foreground(th.Accent()).Render(strings.Repeat(string(th.Symbols.BarFull), filled))
	empty := lipgloss.NewStyle().Foreground(th.Muted()).Render(strings.Repeat(string(th.Symbols.BarEmpty), width-filled))
	return full + empty + " " + label
}
