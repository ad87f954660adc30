package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
	Pitches [5]RGB // one color per scale degree
}

type Symbols struct {
	StepRest     rune // · rest
	StepNote     rune // ● note
	StepPlayhead rune // ▶ current step of a voice, no note
	StepPlaying  rune // ◆ current step of a voice, note sounding

	CursorRest rune // ○ edit cursor on a rest
	CursorNote rune // ◉ edit cursor on a note

	BarFull  rune // █
	BarEmpty rune // ░
}

// PitchColors are the scale degree colors, lowest degree first.
var PitchColors = [5]RGB{
	{0x33, 0x33, 0x33},
	{0xc7, 0x16, 0x2b},
	{0xf9, 0x9b, 0x11},
	{0x0e, 0x84, 0x20},
	{0x24, 0x59, 0x8f},
}

var (
	restColor     = RGB{0xdc, 0xdc, 0xdc}
	playheadColor = RGB{0x50, 0x50, 0x50}
)

// New creates a theme over palette, or the built-in one when nil.
func New(palette *Palette) *Theme {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Theme{
		Palette: palette,
		Pitches: PitchColors,
		Symbols: Symbols{
			StepRest:     '·',
			StepNote:     '●',
			StepPlayhead: '▶',
			StepPlaying:  '◆',

			CursorRest: '○',
			CursorNote: '◉',

			BarFull:  '█',
			BarEmpty: '░',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG     = 0.0
	RoleMuted  = 0.35
	RoleFG     = 0.8
	RoleAccent = 1.0
)

func (t *Theme) BG() lipgloss.Color {
	return t.Color(RoleBG)
}

func (t *Theme) FG() lipgloss.Color {
	return t.Color(RoleFG)
}

func (t *Theme) Accent() lipgloss.Color {
	return t.Color(RoleAccent)
}

func (t *Theme) Muted() lipgloss.Color {
	return t.Color(RoleMuted)
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return lipgloss.Color(t.Palette.Lookup(norm).Hex())
}

// StepRGB is the color of a step. pitch < 0 is a rest. Steps away from the
// playhead are drawn at half strength against the background.
func (t *Theme) StepRGB(pitch int, playhead bool) RGB {
	switch {
	case pitch < 0 && playhead:
		return playheadColor
	case pitch < 0:
		return restColor
	case pitch >= len(t.Pitches):
		return t.Palette.Lookup(RoleFG)
	case playhead:
		return t.Pitches[pitch]
	}
	return Blend(t.Pitches[pitch], t.Palette.Lookup(RoleBG), 0.5)
}

// StepColor is StepRGB as a lipgloss color.
func (t *Theme) StepColor(pitch int, playhead bool) lipgloss.Color {
	return lipgloss.Color(t.StepRGB(pitch, playhead).Hex())
}
