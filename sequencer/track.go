package sequencer

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
)

// Step is one pattern cell: a pitch selection 0..NumPitches-1, or Rest.
type Step int8

// Rest is a silent step. Passed to Toggle it clears the step.
const Rest Step = -1

// IsRest reports whether the step is silent.
func (s Step) IsRest() bool {
	return s == Rest
}

func (s Step) valid() bool {
	return s == Rest || (s >= 0 && s < NumPitches)
}

func (s Step) String() string {
	if s == Rest {
		return "-"
	}
	return fmt.Sprintf("%d", int(s))
}

// Track owns a fixed-length pattern and the voices that play it.
// All voices of a track read the same pattern.
type Track struct {
	mu      sync.RWMutex
	pattern []Step
	octave  int
	program int
	voices  []*Voice
}

// NewTrack creates a track of the given length with every step at rest.
func NewTrack(length, octave, program int) *Track {
	if length < 1 {
		panic(fmt.Sprintf("sequencer: track length %d, must be at least 1", length))
	}
	t := &Track{
		pattern: make([]Step, length),
		octave:  octave,
		program: program,
	}
	for i := range t.pattern {
		t.pattern[i] = Rest
	}
	return t
}

// Len returns the pattern length. It never changes.
func (t *Track) Len() int {
	return len(t.pattern)
}

// Step returns the value at index i.
func (t *Track) Step(i int) Step {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pattern[i]
}

// Pattern returns a copy of the pattern.
func (t *Track) Pattern() []Step {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Step, len(t.pattern))
	copy(out, t.pattern)
	return out
}

// Toggle sets step i to sel, or to Rest if it already holds sel or sel is
// Rest. i must be a valid index and sel a valid selection.
func (t *Track) Toggle(i int, sel Step) {
	if i < 0 || i >= len(t.pattern) {
		panic(fmt.Sprintf("sequencer: step %d out of range 0..%d", i, len(t.pattern)-1))
	}
	if !sel.valid() {
		panic(fmt.Sprintf("sequencer: invalid pitch selection %d", sel))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pattern[i] == sel || sel == Rest {
		t.pattern[i] = Rest
	} else {
		t.pattern[i] = sel
	}
}

// Clear sets every step to Rest.
func (t *Track) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.pattern {
		t.pattern[i] = Rest
	}
}

// RandomFill draws every step independently: n = round(U*6) with U uniform
// in [0,1); n < 5 selects pitch n, anything else rests. That gives pitch 0
// 1/12, pitches 1-4 1/6 each, and rest 1/4.
func (t *Track) RandomFill(rng *rand.Rand) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.pattern {
		n := int(math.Round(rng.Float64() * 6))
		if n < NumPitches {
			t.pattern[i] = Step(n)
		} else {
			t.pattern[i] = Rest
		}
	}
}

// Octave returns the track's octave.
func (t *Track) Octave() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.octave
}

// SetOctave moves the base pitch. Sounding notes are not retuned.
func (t *Track) SetOctave(octave int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.octave = octave
}

// BasePitch is the MIDI note of scale degree 0.
func (t *Track) BasePitch() int {
	return t.Octave() * 12
}

// Program returns the output program.
func (t *Track) Program() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.program
}

// SetProgram stores the program and sends it on every voice channel.
func (t *Track) SetProgram(program int) {
	t.mu.Lock()
	t.program = program
	voices := append([]*Voice(nil), t.voices...)
	t.mu.Unlock()
	for _, v := range voices {
		v.channel.SendProgramChange(program)
	}
}

// Voices returns the track's voices in slot order.
func (t *Track) Voices() []*Voice {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]*Voice(nil), t.voices...)
}

func (t *Track) registerVoice(v *Voice) {
	t.mu.Lock()
	t.voices = append(t.voices, v)
	program := t.program
	t.mu.Unlock()
	v.channel.SendProgramChange(program)
}
