package sequencer

import (
	"sync"

	"go-mnml/debug"
	"go-mnml/midi"
)

// VoiceState is the playback state of a voice
type VoiceState int

const (
	VoiceStopped VoiceState = iota
	VoiceActive
	VoiceStopping // active, stops when the pattern wraps to step 0
)

func (s VoiceState) String() string {
	switch s {
	case VoiceStopped:
		return "stopped"
	case VoiceActive:
		return "active"
	case VoiceStopping:
		return "stopping"
	}
	return "unknown"
}

// Voice is a playback cursor over its track's pattern, sending to one
// output channel. It is ticked by exactly one Ticker.
type Voice struct {
	track   *Track
	channel midi.Channel
	number  int // 1-based MIDI channel
	slot    int // index of the driving ticker
	scale   func() Scale

	mu             sync.Mutex
	cursor         int
	active         bool
	stopAtBoundary bool
}

// NewVoice creates a stopped voice at cursor 0. The voice is registered
// with its track; scale is consulted on every sounding tick.
func NewVoice(track *Track, channel midi.Channel, number, slot int, scale func() Scale) *Voice {
	v := &Voice{
		track:   track,
		channel: channel,
		number:  number,
		slot:    slot,
		scale:   scale,
	}
	track.registerVoice(v)
	return v
}

// Start makes the voice active and cancels a pending boundary stop.
// The cursor is kept.
func (v *Voice) Start() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.active = true
	v.stopAtBoundary = false
}

// Stop deactivates immediately, rewinds to step 0 and silences the channel.
func (v *Voice) Stop() {
	v.mu.Lock()
	v.active = false
	v.stopAtBoundary = false
	v.cursor = 0
	v.mu.Unlock()
	v.channel.SendAllNotesOff()
}

// End asks an active voice to stop when its pattern completes a cycle.
func (v *Voice) End() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.active {
		v.stopAtBoundary = true
	}
}

// Restart rewinds to step 0 without touching the playback state.
func (v *Voice) Restart() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cursor = 0
}

// Tick advances the cursor, then sounds the step under it. The first tick
// after Start therefore plays step 1; step 0 is the resting position.
// The channel is written after the voice lock is released.
func (v *Voice) Tick() {
	v.mu.Lock()
	if !v.active {
		v.mu.Unlock()
		return
	}

	v.cursor = (v.cursor + 1) % v.track.Len()
	if v.stopAtBoundary && v.cursor == 0 {
		v.active = false
		v.stopAtBoundary = false
		v.mu.Unlock()
		debug.Log("voice", "ch=%d stopped at boundary", v.number)
		return
	}
	step := v.track.Step(v.cursor)
	v.mu.Unlock()

	if step.IsRest() {
		v.channel.SendAllNotesOff()
		return
	}
	v.channel.PlayNote(v.track.BasePitch() + v.scale().Interval(step))
}

// Phase returns the cursor, the pattern length and whether the voice is active.
func (v *Voice) Phase() (cursor, length int, active bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cursor, v.track.Len(), v.active
}

// Cursor returns the current step index.
func (v *Voice) Cursor() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cursor
}

// Active reports whether the voice advances on ticks.
func (v *Voice) Active() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active
}

// State returns the state machine position.
func (v *Voice) State() VoiceState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

func (v *Voice) stateLocked() VoiceState {
	switch {
	case !v.active:
		return VoiceStopped
	case v.stopAtBoundary:
		return VoiceStopping
	}
	return VoiceActive
}

func (v *Voice) snapshot() VoiceSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return VoiceSnapshot{
		Channel: v.number,
		Ticker:  v.slot,
		Cursor:  v.cursor,
		State:   v.stateLocked(),
	}
}

// Track returns the owning track.
func (v *Voice) Track() *Track {
	return v.track
}

// Channel returns the 1-based MIDI channel number.
func (v *Voice) Channel() int {
	return v.number
}

// Slot returns the index of the ticker driving this voice.
func (v *Voice) Slot() int {
	return v.slot
}
