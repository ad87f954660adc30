package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-mnml/debug"
)

// Channel control numbers
const (
	ccAllNotesOff uint8 = 123
)

// DefaultVelocity is used for every note-on.
const DefaultVelocity uint8 = 100

// Channel is the per-voice output capability. All methods are fire-and-forget:
// they never block on an unavailable destination and never return errors.
type Channel interface {
	PlayNote(pitch int)
	SendAllNotesOff()
	SendProgramChange(program int)
	SendControlChange(controller, value int)
}

// Destination hands out channels by 1-based MIDI channel number (1-16).
type Destination interface {
	Channel(number int) Channel
}

// channel is a monophonic MIDI channel: a new note releases the previous one.
type channel struct {
	number uint8 // 0-based on the wire
	emit   func(gomidi.Message)

	mu       sync.Mutex
	lastNote int // -1 = nothing sounding
}

func newChannel(number int, emit func(gomidi.Message)) *channel {
	if number < 1 || number > 16 {
		panic(fmt.Sprintf("midi: channel %d out of range 1-16", number))
	}
	return &channel{number: uint8(number - 1), emit: emit, lastNote: -1}
}

func (c *channel) PlayNote(pitch int) {
	if pitch < 0 || pitch > 127 {
		debug.Log("midi", "ch=%d pitch %d out of range, dropped", c.number+1, pitch)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastNote >= 0 {
		c.emit(gomidi.NoteOff(c.number, uint8(c.lastNote)))
	}
	c.emit(gomidi.NoteOn(c.number, uint8(pitch), DefaultVelocity))
	c.lastNote = pitch
}

func (c *channel) SendAllNotesOff() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emit(gomidi.ControlChange(c.number, ccAllNotesOff, 0))
	c.lastNote = -1
}

func (c *channel) SendProgramChange(program int) {
	c.emit(gomidi.ProgramChange(c.number, clamp7(program)))
}

func (c *channel) SendControlChange(controller, value int) {
	c.emit(gomidi.ControlChange(c.number, clamp7(controller), clamp7(value)))
}

func clamp7(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}
