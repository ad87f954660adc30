package sequencer

import (
	"sync"

	"go-mnml/midi"
)

type event struct {
	kind  string // note, off, program, cc
	value int
}

type fakeChannel struct {
	mu     sync.Mutex
	events []event
}

func (c *fakeChannel) add(e event) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

func (c *fakeChannel) PlayNote(pitch int) { c.add(event{"note", pitch}) }
func (c *fakeChannel) SendAllNotesOff() { c.add(event{"off", 0}) }
func (c *fakeChannel) SendProgramChange(program int) { c.add(event{"program", program}) }
func (c *fakeChannel) SendControlChange(cc, value int) { c.add(event{"cc", cc<<8 | value}) }

func (c *fakeChannel) take() []event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.events
	c.events = nil
	return out
}

type fakeDest struct {
	mu       sync.Mutex
	channels map[int]*fakeChannel
}

func newFakeDest() *fakeDest {
	return &fakeDest{channels: make(map[int]*fakeChannel)}
}

func (d *fakeDest) Channel(number int) midi.Channel {
	return d.ch(number)
}

func (d *fakeDest) ch(number int) *fakeChannel {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.channels[number]
	if !ok {
		c = &fakeChannel{}
		d.channels[number] = c
	}
	return c
}

func major() Scale { return Scales[0] }

// newTestVoice builds a voice over a fresh track with the given steps.
func newTestVoice(octave int, steps ...Step) (*Voice, *fakeChannel) {
	track := NewTrack(len(steps), octave, 1)
	for i, s := range steps {
		if s != Rest {
			track.Toggle(i, s)
		}
	}
	ch := &fakeChannel{}
	v := NewVoice(track, ch, 1, 0, major)
	ch.take() // drop the program change sent on registration
	return v, ch
}
