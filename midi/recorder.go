package midi

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// SMF timing: the conductor track pins the tempo to 60 BPM so one quarter
// note is one second and ticks convert linearly from wall time.
const (
	smfResolution = 960
	smfTempo      = 60.0
)

// TimedMessage is a message captured at a point in virtual time.
type TimedMessage struct {
	At      time.Duration
	Channel uint8 // 0-based
	Msg     gomidi.Message
}

// Recorder is a Destination that captures messages instead of sending them.
// The caller advances virtual time with Seek.
type Recorder struct {
	mu       sync.Mutex
	now      time.Duration
	events   []TimedMessage
	channels map[int]*channel
}

// NewRecorder creates an empty recorder at time zero.
func NewRecorder() *Recorder {
	return &Recorder{channels: make(map[int]*channel)}
}

// Channel returns the recording channel with 1-based number.
func (r *Recorder) Channel(number int) Channel {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.channels[number]; ok {
		return c
	}
	c := newChannel(number, func(msg gomidi.Message) {
		r.record(uint8(number-1), msg)
	})
	r.channels[number] = c
	return c
}

// Seek moves virtual time. Time never goes backwards.
func (r *Recorder) Seek(t time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t > r.now {
		r.now = t
	}
}

// Now returns the current virtual time.
func (r *Recorder) Now() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now
}

// Messages returns a copy of everything recorded so far, in time order.
func (r *Recorder) Messages() []TimedMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TimedMessage, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) record(ch uint8, msg gomidi.Message) {
	r.mu.Lock()
	r.events = append(r.events, TimedMessage{At: r.now, Channel: ch, Msg: msg})
	r.mu.Unlock()
}

// SMF builds a format 1 file: a conductor track followed by one track per
// channel that received messages, ordered by channel.
func (r *Recorder) SMF() (*smf.SMF, error) {
	events := r.Messages()
	end := r.Now()

	byChannel := make(map[uint8][]TimedMessage)
	for _, e := range events {
		byChannel[e.Channel] = append(byChannel[e.Channel], e)
	}
	chans := make([]int, 0, len(byChannel))
	for ch := range byChannel {
		chans = append(chans, int(ch))
	}
	sort.Ints(chans)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(smfResolution)

	var conductor smf.Track
	conductor.Add(0, smf.MetaTempo(smfTempo))
	conductor.Close(toTicks(end))
	if err := s.Add(conductor); err != nil {
		return nil, fmt.Errorf("add conductor track: %w", err)
	}

	for _, ch := range chans {
		var tr smf.Track
		var last uint32
		for _, e := range byChannel[uint8(ch)] {
			at := toTicks(e.At)
			tr.Add(at-last, e.Msg)
			last = at
		}
		tr.Close(toTicks(end) - last)
		if err := s.Add(tr); err != nil {
			return nil, fmt.Errorf("add track for channel %d: %w", ch+1, err)
		}
	}
	return s, nil
}

// WriteSMF writes the recording as a Standard MIDI File.
func (r *Recorder) WriteSMF(w io.Writer) error {
	s, err := r.SMF()
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("write smf: %w", err)
	}
	return nil
}

// WriteFile writes the recording to path.
func (r *Recorder) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WriteSMF(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func toTicks(d time.Duration) uint32 {
	return uint32(d * smfResolution / time.Second)
}
