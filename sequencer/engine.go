package sequencer

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"go-mnml/debug"
	"go-mnml/midi"
)

// State is the transport state of the engine
type State int

const (
	Stopped State = iota
	Paused
	Playing
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "STOP"
	case Paused:
		return "PAUSE"
	case Playing:
		return "PLAY"
	}
	return "?"
}

// percussionChannel is skipped when handing out voice channels
const percussionChannel = 10

// Options describes the tracks, voices and clocks of a performance.
// Track i has TrackLengths[i] steps, Octaves[i] and VoicesPerTrack[i]
// voices; voice slot j of every track is driven by ticker j.
type Options struct {
	TrackLengths   []int
	Octaves        []int
	VoicesPerTrack []int
	Tempos         []int
	Program        int
	Scale          string
	ActiveVoices   int
	Seed           uint64 // random fill seed, 0 = time based
}

// DefaultOptions is five tracks over three clocks.
func DefaultOptions() Options {
	return Options{
		TrackLengths:   []int{8, 16, 17, 18, 19},
		Octaves:        []int{5, 3, 4, 5, 6},
		VoicesPerTrack: []int{1, 3, 3, 3, 3},
		Tempos:         []int{120, 140, 160},
		Program:        1,
		Scale:          Scales[0].Name,
		ActiveVoices:   1,
	}
}

// WithTempos returns o driven by tempos, with every track trimmed to at
// most one voice per tempo.
func (o Options) WithTempos(tempos []int) Options {
	o.Tempos = append([]int(nil), tempos...)
	voices := make([]int, len(o.VoicesPerTrack))
	for i, n := range o.VoicesPerTrack {
		voices[i] = min(n, len(tempos))
	}
	o.VoicesPerTrack = voices
	return o
}

func (o Options) validate() error {
	if len(o.TrackLengths) == 0 {
		return errors.New("at least one track required")
	}
	if len(o.Octaves) != len(o.TrackLengths) || len(o.VoicesPerTrack) != len(o.TrackLengths) {
		return fmt.Errorf("%d track lengths, %d octaves, %d voice counts: must match",
			len(o.TrackLengths), len(o.Octaves), len(o.VoicesPerTrack))
	}
	if len(o.Tempos) == 0 {
		return errors.New("at least one tempo required")
	}
	total := 0
	for i, n := range o.TrackLengths {
		if n < 1 {
			return fmt.Errorf("track %d: length %d, must be at least 1", i, n)
		}
		if v := o.VoicesPerTrack[i]; v < 1 || v > len(o.Tempos) {
			return fmt.Errorf("track %d: %d voices, must be 1..%d", i, v, len(o.Tempos))
		}
		total += o.VoicesPerTrack[i]
	}
	if total > 15 {
		return fmt.Errorf("%d voices exceed the 15 melodic MIDI channels", total)
	}
	if o.Program < 0 || o.Program > 127 {
		return fmt.Errorf("program %d outside 0..127", o.Program)
	}
	return nil
}

// Engine owns tracks and tickers and exposes the transport.
type Engine struct {
	tracks  []*Track
	tickers []*Ticker
	scale   atomic.Pointer[Scale]

	mu           sync.Mutex
	state        State
	activeVoices int
	rng          *rand.Rand

	// Notify UI of ticks and edits
	UpdateChan chan struct{}
}

// NewEngine builds the performance and wires voices to dest.
func NewEngine(opts Options, dest midi.Destination) (*Engine, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("engine options: %w", err)
	}
	scale, err := ScaleByName(opts.Scale)
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	e := &Engine{
		rng:        rand.New(rand.NewPCG(seed, seed>>1|1)),
		UpdateChan: make(chan struct{}, 1),
	}
	e.scale.Store(&scale)

	for _, bpm := range opts.Tempos {
		t, err := NewTicker(bpm)
		if err != nil {
			return nil, err
		}
		t.SetOnTick(func(Metrics) { e.notify() })
		e.tickers = append(e.tickers, t)
	}

	number := 1
	for i, length := range opts.TrackLengths {
		track := NewTrack(length, opts.Octaves[i], opts.Program)
		for slot := 0; slot < opts.VoicesPerTrack[i]; slot++ {
			v := NewVoice(track, dest.Channel(number), number, slot, e.Scale)
			e.tickers[slot].AddTickable(v)
			number++
			if number == percussionChannel {
				number++
			}
		}
		e.tracks = append(e.tracks, track)
	}

	e.activeVoices = clampVoices(opts.ActiveVoices, len(e.tickers))
	debug.Log("engine", "built %d tracks, %d voices, %d tickers", len(e.tracks), number-1, len(e.tickers))
	return e, nil
}

// Tracks returns the tracks in order.
func (e *Engine) Tracks() []*Track {
	return e.tracks
}

// Tickers returns the tickers in order.
func (e *Engine) Tickers() []*Ticker {
	return e.tickers
}

// Voices returns every voice, track by track.
func (e *Engine) Voices() []*Voice {
	var out []*Voice
	for _, t := range e.tracks {
		out = append(out, t.Voices()...)
	}
	return out
}

// ActiveTickers returns tickers with at least one active voice.
func (e *Engine) ActiveTickers() []*Ticker {
	var out []*Ticker
	for _, t := range e.tickers {
		if t.HasActive() {
			out = append(out, t)
		}
	}
	return out
}

// Scale returns the current scale.
func (e *Engine) Scale() Scale {
	return *e.scale.Load()
}

// SetScale selects a scale by name. Sounding notes are unaffected.
func (e *Engine) SetScale(name string) error {
	s, err := ScaleByName(name)
	if err != nil {
		return err
	}
	e.scale.Store(&s)
	e.notify()
	return nil
}

// CycleScale switches to the next catalog scale and returns it.
func (e *Engine) CycleScale() Scale {
	s := nextScale(e.Scale())
	e.scale.Store(&s)
	e.notify()
	return s
}

// State returns the transport state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ActiveVoices returns how many ticker cohorts are enabled.
func (e *Engine) ActiveVoices() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeVoices
}

// SetActiveVoices enables the cohorts of tickers below n and lets the
// others finish their current cycle. n is clamped to 1..len(tickers).
func (e *Engine) SetActiveVoices(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.activeVoices = clampVoices(n, len(e.tickers))
	e.applyActiveVoices()
	debug.Log("engine", "active voices = %d", e.activeVoices)
	e.notify()
}

func (e *Engine) applyActiveVoices() {
	for i, t := range e.tickers {
		for _, tk := range t.Tickables() {
			v, ok := tk.(*Voice)
			if !ok {
				continue
			}
			if i < e.activeVoices {
				v.Start()
			} else {
				v.End()
			}
		}
	}
}

// Start runs every ticker and applies the active voice cohorts.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.tickers {
		t.Start()
	}
	e.applyActiveVoices()
	e.state = Playing
	debug.Log("engine", "start")
	e.notify()
}

// Stop halts every ticker and cuts every voice back to step 0.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.tickers {
		t.Stop()
	}
	for _, v := range e.Voices() {
		v.Stop()
	}
	e.state = Stopped
	debug.Log("engine", "stop")
	e.notify()
}

// Pause halts every ticker; voices keep their state and cursor so Start
// resumes in place.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.tickers {
		t.Stop()
	}
	e.state = Paused
	debug.Log("engine", "pause")
	e.notify()
}

// Restart rewinds every voice to step 0 without changing playback state.
func (e *Engine) Restart() {
	for _, v := range e.Voices() {
		v.Restart()
	}
	debug.Log("engine", "restart")
	e.notify()
}

// ToggleNote toggles a step of a track. See Track.Toggle.
func (e *Engine) ToggleNote(track, step int, sel Step) {
	if track < 0 || track >= len(e.tracks) {
		panic(fmt.Sprintf("sequencer: track %d out of range 0..%d", track, len(e.tracks)-1))
	}
	e.tracks[track].Toggle(step, sel)
	e.notify()
}

// Clear rests every step of every track.
func (e *Engine) Clear() {
	for _, t := range e.tracks {
		t.Clear()
	}
	e.notify()
}

// RandomFill refills every track. See Track.RandomFill.
func (e *Engine) RandomFill() {
	e.mu.Lock()
	for _, t := range e.tracks {
		t.RandomFill(e.rng)
	}
	e.mu.Unlock()
	e.notify()
}

// notify pokes the UI without blocking
func (e *Engine) notify() {
	select {
	case e.UpdateChan <- struct{}{}:
	default:
	}
}

func clampVoices(n, limit int) int {
	if n < 1 {
		return 1
	}
	if n > limit {
		return limit
	}
	return n
}
