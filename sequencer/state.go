package sequencer

// Snapshot is a point-in-time copy of everything a renderer needs.
type Snapshot struct {
	State        State
	Scale        Scale
	ActiveVoices int
	Tracks       []TrackSnapshot
	Tickers      []TickerSnapshot
}

// TrackSnapshot holds a track's pattern and voices
type TrackSnapshot struct {
	Pattern []Step
	Octave  int
	Program int
	Voices  []VoiceSnapshot
}

// VoiceSnapshot holds a single voice
type VoiceSnapshot struct {
	Channel int
	Ticker  int
	Cursor  int
	State   VoiceState
}

// Active reports whether the voice is playing (possibly about to stop).
func (v VoiceSnapshot) Active() bool {
	return v.State != VoiceStopped
}

// TickerSnapshot holds a single clock
type TickerSnapshot struct {
	BPM     int
	Running bool
	Metrics Metrics
}

// Snapshot copies the engine state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	s := Snapshot{
		State:        e.state,
		ActiveVoices: e.activeVoices,
	}
	e.mu.Unlock()
	s.Scale = e.Scale()

	for _, t := range e.tracks {
		ts := TrackSnapshot{
			Pattern: t.Pattern(),
			Octave:  t.Octave(),
			Program: t.Program(),
		}
		for _, v := range t.Voices() {
			ts.Voices = append(ts.Voices, v.snapshot())
		}
		s.Tracks = append(s.Tracks, ts)
	}

	for _, t := range e.tickers {
		s.Tickers = append(s.Tickers, TickerSnapshot{
			BPM:     t.BPM(),
			Running: t.Running(),
			Metrics: t.Metrics(),
		})
	}
	return s
}
