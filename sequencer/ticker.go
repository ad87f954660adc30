package sequencer

import (
	"fmt"
	"sync"
	"time"

	"go-mnml/debug"
	"go-mnml/polyrhythm"
)

// Tickable is driven by a Ticker. Phase feeds the ticker's metrics.
type Tickable interface {
	Tick()
	Phase() (cursor, length int, active bool)
}

// Metrics is a ticker's combined cycle, recomputed after every tick from its
// active tickables. It is display information only.
type Metrics struct {
	Length   int                 // lcm of active pattern lengths, 0 if none
	Position polyrhythm.Solution // empty when the cursors are not jointly reachable
}

// Progress returns (position+1)/length when both are defined.
func (m Metrics) Progress() (float64, bool) {
	pos, ok := m.Position.Unpack()
	if !ok || m.Length == 0 {
		return 0, false
	}
	return float64(pos+1) / float64(m.Length), true
}

// Ticker is a fixed-tempo clock, one tick per beat.
type Ticker struct {
	bpm int

	mu        sync.Mutex
	tickables []Tickable
	stop      chan struct{} // nil while stopped
	done      chan struct{}
	metrics   Metrics
	onTick    func(Metrics)
}

// NewTicker creates a stopped ticker.
func NewTicker(bpm int) (*Ticker, error) {
	if bpm <= 0 {
		return nil, fmt.Errorf("invalid tempo: %d bpm (must be positive)", bpm)
	}
	return &Ticker{bpm: bpm, metrics: Metrics{Position: polyrhythm.SolutionOf(0)}}, nil
}

// BPM returns the tempo.
func (t *Ticker) BPM() int {
	return t.bpm
}

// Interval is the time between ticks: 60s / bpm.
func (t *Ticker) Interval() time.Duration {
	return t.tickTime(1)
}

// tickTime is the offset of the k-th tick from start, without drift.
func (t *Ticker) tickTime(k int64) time.Duration {
	return time.Duration(int64(time.Minute) * k / int64(t.bpm))
}

// AddTickable registers tk once; repeated registration is ignored.
func (t *Ticker) AddTickable(tk Tickable) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, existing := range t.tickables {
		if existing == tk {
			return
		}
	}
	t.tickables = append(t.tickables, tk)
}

// Tickables returns the registered tickables in registration order.
func (t *Ticker) Tickables() []Tickable {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Tickable(nil), t.tickables...)
}

// SetOnTick installs a hook called with fresh metrics after every tick.
// The hook runs on the ticker goroutine and must not call Stop.
func (t *Ticker) SetOnTick(fn func(Metrics)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onTick = fn
}

// Start begins ticking every Interval. No-op if already running.
func (t *Ticker) Start() {
	t.mu.Lock()
	if t.stop != nil {
		t.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	t.stop, t.done = stop, done
	t.mu.Unlock()

	debug.Log("ticker", "start %d bpm interval=%v", t.bpm, t.Interval())
	go t.run(stop, done)
}

// Stop halts ticking. A tick in progress completes; no further tick starts.
// Idempotent.
func (t *Ticker) Stop() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
	debug.Log("ticker", "stop %d bpm", t.bpm)
}

// Running reports whether the ticker is started.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

func (t *Ticker) run(stop, done chan struct{}) {
	defer close(done)
	clock := time.NewTicker(t.Interval())
	defer clock.Stop()

	for {
		select {
		case <-stop:
			return
		case <-clock.C:
			// a stop that raced the clock wins
			select {
			case <-stop:
				return
			default:
			}
			t.Tick()
		}
	}
}

// Tick advances every tickable in registration order, then recomputes the
// metrics from the tickables still active.
func (t *Ticker) Tick() {
	tickables := t.Tickables()
	for _, tk := range tickables {
		tk.Tick()
	}
	m := computeMetrics(tickables)

	t.mu.Lock()
	t.metrics = m
	onTick := t.onTick
	t.mu.Unlock()

	if !m.Position.Ok() {
		debug.LogEvery(16, "ticker", "%d bpm: no joint position for length %d", t.bpm, m.Length)
	}
	if onTick != nil {
		onTick(m)
	}
}

// Metrics returns the metrics of the last tick.
func (t *Ticker) Metrics() Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.metrics
}

// HasActive reports whether any tickable is currently active.
func (t *Ticker) HasActive() bool {
	for _, tk := range t.Tickables() {
		if _, length, active := tk.Phase(); active && length > 0 {
			return true
		}
	}
	return false
}

func computeMetrics(tickables []Tickable) Metrics {
	var cursors, lengths []int
	for _, tk := range tickables {
		cursor, length, active := tk.Phase()
		if !active || length == 0 {
			continue
		}
		cursors = append(cursors, cursor%length)
		lengths = append(lengths, length)
	}

	switch len(lengths) {
	case 0:
		return Metrics{Position: polyrhythm.SolutionOf(0)}
	case 1:
		return Metrics{Length: lengths[0], Position: polyrhythm.SolutionOf(cursors[0])}
	}
	return Metrics{
		Length:   polyrhythm.LeastCommonMultiple(lengths...),
		Position: polyrhythm.GeneralizedCRT(cursors, lengths),
	}
}
