package sequencer

import (
	"errors"
	"time"

	"go-mnml/debug"
)

// Render drives the engine for d of virtual time without real timers.
// Ticks of all tickers are merged in time order, lower ticker index first
// on ties, and at is called with the tick time before each tick and with d
// at the end. The engine must not be playing.
func (e *Engine) Render(d time.Duration, at func(time.Duration)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Playing {
		return errors.New("render: engine is playing")
	}
	e.applyActiveVoices()

	counts := make([]int64, len(e.tickers))
	next := make([]time.Duration, len(e.tickers))
	for i, t := range e.tickers {
		next[i] = t.tickTime(1)
	}

	ticks := 0
	for {
		idx := 0
		for i := range next {
			if next[i] < next[idx] {
				idx = i
			}
		}
		if next[idx] > d {
			break
		}
		at(next[idx])
		e.tickers[idx].Tick()
		counts[idx]++
		next[idx] = e.tickers[idx].tickTime(counts[idx] + 1)
		ticks++
	}
	at(d)
	debug.Log("render", "rendered %v: %d ticks %v", d, ticks, counts)
	return nil
}
