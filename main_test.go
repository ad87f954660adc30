package main

import (
	"testing"

	"go-mnml/config"
	"go-mnml/midi"
	"go-mnml/sequencer"
)

func TestEngineOptionsFitTempos(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Tempos = []int{90, 100}
	cfg.ActiveVoices = 2
	cfg.Scale = "MINOR"

	opts := engineOptions(cfg)
	for i, n := range opts.VoicesPerTrack {
		if n > 2 {
			t.Fatalf("track %d has %d voices for 2 tempos", i, n)
		}
	}
	e, err := sequencer.NewEngine(opts, midi.NewRecorder())
	if err != nil {
		t.Fatal(err)
	}
	if len(e.Tickers()) != 2 || e.Scale().Name != "MINOR" || e.ActiveVoices() != 2 {
		t.Fatalf("engine %d tickers scale %s voices %d", len(e.Tickers()), e.Scale().Name, e.ActiveVoices())
	}
}

func TestEngineOptionsDefaults(t *testing.T) {
	opts := engineOptions(config.DefaultConfig())
	if _, err := sequencer.NewEngine(opts, midi.NewRecorder()); err != nil {
		t.Fatal(err)
	}
}
