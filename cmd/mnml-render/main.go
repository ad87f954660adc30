package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"go-mnml/config"
	"go-mnml/midi"
	"go-mnml/sequencer"
)

func main() {
	var (
		out      = flag.String("o", "mnml.mid", "output .mid path")
		duration = flag.Duration("d", 30*time.Second, "length of the render")
		voices   = flag.Int("voices", 0, "active voices (0 = from config)")
		scale    = flag.String("scale", "", "scale name (empty = from config)")
		seed     = flag.Uint64("seed", 1, "random fill seed")
		useCfg   = flag.Bool("config", true, "read tempos and program from the user config")
	)
	flag.Parse()

	cfg := config.DefaultConfig()
	if *useCfg {
		loaded, err := config.Load()
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}

	opts := sequencer.DefaultOptions().WithTempos(cfg.Tempos)
	opts.Program = cfg.Program
	opts.Scale = cfg.Scale
	opts.ActiveVoices = cfg.ActiveVoices
	opts.Seed = *seed
	if *voices > 0 {
		opts.ActiveVoices = *voices
	}
	if *scale != "" {
		opts.Scale = *scale
	}

	rec := midi.NewRecorder()
	engine, err := sequencer.NewEngine(opts, rec)
	if err != nil {
		log.Fatal(err)
	}
	engine.RandomFill()

	if err := engine.Render(*duration, rec.Seek); err != nil {
		log.Fatal(err)
	}
	// silence whatever is still sounding at the end
	for _, v := range engine.Voices() {
		rec.Channel(v.Channel()).SendAllNotesOff()
	}
	if err := rec.WriteFile(*out); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s: %v, %d voices, %s, %d events\n",
		*out, *duration, engine.ActiveVoices(), engine.Scale().Name, len(rec.Messages()))
}
