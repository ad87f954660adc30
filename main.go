package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"go-mnml/config"
	"go-mnml/debug"
	"go-mnml/midi"
	"go-mnml/sequencer"
	"go-mnml/theme"
	"go-mnml/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			return fmt.Errorf("enable debug log: %w", err)
		}
		defer debug.Disable()
	}

	palette := theme.DefaultPalette()
	if cfg.Palette != "" {
		if palette, err = theme.LoadGPL(cfg.Palette); err != nil {
			return err
		}
	}
	th := theme.New(palette)

	// MIDI output follows the configured port across hot-plugs
	output := midi.NewOutput()
	defer midi.CloseDriver()
	defer output.Close()
	deviceMgr := midi.NewDeviceManager(output)
	deviceMgr.SetPreferred(cfg.Output.PortName)

	engine, err := sequencer.NewEngine(engineOptions(cfg), output)
	if err != nil {
		return err
	}

	// stop polling before the deferred CloseDriver runs
	ctx, cancel := context.WithCancel(context.Background())
	go deviceMgr.Run(ctx)
	defer func() {
		cancel()
		<-deviceMgr.Done()
	}()

	m := tui.NewModel(engine, deviceMgr, th)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	engine.Stop()
	output.SendAllNotesOff()

	cfg.Scale = engine.Scale().Name
	cfg.ActiveVoices = engine.ActiveVoices()
	if port := deviceMgr.Preferred(); port != "" {
		cfg.Output.PortName = port
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// engineOptions lays the default tracks over the configured clocks
func engineOptions(cfg *config.Config) sequencer.Options {
	opts := sequencer.DefaultOptions().WithTempos(cfg.Tempos)
	opts.Scale = cfg.Scale
	opts.ActiveVoices = cfg.ActiveVoices
	opts.Program = cfg.Program
	return opts
}
