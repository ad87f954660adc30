package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// OutputConfig remembers the MIDI output
type OutputConfig struct {
	PortName string `json:"portName,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Output       OutputConfig `json:"output,omitempty"`
	Tempos       []int        `json:"tempos,omitempty"` // one ticker per tempo, BPM
	Scale        string       `json:"scale,omitempty"`
	ActiveVoices int          `json:"activeVoices,omitempty"`
	Program      int          `json:"program"`
	Palette      string       `json:"palette,omitempty"` // GIMP .gpl path
	Debug        bool         `json:"debug,omitempty"`
}

// Defaults
var (
	DefaultTempos       = []int{120, 140, 160}
	DefaultScale        = "MAJOR"
	DefaultActiveVoices = 1
	DefaultProgram      = 1
)

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Tempos:       append([]int(nil), DefaultTempos...),
		Scale:        DefaultScale,
		ActiveVoices: DefaultActiveVoices,
		Program:      DefaultProgram,
	}
}

// Normalize fills missing fields with defaults
func (c *Config) Normalize() {
	if len(c.Tempos) == 0 {
		c.Tempos = append([]int(nil), DefaultTempos...)
	}
	if c.Scale == "" {
		c.Scale = DefaultScale
	}
	if c.ActiveVoices == 0 {
		c.ActiveVoices = DefaultActiveVoices
	}
}

// Validate reports the first invalid field
func (c *Config) Validate() error {
	if len(c.Tempos) == 0 {
		return errors.New("config: at least one tempo required")
	}
	for i, bpm := range c.Tempos {
		if bpm <= 0 {
			return fmt.Errorf("config: tempo %d is %d, must be positive", i, bpm)
		}
	}
	if c.ActiveVoices < 1 || c.ActiveVoices > len(c.Tempos) {
		return fmt.Errorf("config: activeVoices %d outside 1..%d", c.ActiveVoices, len(c.Tempos))
	}
	if c.Program < 0 || c.Program > 127 {
		return fmt.Errorf("config: program %d outside 0..127", c.Program)
	}
	return nil
}

// Dir returns the config directory path
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-mnml"), nil
}

// Path returns the full path to config.json
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := Config{Program: DefaultProgram}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := Path()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
