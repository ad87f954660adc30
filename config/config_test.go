package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Fatalf("got %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := DefaultConfig()
	cfg.Output.PortName = "IAC Driver Bus 1"
	cfg.Tempos = []int{90, 135}
	cfg.ActiveVoices = 2
	cfg.Scale = "MINOR"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Fatalf("got %+v, want %+v", got, cfg)
	}
}

func TestLoadFillsMissingFields(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "go-mnml")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"output":{"portName":"x"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.PortName != "x" || len(cfg.Tempos) != 3 || cfg.Program != DefaultProgram || cfg.Scale != DefaultScale {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "go-mnml")
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"tempos":[120,0]}`), 0644)
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero tempo")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Config)
		ok   bool
	}{
		{"defaults", func(*Config) {}, true},
		{"no tempos", func(c *Config) { c.Tempos = nil }, false},
		{"negative tempo", func(c *Config) { c.Tempos[1] = -1 }, false},
		{"too many voices", func(c *Config) { c.ActiveVoices = 4 }, false},
		{"zero voices", func(c *Config) { c.ActiveVoices = 0 }, false},
		{"program range", func(c *Config) { c.Program = 128 }, false},
	}
	for _, c := range cases {
		cfg := DefaultConfig()
		c.mod(cfg)
		err := cfg.Validate()
		if (err == nil) != c.ok {
			t.Errorf("%s: err = %v", c.name, err)
		}
	}
}
