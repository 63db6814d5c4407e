package robot

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.NumJoints() != 3 {
		t.Errorf("NumJoints = %d, want 3", cfg.NumJoints())
	}
	if cfg.StaleAfter() != time.Second {
		t.Errorf("StaleAfter = %v, want 1s", cfg.StaleAfter())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no joints", func(c *Config) { c.JointIDs = nil }},
		{"length mismatch", func(c *Config) { c.Signs = []float64{1} }},
		{"duplicate id", func(c *Config) { c.JointIDs = []int{2, 2, 3} }},
		{"bad sign", func(c *Config) { c.Signs = []float64{1, 0, -1} }},
		{"inverted limit", func(c *Config) { c.Limits[0] = Limit{Min: 1, Max: -1} }},
		{"zero hz", func(c *Config) { c.Hz = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should fail")
			}
		})
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activecam.json")

	cfg := DefaultConfig()
	cfg.Port = "/dev/ttyACM1"
	cfg.YawStep = 0.1
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if loaded.Port != "/dev/ttyACM1" {
		t.Errorf("Port = %q, want /dev/ttyACM1", loaded.Port)
	}
	if loaded.YawStep != 0.1 {
		t.Errorf("YawStep = %f, want 0.1", loaded.YawStep)
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("loaded config invalid: %v", err)
	}
}

func TestConfig_EnvOverride(t *testing.T) {
	t.Setenv("ACTIVECAM_PORT", "/dev/ttyUSB7")

	path := filepath.Join(t.TempDir(), "activecam.json")
	if err := DefaultConfig().SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	cfg, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.Port != "/dev/ttyUSB7" {
		t.Errorf("Port = %q, want env override /dev/ttyUSB7", cfg.Port)
	}
}
