package robot

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

const DefaultConfigFile = "activecam.json"

// Config holds the per-session mount configuration. There is no process-wide
// registry: a session is constructed from one explicit Config value.
type Config struct {
	// Port is the serial device of the servo bus.
	Port string `json:"port" env:"ACTIVECAM_PORT"`
	Baud int    `json:"baud" env:"ACTIVECAM_BAUD"`

	// JointIDs maps logical joint index to servo ID on the bus. By
	// convention index 0 is yaw (left/right) and indexes 1 and 2 are the
	// coupled pitch pair.
	JointIDs []int `json:"joint_ids"`
	// Signs flips a joint's direction; each entry is -1 or +1.
	Signs []float64 `json:"joint_signs"`
	// Offsets are per-joint zero offsets in radians, a multiple of pi/2
	// by convention.
	Offsets []float64 `json:"joint_offsets"`
	// Limits are absolute per-joint bounds in logical space.
	Limits []Limit `json:"joint_limits"`

	// YawStep and PitchStep are the per-keypress step sizes in radians.
	YawStep   float64 `json:"yaw_step"`
	PitchStep float64 `json:"pitch_step"`

	// YawSensitivity and PitchSensitivity scale head-tracker offsets into
	// joint motion.
	YawSensitivity   float64 `json:"yaw_sensitivity"`
	PitchSensitivity float64 `json:"pitch_sensitivity"`

	// ListenAddr is the UDP address the head-tracker source binds to.
	ListenAddr string `json:"listen_addr" env:"ACTIVECAM_LISTEN_ADDR"`

	// StaleAfterSec is how long the tracker may go silent before the loop
	// starts easing the mount back home.
	StaleAfterSec float64 `json:"stale_after_sec"`
	// MinCommandChange is the debounce threshold: the minimum command-space
	// distance before a new command is transmitted.
	MinCommandChange float64 `json:"min_command_change"`

	// Hz is the control loop frequency.
	Hz int `json:"hz"`
}

// DefaultConfig returns the configuration of the reference pan/tilt mount.
func DefaultConfig() Config {
	return Config{
		Port:     "/dev/ttyUSB0",
		Baud:     57600,
		JointIDs: []int{2, 1, 3},
		Signs:    []float64{1, 1, -1},
		Offsets:  []float64{0, 0, 0},
		Limits: []Limit{
			{Min: -2.89, Max: 2.89},
			{Min: -2.86, Max: -0.31},
			{Min: 0.37, Max: 2.91},
		},
		YawStep:          0.25,
		PitchStep:        0.30,
		YawSensitivity:   1.0,
		PitchSensitivity: -1.0,
		ListenAddr:       ":9050",
		StaleAfterSec:    1.0,
		MinCommandChange: 0.005,
		Hz:               50,
	}
}

// LoadConfig loads the default config file if present, falling back to
// DefaultConfig, and applies environment overrides in both cases.
func LoadConfig() (Config, error) {
	if _, err := os.Stat(DefaultConfigFile); err != nil {
		cfg := DefaultConfig()
		if err := env.Parse(&cfg); err != nil {
			return Config{}, fmt.Errorf("parse environment: %w", err)
		}
		return cfg, nil
	}
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file and applies
// environment overrides.
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config JSON: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// SaveTo writes the configuration to a file.
func (c Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StaleAfter returns the staleness timeout as a duration.
func (c Config) StaleAfter() time.Duration {
	return time.Duration(c.StaleAfterSec * float64(time.Second))
}

// NumJoints returns the configured joint count.
func (c Config) NumJoints() int {
	return len(c.JointIDs)
}

// Validate checks the config for internal consistency.
func (c Config) Validate() error {
	n := len(c.JointIDs)
	if n == 0 {
		return fmt.Errorf("no joint IDs configured")
	}
	if len(c.Signs) != n || len(c.Offsets) != n || len(c.Limits) != n {
		return fmt.Errorf("joint config length mismatch: %d ids, %d signs, %d offsets, %d limits",
			n, len(c.Signs), len(c.Offsets), len(c.Limits))
	}
	seen := make(map[int]bool, n)
	for _, id := range c.JointIDs {
		if seen[id] {
			return fmt.Errorf("duplicate joint ID %d", id)
		}
		seen[id] = true
	}
	for i, s := range c.Signs {
		if s != 1 && s != -1 {
			return fmt.Errorf("joint %d: sign must be -1 or +1, got %v", i, s)
		}
	}
	for i, l := range c.Limits {
		if l.Min >= l.Max {
			return fmt.Errorf("joint %d: limit min %v >= max %v", i, l.Min, l.Max)
		}
	}
	if c.Hz <= 0 {
		return fmt.Errorf("hz must be positive, got %d", c.Hz)
	}
	return nil
}
