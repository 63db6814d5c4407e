package main

import (
	"fmt"
	"time"
)

type SweepCommand struct {
	Config string  `long:"config" description:"Path to a config file (default activecam.json if present)"`
	Port   string  `long:"port" description:"Serial port of the servo bus (overrides config)"`
	Joint  int     `long:"joint" default:"0" description:"Logical joint index to sweep"`
	Step   float64 `long:"step" default:"0.1" description:"Sweep increment in radians"`
	Delay  int     `long:"delay" default:"100" description:"Delay between steps in milliseconds"`
	Fake   bool    `long:"fake" description:"Use a simulated driver instead of hardware"`
}

// Execute sweeps one joint across its configured limit range, printing the
// commanded position, the observed position and the bus round-trip time for
// each step. Useful for verifying calibration and wiring.
func (c *SweepCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.Config, c.Port, 0)
	if err != nil {
		return err
	}
	if c.Joint < 0 || c.Joint >= cfg.NumJoints() {
		return fmt.Errorf("joint index %d out of range (mount has %d joints)", c.Joint, cfg.NumJoints())
	}
	if c.Step <= 0 {
		return fmt.Errorf("step must be positive")
	}

	mount, err := newMount(cfg, c.Fake)
	if err != nil {
		return err
	}
	defer mount.Close()

	if err := mount.SetTorque(true); err != nil {
		return fmt.Errorf("enable torque: %w", err)
	}
	defer mount.SetTorque(false)
	time.Sleep(200 * time.Millisecond)

	start := mount.JointState()
	limit := cfg.Limits[c.Joint]
	fmt.Printf("Sweeping joint %d (%s) from %.2f to %.2f rad in %.2f steps\n",
		c.Joint, jointName(c.Joint), limit.Min, limit.Max, c.Step)

	delay := time.Duration(c.Delay) * time.Millisecond
	target := make([]float64, len(start))
	copy(target, start)

	for pos := limit.Min; pos <= limit.Max; pos += c.Step {
		target[c.Joint] = pos
		observed, rtt, err := mount.CommandAndRTT(target)
		if err != nil {
			return fmt.Errorf("command joint %d to %.2f: %w", c.Joint, pos, err)
		}
		fmt.Printf("  commanded %+.3f  observed %+.3f  rtt %s\n",
			pos, observed[c.Joint], rtt.Round(time.Microsecond))
		time.Sleep(delay)
	}

	fmt.Println("Returning to start position")
	if err := mount.CommandJointState(start); err != nil {
		return err
	}
	time.Sleep(500 * time.Millisecond)
	return nil
}
