package main

import (
	"context"
	"fmt"

	"github.com/activecam/activecam/pkg/input"
	"github.com/activecam/activecam/pkg/teleop"
)

type TrackCommand struct {
	Config   string `long:"config" description:"Path to a config file (default activecam.json if present)"`
	Port     string `long:"port" description:"Serial port of the servo bus (overrides config)"`
	Listen   string `long:"listen" description:"UDP listen address for tracker data (overrides config)"`
	Hz       int    `long:"hz" description:"Control loop frequency (overrides config)"`
	Fake     bool   `long:"fake" description:"Use a simulated driver instead of hardware"`
	SelfTest bool   `long:"self-test" description:"Nudge the yaw joint at startup to verify the mount moves"`
}

func (c *TrackCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.Config, c.Port, c.Hz)
	if err != nil {
		return err
	}
	if c.Listen != "" {
		cfg.ListenAddr = c.Listen
	}

	tracker, err := input.NewTracker(cfg.ListenAddr)
	if err != nil {
		return err
	}

	fmt.Printf("Listening for head tracker data on %s\n", tracker.Addr())
	fmt.Println("Keep your head still to establish the zero point...")

	zeroPitch, zeroYaw, err := tracker.WaitZero(context.Background(), input.ZeroWindow)
	if err != nil {
		tracker.Close()
		return fmt.Errorf("establish tracker zero: %w", err)
	}
	fmt.Printf("Zero established at pitch %.1f°, yaw %.1f°\n", zeroPitch, zeroYaw)

	mount, err := newMount(cfg, c.Fake)
	if err != nil {
		tracker.Close()
		return err
	}

	ctrl, err := teleop.NewController(teleop.Config{
		Mount:            mount,
		Source:           tracker,
		Limits:           cfg.Limits,
		Hz:               cfg.Hz,
		HomeStep:         cfg.PitchStep,
		MinCommandChange: cfg.MinCommandChange,
		StaleAfter:       cfg.StaleAfter(),
		YawSensitivity:   cfg.YawSensitivity,
		PitchSensitivity: cfg.PitchSensitivity,
		SelfTest:         c.SelfTest,
	})
	if err != nil {
		tracker.Close()
		mount.Close()
		return err
	}

	return runSession("activecam · head tracking", ctrl, nil, cfg.NumJoints())
}
