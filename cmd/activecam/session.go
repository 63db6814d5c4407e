package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/activecam/activecam/internal/log"
	"github.com/activecam/activecam/pkg/dynamixel"
	"github.com/activecam/activecam/pkg/input"
	"github.com/activecam/activecam/pkg/robot"
	"github.com/activecam/activecam/pkg/teleop"
)

// loadConfig resolves the session configuration from the optional --config
// path, applying CLI overrides on top.
func loadConfig(path, port string, hz int) (robot.Config, error) {
	var cfg robot.Config
	var err error
	if path != "" {
		cfg, err = robot.LoadConfigFrom(path)
	} else {
		cfg, err = robot.LoadConfig()
	}
	if err != nil {
		return robot.Config{}, err
	}

	if port != "" {
		cfg.Port = port
	}
	if hz > 0 {
		cfg.Hz = hz
	}

	if err := cfg.Validate(); err != nil {
		return robot.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newMount builds the mount from the config, simulated or on real hardware.
func newMount(cfg robot.Config, fake bool) (*robot.Mount, error) {
	var drv dynamixel.Driver
	if fake {
		drv = dynamixel.NewFakeDriver(cfg.NumJoints())
	} else {
		var err error
		drv, err = dynamixel.OpenDriver(cfg.JointIDs, cfg.Port, cfg.Baud)
		if err != nil {
			return nil, fmt.Errorf("connect to mount on %s: %w", cfg.Port, err)
		}
	}

	mount, err := robot.NewMount(drv, cfg.Signs, cfg.Offsets)
	if err != nil {
		drv.Close()
		return nil, err
	}
	return mount, nil
}

// runSession drives the controller and the TUI together, and makes sure the
// return-home ramp finishes before resources are released.
func runSession(title string, ctrl *teleop.Controller, keys *input.Keys, numJoints int) error {
	defer ctrl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(newSessionModel(title, ctrl, keys, numJoints), tea.WithAltScreen())

	done := make(chan error, 1)
	go func() {
		err := ctrl.Start(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			p.Quit()
			done <- err
			return
		}
		done <- nil
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		return fmt.Errorf("run TUI: %w", err)
	}

	// Quit requested: cancel the loop and wait for the homing ramp, bounded
	// so a wedged bus cannot hang the process. The error is read from the
	// channel only, so a late-finishing controller cannot race the timeout
	// path.
	cancel()
	var startErr error
	select {
	case startErr = <-done:
	case <-time.After(15 * time.Second):
		log.Warn("controller did not stop in time")
	}

	if startErr != nil {
		fmt.Fprintf(os.Stderr, "Session failed: %v\n", startErr)
		return startErr
	}
	return nil
}
