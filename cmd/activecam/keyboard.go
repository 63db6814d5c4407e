package main

import (
	"github.com/activecam/activecam/pkg/input"
	"github.com/activecam/activecam/pkg/teleop"
)

type KeyboardCommand struct {
	Config   string `long:"config" description:"Path to a config file (default activecam.json if present)"`
	Port     string `long:"port" description:"Serial port of the servo bus (overrides config)"`
	Hz       int    `long:"hz" description:"Control loop frequency (overrides config)"`
	Fake     bool   `long:"fake" description:"Use a simulated driver instead of hardware"`
	SelfTest bool   `long:"self-test" description:"Nudge the yaw joint at startup to verify the mount moves"`
}

func (c *KeyboardCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.Config, c.Port, c.Hz)
	if err != nil {
		return err
	}

	mount, err := newMount(cfg, c.Fake)
	if err != nil {
		return err
	}

	keys := input.NewKeys(cfg.NumJoints(), cfg.YawStep, cfg.PitchStep)

	ctrl, err := teleop.NewController(teleop.Config{
		Mount:            mount,
		Source:           keys,
		Limits:           cfg.Limits,
		Hz:               cfg.Hz,
		HomeStep:         cfg.PitchStep,
		MinCommandChange: cfg.MinCommandChange,
		SelfTest:         c.SelfTest,
	})
	if err != nil {
		mount.Close()
		return err
	}

	return runSession("activecam · keyboard teleoperation", ctrl, keys, cfg.NumJoints())
}
