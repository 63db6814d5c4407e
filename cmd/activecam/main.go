package main

import (
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/activecam/activecam/internal/log"
)

type Options struct {
	LogLevel string `long:"log-level" default:"info" description:"Log level: debug, info, warn or error"`

	Keyboard KeyboardCommand `command:"keyboard" alias:"keys" description:"Teleoperate the mount with arrow keys"`
	Track    TrackCommand    `command:"track" description:"Drive the mount from a UDP head tracker"`
	Sweep    SweepCommand    `command:"sweep" description:"Sweep one joint through a range (diagnostic)"`
	Listen   ListenCommand   `command:"listen" description:"Dump incoming head-tracker datagrams (diagnostic)"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "activecam - teleoperation CLI for a Dynamixel pan/tilt camera mount"
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		log.Init(opts.LogLevel)
		return cmd.Execute(args)
	}

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
