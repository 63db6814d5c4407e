// Package activecam provides real-time teleoperation control for a small
// Dynamixel-driven pan/tilt camera mount.
//
// An operator steers the mount either with arrow keys or with a continuous
// head-orientation stream delivered over UDP (e.g. from a VR headset). The
// controller turns that input into rate-limited, debounced joint commands
// while a background poller keeps a live feedback cache of the true servo
// positions for closed-loop safety checks.
//
// # Usage
//
// Start keyboard teleoperation:
//
//	activecam keyboard
//
// Or drive the mount from a head tracker:
//
//	activecam track
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/activecam: CLI with keyboard, track, sweep and listen commands
//   - pkg/dynamixel: serial bus transport and position-polling servo driver
//   - pkg/robot: joint-space calibration, safety limits and configuration
//   - pkg/input: keyboard and UDP head-tracker input sources
//   - pkg/teleop: the control loop and session lifecycle
package activecam
