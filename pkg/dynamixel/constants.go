// Package dynamixel provides low-level serial communication with Dynamixel
// servos for the pan/tilt mount.
package dynamixel

// Protocol and communication constants.
const (
	DefaultBaudRate = 57600

	// Control table addresses (X series, Protocol 2.0)
	AddrTorqueEnable    uint16 = 64
	AddrGoalPosition    uint16 = 116
	AddrPresentPosition uint16 = 132

	LenGoalPosition    = 4
	LenPresentPosition = 4

	TorqueEnable  byte = 1
	TorqueDisable byte = 0

	// Position resolution
	TicksPerRevolution = 4096
	CenterTick         = 2048

	// Full raw travel accepted by the goal position register. This is a
	// hardware floor, independent of the logical joint limits enforced
	// upstream.
	MinTick = 0
	MaxTick = TicksPerRevolution - 1
)
