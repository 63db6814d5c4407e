// Package input provides the operator input sources for teleoperation: a
// discrete keyboard source and a continuous UDP head-tracker source. Both
// satisfy the same non-blocking sample contract consumed once per control
// tick.
package input

import "time"

// Sample is one operator input reading. It is either a per-joint delta
// (keyboard) or an absolute zero-referenced orientation offset in degrees
// (head tracker), indicated by Absolute. Samples are consumed immediately by
// the control loop and never persisted.
type Sample struct {
	// Delta is a per-joint step in radians. Set for keyboard samples.
	Delta []float64

	// Pitch and Yaw are orientation offsets in degrees relative to the
	// session's reference zero, wrapped to (-180, 180]. Set for tracker
	// samples.
	Pitch float64
	Yaw   float64

	// Absolute is true for tracker samples and false for deltas.
	Absolute bool

	// At is when the sample was produced.
	At time.Time
}

// Source produces operator input. Sample never blocks; it returns false when
// no fresh input is available this tick.
type Source interface {
	Sample() (Sample, bool)
	Close() error
}
