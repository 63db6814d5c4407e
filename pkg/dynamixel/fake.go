package dynamixel

import (
	"fmt"
	"sync"
)

// FakeDriver is an in-memory Driver for tests and dry runs without hardware.
// Commanded positions are reported back immediately, as if the servos moved
// instantly.
type FakeDriver struct {
	mu     sync.Mutex
	angles []float64
	torque bool
	closed bool
}

// NewFakeDriver creates a fake driver with the given number of joints, all
// starting at zero.
func NewFakeDriver(numJoints int) *FakeDriver {
	return &FakeDriver{
		angles: make([]float64, numJoints),
	}
}

// NumJoints returns the number of simulated servos.
func (d *FakeDriver) NumJoints() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.angles)
}

// SetJoints stores the commanded angles. Like the hardware driver, it is a
// no-op while torque is disabled.
func (d *FakeDriver) SetJoints(angles []float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrNotOpen
	}
	if len(angles) != len(d.angles) {
		return fmt.Errorf("expected %d angles, got %d", len(d.angles), len(angles))
	}
	if !d.torque {
		return nil
	}
	copy(d.angles, angles)
	return nil
}

// SetTorque records the torque state.
func (d *FakeDriver) SetTorque(enable bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrNotOpen
	}
	d.torque = enable
	return nil
}

// TorqueEnabled reports the recorded torque state.
func (d *FakeDriver) TorqueEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.torque
}

// Joints returns a copy of the last commanded angles.
func (d *FakeDriver) Joints() []float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]float64, len(d.angles))
	copy(out, d.angles)
	return out
}

// Close marks the driver closed.
func (d *FakeDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}
