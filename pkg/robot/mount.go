package robot

import (
	"fmt"
	"time"

	"github.com/activecam/activecam/pkg/dynamixel"
)

// Mount adapts the raw servo driver to logical joint space. Each joint has a
// fixed sign and offset (offsets are a multiple of pi/2 by convention); the
// mount itself performs no I/O beyond delegating to the driver.
type Mount struct {
	driver  dynamixel.Driver
	signs   []float64
	offsets []float64
	torque  bool
}

// NewMount wraps a driver with per-joint calibration. signs entries must be
// -1 or +1; nil signs or offsets default to +1 and 0.
func NewMount(driver dynamixel.Driver, signs, offsets []float64) (*Mount, error) {
	n := driver.NumJoints()

	if signs == nil {
		signs = make([]float64, n)
		for i := range signs {
			signs[i] = 1
		}
	}
	if offsets == nil {
		offsets = make([]float64, n)
	}

	if len(signs) != n || len(offsets) != n {
		return nil, fmt.Errorf("calibration length mismatch: %d joints, %d signs, %d offsets",
			n, len(signs), len(offsets))
	}
	for i, s := range signs {
		if s != 1 && s != -1 {
			return nil, fmt.Errorf("joint %d: sign must be -1 or +1, got %v", i, s)
		}
	}

	return &Mount{
		driver:  driver,
		signs:   signs,
		offsets: offsets,
	}, nil
}

// NumDOFs returns the number of logical joints.
func (m *Mount) NumDOFs() int {
	return m.driver.NumJoints()
}

// JointState returns the current joint positions in logical space:
// wrap((raw - offset) * sign) per joint.
func (m *Mount) JointState() []float64 {
	raw := m.driver.Joints()
	state := make([]float64, len(raw))
	for i, r := range raw {
		state[i] = WrapToPi((r - m.offsets[i]) * m.signs[i])
	}
	return state
}

// CommandJointState commands the mount to the given logical joint positions.
// The angle is mapped back to raw space, wrapped just before being sent to
// the driver.
func (m *Mount) CommandJointState(state []float64) error {
	if len(state) != m.NumDOFs() {
		return fmt.Errorf("expected %d joint values, got %d", m.NumDOFs(), len(state))
	}
	raw := make([]float64, len(state))
	for i, s := range state {
		raw[i] = WrapToPi(s*m.signs[i] + m.offsets[i])
	}
	return m.driver.SetJoints(raw)
}

// CommandAndRTT sends a command and immediately reads back the state,
// returning the observed position and the round-trip time. Used by the
// sweep diagnostic.
func (m *Mount) CommandAndRTT(state []float64) ([]float64, time.Duration, error) {
	start := time.Now()
	if err := m.CommandJointState(state); err != nil {
		return nil, 0, err
	}
	pos := m.JointState()
	return pos, time.Since(start), nil
}

// SetTorque enables or disables torque on all servos. Repeated calls with
// the same mode are skipped.
func (m *Mount) SetTorque(enable bool) error {
	if enable == m.torque {
		return nil
	}
	if err := m.driver.SetTorque(enable); err != nil {
		return err
	}
	m.torque = enable
	return nil
}

// Observations returns the current observations of the mount.
func (m *Mount) Observations() map[string][]float64 {
	return map[string][]float64{"joint_state": m.JointState()}
}

// Close closes the underlying driver.
func (m *Mount) Close() error {
	return m.driver.Close()
}
