// Package robot provides the logical joint-space abstraction over the servo
// driver: calibration, safety limits and session configuration.
package robot

// Robot is the generic control interface at the core boundary. It is
// implemented by Mount for the hardware pan/tilt head and by Composite for
// concatenations of sub-robots; external consumers (recording agents,
// camera pipelines) depend on exactly this contract.
type Robot interface {
	// NumDOFs returns the number of logical joints.
	NumDOFs() int
	// JointState returns the current joint positions in radians, wrapped
	// to [-pi, pi).
	JointState() []float64
	// CommandJointState commands the robot to the given joint positions.
	CommandJointState(state []float64) error
	// Observations returns the current observations keyed by name. The
	// "joint_state" entry is always present.
	Observations() map[string][]float64
}

// Composite implements Robot by delegating index ranges to two sub-robots,
// concatenating their states and observations. Useful when the mount grows
// beyond a single servo chain.
type Composite struct {
	first, second Robot
}

// NewComposite combines two robots into one joint space.
func NewComposite(first, second Robot) *Composite {
	return &Composite{first: first, second: second}
}

func (c *Composite) NumDOFs() int {
	return c.first.NumDOFs() + c.second.NumDOFs()
}

func (c *Composite) JointState() []float64 {
	return append(c.first.JointState(), c.second.JointState()...)
}

func (c *Composite) CommandJointState(state []float64) error {
	n := c.first.NumDOFs()
	if err := c.first.CommandJointState(state[:n]); err != nil {
		return err
	}
	return c.second.CommandJointState(state[n:])
}

func (c *Composite) Observations() map[string][]float64 {
	obs := c.first.Observations()
	for k, v := range c.second.Observations() {
		obs[k] = append(obs[k], v...)
	}
	return obs
}
