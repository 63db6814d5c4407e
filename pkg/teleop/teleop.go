// Package teleop provides the teleoperation control loop for the pan/tilt
// mount: it merges operator input with live joint feedback into safe,
// rate-limited, debounced commands, and handles session startup and
// shutdown.
package teleop

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/activecam/activecam/pkg/input"
	"github.com/activecam/activecam/pkg/robot"
)

// Phase is the session state. A session moves Homing -> Active and ends in
// ReturningHome.
type Phase int

const (
	PhaseHoming Phase = iota
	PhaseActive
	PhaseReturningHome
)

func (p Phase) String() string {
	switch p {
	case PhaseHoming:
		return "homing"
	case PhaseActive:
		return "active"
	case PhaseReturningHome:
		return "returning-home"
	default:
		return "unknown"
	}
}

// Mount is the robot surface the controller drives.
type Mount interface {
	robot.Robot
	SetTorque(enable bool) error
	Close() error
}

// State is a snapshot of the session published to observers.
type State struct {
	Phase     Phase
	Positions []float64 // live joint feedback, radians
	Target    []float64 // last sent command, radians
	Timestamp time.Time
	Error     error
}

// Config holds configuration for the controller.
type Config struct {
	Mount  Mount
	Source input.Source
	// Limits are the absolute per-joint bounds enforced at startup and on
	// every command.
	Limits []robot.Limit
	// Hz is the control tick rate.
	Hz int
	// HomeStep is the step magnitude used when ramping back home.
	HomeStep float64
	// MinCommandChange is the debounce threshold in command-space distance.
	MinCommandChange float64
	// StaleAfter enables staleness handling when positive: if the source
	// stays silent this long, the loop eases the mount back toward home.
	StaleAfter time.Duration
	// YawSensitivity and PitchSensitivity scale absolute tracker offsets
	// into joint motion.
	YawSensitivity   float64
	PitchSensitivity float64
	// SelfTest nudges the yaw joint after homing to verify the mount
	// responds to commands.
	SelfTest bool
}

// Controller manages one teleoperation session.
type Controller struct {
	cfg Config

	home      []float64
	lastSent  []float64
	lastInput time.Time
	stale     bool
	phase     Phase

	mu      sync.Mutex
	running bool
	stateCh chan State
	logCh   chan string
}

const settleDelay = 200 * time.Millisecond

// NewController creates a controller for the given session configuration.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Mount == nil || cfg.Source == nil {
		return nil, fmt.Errorf("mount and source are required")
	}
	if len(cfg.Limits) != cfg.Mount.NumDOFs() {
		return nil, fmt.Errorf("expected %d limits, got %d", cfg.Mount.NumDOFs(), len(cfg.Limits))
	}
	if cfg.Hz <= 0 {
		cfg.Hz = 50
	}
	if cfg.HomeStep <= 0 {
		cfg.HomeStep = 0.3
	}
	if cfg.YawSensitivity == 0 {
		cfg.YawSensitivity = 1
	}
	if cfg.PitchSensitivity == 0 {
		cfg.PitchSensitivity = 1
	}

	return &Controller{
		cfg:     cfg,
		phase:   PhaseHoming,
		stateCh: make(chan State, 1),
		logCh:   make(chan string, 10),
	}, nil
}

// States returns a channel that receives state updates. Old states are
// dropped when the consumer lags.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Hz returns the control frequency.
func (c *Controller) Hz() int {
	return c.cfg.Hz
}

// Home returns the position captured at session start, or nil before homing
// completes.
func (c *Controller) Home() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.home == nil {
		return nil
	}
	out := make([]float64, len(c.home))
	copy(out, c.home)
	return out
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Start runs the session until ctx is cancelled: homing capture, the active
// control loop, then the return-home ramp. The fatal-error path still
// attempts a torque disable before returning.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.mu.Unlock()

	if err := c.begin(); err != nil {
		c.cfg.Mount.SetTorque(false)
		return err
	}

	ticker := time.NewTicker(time.Second / time.Duration(c.cfg.Hz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.returnHome()
			return ctx.Err()
		case <-ticker.C:
			c.step()
		}
	}
}

// begin performs the startup homing capture: enable torque, let the feedback
// cache settle, record the physical pose as home and validate it against the
// absolute limits. An out-of-bounds start aborts; the mount must be moved by
// hand, never auto-corrected.
func (c *Controller) begin() error {
	if err := c.cfg.Mount.SetTorque(true); err != nil {
		return fmt.Errorf("enable torque: %w", err)
	}
	time.Sleep(settleDelay)

	home := c.cfg.Mount.JointState()
	if err := robot.ValidateStart(home, c.cfg.Limits); err != nil {
		c.log("unsafe start position: %v", err)
		return fmt.Errorf("start position outside limits, move the mount by hand: %w", err)
	}

	c.mu.Lock()
	c.home = home
	c.mu.Unlock()
	c.lastSent = make([]float64, len(home))
	copy(c.lastSent, home)
	c.lastInput = time.Now()

	c.log("home position captured at %s", fmtJoints(home))

	if c.cfg.SelfTest {
		c.selfTest(home)
	}

	c.phase = PhaseActive
	c.sendState(State{Phase: PhaseActive, Positions: home, Target: c.lastSent, Timestamp: time.Now()})
	return nil
}

// selfTest nudges the yaw joint and confirms the feedback moved. A failure
// is reported but does not abort: the operator decides whether to continue.
func (c *Controller) selfTest(home []float64) {
	probe := make([]float64, len(home))
	copy(probe, home)
	probe[0] += 0.1

	if err := c.cfg.Mount.CommandJointState(probe); err != nil {
		c.log("self-test command failed: %v", err)
		return
	}
	time.Sleep(500 * time.Millisecond)

	if robot.Norm(c.cfg.Mount.JointState(), home) > 0.05 {
		c.log("movement self-test passed")
	} else {
		c.log("movement self-test failed: check power, torque and cabling")
	}

	c.cfg.Mount.CommandJointState(home)
	time.Sleep(settleDelay)
}

// step runs one control tick in the active phase.
func (c *Controller) step() {
	current := c.cfg.Mount.JointState()

	var candidate []float64
	sample, ok := c.cfg.Source.Sample()
	switch {
	case ok:
		c.lastInput = time.Now()
		c.stale = false
		if sample.Absolute {
			candidate = c.targetFromOffsets(sample)
		} else {
			candidate = make([]float64, len(current))
			for i := range current {
				candidate[i] = current[i] + sample.Delta[i]
			}
		}
	case c.cfg.StaleAfter > 0 && time.Since(c.lastInput) > c.cfg.StaleAfter:
		// No fresh data: ease back toward home instead of holding an
		// operator pose that no longer reflects anyone's head.
		if !c.stale {
			c.stale = true
			c.log("input stale for %v, easing back home", c.cfg.StaleAfter)
		}
		candidate = stepToward(current, c.homeSnapshot(), c.cfg.HomeStep)
	default:
		return
	}

	final := robot.ClampCommand(candidate, current, c.cfg.Limits)

	// Debounce: sub-resolution deltas buzz the motors without moving them.
	if robot.Norm(final, c.lastSent) <= c.cfg.MinCommandChange {
		return
	}

	if err := c.cfg.Mount.CommandJointState(final); err != nil {
		c.log("command failed: %v", err)
		c.sendState(State{Phase: c.phase, Positions: current, Target: c.lastSent, Error: err, Timestamp: time.Now()})
		return
	}
	copy(c.lastSent, final)

	c.sendState(State{Phase: c.phase, Positions: current, Target: final, Timestamp: time.Now()})
}

// targetFromOffsets maps zero-referenced tracker offsets onto the home pose:
// yaw drives joint 0, pitch drives the coupled pair identically in logical
// space (their configured signs separate them in raw space).
func (c *Controller) targetFromOffsets(s input.Sample) []float64 {
	home := c.homeSnapshot()
	target := make([]float64, len(home))
	copy(target, home)

	yaw := s.Yaw * math.Pi / 180 * c.cfg.YawSensitivity
	pitch := s.Pitch * math.Pi / 180 * c.cfg.PitchSensitivity

	target[0] -= yaw
	if len(target) > 2 {
		target[1] += pitch
		target[2] += pitch
	} else if len(target) > 1 {
		target[1] += pitch
	}
	return target
}

func (c *Controller) homeSnapshot() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.home
}

// returnHome ramps the mount back to the captured home pose in fixed-size
// steps from live feedback, then sends the exact home once and disables
// torque. The iteration count is bounded so shutdown never hangs on a
// non-converging mount.
func (c *Controller) returnHome() {
	c.phase = PhaseReturningHome
	home := c.homeSnapshot()
	if home == nil {
		return
	}
	c.log("returning to home position")

	period := time.Second / time.Duration(c.cfg.Hz)
	maxSteps := int((10 * time.Second) / period)

	for i := 0; i < maxSteps; i++ {
		current := c.cfg.Mount.JointState()
		if robot.Norm(current, home) <= c.cfg.HomeStep {
			break
		}
		next := stepToward(current, home, c.cfg.HomeStep)
		if err := c.cfg.Mount.CommandJointState(next); err != nil {
			c.log("return-home command failed: %v", err)
			break
		}
		c.sendState(State{Phase: PhaseReturningHome, Positions: current, Target: next, Timestamp: time.Now()})
		time.Sleep(period)
	}

	if err := c.cfg.Mount.CommandJointState(home); err != nil {
		c.log("final home command failed: %v", err)
	}
	time.Sleep(settleDelay)

	if err := c.cfg.Mount.SetTorque(false); err != nil {
		c.log("could not disable torque: %v", err)
	}
	c.log("session ended")
}

// Close releases the session's resources.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()

	var errs []error
	if err := c.cfg.Source.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := c.cfg.Mount.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		c.stateCh <- s
	}
}

// stepToward returns a point one step of the given magnitude from current
// toward target, or target itself once within a single step.
func stepToward(current, target []float64, step float64) []float64 {
	dist := robot.Norm(current, target)
	if dist <= step {
		out := make([]float64, len(target))
		copy(out, target)
		return out
	}
	out := make([]float64, len(current))
	for i := range current {
		out[i] = current[i] + (target[i]-current[i])/dist*step
	}
	return out
}

func fmtJoints(v []float64) string {
	s := "["
	for i, x := range v {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%.2f", x)
	}
	return s + "]"
}
