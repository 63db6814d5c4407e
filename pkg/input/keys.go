package input

import (
	"sync"
	"time"
)

// Keys is the discrete keyboard source. Key events (from the TUI) accumulate
// a pending per-joint delta which the next Sample call drains. Joint 0 is
// yaw; joints 1 and 2 are the coupled pitch pair and always step together
// with matched sign.
type Keys struct {
	mu        sync.Mutex
	pending   []float64
	dirty     bool
	yawStep   float64
	pitchStep float64
}

// NewKeys creates a keyboard source for a mount with numJoints joints.
func NewKeys(numJoints int, yawStep, pitchStep float64) *Keys {
	return &Keys{
		pending:   make([]float64, numJoints),
		yawStep:   yawStep,
		pitchStep: pitchStep,
	}
}

// Handle records one key event. It reports whether the key was a movement
// key. Recognized keys: "left", "right" (yaw), "up", "down" (pitch pair).
func (k *Keys) Handle(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch key {
	case "left":
		k.pending[0] -= k.yawStep
	case "right":
		k.pending[0] += k.yawStep
	case "up":
		k.stepPitch(k.pitchStep)
	case "down":
		k.stepPitch(-k.pitchStep)
	default:
		return false
	}
	k.dirty = true
	return true
}

// stepPitch steps every pitch joint the mount actually has. A two-joint
// mount has a single pitch joint; a three-joint mount has the coupled pair.
func (k *Keys) stepPitch(step float64) {
	if len(k.pending) > 1 {
		k.pending[1] += step
	}
	if len(k.pending) > 2 {
		k.pending[2] += step
	}
}

// Sample drains the pending delta. It returns false when no movement key was
// pressed since the previous tick.
func (k *Keys) Sample() (Sample, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.dirty {
		return Sample{}, false
	}

	delta := k.pending
	k.pending = make([]float64, len(delta))
	k.dirty = false

	return Sample{Delta: delta, At: time.Now()}, true
}

// Close satisfies Source. The keyboard source holds no resources.
func (k *Keys) Close() error {
	return nil
}
