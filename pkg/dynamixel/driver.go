package dynamixel

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/activecam/activecam/internal/log"
)

// Driver is the contract the joint-space layer programs against. It is
// implemented by BusDriver for real hardware and by FakeDriver for tests
// and dry runs; the variant is chosen at construction time.
//
// Angles are raw actuator-space radians, one per servo, index-aligned with
// the ID ordering fixed at construction.
type Driver interface {
	// SetJoints commands goal positions. It is a no-op while torque is
	// disabled, so commanded state is never silently lost to an unpowered
	// actuator.
	SetJoints(angles []float64) error
	// SetTorque enables or disables torque on every servo.
	SetTorque(enable bool) error
	// TorqueEnabled reports the last commanded torque state.
	TorqueEnabled() bool
	// Joints returns the most recent position snapshot. It never blocks on
	// hardware I/O.
	Joints() []float64
	// NumJoints returns the number of servos on the bus.
	NumJoints() int
	// Close stops background work and releases the bus.
	Close() error
}

const (
	pollPeriod  = 20 * time.Millisecond
	joinTimeout = time.Second
)

// registerBus is the slice of Bus the driver needs. Keeping it narrow lets
// tests substitute a scripted bus for the serial port.
type registerBus interface {
	ReadRegister(id byte, addr uint16, length int) (uint32, error)
	WriteRegister(id byte, addr uint16, data ...byte) error
	Close() error
}

// BusDriver drives real servos over a Bus. A background poller refreshes a
// cached tick vector at a fixed cadence; command writes go out individually
// per servo for responsiveness under fast input polling.
type BusDriver struct {
	bus registerBus
	ids []byte

	mu    sync.Mutex
	ticks []int32

	torqueMu sync.Mutex
	torque   bool

	stop chan struct{}
	done chan struct{}
}

// OpenDriver opens the serial bus and starts the position poller.
func OpenDriver(ids []int, portName string, baudRate int) (*BusDriver, error) {
	bus, err := OpenBus(portName, baudRate)
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	d := newBusDriver(bus, ids)
	go d.poll()
	return d, nil
}

func newBusDriver(bus registerBus, ids []int) *BusDriver {
	byteIDs := make([]byte, len(ids))
	for i, id := range ids {
		byteIDs[i] = byte(id)
	}

	ticks := make([]int32, len(ids))
	for i := range ticks {
		ticks[i] = CenterTick
	}

	return &BusDriver{
		bus:   bus,
		ids:   byteIDs,
		ticks: ticks,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// NumJoints returns the number of servos on the bus.
func (d *BusDriver) NumJoints() int {
	return len(d.ids)
}

// SetTorque enables or disables torque on every servo, sequentially.
func (d *BusDriver) SetTorque(enable bool) error {
	val := TorqueDisable
	if enable {
		val = TorqueEnable
	}

	for _, id := range d.ids {
		if err := d.bus.WriteRegister(id, AddrTorqueEnable, val); err != nil {
			return fmt.Errorf("set torque on servo %d: %w", id, err)
		}
	}

	d.torqueMu.Lock()
	d.torque = enable
	d.torqueMu.Unlock()
	return nil
}

// TorqueEnabled reports the last commanded torque state.
func (d *BusDriver) TorqueEnabled() bool {
	d.torqueMu.Lock()
	defer d.torqueMu.Unlock()
	return d.torque
}

// SetJoints writes goal positions, one register write per servo. Writes are
// not atomic across servos: a failure mid-vector leaves earlier servos
// updated and is logged rather than aborting, since a best-effort partial
// move is safer for independent single-DOF servos than stalling.
func (d *BusDriver) SetJoints(angles []float64) error {
	if len(angles) != len(d.ids) {
		return fmt.Errorf("expected %d angles, got %d", len(d.ids), len(angles))
	}
	if !d.TorqueEnabled() {
		return nil
	}

	for i, id := range d.ids {
		ticks := RadiansToTicks(angles[i])
		if err := d.bus.WriteRegister(id, AddrGoalPosition, Int32ToBytes(ticks)...); err != nil {
			if errors.Is(err, ErrNotOpen) {
				return err
			}
			log.Warn("goal position write failed", "servo", id, "err", err)
		}
	}
	return nil
}

// Joints returns the latest polled positions converted to radians. The cache
// is snapshotted under the lock and converted outside it.
func (d *BusDriver) Joints() []float64 {
	d.mu.Lock()
	snapshot := make([]int32, len(d.ticks))
	copy(snapshot, d.ticks)
	d.mu.Unlock()

	angles := make([]float64, len(snapshot))
	for i, t := range snapshot {
		angles[i] = TicksToRadians(t)
	}
	return angles
}

// poll refreshes the tick cache at a fixed cadence. A cycle replaces the
// cache only when every servo answered; a partial read leaves the previous
// snapshot untouched, so readers always see the last completed cycle.
func (d *BusDriver) poll() {
	defer close(d.done)

	ticker := time.NewTicker(pollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
		}
		d.pollOnce()
	}
}

// pollOnce runs a single poll cycle. It reports whether every servo answered
// and the cache was replaced.
func (d *BusDriver) pollOnce() bool {
	fresh := make([]int32, len(d.ids))
	for i, id := range d.ids {
		val, err := d.bus.ReadRegister(id, AddrPresentPosition, LenPresentPosition)
		if err != nil {
			log.Debug("position read failed", "servo", id, "err", err)
			return false
		}
		fresh[i] = int32(val)
	}

	d.mu.Lock()
	d.ticks = fresh
	d.mu.Unlock()
	return true
}

// Close stops the poller, disables torque best-effort and closes the bus.
// The poller join is bounded so teardown never hangs.
func (d *BusDriver) Close() error {
	select {
	case <-d.stop:
	default:
		close(d.stop)
	}

	select {
	case <-d.done:
	case <-time.After(joinTimeout):
		log.Warn("poller did not stop in time, closing bus anyway")
	}

	if err := d.SetTorque(false); err != nil {
		log.Warn("could not disable torque on close", "err", err)
	}

	return d.bus.Close()
}
