package dynamixel

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

// mockBus is a scripted register bus. Reads return the positions map; writes
// are recorded. Individual servos can be failed per direction.
type mockBus struct {
	positions map[byte]uint32
	failRead  map[byte]bool
	failWrite map[byte]bool

	writes []busWrite
	closed bool
}

type busWrite struct {
	id   byte
	addr uint16
	data []byte
}

func newMockBus(positions map[byte]uint32) *mockBus {
	return &mockBus{
		positions: positions,
		failRead:  map[byte]bool{},
		failWrite: map[byte]bool{},
	}
}

func (m *mockBus) ReadRegister(id byte, addr uint16, length int) (uint32, error) {
	if m.closed {
		return 0, ErrNotOpen
	}
	if m.failRead[id] {
		return 0, fmt.Errorf("servo %d: no status packet", id)
	}
	return m.positions[id], nil
}

func (m *mockBus) WriteRegister(id byte, addr uint16, data ...byte) error {
	if m.closed {
		return ErrNotOpen
	}
	if m.failWrite[id] {
		return fmt.Errorf("servo %d: write failed", id)
	}
	m.writes = append(m.writes, busWrite{id: id, addr: addr, data: data})
	return nil
}

func (m *mockBus) Close() error {
	m.closed = true
	return nil
}

func (m *mockBus) writesTo(addr uint16) []busWrite {
	var out []busWrite
	for _, w := range m.writes {
		if w.addr == addr {
			out = append(out, w)
		}
	}
	return out
}

func TestBusDriver_PollReplacesCacheOnSuccess(t *testing.T) {
	bus := newMockBus(map[byte]uint32{2: 1024, 1: 2048, 3: 3072})
	d := newBusDriver(bus, []int{2, 1, 3})

	if !d.pollOnce() {
		t.Fatal("pollOnce failed with all servos answering")
	}

	want := []float64{
		TicksToRadians(1024),
		TicksToRadians(2048),
		TicksToRadians(3072),
	}
	got := d.Joints()
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("joints[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestBusDriver_PollKeepsCacheOnPartialFailure(t *testing.T) {
	bus := newMockBus(map[byte]uint32{2: 1024, 1: 2048, 3: 3072})
	d := newBusDriver(bus, []int{2, 1, 3})
	if !d.pollOnce() {
		t.Fatal("initial pollOnce failed")
	}
	before := d.Joints()

	// Servo in the middle of the cycle stops answering; the fresh values
	// from servos before it must not leak into the cache.
	bus.positions[2] = 9
	bus.failRead[1] = true
	bus.positions[3] = 9

	if d.pollOnce() {
		t.Fatal("pollOnce reported success with a failing servo")
	}
	after := d.Joints()
	for i := range before {
		if math.Abs(after[i]-before[i]) > 1e-9 {
			t.Errorf("joints[%d] = %f after failed cycle, want %f", i, after[i], before[i])
		}
	}
}

func TestBusDriver_SetJointsRequiresTorque(t *testing.T) {
	bus := newMockBus(map[byte]uint32{2: 2048, 1: 2048, 3: 2048})
	d := newBusDriver(bus, []int{2, 1, 3})

	if err := d.SetJoints([]float64{0.1, 0.2, 0.3}); err != nil {
		t.Fatalf("SetJoints with torque off: %v", err)
	}
	if got := bus.writesTo(AddrGoalPosition); len(got) != 0 {
		t.Fatalf("expected no goal writes with torque off, got %d", len(got))
	}

	if err := d.SetTorque(true); err != nil {
		t.Fatalf("SetTorque: %v", err)
	}
	if err := d.SetJoints([]float64{0.1, 0.2, 0.3}); err != nil {
		t.Fatalf("SetJoints: %v", err)
	}
	writes := bus.writesTo(AddrGoalPosition)
	if len(writes) != 3 {
		t.Fatalf("expected 3 goal writes, got %d", len(writes))
	}
	// ID order follows the configured joint ordering, not numeric order.
	wantIDs := []byte{2, 1, 3}
	wantAngles := []float64{0.1, 0.2, 0.3}
	for i, w := range writes {
		if w.id != wantIDs[i] {
			t.Errorf("write %d went to servo %d, want %d", i, w.id, wantIDs[i])
		}
		if got, want := BytesToInt32(w.data), RadiansToTicks(wantAngles[i]); got != want {
			t.Errorf("write %d ticks = %d, want %d", i, got, want)
		}
	}
}

func TestBusDriver_SetJointsContinuesPastFailedWrite(t *testing.T) {
	bus := newMockBus(map[byte]uint32{2: 2048, 1: 2048, 3: 2048})
	d := newBusDriver(bus, []int{2, 1, 3})
	if err := d.SetTorque(true); err != nil {
		t.Fatalf("SetTorque: %v", err)
	}
	bus.writes = nil

	bus.failWrite[1] = true
	if err := d.SetJoints([]float64{0.1, 0.2, 0.3}); err != nil {
		t.Fatalf("SetJoints should tolerate one failed servo: %v", err)
	}

	writes := bus.writesTo(AddrGoalPosition)
	if len(writes) != 2 {
		t.Fatalf("expected 2 goal writes around the failure, got %d", len(writes))
	}
	if writes[0].id != 2 || writes[1].id != 3 {
		t.Errorf("writes went to servos %d,%d, want 2,3", writes[0].id, writes[1].id)
	}
}

func TestBusDriver_SetJointsClosedBus(t *testing.T) {
	bus := newMockBus(map[byte]uint32{2: 2048})
	d := newBusDriver(bus, []int{2})
	if err := d.SetTorque(true); err != nil {
		t.Fatalf("SetTorque: %v", err)
	}
	bus.Close()

	if err := d.SetJoints([]float64{0.1}); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("SetJoints on closed bus = %v, want ErrNotOpen", err)
	}
}

func TestBusDriver_LengthMismatch(t *testing.T) {
	d := newBusDriver(newMockBus(nil), []int{2, 1, 3})
	if err := d.SetJoints([]float64{0.1}); err == nil {
		t.Fatal("SetJoints should reject a short vector")
	}
}
