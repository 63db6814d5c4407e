package dynamixel

import (
	"math"
	"testing"
)

func TestTicksToRadians(t *testing.T) {
	tests := []struct {
		ticks    int32
		expected float64
	}{
		{2048, 0},            // center -> 0
		{0, -math.Pi},        // min -> -pi
		{4096, math.Pi},      // full turn -> pi
		{3072, math.Pi / 2},  // three-quarter -> pi/2
		{1024, -math.Pi / 2}, // quarter -> -pi/2
		{2048 + 512, math.Pi / 4},
	}

	for _, tt := range tests {
		got := TicksToRadians(tt.ticks)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("TicksToRadians(%d) = %f, want %f", tt.ticks, got, tt.expected)
		}
	}
}

func TestRadiansToTicks(t *testing.T) {
	tests := []struct {
		radians  float64
		expected int32
	}{
		{0, 2048},
		{math.Pi / 2, 3072},
		{-math.Pi / 2, 1024},
		{math.Pi, 4095},      // full positive travel clamps to the register max
		{-math.Pi, 0},        // full negative travel clamps to the register min
		{10 * math.Pi, 4095}, // multi-turn request hits the hardware floor
		{-10 * math.Pi, 0},
	}

	for _, tt := range tests {
		got := RadiansToTicks(tt.radians)
		if got != tt.expected {
			t.Errorf("RadiansToTicks(%f) = %d, want %d", tt.radians, got, tt.expected)
		}
	}
}

func TestConversions_RoundTrip(t *testing.T) {
	// Within single-turn travel the conversion round-trips to tick precision.
	for ticks := int32(0); ticks <= MaxTick; ticks += 100 {
		rad := TicksToRadians(ticks)
		back := RadiansToTicks(rad)
		if back != ticks {
			t.Errorf("round-trip failed: %d -> %f -> %d", ticks, rad, back)
		}
	}
}

func TestInt32Bytes_RoundTrip(t *testing.T) {
	for _, val := range []int32{0, 1, 2048, 4095, -1, -2048} {
		if got := BytesToInt32(Int32ToBytes(val)); got != val {
			t.Errorf("byte round-trip failed: %d -> %d", val, got)
		}
	}
}

func TestBytesToInt32_Short(t *testing.T) {
	if got := BytesToInt32([]byte{1, 2}); got != 0 {
		t.Errorf("BytesToInt32(short) = %d, want 0", got)
	}
}
