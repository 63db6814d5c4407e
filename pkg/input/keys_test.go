package input

import (
	"math"
	"testing"
)

func TestKeys_NoInput(t *testing.T) {
	k := NewKeys(3, 0.25, 0.3)
	if _, ok := k.Sample(); ok {
		t.Error("Sample should return false with no key pressed")
	}
}

func TestKeys_Steps(t *testing.T) {
	tests := []struct {
		key      string
		expected []float64
	}{
		{"left", []float64{-0.25, 0, 0}},
		{"right", []float64{0.25, 0, 0}},
		{"up", []float64{0, 0.3, 0.3}},
		{"down", []float64{0, -0.3, -0.3}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			k := NewKeys(3, 0.25, 0.3)
			if !k.Handle(tt.key) {
				t.Fatalf("Handle(%q) = false", tt.key)
			}

			s, ok := k.Sample()
			if !ok {
				t.Fatal("Sample returned false after key press")
			}
			if s.Absolute {
				t.Error("keyboard sample should not be absolute")
			}
			for i, want := range tt.expected {
				if math.Abs(s.Delta[i]-want) > 1e-9 {
					t.Errorf("delta[%d] = %f, want %f", i, s.Delta[i], want)
				}
			}

			// The delta is drained: a second sample is empty.
			if _, ok := k.Sample(); ok {
				t.Error("Sample should return false once drained")
			}
		})
	}
}

func TestKeys_AccumulatesWithinTick(t *testing.T) {
	k := NewKeys(3, 0.25, 0.3)
	k.Handle("left")
	k.Handle("left")
	k.Handle("up")

	s, ok := k.Sample()
	if !ok {
		t.Fatal("Sample returned false")
	}
	want := []float64{-0.5, 0.3, 0.3}
	for i := range want {
		if math.Abs(s.Delta[i]-want[i]) > 1e-9 {
			t.Errorf("delta[%d] = %f, want %f", i, s.Delta[i], want[i])
		}
	}
}

func TestKeys_TwoJointMount(t *testing.T) {
	k := NewKeys(2, 0.25, 0.3)
	k.Handle("up")
	k.Handle("left")

	s, ok := k.Sample()
	if !ok {
		t.Fatal("Sample returned false")
	}
	want := []float64{-0.25, 0.3}
	if len(s.Delta) != len(want) {
		t.Fatalf("len(delta) = %d, want %d", len(s.Delta), len(want))
	}
	for i := range want {
		if math.Abs(s.Delta[i]-want[i]) > 1e-9 {
			t.Errorf("delta[%d] = %f, want %f", i, s.Delta[i], want[i])
		}
	}
}

func TestKeys_IgnoresOtherKeys(t *testing.T) {
	k := NewKeys(3, 0.25, 0.3)
	if k.Handle("x") {
		t.Error("Handle should reject unrelated keys")
	}
	if _, ok := k.Sample(); ok {
		t.Error("unrelated key should not produce a sample")
	}
}
