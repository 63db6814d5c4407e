package robot

import (
	"errors"
	"strings"
	"testing"
)

var testLimits = []Limit{
	{Min: -3, Max: 3},
	{Min: -2.8, Max: -0.3},
	{Min: 0.3, Max: 2.9},
}

func TestValidateStart_OK(t *testing.T) {
	if err := ValidateStart([]float64{0, -1, 1}, testLimits); err != nil {
		t.Errorf("ValidateStart = %v, want nil", err)
	}
}

func TestValidateStart_ReportsAllViolations(t *testing.T) {
	err := ValidateStart([]float64{5, -1, 0}, testLimits)
	if err == nil {
		t.Fatal("ValidateStart should fail")
	}

	var lerr *LimitError
	if !errors.As(err, &lerr) {
		t.Fatalf("error is %T, want *LimitError", err)
	}
	if len(lerr.Violations) != 2 {
		t.Fatalf("got %d violations, want 2", len(lerr.Violations))
	}
	if lerr.Violations[0].Joint != 0 || lerr.Violations[1].Joint != 2 {
		t.Errorf("violations name joints %d and %d, want 0 and 2",
			lerr.Violations[0].Joint, lerr.Violations[1].Joint)
	}
	if !strings.Contains(lerr.Error(), "joint 0") || !strings.Contains(lerr.Error(), "joint 2") {
		t.Errorf("error message should name both joints: %q", lerr.Error())
	}
}

func TestValidateStart_Boundary(t *testing.T) {
	// Values exactly on the bounds are allowed.
	if err := ValidateStart([]float64{3, -2.8, 2.9}, testLimits); err != nil {
		t.Errorf("ValidateStart at boundary = %v, want nil", err)
	}
}

func TestClampCommand_HoldsCurrent(t *testing.T) {
	current := []float64{0, -1, 1}

	tests := []struct {
		name      string
		candidate []float64
		expected  []float64
	}{
		{"all in range", []float64{1, -2, 2}, []float64{1, -2, 2}},
		{"yaw out high", []float64{3.5, -2, 2}, []float64{0, -2, 2}},
		{"pitch pair out", []float64{1, -3.0, 0.1}, []float64{1, -1, 1}},
		{"all out", []float64{-4, 0, 5}, current},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampCommand(tt.candidate, current, testLimits)
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("joint %d = %f, want %f", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestClampCommand_NeverBoundary(t *testing.T) {
	// An out-of-range candidate yields the current value, never the limit
	// boundary it overshot.
	current := []float64{0.5, -1, 1}
	got := ClampCommand([]float64{9, -9, 9}, current, testLimits)
	for i := range got {
		if got[i] != current[i] {
			t.Errorf("joint %d = %f, want current %f", i, got[i], current[i])
		}
		if got[i] == testLimits[i].Min || got[i] == testLimits[i].Max {
			t.Errorf("joint %d snapped to boundary %f", i, got[i])
		}
	}
}
