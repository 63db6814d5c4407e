package robot

import (
	"fmt"
	"strings"
)

// Limit is an absolute per-joint bound in logical space, independent of the
// raw-tick range the driver clamps to.
type Limit struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the bound.
func (l Limit) Contains(v float64) bool {
	return v >= l.Min && v <= l.Max
}

// Violation describes one joint found outside its bound.
type Violation struct {
	Joint int
	Value float64
	Limit Limit
}

// LimitError aggregates every violating joint so an operator sees the
// complete picture before intervening.
type LimitError struct {
	Violations []Violation
}

func (e *LimitError) Error() string {
	var sb strings.Builder
	sb.WriteString("joint limits violated:")
	for _, v := range e.Violations {
		fmt.Fprintf(&sb, " joint %d at %.2f rad outside [%.2f, %.2f];",
			v.Joint, v.Value, v.Limit.Min, v.Limit.Max)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// ValidateStart checks a start position against the absolute limits and
// returns a *LimitError naming all out-of-bounds joints. A violating start
// is never auto-corrected: moving an out-of-bounds mount is a physical risk,
// so the session must abort and the operator reposition it by hand.
func ValidateStart(position []float64, limits []Limit) error {
	var violations []Violation
	for i, v := range position {
		if !limits[i].Contains(v) {
			violations = append(violations, Violation{Joint: i, Value: v, Limit: limits[i]})
		}
	}
	if violations != nil {
		return &LimitError{Violations: violations}
	}
	return nil
}

// ClampCommand filters a candidate command against the limits. A joint whose
// candidate is in range adopts it; one whose candidate is out of range holds
// its current value instead. Holding position is judged safer than snapping
// to the limit boundary.
func ClampCommand(candidate, current []float64, limits []Limit) []float64 {
	out := make([]float64, len(candidate))
	for i := range candidate {
		if limits[i].Contains(candidate[i]) {
			out[i] = candidate[i]
		} else {
			out[i] = current[i]
		}
	}
	return out
}
