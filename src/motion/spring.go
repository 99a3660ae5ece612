package motion

import "math"

// SpringParameters are the tunables of a damped harmonic oscillator: how
// strongly the output is pulled toward its target and how that pull decays.
type SpringParameters struct {
	// Stiffness is the spring constant for unit mass; the natural angular
	// frequency of the oscillator is sqrt(Stiffness).
	Stiffness float64
	// DampingRatio is 1 for critical damping, <1 underdamped, >1 overdamped.
	DampingRatio float64
}

// AngularFrequency returns the undamped natural angular frequency.
func (p SpringParameters) AngularFrequency() float64 {
	return math.Sqrt(p.Stiffness)
}

// SpringState is the transient state of a single spring simulation.
type SpringState struct {
	Position float64
	Velocity float64
}

// IsStable reports whether the state is within threshold of the target with
// negligible velocity.
func (s SpringState) IsStable(target, threshold float64) bool {
	return math.Abs(s.Position-target) <= threshold && math.Abs(s.Velocity) <= threshold
}

// GuaranteeKind selects the completion policy for the spring transition
// triggered at a breakpoint.
type GuaranteeKind int

const (
	// GuaranteeNone lets the transition settle at the spring's natural pace.
	GuaranteeNone GuaranteeKind = iota
	// GuaranteeGestureDistance forces the transition to complete before the
	// gesture travels Guarantee.Distance past the point of entry.
	GuaranteeGestureDistance
)

// Guarantee bounds how the spring transition triggered at a breakpoint must
// resolve. The zero value is "no guarantee".
type Guarantee struct {
	Kind GuaranteeKind
	// Distance is the gesture-travel budget for GuaranteeGestureDistance;
	// unused for GuaranteeNone.
	Distance float64
}

// None returns the unconstrained guarantee.
func None() Guarantee {
	return Guarantee{Kind: GuaranteeNone}
}

// GestureDistance returns a guarantee that the transition settles within the
// given gesture travel distance.
func GestureDistance(distance float64) Guarantee {
	return Guarantee{Kind: GuaranteeGestureDistance, Distance: distance}
}
