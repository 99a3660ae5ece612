// Package motion maps a raw scalar input signal onto a smoothly animated
// output value. A MotionSpec describes the desired output as a sequence of
// breakpoints with mapping functions between them, separately for each travel
// direction; a Runtime walks that spec once per display frame and drives a
// spring simulation toward the mapped target. Direction itself is tracked
// with slop-based hysteresis so noisy input doesn't flip-flop near
// transition points.
package motion

// Direction identifies which way the input is travelling. It selects the
// active DirectionalMotionSpec and decides which side of a segment counts as
// the entry side.
type Direction int

const (
	// DirectionMax means the input is travelling toward larger values.
	DirectionMax Direction = iota
	// DirectionMin means the input is travelling toward smaller values.
	DirectionMin
)

// String returns "max" or "min".
func (d Direction) String() string {
	if d == DirectionMin {
		return "min"
	}
	return "max"
}
