package motion

import "math"

// BreakpointKey identifies a breakpoint independent of its position, so
// segments can be referenced stably across spec rebuilds. Keys are either
// supplied by the caller or auto-generated by the builder.
type BreakpointKey string

// Sentinel keys for the infinite limit breakpoints that bound every
// DirectionalMotionSpec.
const (
	MinLimitKey BreakpointKey = "builtin::min-limit"
	MaxLimitKey BreakpointKey = "builtin::max-limit"
)

// Breakpoint is a position in input space where the mapping function may
// change. Crossing it triggers a spring transition using the breakpoint's
// parameters, bounded by its guarantee.
type Breakpoint struct {
	Key       BreakpointKey
	Position  float64
	Spring    SpringParameters
	Guarantee Guarantee
}

// IsLimit reports whether this is one of the infinite sentinel breakpoints.
func (b Breakpoint) IsLimit() bool {
	return math.IsInf(b.Position, 0)
}

// minLimit returns the negative-infinity sentinel. Sentinels never act as
// transition points, but they carry the spec's default spring so a segment
// entered from a limit still has usable parameters.
func minLimit(spring SpringParameters) Breakpoint {
	return Breakpoint{Key: MinLimitKey, Position: math.Inf(-1), Spring: spring}
}

// maxLimit returns the positive-infinity sentinel.
func maxLimit(spring SpringParameters) Breakpoint {
	return Breakpoint{Key: MaxLimitKey, Position: math.Inf(1), Spring: spring}
}
