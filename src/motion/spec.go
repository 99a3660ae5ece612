package motion

import (
	"fmt"
	"math"
	"sort"
)

// DirectionalMotionSpec is the ordered breakpoint/mapping sequence for one
// travel direction. Breakpoints[0] is the negative-infinity sentinel and the
// last breakpoint is the positive-infinity sentinel, so Mappings[i] is valid
// on [Breakpoints[i].Position, Breakpoints[i+1].Position] and every finite
// input falls into exactly one segment.
//
// A spec is immutable once built: it is never mutated, only replaced
// wholesale, which makes it safe to share between runtimes.
type DirectionalMotionSpec struct {
	Breakpoints []Breakpoint
	Mappings    []Mapping
}

// NewDirectionalMotionSpec validates and returns a directional spec. Panics
// if the invariants do not hold: at least two breakpoints, infinite
// sentinels at both ends, positions non-strictly ascending, and exactly one
// mapping per pair of adjacent breakpoints.
func NewDirectionalMotionSpec(breakpoints []Breakpoint, mappings []Mapping) *DirectionalMotionSpec {
	s := &DirectionalMotionSpec{Breakpoints: breakpoints, Mappings: mappings}
	s.validate()
	return s
}

func (s *DirectionalMotionSpec) validate() {
	if len(s.Breakpoints) < 2 {
		panic(fmt.Sprintf("motion: spec needs at least 2 breakpoints, got %d", len(s.Breakpoints)))
	}
	if !math.IsInf(s.Breakpoints[0].Position, -1) {
		panic("motion: first breakpoint must be the -Inf sentinel")
	}
	if !math.IsInf(s.Breakpoints[len(s.Breakpoints)-1].Position, 1) {
		panic("motion: last breakpoint must be the +Inf sentinel")
	}
	for i := 1; i < len(s.Breakpoints); i++ {
		if s.Breakpoints[i].Position < s.Breakpoints[i-1].Position {
			panic(fmt.Sprintf("motion: breakpoints out of order at index %d (%v < %v)",
				i, s.Breakpoints[i].Position, s.Breakpoints[i-1].Position))
		}
	}
	if len(s.Mappings) != len(s.Breakpoints)-1 {
		panic(fmt.Sprintf("motion: expected %d mappings for %d breakpoints, got %d",
			len(s.Breakpoints)-1, len(s.Breakpoints), len(s.Mappings)))
	}
}

// BreakpointIndexAt returns the greatest index i with
// Breakpoints[i].Position <= position, clamped to [0, len-2] so the result
// always names a valid segment start. An input exactly on a breakpoint
// resolves to the segment starting at that breakpoint.
func (s *DirectionalMotionSpec) BreakpointIndexAt(position float64) int {
	// First index whose position is strictly greater, minus one.
	n := len(s.Breakpoints)
	idx := sort.Search(n, func(i int) bool {
		return s.Breakpoints[i].Position > position
	}) - 1
	return max(0, min(idx, n-2))
}

// BreakpointIndex returns the index of the breakpoint with the given key, or
// -1 if no breakpoint has that key.
func (s *DirectionalMotionSpec) BreakpointIndex(key BreakpointKey) int {
	for i, b := range s.Breakpoints {
		if b.Key == key {
			return i
		}
	}
	return -1
}

// SegmentIndex returns the index of the segment bounded by the key's min and
// max breakpoints, or -1 if no adjacent breakpoint pair matches.
func (s *DirectionalMotionSpec) SegmentIndex(key SegmentKey) int {
	idx := s.BreakpointIndex(key.MinBreakpoint)
	if idx < 0 || idx+1 >= len(s.Breakpoints) {
		return -1
	}
	if s.Breakpoints[idx+1].Key != key.MaxBreakpoint {
		return -1
	}
	return idx
}

// segmentAt returns the segment containing position for the given direction.
func (s *DirectionalMotionSpec) segmentAt(position float64, direction Direction) SegmentData {
	idx := s.BreakpointIndexAt(position)
	// A min-direction input sitting exactly on a breakpoint belongs to the
	// segment that ends there: min-direction segments are entered from
	// their max side.
	if direction == DirectionMin && idx > 0 && s.Breakpoints[idx].Position == position {
		idx--
	}
	return SegmentData{
		Spec:          s,
		MinBreakpoint: s.Breakpoints[idx],
		MaxBreakpoint: s.Breakpoints[idx+1],
		Direction:     direction,
		Mapping:       s.Mappings[idx],
	}
}

// SegmentHandler overrides the default segment transition for one segment.
// It is called when the input leaves the segment identified by its key, with
// the outgoing segment and the new position/direction. Returning nil defers
// to the default lookup; returning the unchanged segment suppresses the
// transition; any other SegmentData (including one outside the spec) becomes
// the new active segment.
type SegmentHandler func(current SegmentData, position float64, direction Direction) *SegmentData

// MotionSpec pairs a max-direction and a min-direction spec, the spring used
// to reconcile output when the whole spec is swapped at runtime, and an
// optional per-segment override table.
type MotionSpec struct {
	Max *DirectionalMotionSpec
	Min *DirectionalMotionSpec
	// ResetSpring animates the output to its new target when the runtime's
	// spec is replaced wholesale.
	ResetSpring SpringParameters
	// SegmentHandlers overrides segment transitions, keyed by the segment
	// being left.
	SegmentHandlers map[SegmentKey]SegmentHandler
}

// NewMotionSpec builds a MotionSpec from one or two directional specs. A nil
// minSpec means both directions share maxSpec.
func NewMotionSpec(maxSpec, minSpec *DirectionalMotionSpec, resetSpring SpringParameters) *MotionSpec {
	if maxSpec == nil {
		panic("motion: maxSpec must not be nil")
	}
	if minSpec == nil {
		minSpec = maxSpec
	}
	return &MotionSpec{
		Max:             maxSpec,
		Min:             minSpec,
		ResetSpring:     resetSpring,
		SegmentHandlers: make(map[SegmentKey]SegmentHandler),
	}
}

// Get selects the directional spec for the given travel direction.
func (m *MotionSpec) Get(direction Direction) *DirectionalMotionSpec {
	if direction == DirectionMin {
		return m.Min
	}
	return m.Max
}

// SegmentAt returns the segment containing position when travelling in the
// given direction.
func (m *MotionSpec) SegmentAt(position float64, direction Direction) SegmentData {
	return m.Get(direction).segmentAt(position, direction)
}

// OnChangeSegment resolves the segment transition away from current. A
// registered handler for the outgoing segment is consulted first; if it is
// absent or returns nil the default position lookup applies.
func (m *MotionSpec) OnChangeSegment(current SegmentData, position float64, direction Direction) SegmentData {
	if handler, ok := m.SegmentHandlers[current.Key()]; ok {
		if next := handler(current, position, direction); next != nil {
			return *next
		}
	}
	return m.SegmentAt(position, direction)
}

// SegmentKey identifies a direction-qualified segment by its bounding
// breakpoint keys. MinBreakpoint always names the lower-position side.
type SegmentKey struct {
	MinBreakpoint BreakpointKey
	MaxBreakpoint BreakpointKey
	Direction     Direction
}

// SegmentData is the denormalized view of one active segment: its bounds,
// direction and mapping, plus the spec it came from. Runtimes cache it and
// only recompute when IsValidForInput fails.
type SegmentData struct {
	Spec          *DirectionalMotionSpec
	MinBreakpoint Breakpoint
	MaxBreakpoint Breakpoint
	Direction     Direction
	Mapping       Mapping
}

// Key returns the value identity of this segment.
func (s SegmentData) Key() SegmentKey {
	return SegmentKey{
		MinBreakpoint: s.MinBreakpoint.Key,
		MaxBreakpoint: s.MaxBreakpoint.Key,
		Direction:     s.Direction,
	}
}

// EntryBreakpoint returns the breakpoint on the side the input entered the
// segment from: the min side for DirectionMax, the max side for
// DirectionMin. Its spring and guarantee govern the transition into this
// segment.
func (s SegmentData) EntryBreakpoint() Breakpoint {
	if s.Direction == DirectionMin {
		return s.MaxBreakpoint
	}
	return s.MinBreakpoint
}

// IsValidForInput reports whether this cached segment still applies to the
// given input. A segment is invalid for the other direction, and invalid
// once the position reaches its exit side (the max breakpoint for
// DirectionMax, the min breakpoint for DirectionMin). Positions past the
// entry side stay valid on purpose: right after a direction flip the input
// often sits slightly behind the entry breakpoint, and invalidating there
// would thrash segment lookups.
func (s SegmentData) IsValidForInput(position float64, direction Direction) bool {
	if direction != s.Direction {
		return false
	}
	if direction == DirectionMax {
		return position < s.MaxBreakpoint.Position
	}
	return position > s.MinBreakpoint.Position
}
