package motion

import (
	"fmt"
	"math"
	"slices"
)

// builderPhase tracks which calls are legal next on a SpecBuilder. Calling a
// method out of phase is a programming error and panics immediately.
type builderPhase int

const (
	// phaseSegment: a mapping is active; the next call terminates it with a
	// breakpoint or completes the spec.
	phaseSegment builderPhase = iota
	// phaseBreakpoint: a breakpoint was just placed; the next call defines
	// the segment that starts there.
	phaseBreakpoint
	// phaseAnchor: JumpTo/JumpBy anchored an output value at the last
	// breakpoint; the next call chooses the shape of the pending segment.
	phaseAnchor
	// phaseTarget: the pending segment ends at a target output value; the
	// slope resolves once the next breakpoint position is known.
	phaseTarget
	// phaseDone: Complete was called; the builder is spent.
	phaseDone
)

func (p builderPhase) String() string {
	switch p {
	case phaseSegment:
		return "segment"
	case phaseBreakpoint:
		return "breakpoint"
	case phaseAnchor:
		return "anchor"
	case phaseTarget:
		return "target"
	default:
		return "done"
	}
}

// SpecBuilder assembles a DirectionalMotionSpec from an ordered list of
// breakpoints and the mappings between them. Breakpoint positions must be
// supplied in a single monotonic order: ascending for NewSpecBuilder,
// descending for NewReverseSpecBuilder (which reverses its lists on
// completion). The infinite sentinel breakpoints are implicit.
//
// The builder is a state machine; see the phase constants for the legal call
// sequences. Misuse panics -- it is a bug in the spec author's code, not a
// runtime condition.
type SpecBuilder struct {
	descending bool
	phase      builderPhase

	defaultSpring SpringParameters
	breakpoints   []Breakpoint
	mappings      []Mapping

	currentMapping Mapping

	// Pending jump segment: output anchored at (anchorPosition, anchorValue),
	// optionally ending at targetValue once the closing breakpoint is known.
	anchorValue float64
	targetValue float64

	autoKeyCount int
}

// NewSpecBuilder starts a forward (ascending-position) builder. The initial
// mapping covers the first segment, from -Inf to the first breakpoint;
// defaultSpring is used for every breakpoint that doesn't override it.
func NewSpecBuilder(defaultSpring SpringParameters, initialMapping Mapping) *SpecBuilder {
	return &SpecBuilder{
		phase:          phaseSegment,
		defaultSpring:  defaultSpring,
		breakpoints:    []Breakpoint{minLimit(defaultSpring)},
		currentMapping: initialMapping,
	}
}

// NewReverseSpecBuilder starts a descending-position builder: the initial
// mapping covers the segment from +Inf down to the first breakpoint. On
// Complete the breakpoint and mapping lists are reversed into ascending
// order.
func NewReverseSpecBuilder(defaultSpring SpringParameters, initialMapping Mapping) *SpecBuilder {
	return &SpecBuilder{
		descending:     true,
		phase:          phaseSegment,
		defaultSpring:  defaultSpring,
		breakpoints:    []Breakpoint{maxLimit(defaultSpring)},
		currentMapping: initialMapping,
	}
}

func (b *SpecBuilder) require(phase builderPhase, op string) {
	if b.phase != phase {
		panic(fmt.Sprintf("motion: %s called in %s phase (want %s phase)", op, b.phase, phase))
	}
}

func (b *SpecBuilder) nextAutoKey() BreakpointKey {
	b.autoKeyCount++
	return BreakpointKey(fmt.Sprintf("breakpoint-%d", b.autoKeyCount))
}

// lastPosition returns the position of the most recently placed breakpoint.
func (b *SpecBuilder) lastPosition() float64 {
	return b.breakpoints[len(b.breakpoints)-1].Position
}

func (b *SpecBuilder) checkOrder(position float64) {
	if math.IsInf(position, 0) || math.IsNaN(position) {
		panic(fmt.Sprintf("motion: breakpoint position must be finite, got %v", position))
	}
	last := b.lastPosition()
	if b.descending {
		if position > last {
			panic(fmt.Sprintf("motion: reverse builder positions must descend (%v after %v)", position, last))
		}
	} else if position < last {
		panic(fmt.Sprintf("motion: builder positions must ascend (%v after %v)", position, last))
	}
}

// ToBreakpoint terminates the current segment with an auto-keyed breakpoint
// at the given position. Legal after the segment's mapping is known, i.e. in
// the segment phase or after ContinueWithTargetValue.
func (b *SpecBuilder) ToBreakpoint(position float64) *SpecBuilder {
	return b.ToBreakpointKeyed(position, b.nextAutoKey())
}

// ToBreakpointKeyed is ToBreakpoint with a caller-chosen key.
func (b *SpecBuilder) ToBreakpointKeyed(position float64, key BreakpointKey) *SpecBuilder {
	switch b.phase {
	case phaseSegment:
		b.checkOrder(position)
		b.mappings = append(b.mappings, b.currentMapping)
	case phaseTarget:
		b.checkOrder(position)
		b.mappings = append(b.mappings, b.resolveTargetSegment(position))
	default:
		panic(fmt.Sprintf("motion: ToBreakpoint called in %s phase (want segment or target phase)", b.phase))
	}
	b.currentMapping = nil
	b.breakpoints = append(b.breakpoints, Breakpoint{
		Key:       key,
		Position:  position,
		Spring:    b.defaultSpring,
		Guarantee: None(),
	})
	b.phase = phaseBreakpoint
	return b
}

// resolveTargetSegment turns the pending anchor/target pair into a linear
// mapping once the closing breakpoint position is known.
func (b *SpecBuilder) resolveTargetSegment(position float64) Mapping {
	anchorPosition := b.lastPosition()
	if position == anchorPosition {
		panic(fmt.Sprintf("motion: target-value segment has zero width at position %v", position))
	}
	factor := (b.targetValue - b.anchorValue) / (position - anchorPosition)
	return Linear(factor, b.anchorValue-factor*anchorPosition)
}

// WithSpring overrides the spring parameters of the breakpoint just placed.
func (b *SpecBuilder) WithSpring(spring SpringParameters) *SpecBuilder {
	b.require(phaseBreakpoint, "WithSpring")
	b.breakpoints[len(b.breakpoints)-1].Spring = spring
	return b
}

// WithGuarantee overrides the completion guarantee of the breakpoint just
// placed.
func (b *SpecBuilder) WithGuarantee(g Guarantee) *SpecBuilder {
	b.require(phaseBreakpoint, "WithGuarantee")
	b.breakpoints[len(b.breakpoints)-1].Guarantee = g
	return b
}

// ContinueWith starts the next segment with an explicit mapping.
func (b *SpecBuilder) ContinueWith(mapping Mapping) *SpecBuilder {
	b.require(phaseBreakpoint, "ContinueWith")
	b.currentMapping = mapping
	b.phase = phaseSegment
	return b
}

// JumpTo starts the next segment at an absolute output value, introducing a
// deliberate discontinuity at the breakpoint just placed. The segment's
// shape is chosen by the following ContinueWith* call.
func (b *SpecBuilder) JumpTo(value float64) *SpecBuilder {
	b.require(phaseBreakpoint, "JumpTo")
	b.anchorValue = value
	b.phase = phaseAnchor
	return b
}

// JumpBy starts the next segment offset by delta from where the previous
// segment ends at the breakpoint just placed.
func (b *SpecBuilder) JumpBy(delta float64) *SpecBuilder {
	b.require(phaseBreakpoint, "JumpBy")
	previous := b.mappings[len(b.mappings)-1]
	b.anchorValue = previous.Map(b.lastPosition()) + delta
	b.phase = phaseAnchor
	return b
}

// ContinueWithTargetValue shapes the pending segment as a line from the
// anchor to the given output value at the next breakpoint. The slope is
// deferred until that breakpoint's position is known, so the only legal next
// call is ToBreakpoint.
func (b *SpecBuilder) ContinueWithTargetValue(target float64) *SpecBuilder {
	b.require(phaseAnchor, "ContinueWithTargetValue")
	b.targetValue = target
	b.phase = phaseTarget
	return b
}

// ContinueWithFractionalInput shapes the pending segment as a line through
// the anchor with the given input-to-output factor.
func (b *SpecBuilder) ContinueWithFractionalInput(factor float64) *SpecBuilder {
	b.require(phaseAnchor, "ContinueWithFractionalInput")
	anchorPosition := b.lastPosition()
	b.currentMapping = Linear(factor, b.anchorValue-factor*anchorPosition)
	b.phase = phaseSegment
	return b
}

// ContinueWithConstantValue shapes the pending segment as a constant at the
// anchor value.
func (b *SpecBuilder) ContinueWithConstantValue() *SpecBuilder {
	b.require(phaseAnchor, "ContinueWithConstantValue")
	b.currentMapping = Fixed(b.anchorValue)
	b.phase = phaseSegment
	return b
}

// Complete appends the implicit infinite sentinel breakpoint, extending the
// current mapping to infinity, and returns the validated spec. The builder
// must not be reused afterwards.
func (b *SpecBuilder) Complete() *DirectionalMotionSpec {
	b.require(phaseSegment, "Complete")
	b.mappings = append(b.mappings, b.currentMapping)
	if b.descending {
		b.breakpoints = append(b.breakpoints, minLimit(b.defaultSpring))
		slices.Reverse(b.breakpoints)
		slices.Reverse(b.mappings)
	} else {
		b.breakpoints = append(b.breakpoints, maxLimit(b.defaultSpring))
	}
	b.phase = phaseDone
	return NewDirectionalMotionSpec(b.breakpoints, b.mappings)
}

// CompleteWith sets the final segment's mapping and completes the spec.
func (b *SpecBuilder) CompleteWith(mapping Mapping) *DirectionalMotionSpec {
	b.require(phaseBreakpoint, "CompleteWith")
	b.currentMapping = mapping
	b.phase = phaseSegment
	return b.Complete()
}
