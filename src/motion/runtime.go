package motion

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// DefaultStableThreshold is the position/velocity tolerance within which a
// runtime reports its output as stable.
const DefaultStableThreshold = 0.005

// FrameSnapshot is a debug view of one runtime frame, suitable for tooling
// and golden-test capture.
type FrameSnapshot struct {
	Input        float64
	Direction    Direction
	Output       float64
	OutputTarget float64
	Spring       SpringParameters
	IsStable     bool
}

// Runtime is the per-frame motion engine. Each Tick it reads the gesture
// direction, revalidates its cached segment against the input, maps the
// input to a target output, and advances a spring simulation toward that
// target. Transitions triggered at a breakpoint use that breakpoint's spring
// parameters and honor its completion guarantee.
//
// A Runtime is single-threaded: Tick must be called from one goroutine, once
// per display frame. Multiple runtimes may share one immutable MotionSpec.
type Runtime struct {
	spec    *MotionSpec
	gesture *GestureContext

	segment   SegmentData
	state     SpringState
	params    SpringParameters
	guarantee Guarantee

	// Entry snapshot of the in-flight guaranteed transition: the gesture
	// distance when the segment was entered and the output error observed
	// on the first frame against the new target.
	entryDistance float64
	entryError    float64
	entryErrorSet bool

	input  float64
	target float64
	stable bool

	// StableThreshold is the tolerance used for stability judgments.
	// Defaults to DefaultStableThreshold.
	StableThreshold float64

	integrator       harmonica.Spring
	integratorDT     float64
	integratorParams SpringParameters
	integratorReady  bool
}

// NewRuntime creates a runtime positioned at rest on the segment containing
// initialInput. The gesture context is owned by the caller and read on every
// tick.
func NewRuntime(spec *MotionSpec, gesture *GestureContext, initialInput float64) *Runtime {
	r := &Runtime{
		spec:            spec,
		gesture:         gesture,
		input:           initialInput,
		StableThreshold: DefaultStableThreshold,
	}
	r.segment = spec.SegmentAt(initialInput, gesture.Direction)
	r.params = r.segment.EntryBreakpoint().Spring
	r.target = r.segment.Mapping.Map(initialInput)
	r.state = SpringState{Position: r.target}
	r.stable = true
	return r
}

// Tick advances the runtime one frame. deltaTime is the frame duration in
// seconds (non-positive deltas skip spring integration but still retarget).
// Returns the new output value.
func (r *Runtime) Tick(input, deltaTime float64) float64 {
	r.input = input
	direction := r.gesture.Direction

	if !r.segment.IsValidForInput(input, direction) {
		next := r.spec.OnChangeSegment(r.segment, input, direction)
		if next.Key() != r.segment.Key() {
			r.enterSegment(next)
		}
	}

	r.target = r.segment.Mapping.Map(input)
	if r.guarantee.Kind == GuaranteeGestureDistance && !r.entryErrorSet {
		r.entryError = math.Abs(r.state.Position - r.target)
		r.entryErrorSet = true
	}

	if deltaTime > 0 {
		r.ensureIntegrator(deltaTime)
		position, velocity := r.integrator.Update(r.state.Position, r.state.Velocity, r.target)
		r.state = SpringState{Position: position, Velocity: velocity}
		r.applyGuarantee()
	}

	r.stable = r.state.IsStable(r.target, r.StableThreshold)
	return r.state.Position
}

// enterSegment switches the active segment and arms the entry breakpoint's
// spring and guarantee for the transition.
func (r *Runtime) enterSegment(next SegmentData) {
	r.segment = next
	entry := next.EntryBreakpoint()
	r.params = entry.Spring
	r.guarantee = entry.Guarantee
	r.entryDistance = r.gesture.Distance
	r.entryErrorSet = false
}

// applyGuarantee enforces a gesture-distance completion guarantee: the
// remaining output error may never exceed the fraction of the gesture travel
// budget still unspent. Once the gesture has moved the full guaranteed
// distance since segment entry, the output is forced onto the target.
func (r *Runtime) applyGuarantee() {
	if r.guarantee.Kind != GuaranteeGestureDistance || !r.entryErrorSet {
		return
	}

	travelled := math.Abs(r.gesture.Distance - r.entryDistance)
	if r.guarantee.Distance <= 0 || travelled >= r.guarantee.Distance {
		r.state = SpringState{Position: r.target}
		r.guarantee = None()
		return
	}

	remaining := 1 - travelled/r.guarantee.Distance
	allowedError := remaining * r.entryError
	err := r.state.Position - r.target
	if math.Abs(err) > allowedError {
		r.state.Position = r.target + math.Copysign(allowedError, err)
	}
}

// ensureIntegrator rebuilds the cached harmonica spring when the frame
// duration or the active spring parameters change. harmonica precomputes its
// coefficients per (dt, frequency, damping) triple, so reuse between frames
// matters.
func (r *Runtime) ensureIntegrator(deltaTime float64) {
	if r.integratorReady && r.integratorDT == deltaTime && r.integratorParams == r.params {
		return
	}
	r.integrator = harmonica.NewSpring(deltaTime, r.params.AngularFrequency(), r.params.DampingRatio)
	r.integratorDT = deltaTime
	r.integratorParams = r.params
	r.integratorReady = true
}

// SetSpec replaces the whole motion spec. The output does not jump: the
// runtime re-resolves its segment under the new spec and animates toward the
// new target using the spec's reset spring.
func (r *Runtime) SetSpec(spec *MotionSpec) {
	if spec == r.spec {
		return
	}
	r.spec = spec
	r.segment = spec.SegmentAt(r.input, r.gesture.Direction)
	r.params = spec.ResetSpring
	r.guarantee = None()
	r.entryErrorSet = false
	r.target = r.segment.Mapping.Map(r.input)
	r.stable = r.state.IsStable(r.target, r.StableThreshold)
}

// Spec returns the active motion spec.
func (r *Runtime) Spec() *MotionSpec { return r.spec }

// Output returns the current animated output value.
func (r *Runtime) Output() float64 { return r.state.Position }

// Target returns the output value the spring is converging toward.
func (r *Runtime) Target() float64 { return r.target }

// IsStable reports whether the output is within StableThreshold of the
// target with negligible velocity.
func (r *Runtime) IsStable() bool { return r.stable }

// SpringState returns the spring's transient position and velocity.
func (r *Runtime) SpringState() SpringState { return r.state }

// SpringParameters returns the spring parameters of the active transition.
func (r *Runtime) SpringParameters() SpringParameters { return r.params }

// Segment returns the cached active segment.
func (r *Runtime) Segment() SegmentData { return r.segment }

// Snapshot captures the current frame state for debugging.
func (r *Runtime) Snapshot() FrameSnapshot {
	return FrameSnapshot{
		Input:        r.input,
		Direction:    r.gesture.Direction,
		Output:       r.state.Position,
		OutputTarget: r.target,
		Spring:       r.params,
		IsStable:     r.stable,
	}
}
