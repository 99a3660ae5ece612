package main

import (
	"github.com/rjmeikle/motionctl/src/motion"
)

// ProfileConfig holds the configuration for one motion profile: the MQTT
// topics it binds to, the gesture tracking tunables, and the breakpoint
// table describing the desired output curve.
type ProfileConfig struct {
	Name string

	// InputTopic carries the raw scalar input (e.g. an accumulated rotary
	// encoder position). OutputTopic receives the animated output value.
	InputTopic  string
	OutputTopic string

	// DirectionChangeSlop is the gesture travel required before a
	// direction flip is recognized.
	DirectionChangeSlop float64
	// StableThreshold is the position/velocity tolerance for reporting the
	// output as settled.
	StableThreshold float64
	// FrameRate is the tick frequency of the motion loop in Hz.
	FrameRate int
	// InitialInput positions the runtime before the first sample arrives.
	InitialInput float64

	// Curve tunables, in input units (see BuildSpec).
	FloorPosition   float64 // below this the output is pinned to FloorValue
	FloorValue      float64
	SnapOnPosition  float64 // travelling max past this snaps to FullValue
	SnapOffPosition float64 // travelling min past this releases to tracking
	FullValue       float64
	SnapDistance    float64 // gesture travel budget for the snap transition

	TrackSpring motion.SpringParameters
	SnapSpring  motion.SpringParameters
}

// Topics returns the MQTT subscriptions this profile needs.
func (c *ProfileConfig) Topics() []string {
	return []string{c.InputTopic}
}

// BuildSpec constructs the profile's MotionSpec through the fluent builder.
//
// The max-direction curve pins the output to FloorValue below FloorPosition,
// tracks the input up to SnapOnPosition, then snaps to FullValue. The
// min-direction curve holds FullValue down to SnapOffPosition before
// releasing back to tracking -- the on/off thresholds differ so the output
// doesn't chatter around a single snap point. Both snap transitions are
// guaranteed to complete within SnapDistance of gesture travel.
func (c *ProfileConfig) BuildSpec() *motion.MotionSpec {
	maxSpec := motion.NewSpecBuilder(c.TrackSpring, motion.Fixed(c.FloorValue)).
		ToBreakpointKeyed(c.FloorPosition, "floor").
		ContinueWith(motion.Identity).
		ToBreakpointKeyed(c.SnapOnPosition, "snap-on").
		WithSpring(c.SnapSpring).
		WithGuarantee(motion.GestureDistance(c.SnapDistance)).
		CompleteWith(motion.Fixed(c.FullValue))

	minSpec := motion.NewReverseSpecBuilder(c.TrackSpring, motion.Fixed(c.FullValue)).
		ToBreakpointKeyed(c.SnapOffPosition, "snap-off").
		WithSpring(c.SnapSpring).
		WithGuarantee(motion.GestureDistance(c.SnapDistance)).
		ContinueWith(motion.Identity).
		ToBreakpointKeyed(c.FloorPosition, "floor").
		CompleteWith(motion.Fixed(c.FloorValue))

	return motion.NewMotionSpec(maxSpec, minSpec, c.TrackSpring)
}

// FrameTime returns the tick duration in seconds.
func (c *ProfileConfig) FrameTime() float64 {
	return 1.0 / float64(c.FrameRate)
}
