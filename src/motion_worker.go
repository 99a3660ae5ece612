package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/rjmeikle/motionctl/src/motion"
)

// motionCommand is a console instruction applied inside the motion loop, so
// all gesture/runtime mutation stays on one goroutine.
type motionCommand struct {
	kind  commandKind
	value float64
}

type commandKind int

const (
	cmdInjectInput commandKind = iota
	cmdSetSlop
)

// parseSample converts a raw MQTT payload into an input value.
func parseSample(value string) (float64, error) {
	return strconv.ParseFloat(value, 64)
}

// motionWorker runs one profile's frame loop: it tracks the latest raw input
// sample, ticks the motion runtime at the profile's frame rate, and publishes
// the animated output while it is moving. The motion core is single-threaded;
// samples and console commands are applied between ticks on this goroutine.
func motionWorker(
	ctx context.Context,
	profile ProfileConfig,
	sampleChan <-chan RawSample,
	commandChan <-chan motionCommand,
	snapshotChan chan<- motion.FrameSnapshot,
	sender *MQTTSender,
) {
	log.Printf("Motion worker started (%s, %d fps)\n", profile.Name, profile.FrameRate)

	gesture := motion.NewGestureContext(profile.InitialInput, motion.DirectionMax, profile.DirectionChangeSlop)
	runtime := motion.NewRuntime(profile.BuildSpec(), gesture, profile.InitialInput)
	runtime.StableThreshold = profile.StableThreshold

	input := profile.InitialInput
	frameTime := profile.FrameTime()
	wasStable := runtime.IsStable()

	ticker := time.NewTicker(time.Duration(float64(time.Second) * frameTime))
	defer ticker.Stop()

	for {
		select {
		case sample := <-sampleChan:
			if sample.Topic != profile.InputTopic {
				continue
			}
			value, err := parseSample(sample.Value)
			if err != nil {
				log.Printf("Ignoring unparseable sample on %s: %q\n", sample.Topic, sample.Value)
				continue
			}
			input = value
			gesture.SetDistance(value)

		case cmd := <-commandChan:
			switch cmd.kind {
			case cmdInjectInput:
				input = cmd.value
				gesture.SetDistance(cmd.value)
			case cmdSetSlop:
				gesture.SetDirectionChangeSlop(cmd.value)
				log.Printf("Direction change slop set to %v\n", cmd.value)
			}

		case <-ticker.C:
			output := runtime.Tick(input, frameTime)
			stable := runtime.IsStable()

			// Publish every frame while moving, and once more on the frame
			// the output settles so subscribers see the final value.
			if !stable || !wasStable {
				sender.PublishValue(profile.OutputTopic, output)
			}
			wasStable = stable

			// Snapshot delivery is best effort; a slow console must not
			// stall the frame loop.
			select {
			case snapshotChan <- runtime.Snapshot():
			default:
			}

		case <-ctx.Done():
			log.Printf("Motion worker stopped (%s)\n", profile.Name)
			return
		}
	}
}
