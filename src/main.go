package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"

	"github.com/rjmeikle/motionctl/src/motion"
)

// SafeGo launches a goroutine with panic recovery and retry logic.
// On panic, retries with exponential backoff (max 10 retries).
// Retry count resets if worker ran for 2+ minutes before failing.
// After exhausting retries, cancels context to trigger shutdown.
func SafeGo(
	ctx context.Context,
	cancel context.CancelFunc,
	name string,
	fn func(ctx context.Context),
) {
	const maxRetries = 10
	const maxDelay = 10 * time.Minute
	const resetAfter = 2 * time.Minute

	go func() {
		retries := 0
		delay := time.Second

		for {
			startTime := time.Now()
			var panicValue any

			func() {
				defer func() {
					panicValue = recover()
				}()
				fn(ctx)
			}()

			// If function returned normally (no panic), exit the goroutine
			// This covers both context cancellation and unexpected completion
			if panicValue == nil {
				return
			}

			// If ran for resetAfter duration before panicking, reset retry state
			if time.Since(startTime) >= resetAfter {
				retries = 0
				delay = time.Second
			}

			retries++
			log.Printf("Panic in %s (attempt %d/%d): %v\n", name, retries, maxRetries, panicValue)

			// Check if we've exhausted retries
			if retries >= maxRetries {
				log.Printf("%s failed after %d retries, shutting down\n", name, maxRetries)
				cancel()
				return
			}

			// Wait before retry with exponential backoff
			log.Printf("%s will retry in %v\n", name, delay)
			select {
			case <-time.After(delay):
				// Double delay for next time, cap at max
				delay = min(delay*2, maxDelay)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func main() {
	log.Println("Starting motionctl...")

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	// Get MQTT credentials from environment
	mqttUsername := os.Getenv("MQTT_USERNAME")
	mqttPassword := os.Getenv("MQTT_PASSWORD")

	if mqttUsername == "" || mqttPassword == "" {
		log.Fatal("MQTT_USERNAME and MQTT_PASSWORD must be set in .env file")
	}

	mqttBroker := os.Getenv("MQTT_BROKER")
	if mqttBroker == "" {
		mqttBroker = "homeassistant.lan"
	}

	// Create context for lifecycle management
	ctx, cancel := context.WithCancel(context.Background())

	// Define the dimmer profile: input is an accumulated encoder position in
	// degrees, output is a brightness percentage. The knob tracks linearly
	// through the middle of its travel and snaps to full brightness near the
	// top; the release threshold sits below the snap threshold so brightness
	// doesn't flicker at the boundary.
	dimmer := ProfileConfig{
		Name:        "dimmer",
		InputTopic:  "homeassistant/sensor/office_knob_position/state",
		OutputTopic: "homeassistant/light/office_dimmer/brightness/set",

		DirectionChangeSlop: 4,
		StableThreshold:     0.005,
		FrameRate:           60,
		InitialInput:        0,

		FloorPosition:   10,
		FloorValue:      0,
		SnapOnPosition:  90,
		SnapOffPosition: 80,
		FullValue:       100,
		SnapDistance:    15,

		TrackSpring: motion.SpringParameters{Stiffness: 300, DampingRatio: 1},
		SnapSpring:  motion.SpringParameters{Stiffness: 120, DampingRatio: 0.9},
	}

	// Create channels for communication between workers
	sampleChan := make(chan RawSample, 10)
	commandChan := make(chan motionCommand, 10)
	snapshotChan := make(chan motion.FrameSnapshot, 10)
	mqttOutgoingChan := make(chan MQTTMessage, 100) // Larger buffer for queuing
	mqttClientChan := make(chan mqtt.Client, 1)     // Buffered to prevent blocking onConnect

	// Launch MQTT sender worker (receives client updates via channel)
	SafeGo(ctx, cancel, "mqtt-sender-worker", func(ctx context.Context) {
		mqttSenderWorker(ctx, mqttOutgoingChan, mqttClientChan)
	})

	mqttSender := NewMQTTSender(mqttOutgoingChan)

	// Launch the motion frame loop
	SafeGo(ctx, cancel, "motion-worker", func(ctx context.Context) {
		motionWorker(ctx, dimmer, sampleChan, commandChan, snapshotChan, mqttSender)
	})

	// Launch MQTT worker
	SafeGo(ctx, cancel, "mqtt-worker", func(ctx context.Context) {
		mqttWorker(ctx, mqttBroker, dimmer.Topics(), mqttUsername, mqttPassword, "motionctl", sampleChan, mqttClientChan)
	})
	log.Println("MQTT worker started")

	// Launch debug console when requested
	if os.Getenv("MOTIONCTL_CONSOLE") == "1" {
		SafeGo(ctx, cancel, "debug-worker", func(ctx context.Context) {
			debugWorker(ctx, cancel, snapshotChan, commandChan)
		})
	}

	// Wait for interrupt signal or context cancellation (from panic)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Println("\nShutting down...")
	case <-ctx.Done():
		log.Println("\nShutting down due to error...")
	}
	cancel()
}
