package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/rjmeikle/motionctl/src/motion"
)

// ANSI color codes for highlighting changes
const (
	ansiReset  = "\033[0m"
	ansiYellow = "\033[33m"
)

// readlineWriter wraps log output to work with readline
type readlineWriter struct {
	rl *readline.Instance
}

func (w *readlineWriter) Write(p []byte) (n int, err error) {
	if w.rl != nil {
		w.rl.Clean()
	}
	n, err = os.Stderr.Write(p)
	if w.rl != nil {
		w.rl.Refresh()
	}
	return n, err
}

// Global readline writer for log output
var rlWriter = &readlineWriter{}

// DebugState tracks the console's view of the motion loop
type DebugState struct {
	watching      bool
	headerPrinted bool
	latest        *motion.FrameSnapshot
	prevRow       string
	rl            *readline.Instance
}

// NewDebugState creates a new debug state
func NewDebugState() *DebugState {
	return &DebugState{}
}

// SetReadline sets the readline instance for proper output handling
func (s *DebugState) SetReadline(rl *readline.Instance) {
	s.rl = rl
}

// print outputs a line, handling the readline prompt properly
func (s *DebugState) print(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if s.rl != nil {
		s.rl.Clean()
		fmt.Println(line)
		s.rl.Refresh()
	} else {
		fmt.Println(line)
	}
}

// formatSnapshotRow renders one frame snapshot as a fixed-width row
func formatSnapshotRow(snap motion.FrameSnapshot) string {
	return fmt.Sprintf("%10.3f | %3s | %10.3f | %10.3f | %6v",
		snap.Input, snap.Direction, snap.Output, snap.OutputTarget, snap.IsStable)
}

// PrintStatus prints the latest frame snapshot in full
func (s *DebugState) PrintStatus() {
	if s.latest == nil {
		log.Println("No frames received yet")
		return
	}
	snap := *s.latest
	s.print("input:     %v", snap.Input)
	s.print("direction: %v", snap.Direction)
	s.print("output:    %v", snap.Output)
	s.print("target:    %v", snap.OutputTarget)
	s.print("spring:    stiffness=%v dampingRatio=%v", snap.Spring.Stiffness, snap.Spring.DampingRatio)
	s.print("stable:    %v", snap.IsStable)
}

// UpdateFrame stores the latest snapshot and, when watching, prints a row on
// change
func (s *DebugState) UpdateFrame(snap motion.FrameSnapshot) {
	s.latest = &snap
	if !s.watching {
		return
	}

	if !s.headerPrinted {
		s.print("%10s | %3s | %10s | %10s | %6s", "input", "dir", "output", "target", "stable")
		s.headerPrinted = true
		s.prevRow = ""
	}

	row := formatSnapshotRow(snap)
	if row == s.prevRow {
		return
	}
	s.print("%s%s%s", ansiYellow, row, ansiReset)
	s.prevRow = row
}

// handleDebugCommand processes a console command
func handleDebugCommand(cmd string, state *DebugState, commandChan chan<- motionCommand) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "status":
		state.PrintStatus()

	case "watch":
		state.watching = true
		state.headerPrinted = false
		log.Println("Watching frames (use 'unwatch' to stop)")

	case "unwatch":
		state.watching = false
		log.Println("Stopped watching")

	case "input":
		if len(parts) != 2 {
			log.Println("Usage: input <value>")
			return
		}
		value, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			log.Printf("Error: invalid value %q", parts[1])
			return
		}
		commandChan <- motionCommand{kind: cmdInjectInput, value: value}

	case "slop":
		if len(parts) != 2 {
			log.Println("Usage: slop <value>")
			return
		}
		value, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || value <= 0 {
			log.Printf("Error: slop must be a positive number, got %q", parts[1])
			return
		}
		commandChan <- motionCommand{kind: cmdSetSlop, value: value}

	case "help":
		fmt.Println("Commands:")
		fmt.Println("  status           - Print the latest frame snapshot")
		fmt.Println("  watch            - Print a row whenever the frame changes")
		fmt.Println("  unwatch          - Stop printing frames")
		fmt.Println("  input <value>    - Inject a raw input sample")
		fmt.Println("  slop <value>     - Set the direction change slop")
		fmt.Println("  help             - Show this help")

	default:
		log.Printf("Unknown command: %s (try 'help')", parts[0])
	}
}

// readlineLoop runs the readline loop, sending lines to the channel
func readlineLoop(
	ctx context.Context,
	cancel context.CancelFunc,
	rl *readline.Instance,
	lineChan chan<- string,
) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			cancel() // Ctrl+C pressed, shutdown the app
			return
		}
		if err != nil {
			return // EOF or other error
		}
		line = strings.TrimSpace(line)
		if line != "" {
			lineChan <- line
		}
	}
}

// getHistoryFilePath returns the path for console history
func getHistoryFilePath() string {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "" // No history if we can't find home
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	motionctlCache := filepath.Join(cacheDir, "motionctl")
	// Create directory if it doesn't exist
	_ = os.MkdirAll(motionctlCache, 0750)
	return filepath.Join(motionctlCache, "console_history")
}

// debugWorker provides interactive introspection of the motion loop
func debugWorker(
	ctx context.Context,
	cancel context.CancelFunc,
	snapshotChan <-chan motion.FrameSnapshot,
	commandChan chan<- motionCommand,
) {
	// Create readline instance with prompt and persistent history
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "> ",
		HistoryFile: getHistoryFilePath(),
	})
	if err != nil {
		log.Printf("Debug worker: readline init failed: %v", err)
		return
	}
	defer func() {
		_ = rl.Close()
		rlWriter.rl = nil // Clear readline reference on exit
	}()

	// Redirect log output through readline-aware writer
	rlWriter.rl = rl
	log.SetOutput(rlWriter)

	log.Println("Debug console started (type 'help' for commands)")

	lineChan := make(chan string, 10)
	state := NewDebugState()
	state.SetReadline(rl)

	go readlineLoop(ctx, cancel, rl, lineChan)

	for {
		select {
		case line := <-lineChan:
			handleDebugCommand(line, state, commandChan)
		case snap := <-snapshotChan:
			state.UpdateFrame(snap)
		case <-ctx.Done():
			log.Println("Debug console stopped")
			return
		}
	}
}
