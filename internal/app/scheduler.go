package app

import "time"

// Default pauses around moves.
const (
	// MoveSettleDelay locks input after an accepted move.
	MoveSettleDelay = 500 * time.Millisecond
	// ComputerThinkDelay elapses before the computer's move is applied.
	ComputerThinkDelay = 500 * time.Millisecond
)

// Scheduler runs f once after d. Sessions use it for every delayed
// continuation so tests can drive time by hand.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// TimerScheduler schedules on the runtime timer heap.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) { time.AfterFunc(d, f) }
