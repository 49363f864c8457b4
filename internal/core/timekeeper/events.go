package timekeeper

import (
	"time"

	"pomodoro/internal/core/model"
)

// EventType defines the type of controller event.
type EventType string

const (
	EventStart       EventType = "start"
	EventPause       EventType = "pause"
	EventReset       EventType = "reset"
	EventSwitch      EventType = "switch"
	EventTick        EventType = "tick"
	EventComplete    EventType = "complete"
	EventConfigError EventType = "config_error"
)

// Event is published to observers after every transition and tick.
type Event struct {
	Type     EventType
	Run      uint64
	Interval model.IntervalType
	Running  bool
	// Remaining is in seconds and never negative.
	Remaining float64
	// Planned is the configured duration of the run, set on EventComplete.
	Planned time.Duration
	Message string
	At      time.Time
}

// Display returns the remaining time as MM:SS.
func (event Event) Display() string {
	return FormatClock(event.Remaining)
}

// Snapshot is a read-only view of the timer for display.
type Snapshot struct {
	Run              uint64
	Interval         model.IntervalType
	Running          bool
	Paused           bool
	Expired          bool
	RemainingSeconds float64
}

// Display returns the remaining time as MM:SS.
func (snapshot Snapshot) Display() string {
	return FormatClock(snapshot.RemainingSeconds)
}

// Title returns the "MM:SS <Label>" projection used for window titles.
func (snapshot Snapshot) Title() string {
	return snapshot.Display() + " " + snapshot.Interval.Label()
}
