package timekeeper

import (
	"fmt"
	"math"
	"time"
)

// completionNudge is one unit of timestamp resolution added to the remaining
// time so that the completion instant itself still reads as zero.
const completionNudge = time.Nanosecond

// Clock supplies the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock. The monotonic reading is stripped so that
// time spent in system suspend still counts as elapsed.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time {
	return time.Now().Round(0)
}

// Reading is the remaining time derived for one instant.
type Reading struct {
	RemainingSeconds float64
	Expired          bool
}

// Measure derives the remaining time of an interval of the given minutes that
// started at start. A zero start means the interval has not started yet and the
// full duration remains.
func Measure(start time.Time, minutes int, now time.Time) Reading {
	total := time.Duration(minutes) * time.Minute
	if start.IsZero() {
		return Reading{RemainingSeconds: total.Seconds()}
	}

	remaining := start.Add(total).Sub(now) + completionNudge
	seconds := remaining.Seconds()
	return Reading{
		RemainingSeconds: seconds,
		Expired:          seconds < 0,
	}
}

// FormatClock renders seconds as zero-padded MM:SS.
func FormatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	minutes := int(math.Floor(seconds / 60))
	rest := int(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%02d:%02d", minutes, rest)
}
