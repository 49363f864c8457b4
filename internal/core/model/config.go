package model

import (
	"errors"
	"fmt"
	"time"
)

// IntervalType selects which configured duration is being timed.
type IntervalType string

const (
	IntervalWork       IntervalType = "work"
	IntervalShortBreak IntervalType = "short_break"
	IntervalLongBreak  IntervalType = "long_break"
)

// IntervalTypes lists every interval type in display order.
var IntervalTypes = []IntervalType{IntervalWork, IntervalShortBreak, IntervalLongBreak}

// Label returns the human-readable interval name.
func (intervalType IntervalType) Label() string {
	switch intervalType {
	case IntervalWork:
		return "Pomodoro"
	case IntervalShortBreak:
		return "Short Break"
	case IntervalLongBreak:
		return "Long Break"
	default:
		return string(intervalType)
	}
}

// Valid reports whether the type is one of the known interval types.
func (intervalType IntervalType) Valid() bool {
	for _, known := range IntervalTypes {
		if known == intervalType {
			return true
		}
	}
	return false
}

// ErrInvalidDuration indicates a missing or non-positive configured duration.
var ErrInvalidDuration = errors.New("invalid interval duration")

// DurationConfig maps each interval type to a whole number of minutes.
type DurationConfig struct {
	Minutes map[IntervalType]int
	// Sound is the alert source played when an interval completes.
	Sound string
}

// Lookup returns the configured minutes for the interval type.
func (config DurationConfig) Lookup(intervalType IntervalType) (int, bool) {
	minutes, ok := config.Minutes[intervalType]
	if !ok || minutes <= 0 {
		return 0, false
	}
	return minutes, true
}

// Duration returns the configured duration for the interval type.
func (config DurationConfig) Duration(intervalType IntervalType) (time.Duration, bool) {
	minutes, ok := config.Lookup(intervalType)
	if !ok {
		return 0, false
	}
	return time.Duration(minutes) * time.Minute, true
}

// Validate checks that every interval type has a positive duration.
func (config DurationConfig) Validate() error {
	for _, intervalType := range IntervalTypes {
		if _, ok := config.Lookup(intervalType); !ok {
			return fmt.Errorf("%s: %w", intervalType, ErrInvalidDuration)
		}
	}
	return nil
}

// Clone returns a copy that does not share the minutes map.
func (config DurationConfig) Clone() DurationConfig {
	minutes := make(map[IntervalType]int, len(config.Minutes))
	for intervalType, value := range config.Minutes {
		minutes[intervalType] = value
	}
	return DurationConfig{Minutes: minutes, Sound: config.Sound}
}

// DefaultDurationConfig returns the classic 25/5/15 schedule.
func DefaultDurationConfig() DurationConfig {
	return DurationConfig{
		Minutes: map[IntervalType]int{
			IntervalWork:       25,
			IntervalShortBreak: 5,
			IntervalLongBreak:  15,
		},
	}
}
