package preferences

import (
	"pomodoro/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	WorkMinutes       int
	ShortBreakMinutes int
	LongBreakMinutes  int
	// Sound is a path to a WAV or MP3 file. Empty selects the bundled alert.
	Sound string

	Compact bool
}

// DefaultSettings returns the classic pomodoro schedule.
func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:       25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
	}
}

// DurationConfig converts settings to the timer configuration.
func (settings Settings) DurationConfig() model.DurationConfig {
	return model.DurationConfig{
		Minutes: map[model.IntervalType]int{
			model.IntervalWork:       settings.WorkMinutes,
			model.IntervalShortBreak: settings.ShortBreakMinutes,
			model.IntervalLongBreak:  settings.LongBreakMinutes,
		},
		Sound: settings.Sound,
	}
}
