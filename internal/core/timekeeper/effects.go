package timekeeper

import (
	"errors"
	"fmt"

	"pomodoro/internal/core/model"
)

// ErrMissingDuration indicates the active interval has no usable duration.
var ErrMissingDuration = errors.New("missing interval duration")

// ConfigurationError reports an interval type without a configured duration.
type ConfigurationError struct {
	Interval model.IntervalType
}

func (err *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: no duration for %q interval", err.Interval)
}

func (err *ConfigurationError) Unwrap() error {
	return ErrMissingDuration
}

// Notification is a one-shot desktop notification.
type Notification struct {
	Title string
	Body  string
	// Tag groups notifications; a new one replaces an older one with the same tag.
	Tag string
	// OnActivate runs when the user interacts with the notification. The
	// notifier dismisses the notification afterwards.
	OnActivate func()
}

// Notifier delivers desktop notifications.
type Notifier interface {
	Notify(notification Notification) error
}

// Player plays an alert sound once.
type Player interface {
	PlayOnce(source string) error
}

// TitleSetter receives the "MM:SS <Label>" projection on every tick.
// Implementations must not block.
type TitleSetter interface {
	SetTitle(text string)
}

// Host is the optional window capability of desktop deployments.
type Host interface {
	RequestFocus()
	SetCompactMode(compact bool)
}

// Effects groups the external collaborators. Every field is optional.
type Effects struct {
	Notifier Notifier
	Player   Player
	Title    TitleSetter
	Host     Host
}
