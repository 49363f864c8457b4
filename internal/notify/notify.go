package notify

import (
	"fyne.io/fyne/v2"
	"github.com/rs/zerolog"

	"pomodoro/internal/core/timekeeper"
)

// FyneNotifier sends notifications through the Fyne app. Activation is not
// reported by this backend, so OnActivate never runs.
type FyneNotifier struct {
	app fyne.App
}

// NewFyneNotifier creates a notifier for the app.
func NewFyneNotifier(app fyne.App) *FyneNotifier {
	return &FyneNotifier{app: app}
}

// Notify sends the notification.
func (notifier *FyneNotifier) Notify(notification timekeeper.Notification) error {
	fyne.Do(func() {
		notifier.app.SendNotification(fyne.NewNotification(notification.Title, notification.Body))
	})
	return nil
}

// New prefers the session bus backend and falls back to Fyne. The returned
// close function releases the bus connection, if any.
func New(app fyne.App, appName string, logger zerolog.Logger) (timekeeper.Notifier, func() error) {
	notifier, err := NewDBusNotifier(appName, logger)
	if err != nil {
		logger.Info().Err(err).Msg("desktop bus unavailable, using fyne notifications")
		return NewFyneNotifier(app), func() error { return nil }
	}
	return notifier, notifier.Close
}
