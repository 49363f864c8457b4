package main

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/rs/zerolog"

	"pomodoro/internal/audio"
	"pomodoro/internal/core/model"
	"pomodoro/internal/core/timekeeper"
	"pomodoro/internal/logger"
	"pomodoro/internal/notify"
	"pomodoro/internal/storage"
	"pomodoro/internal/ui/preferences"
	"pomodoro/internal/ui/timerview"
	"pomodoro/internal/ui/tray"
	"pomodoro/resources"
)

const appName = "Octo-tasks"

func main() {
	log := logger.Get()

	settingsPath, err := storage.DefaultSettingsPath(appName)
	if err != nil {
		log.Fatal().Err(err).Msg("resolve settings path")
	}
	source := storage.NewSettingsSource(storage.NewSettingsStore(settingsPath), log)
	settings, err := source.Reload()
	if err != nil {
		log.Info().Str("path", settingsPath).Msg("using default settings")
	}

	var history *storage.History
	if historyPath, err := storage.DefaultHistoryPath(appName); err != nil {
		log.Warn().Err(err).Msg("history disabled")
	} else if history, err = storage.OpenHistory(historyPath); err != nil {
		log.Warn().Err(err).Str("path", historyPath).Msg("history disabled")
	}

	controller := timekeeper.New(settings.DurationConfig(), timekeeper.Config{
		AppName: appName,
		Logger:  log,
	})

	fyneApp := app.NewWithID("com.octotasks.pomodoro")
	view := timerview.New(fyneApp, appName, controller)

	notifier, closeNotifier := notify.New(fyneApp, appName, log)
	player := audio.NewPlayer(audio.SpeakerOutput(), resources.MustSound(resources.DefaultAlert).Content())
	controller.SetEffects(timekeeper.Effects{
		Notifier: notifier,
		Player:   player,
		Title:    view,
		Host:     view,
	})

	ctx, cancel := context.WithCancel(context.Background())

	prefsWindow := preferences.New(fyneApp, settings, nil)

	var trayManager *tray.Manager
	setCompact := func(compact bool) {
		view.SetCompactMode(compact)
		if trayManager != nil {
			fyne.Do(func() {
				trayManager.SetCompact(compact)
			})
		}
	}

	prefsWindow.SetOnSave(func(updated preferences.Settings) {
		if err := source.Save(updated); err != nil {
			log.Error().Err(err).Msg("save settings")
			return
		}
		controller.UpdateConfig(updated.DurationConfig())
		setCompact(updated.Compact)
	})

	quit := func() {
		cancel()
		controller.Close()
		if err := closeNotifier(); err != nil {
			log.Warn().Err(err).Msg("close notifier")
		}
		if history != nil {
			_ = history.Close()
		}
		fyneApp.Quit()
	}

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, appName, tray.Callbacks{
			OnShow: view.RequestFocus,
			OnToggleRun: func() {
				if controller.State().Running {
					controller.Pause()
				} else {
					controller.Start()
				}
			},
			OnReset: controller.Reset,
			OnSwitch: func(intervalType model.IntervalType) {
				if err := controller.SwitchType(intervalType); err != nil {
					log.Error().Err(err).Msg("switch interval")
				}
			},
			OnToggleCompact: func() {
				current := source.Current()
				current.Compact = !current.Compact
				if err := source.Save(current); err != nil {
					log.Error().Err(err).Msg("save settings")
				}
				prefsWindow.UpdateSettings(current)
				setCompact(current.Compact)
			},
			OnPreferences: prefsWindow.Show,
			OnQuit:        quit,
		})
		trayManager.SetCompact(settings.Compact)
		refreshCompleted(ctx, history, trayManager, log)
		view.Window().SetCloseIntercept(view.Window().Hide)
	} else {
		log.Info().Msg("system tray unsupported on this platform")
		view.Window().SetCloseIntercept(quit)
	}

	go view.Follow(controller.Subscribe(16))
	go followStatus(ctx, controller.Subscribe(16), history, trayManager, log)

	if err := storage.WatchFile(ctx, settingsPath, log, func() {
		reloaded, err := source.Reload()
		if err != nil {
			return
		}
		controller.UpdateConfig(reloaded.DurationConfig())
		fyne.Do(func() {
			prefsWindow.UpdateSettings(reloaded)
		})
		setCompact(reloaded.Compact)
	}); err != nil {
		log.Warn().Err(err).Msg("settings reload disabled")
	}

	go timekeeper.NewScheduler(controller, timekeeper.DefaultTickInterval).Run(ctx)

	if settings.Compact {
		setCompact(true)
	}
	view.Show()
	fyneApp.Run()
	cancel()
}

// followStatus records completed intervals and mirrors the timer in the tray.
func followStatus(ctx context.Context, events <-chan timekeeper.Event, history *storage.History, trayManager *tray.Manager, log zerolog.Logger) {
	for event := range events {
		if event.Type == timekeeper.EventComplete && history != nil {
			planned := event.Planned
			record := &storage.Record{
				Interval:       event.Interval,
				PlannedSeconds: int(planned.Seconds()),
				StartedAt:      event.At.Add(-planned),
				CompletedAt:    event.At,
			}
			if err := history.Add(ctx, record); err != nil {
				log.Warn().Err(err).Msg("record completed interval")
			}
			refreshCompleted(ctx, history, trayManager, log)
		}
		if trayManager == nil || event.Type == timekeeper.EventConfigError {
			continue
		}

		status := fmt.Sprintf("%s %s", event.Display(), event.Interval.Label())
		running := event.Running
		fyne.Do(func() {
			trayManager.SetStatus(status)
			trayManager.SetRunning(running)
		})
	}
}

func refreshCompleted(ctx context.Context, history *storage.History, trayManager *tray.Manager, log zerolog.Logger) {
	if history == nil || trayManager == nil {
		return
	}
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	counts, err := history.CountSince(ctx, midnight)
	if err != nil {
		log.Warn().Err(err).Msg("count completed intervals")
		return
	}
	completed := counts[model.IntervalWork]

	recent, err := history.Recent(ctx, 1)
	if err != nil {
		log.Warn().Err(err).Msg("read last completed interval")
	}
	fyne.Do(func() {
		trayManager.SetCompleted(completed)
		if len(recent) > 0 {
			trayManager.SetLastCompleted(recent[0].Interval.Label(), recent[0].CompletedAt)
		}
	})
}
