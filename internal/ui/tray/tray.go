package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"

	"pomodoro/internal/core/model"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow          func()
	OnToggleRun     func()
	OnReset         func()
	OnSwitch        func(model.IntervalType)
	OnToggleCompact func()
	OnPreferences   func()
	OnQuit          func()
}

// MenuSetter is the part of desktop.App the tray needs.
type MenuSetter interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Manager handles system tray state.
type Manager struct {
	app         MenuSetter
	title       string
	callbacks   Callbacks
	statusItem  *fyne.MenuItem
	runItem     *fyne.MenuItem
	compactItem *fyne.MenuItem
	switchItem  *fyne.MenuItem
	running     bool
	compact     bool
	statusLabel string
	completed   int
	lastItem    *fyne.MenuItem
}

// New creates a tray manager with the provided callbacks.
func New(app MenuSetter, title string, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		title:     title,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.lastItem = fyne.NewMenuItem("No completed intervals", nil)
	manager.lastItem.Disabled = true

	manager.runItem = fyne.NewMenuItem("Start", func() {
		if manager.callbacks.OnToggleRun != nil {
			manager.callbacks.OnToggleRun()
		}
	})

	manager.compactItem = fyne.NewMenuItem("Compact window", func() {
		if manager.callbacks.OnToggleCompact != nil {
			manager.callbacks.OnToggleCompact()
		}
	})

	switchItems := make([]*fyne.MenuItem, 0, len(model.IntervalTypes))
	for _, intervalType := range model.IntervalTypes {
		intervalType := intervalType
		switchItems = append(switchItems, fyne.NewMenuItem(intervalType.Label(), func() {
			if manager.callbacks.OnSwitch != nil {
				manager.callbacks.OnSwitch(intervalType)
			}
		}))
	}
	manager.switchItem = fyne.NewMenuItem("Switch to", nil)
	manager.switchItem.ChildMenu = fyne.NewMenu("", switchItems...)

	manager.refreshStatus()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	if status == manager.statusLabel {
		return
	}
	manager.statusLabel = status
	manager.refreshStatus()
}

// SetRunning flips the start/pause item.
func (manager *Manager) SetRunning(running bool) {
	if running == manager.running {
		return
	}
	manager.running = running
	manager.refreshStatus()
}

// SetCompact updates the compact window check mark.
func (manager *Manager) SetCompact(compact bool) {
	manager.compact = compact
	manager.refreshStatus()
}

// SetCompleted shows how many pomodoros were completed today.
func (manager *Manager) SetCompleted(count int) {
	manager.completed = count
	manager.refreshStatus()
}

// SetLastCompleted shows the most recent completed interval.
func (manager *Manager) SetLastCompleted(label string, completedAt time.Time) {
	manager.lastItem.Label = fmt.Sprintf("Last: %s at %s", label, completedAt.Format("15:04"))
	manager.refreshMenu()
}

// StatusLabel returns the status line shown in the menu.
func (manager *Manager) StatusLabel() string {
	return manager.statusItem.Label
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if status == "" {
		status = "idle"
	}
	manager.statusItem.Label = fmt.Sprintf("%s (%d today)", status, manager.completed)

	if manager.running {
		manager.runItem.Label = "Pause"
	} else {
		manager.runItem.Label = "Start"
	}
	manager.compactItem.Checked = manager.compact
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(manager.title,
		manager.statusItem,
		manager.lastItem,
		fyne.NewMenuItem("Show timer", func() {
			if manager.callbacks.OnShow != nil {
				manager.callbacks.OnShow()
			}
		}),
		fyne.NewMenuItemSeparator(),
		manager.runItem,
		fyne.NewMenuItem("Reset", func() {
			if manager.callbacks.OnReset != nil {
				manager.callbacks.OnReset()
			}
		}),
		manager.switchItem,
		fyne.NewMenuItemSeparator(),
		manager.compactItem,
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}
