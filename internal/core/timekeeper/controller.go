package timekeeper

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pomodoro/internal/core/model"
)

const (
	notificationTag = "done"
	defaultAppName  = "Octo-tasks"
)

// Config contains runtime options for the Controller.
type Config struct {
	// AppName is used as the notification title.
	AppName string
	Clock   Clock
	Logger  zerolog.Logger
	// Dispatch runs completion side effects. Defaults to a new goroutine.
	Dispatch func(func())
}

// TimerState is the authoritative state of the single active interval.
// Zero timestamps mean absent.
type TimerState struct {
	ActiveType     model.IntervalType
	Running        bool
	StartReference time.Time
	PauseReference time.Time
}

// Controller is the interval state machine.
type Controller struct {
	mu      sync.Mutex
	config  model.DurationConfig
	options Config
	logger  zerolog.Logger
	state   TimerState
	// expired latches the completion edge of the current run.
	expired bool
	run     uint64
	effects Effects
	events  []chan Event
	closed  bool
}

// New creates a Controller timing a Work interval that has not started.
func New(config model.DurationConfig, options Config) *Controller {
	if options.AppName == "" {
		options.AppName = defaultAppName
	}
	if options.Clock == nil {
		options.Clock = SystemClock{}
	}
	if options.Dispatch == nil {
		options.Dispatch = func(effect func()) { go effect() }
	}

	return &Controller{
		config:  config.Clone(),
		options: options,
		logger:  options.Logger.With().Str("component", "timekeeper").Logger(),
		state:   TimerState{ActiveType: model.IntervalWork},
		run:     1,
	}
}

// SetEffects injects the external collaborators.
func (controller *Controller) SetEffects(effects Effects) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.effects = effects
}

// Subscribe registers a new observer channel.
func (controller *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.closed {
		close(ch)
		return ch
	}
	controller.events = append(controller.events, ch)
	return ch
}

// Close closes every observer channel.
func (controller *Controller) Close() {
	controller.mu.Lock()
	if controller.closed {
		controller.mu.Unlock()
		return
	}
	controller.closed = true
	events := controller.events
	controller.events = nil
	controller.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Config returns a copy of the current duration configuration.
func (controller *Controller) Config() model.DurationConfig {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.config.Clone()
}

// UpdateConfig replaces the duration configuration. An in-progress run keeps
// its start reference; the new duration applies from the next reading.
func (controller *Controller) UpdateConfig(config model.DurationConfig) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.config = config.Clone()
}

// State returns a copy of the timer state.
func (controller *Controller) State() TimerState {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.state
}

// Start begins a fresh run, or resumes a paused one with the paused gap folded
// out of the start reference.
func (controller *Controller) Start() {
	now := controller.options.Clock.Now()

	controller.mu.Lock()
	defer controller.mu.Unlock()

	switch {
	case controller.state.Running && !controller.expired:
		return
	case controller.expired, controller.state.StartReference.IsZero():
		controller.beginRunLocked(now)
	case !controller.state.PauseReference.IsZero():
		gap := now.Sub(controller.state.PauseReference)
		controller.state.StartReference = controller.state.StartReference.Add(gap)
	default:
		controller.beginRunLocked(now)
	}
	controller.state.PauseReference = time.Time{}
	controller.state.Running = true

	controller.logger.Debug().Str("interval", string(controller.state.ActiveType)).Uint64("run", controller.run).Msg("start")
	controller.emitTransitionLocked(EventStart, now)
}

// Pause stops the countdown and records the pause instant.
func (controller *Controller) Pause() {
	now := controller.options.Clock.Now()

	controller.mu.Lock()
	defer controller.mu.Unlock()

	if !controller.state.Running {
		return
	}
	controller.state.Running = false
	controller.state.PauseReference = now

	controller.logger.Debug().Uint64("run", controller.run).Msg("pause")
	controller.emitTransitionLocked(EventPause, now)
}

// Reset discards the current run. The active interval type is kept.
func (controller *Controller) Reset() {
	now := controller.options.Clock.Now()

	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.resetLocked()
	controller.logger.Debug().Uint64("run", controller.run).Msg("reset")
	controller.emitTransitionLocked(EventReset, now)
}

// SwitchType selects a new interval type and discards the current run.
func (controller *Controller) SwitchType(intervalType model.IntervalType) error {
	if !intervalType.Valid() {
		return &ConfigurationError{Interval: intervalType}
	}
	now := controller.options.Clock.Now()

	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.state.ActiveType = intervalType
	controller.resetLocked()
	controller.logger.Debug().Str("interval", string(intervalType)).Msg("switch")
	controller.emitTransitionLocked(EventSwitch, now)
	return nil
}

// Snapshot returns the display reading at the current time using the stored
// configuration. It never mutates state.
func (controller *Controller) Snapshot() (Snapshot, error) {
	now := controller.options.Clock.Now()

	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.snapshotLocked(now, controller.config)
}

// TickNow runs Tick with the current time and stored configuration.
func (controller *Controller) TickNow() (Snapshot, error) {
	return controller.Tick(controller.options.Clock.Now(), controller.Config())
}

// Tick recomputes the remaining time of the running interval. The completion
// side effects fire on the tick that first observes expiry and never again for
// the same run. Ticks while not running have no effect.
func (controller *Controller) Tick(now time.Time, config model.DurationConfig) (Snapshot, error) {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	if !controller.state.Running {
		snapshot, _ := controller.snapshotLocked(now, config)
		return snapshot, nil
	}

	minutes, ok := config.Lookup(controller.state.ActiveType)
	if !ok {
		err := &ConfigurationError{Interval: controller.state.ActiveType}
		controller.emitLocked(Event{
			Type:     EventConfigError,
			Run:      controller.run,
			Interval: controller.state.ActiveType,
			Running:  controller.state.Running,
			Message:  err.Error(),
			At:       now,
		})
		return Snapshot{}, err
	}

	reading := Measure(controller.state.StartReference, minutes, now)
	snapshot := Snapshot{
		Run:              controller.run,
		Interval:         controller.state.ActiveType,
		Running:          true,
		RemainingSeconds: reading.RemainingSeconds,
	}

	eventType := EventTick
	var planned time.Duration
	if reading.Expired {
		snapshot.RemainingSeconds = 0
		snapshot.Expired = true
		if !controller.expired {
			controller.expired = true
			eventType = EventComplete
			planned, _ = config.Duration(controller.state.ActiveType)
			controller.dispatchCompletionLocked(config.Sound)
			controller.logger.Info().Str("interval", string(controller.state.ActiveType)).Uint64("run", controller.run).Msg("interval complete")
		}
	}

	if controller.effects.Title != nil {
		controller.effects.Title.SetTitle(snapshot.Title())
	}
	controller.emitLocked(Event{
		Type:      eventType,
		Run:       snapshot.Run,
		Interval:  snapshot.Interval,
		Running:   true,
		Remaining: snapshot.RemainingSeconds,
		Planned:   planned,
		At:        now,
	})
	return snapshot, nil
}

func (controller *Controller) beginRunLocked(now time.Time) {
	controller.run++
	controller.expired = false
	controller.state.StartReference = now
}

func (controller *Controller) resetLocked() {
	controller.run++
	controller.expired = false
	controller.state.Running = false
	controller.state.StartReference = time.Time{}
	controller.state.PauseReference = time.Time{}
}

func (controller *Controller) snapshotLocked(now time.Time, config model.DurationConfig) (Snapshot, error) {
	snapshot := Snapshot{
		Run:      controller.run,
		Interval: controller.state.ActiveType,
		Running:  controller.state.Running,
		Paused:   !controller.state.Running && !controller.state.PauseReference.IsZero(),
		Expired:  controller.expired,
	}

	minutes, ok := config.Lookup(controller.state.ActiveType)
	if !ok {
		return snapshot, &ConfigurationError{Interval: controller.state.ActiveType}
	}

	at := now
	if snapshot.Paused {
		at = controller.state.PauseReference
	}
	reading := Measure(controller.state.StartReference, minutes, at)
	snapshot.RemainingSeconds = reading.RemainingSeconds
	if controller.expired || reading.Expired {
		snapshot.RemainingSeconds = 0
	}
	return snapshot, nil
}

func (controller *Controller) dispatchCompletionLocked(sound string) {
	effects := controller.effects
	label := controller.state.ActiveType.Label()
	logger := controller.logger

	if effects.Player != nil {
		controller.options.Dispatch(func() {
			if err := effects.Player.PlayOnce(sound); err != nil {
				logger.Warn().Err(err).Str("sound", sound).Msg("play alert")
			}
		})
	}

	if effects.Notifier != nil {
		notification := Notification{
			Title: controller.options.AppName,
			Body:  fmt.Sprintf("%s is over!", label),
			Tag:   notificationTag,
			OnActivate: func() {
				if effects.Host != nil {
					effects.Host.RequestFocus()
				}
			},
		}
		controller.options.Dispatch(func() {
			if err := effects.Notifier.Notify(notification); err != nil {
				logger.Warn().Err(err).Msg("send notification")
			}
		})
	}
}

// emitTransitionLocked publishes the new display to observers and the title.
func (controller *Controller) emitTransitionLocked(eventType EventType, now time.Time) {
	snapshot, err := controller.snapshotLocked(now, controller.config)
	if err == nil && controller.effects.Title != nil {
		controller.effects.Title.SetTitle(snapshot.Title())
	}
	controller.emitLocked(Event{
		Type:      eventType,
		Run:       snapshot.Run,
		Interval:  snapshot.Interval,
		Running:   snapshot.Running,
		Remaining: snapshot.RemainingSeconds,
		At:        now,
	})
}

func (controller *Controller) emitLocked(event Event) {
	for _, ch := range controller.events {
		select {
		case ch <- event:
		default:
		}
	}
}
