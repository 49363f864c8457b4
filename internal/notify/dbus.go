package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"pomodoro/internal/core/timekeeper"
)

const (
	busName       = "org.freedesktop.Notifications"
	busPath       = dbus.ObjectPath("/org/freedesktop/Notifications")
	busInterface  = "org.freedesktop.Notifications"
	defaultAction = "default"
	// expireTimeout is in milliseconds.
	expireTimeout = int32(4000)
)

type busObject interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// DBusNotifier sends freedesktop notifications and reports activation.
type DBusNotifier struct {
	mu       sync.Mutex
	conn     io.Closer
	object   busObject
	appName  string
	byTag    map[string]uint32
	handlers map[uint32]func()
	signals  chan *dbus.Signal
	done     chan struct{}
	logger   zerolog.Logger
}

// NewDBusNotifier connects to the session bus.
func NewDBusNotifier(appName string, logger zerolog.Logger) (*DBusNotifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(busPath),
		dbus.WithMatchInterface(busInterface),
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("match notification signals: %w", err)
	}

	notifier := newDBusNotifier(conn.Object(busName, busPath), appName, logger)
	notifier.conn = conn
	conn.Signal(notifier.signals)
	go notifier.listen()
	return notifier, nil
}

func newDBusNotifier(object busObject, appName string, logger zerolog.Logger) *DBusNotifier {
	return &DBusNotifier{
		object:   object,
		appName:  appName,
		byTag:    make(map[string]uint32),
		handlers: make(map[uint32]func()),
		signals:  make(chan *dbus.Signal, 16),
		done:     make(chan struct{}),
		logger:   logger.With().Str("component", "notify").Logger(),
	}
}

// Notify shows the notification, replacing an earlier one with the same tag.
func (notifier *DBusNotifier) Notify(notification timekeeper.Notification) error {
	notifier.mu.Lock()
	replaces := notifier.byTag[notification.Tag]
	notifier.mu.Unlock()

	var actions []string
	if notification.OnActivate != nil {
		actions = []string{defaultAction, "Open"}
	}

	call := notifier.object.Call(busInterface+".Notify", 0,
		notifier.appName,
		replaces,
		"",
		notification.Title,
		notification.Body,
		actions,
		map[string]dbus.Variant{},
		expireTimeout,
	)
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("notify reply: %w", err)
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if notification.Tag != "" {
		notifier.byTag[notification.Tag] = id
	}
	delete(notifier.handlers, replaces)
	if notification.OnActivate != nil {
		notifier.handlers[id] = notification.OnActivate
	}
	return nil
}

// Close disconnects from the session bus. The bus closes the signal channel,
// which stops the listener.
func (notifier *DBusNotifier) Close() error {
	if notifier.conn == nil {
		return nil
	}
	return notifier.conn.Close()
}

func (notifier *DBusNotifier) listen() {
	defer close(notifier.done)
	for signal := range notifier.signals {
		notifier.handleSignal(signal)
	}
}

func (notifier *DBusNotifier) handleSignal(signal *dbus.Signal) {
	if signal == nil || len(signal.Body) == 0 {
		return
	}
	id, ok := signal.Body[0].(uint32)
	if !ok {
		return
	}

	switch signal.Name {
	case busInterface + ".ActionInvoked":
		notifier.activate(id)
	case busInterface + ".NotificationClosed":
		notifier.forget(id)
	}
}

func (notifier *DBusNotifier) activate(id uint32) {
	notifier.mu.Lock()
	handler := notifier.handlers[id]
	notifier.mu.Unlock()
	if handler == nil {
		return
	}

	handler()
	notifier.forget(id)

	call := notifier.object.Call(busInterface+".CloseNotification", 0, id)
	if call.Err != nil {
		notifier.logger.Warn().Err(call.Err).Uint32("id", id).Msg("close notification")
	}
}

func (notifier *DBusNotifier) forget(id uint32) {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	delete(notifier.handlers, id)
	for tag, tagged := range notifier.byTag {
		if tagged == id {
			delete(notifier.byTag, tag)
		}
	}
}
