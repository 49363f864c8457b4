package timekeeper

import (
	"errors"
	"sync"
	"time"
)

var epoch = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

// at returns the instant ms milliseconds after epoch.
func at(ms int64) time.Time {
	return epoch.Add(time.Duration(ms) * time.Millisecond)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: epoch}
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Set(now time.Time) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = now
}

type recordingNotifier struct {
	mu            sync.Mutex
	notifications []Notification
	err           error
}

func (notifier *recordingNotifier) Notify(notification Notification) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	notifier.notifications = append(notifier.notifications, notification)
	return notifier.err
}

func (notifier *recordingNotifier) Count() int {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return len(notifier.notifications)
}

func (notifier *recordingNotifier) Last() Notification {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	return notifier.notifications[len(notifier.notifications)-1]
}

type recordingPlayer struct {
	mu      sync.Mutex
	sources []string
	err     error
}

func (player *recordingPlayer) PlayOnce(source string) error {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.sources = append(player.sources, source)
	return player.err
}

func (player *recordingPlayer) Count() int {
	player.mu.Lock()
	defer player.mu.Unlock()
	return len(player.sources)
}

type recordingTitle struct {
	mu     sync.Mutex
	titles []string
}

func (title *recordingTitle) SetTitle(text string) {
	title.mu.Lock()
	defer title.mu.Unlock()
	title.titles = append(title.titles, text)
}

func (title *recordingTitle) All() []string {
	title.mu.Lock()
	defer title.mu.Unlock()
	return append([]string(nil), title.titles...)
}

type recordingHost struct {
	mu      sync.Mutex
	focused int
	compact bool
}

func (host *recordingHost) RequestFocus() {
	host.mu.Lock()
	defer host.mu.Unlock()
	host.focused++
}

func (host *recordingHost) SetCompactMode(compact bool) {
	host.mu.Lock()
	defer host.mu.Unlock()
	host.compact = compact
}

var errSinkDown = errors.New("sink unavailable")
