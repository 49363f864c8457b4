package timekeeper

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"pomodoro/internal/core/model"
)

type ControllerTestSuite struct {
	suite.Suite
	clock      *fakeClock
	config     model.DurationConfig
	notifier   *recordingNotifier
	player     *recordingPlayer
	title      *recordingTitle
	host       *recordingHost
	controller *Controller
}

func (suite *ControllerTestSuite) SetupTest() {
	suite.clock = newFakeClock()
	suite.config = model.DurationConfig{
		Minutes: map[model.IntervalType]int{
			model.IntervalWork:       25,
			model.IntervalShortBreak: 5,
			model.IntervalLongBreak:  15,
		},
		Sound: "/sounds/bell.wav",
	}
	suite.notifier = &recordingNotifier{}
	suite.player = &recordingPlayer{}
	suite.title = &recordingTitle{}
	suite.host = &recordingHost{}

	suite.controller = New(suite.config, Config{
		Clock:    suite.clock,
		Logger:   zerolog.Nop(),
		Dispatch: func(effect func()) { effect() },
	})
	suite.controller.SetEffects(Effects{
		Notifier: suite.notifier,
		Player:   suite.player,
		Title:    suite.title,
		Host:     suite.host,
	})
}

func (suite *ControllerTestSuite) startAt(ms int64) {
	suite.clock.Set(at(ms))
	suite.controller.Start()
}

func (suite *ControllerTestSuite) pauseAt(ms int64) {
	suite.clock.Set(at(ms))
	suite.controller.Pause()
}

func (suite *ControllerTestSuite) tick(ms int64) Snapshot {
	snapshot, err := suite.controller.Tick(at(ms), suite.config)
	suite.Require().NoError(err)
	return snapshot
}

func (suite *ControllerTestSuite) snapshotAt(ms int64) Snapshot {
	suite.clock.Set(at(ms))
	snapshot, err := suite.controller.Snapshot()
	suite.Require().NoError(err)
	return snapshot
}

func (suite *ControllerTestSuite) TestInitialState() {
	state := suite.controller.State()
	suite.Equal(model.IntervalWork, state.ActiveType)
	suite.False(state.Running)
	suite.True(state.StartReference.IsZero())
	suite.True(state.PauseReference.IsZero())

	snapshot := suite.snapshotAt(987654)
	suite.Equal(1500.0, snapshot.RemainingSeconds)
	suite.Equal("25:00", snapshot.Display())
	suite.Equal("25:00 Pomodoro", snapshot.Title())
}

func (suite *ControllerTestSuite) TestRunToCompletionFiresOnce() {
	suite.startAt(0)

	first := suite.tick(0)
	suite.InDelta(1500.0, first.RemainingSeconds, 0.001)
	suite.False(first.Expired)
	suite.Zero(suite.notifier.Count())

	done := suite.tick(1500001)
	suite.True(done.Expired)
	suite.Zero(done.RemainingSeconds)
	suite.Equal(1, suite.notifier.Count())
	suite.Equal(1, suite.player.Count())

	again := suite.tick(1500200)
	suite.True(again.Expired)
	suite.Equal(1, suite.notifier.Count())
	suite.Equal(1, suite.player.Count())

	notification := suite.notifier.Last()
	suite.Equal("Octo-tasks", notification.Title)
	suite.Equal("Pomodoro is over!", notification.Body)
	suite.Equal("done", notification.Tag)
	suite.Equal([]string{"/sounds/bell.wav"}, suite.player.sources)
}

func (suite *ControllerTestSuite) TestManyTicksAfterExpiryFireOnce() {
	suite.startAt(0)
	for ms := int64(1499000); ms < 1520000; ms += 200 {
		suite.tick(ms)
	}
	suite.Equal(1, suite.notifier.Count())
	suite.Equal(1, suite.player.Count())
}

func (suite *ControllerTestSuite) TestPauseResumeKeepsRemaining() {
	suite.startAt(0)
	suite.pauseAt(10000)

	paused := suite.snapshotAt(10000)
	suite.InDelta(1490.0, paused.RemainingSeconds, 0.001)
	suite.True(paused.Paused)

	// Display is frozen while paused.
	suite.InDelta(1490.0, suite.snapshotAt(14000).RemainingSeconds, 0.001)

	suite.startAt(15000)
	resumed := suite.tick(15000)
	suite.InDelta(1490.0, resumed.RemainingSeconds, 0.001)
	suite.Equal(at(5000), suite.controller.State().StartReference)
	suite.True(suite.controller.State().PauseReference.IsZero())
}

func (suite *ControllerTestSuite) TestPausedGapContributesNothing() {
	tests := []struct {
		pause int64
		gap   int64
	}{
		{pause: 1, gap: 1},
		{pause: 60000, gap: 3600000},
		{pause: 1234567, gap: 89},
		{pause: 200, gap: 86400000},
	}

	for _, tt := range tests {
		suite.SetupTest()
		suite.startAt(0)
		before := suite.tick(tt.pause)
		suite.pauseAt(tt.pause)
		suite.startAt(tt.pause + tt.gap)
		after := suite.tick(tt.pause + tt.gap)
		suite.InDelta(before.RemainingSeconds, after.RemainingSeconds, 0.001, "pause=%d gap=%d", tt.pause, tt.gap)
	}
}

func (suite *ControllerTestSuite) TestRepeatedPauseResume() {
	suite.startAt(0)
	suite.pauseAt(1000)
	suite.startAt(5000)
	suite.pauseAt(6000)
	suite.startAt(60000)

	suite.InDelta(1498.0, suite.tick(60000).RemainingSeconds, 0.001)
}

func (suite *ControllerTestSuite) TestResetThenStartIsFresh() {
	suite.startAt(0)
	suite.tick(700000)
	suite.pauseAt(700000)

	suite.clock.Set(at(800000))
	suite.controller.Reset()
	state := suite.controller.State()
	suite.False(state.Running)
	suite.True(state.StartReference.IsZero())
	suite.True(state.PauseReference.IsZero())
	suite.Equal(model.IntervalWork, state.ActiveType)

	suite.startAt(900000)
	suite.InDelta(1500.0, suite.tick(900000).RemainingSeconds, 0.001)
}

func (suite *ControllerTestSuite) TestSwitchTypeDiscardsRun() {
	suite.startAt(0)
	suite.tick(30000)

	suite.clock.Set(at(30000))
	suite.Require().NoError(suite.controller.SwitchType(model.IntervalShortBreak))

	state := suite.controller.State()
	suite.False(state.Running)
	suite.Equal(model.IntervalShortBreak, state.ActiveType)

	snapshot := suite.snapshotAt(45000)
	suite.Equal(300.0, snapshot.RemainingSeconds)
	suite.Equal("05:00 Short Break", snapshot.Title())
}

func (suite *ControllerTestSuite) TestSwitchTypeRejectsUnknownType() {
	err := suite.controller.SwitchType(model.IntervalType("siesta"))
	var configErr *ConfigurationError
	suite.Require().ErrorAs(err, &configErr)
	suite.Equal(model.IntervalWork, suite.controller.State().ActiveType)
}

func (suite *ControllerTestSuite) TestStaleTicksHaveNoEffect() {
	suite.startAt(0)
	suite.pauseAt(1000)
	titles := len(suite.title.All())

	snapshot := suite.tick(2000000)
	suite.False(snapshot.Expired)
	suite.Zero(suite.notifier.Count())
	suite.Len(suite.title.All(), titles)

	suite.clock.Set(at(2000000))
	suite.controller.Reset()
	suite.tick(3000000)
	suite.Zero(suite.notifier.Count())
}

func (suite *ControllerTestSuite) TestTickPublishesTitle() {
	suite.startAt(0)
	suite.tick(1000)
	suite.tick(61000)
	suite.Equal([]string{"25:00 Pomodoro", "24:59 Pomodoro", "23:59 Pomodoro"}, suite.title.All())
}

func (suite *ControllerTestSuite) TestSwitchAndResetPublishTitle() {
	suite.startAt(0)
	suite.tick(61000)

	suite.clock.Set(at(61000))
	suite.Require().NoError(suite.controller.SwitchType(model.IntervalShortBreak))
	titles := suite.title.All()
	suite.Equal("05:00 Short Break", titles[len(titles)-1])

	suite.startAt(62000)
	suite.tick(92000)
	titles = suite.title.All()
	suite.Equal("04:30 Short Break", titles[len(titles)-1])

	suite.clock.Set(at(92000))
	suite.controller.Reset()
	titles = suite.title.All()
	suite.Equal("05:00 Short Break", titles[len(titles)-1])
}

func (suite *ControllerTestSuite) TestStoppedTickUsesGivenConfig() {
	shorter := suite.config.Clone()
	shorter.Minutes[model.IntervalWork] = 10

	snapshot, err := suite.controller.Tick(at(0), shorter)
	suite.Require().NoError(err)
	suite.False(snapshot.Running)
	suite.Equal(600.0, snapshot.RemainingSeconds)
}

func (suite *ControllerTestSuite) TestCompleteEventCarriesPlannedDuration() {
	events := suite.controller.Subscribe(16)
	suite.startAt(0)
	longer := suite.config.Clone()
	longer.Minutes[model.IntervalWork] = 50
	suite.controller.UpdateConfig(longer)
	suite.tick(1500001)

	var complete *Event
	for len(events) > 0 {
		event := <-events
		if event.Type == EventComplete {
			complete = &event
		} else {
			suite.Zero(event.Planned)
		}
	}
	suite.Require().NotNil(complete)
	suite.Equal(25*time.Minute, complete.Planned)
}

func (suite *ControllerTestSuite) TestMissingDurationIsConfigurationError() {
	suite.startAt(0)
	broken := model.DurationConfig{Minutes: map[model.IntervalType]int{model.IntervalShortBreak: 5}}

	_, err := suite.controller.Tick(at(1000), broken)
	suite.Require().Error(err)
	suite.True(errors.Is(err, ErrMissingDuration))

	var configErr *ConfigurationError
	suite.Require().ErrorAs(err, &configErr)
	suite.Equal(model.IntervalWork, configErr.Interval)

	state := suite.controller.State()
	suite.True(state.Running)
	suite.Equal(at(0), state.StartReference)
	suite.Zero(suite.notifier.Count())
}

func (suite *ControllerTestSuite) TestFailedSideEffectsDoNotRefire() {
	suite.notifier.err = errSinkDown
	suite.player.err = errSinkDown

	suite.startAt(0)
	suite.tick(1500001)
	suite.tick(1500201)
	suite.tick(1500401)

	suite.Equal(1, suite.notifier.Count())
	suite.Equal(1, suite.player.Count())
}

func (suite *ControllerTestSuite) TestNotificationActivationFocusesHost() {
	suite.startAt(0)
	suite.tick(1500001)

	notification := suite.notifier.Last()
	suite.Require().NotNil(notification.OnActivate)
	notification.OnActivate()
	suite.Equal(1, suite.host.focused)
}

func (suite *ControllerTestSuite) TestStartAfterCompletionBeginsFreshRun() {
	suite.startAt(0)
	suite.tick(1500001)

	suite.startAt(1600000)
	snapshot := suite.tick(1600000)
	suite.False(snapshot.Expired)
	suite.InDelta(1500.0, snapshot.RemainingSeconds, 0.001)

	suite.tick(3100001)
	suite.Equal(2, suite.notifier.Count())
}

func (suite *ControllerTestSuite) TestStartWhileRunningIsNoop() {
	suite.startAt(0)
	suite.startAt(5000)
	suite.Equal(at(0), suite.controller.State().StartReference)
}

func (suite *ControllerTestSuite) TestPauseWhileStoppedIsNoop() {
	suite.pauseAt(1000)
	suite.True(suite.controller.State().PauseReference.IsZero())

	suite.startAt(2000)
	suite.Equal(at(2000), suite.controller.State().StartReference)
}

func (suite *ControllerTestSuite) TestObserversReceiveTransitions() {
	events := suite.controller.Subscribe(16)

	suite.startAt(0)
	suite.tick(1000)
	suite.tick(1500001)
	suite.pauseAt(1500002)

	var types []EventType
	for len(events) > 0 {
		event := <-events
		types = append(types, event.Type)
		suite.GreaterOrEqual(event.Remaining, 0.0)
	}
	suite.Equal([]EventType{EventStart, EventTick, EventComplete, EventPause}, types)

	suite.controller.Close()
	_, open := <-events
	suite.False(open)
}

func (suite *ControllerTestSuite) TestUpdateConfigAppliesToNextReading() {
	updated := suite.config.Clone()
	updated.Minutes[model.IntervalWork] = 50
	suite.controller.UpdateConfig(updated)

	suite.Equal(3000.0, suite.snapshotAt(0).RemainingSeconds)
	suite.Equal(50, suite.controller.Config().Minutes[model.IntervalWork])
}

func TestControllerTestSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func TestNewDefaults(t *testing.T) {
	controller := New(model.DefaultDurationConfig(), Config{})
	require.NotNil(t, controller)
	assert.Equal(t, defaultAppName, controller.options.AppName)
	assert.IsType(t, SystemClock{}, controller.options.Clock)

	snapshot, err := controller.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "25:00", snapshot.Display())
}
