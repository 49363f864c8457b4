package timerview

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"pomodoro/internal/core/model"
	"pomodoro/internal/core/timekeeper"
)

// Timer is the controller surface used by the window.
type Timer interface {
	Start()
	Pause()
	Reset()
	SwitchType(intervalType model.IntervalType) error
	Snapshot() (timekeeper.Snapshot, error)
}

const (
	compactWidthFraction  = float32(0.12)
	compactHeightFraction = float32(0.10)
	defaultScreenWidth    = float32(1920)
	defaultScreenHeight   = float32(1080)
	fullWidth             = float32(420)
	fullHeight            = float32(260)
)

var (
	clockColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	errorColor = color.NRGBA{R: 235, G: 87, B: 87, A: 255}
	labelColor = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
)

// Window shows the countdown with interval tabs and start/pause/reset.
// It also serves as the title and host collaborators of the controller.
type Window struct {
	window      fyne.Window
	timer       Timer
	clockText   *canvas.Text
	statusText  *canvas.Text
	tabs        map[model.IntervalType]*widget.Button
	tabBar      *fyne.Container
	controls    *fyne.Container
	startButton *widget.Button
	pauseButton *widget.Button
	resetButton *widget.Button
	compact     bool
}

// New creates the timer window.
func New(app fyne.App, title string, timer Timer) *Window {
	window := app.NewWindow(title)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	clockText := canvas.NewText("--:--", clockColor)
	clockText.Alignment = fyne.TextAlignCenter
	clockText.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clockText.TextSize = 64

	statusText := canvas.NewText("", labelColor)
	statusText.Alignment = fyne.TextAlignCenter
	statusText.TextSize = 14

	view := &Window{
		window:     window,
		timer:      timer,
		clockText:  clockText,
		statusText: statusText,
		tabs:       make(map[model.IntervalType]*widget.Button),
	}

	tabButtons := make([]fyne.CanvasObject, 0, len(model.IntervalTypes))
	for _, intervalType := range model.IntervalTypes {
		intervalType := intervalType
		button := widget.NewButton(intervalType.Label(), func() {
			view.switchTo(intervalType)
		})
		view.tabs[intervalType] = button
		tabButtons = append(tabButtons, button)
	}
	view.tabBar = container.NewGridWithColumns(len(tabButtons), tabButtons...)

	view.startButton = widget.NewButton("Start", func() {
		view.timer.Start()
		view.refresh()
	})
	view.startButton.Importance = widget.HighImportance
	view.pauseButton = widget.NewButton("Pause", func() {
		view.timer.Pause()
		view.refresh()
	})
	view.pauseButton.Importance = widget.DangerImportance
	view.resetButton = widget.NewButton("Reset", func() {
		view.timer.Reset()
		view.refresh()
	})
	view.controls = container.NewHBox(layout.NewSpacer(), view.startButton, view.pauseButton, view.resetButton, layout.NewSpacer())

	content := container.NewBorder(view.tabBar, view.controls, nil, nil,
		container.NewVBox(layout.NewSpacer(), clockText, statusText, layout.NewSpacer()))
	window.SetContent(content)
	window.Resize(fyne.NewSize(fullWidth, fullHeight))

	view.refresh()
	return view
}

// Window returns the underlying Fyne window.
func (view *Window) Window() fyne.Window {
	return view.window
}

// Show displays the window.
func (view *Window) Show() {
	view.window.Show()
}

// SetTitle updates the window title from any goroutine.
func (view *Window) SetTitle(text string) {
	fyne.Do(func() {
		view.window.SetTitle(text)
	})
}

// RequestFocus raises the window.
func (view *Window) RequestFocus() {
	fyne.Do(func() {
		view.window.Show()
		view.window.RequestFocus()
	})
}

// SetCompactMode shrinks the window to the clock only.
func (view *Window) SetCompactMode(compact bool) {
	fyne.Do(func() {
		view.setCompactUnsafe(compact)
	})
}

// Follow renders controller events until the channel is closed.
func (view *Window) Follow(events <-chan timekeeper.Event) {
	for event := range events {
		event := event
		fyne.Do(func() {
			view.renderEventUnsafe(event)
		})
	}
}

func (view *Window) switchTo(intervalType model.IntervalType) {
	if err := view.timer.SwitchType(intervalType); err != nil {
		dialog.ShowError(err, view.window)
		return
	}
	view.refresh()
}

func (view *Window) refresh() {
	snapshot, err := view.timer.Snapshot()
	if err != nil {
		view.showErrorUnsafe(err.Error())
		return
	}
	view.renderUnsafe(snapshot)
}

func (view *Window) renderEventUnsafe(event timekeeper.Event) {
	if event.Type == timekeeper.EventConfigError {
		view.showErrorUnsafe(event.Message)
		return
	}
	view.renderUnsafe(timekeeper.Snapshot{
		Run:              event.Run,
		Interval:         event.Interval,
		Running:          event.Running,
		Expired:          event.Type == timekeeper.EventComplete,
		RemainingSeconds: event.Remaining,
	})
}

func (view *Window) renderUnsafe(snapshot timekeeper.Snapshot) {
	view.clockText.Text = snapshot.Display()
	view.clockText.Color = clockColor
	view.clockText.Refresh()

	view.statusText.Text = snapshot.Interval.Label()
	view.statusText.Color = labelColor
	view.statusText.Refresh()

	for intervalType, button := range view.tabs {
		if intervalType == snapshot.Interval {
			button.Disable()
		} else {
			button.Enable()
		}
	}
	if snapshot.Running {
		view.startButton.Disable()
		view.pauseButton.Enable()
	} else {
		view.startButton.Enable()
		view.pauseButton.Disable()
	}
}

func (view *Window) showErrorUnsafe(message string) {
	view.statusText.Text = message
	view.statusText.Color = errorColor
	view.statusText.Refresh()
}

func (view *Window) setCompactUnsafe(compact bool) {
	view.compact = compact
	if compact {
		view.tabBar.Hide()
		view.controls.Hide()
		view.clockText.TextSize = 32
		view.clockText.Refresh()
		view.resizeToScreenFraction()
		return
	}
	view.tabBar.Show()
	view.controls.Show()
	view.clockText.TextSize = 64
	view.clockText.Refresh()
	view.window.Resize(fyne.NewSize(fullWidth, fullHeight))
}

func (view *Window) resizeToScreenFraction() {
	screenSize := fyne.NewSize(defaultScreenWidth, defaultScreenHeight)
	canvasSize := view.window.Canvas().Size()
	// A screen-sized canvas is the best available proxy for the monitor size.
	if canvasSize.Width >= 1024 && canvasSize.Height >= 720 {
		screenSize = canvasSize
	}

	width := screenSize.Width * compactWidthFraction
	height := screenSize.Height * compactHeightFraction
	minSize := view.window.Content().MinSize()
	if width < minSize.Width {
		width = minSize.Width
	}
	if height < minSize.Height {
		height = minSize.Height
	}
	view.window.Resize(fyne.NewSize(width, height))
}
