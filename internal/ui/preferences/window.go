package preferences

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	settings   Settings
	onSave     func(Settings)
	work       *widget.Entry
	shortBreak *widget.Entry
	longBreak  *widget.Entry
	sound      *widget.Entry
	compact    *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Timer Settings")

	work := widget.NewEntry()
	shortBreak := widget.NewEntry()
	longBreak := widget.NewEntry()
	sound := widget.NewEntry()
	sound.SetPlaceHolder("bundled alert")
	compact := widget.NewCheck("Compact window", nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Durations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Pomodoro"), work, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Short break"), shortBreak, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break"), longBreak, widget.NewLabel("min")),
		widget.NewLabel("Alert sound"),
		sound,
		compact,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(360, 320))

	prefs := &Window{
		window:     window,
		onSave:     onSave,
		work:       work,
		shortBreak: shortBreak,
		longBreak:  longBreak,
		sound:      sound,
		compact:    compact,
	}
	prefs.UpdateSettings(settings)
	saveButton.OnTapped = prefs.handleSave

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// SetOnSave replaces the save handler.
func (prefs *Window) SetOnSave(handler func(Settings)) {
	prefs.onSave = handler
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.work.SetText(strconv.Itoa(settings.WorkMinutes))
	prefs.shortBreak.SetText(strconv.Itoa(settings.ShortBreakMinutes))
	prefs.longBreak.SetText(strconv.Itoa(settings.LongBreakMinutes))
	prefs.sound.SetText(settings.Sound)
	prefs.compact.SetChecked(settings.Compact)
}

func (prefs *Window) handleSave() {
	prefs.settings = prefs.collect()
	if prefs.onSave != nil {
		prefs.onSave(prefs.settings)
	}
	prefs.window.Hide()
}

// collect reads the form. Invalid minute entries keep the previous value.
func (prefs *Window) collect() Settings {
	settings := prefs.settings
	if minutes, ok := parsePositiveInt(prefs.work.Text); ok {
		settings.WorkMinutes = minutes
	}
	if minutes, ok := parsePositiveInt(prefs.shortBreak.Text); ok {
		settings.ShortBreakMinutes = minutes
	}
	if minutes, ok := parsePositiveInt(prefs.longBreak.Text); ok {
		settings.LongBreakMinutes = minutes
	}
	settings.Sound = prefs.sound.Text
	settings.Compact = prefs.compact.Checked
	return settings
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
