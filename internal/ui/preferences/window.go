// Package preferences provides the settings editor window.
package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"resthawk/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings model.Settings
	onSave   func(model.Settings)

	breaksEnabled *widget.Check
	frequency     *widget.Entry
	length        *widget.Entry
	title         *widget.Entry
	message       *widget.Entry

	postponeLength *widget.Entry
	postponeLimit  *widget.Entry

	idleEnabled *widget.Check
	idleLength  *widget.Entry
	idleNotify  *widget.Check

	workingEnabled *widget.Check
	dayChecks      map[time.Weekday]*widget.Check
	dayRanges      map[time.Weekday]*widget.Entry

	notificationType *widget.Select
	soundType        *widget.Select
	autostart        *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings)) *Window {
	window := app.NewWindow("RestHawk Settings")

	prefs := &Window{
		window:    window,
		settings:  settings,
		onSave:    onSave,
		dayChecks: map[time.Weekday]*widget.Check{},
		dayRanges: map[time.Weekday]*widget.Entry{},
	}

	prefs.breaksEnabled = widget.NewCheck("Enable breaks", nil)
	prefs.frequency = widget.NewEntry()
	prefs.length = widget.NewEntry()
	prefs.title = widget.NewEntry()
	prefs.message = widget.NewEntry()

	prefs.postponeLength = widget.NewEntry()
	prefs.postponeLimit = widget.NewEntry()

	prefs.idleEnabled = widget.NewCheck("Reset the break timer when idle", nil)
	prefs.idleLength = widget.NewEntry()
	prefs.idleNotify = widget.NewCheck("Notify how long I was away", nil)

	prefs.workingEnabled = widget.NewCheck("Only remind me during working hours", nil)

	prefs.notificationType = widget.NewSelect([]string{
		string(model.NotificationPopup),
		string(model.NotificationToast),
	}, nil)
	prefs.soundType = widget.NewSelect([]string{
		string(model.SoundNone),
		string(model.SoundGong),
		string(model.SoundBlip),
	}, nil)
	prefs.autostart = widget.NewCheck("Start at login", nil)

	dayRows := make([]fyne.CanvasObject, 0, len(weekdayOrder))
	for _, day := range weekdayOrder {
		check := widget.NewCheck(day.String(), nil)
		ranges := widget.NewEntry()
		ranges.SetPlaceHolder("09:00-18:00")
		prefs.dayChecks[day] = check
		prefs.dayRanges[day] = ranges
		dayRows = append(dayRows, container.NewBorder(nil, nil, check, nil, ranges))
	}

	form := container.NewVBox(
		widget.NewLabelWithStyle("Breaks", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.breaksEnabled,
		container.NewHBox(widget.NewLabel("Break every"), prefs.frequency, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Break length"), prefs.length, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Title"), prefs.title),
		container.NewHBox(widget.NewLabel("Message"), prefs.message),
		container.NewHBox(widget.NewLabel("Show as"), prefs.notificationType),
		container.NewHBox(widget.NewLabel("Sound"), prefs.soundType),

		widget.NewLabelWithStyle("Postponing", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Postpone by"), prefs.postponeLength, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Postpone limit (0 = unlimited)"), prefs.postponeLimit),

		widget.NewLabelWithStyle("Idle", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.idleEnabled,
		container.NewHBox(widget.NewLabel("Idle after"), prefs.idleLength, widget.NewLabel("min")),
		prefs.idleNotify,

		widget.NewLabelWithStyle("Working hours", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.workingEnabled,
		container.NewVBox(dayRows...),

		widget.NewLabelWithStyle("System", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.autostart,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVScroll(form)))
	window.Resize(fyne.NewSize(460, 560))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	prefs.applySettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	prefs.applySettings(settings)
}

func (prefs *Window) applySettings(settings model.Settings) {
	prefs.breaksEnabled.SetChecked(settings.BreaksEnabled)
	prefs.frequency.SetText(fmt.Sprintf("%d", int(settings.BreakFrequency.Minutes())))
	prefs.length.SetText(fmt.Sprintf("%d", int(settings.BreakLength.Minutes())))
	prefs.title.SetText(settings.BreakTitle)
	prefs.message.SetText(settings.BreakMessage)

	prefs.postponeLength.SetText(fmt.Sprintf("%d", int(settings.PostponeLength.Minutes())))
	prefs.postponeLimit.SetText(fmt.Sprintf("%d", settings.PostponeLimit))

	prefs.idleEnabled.SetChecked(settings.IdleResetEnabled)
	prefs.idleLength.SetText(fmt.Sprintf("%d", int(settings.IdleResetLength.Minutes())))
	prefs.idleNotify.SetChecked(settings.IdleResetNotification)

	prefs.workingEnabled.SetChecked(settings.WorkingHoursEnabled)
	for _, day := range weekdayOrder {
		dayHours := settings.WorkingHours[day]
		prefs.dayChecks[day].SetChecked(dayHours.Enabled)
		prefs.dayRanges[day].SetText(formatRanges(dayHours.Ranges))
	}

	prefs.notificationType.SetSelected(string(settings.NotificationType))
	prefs.soundType.SetSelected(string(settings.SoundType))
	prefs.autostart.SetChecked(settings.Autostart)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	settings.BreaksEnabled = prefs.breaksEnabled.Checked
	if minutes, ok := parsePositiveInt(prefs.frequency.Text); ok {
		settings.BreakFrequency = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.length.Text); ok {
		settings.BreakLength = time.Duration(minutes) * time.Minute
	}
	settings.BreakTitle = strings.TrimSpace(prefs.title.Text)
	settings.BreakMessage = strings.TrimSpace(prefs.message.Text)

	if minutes, ok := parsePositiveInt(prefs.postponeLength.Text); ok {
		settings.PostponeLength = time.Duration(minutes) * time.Minute
	}
	if limit, err := strconv.Atoi(strings.TrimSpace(prefs.postponeLimit.Text)); err == nil && limit >= 0 {
		settings.PostponeLimit = limit
	}

	settings.IdleResetEnabled = prefs.idleEnabled.Checked
	if minutes, ok := parsePositiveInt(prefs.idleLength.Text); ok {
		settings.IdleResetLength = time.Duration(minutes) * time.Minute
	}
	settings.IdleResetNotification = prefs.idleNotify.Checked

	settings.WorkingHoursEnabled = prefs.workingEnabled.Checked
	for _, day := range weekdayOrder {
		settings.WorkingHours[day] = model.DayHours{
			Enabled: prefs.dayChecks[day].Checked,
			Ranges:  parseRanges(prefs.dayRanges[day].Text),
		}
	}

	settings.NotificationType = model.NotificationType(prefs.notificationType.Selected)
	settings.SoundType = model.SoundType(prefs.soundType.Selected)
	settings.Autostart = prefs.autostart.Checked

	settings.Normalize()
	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

func formatRanges(ranges []model.MinuteRange) string {
	parts := make([]string, 0, len(ranges))
	for _, span := range ranges {
		parts = append(parts, fmt.Sprintf("%02d:%02d-%02d:%02d",
			span.FromMinutes/60, span.FromMinutes%60,
			span.ToMinutes/60, span.ToMinutes%60))
	}
	return strings.Join(parts, ", ")
}

// parseRanges reads "09:00-12:30, 13:30-18:00". Malformed spans are dropped.
func parseRanges(value string) []model.MinuteRange {
	var ranges []model.MinuteRange
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		bounds := strings.SplitN(part, "-", 2)
		if len(bounds) != 2 {
			continue
		}
		from, fromOK := parseClock(bounds[0])
		to, toOK := parseClock(bounds[1])
		if !fromOK || !toOK || from > to {
			continue
		}
		ranges = append(ranges, model.MinuteRange{FromMinutes: from, ToMinutes: to})
	}
	return ranges
}

func parseClock(value string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}
