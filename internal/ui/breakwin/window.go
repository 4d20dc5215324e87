// Package breakwin manages the popup break window. The scheduler asks it to
// open; the window signals back when the user finishes or postpones.
package breakwin

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"resthawk/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Callbacks defines the signals the window sends back into the scheduler.
type Callbacks struct {
	OnEnd      func()
	OnPostpone func()
}

// SettingsSource supplies the break content and length at open time.
type SettingsSource interface {
	Get() model.Settings
}

// PostponeGate reports whether the postpone button should be offered.
type PostponeGate interface {
	AllowPostpone() bool
}

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Window is the popup break UI.
type Window struct {
	app            fyne.App
	window         fyne.Window
	settings       SettingsSource
	gate           PostponeGate
	callbacks      Callbacks
	titleLabel     *canvas.Text
	messageLabel   *canvas.Text
	timerLabel     *canvas.Text
	postponeButton *widget.Button
	cancelCtx      context.CancelFunc
}

// New creates the break window. It stays hidden until Open is called.
func New(app fyne.App, settings SettingsSource, gate PostponeGate, callbacks Callbacks) *Window {
	window := app.NewWindow("RestHawk")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{R: 18, G: 32, B: 47, A: 245})

	titleLabel := canvas.NewText("", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	titleLabel.Alignment = fyne.TextAlignCenter
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 28

	messageLabel := canvas.NewText("", color.NRGBA{R: 210, G: 218, B: 226, A: 255})
	messageLabel.Alignment = fyne.TextAlignCenter
	messageLabel.TextSize = 18

	timerLabel := canvas.NewText("--:--", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true}
	timerLabel.TextSize = 40

	doneButton := widget.NewButton("End break", nil)
	postponeButton := widget.NewButton("Postpone", nil)

	buttons := container.NewCenter(container.NewHBox(postponeButton, doneButton))
	content := container.NewCenter(container.NewVBox(
		container.NewCenter(titleLabel),
		container.NewCenter(messageLabel),
		container.NewCenter(timerLabel),
		buttons,
	))
	window.SetContent(container.NewMax(background, content))

	popup := &Window{
		app:            app,
		window:         window,
		settings:       settings,
		gate:           gate,
		callbacks:      callbacks,
		titleLabel:     titleLabel,
		messageLabel:   messageLabel,
		timerLabel:     timerLabel,
		postponeButton: postponeButton,
	}

	doneButton.OnTapped = popup.finish
	postponeButton.OnTapped = popup.postpone
	window.SetCloseIntercept(popup.finish)

	return popup
}

// Open shows the window and starts the break countdown. Implements the
// scheduler's BreakWindows collaborator.
func (popup *Window) Open() {
	settings := popup.settings.Get()

	fyne.Do(func() {
		popup.titleLabel.Text = settings.BreakTitle
		popup.titleLabel.Refresh()
		popup.messageLabel.Text = settings.BreakMessage
		popup.messageLabel.Refresh()
		popup.setRemaining(settings.BreakLength)

		if popup.gate != nil && !popup.gate.AllowPostpone() {
			popup.postponeButton.Disable()
		} else {
			popup.postponeButton.Enable()
		}

		popup.window.SetFullScreen(true)
		popup.window.Show()
		popup.window.RequestFocus()
	})

	popup.stopCountdown()
	ctx, cancel := context.WithCancel(context.Background())
	popup.cancelCtx = cancel
	go popup.countdown(ctx, settings.BreakLength)
}

// Hide closes the window without signalling the scheduler.
func (popup *Window) Hide() {
	popup.stopCountdown()
	fyne.Do(func() {
		popup.window.SetFullScreen(false)
		popup.window.Hide()
	})
}

func (popup *Window) countdown(ctx context.Context, remaining time.Duration) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			remaining -= time.Second
			if remaining <= 0 {
				fyne.Do(popup.finish)
				return
			}
			left := remaining
			fyne.Do(func() {
				popup.setRemaining(left)
			})
		}
	}
}

func (popup *Window) finish() {
	popup.stopCountdown()
	popup.window.SetFullScreen(false)
	popup.window.Hide()
	if popup.callbacks.OnEnd != nil {
		popup.callbacks.OnEnd()
	}
}

func (popup *Window) postpone() {
	popup.stopCountdown()
	popup.window.SetFullScreen(false)
	popup.window.Hide()
	if popup.callbacks.OnPostpone != nil {
		popup.callbacks.OnPostpone()
	}
}

func (popup *Window) setRemaining(remaining time.Duration) {
	popup.timerLabel.Text = formatDuration(remaining)
	popup.timerLabel.Refresh()
}

func (popup *Window) stopCountdown() {
	if popup.cancelCtx != nil {
		popup.cancelCtx()
		popup.cancelCtx = nil
	}
}

func formatDuration(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int(value.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
