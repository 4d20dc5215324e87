// Package tray renders the system tray menu and break status.
package tray

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnPreferences  func()
	OnStartBreak   func()
	OnPostpone     func()
	OnToggleBreaks func(enabled bool)
	OnQuit         func()
}

// StatusSource supplies the scheduling facts shown in the menu.
type StatusSource interface {
	BreakTime() time.Time
	AllowPostpone() bool
	BreaksEnabled() bool
	HavingBreak() bool
}

// Manager handles system tray state.
type Manager struct {
	app          desktop.App
	source       StatusSource
	callbacks    Callbacks
	statusItem   *fyne.MenuItem
	startItem    *fyne.MenuItem
	postponeItem *fyne.MenuItem
	toggleItem   *fyne.MenuItem
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, source StatusSource, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		source:    source,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.startItem = fyne.NewMenuItem("Start break now", func() {
		if manager.callbacks.OnStartBreak != nil {
			manager.callbacks.OnStartBreak()
		}
	})

	manager.postponeItem = fyne.NewMenuItem("Postpone break", func() {
		if manager.callbacks.OnPostpone != nil {
			manager.callbacks.OnPostpone()
		}
	})

	manager.toggleItem = fyne.NewMenuItem("Disable breaks", func() {
		if manager.callbacks.OnToggleBreaks != nil {
			manager.callbacks.OnToggleBreaks(!manager.source.BreaksEnabled())
		}
	})

	manager.Refresh()
	return manager
}

// Refresh repaints the menu from current scheduler facts.
func (manager *Manager) Refresh() {
	enabled := manager.source.BreaksEnabled()
	breakTime := manager.source.BreakTime()

	switch {
	case !enabled:
		manager.statusItem.Label = "Status: breaks disabled"
	case manager.source.HavingBreak():
		manager.statusItem.Label = "Status: on a break"
	case breakTime.IsZero():
		manager.statusItem.Label = "Status: no break scheduled"
	default:
		manager.statusItem.Label = fmt.Sprintf("Status: next break at %s", breakTime.Format("15:04"))
	}

	if enabled {
		manager.toggleItem.Label = "Disable breaks"
	} else {
		manager.toggleItem.Label = "Enable breaks"
	}

	manager.startItem.Disabled = !enabled
	manager.postponeItem.Disabled = !enabled || breakTime.IsZero() || !manager.source.AllowPostpone()

	manager.app.SetSystemTrayMenu(fyne.NewMenu("RestHawk",
		manager.statusItem,
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		manager.startItem,
		manager.postponeItem,
		manager.toggleItem,
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}
