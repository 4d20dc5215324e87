package main

import (
	"time"

	"resthawk/internal/core/model"
	"resthawk/internal/core/scheduler"
	"resthawk/internal/platform"
	"resthawk/internal/storage"
	"resthawk/internal/ui/breakwin"
	"resthawk/internal/ui/preferences"
	"resthawk/internal/ui/sound"
	"resthawk/internal/ui/tray"
	"resthawk/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

const appName = "RestHawk"

// fyneNotifier adapts fyne notifications to the scheduler's Notifier.
type fyneNotifier struct {
	app fyne.App
}

func (notifier *fyneNotifier) Notify(title, message string) {
	notifier.app.SendNotification(fyne.NewNotification(title, message))
}

// trayRefresher forwards scheduler refreshes onto the UI thread. The manager
// is bound after the tray is built.
type trayRefresher struct {
	manager *tray.Manager
}

func (refresher *trayRefresher) Refresh() {
	if refresher.manager != nil {
		fyne.Do(refresher.manager.Refresh)
	}
}

// windowOpener late-binds the popup break window.
type windowOpener struct {
	window *breakwin.Window
}

func (opener *windowOpener) Open() {
	if opener.window != nil {
		opener.window.Open()
	}
}

// trayStatus exposes scheduler and settings facts to the tray menu.
type trayStatus struct {
	core  *scheduler.Scheduler
	store *storage.Store
}

func (status *trayStatus) BreakTime() time.Time { return status.core.BreakTime() }
func (status *trayStatus) AllowPostpone() bool  { return status.core.AllowPostpone() }
func (status *trayStatus) BreaksEnabled() bool  { return status.store.Get().BreaksEnabled }
func (status *trayStatus) HavingBreak() bool    { return status.core.Status().HavingBreak }

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	defer func() {
		_ = logger.Sync()
	}()

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		logger.Warn("another instance is already running")
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	store, err := storage.NewStore(appName, logger)
	if err != nil {
		logger.Error("load settings", zap.Error(err))
		return
	}

	fyneApp := app.NewWithID("com.resthawk.app")
	activeIcon := resources.MustIcon("hawk_active.png")
	pausedIcon := resources.MustIcon("hawk_paused.png")
	fyneApp.SetIcon(activeIcon)

	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error("system tray unsupported on this platform")
		return
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("RestHawk is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	refresher := &trayRefresher{}
	opener := &windowOpener{}

	core := scheduler.New(store, platform.NewIdleProbe(logger), scheduler.Effects{
		Notifier: &fyneNotifier{app: fyneApp},
		Windows:  opener,
		Sounds:   sound.NewPlayer(logger),
		Tray:     refresher,
	}, logger)

	opener.window = breakwin.New(fyneApp, store, core, breakwin.Callbacks{
		OnEnd: func() {
			core.EndPopupBreak(time.Now())
		},
		OnPostpone: func() {
			core.PostponeBreak(time.Now())
		},
	})

	platformService := platform.NewService()
	prefsWindow := preferences.New(fyneApp, store.Get(), func(updated model.Settings) {
		if err := store.Set(updated); err != nil {
			logger.Error("save settings", zap.Error(err))
		}
		if err := platform.SyncAutostart(platformService, appName, updated.Autostart); err != nil {
			logger.Warn("sync autostart", zap.Error(err))
		}
		refresher.Refresh()
	})

	driver := scheduler.NewDriver(core, time.Second, logger)

	status := &trayStatus{core: core, store: store}
	var trayManager *tray.Manager
	trayManager = tray.New(desktopApp, status, tray.Callbacks{
		OnPreferences: func() {
			prefsWindow.UpdateSettings(store.Get())
			prefsWindow.Show()
		},
		OnStartBreak: func() {
			core.StartBreakNow(time.Now())
		},
		OnPostpone: func() {
			core.PostponeBreak(time.Now())
		},
		OnToggleBreaks: func(enabled bool) {
			settings := store.Get()
			settings.BreaksEnabled = enabled
			if err := store.Set(settings); err != nil {
				logger.Error("save settings", zap.Error(err))
			}
			if enabled {
				desktopApp.SetSystemTrayIcon(activeIcon)
			} else {
				desktopApp.SetSystemTrayIcon(pausedIcon)
			}
			trayManager.Refresh()
		},
		OnQuit: func() {
			driver.Stop()
			fyneApp.Quit()
		},
	})
	refresher.manager = trayManager

	desktopApp.SetSystemTrayIcon(activeIcon)
	driver.Start()
	defer driver.Stop()

	logger.Info("resthawk started")
	fyneApp.Run()
}
