// Package scheduler holds the break-timing state machine. It decides once
// per tick whether the user owes a break, schedules the next one, and
// reconciles drift caused by idleness, screen locks and system sleep.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"resthawk/internal/core/model"

	"go.uber.org/zap"
)

// SessionState is the idle probe's verdict about the current session.
type SessionState string

const (
	SessionActive  SessionState = "active"
	SessionIdle    SessionState = "idle"
	SessionLocked  SessionState = "locked"
	SessionUnknown SessionState = "unknown"
)

// IdleProbe senses user inactivity and screen lock.
type IdleProbe interface {
	StateFor(threshold time.Duration) SessionState
}

// SettingsSource supplies the current configuration; read on every tick.
type SettingsSource interface {
	Get() model.Settings
}

// Notifier shows a toast notification.
type Notifier interface {
	Notify(title, message string)
}

// BreakWindows opens the popup break window(s).
type BreakWindows interface {
	Open()
}

// SoundPlayer receives sound-start and sound-end cues.
type SoundPlayer interface {
	PlayStart(sound model.SoundType)
	PlayEnd(sound model.SoundType)
}

// TrayRefresher repaints the tray status after a scheduling change.
type TrayRefresher interface {
	Refresh()
}

// Effects bundles the one-way sinks the scheduler fires. Any of them may be
// nil; failures or absence never block a tick.
type Effects struct {
	Notifier Notifier
	Windows  BreakWindows
	Sounds   SoundPlayer
	Tray     TrayRefresher
}

// State is the scheduler's mutable timing state. Zero time values mean
// "absent".
type State struct {
	BreakTime      time.Time
	HavingBreak    bool
	PostponedCount int
	IdleStart      time.Time
	LockStart      time.Time
	LastTick       time.Time
}

// Scheduler owns one State and serializes every operation on it. It is safe
// to call from the tick driver and UI callbacks concurrently.
type Scheduler struct {
	mu       sync.Mutex
	state    State
	settings SettingsSource
	probe    IdleProbe
	effects  Effects
	logger   *zap.Logger
}

// New creates a scheduler with all timestamps absent.
func New(settings SettingsSource, probe IdleProbe, effects Effects, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		settings: settings,
		probe:    probe,
		effects:  effects,
		logger:   logger,
	}
}

// durationSeconds converts a configured duration to whole seconds. A zero or
// negative duration counts as one second so that drift comparisons against it
// can never be perpetually true.
func durationSeconds(value time.Duration) int64 {
	seconds := int64(value / time.Second)
	if seconds <= 0 {
		return 1
	}
	return seconds
}

// Tick runs one reconciliation cycle. It never panics past its own boundary:
// a fault is logged and LastTick is still stamped so the next cycle has a
// fresh drift baseline.
func (scheduler *Scheduler) Tick(now time.Time) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	defer func() {
		if fault := recover(); fault != nil {
			scheduler.logger.Error("tick failed", zap.Any("fault", fault))
		}
		scheduler.state.LastTick = now
	}()

	scheduler.reconcileLocked(now)
}

func (scheduler *Scheduler) reconcileLocked(now time.Time) {
	settings := scheduler.settings.Get()

	var elapsed int64
	if !scheduler.state.LastTick.IsZero() {
		gap := now.Sub(scheduler.state.LastTick)
		if gap < 0 {
			gap = -gap
		}
		elapsed = int64(gap / time.Second)
	}

	breakSeconds := durationSeconds(settings.BreakFrequency)
	idleResetSeconds := durationSeconds(settings.IdleResetLength)

	switch {
	case !scheduler.state.LockStart.IsZero() && int64(now.Sub(scheduler.state.LockStart)/time.Second) > breakSeconds:
		// A lock outlasting a full break period makes an idle summary pointless.
		scheduler.state.IdleStart = time.Time{}
		scheduler.state.LockStart = time.Time{}
		scheduler.logger.Info("lock outlasted break period, dropping idle tracking")
	case elapsed > breakSeconds:
		// A gap this large means sleep or a stall: the pending break is stale.
		scheduler.state.LockStart = time.Time{}
		scheduler.state.BreakTime = time.Time{}
		scheduler.logger.Info("tick gap exceeded break period, discarding pending break",
			zap.Int64("elapsed_seconds", elapsed))
	case elapsed > idleResetSeconds:
		if scheduler.state.IdleStart.IsZero() {
			// Attribute the idle period to the last known-good sample.
			scheduler.state.IdleStart = scheduler.state.LastTick
		}
		scheduler.state.LockStart = time.Time{}
		scheduler.createBreakLocked(now, false)
	}

	shouldHaveBreak := scheduler.shouldHaveBreakLocked(now, settings)

	switch {
	case !shouldHaveBreak && !scheduler.state.HavingBreak && !scheduler.state.BreakTime.IsZero():
		// Suppress the pending break while idle or outside working hours.
		if scheduler.checkIdleLocked(now, settings) {
			scheduler.state.IdleStart = now
		}
		scheduler.state.BreakTime = time.Time{}
		scheduler.refreshTray()
	case shouldHaveBreak && scheduler.state.BreakTime.IsZero():
		scheduler.createBreakLocked(now, false)
	case shouldHaveBreak:
		if now.After(scheduler.state.BreakTime) {
			scheduler.doBreakLocked(now, settings)
		}
	}
}

// CreateBreak schedules the next break relative to now, using the postpone
// length when postponing and the break frequency otherwise.
func (scheduler *Scheduler) CreateBreak(now time.Time, isPostpone bool) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.createBreakLocked(now, isPostpone)
}

func (scheduler *Scheduler) createBreakLocked(now time.Time, isPostpone bool) {
	settings := scheduler.settings.Get()

	length := settings.BreakFrequency
	if isPostpone {
		length = settings.PostponeLength
	}
	length = time.Duration(durationSeconds(length)) * time.Second
	scheduler.state.BreakTime = now.Add(length)

	if !scheduler.state.IdleStart.IsZero() {
		if settings.IdleResetNotification {
			idleFor := now.Sub(scheduler.state.IdleStart).Round(time.Second)
			scheduler.notify("Break reset", fmt.Sprintf("You were idle for %s", idleFor))
		}
		scheduler.state.IdleStart = time.Time{}
		scheduler.state.PostponedCount = 0
	}

	scheduler.refreshTray()
}

func (scheduler *Scheduler) doBreakLocked(now time.Time, settings model.Settings) {
	scheduler.state.HavingBreak = true

	if settings.SoundType != model.SoundNone && scheduler.effects.Sounds != nil {
		scheduler.effects.Sounds.PlayStart(settings.SoundType)
	}

	switch settings.NotificationType {
	case model.NotificationToast:
		scheduler.notify(settings.BreakTitle, settings.BreakMessage)
		// Toast breaks are self-dismissing: reschedule right away.
		scheduler.state.HavingBreak = false
		scheduler.createBreakLocked(now, false)
	default:
		if scheduler.effects.Windows != nil {
			scheduler.effects.Windows.Open()
		}
	}
}

// EndPopupBreak accepts a popup-closed signal. It is a no-op unless a break
// is scheduled and its time has already passed, which guards against a window
// closing early.
func (scheduler *Scheduler) EndPopupBreak(now time.Time) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	if scheduler.state.BreakTime.IsZero() || !now.After(scheduler.state.BreakTime) {
		return
	}

	scheduler.state.BreakTime = time.Time{}
	scheduler.state.HavingBreak = false
	scheduler.state.PostponedCount = 0

	settings := scheduler.settings.Get()
	if settings.SoundType != model.SoundNone && scheduler.effects.Sounds != nil {
		scheduler.effects.Sounds.PlayEnd(settings.SoundType)
	}
	scheduler.refreshTray()
}

// PostponeBreak delays the imminent break. Callers should consult
// AllowPostpone first; the limit is not enforced here.
func (scheduler *Scheduler) PostponeBreak(now time.Time) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	scheduler.state.PostponedCount++
	scheduler.state.HavingBreak = false
	scheduler.createBreakLocked(now, true)
}

// AllowPostpone reports whether another postponement is within the limit.
func (scheduler *Scheduler) AllowPostpone() bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	settings := scheduler.settings.Get()
	return settings.PostponeLimit == 0 || scheduler.state.PostponedCount < settings.PostponeLimit
}

// StartBreakNow makes the next tick treat the break as due immediately.
func (scheduler *Scheduler) StartBreakNow(now time.Time) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.state.BreakTime = now
}

// BreakTime returns when the next break is due; zero when none is scheduled.
func (scheduler *Scheduler) BreakTime() time.Time {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.state.BreakTime
}

// BreakLength returns the configured break duration.
func (scheduler *Scheduler) BreakLength() time.Duration {
	return scheduler.settings.Get().BreakLength
}

// Status returns a snapshot of the scheduler state.
func (scheduler *Scheduler) Status() State {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.state
}

func (scheduler *Scheduler) shouldHaveBreakLocked(now time.Time, settings model.Settings) bool {
	return !scheduler.state.HavingBreak &&
		settings.BreaksEnabled &&
		InWorkingHours(now, settings) &&
		!scheduler.checkIdleLocked(now, settings)
}

// checkIdleLocked reports whether the session counts as idle right now, and
// maintains LockStart as a side effect: set on the first Locked sample,
// cleared on any non-Locked sample.
func (scheduler *Scheduler) checkIdleLocked(now time.Time, settings model.Settings) bool {
	threshold := time.Duration(durationSeconds(settings.IdleResetLength)) * time.Second

	sessionState := SessionUnknown
	if scheduler.probe != nil {
		sessionState = scheduler.probe.StateFor(threshold)
	}

	if sessionState == SessionLocked {
		if scheduler.state.LockStart.IsZero() {
			scheduler.state.LockStart = now
			scheduler.logger.Info("screen locked")
			return false
		}
		lockSeconds := int64(now.Sub(scheduler.state.LockStart) / time.Second)
		return lockSeconds > durationSeconds(settings.IdleResetLength)
	}

	if !scheduler.state.LockStart.IsZero() {
		scheduler.logger.Info("screen unlocked")
	}
	scheduler.state.LockStart = time.Time{}

	if !settings.IdleResetEnabled {
		return false
	}
	return sessionState == SessionIdle
}

func (scheduler *Scheduler) notify(title, message string) {
	if scheduler.effects.Notifier != nil {
		scheduler.effects.Notifier.Notify(title, message)
	}
}

func (scheduler *Scheduler) refreshTray() {
	if scheduler.effects.Tray != nil {
		scheduler.effects.Tray.Refresh()
	}
}
