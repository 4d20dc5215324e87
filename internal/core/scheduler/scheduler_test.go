package scheduler

import (
	"testing"
	"time"

	"resthawk/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// baseTime is a Wednesday morning.
var baseTime = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

type stubSettings struct {
	settings   model.Settings
	panicOnGet bool
}

func (stub *stubSettings) Get() model.Settings {
	if stub.panicOnGet {
		panic("settings store exploded")
	}
	return stub.settings
}

type stubProbe struct {
	state SessionState
}

func (stub *stubProbe) StateFor(threshold time.Duration) SessionState {
	return stub.state
}

// recorder implements every effect sink and records each call.
type recorder struct {
	titles    []string
	messages  []string
	opened    int
	starts    []model.SoundType
	ends      []model.SoundType
	refreshes int
}

func (rec *recorder) Notify(title, message string) {
	rec.titles = append(rec.titles, title)
	rec.messages = append(rec.messages, message)
}

func (rec *recorder) Open() { rec.opened++ }

func (rec *recorder) PlayStart(sound model.SoundType) { rec.starts = append(rec.starts, sound) }

func (rec *recorder) PlayEnd(sound model.SoundType) { rec.ends = append(rec.ends, sound) }

func (rec *recorder) Refresh() { rec.refreshes++ }

func baseSettings() model.Settings {
	settings := model.Default()
	settings.BreaksEnabled = true
	settings.BreakFrequency = 30 * time.Minute
	settings.BreakLength = 10 * time.Minute
	settings.PostponeLength = 5 * time.Minute
	settings.PostponeLimit = 0
	settings.IdleResetEnabled = true
	settings.IdleResetLength = 5 * time.Minute
	settings.IdleResetNotification = false
	settings.WorkingHoursEnabled = false
	settings.NotificationType = model.NotificationPopup
	settings.SoundType = model.SoundNone
	return settings
}

func newTestScheduler(settings model.Settings, probeState SessionState) (*Scheduler, *stubSettings, *stubProbe, *recorder) {
	settingsStub := &stubSettings{settings: settings}
	probe := &stubProbe{state: probeState}
	rec := &recorder{}
	core := New(settingsStub, probe, Effects{
		Notifier: rec,
		Windows:  rec,
		Sounds:   rec,
		Tray:     rec,
	}, zap.NewNop())
	return core, settingsStub, probe, rec
}

func TestDurationSeconds(t *testing.T) {
	assert.Equal(t, int64(1), durationSeconds(0))
	assert.Equal(t, int64(1), durationSeconds(-time.Minute))
	assert.Equal(t, int64(1), durationSeconds(500*time.Millisecond))
	assert.Equal(t, int64(90), durationSeconds(90*time.Second))
}

func TestTickSchedulesBreakWhenNoneIsPending(t *testing.T) {
	core, _, _, _ := newTestScheduler(baseSettings(), SessionActive)

	core.Tick(baseTime)

	assert.Equal(t, baseTime.Add(30*time.Minute), core.BreakTime())
	assert.Equal(t, baseTime, core.Status().LastTick)
}

func TestCreateBreakUsesPostponeLength(t *testing.T) {
	core, _, _, _ := newTestScheduler(baseSettings(), SessionActive)

	core.CreateBreak(baseTime, true)

	assert.Equal(t, baseTime.Add(5*time.Minute), core.BreakTime())
}

func TestCreateBreakZeroFrequencyCoercesToOneSecond(t *testing.T) {
	settings := baseSettings()
	settings.BreakFrequency = 0
	core, _, _, _ := newTestScheduler(settings, SessionActive)

	core.CreateBreak(baseTime, false)

	assert.Equal(t, baseTime.Add(time.Second), core.BreakTime())
}

func TestAllowPostpone(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		postponed int
		want      bool
	}{
		{"unlimited", 0, 99, true},
		{"under limit", 3, 2, true},
		{"at limit", 3, 3, false},
		{"over limit", 3, 4, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			settings := baseSettings()
			settings.PostponeLimit = test.limit
			core, _, _, _ := newTestScheduler(settings, SessionActive)
			core.state.PostponedCount = test.postponed

			assert.Equal(t, test.want, core.AllowPostpone())
		})
	}
}

func TestPostponeLimitReachedAfterSequentialPostpones(t *testing.T) {
	settings := baseSettings()
	settings.PostponeLimit = 2
	core, _, _, _ := newTestScheduler(settings, SessionActive)

	for i := 0; i < 3; i++ {
		core.PostponeBreak(baseTime.Add(time.Duration(i) * time.Minute))
	}

	assert.False(t, core.AllowPostpone())
	assert.Equal(t, 3, core.Status().PostponedCount)
}

func TestPostponeBreakReschedules(t *testing.T) {
	core, _, _, _ := newTestScheduler(baseSettings(), SessionActive)
	core.state.HavingBreak = true

	core.PostponeBreak(baseTime)

	status := core.Status()
	assert.False(t, status.HavingBreak)
	assert.Equal(t, 1, status.PostponedCount)
	assert.Equal(t, baseTime.Add(5*time.Minute), status.BreakTime)
}

func TestEndPopupBreakBeforeDueTimeIsNoOp(t *testing.T) {
	core, _, _, _ := newTestScheduler(baseSettings(), SessionActive)
	core.state.BreakTime = baseTime.Add(10 * time.Minute)
	core.state.HavingBreak = true
	core.state.PostponedCount = 3

	core.EndPopupBreak(baseTime)

	status := core.Status()
	assert.Equal(t, baseTime.Add(10*time.Minute), status.BreakTime)
	assert.True(t, status.HavingBreak)
	assert.Equal(t, 3, status.PostponedCount)
}

func TestEndPopupBreakWithoutScheduledBreakIsNoOp(t *testing.T) {
	core, _, _, rec := newTestScheduler(baseSettings(), SessionActive)

	core.EndPopupBreak(baseTime)

	assert.Zero(t, rec.refreshes)
}

func TestEndPopupBreakClearsStateAndPlaysEndCue(t *testing.T) {
	settings := baseSettings()
	settings.SoundType = model.SoundGong
	core, _, _, rec := newTestScheduler(settings, SessionActive)
	core.state.BreakTime = baseTime
	core.state.HavingBreak = true
	core.state.PostponedCount = 2

	core.EndPopupBreak(baseTime.Add(time.Second))

	status := core.Status()
	assert.True(t, status.BreakTime.IsZero())
	assert.False(t, status.HavingBreak)
	assert.Zero(t, status.PostponedCount)
	assert.Equal(t, []model.SoundType{model.SoundGong}, rec.ends)
}

func TestPopupBreakLifecycle(t *testing.T) {
	core, _, _, rec := newTestScheduler(baseSettings(), SessionActive)

	core.CreateBreak(baseTime, false)
	require.Equal(t, baseTime.Add(30*time.Minute), core.BreakTime())

	due := baseTime.Add(30*time.Minute + time.Second)
	core.Tick(due)

	status := core.Status()
	assert.Equal(t, 1, rec.opened)
	assert.True(t, status.HavingBreak)

	// A second tick while the popup is open must not open another window.
	core.Tick(due.Add(time.Second))
	assert.Equal(t, 1, rec.opened)

	core.EndPopupBreak(due.Add(time.Minute))
	status = core.Status()
	assert.False(t, status.HavingBreak)
	assert.True(t, status.BreakTime.IsZero())
}

func TestToastBreakSelfDismissesAndReschedules(t *testing.T) {
	settings := baseSettings()
	settings.NotificationType = model.NotificationToast
	settings.SoundType = model.SoundBlip
	settings.BreakTitle = "Break!"
	settings.BreakMessage = "Step away from the screen"
	core, _, _, rec := newTestScheduler(settings, SessionActive)
	core.state.BreakTime = baseTime.Add(-time.Second)
	core.state.LastTick = baseTime.Add(-time.Second)

	core.Tick(baseTime)

	status := core.Status()
	assert.False(t, status.HavingBreak)
	assert.Equal(t, baseTime.Add(30*time.Minute), status.BreakTime)
	assert.Equal(t, []string{"Break!"}, rec.titles)
	assert.Equal(t, []string{"Step away from the screen"}, rec.messages)
	assert.Equal(t, []model.SoundType{model.SoundBlip}, rec.starts)
	assert.Zero(t, rec.opened)
}

func TestStartBreakNowTriggersOnNextTick(t *testing.T) {
	core, _, _, rec := newTestScheduler(baseSettings(), SessionActive)

	core.StartBreakNow(baseTime)
	core.Tick(baseTime.Add(time.Second))

	assert.Equal(t, 1, rec.opened)
	assert.True(t, core.Status().HavingBreak)
}

func TestSleepGapDiscardsPendingBreak(t *testing.T) {
	settings := baseSettings()
	settings.BreakFrequency = 5 * time.Minute
	core, _, _, _ := newTestScheduler(settings, SessionActive)
	core.state.LastTick = baseTime
	core.state.BreakTime = baseTime.Add(time.Minute)
	core.state.LockStart = baseTime.Add(5 * time.Minute)

	// Six minutes of silence exceed the five minute break period: the stale
	// break is dropped and a fresh one is computed from now.
	now := baseTime.Add(6 * time.Minute)
	core.Tick(now)

	status := core.Status()
	assert.Equal(t, now.Add(5*time.Minute), status.BreakTime)
	assert.True(t, status.LockStart.IsZero())
}

func TestIdleGapForcesBreakAndReportsIdleTime(t *testing.T) {
	settings := baseSettings()
	settings.IdleResetNotification = true
	core, _, _, rec := newTestScheduler(settings, SessionActive)
	core.state.LastTick = baseTime
	core.state.PostponedCount = 2

	// A six minute gap exceeds the five minute idle threshold but not the
	// thirty minute break period.
	now := baseTime.Add(6 * time.Minute)
	core.Tick(now)

	status := core.Status()
	assert.Equal(t, now.Add(30*time.Minute), status.BreakTime)
	assert.True(t, status.IdleStart.IsZero())
	assert.Zero(t, status.PostponedCount)
	require.Len(t, rec.messages, 1)
	assert.Contains(t, rec.messages[0], "6m0s")
}

func TestLongLockClearsIdleTracking(t *testing.T) {
	core, _, _, rec := newTestScheduler(baseSettings(), SessionUnknown)
	core.state.LockStart = baseTime.Add(-31 * time.Minute)
	core.state.IdleStart = baseTime.Add(-20 * time.Minute)
	core.state.LastTick = baseTime.Add(-time.Second)

	core.Tick(baseTime)

	status := core.Status()
	assert.True(t, status.IdleStart.IsZero())
	assert.True(t, status.LockStart.IsZero())
	// No idle summary: IdleStart was dropped before the new break was made.
	assert.Empty(t, rec.messages)
}

func TestSuppressesPendingBreakOutsideWorkingHours(t *testing.T) {
	settings := baseSettings()
	settings.WorkingHoursEnabled = true
	for day := range settings.WorkingHours {
		settings.WorkingHours[day] = model.DayHours{}
	}
	core, _, _, rec := newTestScheduler(settings, SessionActive)
	core.state.BreakTime = baseTime.Add(10 * time.Minute)
	core.state.LastTick = baseTime.Add(-time.Second)

	core.Tick(baseTime)

	status := core.Status()
	assert.True(t, status.BreakTime.IsZero())
	assert.True(t, status.IdleStart.IsZero())
	assert.Equal(t, 1, rec.refreshes)
}

func TestSuppressesPendingBreakWhileIdleAndStampsIdleStart(t *testing.T) {
	core, _, _, _ := newTestScheduler(baseSettings(), SessionIdle)
	core.state.BreakTime = baseTime.Add(10 * time.Minute)
	core.state.LastTick = baseTime.Add(-time.Second)

	core.Tick(baseTime)

	status := core.Status()
	assert.True(t, status.BreakTime.IsZero())
	assert.Equal(t, baseTime, status.IdleStart)
}

func TestIdleStateIgnoredWhenIdleResetDisabled(t *testing.T) {
	settings := baseSettings()
	settings.IdleResetEnabled = false
	core, _, _, _ := newTestScheduler(settings, SessionIdle)

	core.Tick(baseTime)

	// Idle probe says idle, but the feature is off: a break gets scheduled.
	assert.Equal(t, baseTime.Add(30*time.Minute), core.BreakTime())
}

func TestLockedSessionCountsIdleOnlyAfterThreshold(t *testing.T) {
	settings := baseSettings()
	core, _, _, _ := newTestScheduler(settings, SessionLocked)

	// First sample only starts lock tracking.
	idle := core.checkIdleLocked(baseTime, settings)
	assert.False(t, idle)
	assert.Equal(t, baseTime, core.state.LockStart)

	// Under the threshold the lock does not count as idle yet.
	idle = core.checkIdleLocked(baseTime.Add(4*time.Minute), settings)
	assert.False(t, idle)

	// Past the five minute threshold it does.
	idle = core.checkIdleLocked(baseTime.Add(5*time.Minute+time.Second), settings)
	assert.True(t, idle)
}

func TestUnlockClearsLockStart(t *testing.T) {
	settings := baseSettings()
	core, _, probe, _ := newTestScheduler(settings, SessionLocked)

	core.checkIdleLocked(baseTime, settings)
	require.False(t, core.state.LockStart.IsZero())

	probe.state = SessionActive
	core.checkIdleLocked(baseTime.Add(time.Minute), settings)
	assert.True(t, core.state.LockStart.IsZero())
}

func TestBreaksDisabledSchedulesNothing(t *testing.T) {
	settings := baseSettings()
	settings.BreaksEnabled = false
	core, _, _, _ := newTestScheduler(settings, SessionActive)

	core.Tick(baseTime)

	assert.True(t, core.BreakTime().IsZero())
}

func TestTickFaultStillStampsLastTick(t *testing.T) {
	core, settingsStub, _, _ := newTestScheduler(baseSettings(), SessionActive)
	settingsStub.panicOnGet = true

	require.NotPanics(t, func() {
		core.Tick(baseTime)
	})
	assert.Equal(t, baseTime, core.Status().LastTick)

	// The scheduler keeps ticking once the fault goes away.
	settingsStub.panicOnGet = false
	core.Tick(baseTime.Add(time.Second))
	assert.Equal(t, baseTime.Add(time.Second).Add(30*time.Minute), core.BreakTime())
}

func TestBreakLengthReadsSettings(t *testing.T) {
	core, _, _, _ := newTestScheduler(baseSettings(), SessionActive)
	assert.Equal(t, 10*time.Minute, core.BreakLength())
}
