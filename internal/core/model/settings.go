package model

import "time"

// NotificationType selects how a due break is surfaced.
type NotificationType string

const (
	NotificationToast NotificationType = "notification"
	NotificationPopup NotificationType = "popup"
)

// SoundType identifies the audio cue played around a break.
type SoundType string

const (
	SoundNone SoundType = "none"
	SoundGong SoundType = "gong"
	SoundBlip SoundType = "blip"
)

// MinuteRange is a time-of-day span in minutes since midnight, inclusive
// on both ends.
type MinuteRange struct {
	FromMinutes int
	ToMinutes   int
}

// Contains reports whether the given minute-of-day falls inside the range.
func (r MinuteRange) Contains(minuteOfDay int) bool {
	return minuteOfDay >= r.FromMinutes && minuteOfDay <= r.ToMinutes
}

// DayHours configures allowed break windows for one weekday.
type DayHours struct {
	Enabled bool
	Ranges  []MinuteRange
}

// Settings defines all user-editable configuration.
type Settings struct {
	BreaksEnabled  bool
	BreakFrequency time.Duration
	BreakLength    time.Duration
	BreakTitle     string
	BreakMessage   string

	PostponeLength time.Duration
	PostponeLimit  int // 0 = unlimited

	IdleResetEnabled      bool
	IdleResetLength       time.Duration
	IdleResetNotification bool

	WorkingHoursEnabled bool
	// WorkingHours is indexed by time.Weekday (Sunday = 0).
	WorkingHours [7]DayHours

	NotificationType NotificationType
	SoundType        SoundType

	Autostart bool
}

// Default returns the out-of-the-box settings.
func Default() Settings {
	workday := DayHours{
		Enabled: true,
		Ranges:  []MinuteRange{{FromMinutes: 9 * 60, ToMinutes: 18 * 60}},
	}

	settings := Settings{
		BreaksEnabled:  true,
		BreakFrequency: 28 * time.Minute,
		BreakLength:    10 * time.Minute,
		BreakTitle:     "Time for a break!",
		BreakMessage:   "Rest your eyes. Stretch your legs. Breathe. Relax.",

		PostponeLength: 5 * time.Minute,
		PostponeLimit:  0,

		IdleResetEnabled:      true,
		IdleResetLength:       5 * time.Minute,
		IdleResetNotification: false,

		WorkingHoursEnabled: false,

		NotificationType: NotificationPopup,
		SoundType:        SoundGong,
	}

	for day := time.Monday; day <= time.Friday; day++ {
		settings.WorkingHours[day] = workday
	}
	settings.WorkingHours[time.Sunday] = DayHours{}
	settings.WorkingHours[time.Saturday] = DayHours{}

	return settings
}

// Normalize clamps out-of-range values in place instead of rejecting them.
func (settings *Settings) Normalize() {
	if settings.BreakFrequency <= 0 {
		settings.BreakFrequency = Default().BreakFrequency
	}
	if settings.BreakLength <= 0 {
		settings.BreakLength = Default().BreakLength
	}
	if settings.PostponeLength <= 0 {
		settings.PostponeLength = Default().PostponeLength
	}
	if settings.IdleResetLength <= 0 {
		settings.IdleResetLength = Default().IdleResetLength
	}
	if settings.PostponeLimit < 0 {
		settings.PostponeLimit = 0
	}
	if settings.NotificationType != NotificationToast && settings.NotificationType != NotificationPopup {
		settings.NotificationType = NotificationPopup
	}
	switch settings.SoundType {
	case SoundNone, SoundGong, SoundBlip:
	default:
		settings.SoundType = SoundNone
	}

	for day := range settings.WorkingHours {
		ranges := settings.WorkingHours[day].Ranges
		kept := ranges[:0]
		for _, span := range ranges {
			if span.FromMinutes < 0 {
				span.FromMinutes = 0
			}
			if span.ToMinutes > 24*60-1 {
				span.ToMinutes = 24*60 - 1
			}
			if span.FromMinutes > span.ToMinutes {
				continue
			}
			kept = append(kept, span)
		}
		settings.WorkingHours[day].Ranges = kept
	}
}
