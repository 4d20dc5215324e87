package scheduler

import (
	"testing"
	"time"

	"resthawk/internal/core/model"

	"github.com/stretchr/testify/assert"
)

func workhoursSettings() model.Settings {
	settings := model.Default()
	settings.WorkingHoursEnabled = true
	for day := range settings.WorkingHours {
		settings.WorkingHours[day] = model.DayHours{}
	}
	return settings
}

func TestInWorkingHoursDisabledFeatureAlwaysPermits(t *testing.T) {
	settings := workhoursSettings()
	settings.WorkingHoursEnabled = false

	sunday := time.Date(2026, 3, 8, 3, 0, 0, 0, time.UTC)
	assert.True(t, InWorkingHours(sunday, settings))
}

func TestInWorkingHoursDisabledDayRejectsAnyTime(t *testing.T) {
	settings := workhoursSettings()
	// Wednesday left disabled.
	wednesday := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

	assert.False(t, InWorkingHours(wednesday, settings))
}

func TestInWorkingHoursInclusiveBounds(t *testing.T) {
	settings := workhoursSettings()
	settings.WorkingHours[time.Wednesday] = model.DayHours{
		Enabled: true,
		Ranges:  []model.MinuteRange{{FromMinutes: 9 * 60, ToMinutes: 18 * 60}},
	}

	day := func(hour, minute int) time.Time {
		return time.Date(2026, 3, 4, hour, minute, 30, 0, time.UTC)
	}

	assert.True(t, InWorkingHours(day(9, 0), settings), "start of range is inclusive")
	assert.True(t, InWorkingHours(day(18, 0), settings), "end of range is inclusive")
	assert.True(t, InWorkingHours(day(12, 30), settings))
	assert.False(t, InWorkingHours(day(8, 59), settings))
	assert.False(t, InWorkingHours(day(18, 1), settings))
}

func TestInWorkingHoursMultipleRanges(t *testing.T) {
	settings := workhoursSettings()
	settings.WorkingHours[time.Wednesday] = model.DayHours{
		Enabled: true,
		Ranges: []model.MinuteRange{
			{FromMinutes: 9 * 60, ToMinutes: 12 * 60},
			{FromMinutes: 13 * 60, ToMinutes: 18 * 60},
		},
	}

	day := func(hour, minute int) time.Time {
		return time.Date(2026, 3, 4, hour, minute, 0, 0, time.UTC)
	}

	assert.True(t, InWorkingHours(day(10, 0), settings))
	assert.False(t, InWorkingHours(day(12, 30), settings), "lunch gap is outside both ranges")
	assert.True(t, InWorkingHours(day(14, 0), settings))
}

func TestInWorkingHoursEnabledDayWithoutRanges(t *testing.T) {
	settings := workhoursSettings()
	settings.WorkingHours[time.Wednesday] = model.DayHours{Enabled: true}

	wednesday := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	assert.False(t, InWorkingHours(wednesday, settings))
}
