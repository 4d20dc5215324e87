package scheduler

import (
	"time"

	"resthawk/internal/core/model"
)

// InWorkingHours reports whether breaks are permitted at the given time.
// When working hours are disabled every moment is permitted. Range bounds
// are inclusive on both ends.
func InWorkingHours(now time.Time, settings model.Settings) bool {
	if !settings.WorkingHoursEnabled {
		return true
	}

	day := settings.WorkingHours[now.Weekday()]
	if !day.Enabled {
		return false
	}

	minuteOfDay := now.Hour()*60 + now.Minute()
	for _, span := range day.Ranges {
		if span.Contains(minuteOfDay) {
			return true
		}
	}
	return false
}
