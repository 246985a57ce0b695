package roster

import "github.com/station95-rescue/duty-roster/backend/internal/domain"

// AddHour advances a time-of-day by one hour, wrapping 23:00 -> 00:00.
func AddHour(t domain.TimeOfDay) domain.TimeOfDay {
	t.Hour = (t.Hour + 1) % 24
	return t
}

// DurationHours computes the length of a shift in hours, treating
// end <= start as crossing midnight. Equal start and end yield 0 here;
// callers that use the equal-times sentinel for "whole day" must handle
// it before calling.
func DurationHours(start, end domain.TimeOfDay) float64 {
	startMinutes := start.Minutes()
	endMinutes := end.Minutes()

	var minutes int
	if endMinutes <= startMinutes {
		minutes = (24*60 - startMinutes) + endMinutes
	} else {
		minutes = endMinutes - startMinutes
	}

	return float64(minutes) / 60.0
}

// walkWindow visits every hour of [start, end), wrapping past midnight.
// start == end is the whole-day sentinel and visits all 24 hours.
func walkWindow(start, end domain.TimeOfDay, visit func(hour int)) {
	current := start
	for processed := 0; processed < 24; processed++ {
		visit(current.Hour)
		current = AddHour(current)
		if start != end && current == end {
			break
		}
	}
}
