package roster

import (
	"fmt"
	"slices"
	"strings"

	"github.com/station95-rescue/duty-roster/backend/internal/domain"
)

// hourSlot is one hour of the occupancy map. present distinguishes "no
// entry" from "entry with no units"; both occur and they coalesce
// differently.
type hourSlot struct {
	present bool
	units   []domain.Unit
	tango   *int
}

// HourlyMap is the hour-indexed occupancy of a single day. It is built
// fresh for every mutation and discarded after coalescing; it is never
// persisted. A fixed array keeps hour presence explicit and cheap.
type HourlyMap struct {
	slots [24]hourSlot
}

func (m *HourlyMap) ensure(hour int) *hourSlot {
	slot := &m.slots[hour]
	slot.present = true
	return slot
}

// Units returns the occupancy of an hour, or nil when the hour is not
// covered by any segment.
func (m *HourlyMap) Units(hour int) []domain.Unit {
	if !m.slots[hour].present {
		return nil
	}
	return m.slots[hour].units
}

// Hours returns the present hours in ascending order.
func (m *HourlyMap) Hours() []int {
	hours := make([]int, 0, 24)
	for h := range m.slots {
		if m.slots[h].present {
			hours = append(hours, h)
		}
	}
	return hours
}

// Expand flattens a day schedule into its hourly occupancy. Each
// segment contributes copies of its units to every hour of its span
// (end exclusive, wrapping past midnight); duplicate unit ids within an
// hour keep the first occurrence. The owning shift's tango is recorded
// on every hour it covers.
func Expand(day *domain.DaySchedule) *HourlyMap {
	m := &HourlyMap{}

	for i := range day.Shifts {
		shift := &day.Shifts[i]
		for _, segment := range shift.Segments {
			// bounded at one full day; an end carrying stray minutes never
			// compares equal to the walked hours
			current := segment.Start
			for processed := 0; processed < 24 && current != segment.End; processed++ {
				// the first shift to touch an hour owns its tango
				fresh := !m.slots[current.Hour].present
				slot := m.ensure(current.Hour)
				if fresh {
					slot.tango = shift.Tango
				}

				for _, unit := range segment.Units {
					exists := slices.ContainsFunc(slot.units, func(u domain.Unit) bool {
						return u.ID == unit.ID
					})
					if !exists {
						slot.units = append(slot.units, unit.Clone())
					}
				}

				current = AddHour(current)
			}
		}
	}

	return m
}

// signature captures an hour's full unit/zone configuration. Two hours
// belong to the same coalesced shift only if their signatures match.
func (m *HourlyMap) signature(hour int) string {
	parts := make([]string, 0, len(m.slots[hour].units))
	for _, u := range m.slots[hour].units {
		zones := slices.Clone(u.Zones)
		slices.Sort(zones)
		parts = append(parts, fmt.Sprintf("%d:%v:%t", u.ID, zones, u.Active))
	}
	slices.Sort(parts)
	return strings.Join(parts, "|")
}

// walkOrder returns the present hours in storage order: when hour 18 is
// present the night shift leads (18..23 then 0..17), otherwise natural
// ascending order.
func (m *HourlyMap) walkOrder() []int {
	hours := m.Hours()
	if !slices.Contains(hours, 18) {
		return hours
	}

	ordered := make([]int, 0, len(hours))
	for _, h := range hours {
		if h >= 18 {
			ordered = append(ordered, h)
		}
	}
	for _, h := range hours {
		if h < 18 {
			ordered = append(ordered, h)
		}
	}
	return ordered
}

// Coalesce rebuilds contiguous shifts from the hourly occupancy. A new
// shift starts on the first hour, whenever the configuration signature
// changes, and unconditionally at the 06:00 and 18:00 boundaries so
// that every produced shift aligns to the canonical day/night grid. An
// empty map coalesces to a schedule with no shifts.
func Coalesce(m *HourlyMap, dayLabel string) *domain.DaySchedule {
	day := &domain.DaySchedule{Day: dayLabel}

	ordered := m.walkOrder()
	if len(ordered) == 0 {
		return day
	}

	var shiftStart domain.TimeOfDay
	started := false
	prevSignature := ""

	for _, hour := range ordered {
		sig := m.signature(hour)
		boundary := hour == 6 || hour == 18

		if !started || sig != prevSignature || boundary {
			if started {
				end := domain.NewTimeOfDay(hour, 0)
				day.Shifts = append(day.Shifts, m.makeShift(shiftStart, end))
			}
			shiftStart = domain.NewTimeOfDay(hour, 0)
			started = true
		}
		prevSignature = sig
	}

	// Close the final run. A run ending on hour 23 wraps to midnight; a
	// run ending before 06:00 is assumed to terminate the night shift
	// there even when the map has no hour-6 entry.
	last := ordered[len(ordered)-1]
	var end domain.TimeOfDay
	switch {
	case last == 23:
		end = domain.NewTimeOfDay(0, 0)
	case last < 6:
		end = domain.NewTimeOfDay(6, 0)
	default:
		end = domain.NewTimeOfDay((last+1)%24, 0)
	}
	day.Shifts = append(day.Shifts, m.makeShift(shiftStart, end))

	return day
}

// makeShift builds a single-segment shift for [start, end). Units and
// tango come from the run's first hour; every hour of a run shares the
// same signature, so any hour would do and the first is deterministic.
func (m *HourlyMap) makeShift(start, end domain.TimeOfDay) domain.Shift {
	slot := &m.slots[start.Hour]

	units := make([]domain.Unit, 0, len(slot.units))
	for _, u := range slot.units {
		units = append(units, u.Clone())
	}

	return domain.Shift{
		Label: domain.ShiftLabel(start, end),
		Start: start,
		End:   end,
		Segments: []domain.ShiftSegment{{
			Start: start,
			End:   end,
			Units: units,
		}},
		Tango: slot.tango,
	}
}
