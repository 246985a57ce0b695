package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Unit is a rescue squad crew identified by a small integer id. A unit
// with Active == false is still listed on the roster but is off duty
// ("No Crew"); an inactive unit never carries zones.
type Unit struct {
	ID     int   `json:"id"`
	Zones  []int `json:"zones"`
	Active bool  `json:"active"`
}

// Clone returns a copy whose zone slice shares no storage with the
// receiver. Units are copied whenever they move between hours or
// segments so that mutating one slot can never leak into another.
func (u Unit) Clone() Unit {
	c := u
	c.Zones = slices.Clone(u.Zones)
	return c
}

// TimeOfDay is an hour-granular clock time on the 24-hour ring. The
// roster model never attaches a date or a zone to it.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute}
}

// ParseClock parses "HHMM", "HMM" or "HH:MM".
func ParseClock(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)

	if strings.Contains(s, ":") {
		parts := strings.SplitN(s, ":", 2)
		hour, err1 := strconv.Atoi(parts[0])
		minute, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return TimeOfDay{}, fmt.Errorf("invalid time %q", s)
		}
		return validClock(hour, minute, s)
	}

	if len(s) == 3 {
		s = "0" + s
	}
	if len(s) != 4 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q", s)
	}

	hour, err1 := strconv.Atoi(s[:2])
	minute, err2 := strconv.Atoi(s[2:])
	if err1 != nil || err2 != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q", s)
	}
	return validClock(hour, minute, s)
}

func validClock(hour, minute int, s string) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q", s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// Minutes returns the minutes elapsed since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Clock renders the compact "HHMM" form used by the persisted grid.
func (t TimeOfDay) Clock() string {
	return fmt.Sprintf("%02d%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ShiftSegment is a maximal span of a shift during which the unit and
// zone configuration does not change.
type ShiftSegment struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
	Units []Unit    `json:"units"`
}

// Shift is one roster slot: a labelled time range, its segments and the
// designated secondary-duty ("tango") unit. A shift only ever has two
// segments when the canonical night shift is split at midnight for
// storage.
type Shift struct {
	Label string         `json:"label"`
	Start TimeOfDay      `json:"start"`
	End   TimeOfDay      `json:"end"`
	Segments []ShiftSegment `json:"segments"`
	Tango *int           `json:"tango,omitempty"`
}

// UnitIDs returns the distinct unit ids across all segments, ascending.
func (s *Shift) UnitIDs() []int {
	ids := make([]int, 0, 3)
	for _, seg := range s.Segments {
		for _, u := range seg.Units {
			if !slices.Contains(ids, u.ID) {
				ids = append(ids, u.ID)
			}
		}
	}
	slices.Sort(ids)
	return ids
}

var (
	DayShiftStart   = TimeOfDay{Hour: 6}
	NightShiftStart = TimeOfDay{Hour: 18}
)

// ShiftLabel derives the display name for a shift time range.
func ShiftLabel(start, end TimeOfDay) string {
	switch {
	case start == DayShiftStart && end == NightShiftStart:
		return "Day Shift"
	case start == NightShiftStart && end == DayShiftStart:
		return "Night Shift"
	default:
		return fmt.Sprintf("%s - %s Shift", start, end)
	}
}

// DaySchedule is the transient view of one calendar day. It is rebuilt
// from the persisted grid on every read and discarded after every
// write; the sheet is the system of record.
type DaySchedule struct {
	Day    string  `json:"day"` // e.g. "Thursday 2026-01-01"
	Shifts []Shift `json:"shifts"`
}

// DayNumber extracts the day of month from the day label, without
// leading zeros. Returns "" when the label has no parseable date.
func (d *DaySchedule) DayNumber() string {
	parts := strings.Fields(d.Day)
	if len(parts) < 2 || !strings.Contains(parts[1], "-") {
		return ""
	}
	dateParts := strings.Split(parts[1], "-")
	if len(dateParts) != 3 {
		return ""
	}
	num := strings.TrimLeft(dateParts[2], "0")
	if num == "" {
		num = "0"
	}
	return num
}

// ZoneAssignment is one row of a coverage table entry: the zones a unit
// covers when on duty together with a particular set of other units.
type ZoneAssignment struct {
	UnitID int   `json:"unitId"`
	Zones  []int `json:"zones"`
}

// CoverageKey builds the coverage table key for a set of unit ids:
// the ids sorted ascending, comma-joined.
func CoverageKey(unitIDs []int) string {
	sorted := slices.Clone(unitIDs)
	slices.Sort(sorted)
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
