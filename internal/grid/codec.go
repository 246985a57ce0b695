// Package grid maps day schedules to and from the fixed 10x4 cell block
// persisted in the roster workbook. The cell text formats are the wire
// contract with the sheet and must round-trip bit-exact; everything
// behind this package passes structured values instead.
package grid

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/station95-rescue/duty-roster/backend/internal/domain"
)

// ErrGridCapacity is returned when a day needs more than 9 shift slots
// or a slot needs more than 3 units. The grid shape is a hard limit;
// encoding refuses rather than silently dropping the excess.
var ErrGridCapacity = errors.New("schedule exceeds roster grid capacity")

const maxUnitsPerSlot = domain.GridCols - 1

// Codec encodes and decodes day grids. It carries the zone universe so
// that the "[All]" annotation stays an organization setting rather than
// a hardcoded list.
type Codec struct {
	zones []int
}

func NewCodec(zones []int) *Codec {
	sorted := slices.Clone(zones)
	slices.Sort(sorted)
	return &Codec{zones: sorted}
}

// EncodeDay renders a schedule into its 10x4 block: the day-of-month in
// the top-left cell, then one row per shift in storage order (day
// shifts first; night-shift hours 0-5 sort after 18-23 so a midnight
// continuation follows its night shift).
func (c *Codec) EncodeDay(day *domain.DaySchedule) (domain.Grid, error) {
	var g domain.Grid

	g[0][0] = day.DayNumber()

	shifts := slices.Clone(day.Shifts)
	sort.SliceStable(shifts, func(i, j int) bool {
		return storageSortKey(shifts[i].Start) < storageSortKey(shifts[j].Start)
	})

	if len(shifts) > domain.GridRows-1 {
		return domain.Grid{}, fmt.Errorf("%w: %d shifts for %d slots", ErrGridCapacity, len(shifts), domain.GridRows-1)
	}

	for row, shift := range shifts {
		units := slotUnits(&shift)
		if len(units) > maxUnitsPerSlot {
			return domain.Grid{}, fmt.Errorf("%w: %d units in one slot", ErrGridCapacity, len(units))
		}

		timeCell := fmt.Sprintf("%s - %s", shift.Start.Clock(), shift.End.Clock())
		if shift.Tango != nil {
			timeCell += fmt.Sprintf("\n(Tango: %d)", *shift.Tango)
		}
		g[row+1][0] = timeCell

		for col, unit := range units {
			g[row+1][col+1] = c.FormatUnit(unit)
		}
	}

	return g, nil
}

// storageSortKey normalizes a start time for storage ordering: hours
// 0-5 are treated as 24-29.
func storageSortKey(t domain.TimeOfDay) int {
	hour := t.Hour
	if hour < 6 {
		hour += 24
	}
	return hour*60 + t.Minute
}

// slotUnits collects a shift's distinct units across segments (first
// occurrence wins) sorted by id for stable column order.
func slotUnits(shift *domain.Shift) []domain.Unit {
	units := make([]domain.Unit, 0, maxUnitsPerSlot)
	for _, segment := range shift.Segments {
		for _, unit := range segment.Units {
			exists := slices.ContainsFunc(units, func(u domain.Unit) bool {
				return u.ID == unit.ID
			})
			if !exists {
				units = append(units, unit.Clone())
			}
		}
	}
	slices.SortFunc(units, func(a, b domain.Unit) int { return a.ID - b.ID })
	return units
}

// DecodeDay parses a 10x4 block back into a schedule. Decoding is
// deliberately tolerant: rows without a parseable hour-aligned time
// range and cells that fail to parse are skipped, never an error, so
// partially written or hand-edited rows do not block a read.
func (c *Codec) DecodeDay(g domain.Grid, dayLabel string) *domain.DaySchedule {
	day := &domain.DaySchedule{Day: dayLabel}

	for row := 1; row < domain.GridRows; row++ {
		timeCell := g[row][0]
		if timeCell == "" {
			continue
		}

		lines := strings.SplitN(timeCell, "\n", 2)
		start, end, ok := parseTimeRange(lines[0])
		if !ok {
			continue
		}
		// the roster model is hour-granular; a hand-edited range like
		// "0630 - 1800" is treated as malformed
		if start.Minute != 0 || end.Minute != 0 {
			continue
		}

		var tango *int
		if len(lines) > 1 && strings.Contains(lines[1], "Tango:") {
			raw := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(lines[1]), "(Tango:"), ")"))
			if id, err := strconv.Atoi(raw); err == nil {
				tango = &id
			}
		}

		units := make([]domain.Unit, 0, maxUnitsPerSlot)
		for col := 1; col < domain.GridCols; col++ {
			if unit, ok := c.ParseUnit(g[row][col]); ok {
				units = append(units, unit)
			}
		}

		day.Shifts = append(day.Shifts, domain.Shift{
			Label: domain.ShiftLabel(start, end),
			Start: start,
			End:   end,
			Segments: []domain.ShiftSegment{{
				Start: start,
				End:   end,
				Units: units,
			}},
			Tango: tango,
		})
	}

	return day
}

func parseTimeRange(s string) (start, end domain.TimeOfDay, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), " - ")
	if len(parts) != 2 {
		return domain.TimeOfDay{}, domain.TimeOfDay{}, false
	}

	start, err := domain.ParseClock(parts[0])
	if err != nil {
		return domain.TimeOfDay{}, domain.TimeOfDay{}, false
	}
	end, err = domain.ParseClock(parts[1])
	if err != nil {
		return domain.TimeOfDay{}, domain.TimeOfDay{}, false
	}

	return start, end, true
}

// FormatUnit renders a unit cell: "<id>\n[All]" when the unit covers
// the whole zone universe, "<id>\n[No Crew]" when it is off duty or has
// no zones, otherwise "<id>\n[z1,z2,...]" with zones ascending.
func (c *Codec) FormatUnit(unit domain.Unit) string {
	var zones string
	switch {
	case !unit.Active || len(unit.Zones) == 0:
		zones = "[No Crew]"
	case c.isFullUniverse(unit.Zones):
		zones = "[All]"
	default:
		sorted := slices.Clone(unit.Zones)
		slices.Sort(sorted)
		parts := make([]string, len(sorted))
		for i, z := range sorted {
			parts[i] = strconv.Itoa(z)
		}
		zones = "[" + strings.Join(parts, ",") + "]"
	}

	return fmt.Sprintf("%d\n%s", unit.ID, zones)
}

func (c *Codec) isFullUniverse(zones []int) bool {
	sorted := slices.Clone(zones)
	slices.Sort(sorted)
	return slices.Equal(sorted, c.zones)
}

// ParseUnit is the inverse of FormatUnit. ok is false for cells that do
// not hold a well-formed unit.
func (c *Codec) ParseUnit(cell string) (domain.Unit, bool) {
	lines := strings.SplitN(cell, "\n", 2)
	if len(lines) < 2 {
		return domain.Unit{}, false
	}

	id, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return domain.Unit{}, false
	}

	annotation := strings.TrimSpace(lines[1])
	switch annotation {
	case "[No Crew]":
		return domain.Unit{ID: id, Active: false}, true
	case "[All]":
		return domain.Unit{ID: id, Zones: slices.Clone(c.zones), Active: true}, true
	}

	if !strings.HasPrefix(annotation, "[") || !strings.HasSuffix(annotation, "]") {
		return domain.Unit{}, false
	}

	body := strings.Trim(annotation, "[]")
	var zones []int
	if body != "" {
		for _, part := range strings.Split(body, ",") {
			z, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return domain.Unit{}, false
			}
			zones = append(zones, z)
		}
	}

	return domain.Unit{ID: id, Zones: zones, Active: true}, true
}
