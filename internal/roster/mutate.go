package roster

import (
	"fmt"
	"slices"

	"github.com/station95-rescue/duty-roster/backend/internal/domain"
)

// Engine applies roster mutations. It owns the zone universe and the
// coverage table; it performs no I/O of its own beyond table lookups.
type Engine struct {
	zones []int
	table CoverageTable
}

func NewEngine(zones []int, table CoverageTable) *Engine {
	return &Engine{
		zones: slices.Clone(zones),
		table: table,
	}
}

// Apply runs the full pipeline for one mutation: expand the day into an
// hourly map, edit the window, recompute coverage for every hour, and
// coalesce back into shifts. The input schedule is consumed; its unit
// records may have been mutated in place and it must not be reused.
func (e *Engine) Apply(day *domain.DaySchedule, kind domain.MutationKind, windowStart, windowEnd domain.TimeOfDay, unitID int) (*domain.DaySchedule, error) {
	m := Expand(day)

	switch kind {
	case domain.MutationNoCrew:
		e.deactivate(m, windowStart, windowEnd, unitID)
	case domain.MutationAddShift:
		e.activate(m, windowStart, windowEnd, unitID)
	case domain.MutationObliterate:
		e.obliterate(m, windowStart, windowEnd, unitID)
	default:
		return nil, fmt.Errorf("unknown mutation kind %q", kind)
	}

	if err := e.reassignCoverage(m); err != nil {
		return nil, err
	}

	return Coalesce(m, day.Day), nil
}

// deactivate marks the unit "No Crew" for every window hour where it is
// present. Hours where the unit is absent are left untouched.
func (e *Engine) deactivate(m *HourlyMap, start, end domain.TimeOfDay, unitID int) {
	walkWindow(start, end, func(hour int) {
		slot := &m.slots[hour]
		if !slot.present {
			return
		}
		for i := range slot.units {
			if slot.units[i].ID == unitID {
				slot.units[i].Active = false
				slot.units[i].Zones = nil
			}
		}
	})
}

// activate ensures the unit is on duty for every window hour. Existing
// entries are left as-is, so repeating the mutation is a no-op; zones
// are filled in by the coverage pass that follows.
func (e *Engine) activate(m *HourlyMap, start, end domain.TimeOfDay, unitID int) {
	walkWindow(start, end, func(hour int) {
		slot := m.ensure(hour)
		exists := slices.ContainsFunc(slot.units, func(u domain.Unit) bool {
			return u.ID == unitID
		})
		if !exists {
			slot.units = append(slot.units, domain.Unit{ID: unitID, Active: true})
		}
	})
}

// obliterate deletes the unit's entry from every window hour entirely,
// active or not.
func (e *Engine) obliterate(m *HourlyMap, start, end domain.TimeOfDay, unitID int) {
	walkWindow(start, end, func(hour int) {
		slot := &m.slots[hour]
		if !slot.present {
			return
		}
		slot.units = slices.DeleteFunc(slot.units, func(u domain.Unit) bool {
			return u.ID == unitID
		})
	})
}
