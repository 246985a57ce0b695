package roster

import (
	"log/slog"
	"slices"

	"github.com/station95-rescue/duty-roster/backend/internal/domain"
)

// CoverageTable resolves the zone split for a combination of on-duty
// units. The key is the sorted, comma-joined unit ids (domain.CoverageKey).
// A missing combination is reported via found == false, not an error.
type CoverageTable interface {
	Lookup(key string) (assignments []domain.ZoneAssignment, found bool, err error)
}

// reassignCoverage recomputes zones and the tango pick for every present
// hour of the map. The rules, per hour:
//
//   - no active units: tango is cleared;
//   - one active unit: it covers the full zone universe and is tango;
//   - several active units: the coverage table decides; a missing table
//     entry degrades to "lowest-id active unit covers everything" with a
//     warning, never an error.
//
// Inactive units are always forced back to empty zones.
func (e *Engine) reassignCoverage(m *HourlyMap) error {
	for hour := range m.slots {
		slot := &m.slots[hour]
		if !slot.present {
			continue
		}

		active := make([]*domain.Unit, 0, len(slot.units))
		for i := range slot.units {
			if slot.units[i].Active {
				active = append(active, &slot.units[i])
			}
		}
		// slot insertion order is arbitrary after mutations; the degraded
		// fallback and the tango scan give "first" to the lowest id
		slices.SortFunc(active, func(a, b *domain.Unit) int { return a.ID - b.ID })

		switch len(active) {
		case 0:
			slot.tango = nil
		case 1:
			active[0].Zones = slices.Clone(e.zones)
			id := active[0].ID
			slot.tango = &id
		default:
			if err := e.assignFromTable(slot, active); err != nil {
				return err
			}
		}

		for i := range slot.units {
			if !slot.units[i].Active {
				slot.units[i].Zones = nil
			}
		}
	}

	return nil
}

func (e *Engine) assignFromTable(slot *hourSlot, active []*domain.Unit) error {
	ids := make([]int, len(active))
	for i, u := range active {
		ids[i] = u.ID
	}
	key := domain.CoverageKey(ids)

	assignments, found, err := e.table.Lookup(key)
	if err != nil {
		return err
	}

	if found {
		for _, unit := range active {
			unit.Zones = nil
			for _, assignment := range assignments {
				if assignment.UnitID == unit.ID {
					unit.Zones = slices.Clone(assignment.Zones)
					break
				}
			}
		}
	} else {
		// Degraded mode: no table entry for this combination. The
		// lowest-id active unit takes the whole universe so the day stays
		// covered.
		slog.Warn("no coverage mapping for unit combination", "key", key)
		active[0].Zones = slices.Clone(e.zones)
		for _, unit := range active[1:] {
			unit.Zones = nil
		}
	}

	// Tango goes to the lowest-id active unit that ended up with zones,
	// falling back to the lowest-id active unit.
	tango := active[0].ID
	for _, unit := range active {
		if len(unit.Zones) > 0 {
			tango = unit.ID
			break
		}
	}
	slot.tango = &tango

	return nil
}
