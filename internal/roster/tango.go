package roster

import (
	"math"

	"github.com/station95-rescue/duty-roster/backend/internal/domain"
)

// BalanceTango assigns the tango unit for every shift of a roster
// period so that accumulated tango hours stay level across units. It is
// a greedy online pass: shifts are walked in period order and a shift
// always goes to the present unit with the fewest hours so far, ties
// broken by ascending unit id. Past assignments are never revisited.
//
// It runs once per generated period, not after individual mutations.
func BalanceTango(period []*domain.DaySchedule) {
	hoursByUnit := make(map[int]float64)
	for _, day := range period {
		for i := range day.Shifts {
			for _, id := range day.Shifts[i].UnitIDs() {
				hoursByUnit[id] = 0
			}
		}
	}

	for _, day := range period {
		for i := range day.Shifts {
			shift := &day.Shifts[i]
			ids := shift.UnitIDs()

			switch len(ids) {
			case 0:
				shift.Tango = nil
			case 1:
				id := ids[0]
				shift.Tango = &id
				hoursByUnit[id] += DurationHours(shift.Start, shift.End)
			default:
				duration := DurationHours(shift.Start, shift.End)
				winner := ids[0]
				minHours := math.Inf(1)
				for _, id := range ids {
					if hoursByUnit[id] < minHours {
						minHours = hoursByUnit[id]
						winner = id
					}
				}
				shift.Tango = &winner
				hoursByUnit[winner] += duration
			}
		}
	}
}

// Statistics summarizes a roster period per unit.
type Statistics struct {
	HoursByUnit      map[int]float64 `json:"hoursByUnit"`
	TangoHoursByUnit map[int]float64 `json:"tangoHoursByUnit"`
	SingleUnitShifts int             `json:"singleUnitShifts"`
}

// CollectStatistics totals duty hours and tango hours per unit and
// counts the shifts staffed by a single unit.
func CollectStatistics(period []*domain.DaySchedule) Statistics {
	stats := Statistics{
		HoursByUnit:      make(map[int]float64),
		TangoHoursByUnit: make(map[int]float64),
	}

	for _, day := range period {
		for i := range day.Shifts {
			for _, id := range day.Shifts[i].UnitIDs() {
				stats.HoursByUnit[id] = 0
				stats.TangoHoursByUnit[id] = 0
			}
		}
	}

	for _, day := range period {
		for i := range day.Shifts {
			shift := &day.Shifts[i]
			duration := DurationHours(shift.Start, shift.End)

			ids := shift.UnitIDs()
			for _, id := range ids {
				stats.HoursByUnit[id] += duration
			}
			if len(ids) == 1 {
				stats.SingleUnitShifts++
			}
			if shift.Tango != nil {
				stats.TangoHoursByUnit[*shift.Tango] += duration
			}
		}
	}

	return stats
}
