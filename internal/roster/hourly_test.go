package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/station95-rescue/duty-roster/backend/internal/domain"
)

func makeShift(startHour, endHour int, units ...domain.Unit) domain.Shift {
	start := domain.NewTimeOfDay(startHour, 0)
	end := domain.NewTimeOfDay(endHour, 0)
	return domain.Shift{
		Label: domain.ShiftLabel(start, end),
		Start: start,
		End:   end,
		Segments: []domain.ShiftSegment{{
			Start: start,
			End:   end,
			Units: units,
		}},
	}
}

func activeUnit(id int, zones ...int) domain.Unit {
	return domain.Unit{ID: id, Zones: zones, Active: true}
}

func TestExpandOccupancy(t *testing.T) {
	day := &domain.DaySchedule{
		Day: "Thursday 2026-01-01",
		Shifts: []domain.Shift{
			makeShift(6, 18, activeUnit(34, 34, 35), activeUnit(42, 42, 43, 54)),
		},
	}

	m := Expand(day)

	assert.Equal(t, []int{6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17}, m.Hours())
	assert.Nil(t, m.Units(18))
	assert.Nil(t, m.Units(5))

	units := m.Units(12)
	require.Len(t, units, 2)
	assert.Equal(t, 34, units[0].ID)
	assert.Equal(t, 42, units[1].ID)
}

func TestExpandCrossesMidnight(t *testing.T) {
	day := &domain.DaySchedule{
		Day: "Thursday 2026-01-01",
		Shifts: []domain.Shift{
			makeShift(18, 6, activeUnit(42, 34, 35, 42, 43, 54)),
		},
	}

	m := Expand(day)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 18, 19, 20, 21, 22, 23}, m.Hours())
	assert.Nil(t, m.Units(6))
	assert.Nil(t, m.Units(17))
}

func TestExpandCopiesUnits(t *testing.T) {
	unit := activeUnit(34, 34, 35)
	day := &domain.DaySchedule{
		Day:    "Thursday 2026-01-01",
		Shifts: []domain.Shift{makeShift(6, 8, unit)},
	}

	m := Expand(day)
	m.Units(6)[0].Zones[0] = 99

	assert.Equal(t, 34, m.Units(7)[0].Zones[0], "hours must not share zone storage")
	assert.Equal(t, 34, unit.Zones[0], "the source schedule must not be touched")
}

func TestExpandBoundsMisalignedSegment(t *testing.T) {
	// a hand-edited sheet can yield segment times with minutes; the walk
	// must still terminate
	start := domain.NewTimeOfDay(6, 30)
	end := domain.NewTimeOfDay(18, 0)
	day := &domain.DaySchedule{
		Day: "Thursday 2026-01-01",
		Shifts: []domain.Shift{{
			Label: domain.ShiftLabel(start, end),
			Start: start,
			End:   end,
			Segments: []domain.ShiftSegment{{
				Start: start,
				End:   end,
				Units: []domain.Unit{activeUnit(42)},
			}},
		}},
	}

	m := Expand(day)

	assert.Len(t, m.Hours(), 24, "the walk caps at one full day")
}

func TestExpandFirstShiftOwnsTango(t *testing.T) {
	tango34 := 34
	tango42 := 42
	first := makeShift(6, 12, activeUnit(34))
	first.Tango = &tango34
	second := makeShift(10, 14, activeUnit(42))
	second.Tango = &tango42

	day := &domain.DaySchedule{Day: "Thursday 2026-01-01", Shifts: []domain.Shift{first, second}}
	m := Expand(day)

	require.NotNil(t, m.slots[10].tango)
	assert.Equal(t, 34, *m.slots[10].tango, "overlapping shift must not steal the hour's tango")
	require.NotNil(t, m.slots[13].tango)
	assert.Equal(t, 42, *m.slots[13].tango)
}

func TestCoalesceRoundTrip(t *testing.T) {
	day := &domain.DaySchedule{
		Day: "Thursday 2026-01-01",
		Shifts: []domain.Shift{
			makeShift(6, 18, activeUnit(34, 34, 35), activeUnit(42, 42, 43, 54)),
			makeShift(18, 6, activeUnit(42, 34, 35, 42, 43, 54)),
		},
	}

	out := Coalesce(Expand(day), day.Day)

	require.Len(t, out.Shifts, 2)
	assert.Equal(t, "Night Shift", out.Shifts[0].Label)
	assert.Equal(t, domain.NewTimeOfDay(18, 0), out.Shifts[0].Start)
	assert.Equal(t, domain.NewTimeOfDay(6, 0), out.Shifts[0].End)
	assert.Equal(t, "Day Shift", out.Shifts[1].Label)
	assert.Equal(t, []int{34, 42}, out.Shifts[1].UnitIDs())
}

func TestCoalesceSplitsOnSignatureChange(t *testing.T) {
	day := &domain.DaySchedule{
		Day: "Thursday 2026-01-01",
		Shifts: []domain.Shift{
			makeShift(6, 12, activeUnit(34, 34, 35, 42, 43, 54)),
			makeShift(12, 18, activeUnit(54, 34, 35, 42, 43, 54)),
		},
	}

	out := Coalesce(Expand(day), day.Day)

	require.Len(t, out.Shifts, 2)
	assert.Equal(t, domain.NewTimeOfDay(12, 0), out.Shifts[0].End)
	assert.Equal(t, domain.NewTimeOfDay(12, 0), out.Shifts[1].Start)
}

func TestCoalesceForcesCanonicalBoundaries(t *testing.T) {
	// one uninterrupted configuration across the whole day still splits
	// at 06:00 and 18:00
	day := &domain.DaySchedule{
		Day: "Thursday 2026-01-01",
		Shifts: []domain.Shift{
			makeShift(6, 18, activeUnit(34, 34, 35, 42, 43, 54)),
			makeShift(18, 6, activeUnit(34, 34, 35, 42, 43, 54)),
		},
	}

	out := Coalesce(Expand(day), day.Day)

	require.Len(t, out.Shifts, 2)
	assert.Equal(t, domain.NewTimeOfDay(18, 0), out.Shifts[0].Start)
	assert.Equal(t, domain.NewTimeOfDay(6, 0), out.Shifts[0].End)
	assert.Equal(t, domain.NewTimeOfDay(6, 0), out.Shifts[1].Start)
	assert.Equal(t, domain.NewTimeOfDay(18, 0), out.Shifts[1].End)
}

func TestCoalescePartialNightRun(t *testing.T) {
	// a night run that stops before 06:00 still closes at 06:00
	day := &domain.DaySchedule{
		Day: "Thursday 2026-01-01",
		Shifts: []domain.Shift{
			makeShift(18, 3, activeUnit(42, 34, 35, 42, 43, 54)),
		},
	}

	out := Coalesce(Expand(day), day.Day)

	require.Len(t, out.Shifts, 1)
	assert.Equal(t, domain.NewTimeOfDay(18, 0), out.Shifts[0].Start)
	assert.Equal(t, domain.NewTimeOfDay(6, 0), out.Shifts[0].End)
}

func TestCoalesceRunEndingAt23(t *testing.T) {
	day := &domain.DaySchedule{
		Day: "Thursday 2026-01-01",
		Shifts: []domain.Shift{
			makeShift(20, 0, activeUnit(42, 34, 35, 42, 43, 54)),
		},
	}

	out := Coalesce(Expand(day), day.Day)

	require.Len(t, out.Shifts, 1)
	assert.Equal(t, domain.NewTimeOfDay(0, 0), out.Shifts[0].End)
}

func TestCoalesceEmptyMap(t *testing.T) {
	out := Coalesce(&HourlyMap{}, "Thursday 2026-01-01")
	assert.Empty(t, out.Shifts)
	assert.Equal(t, "Thursday 2026-01-01", out.Day)
}
