package roster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/station95-rescue/duty-roster/backend/internal/domain"
)

func twoUnitDay(label string) *domain.DaySchedule {
	return &domain.DaySchedule{
		Day: label,
		Shifts: []domain.Shift{
			makeShift(6, 18, activeUnit(34, 34, 35), activeUnit(42, 42, 43, 54)),
			makeShift(18, 6, activeUnit(34, 34, 35), activeUnit(42, 42, 43, 54)),
		},
	}
}

func TestBalanceTangoAlternates(t *testing.T) {
	period := []*domain.DaySchedule{
		twoUnitDay("Monday 2026-01-05"),
		twoUnitDay("Tuesday 2026-01-06"),
	}

	BalanceTango(period)

	stats := CollectStatistics(period)
	require.Len(t, stats.TangoHoursByUnit, 2)

	// with equal-length shifts the greedy pass alternates exactly
	assert.Equal(t, stats.TangoHoursByUnit[34], stats.TangoHoursByUnit[42])
}

func TestBalanceTangoFairnessBound(t *testing.T) {
	// uneven shift lengths: the gap between any two units never exceeds
	// the longest shift
	period := []*domain.DaySchedule{}
	for i := 0; i < 7; i++ {
		period = append(period, &domain.DaySchedule{
			Day: "Monday 2026-01-05",
			Shifts: []domain.Shift{
				makeShift(6, 14, activeUnit(34), activeUnit(42)),
				makeShift(14, 18, activeUnit(34), activeUnit(42)),
				makeShift(18, 6, activeUnit(34), activeUnit(42)),
			},
		})
	}

	BalanceTango(period)

	stats := CollectStatistics(period)
	gap := math.Abs(stats.TangoHoursByUnit[34] - stats.TangoHoursByUnit[42])
	assert.LessOrEqual(t, gap, 12.0, "gap must stay below the longest shift")
}

func TestBalanceTangoTieGoesToLowestID(t *testing.T) {
	period := []*domain.DaySchedule{{
		Day: "Monday 2026-01-05",
		Shifts: []domain.Shift{
			makeShift(6, 18, activeUnit(54), activeUnit(34), activeUnit(42)),
		},
	}}

	BalanceTango(period)

	require.NotNil(t, period[0].Shifts[0].Tango)
	assert.Equal(t, 34, *period[0].Shifts[0].Tango)
}

func TestBalanceTangoSingleUnitShift(t *testing.T) {
	period := []*domain.DaySchedule{{
		Day: "Monday 2026-01-05",
		Shifts: []domain.Shift{
			makeShift(6, 18, activeUnit(42)),
		},
	}}

	BalanceTango(period)

	require.NotNil(t, period[0].Shifts[0].Tango)
	assert.Equal(t, 42, *period[0].Shifts[0].Tango)
}

func TestBalanceTangoEmptyShift(t *testing.T) {
	period := []*domain.DaySchedule{{
		Day:    "Monday 2026-01-05",
		Shifts: []domain.Shift{makeShift(6, 18)},
	}}

	BalanceTango(period)

	assert.Nil(t, period[0].Shifts[0].Tango)
}

func TestCollectStatistics(t *testing.T) {
	period := []*domain.DaySchedule{{
		Day: "Monday 2026-01-05",
		Shifts: []domain.Shift{
			makeShift(6, 18, activeUnit(34), activeUnit(42)),
			makeShift(18, 6, activeUnit(42)),
		},
	}}
	tango := 34
	period[0].Shifts[0].Tango = &tango

	stats := CollectStatistics(period)

	assert.Equal(t, 12.0, stats.HoursByUnit[34])
	assert.Equal(t, 24.0, stats.HoursByUnit[42])
	assert.Equal(t, 12.0, stats.TangoHoursByUnit[34])
	assert.Equal(t, 0.0, stats.TangoHoursByUnit[42])
	assert.Equal(t, 1, stats.SingleUnitShifts)
}
