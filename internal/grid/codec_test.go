package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/station95-rescue/duty-roster/backend/internal/domain"
)

var testZones = []int{34, 35, 42, 43, 54}

func testShift(startHour, endHour int, tango *int, units ...domain.Unit) domain.Shift {
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
		Tango: tango,
	}
}

func TestFormatUnit(t *testing.T) {
	codec := NewCodec(testZones)

	assert.Equal(t, "43\n[34,43,54]", codec.FormatUnit(domain.Unit{ID: 43, Zones: []int{54, 34, 43}, Active: true}))
	assert.Equal(t, "42\n[All]", codec.FormatUnit(domain.Unit{ID: 42, Zones: []int{34, 35, 42, 43, 54}, Active: true}))
	assert.Equal(t, "42\n[No Crew]", codec.FormatUnit(domain.Unit{ID: 42, Zones: []int{34}, Active: false}))
	assert.Equal(t, "42\n[No Crew]", codec.FormatUnit(domain.Unit{ID: 42, Active: true}))
}

func TestParseUnit(t *testing.T) {
	codec := NewCodec(testZones)

	unit, ok := codec.ParseUnit("43\n[34,43,54]")
	require.True(t, ok)
	assert.Equal(t, domain.Unit{ID: 43, Zones: []int{34, 43, 54}, Active: true}, unit)

	unit, ok = codec.ParseUnit("42\n[All]")
	require.True(t, ok)
	assert.Equal(t, testZones, unit.Zones)
	assert.True(t, unit.Active)

	unit, ok = codec.ParseUnit("42\n[No Crew]")
	require.True(t, ok)
	assert.False(t, unit.Active)
	assert.Empty(t, unit.Zones)

	_, ok = codec.ParseUnit("")
	assert.False(t, ok)
	_, ok = codec.ParseUnit("just text")
	assert.False(t, ok)
	_, ok = codec.ParseUnit("42\nno brackets")
	assert.False(t, ok)
	_, ok = codec.ParseUnit("42\n[34,x]")
	assert.False(t, ok)
}

func TestEncodeDay(t *testing.T) {
	codec := NewCodec(testZones)
	tango := 42

	day := &domain.DaySchedule{
		Day: "Thursday 2026-01-01",
		Shifts: []domain.Shift{
			testShift(18, 6, &tango, domain.Unit{ID: 42, Zones: testZones, Active: true}),
			testShift(6, 18, nil,
				domain.Unit{ID: 34, Zones: []int{34, 35}, Active: true},
				domain.Unit{ID: 42, Zones: []int{42, 43, 54}, Active: true},
			),
		},
	}

	g, err := codec.EncodeDay(day)
	require.NoError(t, err)

	assert.Equal(t, "1", g[0][0])

	// day shift is stored first even though the slice had night first
	assert.Equal(t, "0600 - 1800", g[1][0])
	assert.Equal(t, "34\n[34,35]", g[1][1])
	assert.Equal(t, "42\n[42,43,54]", g[1][2])

	assert.Equal(t, "1800 - 0600\n(Tango: 42)", g[2][0])
	assert.Equal(t, "42\n[All]", g[2][1])

	assert.Equal(t, "", g[3][0])
}

func TestEncodeDayMidnightContinuationOrder(t *testing.T) {
	codec := NewCodec(testZones)

	day := &domain.DaySchedule{
		Day: "Monday 2026-01-05",
		Shifts: []domain.Shift{
			testShift(0, 6, nil, domain.Unit{ID: 42, Zones: testZones, Active: true}),
			testShift(18, 0, nil, domain.Unit{ID: 42, Zones: testZones, Active: true}),
			testShift(6, 18, nil, domain.Unit{ID: 34, Zones: testZones, Active: true}),
		},
	}

	g, err := codec.EncodeDay(day)
	require.NoError(t, err)

	// hours 0-5 sort after 18-23 so the continuation follows its night
	assert.Equal(t, "0600 - 1800", g[1][0])
	assert.Equal(t, "1800 - 0000", g[2][0])
	assert.Equal(t, "0000 - 0600", g[3][0])
}

func TestEncodeDayTooManyShifts(t *testing.T) {
	codec := NewCodec(testZones)

	day := &domain.DaySchedule{Day: "Thursday 2026-01-01"}
	for h := 6; h < 16; h++ {
		day.Shifts = append(day.Shifts, testShift(h, h+1, nil, domain.Unit{ID: 42, Active: true}))
	}

	_, err := codec.EncodeDay(day)
	assert.ErrorIs(t, err, ErrGridCapacity)
}

func TestEncodeDayTooManyUnits(t *testing.T) {
	codec := NewCodec(testZones)

	day := &domain.DaySchedule{
		Day: "Thursday 2026-01-01",
		Shifts: []domain.Shift{
			testShift(6, 18, nil,
				domain.Unit{ID: 34, Active: true},
				domain.Unit{ID: 35, Active: true},
				domain.Unit{ID: 42, Active: true},
				domain.Unit{ID: 43, Active: true},
			),
		},
	}

	_, err := codec.EncodeDay(day)
	assert.ErrorIs(t, err, ErrGridCapacity)
}

func TestDecodeDay(t *testing.T) {
	codec := NewCodec(testZones)

	var g domain.Grid
	g[0][0] = "1"
	g[1][0] = "0600 - 1800"
	g[1][1] = "34\n[34,35]"
	g[1][2] = "42\n[42,43,54]"
	g[2][0] = "1800 - 0600\n(Tango: 42)"
	g[2][1] = "42\n[All]"

	day := codec.DecodeDay(g, "Thursday 2026-01-01")

	require.Len(t, day.Shifts, 2)

	assert.Equal(t, "Day Shift", day.Shifts[0].Label)
	assert.Equal(t, []int{34, 42}, day.Shifts[0].UnitIDs())
	assert.Nil(t, day.Shifts[0].Tango)

	assert.Equal(t, "Night Shift", day.Shifts[1].Label)
	require.NotNil(t, day.Shifts[1].Tango)
	assert.Equal(t, 42, *day.Shifts[1].Tango)
	assert.Equal(t, testZones, day.Shifts[1].Segments[0].Units[0].Zones)
}

func TestDecodeDayTolerance(t *testing.T) {
	codec := NewCodec(testZones)

	var g domain.Grid
	g[0][0] = "1"
	g[1][0] = "not a time range"
	g[2][0] = "0600 - 1800"
	g[2][1] = "garbage cell"
	g[2][2] = "42\n[All]"
	g[3][0] = "9999 - 0600"

	day := codec.DecodeDay(g, "Thursday 2026-01-01")

	// malformed rows and cells are skipped, never an error
	require.Len(t, day.Shifts, 1)
	assert.Equal(t, []int{42}, day.Shifts[0].UnitIDs())
}

func TestDecodeDaySkipsMisalignedTimes(t *testing.T) {
	codec := NewCodec(testZones)

	var g domain.Grid
	g[0][0] = "1"
	g[1][0] = "0630 - 1800"
	g[1][1] = "34\n[All]"
	g[2][0] = "1800 - 0615"
	g[2][1] = "42\n[All]"
	g[3][0] = "0600 - 1800"
	g[3][1] = "54\n[All]"

	day := codec.DecodeDay(g, "Thursday 2026-01-01")

	// hand-edited ranges with minutes are dropped like any other
	// malformed row
	require.Len(t, day.Shifts, 1)
	assert.Equal(t, []int{54}, day.Shifts[0].UnitIDs())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec := NewCodec(testZones)
	tango := 43

	day := &domain.DaySchedule{
		Day: "Saturday 2026-01-10",
		Shifts: []domain.Shift{
			testShift(6, 18, &tango,
				domain.Unit{ID: 43, Zones: []int{34, 43, 54}, Active: true},
				domain.Unit{ID: 54, Zones: []int{35, 42}, Active: true},
			),
			testShift(18, 6, nil,
				domain.Unit{ID: 43, Zones: testZones, Active: true},
				domain.Unit{ID: 54, Active: false},
			),
		},
	}

	g, err := codec.EncodeDay(day)
	require.NoError(t, err)

	decoded := codec.DecodeDay(g, day.Day)
	require.Len(t, decoded.Shifts, 2)
	assert.Equal(t, day.Shifts[0].Start, decoded.Shifts[0].Start)
	assert.Equal(t, day.Shifts[0].End, decoded.Shifts[0].End)
	assert.Equal(t, *day.Shifts[0].Tango, *decoded.Shifts[0].Tango)
	assert.Equal(t, []int{34, 43, 54}, decoded.Shifts[0].Segments[0].Units[0].Zones)
	assert.False(t, decoded.Shifts[1].Segments[0].Units[1].Active)

	reencoded, err := codec.EncodeDay(decoded)
	require.NoError(t, err)
	assert.Equal(t, g, reencoded)
}
