package roster

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/station95-rescue/duty-roster/backend/internal/domain"
)

func TestReassignCoverageNoActiveUnits(t *testing.T) {
	engine := NewEngine(testZones, testTable())

	m := &HourlyMap{}
	tango := 42
	slot := m.ensure(10)
	slot.units = []domain.Unit{{ID: 42, Active: false}}
	slot.tango = &tango

	require.NoError(t, engine.reassignCoverage(m))
	assert.Nil(t, m.slots[10].tango, "an hour with no crew has no tango")
}

func TestReassignCoverageSingleUnit(t *testing.T) {
	engine := NewEngine(testZones, testTable())

	m := &HourlyMap{}
	slot := m.ensure(10)
	slot.units = []domain.Unit{{ID: 54, Zones: []int{54}, Active: true}}

	require.NoError(t, engine.reassignCoverage(m))

	assert.ElementsMatch(t, testZones, m.slots[10].units[0].Zones)
	require.NotNil(t, m.slots[10].tango)
	assert.Equal(t, 54, *m.slots[10].tango)
}

func TestReassignCoverageUnknownCombination(t *testing.T) {
	engine := NewEngine(testZones, testTable())

	m := &HourlyMap{}
	slot := m.ensure(10)
	slot.units = []domain.Unit{
		{ID: 43, Zones: []int{43}, Active: true},
		{ID: 35, Zones: []int{35}, Active: true},
	}

	require.NoError(t, engine.reassignCoverage(m))

	// degraded mode: the lowest-id active unit takes everything, even
	// though the slot lists 43 before 35
	units := m.slots[10].units
	assert.Empty(t, units[0].Zones)
	assert.ElementsMatch(t, testZones, units[1].Zones)
	require.NotNil(t, m.slots[10].tango)
	assert.Equal(t, 35, *m.slots[10].tango)
}

func TestReassignCoverageTableError(t *testing.T) {
	boom := errors.New("connection refused")
	engine := NewEngine(testZones, failingTable{err: boom})

	m := &HourlyMap{}
	slot := m.ensure(10)
	slot.units = []domain.Unit{
		{ID: 42, Active: true},
		{ID: 43, Active: true},
	}

	err := engine.reassignCoverage(m)
	assert.ErrorIs(t, err, boom)
}

type failingTable struct {
	err error
}

func (t failingTable) Lookup(string) ([]domain.ZoneAssignment, bool, error) {
	return nil, false, t.err
}

func TestReassignCoverageClearsInactiveZones(t *testing.T) {
	engine := NewEngine(testZones, testTable())

	m := &HourlyMap{}
	slot := m.ensure(10)
	slot.units = []domain.Unit{
		{ID: 42, Zones: []int{34, 35}, Active: true},
		{ID: 43, Zones: []int{42, 43, 54}, Active: false},
	}

	require.NoError(t, engine.reassignCoverage(m))

	units := m.slots[10].units
	assert.ElementsMatch(t, testZones, units[0].Zones)
	assert.Empty(t, units[1].Zones, "inactive units never keep zones")
}

func TestCoverageKey(t *testing.T) {
	assert.Equal(t, "34,42,54", domain.CoverageKey([]int{54, 34, 42}))
	assert.Equal(t, "42", domain.CoverageKey([]int{42}))
	assert.Equal(t, "", domain.CoverageKey(nil))
}
