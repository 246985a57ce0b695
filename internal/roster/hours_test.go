package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/station95-rescue/duty-roster/backend/internal/domain"
)

func TestAddHour(t *testing.T) {
	assert.Equal(t, domain.NewTimeOfDay(7, 0), AddHour(domain.NewTimeOfDay(6, 0)))
	assert.Equal(t, domain.NewTimeOfDay(0, 0), AddHour(domain.NewTimeOfDay(23, 0)))
	// minutes are preserved across the wrap
	assert.Equal(t, domain.NewTimeOfDay(0, 30), AddHour(domain.NewTimeOfDay(23, 30)))
}

func TestDurationHours(t *testing.T) {
	assert.Equal(t, 12.0, DurationHours(domain.NewTimeOfDay(6, 0), domain.NewTimeOfDay(18, 0)))
	// night shift crosses midnight
	assert.Equal(t, 12.0, DurationHours(domain.NewTimeOfDay(18, 0), domain.NewTimeOfDay(6, 0)))
	assert.Equal(t, 1.0, DurationHours(domain.NewTimeOfDay(23, 0), domain.NewTimeOfDay(0, 0)))
	assert.Equal(t, 2.5, DurationHours(domain.NewTimeOfDay(19, 0), domain.NewTimeOfDay(21, 30)))
	// equal start and end is the whole-day sentinel elsewhere; here it is 0
	assert.Equal(t, 0.0, DurationHours(domain.NewTimeOfDay(6, 0), domain.NewTimeOfDay(6, 0)))
}

func TestWalkWindow(t *testing.T) {
	var visited []int
	walkWindow(domain.NewTimeOfDay(22, 0), domain.NewTimeOfDay(2, 0), func(hour int) {
		visited = append(visited, hour)
	})
	assert.Equal(t, []int{22, 23, 0, 1}, visited)

	visited = nil
	walkWindow(domain.NewTimeOfDay(6, 0), domain.NewTimeOfDay(6, 0), func(hour int) {
		visited = append(visited, hour)
	})
	assert.Len(t, visited, 24, "equal start and end walks the whole day")
}
