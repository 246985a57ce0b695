// Package template builds month rosters from the station's CSV week
// template. The template holds up to N repeating weeks; a month cycles
// through them starting from the week January began with.
package template

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/station95-rescue/duty-roster/backend/internal/domain"
	"github.com/station95-rescue/duty-roster/backend/internal/roster"
)

var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Week is one template week: shifts per weekday name.
type Week struct {
	Number int
	Days   map[string]*domain.DaySchedule
}

// Load parses the CSV week template. Each data row is
// "weekN, <range>, <units>, <range>, <units>, ..." with one
// range/units column pair per weekday starting from Sunday; ranges look
// like "1800 - 0600" and units like "34|54".
func Load(path string) (map[int]*Week, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	weeks := make(map[int]*Week)
	if len(rows) == 0 {
		return weeks, nil
	}

	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		label := strings.TrimSpace(row[0])
		if !strings.HasPrefix(label, "week") {
			continue
		}
		number, err := strconv.Atoi(strings.TrimPrefix(label, "week"))
		if err != nil {
			return nil, fmt.Errorf("invalid week label %q", label)
		}

		week, exists := weeks[number]
		if !exists {
			week = &Week{Number: number, Days: make(map[string]*domain.DaySchedule)}
			weeks[number] = week
		}

		col := 1
		for _, dayName := range dayNames {
			if col >= len(row) {
				break
			}
			timeRange := strings.TrimSpace(row[col])
			unitsCell := ""
			if col+1 < len(row) {
				unitsCell = strings.TrimSpace(row[col+1])
			}
			col += 2

			if timeRange == "" || unitsCell == "" {
				continue
			}

			start, end, ok := parseShiftRange(timeRange)
			if !ok {
				continue
			}
			units := parseUnits(unitsCell)

			day, exists := week.Days[dayName]
			if !exists {
				day = &domain.DaySchedule{Day: dayName}
				week.Days[dayName] = day
			}

			day.Shifts = append(day.Shifts, domain.Shift{
				Label:    domain.ShiftLabel(start, end),
				Start:    start,
				End:      end,
				Segments: makeSegments(start, end, units, dayName),
			})
		}
	}

	return weeks, nil
}

// parseShiftRange splits "1800 - 0600" (separator spacing varies in the
// hand-maintained template) into start and end times.
func parseShiftRange(s string) (start, end domain.TimeOfDay, ok bool) {
	var parts []string
	for _, sep := range []string{" - ", " -", "- "} {
		if strings.Contains(s, sep) {
			parts = strings.SplitN(s, sep, 2)
			break
		}
	}
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

// parseUnits splits "34|54" into unit records.
func parseUnits(s string) []domain.Unit {
	units := []domain.Unit{}
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.Atoi(part); err == nil {
			units = append(units, domain.Unit{ID: id, Active: true})
		}
	}
	return units
}

// makeSegments builds a shift's segments. The Monday night shift is
// stored split at midnight; everything else is a single segment.
func makeSegments(start, end domain.TimeOfDay, units []domain.Unit, dayName string) []domain.ShiftSegment {
	if dayName == "Monday" && start == domain.NightShiftStart && end == domain.DayShiftStart {
		midnight := domain.NewTimeOfDay(0, 0)
		return []domain.ShiftSegment{
			{Start: start, End: midnight, Units: cloneUnits(units)},
			{Start: midnight, End: end, Units: cloneUnits(units)},
		}
	}
	return []domain.ShiftSegment{{Start: start, End: end, Units: cloneUnits(units)}}
}

func cloneUnits(units []domain.Unit) []domain.Unit {
	out := make([]domain.Unit, len(units))
	for i, u := range units {
		out[i] = u.Clone()
	}
	return out
}

// GenerateMonth produces one DaySchedule per day of the target month by
// cycling through the template weeks. Week templates roll forward
// continuously from January of the target year; the template advances
// every Sunday.
func GenerateMonth(weeks map[int]*Week, month time.Month, year int) ([]*domain.DaySchedule, error) {
	if len(weeks) == 0 {
		return nil, fmt.Errorf("no template weeks loaded")
	}

	maxWeek := 0
	for number := range weeks {
		if number > maxWeek {
			maxWeek = number
		}
	}

	currentWeek := (weeksFromJanuary(month, year) % maxWeek) + 1

	schedule := []*domain.DaySchedule{}
	date := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	for date.Month() == month {
		dayName := dayNames[int(date.Weekday())]

		if week, exists := weeks[currentWeek]; exists {
			if templateDay, exists := week.Days[dayName]; exists {
				schedule = append(schedule, copyForDate(templateDay, date))
			}
		}

		date = date.AddDate(0, 0, 1)
		if date.Weekday() == time.Sunday {
			currentWeek = (currentWeek % maxWeek) + 1
		}
	}

	return schedule, nil
}

// weeksFromJanuary counts the ISO weeks spanned by the months before
// the target month in the target year.
func weeksFromJanuary(month time.Month, year int) int {
	weeks := 0
	for m := time.January; m < month; m++ {
		first := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)

		_, firstWeek := first.ISOWeek()
		_, lastWeek := last.ISOWeek()

		if lastWeek < firstWeek {
			// December days counted into week 1 of the next ISO year
			weeks += (52 - firstWeek + 1) + lastWeek
		} else {
			weeks += lastWeek - firstWeek + 1
		}
	}
	return weeks
}

func copyForDate(templateDay *domain.DaySchedule, date time.Time) *domain.DaySchedule {
	day := &domain.DaySchedule{
		Day:    date.Format("Monday 2006-01-02"),
		Shifts: make([]domain.Shift, len(templateDay.Shifts)),
	}

	for i, shift := range templateDay.Shifts {
		copied := shift
		copied.Segments = make([]domain.ShiftSegment, len(shift.Segments))
		for j, segment := range shift.Segments {
			copied.Segments[j] = domain.ShiftSegment{
				Start: segment.Start,
				End:   segment.End,
				Units: cloneUnits(segment.Units),
			}
		}
		day.Shifts[i] = copied
	}

	return day
}

// AssignZones fills in each segment's zone split from the coverage
// table. A segment staffed by a single unit gets the full zone
// universe; combinations without a table entry are left empty for the
// mutation-time fallback.
func AssignZones(schedule []*domain.DaySchedule, table roster.CoverageTable, zones []int) error {
	for _, day := range schedule {
		for i := range day.Shifts {
			for j := range day.Shifts[i].Segments {
				segment := &day.Shifts[i].Segments[j]

				if len(segment.Units) == 1 {
					segment.Units[0].Zones = append([]int(nil), zones...)
					continue
				}

				ids := make([]int, len(segment.Units))
				for k, unit := range segment.Units {
					ids[k] = unit.ID
				}

				assignments, found, err := table.Lookup(domain.CoverageKey(ids))
				if err != nil {
					return err
				}
				if !found {
					continue
				}

				for k := range segment.Units {
					for _, assignment := range assignments {
						if assignment.UnitID == segment.Units[k].ID {
							segment.Units[k].Zones = append([]int(nil), assignment.Zones...)
							break
						}
					}
				}
			}
		}
	}

	return nil
}
