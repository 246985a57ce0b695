package sheet

import (
	"time"

	"github.com/station95-rescue/duty-roster/backend/internal/domain"
)

// The workbook holds one sheet per month, laid out as a wall calendar
// anchored at B6: each week occupies 10 rows, each day 4 columns, with
// Sunday in the leftmost column.
const (
	anchorRow = 6
	anchorCol = 2 // column B
)

// TabName returns the month sheet name for a date, e.g. "January 2026".
func TabName(date time.Time) string {
	return date.Format("January 2006")
}

// DayRegion computes the 1-based top-left cell of a date's 10x4 block
// inside its month sheet.
func DayRegion(date time.Time) (row, col int) {
	dayOfWeek := int(date.Weekday()) // Sunday == 0

	firstOfMonth := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	firstDayOfWeek := int(firstOfMonth.Weekday())

	weekOfMonth := (date.Day() - 1 + firstDayOfWeek) / 7

	row = anchorRow + weekOfMonth*domain.GridRows
	col = anchorCol + dayOfWeek*domain.GridCols
	return row, col
}

// DayLabel renders the schedule label for a date, e.g.
// "Thursday 2026-01-01".
func DayLabel(date time.Time) string {
	return date.Format("Monday 2006-01-02")
}
