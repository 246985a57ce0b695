package domain

// The persisted roster grid for one day: row 0 holds the day-of-month,
// rows 1-9 hold up to 9 shift slots. Column 0 is the shift time (plus
// the tango annotation on a second line), columns 1-3 hold up to 3
// units rendered as "<id>\n<zones>".
const (
	GridRows = 10
	GridCols = 4
)

// Grid is a fixed-shape day cell block. It is a value type on purpose:
// snapshots and previews copy it freely.
type Grid [GridRows][GridCols]string
