// Package sheet persists the roster calendar in an xlsx workbook. It is
// the only layer that sees cell coordinates; everything above it works
// with whole day grids.
package sheet

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/station95-rescue/duty-roster/backend/internal/domain"
)

// ErrMonthMissing is returned when a read targets a month that has no
// sheet in the workbook yet.
var ErrMonthMissing = errors.New("month sheet not found in workbook")

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// ReadGrid loads a date's 10x4 block. Cells outside the written range
// come back as empty strings, which the codec treats as absent slots.
func (s *Store) ReadGrid(date time.Time) (domain.Grid, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return domain.Grid{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	tab := TabName(date)
	if idx, err := f.GetSheetIndex(tab); err != nil || idx < 0 {
		return domain.Grid{}, fmt.Errorf("%w: %s", ErrMonthMissing, tab)
	}

	row, col := DayRegion(date)

	var g domain.Grid
	for r := 0; r < domain.GridRows; r++ {
		for c := 0; c < domain.GridCols; c++ {
			cell, err := excelize.CoordinatesToCellName(col+c, row+r)
			if err != nil {
				return domain.Grid{}, err
			}
			value, err := f.GetCellValue(tab, cell)
			if err != nil {
				return domain.Grid{}, err
			}
			g[r][c] = value
		}
	}

	return g, nil
}

// WriteGrid stores a date's 10x4 block, creating the workbook and the
// month sheet when needed.
func (s *Store) WriteGrid(date time.Time, g domain.Grid) error {
	f, created, err := s.openOrCreate()
	if err != nil {
		return err
	}
	defer f.Close()

	tab := TabName(date)
	if idx, err := f.GetSheetIndex(tab); err != nil || idx < 0 {
		if _, err := f.NewSheet(tab); err != nil {
			return err
		}
	}
	if created {
		// drop the placeholder sheet excelize seeds new workbooks with
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}

	row, col := DayRegion(date)

	for r := 0; r < domain.GridRows; r++ {
		for c := 0; c < domain.GridCols; c++ {
			cell, err := excelize.CoordinatesToCellName(col+c, row+r)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(tab, cell, g[r][c]); err != nil {
				return err
			}
		}
	}

	if created {
		return f.SaveAs(s.path)
	}
	return f.Save()
}

func (s *Store) openOrCreate() (f *excelize.File, created bool, err error) {
	f, err = excelize.OpenFile(s.path)
	if err == nil {
		return f, false, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return excelize.NewFile(), true, nil
	}
	return nil, false, fmt.Errorf("open workbook: %w", err)
}
