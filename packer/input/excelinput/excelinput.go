/*
NAME
  excelinput.go

DESCRIPTION
  excelinput.go reads a point object list from an xlsx workbook: header
  at row 3 naming the columns Name, Size, Period, Start_Frame and Offset
  (located by header name, in any column), rows with no Name skipped.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

// Package excelinput builds a packer object list from an xlsx workbook.
package excelinput

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/joeyjohn/formatpacker/packer"
)

// headerRow is the 1-indexed row holding the column names; the two rows
// above it are left for workbook titling.
const headerRow = 3

// columns are the header names looked up in the header row; each may
// sit in any column of that row. A blank Start_Frame or Offset cell
// leaves the point unpinned in that respect.
var columns = []string{"Name", "Size", "Period", "Start_Frame", "Offset"}

// Build reads path's first sheet and returns the resulting object list.
// A missing workbook is an error.
func Build(path string) ([]packer.Item, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "excelinput: opening %q", path)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "excelinput: reading sheet %q", sheet)
	}
	if len(rows) < headerRow {
		return nil, errors.Errorf("excelinput: %q has no header row %d", path, headerRow)
	}

	header := rows[headerRow-1]
	colIndex := make(map[string]int, len(columns))
	for _, want := range columns {
		idx := -1
		for i, h := range header {
			if h == want {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, errors.Errorf("excelinput: %q missing required column %q", path, want)
		}
		colIndex[want] = idx
	}

	var items []packer.Item
	for _, row := range rows[headerRow:] {
		name := cell(row, colIndex["Name"])
		if name == "" {
			continue // rows with no Name are skipped.
		}
		size, err := atoiCell(row, colIndex["Size"])
		if err != nil {
			return nil, errors.Wrapf(err, "excelinput: row for %q, Size", name)
		}
		period, err := atoiCell(row, colIndex["Period"])
		if err != nil {
			return nil, errors.Wrapf(err, "excelinput: row for %q, Period", name)
		}
		startFrame, err := optionalIntCell(row, colIndex["Start_Frame"])
		if err != nil {
			return nil, errors.Wrapf(err, "excelinput: row for %q, Start_Frame", name)
		}
		offset, err := optionalIntCell(row, colIndex["Offset"])
		if err != nil {
			return nil, errors.Wrapf(err, "excelinput: row for %q, Offset", name)
		}
		items = append(items, packer.PointItem(packer.NewPoint(name, size, period, startFrame, offset)))
	}
	return items, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func atoiCell(row []string, idx int) (int, error) {
	s := cell(row, idx)
	return strconv.Atoi(s)
}

// optionalIntCell returns nil when the cell is blank.
func optionalIntCell(row []string, idx int) (*int, error) {
	s := cell(row, idx)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
