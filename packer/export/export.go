/*
NAME
  export.go

DESCRIPTION
  export.go writes a packer.Result to a four-sheet xlsx workbook:
  Schedule (Objects + Schedule tables), Memory_Map, Frame Order
  (transposed), and Frame_Summary. If the target path exists, _0, _1,
  ... is appended to the stem until a free path is found.

AUTHOR
  Joseph John <joey@joeyjohn.dev>

LICENSE
  See LICENSE.
*/

// Package export writes a packer.Result out as an xlsx workbook.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/joeyjohn/formatpacker/packer"
)

// ResolvePath implements the output-path collision policy: if path
// exists, append "_0", "_1", ... to the filename's stem until a free
// path is found.
func ResolvePath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path // free (or unstatable, which write will surface).
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 0; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}

// Write renders res to path (resolved through ResolvePath first) as a
// four-sheet xlsx workbook and returns the path actually written to.
func Write(res *packer.Result, path string) (string, error) {
	resolved := ResolvePath(path)

	f := excelize.NewFile()
	defer f.Close()

	if err := writeScheduleSheet(f, res); err != nil {
		return "", errors.Wrap(err, "export: Schedule sheet")
	}
	if err := writeMemoryMapSheet(f, res); err != nil {
		return "", errors.Wrap(err, "export: Memory_Map sheet")
	}
	if err := writeFrameOrderSheet(f, res); err != nil {
		return "", errors.Wrap(err, "export: Frame Order sheet")
	}
	if err := writeFrameSummarySheet(f, res); err != nil {
		return "", errors.Wrap(err, "export: Frame_Summary sheet")
	}
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(resolved); err != nil {
		return "", errors.Wrapf(err, "export: saving %q", resolved)
	}
	return resolved, nil
}

// writeScheduleSheet lays out the Objects table at column A, two blank
// columns, then the Schedule table.
func writeScheduleSheet(f *excelize.File, res *packer.Result) error {
	const sheet = "Schedule"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	headers := []string{"Name", "Size", "Period", "Start_Frame", "Offset"}
	for c, h := range headers {
		if err := setCell(f, sheet, 1, c, h); err != nil {
			return err
		}
	}
	for r, rec := range res.Objects {
		row := r + 2
		if err := setCell(f, sheet, row, 0, rec.Name); err != nil {
			return err
		}
		if err := setCell(f, sheet, row, 1, rec.SizeBits); err != nil {
			return err
		}
		if err := setCell(f, sheet, row, 2, rec.Period); err != nil {
			return err
		}
		if err := setCell(f, sheet, row, 3, optionalInt(rec.StartFrame)); err != nil {
			return err
		}
		if err := setCell(f, sheet, row, 4, optionalInt(rec.OffsetBits)); err != nil {
			return err
		}
	}

	// Two blank columns (5, 6), then the Schedule table starting at column 7.
	const scheduleStart = 7
	if err := setCell(f, sheet, 1, scheduleStart, "Name"); err != nil {
		return err
	}
	for fr := 0; fr < res.NumFrames; fr++ {
		if err := setCell(f, sheet, 1, scheduleStart+1+fr, fr); err != nil {
			return err
		}
	}
	for r, name := range res.Schedule.Names {
		row := r + 2
		if err := setCell(f, sheet, row, scheduleStart, name); err != nil {
			return err
		}
		for fr, occ := range res.Schedule.Occurs[r] {
			cell := ""
			if occ {
				cell = name
			}
			if err := setCell(f, sheet, row, scheduleStart+1+fr, cell); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeMemoryMapSheet writes the frame_size_bits x num_frames grid, row
// index labeled "Bits", columns are frame indices.
func writeMemoryMapSheet(f *excelize.File, res *packer.Result) error {
	const sheet = "Memory_Map"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	if err := setCell(f, sheet, 1, 0, "Bits"); err != nil {
		return err
	}
	for fr := 0; fr < res.NumFrames; fr++ {
		if err := setCell(f, sheet, 1, 1+fr, fr); err != nil {
			return err
		}
	}
	for bit := 0; bit < res.FrameSizeBits; bit++ {
		row := bit + 2
		if err := setCell(f, sheet, row, 0, bit); err != nil {
			return err
		}
		for fr := 0; fr < res.NumFrames; fr++ {
			if err := setCell(f, sheet, row, 1+fr, res.MemoryMap.Cells[fr][bit]); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeFrameOrderSheet writes FrameOrder transposed: frames across
// columns, each column listing its occupants top to bottom in
// ascending start-bit order.
func writeFrameOrderSheet(f *excelize.File, res *packer.Result) error {
	const sheet = "Frame Order"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	for fr := 0; fr < res.NumFrames; fr++ {
		if err := setCell(f, sheet, 1, fr, fmt.Sprintf("Frame %d", fr)); err != nil {
			return err
		}
		for r, name := range res.FrameOrder.Names[fr] {
			if err := setCell(f, sheet, r+2, fr, name); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeFrameSummarySheet writes FrameSummary, row index labeled
// "Objects".
func writeFrameSummarySheet(f *excelize.File, res *packer.Result) error {
	const sheet = "Frame_Summary"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	if err := setCell(f, sheet, 1, 0, "Objects"); err != nil {
		return err
	}
	for fr := 0; fr < res.NumFrames; fr++ {
		if err := setCell(f, sheet, 1, 1+fr, fr); err != nil {
			return err
		}
	}
	for r, name := range res.FrameSummary.Names {
		row := r + 2
		if err := setCell(f, sheet, row, 0, name); err != nil {
			return err
		}
		for fr, bit := range res.FrameSummary.StartBit[r] {
			cell := ""
			if bit >= 0 {
				cell = strconv.Itoa(bit)
			}
			if err := setCell(f, sheet, row, 1+fr, cell); err != nil {
				return err
			}
		}
	}
	return nil
}

// optionalInt renders a *int as its int value, or "" when nil.
func optionalInt(p *int) interface{} {
	if p == nil {
		return ""
	}
	return *p
}

// setCell converts 0-indexed (row, col) to an A1 reference and writes v.
func setCell(f *excelize.File, sheet string, row, col int, v interface{}) error {
	ref, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, ref, v)
}
