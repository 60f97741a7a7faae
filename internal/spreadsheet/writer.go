package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// MaxSheetNameLength is the longest worksheet name the xlsx format allows.
const MaxSheetNameLength = 31

// Sheet is one worksheet of output. A nil cell is left empty; float64
// cells are written as numbers and everything else as text.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// ErrNoSheets is returned when asked to write a workbook with no sheets.
var ErrNoSheets = errors.New("workbook needs at least one sheet")

// defaultSheet is the worksheet excelize creates with every new file.
const defaultSheet = "Sheet1"

// Write encodes sheets as an xlsx workbook in the given order.
func Write(w io.Writer, sheets []Sheet) error {
	if len(sheets) == 0 {
		return ErrNoSheets
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	keepDefault := false
	for _, s := range sheets {
		if s.Name == defaultSheet {
			keepDefault = true
			continue
		}
		if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", s.Name, err)
		}
	}
	if !keepDefault {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("failed to remove default sheet: %w", err)
		}
	}

	for _, s := range sheets {
		if err := writeSheet(f, s); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s Sheet) error {
	for col, name := range s.Columns {
		if err := setCell(f, s.Name, col, 0, name); err != nil {
			return err
		}
	}

	for r, row := range s.Rows {
		for col, v := range row {
			if v == nil {
				continue
			}
			if err := setCell(f, s.Name, col, r+1, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return fmt.Errorf("invalid cell position: %w", err)
	}

	// NaN and Inf have no numeric encoding in xlsx.
	if x, ok := v.(float64); ok && (math.IsNaN(x) || math.IsInf(x, 0)) {
		v = strconv.FormatFloat(x, 'g', -1, 64)
	}

	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}
