package spreadsheet

import (
	"fmt"
	"io"

	"github.com/Veraticus/facturas/internal/common"
	"github.com/Veraticus/facturas/internal/model"
	"github.com/xuri/excelize/v2"
)

// DefaultPreambleRows is the number of title rows above the header in the
// invoicing system's export.
const DefaultPreambleRows = 2

// ReadOptions controls how a workbook is turned into a Table.
type ReadOptions struct {
	// Sheet names the worksheet to read. Empty means the first sheet.
	Sheet string
	// PreambleRows are skipped before the header row.
	PreambleRows int
}

// Read parses the workbook in r. Cells are read as displayed, except the
// numeric columns, which carry the stored value so the classifier never sees
// a number format. Any failure to open the workbook or find the sheet is
// reported as a *common.ParseError. A workbook too short to hold a header
// yields an empty table.
func Read(r io.Reader, opts ReadOptions) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, common.NewParseError("workbook", err)
	}
	defer func() { _ = f.Close() }()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, common.NewParseError("workbook", fmt.Errorf("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, common.NewParseError(fmt.Sprintf("sheet %q", sheet), err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, common.NewParseError(fmt.Sprintf("sheet %q", sheet), err)
	}

	table := FromRows(rows, opts.PreambleRows)
	overlayRaw(table, raw, opts.PreambleRows)
	return table, nil
}

// overlayRaw swaps the cells of numeric columns for their stored values.
func overlayRaw(t *Table, raw [][]string, preamble int) {
	preamble = max(preamble, 0)
	if len(raw) <= preamble {
		return
	}
	raw = raw[preamble+1:]

	for j, name := range t.Columns {
		if !model.IsNumericColumn(name) {
			continue
		}
		for i, row := range t.Rows {
			if i < len(raw) && j < len(raw[i]) {
				row[j] = raw[i][j]
			}
		}
	}
}

// FromRows builds a table from raw sheet rows, skipping preamble rows and
// using the next row as the header.
func FromRows(rows [][]string, preamble int) *Table {
	if preamble < 0 {
		preamble = 0
	}
	if len(rows) <= preamble {
		return &Table{}
	}
	return NewTable(rows[preamble], rows[preamble+1:])
}
