// Package spreadsheet reads and writes the xlsx workbooks exchanged with
// the invoicing system and the accounting import.
package spreadsheet

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/facturas/internal/model"
)

// Table is a rectangular block of text cells under a single header row.
// Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable builds a table from a header row and ragged data rows. Blank
// headers become "Unnamed: <index>" and repeated headers get a ".<n>"
// suffix so every column name is unique. Rows wider than the header add
// unnamed columns; shorter rows are padded with blanks.
func NewTable(header []string, data [][]string) *Table {
	width := len(header)
	for _, row := range data {
		if len(row) > width {
			width = len(row)
		}
	}

	columns := make([]string, width)
	seen := make(map[string]int, width)
	for i := range columns {
		name := ""
		if i < len(header) {
			name = header[i]
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		columns[i] = uniqueName(name, seen)
	}

	rows := make([][]string, len(data))
	for i, row := range data {
		cells := make([]string, width)
		copy(cells, row)
		rows[i] = cells
	}

	return &Table{Columns: columns, Rows: rows}
}

func uniqueName(name string, seen map[string]int) string {
	n, dup := seen[name]
	if !dup {
		seen[name] = 0
		return name
	}
	for {
		n++
		candidate := fmt.Sprintf("%s.%d", name, n)
		if _, taken := seen[candidate]; !taken {
			seen[name] = n
			seen[candidate] = 0
			return candidate
		}
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no rows or no columns.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0 || len(t.Columns) == 0
}

// Row returns row i keyed by column name.
func (t *Table) Row(i int) model.Row {
	row := make(model.Row, len(t.Columns))
	for j, c := range t.Columns {
		row[c] = t.Rows[i][j]
	}
	return row
}

// DropEmptyColumns removes every column whose data cells are all blank.
// The header alone does not keep a column alive.
func (t *Table) DropEmptyColumns() {
	keep := make([]int, 0, len(t.Columns))
	for j := range t.Columns {
		for _, row := range t.Rows {
			if row[j] != "" {
				keep = append(keep, j)
				break
			}
		}
	}
	if len(keep) == len(t.Columns) {
		return
	}

	columns := make([]string, len(keep))
	for k, j := range keep {
		columns[k] = t.Columns[j]
	}

	for i, row := range t.Rows {
		cells := make([]string, len(keep))
		for k, j := range keep {
			cells[k] = row[j]
		}
		t.Rows[i] = cells
	}
	t.Columns = columns
}
