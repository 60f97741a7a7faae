package engine

import (
	"github.com/Veraticus/facturas/internal/model"
	"github.com/Veraticus/facturas/internal/spreadsheet"
)

// Group is the set of rows filed under one category, in input order.
type Group struct {
	Category model.Category
	Rows     [][]any
}

// Dataset is the input partitioned by category. Groups appear in the order
// their category was first seen, so the same input always produces the
// same sheet order.
type Dataset struct {
	Columns []string
	Groups  []*Group
	index   map[model.Category]*Group
}

func newDataset(columns []string) *Dataset {
	return &Dataset{
		Columns: columns,
		index:   make(map[model.Category]*Group),
	}
}

func (d *Dataset) add(category model.Category, cells []any) {
	g, ok := d.index[category]
	if !ok {
		g = &Group{Category: category}
		d.index[category] = g
		d.Groups = append(d.Groups, g)
	}
	g.Rows = append(g.Rows, cells)
}

// Group returns the rows for category, or nil if none were filed under it.
func (d *Dataset) Group(category model.Category) *Group {
	return d.index[category]
}

// Len returns the total number of rows across all groups.
func (d *Dataset) Len() int {
	n := 0
	for _, g := range d.Groups {
		n += len(g.Rows)
	}
	return n
}

// CategoryCount is one line of a processing summary.
type CategoryCount struct {
	Category model.Category
	Sheet    string
	Rows     int
}

// Summary lists row counts per group in output order.
func (d *Dataset) Summary(maxSheetName int) []CategoryCount {
	out := make([]CategoryCount, len(d.Groups))
	for i, g := range d.Groups {
		out[i] = CategoryCount{
			Category: g.Category,
			Sheet:    g.Category.SheetName(maxSheetName),
			Rows:     len(g.Rows),
		}
	}
	return out
}

// Sheets lays the dataset out as one worksheet per group.
func (d *Dataset) Sheets(maxSheetName int) []spreadsheet.Sheet {
	sheets := make([]spreadsheet.Sheet, len(d.Groups))
	for i, g := range d.Groups {
		sheets[i] = spreadsheet.Sheet{
			Name:    g.Category.SheetName(maxSheetName),
			Columns: d.Columns,
			Rows:    g.Rows,
		}
	}
	return sheets
}
