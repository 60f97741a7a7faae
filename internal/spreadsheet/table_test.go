package spreadsheet

import (
	"testing"

	"github.com/Veraticus/facturas/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	tests := []struct {
		name        string
		header      []string
		data        [][]string
		wantColumns []string
		wantRows    [][]string
	}{
		{
			name:        "pads short rows",
			header:      []string{"A", "B", "C"},
			data:        [][]string{{"1"}, {"1", "2", "3"}},
			wantColumns: []string{"A", "B", "C"},
			wantRows:    [][]string{{"1", "", ""}, {"1", "2", "3"}},
		},
		{
			name:        "names blank headers by position",
			header:      []string{"A", "", "C"},
			data:        [][]string{{"1", "2", "3"}},
			wantColumns: []string{"A", "Unnamed: 1", "C"},
			wantRows:    [][]string{{"1", "2", "3"}},
		},
		{
			name:        "rows wider than header add unnamed columns",
			header:      []string{"A"},
			data:        [][]string{{"1", "2"}},
			wantColumns: []string{"A", "Unnamed: 1"},
			wantRows:    [][]string{{"1", "2"}},
		},
		{
			name:        "suffixes duplicate headers",
			header:      []string{"Base", "Base", "Base.1", "Base"},
			data:        nil,
			wantColumns: []string{"Base", "Base.1", "Base.1.1", "Base.2"},
			wantRows:    [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable(tt.header, tt.data)
			assert.Equal(t, tt.wantColumns, table.Columns)
			assert.Equal(t, tt.wantRows, table.Rows)
		})
	}
}

func TestTable_DropEmptyColumns(t *testing.T) {
	table := NewTable(
		[]string{"Residencia", "Notas", "% IVA 1", "Vacía"},
		[][]string{
			{"Nacional", "", "21"},
			{"UE", "", "", ""},
			{"", "", "0"},
		},
	)

	table.DropEmptyColumns()

	assert.Equal(t, []string{"Residencia", "% IVA 1"}, table.Columns)
	assert.Equal(t, [][]string{{"Nacional", "21"}, {"UE", ""}, {"", "0"}}, table.Rows)
	assert.Equal(t, 3, table.Len(), "blank cells never drop rows")
}

func TestTable_DropEmptyColumns_KeepsWhitespace(t *testing.T) {
	table := NewTable([]string{"A", "B"}, [][]string{{"x", " "}})
	table.DropEmptyColumns()
	assert.Equal(t, []string{"A", "B"}, table.Columns)
}

func TestTable_DropEmptyColumns_AllBlank(t *testing.T) {
	table := NewTable([]string{"A", "B"}, [][]string{{}, {"", ""}})
	table.DropEmptyColumns()
	assert.Empty(t, table.Columns)
	assert.True(t, table.Empty())
}

func TestTable_Row(t *testing.T) {
	table := NewTable([]string{"Residencia", "% IVA 1"}, [][]string{{"Nacional", "21"}})
	require.Equal(t, 1, table.Len())

	assert.Equal(t, model.Row{"Residencia": "Nacional", "% IVA 1": "21"}, table.Row(0))
}

func TestFromRows(t *testing.T) {
	rows := [][]string{
		{"Listado de facturas"},
		{},
		{"Residencia", "Concepto"},
		{"Nacional", "Gasoil"},
	}

	table := FromRows(rows, 2)
	assert.Equal(t, []string{"Residencia", "Concepto"}, table.Columns)
	assert.Equal(t, [][]string{{"Nacional", "Gasoil"}}, table.Rows)

	assert.True(t, FromRows(rows[:2], 2).Empty(), "no header row")
	assert.True(t, FromRows(rows[:3], 2).Empty(), "header without data")
}
