package engine

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/facturas/internal/common"
	"github.com/Veraticus/facturas/internal/model"
	"github.com/Veraticus/facturas/internal/spreadsheet"
	"github.com/Veraticus/facturas/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleWorkbook(t *testing.T) []byte {
	t.Helper()
	return testutil.InvoiceWorkbook(t,
		testutil.Invoice(map[string]any{"Proveedor": "Gasóleos SA", "Residencia": "Nacional", "Concepto": "Gasoil", "% IVA 1": 21, "Total": 121}),
		testutil.Invoice(map[string]any{"Proveedor": "Acme GmbH", "Residencia": "UE", "Concepto": "Subcontrata transporte", "% IVA 1": 0}),
		testutil.Invoice(map[string]any{"Proveedor": "Asesoría López", "Residencia": "Nacional", "Retención": "15,00", "% IVA 1": 21}),
		testutil.Invoice(map[string]any{"Proveedor": "Atlas SARL", "Residencia": "Marruecos", "Concepto": "Portes"}),
		testutil.Invoice(map[string]any{"Proveedor": "Talleres Ruiz", "Residencia": "Nacional", "Base 2": 50, "% IVA 1": 21, "% IVA 2": 10}),
		testutil.Invoice(map[string]any{"Proveedor": "Repsol", "Residencia": "Nacional", "Concepto": "Gasoil", "% IVA 1": "10", "Total": 110}),
	)
}

func TestProcess(t *testing.T) {
	p := New(DefaultConfig(), nil)

	result, err := p.Process(context.Background(), bytes.NewReader(sampleWorkbook(t)))
	require.NoError(t, err)

	data, err := io.ReadAll(result.Output)
	require.NoError(t, err)
	names, sheets := testutil.Sheets(t, data)

	assert.Equal(t, []string{
		"IVA 21 & 10",
		"SUBCONTRATAS",
		"Con Retención",
		"Extranjero y subcontratas 0% IV",
		"2 Bases",
	}, names)

	// Empty columns never reach the output.
	wantHeader := []string{"Proveedor", "Residencia", "Concepto", "% IVA 1", "Base 2", "% IVA 2", "Retención", "Total"}
	for _, name := range names {
		require.NotEmpty(t, sheets[name])
		assert.Equal(t, wantHeader, sheets[name][0], "sheet %q", name)
	}

	standard := sheets["IVA 21 & 10"]
	require.Len(t, standard, 3)
	assert.Equal(t, "Gasóleos SA", standard[1][0])
	assert.Equal(t, "Repsol", standard[2][0])
	assert.Equal(t, "10", standard[2][3], "numeric columns are written as numbers")

	withholding := sheets["Con Retención"]
	require.Len(t, withholding, 2)
	assert.Equal(t, "15", withholding[1][6])

	assert.Equal(t, []CategoryCount{
		{Category: model.CategoryStandardVAT, Sheet: "IVA 21 & 10", Rows: 2},
		{Category: model.CategorySubcontractors, Sheet: "SUBCONTRATAS", Rows: 1},
		{Category: model.CategoryWithholding, Sheet: "Con Retención", Rows: 1},
		{Category: model.CategoryForeignZeroVAT, Sheet: "Extranjero y subcontratas 0% IV", Rows: 1},
		{Category: model.CategoryTwoBases, Sheet: "2 Bases", Rows: 1},
	}, result.Summary())
}

func TestProcess_StableOrder(t *testing.T) {
	p := New(DefaultConfig(), nil)
	data := sampleWorkbook(t)

	first, err := p.Process(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)
	second, err := p.Process(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, first.Summary(), second.Summary())
}

func TestProcess_EmptyInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "header only", data: testutil.InvoiceWorkbook(t)},
		{name: "blank data rows", data: testutil.InvoiceWorkbook(t, []any{nil, nil}, []any{}, testutil.Invoice(nil))},
		{name: "preamble only", data: testutil.WorkbookBytes(t, testutil.Preamble)},
		{name: "empty sheet", data: testutil.WorkbookBytes(t, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New(DefaultConfig(), nil).Process(context.Background(), bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, common.ErrEmptyInput)
			assert.Nil(t, result)
		})
	}
}

func TestProcess_ParseError(t *testing.T) {
	result, err := New(DefaultConfig(), nil).Process(context.Background(), strings.NewReader("not a workbook"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrParse)
	assert.NotErrorIs(t, err, common.ErrEmptyInput)
	assert.Nil(t, result)
}

func TestProcess_DropsLabelColumn(t *testing.T) {
	data := testutil.WorkbookBytes(t, [][]any{
		{"Listado"},
		{},
		{"Residencia", "Pestaña", "% IVA 1"},
		{"Nacional", "vieja", 21},
	})

	result, err := New(DefaultConfig(), nil).Process(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)

	out, err := io.ReadAll(result.Output)
	require.NoError(t, err)
	_, sheets := testutil.Sheets(t, out)

	assert.Equal(t, [][]string{
		{"Residencia", "% IVA 1"},
		{"Nacional", "21"},
	}, sheets["IVA 21 & 10"])
}

func TestProcess_KeepsDates(t *testing.T) {
	data := testutil.WorkbookBytes(t, [][]any{
		{"Listado"},
		{},
		{"Fecha", "Residencia"},
		{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "Marruecos"},
	})

	in, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	shown, err := in.GetCellValue("Sheet1", "A4")
	require.NoError(t, err)
	require.NoError(t, in.Close())

	result, err := New(DefaultConfig(), nil).Process(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)

	out, err := io.ReadAll(result.Output)
	require.NoError(t, err)
	_, sheets := testutil.Sheets(t, out)

	got := sheets[model.CategoryForeignZeroVAT.SheetName(31)]
	require.Len(t, got, 2)
	assert.Equal(t, []string{shown, "Marruecos"}, got[1])
	assert.NotEqual(t, "45306", got[1][0])
}

func TestProcess_CustomPreamble(t *testing.T) {
	data := testutil.WorkbookBytes(t, [][]any{
		{"Residencia", "% IVA 1"},
		{"UE", 0},
	})

	result, err := New(Config{PreambleRows: 0}, nil).Process(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Dataset.Len())
	assert.NotNil(t, result.Dataset.Group(model.CategoryForeignZeroVAT))
}

func TestProcess_SheetNameLimit(t *testing.T) {
	data := testutil.InvoiceWorkbook(t,
		testutil.Invoice(map[string]any{"Residencia": "Nacional", "Suplidos": 3}),
	)

	result, err := New(Config{PreambleRows: 2, MaxSheetName: 4}, nil).Process(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "Supl", result.Summary()[0].Sheet)
}

func TestPartition_Completeness(t *testing.T) {
	residences := []string{"Nacional", "UE", "Francia", "", "nacional"}
	ivas := []string{"", "0", "10", "21", "4"}

	var data [][]string
	for _, r := range residences {
		for _, iva := range ivas {
			data = append(data, []string{r, "Servicios", iva, iva, iva, ""})
		}
	}
	table := spreadsheet.NewTable([]string{"Residencia", "Concepto", "% IVA 1", "% IVA 2", "% IVA 3", "Base 2"}, data)

	dataset, err := New(DefaultConfig(), nil).Partition(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, table.Len(), dataset.Len())
	assert.Equal(t, table.Columns, dataset.Columns)

	seen := make(map[model.Category]bool)
	for _, g := range dataset.Groups {
		assert.True(t, g.Category.Valid())
		assert.False(t, seen[g.Category], "category %q appears twice", g.Category)
		seen[g.Category] = true
		for _, row := range g.Rows {
			assert.Len(t, row, len(dataset.Columns))
		}
	}
}

func TestPartition_CustomClassifierAndProgress(t *testing.T) {
	table := spreadsheet.NewTable([]string{"Residencia"}, [][]string{{"a"}, {"b"}, {"c"}})

	var calls []int
	p := New(DefaultConfig(), nil,
		WithClassifier(ClassifierFunc(func(model.Row) model.Category { return model.CategoryUnclassified })),
		WithProgress(func(done, total int) {
			assert.Equal(t, 3, total)
			calls = append(calls, done)
		}),
	)

	dataset, err := p.Partition(context.Background(), table)
	require.NoError(t, err)

	require.Len(t, dataset.Groups, 1)
	assert.Equal(t, model.CategoryUnclassified, dataset.Groups[0].Category)
	assert.Equal(t, []int{1, 2, 3}, calls)
}

func TestPartition_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	table := spreadsheet.NewTable([]string{"Residencia"}, [][]string{{"Nacional"}})
	_, err := New(DefaultConfig(), nil).Partition(ctx, table)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPartition_CoercesNumericColumns(t *testing.T) {
	table := spreadsheet.NewTable(
		[]string{"Proveedor", "% IVA 1", "Suplidos"},
		[][]string{{"007", "21,0", ""}, {"", "abc", " "}},
	)

	dataset, err := New(DefaultConfig(), nil).Partition(context.Background(), table)
	require.NoError(t, err)

	var rows [][]any
	for _, g := range dataset.Groups {
		rows = append(rows, g.Rows...)
	}
	assert.ElementsMatch(t, [][]any{
		{"007", 21.0, nil},
		{nil, 0.0, 0.0},
	}, rows)
}
