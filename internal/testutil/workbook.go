// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

// InvoiceHeader is the column layout of the invoicing system's export.
var InvoiceHeader = []any{
	"Fecha", "Proveedor", "Residencia", "Concepto", "Base 1", "% IVA 1",
	"Base 2", "% IVA 2", "Base 3", "% IVA 3", "Suplidos", "Retención",
	"% Retención", "Total",
}

// Preamble is the two title rows above the header.
var Preamble = [][]any{
	{"Listado de facturas recibidas"},
	{"Empresa: Transportes Ejemplo S.L.", nil, "Ejercicio 2024"},
}

// WorkbookBytes encodes rows into the first sheet of a new workbook. A nil
// cell is left empty.
func WorkbookBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("invalid cell: %v", err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				t.Fatalf("failed to set %s: %v", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("failed to encode workbook: %v", err)
	}
	return buf.Bytes()
}

// InvoiceWorkbook builds an export with the standard preamble and header
// followed by the given data rows.
func InvoiceWorkbook(t *testing.T, data ...[]any) []byte {
	t.Helper()

	rows := make([][]any, 0, len(Preamble)+1+len(data))
	rows = append(rows, Preamble...)
	rows = append(rows, InvoiceHeader)
	rows = append(rows, data...)
	return WorkbookBytes(t, rows)
}

// Invoice builds a data row in InvoiceHeader order from column values.
func Invoice(values map[string]any) []any {
	row := make([]any, len(InvoiceHeader))
	for i, h := range InvoiceHeader {
		row[i] = values[h.(string)]
	}
	return row
}

// Sheets decodes a workbook into sheet name order and per-sheet rows.
func Sheets(t *testing.T, data []byte) ([]string, map[string][][]string) {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	names := f.GetSheetList()
	out := make(map[string][][]string, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			t.Fatalf("failed to read sheet %q: %v", name, err)
		}
		out[name] = rows
	}
	return names, out
}
