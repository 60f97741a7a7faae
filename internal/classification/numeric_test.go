package classification

import (
	"math"
	"testing"

	"github.com/Veraticus/facturas/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestSafeFloat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "empty", raw: "", want: 0},
		{name: "blank", raw: "   ", want: 0},
		{name: "letters", raw: "abc", want: 0},
		{name: "comma decimal", raw: "1,5", want: 1.5},
		{name: "surrounding spaces", raw: " 3 ", want: 3},
		{name: "internal spaces", raw: "1 234,50", want: 1234.5},
		{name: "period decimal", raw: "21.0", want: 21},
		{name: "negative", raw: "-10", want: -10},
		{name: "two separators", raw: "1.234,5", want: 0},
		{name: "percent sign", raw: "21%", want: 0},
		{name: "exponent", raw: "2e1", want: 20},
		{name: "hex literal", raw: "0x1p4", want: 0},
		{name: "signed hex literal", raw: "-0X10", want: 0},
		{name: "digit underscores", raw: "1_000", want: 1000},
		{name: "underscore in fraction", raw: "1_000,2_5", want: 1000.25},
		{name: "leading underscore", raw: "_1000", want: 0},
		{name: "double underscore", raw: "1__000", want: 0},
		{name: "underscore before point", raw: "1_.5", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeFloat(tt.raw))
		})
	}
}

func TestSafeFloat_OutOfRange(t *testing.T) {
	assert.True(t, math.IsInf(SafeFloat("1e400"), 1))
	assert.True(t, math.IsInf(SafeFloat("-1e400"), -1))
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, model.Amount{}, ParseAmount(""))
	assert.Equal(t, model.Amount{}, ParseAmount("  "))
	assert.Equal(t, model.Amount{Value: 0, Valid: true}, ParseAmount("n/a"))
	assert.Equal(t, model.Amount{Value: 7.5, Valid: true}, ParseAmount("7,5"))
}

func TestParseInvoice(t *testing.T) {
	row := model.Row{
		model.ColumnResidence:       "Nacional",
		model.ColumnConcept:         "Material de oficina",
		model.ColumnDisbursements:   "",
		model.ColumnWithholding:     "15",
		model.ColumnWithholdingRate: "15,00",
		model.ColumnVAT1:            "21",
		model.ColumnVAT3:            "0",
	}

	inv := ParseInvoice(row)

	assert.Equal(t, "Nacional", inv.Residence)
	assert.Equal(t, "Material de oficina", inv.Concept)
	assert.False(t, inv.Disbursements.Valid)
	assert.False(t, inv.Base2.Valid, "missing column is absent")
	assert.Equal(t, 15.0, inv.Withholding.Float())
	assert.Equal(t, 15.0, inv.WithholdingRate.Float())
	assert.Equal(t, 21.0, inv.VATRates[0].Float())
	assert.False(t, inv.VATRates[1].Valid)
	assert.True(t, inv.VATRates[2].Valid)
	assert.Equal(t, 0.0, inv.VATRates[2].Float())
}
