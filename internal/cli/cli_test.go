package cli

import (
	"bytes"
	"testing"

	"github.com/Veraticus/facturas/internal/engine"
	"github.com/Veraticus/facturas/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestRenderSummary(t *testing.T) {
	out := RenderSummary("Resultado", []engine.CategoryCount{
		{Category: model.CategoryStandardVAT, Sheet: "IVA 21 & 10", Rows: 12},
		{Category: model.CategoryForeignZeroVAT, Sheet: "Extranjero y subcontratas 0% IV", Rows: 3},
	})

	assert.Contains(t, out, "Resultado")
	assert.Contains(t, out, "IVA 21 & 10")
	assert.Contains(t, out, "Extranjero y subcontratas 0% IV")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "15")
}

func TestRenderCategories(t *testing.T) {
	out := RenderCategories(model.Categories(), 31)

	for _, c := range model.Categories() {
		assert.Contains(t, out, c.String())
	}
	assert.Contains(t, out, "truncated")
}

func TestNewProgress(t *testing.T) {
	var buf bytes.Buffer
	progress := NewProgress(&buf)

	for i := 1; i <= 3; i++ {
		progress(i, 3)
	}

	assert.Contains(t, buf.String(), "Classifying invoices")
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 row", Plural(1, "row", "rows"))
	assert.Equal(t, "0 rows", Plural(0, "row", "rows"))
}
