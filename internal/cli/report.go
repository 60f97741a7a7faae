package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/facturas/internal/engine"
	"github.com/Veraticus/facturas/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// RenderSummary renders per-sheet row counts as a boxed table.
func RenderSummary(title string, counts []engine.CategoryCount) string {
	total := 0
	for _, c := range counts {
		total += c.Rows
	}

	rows := make([][]string, 0, len(counts)+1)
	for _, c := range counts {
		rows = append(rows, []string{c.Sheet, strconv.Itoa(c.Rows)})
	}
	rows = append(rows, []string{"Total", strconv.Itoa(total)})

	return RenderBox(title, renderTable([]string{"Hoja", "Filas"}, rows))
}

// RenderCategories lists every category with its sheet name.
func RenderCategories(categories []model.Category, maxSheetName int) string {
	rows := make([][]string, len(categories))
	for i, c := range categories {
		sheet := c.SheetName(maxSheetName)
		note := ""
		if sheet != c.String() {
			note = SubtleStyle.Render("(truncated)")
		}
		rows[i] = []string{c.String(), sheet, note}
	}
	return RenderBox("Categories", renderTable([]string{"Category", "Sheet", ""}, rows))
}

func renderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(formatRow(header, widths)))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(formatRow(row, widths))
	}
	return b.String()
}

func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		pad := widths[i] - lipgloss.Width(cell)
		parts[i] = TableCellStyle.Render(cell + strings.Repeat(" ", pad))
	}
	return strings.TrimRight(strings.Join(parts, ""), " ")
}

// Plural formats n with a singular or plural noun.
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
