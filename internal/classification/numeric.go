package classification

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Veraticus/facturas/internal/model"
)

// SafeFloat converts a raw cell to a number. Commas are decimal separators
// and spaces are thousands grouping, so "1 234,5" is 1234.5. Underscores
// between digits group as well; hex literals are not numbers. Blank or
// unparsable input yields 0; it never fails.
func SafeFloat(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	raw = strings.ReplaceAll(raw, ",", ".")
	raw = strings.ReplaceAll(raw, " ", "")
	if isHex(raw) {
		return 0
	}
	if strings.Contains(raw, "_") {
		var ok bool
		if raw, ok = stripDigitSeparators(raw); !ok {
			return 0
		}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// ParseFloat saturates out-of-range literals to ±Inf alongside ErrRange.
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return 0
	}
	return f
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}

// stripDigitSeparators drops underscores that sit between two digits. Any
// other underscore makes the input invalid.
func stripDigitSeparators(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			b.WriteByte(s[i])
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", false
		}
	}
	return b.String(), true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// ParseAmount is SafeFloat for optional cells: blank input is absent.
func ParseAmount(raw string) model.Amount {
	if strings.TrimSpace(raw) == "" {
		return model.Amount{}
	}
	return model.Amount{Value: SafeFloat(raw), Valid: true}
}

// ParseInvoice builds the typed record the classifier works on.
func ParseInvoice(row model.Row) model.Invoice {
	return model.Invoice{
		Residence:       row[model.ColumnResidence],
		Concept:         row[model.ColumnConcept],
		Disbursements:   ParseAmount(row[model.ColumnDisbursements]),
		Withholding:     ParseAmount(row[model.ColumnWithholding]),
		WithholdingRate: ParseAmount(row[model.ColumnWithholdingRate]),
		Base2:           ParseAmount(row[model.ColumnBase2]),
		Base3:           ParseAmount(row[model.ColumnBase3]),
		VATRates: [3]model.Amount{
			ParseAmount(row[model.ColumnVAT1]),
			ParseAmount(row[model.ColumnVAT2]),
			ParseAmount(row[model.ColumnVAT3]),
		},
	}
}
