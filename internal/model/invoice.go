package model

// Column names used by the invoice exports this tool consumes.
const (
	ColumnResidence       = "Residencia"
	ColumnConcept         = "Concepto"
	ColumnDisbursements   = "Suplidos"
	ColumnWithholding     = "Retención"
	ColumnWithholdingRate = "% Retención"
	ColumnBase2           = "Base 2"
	ColumnBase3           = "Base 3"
	ColumnVAT1            = "% IVA 1"
	ColumnVAT2            = "% IVA 2"
	ColumnVAT3            = "% IVA 3"

	// ColumnCategory is the derived label column. It never appears in output.
	ColumnCategory = "Pestaña"
)

// NumericColumns lists the columns coerced to numbers before classification.
var NumericColumns = []string{
	ColumnDisbursements,
	ColumnWithholding,
	ColumnWithholdingRate,
	ColumnBase2,
	ColumnBase3,
	ColumnVAT1,
	ColumnVAT2,
	ColumnVAT3,
}

// IsNumericColumn reports whether name is one of NumericColumns.
func IsNumericColumn(name string) bool {
	for _, c := range NumericColumns {
		if c == name {
			return true
		}
	}
	return false
}

// Row is a single spreadsheet line keyed by header. Missing keys are
// missing columns.
type Row map[string]string

// Amount is an optional numeric cell. The zero value is an absent cell.
type Amount struct {
	Value float64
	Valid bool
}

// Float returns the amount, or 0 when the cell was absent.
func (a Amount) Float() float64 {
	if !a.Valid {
		return 0
	}
	return a.Value
}

// Invoice is the typed view of a Row that the classifier works on.
type Invoice struct {
	Residence       string
	Concept         string
	Disbursements   Amount
	Withholding     Amount
	WithholdingRate Amount
	Base2           Amount
	Base3           Amount
	VATRates        [3]Amount
}
