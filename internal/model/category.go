package model

// Category is the accounting bucket an invoice line is filed under. The
// label doubles as the output sheet name, so the values are kept exactly as
// the A3 import templates spell them.
type Category string

const (
	// CategoryTwoBases holds domestic invoices with a second or third taxable base.
	CategoryTwoBases Category = "2 Bases"
	// CategoryDisbursements holds domestic invoices carrying reimbursed third-party amounts.
	CategoryDisbursements Category = "Suplidos"
	// CategoryWithholding holds domestic invoices with a withholding amount or rate.
	CategoryWithholding Category = "Con Retención"
	// CategoryStandardVAT holds domestic invoices at the 21% or 10% VAT rates.
	CategoryStandardVAT Category = "IVA 21 & 10"
	// CategoryZeroVAT holds domestic invoices at 0% VAT.
	CategoryZeroVAT Category = "IVA 0%"
	// CategoryUnusualVAT holds domestic invoices at any other VAT rate.
	CategoryUnusualVAT Category = "IVA EXTRAÑO"
	// CategoryUnclassified is the catch-all bucket.
	CategoryUnclassified Category = "No Clasificadas"
	// CategorySubcontractors holds EU subcontracting invoices.
	CategorySubcontractors Category = "SUBCONTRATAS"
	// CategoryForeignZeroVAT holds foreign invoices and EU invoices at 0% VAT.
	CategoryForeignZeroVAT Category = "Extranjero y subcontratas 0% IVA"
)

var categories = []Category{
	CategoryTwoBases,
	CategoryDisbursements,
	CategoryWithholding,
	CategoryStandardVAT,
	CategoryZeroVAT,
	CategoryUnusualVAT,
	CategoryUnclassified,
	CategorySubcontractors,
	CategoryForeignZeroVAT,
}

// Categories returns every category in canonical order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// SheetName returns the label cut to at most limit runes. A non-positive
// limit disables truncation.
func (c Category) SheetName(limit int) string {
	runes := []rune(string(c))
	if limit <= 0 || len(runes) <= limit {
		return string(c)
	}
	return string(runes[:limit])
}
