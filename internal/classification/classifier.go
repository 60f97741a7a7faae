// Package classification maps invoice lines to A3 import categories.
//
// The rules form a short decision tree evaluated top to bottom; the first
// rule that matches decides the category. Later rules are never consulted
// for a row once an earlier one has matched.
package classification

import (
	"strings"

	"github.com/Veraticus/facturas/internal/model"
)

// VAT rates the domestic rules key on.
const (
	standardVAT = 21
	reducedVAT  = 10
	zeroVAT     = 0
)

// ClassifyRow parses row and classifies it.
func ClassifyRow(row model.Row) model.Category {
	return Classify(ParseInvoice(row))
}

// Classify returns the category for inv. It is total: every invoice gets
// exactly one category.
func Classify(inv model.Invoice) model.Category {
	residence := strings.ToLower(strings.TrimSpace(inv.Residence))
	concept := strings.ToLower(strings.TrimSpace(inv.Concept))
	rates := [3]float64{
		inv.VATRates[0].Float(),
		inv.VATRates[1].Float(),
		inv.VATRates[2].Float(),
	}

	domestic := strings.Contains(residence, "nacional")
	eu := strings.Contains(residence, "ue")
	subcontract := strings.Contains(concept, "subcontrat")

	switch {
	case domestic:
		return classifyDomestic(inv, rates)
	case eu && subcontract:
		return model.CategorySubcontractors
	case eu && !subcontract:
		if anyRate(rates, isZero) {
			return model.CategoryForeignZeroVAT
		}
		return model.CategoryUnclassified
	case !domestic && !eu:
		return model.CategoryForeignZeroVAT
	}

	return model.CategoryUnclassified
}

func classifyDomestic(inv model.Invoice, rates [3]float64) model.Category {
	if inv.Base2.Float() != 0 || inv.Base3.Float() != 0 {
		return model.CategoryTwoBases
	}

	if inv.Disbursements.Float() != 0 {
		return model.CategoryDisbursements
	}

	if inv.Withholding.Float() != 0 || inv.WithholdingRate.Float() != 0 {
		return model.CategoryWithholding
	}

	if anyRate(rates, isStandard) {
		return model.CategoryStandardVAT
	}

	if anyRate(rates, isZero) {
		return model.CategoryZeroVAT
	}

	// Known anomaly: the "and not zero" half is redundant after the zero
	// check above. Kept as-is so results match the import sheets already
	// filed by accounting.
	if anyRate(rates, func(r float64) bool { return !isKnown(r) && r != zeroVAT }) {
		return model.CategoryUnusualVAT
	}

	return model.CategoryUnclassified
}

func anyRate(rates [3]float64, pred func(float64) bool) bool {
	for _, r := range rates {
		if pred(r) {
			return true
		}
	}
	return false
}

func isZero(r float64) bool { return r == zeroVAT }

func isStandard(r float64) bool { return r == standardVAT || r == reducedVAT }

func isKnown(r float64) bool { return r == zeroVAT || r == reducedVAT || r == standardVAT }
