package engine

import (
	"github.com/Veraticus/facturas/internal/classification"
	"github.com/Veraticus/facturas/internal/model"
)

// Classifier defines the contract for row categorization.
type Classifier interface {
	Classify(row model.Row) model.Category
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(row model.Row) model.Category

// Classify implements Classifier.
func (f ClassifierFunc) Classify(row model.Row) model.Category {
	return f(row)
}

// RuleClassifier is the fixed A3 decision tree.
var RuleClassifier Classifier = ClassifierFunc(classification.ClassifyRow)

// ProgressFunc is called after each row is classified.
type ProgressFunc func(done, total int)
