// Package engine turns an invoice export into the multi-sheet workbook the
// accounting import expects.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/facturas/internal/classification"
	"github.com/Veraticus/facturas/internal/common"
	"github.com/Veraticus/facturas/internal/model"
	"github.com/Veraticus/facturas/internal/spreadsheet"
)

// ctxCheckInterval is how many rows are classified between context checks.
const ctxCheckInterval = 256

// Config holds configuration options for the processor.
type Config struct {
	// Sheet is the input worksheet; empty means the first one.
	Sheet string
	// PreambleRows are skipped above the header row.
	PreambleRows int
	// MaxSheetName truncates output sheet names, counted in runes.
	MaxSheetName int
}

// DefaultConfig returns the layout of the invoicing system's export.
func DefaultConfig() Config {
	return Config{
		PreambleRows: spreadsheet.DefaultPreambleRows,
		MaxSheetName: spreadsheet.MaxSheetNameLength,
	}
}

// Processor classifies workbooks. It holds no per-file state, so one
// Processor may serve many files, including concurrently, as long as the
// progress callback tolerates it.
type Processor struct {
	classifier Classifier
	logger     *slog.Logger
	progress   ProgressFunc
	config     Config
}

// Option customizes a Processor.
type Option func(*Processor)

// WithClassifier replaces the rule classifier.
func WithClassifier(c Classifier) Option {
	return func(p *Processor) { p.classifier = c }
}

// WithProgress registers a per-row progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Processor) { p.progress = fn }
}

// New creates a processor. A nil logger discards output.
func New(config Config, logger *slog.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.MaxSheetName <= 0 || config.MaxSheetName > spreadsheet.MaxSheetNameLength {
		config.MaxSheetName = spreadsheet.MaxSheetNameLength
	}

	p := &Processor{
		classifier: RuleClassifier,
		logger:     logger,
		config:     config,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is a processed workbook.
type Result struct {
	Dataset *Dataset
	// Output is the encoded workbook, positioned at the start.
	Output *bytes.Reader

	maxSheetName int
}

// Summary lists row counts per output sheet.
func (r *Result) Summary() []CategoryCount {
	return r.Dataset.Summary(r.maxSheetName)
}

// Process reads the export in r, classifies every row and encodes one sheet
// per category. It returns common.ErrEmptyInput when no data survives the
// preamble and empty-column removal, and a *common.ParseError when r is not
// a readable workbook.
func (p *Processor) Process(ctx context.Context, r io.Reader) (*Result, error) {
	table, err := spreadsheet.Read(r, spreadsheet.ReadOptions{
		Sheet:        p.config.Sheet,
		PreambleRows: p.config.PreambleRows,
	})
	if err != nil {
		return nil, err
	}

	table.DropEmptyColumns()

	dataset, err := p.Partition(ctx, table)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := spreadsheet.Write(&buf, dataset.Sheets(p.config.MaxSheetName)); err != nil {
		return nil, fmt.Errorf("failed to write classified workbook: %w", err)
	}

	p.logger.Info("Classified invoices",
		"rows", dataset.Len(),
		"columns", len(dataset.Columns),
		"sheets", len(dataset.Groups),
		"bytes", buf.Len())

	return &Result{
		Dataset:      dataset,
		Output:       bytes.NewReader(buf.Bytes()),
		maxSheetName: p.config.MaxSheetName,
	}, nil
}

// Partition classifies every row of table and groups the rows by category.
// Numeric columns are coerced to numbers and the label column, if the
// input carries one, is left out.
func (p *Processor) Partition(ctx context.Context, table *spreadsheet.Table) (*Dataset, error) {
	if table.Empty() {
		return nil, common.ErrEmptyInput
	}

	layout := newLayout(table.Columns)
	dataset := newDataset(layout.columns)
	total := table.Len()

	for i := range table.Rows {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		category := p.classifier.Classify(table.Row(i))
		dataset.add(category, layout.cells(table.Rows[i]))

		if p.progress != nil {
			p.progress(i+1, total)
		}
	}

	for _, g := range dataset.Groups {
		common.LogDebug(p.logger, "Category group", common.Fields{"category": g.Category, "rows": len(g.Rows)})
	}

	return dataset, nil
}

// layout maps input columns to output cells.
type layout struct {
	columns []string
	source  []int
	numeric []bool
}

func newLayout(columns []string) layout {
	l := layout{}
	for j, name := range columns {
		if name == model.ColumnCategory {
			continue
		}
		l.columns = append(l.columns, name)
		l.source = append(l.source, j)
		l.numeric = append(l.numeric, model.IsNumericColumn(name))
	}
	return l
}

func (l layout) cells(row []string) []any {
	out := make([]any, len(l.source))
	for k, j := range l.source {
		raw := row[j]
		switch {
		case raw == "":
			out[k] = nil
		case l.numeric[k]:
			out[k] = classification.SafeFloat(raw)
		default:
			out[k] = raw
		}
	}
	return out
}
