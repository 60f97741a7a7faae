package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/Veraticus/facturas/internal/common"
	"github.com/Veraticus/facturas/internal/spreadsheet"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"
)

// Publication identifies the spreadsheet a dataset was published to.
type Publication struct {
	SpreadsheetID string
	URL           string
	Tabs          int
	Rows          int
}

// Publisher writes classified sheets to Google Sheets.
type Publisher struct {
	api    api
	logger *slog.Logger
	config Config
}

// NewPublisher creates a publisher authenticated from config.
func NewPublisher(ctx context.Context, config Config, logger *slog.Logger) (*Publisher, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client, err := newGoogleAPI(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return newPublisher(client, config, logger), nil
}

func newPublisher(client api, config Config, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	return &Publisher{api: client, config: config, logger: logger}
}

// Publish writes each sheet to a tab of the same name, replacing whatever
// the tab held before. Tabs not named in sheets are left alone.
func (p *Publisher) Publish(ctx context.Context, tabs []spreadsheet.Sheet) (*Publication, error) {
	if len(tabs) == 0 {
		return nil, spreadsheet.ErrNoSheets
	}

	p.logger.Info("Publishing to Google Sheets", "tabs", len(tabs))

	target, err := p.prepare(ctx, tabs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPublishFailed, err)
	}

	pub := &Publication{
		SpreadsheetID: target.SpreadsheetId,
		URL:           target.SpreadsheetUrl,
		Tabs:          len(tabs),
	}

	for _, tab := range tabs {
		values := tabValues(tab)
		if err := p.writeTab(ctx, target.SpreadsheetId, tab.Name, values); err != nil {
			return nil, fmt.Errorf("%w: tab %q: %v", common.ErrPublishFailed, tab.Name, err)
		}
		pub.Rows += len(tab.Rows)
	}

	p.logger.Info("Published to Google Sheets",
		"spreadsheet_id", pub.SpreadsheetID,
		"url", pub.URL,
		"rows_written", pub.Rows)

	return pub, nil
}

// prepare returns a spreadsheet that has a tab for every sheet.
func (p *Publisher) prepare(ctx context.Context, tabs []spreadsheet.Sheet) (*sheets.Spreadsheet, error) {
	if p.config.SpreadsheetID == "" {
		return p.create(ctx, tabs)
	}

	var existing *sheets.Spreadsheet
	err := p.retry(ctx, func() (err error) {
		existing, err = p.api.Get(ctx, p.config.SpreadsheetID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("unable to access spreadsheet %s: %w", p.config.SpreadsheetID, err)
	}

	have := make(map[string]bool, len(existing.Sheets))
	for _, s := range existing.Sheets {
		if s.Properties != nil {
			have[s.Properties.Title] = true
		}
	}

	var missing []string
	for _, tab := range tabs {
		if !have[tab.Name] {
			missing = append(missing, tab.Name)
		}
	}

	if len(missing) > 0 {
		err := p.retry(ctx, func() error {
			return p.api.AddSheets(ctx, existing.SpreadsheetId, missing)
		})
		if err != nil {
			return nil, fmt.Errorf("unable to add tabs: %w", err)
		}
		p.logger.Debug("Added tabs", "tabs", missing)
	}

	return existing, nil
}

func (p *Publisher) create(ctx context.Context, tabs []spreadsheet.Sheet) (*sheets.Spreadsheet, error) {
	name := p.config.SpreadsheetName
	if name == "" {
		name = DefaultSpreadsheetName
	}

	request := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    name,
			TimeZone: p.config.TimeZone,
		},
	}
	for _, tab := range tabs {
		request.Sheets = append(request.Sheets, &sheets.Sheet{
			Properties: &sheets.SheetProperties{Title: tab.Name},
		})
	}

	var created *sheets.Spreadsheet
	err := p.retry(ctx, func() (err error) {
		created, err = p.api.Create(ctx, request)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	p.logger.Info("Created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created, nil
}

func (p *Publisher) writeTab(ctx context.Context, spreadsheetID, tab string, values [][]any) error {
	err := p.retry(ctx, func() error {
		return p.api.Clear(ctx, spreadsheetID, quoteTab(tab))
	})
	if err != nil {
		return fmt.Errorf("failed to clear: %w", err)
	}

	for i := 0; i < len(values); i += p.config.BatchSize {
		end := min(i+p.config.BatchSize, len(values))
		batch := values[i:end]
		rng := fmt.Sprintf("%s!A%d", quoteTab(tab), i+1)

		err := p.retry(ctx, func() error {
			return p.api.Update(ctx, spreadsheetID, rng, batch)
		})
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		p.logger.Debug("Wrote batch", "tab", tab, "start_row", i+1, "rows", len(batch))
	}

	return nil
}

func (p *Publisher) retry(ctx context.Context, op func() error) error {
	return common.WithRetry(ctx, func() error {
		return classifyAPIError(op())
	}, common.RetryOptions{
		MaxAttempts:  max(p.config.RetryAttempts, 1),
		InitialDelay: p.config.RetryDelay,
		Multiplier:   2.0,
	})
}

// classifyAPIError marks client errors as permanent and rate limits as such.
func classifyAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", common.ErrRateLimit, err)
	case apiErr.Code >= 400 && apiErr.Code < 500:
		return &common.RetryableError{Err: err, Retryable: false}
	default:
		return err
	}
}

// tabValues renders a sheet as API values: header first, blanks as empty
// strings, and non-finite numbers as text since JSON cannot carry them.
func tabValues(tab spreadsheet.Sheet) [][]any {
	values := make([][]any, 0, len(tab.Rows)+1)

	header := make([]any, len(tab.Columns))
	for i, c := range tab.Columns {
		header[i] = c
	}
	values = append(values, header)

	for _, row := range tab.Rows {
		out := make([]any, len(row))
		for i, v := range row {
			switch x := v.(type) {
			case nil:
				out[i] = ""
			case float64:
				if math.IsNaN(x) || math.IsInf(x, 0) {
					out[i] = strconv.FormatFloat(x, 'g', -1, 64)
				} else {
					out[i] = x
				}
			default:
				out[i] = v
			}
		}
		values = append(values, out)
	}
	return values
}

// quoteTab quotes a tab title for A1 notation.
func quoteTab(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
