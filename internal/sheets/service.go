package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// api is the subset of the Sheets API the publisher needs.
type api interface {
	Get(ctx context.Context, spreadsheetID string) (*sheets.Spreadsheet, error)
	Create(ctx context.Context, spreadsheet *sheets.Spreadsheet) (*sheets.Spreadsheet, error)
	AddSheets(ctx context.Context, spreadsheetID string, titles []string) error
	Clear(ctx context.Context, spreadsheetID, rng string) error
	Update(ctx context.Context, spreadsheetID, rng string, values [][]any) error
}

type googleAPI struct {
	srv *sheets.Service
}

// newGoogleAPI creates a Google Sheets API client from the configured
// credentials.
func newGoogleAPI(ctx context.Context, config Config) (*googleAPI, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return &googleAPI{srv: srv}, nil
}

func (g *googleAPI) Get(ctx context.Context, spreadsheetID string) (*sheets.Spreadsheet, error) {
	return g.srv.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
}

func (g *googleAPI) Create(ctx context.Context, spreadsheet *sheets.Spreadsheet) (*sheets.Spreadsheet, error) {
	return g.srv.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
}

func (g *googleAPI) AddSheets(ctx context.Context, spreadsheetID string, titles []string) error {
	requests := make([]*sheets.Request, len(titles))
	for i, title := range titles {
		requests[i] = &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}
	}

	_, err := g.srv.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}

func (g *googleAPI) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := g.srv.Spreadsheets.Values.Clear(spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (g *googleAPI) Update(ctx context.Context, spreadsheetID, rng string, values [][]any) error {
	_, err := g.srv.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}
