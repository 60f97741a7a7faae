// Package sheets publishes a classified dataset to Google Sheets, one tab
// per category, as an alternative to downloading the workbook.
package sheets

import (
	"fmt"
	"time"

	"github.com/Veraticus/facturas/internal/common"
)

// DefaultSpreadsheetName is the title used when a new spreadsheet is created.
const DefaultSpreadsheetName = "Facturas clasificadas"

// Config holds the configuration for the Google Sheets publisher.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	// SpreadsheetID selects an existing spreadsheet. Empty creates a new one.
	SpreadsheetID   string
	SpreadsheetName string
	TimeZone        string
	BatchSize       int
	RetryAttempts   int
	RetryDelay      time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName: DefaultSpreadsheetName,
		TimeZone:        "Europe/Madrid",
		BatchSize:       1000,
		RetryAttempts:   3,
		RetryDelay:      time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	hasOAuth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	hasServiceAccount := c.ServiceAccountPath != ""

	if !hasOAuth && !hasServiceAccount {
		return fmt.Errorf("%w: no authentication method configured", common.ErrMissingConfig)
	}

	if hasOAuth && hasServiceAccount {
		return fmt.Errorf("%w: multiple authentication methods configured; use either OAuth2 or service account", common.ErrInvalidConfig)
	}

	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive", common.ErrInvalidConfig)
	}

	if c.RetryAttempts < 0 {
		return fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig)
	}

	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig)
	}

	return nil
}
