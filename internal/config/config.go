// Package config loads application settings from viper.
//
// Keys may come from the config file, FACTURAS_ environment variables or
// bound flags. Google Sheets credentials additionally fall back to the
// GOOGLE_SHEETS_* variables.
package config

import (
	"fmt"
	"os"

	"github.com/Veraticus/facturas/internal/common"
	"github.com/Veraticus/facturas/internal/engine"
	"github.com/Veraticus/facturas/internal/sheets"
	"github.com/Veraticus/facturas/internal/spreadsheet"
	"github.com/spf13/viper"
)

// DefaultOutputPath is the file name the accounting import expects.
const DefaultOutputPath = "clasificado_para_importar.xlsx"

// Config is the full application configuration.
type Config struct {
	Logging LoggingConfig
	Input   InputConfig
	Output  OutputConfig
	Server  ServerConfig
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// InputConfig describes the layout of the invoice export.
type InputConfig struct {
	Sheet        string
	PreambleRows int
}

// OutputConfig controls the generated workbook.
type OutputConfig struct {
	Path         string
	MaxSheetName int
}

// ServerConfig controls the upload server.
type ServerConfig struct {
	Addr        string
	MaxUploadMB int64
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("input.sheet", "")
	v.SetDefault("input.preamble_rows", spreadsheet.DefaultPreambleRows)
	v.SetDefault("output.path", DefaultOutputPath)
	v.SetDefault("output.max_sheet_name", spreadsheet.MaxSheetNameLength)
	v.SetDefault("server.addr", "localhost:8501")
	v.SetDefault("server.max_upload_mb", 32)
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Input: InputConfig{
			Sheet:        v.GetString("input.sheet"),
			PreambleRows: v.GetInt("input.preamble_rows"),
		},
		Output: OutputConfig{
			Path:         ExpandPath(v.GetString("output.path")),
			MaxSheetName: v.GetInt("output.max_sheet_name"),
		},
		Server: ServerConfig{
			Addr:        v.GetString("server.addr"),
			MaxUploadMB: v.GetInt64("server.max_upload_mb"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Input.PreambleRows < 0 {
		return fmt.Errorf("%w: input.preamble_rows cannot be negative", common.ErrInvalidConfig)
	}
	if c.Output.MaxSheetName <= 0 || c.Output.MaxSheetName > spreadsheet.MaxSheetNameLength {
		return fmt.Errorf("%w: output.max_sheet_name must be between 1 and %d", common.ErrInvalidConfig, spreadsheet.MaxSheetNameLength)
	}
	if c.Output.Path == "" {
		return fmt.Errorf("%w: output.path", common.ErrMissingConfig)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("%w: server.max_upload_mb must be positive", common.ErrInvalidConfig)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// Engine returns the processor settings.
func (c *Config) Engine() engine.Config {
	return engine.Config{
		Sheet:        c.Input.Sheet,
		PreambleRows: c.Input.PreambleRows,
		MaxSheetName: c.Output.MaxSheetName,
	}
}

// LoadSheets loads Google Sheets configuration. It follows this precedence:
// 1. Viper configuration (from config file or FACTURAS_ env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Default values
func LoadSheets(v *viper.Viper) (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	cfg.ServiceAccountPath = ExpandPath(firstNonEmpty(
		v.GetString("sheets.service_account_path"),
		os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH"),
	))
	cfg.ClientID = firstNonEmpty(v.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
	cfg.ClientSecret = firstNonEmpty(v.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
	cfg.RefreshToken = firstNonEmpty(v.GetString("sheets.refresh_token"), os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN"))
	cfg.SpreadsheetID = firstNonEmpty(v.GetString("sheets.spreadsheet_id"), os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"))
	cfg.SpreadsheetName = firstNonEmpty(
		v.GetString("sheets.spreadsheet_name"),
		os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"),
		cfg.SpreadsheetName,
	)

	if v.IsSet("sheets.batch_size") {
		cfg.BatchSize = v.GetInt("sheets.batch_size")
	}
	if v.IsSet("sheets.retry_attempts") {
		cfg.RetryAttempts = v.GetInt("sheets.retry_attempts")
	}
	if v.IsSet("sheets.retry_delay") {
		cfg.RetryDelay = v.GetDuration("sheets.retry_delay")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
