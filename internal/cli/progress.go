package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/facturas/internal/engine"
	"github.com/schollz/progressbar/v3"
)

// NewProgress returns a progress callback drawing a bar on w. The bar is
// created lazily once the row total is known.
func NewProgress(w io.Writer) engine.ProgressFunc {
	var bar *progressbar.ProgressBar

	return func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("[cyan][bold]Classifying invoices...[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					if _, err := fmt.Fprintln(w); err != nil {
						slog.Warn("Failed to write newline after progress bar", "error", err)
					}
				}),
			)
		}
		if err := bar.Set(done); err != nil {
			slog.Debug("Failed to update progress bar", "error", err)
		}
	}
}
