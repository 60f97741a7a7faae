package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/facturas/internal/cli"
	"github.com/Veraticus/facturas/internal/common"
	"github.com/Veraticus/facturas/internal/config"
	"github.com/Veraticus/facturas/internal/engine"
	"github.com/Veraticus/facturas/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <export.xlsx>",
		Short: "Classify an invoice export into a multi-sheet workbook",
		Long: `Read the invoice export, file every line under its accounting category and
write one sheet per category. The first two rows of the export are a title
block; the header is on row 3.`,
		Args: cobra.ExactArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().StringP("output", "o", "", "output workbook (default: clasificado_para_importar.xlsx)")
	cmd.Flags().String("sheet", "", "input worksheet (default: first sheet)")
	cmd.Flags().Int("preamble-rows", 2, "title rows above the header")
	cmd.Flags().Bool("dry-run", false, "show the summary without writing the workbook")
	cmd.Flags().Bool("publish", false, "also publish the result to Google Sheets")
	cmd.Flags().Bool("progress", true, "show a progress bar")

	_ = viper.BindPFlag("output.path", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("input.sheet", cmd.Flags().Lookup("sheet"))
	_ = viper.BindPFlag("input.preamble_rows", cmd.Flags().Lookup("preamble-rows"))
	_ = viper.BindPFlag("classify.dry_run", cmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("classify.publish", cmd.Flags().Lookup("publish"))
	_ = viper.BindPFlag("classify.progress", cmd.Flags().Lookup("progress"))

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	inputPath := config.ExpandPath(args[0])
	input, err := os.Open(inputPath)
	if err != nil {
		return common.NewUserError("cannot open input file", err)
	}
	defer func() { _ = input.Close() }()

	var opts []engine.Option
	if viper.GetBool("classify.progress") {
		opts = append(opts, engine.WithProgress(cli.NewProgress(cmd.ErrOrStderr())))
	}
	processor := engine.New(cfg.Engine(), slog.Default(), opts...)

	slog.Info(cli.FormatTitle("Classifying invoices"), "file", filepath.Base(inputPath))

	result, err := processor.Process(ctx, input)
	switch {
	case errors.Is(err, common.ErrEmptyInput):
		slog.Warn(cli.FormatWarning("The file is empty or has no data from row 3 onwards"), "file", inputPath)
		return common.NewUserError("nothing to classify", err)
	case errors.Is(err, common.ErrParse):
		return common.NewUserError("cannot read the Excel file", err)
	case err != nil:
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderSummary(
		fmt.Sprintf("%s → %s", filepath.Base(inputPath), cli.Plural(len(result.Summary()), "sheet", "sheets")),
		result.Summary(),
	))

	if viper.GetBool("classify.dry_run") {
		slog.Info(cli.FormatWarning("Dry run mode - not writing the workbook"))
		return nil
	}

	if err := writeOutput(cfg.Output.Path, result); err != nil {
		return err
	}
	slog.Info(cli.FormatSuccess("Workbook written"), "path", cfg.Output.Path)

	if viper.GetBool("classify.publish") {
		return publish(cmd, cfg, result)
	}
	return nil
}

func writeOutput(path string, result *engine.Result) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return common.NewUserError("cannot create output directory", err)
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return common.NewUserError("cannot create output file", err)
	}

	if _, err := result.Output.WriteTo(out); err != nil {
		_ = out.Close()
		return common.NewUserError("cannot write output file", err)
	}
	if err := out.Close(); err != nil {
		return common.NewUserError("cannot write output file", err)
	}
	return nil
}

func publish(cmd *cobra.Command, cfg *config.Config, result *engine.Result) error {
	ctx := cmd.Context()

	sheetsCfg, err := config.LoadSheets(viper.GetViper())
	if err != nil {
		return common.NewUserError("Google Sheets is not configured", err)
	}

	publisher, err := sheets.NewPublisher(ctx, *sheetsCfg, slog.Default())
	if err != nil {
		return common.NewUserError("cannot connect to Google Sheets", err)
	}

	pub, err := publisher.Publish(ctx, result.Dataset.Sheets(cfg.Output.MaxSheetName))
	if err != nil {
		return common.NewUserError("cannot publish to Google Sheets", err)
	}

	slog.Info(cli.FormatSuccess("Published to Google Sheets"), "url", pub.URL, "rows", pub.Rows)
	return nil
}
