package main

import (
	"fmt"

	"github.com/Veraticus/facturas/internal/cli"
	"github.com/Veraticus/facturas/internal/model"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the accounting categories",
		Long:  `Display every category an invoice line can be filed under, with the sheet name used in the output workbook.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderCategories(model.Categories(), cfg.Output.MaxSheetName))
			return nil
		},
	}
}
