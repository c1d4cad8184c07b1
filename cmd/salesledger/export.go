package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"salesledger/internal/export"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export [YYYY-MM]",
	Short: "Export a month to an .xlsx workbook",
	Long: `Write the month's daily entries and totals to an Excel workbook.

Examples:
  salesledger export 2025-03
  salesledger export 2025-03 -o march.xlsx`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		month, year, err := monthArg(args, time.Now())
		if err != nil {
			return err
		}
		r, err := rt.Service.GetMonth(cmd.Context(), user, month, year)
		if err != nil {
			return err
		}

		path := exportOutput
		if path == "" {
			path = fmt.Sprintf("salesledger-%s.xlsx", r.Key())
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := export.WriteMonthXLSX(f, user, r); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", r.Key(), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default salesledger-YYYY-MM.xlsx)")
}
