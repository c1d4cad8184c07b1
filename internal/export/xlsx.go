// Package export writes ledger months as spreadsheet files.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"salesledger/internal/core"
)

const (
	DailySheet   = "Daily"
	SummarySheet = "Summary"
)

var dailyHeader = []any{"Date", "Revenue", "Investment", "Scheduled revenue", "Sales",
	"Scheduled sales", "Paid sales", "Remarketing", "First contact"}

// WriteMonthXLSX writes r as a workbook with one row per day on the Daily
// sheet and the derived totals on the Summary sheet.
func WriteMonthXLSX(w io.Writer, userID string, r core.MonthRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DailySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeDaily(f, r); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	if err := writeSummary(f, userID, r); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeDaily(f *excelize.File, r core.MonthRecord) error {
	if err := setRow(f, DailySheet, 1, dailyHeader); err != nil {
		return err
	}
	for i, d := range r.Days() {
		e := d.Entry
		row := []any{
			r.ISODate(d.Day),
			e.Revenue.InexactFloat64(),
			e.Investment.InexactFloat64(),
			e.ScheduledRevenue.InexactFloat64(),
			e.SalesCount,
			e.ScheduledSales,
			e.PaidSales,
			e.Remarketing,
			e.FirstContact,
		}
		if err := setRow(f, DailySheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, userID string, r core.MonthRecord) error {
	t := r.Totals()
	rows := [][]any{
		{"User", userID},
		{"Month", r.Key()},
		{"Tax percentage", r.TaxPercentage().InexactFloat64()},
		{"Days active", r.DaysActive()},
		{"Total revenue", t.TotalRevenue.InexactFloat64()},
		{"Investment", t.Investment.InexactFloat64()},
		{"Gross profit", t.GrossProfit.InexactFloat64()},
		{"Tax paid", t.TotalTaxPaid.InexactFloat64()},
		{"Net profit", t.NetProfit.InexactFloat64()},
		{"Profit margin", core.ProfitMargin(t).Round(4).InexactFloat64()},
		{"Scheduled revenue", t.TotalScheduledRevenue.InexactFloat64()},
		{"Projected profit", t.ProjectedProfit.InexactFloat64()},
		{"Sales", t.SalesCount},
		{"Scheduled sales", t.ScheduledSales},
		{"Paid sales", t.PaidSales},
		{"Remarketing", t.Remarketing},
		{"First contact", t.FirstContact},
	}
	for i, row := range rows {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNo int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, rowNo, err)
	}
	return nil
}
