package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"salesledger/internal/core"
)

var showAll bool

var showCmd = &cobra.Command{
	Use:   "show [YYYY-MM]",
	Short: "Show a month's daily entries and totals",
	Long: `Show the daily entries and derived totals of a month. Days with no
activity are hidden unless --all is given.

Examples:
  salesledger show
  salesledger show 2025-03 --all`,
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
		renderMonth(cmd.OutOrStdout(), r, showAll)
		return nil
	},
}

var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "List stored months with their headline totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		months := rt.Service.ListMonths(cmd.Context(), user)
		if len(months) == 0 {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Fprintf(cmd.OutOrStdout(), "%s No months stored.\n", yellow("⚠"))
			return nil
		}
		renderMonths(cmd.OutOrStdout(), months)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVarP(&showAll, "all", "a", false, "Include days with no activity")
}

func hasActivity(e core.DailyEntry) bool {
	return e.HasMonetaryActivity() || e.SalesCount+e.ScheduledSales+e.PaidSales+e.Remarketing+e.FirstContact > 0
}

func renderMonth(w io.Writer, r core.MonthRecord, all bool) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s\n\n", cyan("Month "+r.Key()))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Day", "Revenue", "Investment", "Scheduled", "Sales", "Sched.", "Paid", "Remkt", "1st contact"})
	table.SetBorder(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})
	rows := 0
	for _, d := range r.Days() {
		e := d.Entry
		if !all && !hasActivity(e) {
			continue
		}
		rows++
		table.Append([]string{
			strconv.Itoa(d.Day),
			core.FormatAmount(e.Revenue),
			core.FormatAmount(e.Investment),
			core.FormatAmount(e.ScheduledRevenue),
			strconv.Itoa(e.SalesCount),
			strconv.Itoa(e.ScheduledSales),
			strconv.Itoa(e.PaidSales),
			strconv.Itoa(e.Remarketing),
			strconv.Itoa(e.FirstContact),
		})
	}
	if rows > 0 {
		table.Render()
	} else {
		fmt.Fprintln(w, "No activity recorded.")
	}

	renderTotals(w, r)
}

func renderTotals(w io.Writer, r core.MonthRecord) {
	t := r.Totals()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	signed := func(v string, negative bool) string {
		if negative {
			return red(v)
		}
		return green(v)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-20s %s\n", "Total revenue:", bold(core.FormatAmount(t.TotalRevenue)))
	fmt.Fprintf(w, "%-20s %s\n", "Investment:", core.FormatAmount(t.Investment))
	fmt.Fprintf(w, "%-20s %s\n", "Gross profit:", signed(core.FormatAmount(t.GrossProfit), t.GrossProfit.IsNegative()))
	fmt.Fprintf(w, "%-20s %s (%s%%)\n", "Tax paid:", core.FormatAmount(t.TotalTaxPaid), r.TaxPercentage().String())
	fmt.Fprintf(w, "%-20s %s\n", "Net profit:", signed(core.FormatAmount(t.NetProfit), t.NetProfit.IsNegative()))
	fmt.Fprintf(w, "%-20s %s%%\n", "Profit margin:", core.ProfitMargin(t).Shift(2).StringFixed(2))
	fmt.Fprintf(w, "%-20s %s\n", "Scheduled revenue:", core.FormatAmount(t.TotalScheduledRevenue))
	fmt.Fprintf(w, "%-20s %s\n", "Projected profit:", signed(core.FormatAmount(t.ProjectedProfit), t.ProjectedProfit.IsNegative()))
	fmt.Fprintf(w, "%-20s %d sales, %d scheduled, %d paid, %d remarketing, %d first contact\n", "Counters:",
		t.SalesCount, t.ScheduledSales, t.PaidSales, t.Remarketing, t.FirstContact)
	fmt.Fprintf(w, "%-20s %d\n", "Days active:", r.DaysActive())
}

func renderMonths(w io.Writer, months []core.MonthRecord) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Month", "Revenue", "Investment", "Net profit", "Projected"})
	table.SetBorder(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for _, r := range months {
		t := r.Totals()
		netColor := tablewriter.FgGreenColor
		if t.NetProfit.IsNegative() {
			netColor = tablewriter.FgRedColor
		}
		table.Rich([]string{
			r.Key(),
			core.FormatAmount(t.TotalRevenue),
			core.FormatAmount(t.Investment),
			core.FormatAmount(t.NetProfit),
			core.FormatAmount(t.ProjectedProfit),
		}, []tablewriter.Colors{
			{tablewriter.FgMagentaColor},
			{},
			{},
			{netColor},
			{},
		})
	}
	table.Render()
}
