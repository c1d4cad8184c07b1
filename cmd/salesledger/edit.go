package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"salesledger/internal/calendar"
	"salesledger/internal/core"
)

var dayFlags struct {
	revenue, investment, scheduledRevenue                       string
	sales, scheduledSales, paidSales, remarketing, firstContact int
}

var setDayCmd = &cobra.Command{
	Use:   "set-day YYYY-MM DAY",
	Short: "Set one day's entry",
	Long: `Set the entry of one day. Only the flags given change; the other
fields keep their stored values. Amounts accept "1234.56", "1.234,56" or
"R$ 1.234,56".

Examples:
  salesledger set-day 2025-03 5 --revenue 1000 --investment 200
  salesledger set-day 2025-03 6 --scheduled-revenue 400 --scheduled-sales 2`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		month, year, err := calendar.ParseMonthKey(args[0])
		if err != nil {
			return err
		}
		day, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: %q", core.ErrInvalidDay, args[1])
		}

		if !calendar.ValidDay(month, year, day) {
			return fmt.Errorf("%w: %d not in 1..%d", core.ErrInvalidDay, day, calendar.DaysInMonth(month, year))
		}

		ctx := cmd.Context()
		current, err := rt.Service.GetMonth(ctx, user, month, year)
		if err != nil {
			return err
		}
		existing, _ := current.Day(day)

		entry, err := applyDayFlags(cmd.Flags(), existing)
		if err != nil {
			return err
		}
		r, err := rt.Service.UpdateDay(ctx, user, month, year, day, entry)
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "%s Day %s saved. Month revenue %s, net profit %s\n",
			green("✓"), r.ISODate(day),
			core.FormatAmount(r.Totals().TotalRevenue),
			core.FormatAmount(r.Totals().NetProfit))
		return nil
	},
}

var setTaxCmd = &cobra.Command{
	Use:   "set-tax YYYY-MM PERCENT",
	Short: "Set the month's tax percentage (0-100)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		month, year, err := calendar.ParseMonthKey(args[0])
		if err != nil {
			return err
		}
		pct, err := core.ParsePercentage(args[1])
		if err != nil {
			return fmt.Errorf("%w: %q", err, args[1])
		}
		r, err := rt.Service.UpdateTaxPercentage(cmd.Context(), user, month, year, pct)
		if err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "%s Tax for %s set to %s%%. Tax paid %s, net profit %s\n",
			green("✓"), r.Key(), pct.String(),
			core.FormatAmount(r.Totals().TotalTaxPaid),
			core.FormatAmount(r.Totals().NetProfit))
		return nil
	},
}

var setActiveCmd = &cobra.Command{
	Use:   "set-active YYYY-MM DAYS",
	Short: "Set how many days were worked in the month",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		month, year, err := calendar.ParseMonthKey(args[0])
		if err != nil {
			return err
		}
		days, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: %q", core.ErrInvalidDaysActive, args[1])
		}
		r, err := rt.Service.UpdateDaysActive(cmd.Context(), user, month, year, days)
		if err != nil {
			return err
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d active days\n", green("✓"), r.Key(), r.DaysActive())
		return nil
	},
}

func init() {
	f := setDayCmd.Flags()
	f.StringVar(&dayFlags.revenue, "revenue", "", "Revenue of the day")
	f.StringVar(&dayFlags.investment, "investment", "", "Ad/marketing spend of the day")
	f.StringVar(&dayFlags.scheduledRevenue, "scheduled-revenue", "", "Revenue of sales scheduled that day")
	f.IntVar(&dayFlags.sales, "sales", 0, "Sales closed")
	f.IntVar(&dayFlags.scheduledSales, "scheduled-sales", 0, "Sales scheduled")
	f.IntVar(&dayFlags.paidSales, "paid", 0, "Paid sales")
	f.IntVar(&dayFlags.remarketing, "remarketing", 0, "Remarketing contacts")
	f.IntVar(&dayFlags.firstContact, "first-contact", 0, "First contacts")
}

// applyDayFlags overlays the flags the user set on top of e.
func applyDayFlags(flags *pflag.FlagSet, e core.DailyEntry) (core.DailyEntry, error) {
	amounts := []struct {
		flag string
		raw  string
		dst  *decimal.Decimal
	}{
		{"revenue", dayFlags.revenue, &e.Revenue},
		{"investment", dayFlags.investment, &e.Investment},
		{"scheduled-revenue", dayFlags.scheduledRevenue, &e.ScheduledRevenue},
	}
	for _, a := range amounts {
		if !flags.Changed(a.flag) {
			continue
		}
		v, err := core.ParseAmount(a.raw)
		if err != nil {
			return e, fmt.Errorf("--%s %q: %w", a.flag, a.raw, err)
		}
		*a.dst = v
	}

	counters := []struct {
		flag string
		src  int
		dst  *int
	}{
		{"sales", dayFlags.sales, &e.SalesCount},
		{"scheduled-sales", dayFlags.scheduledSales, &e.ScheduledSales},
		{"paid", dayFlags.paidSales, &e.PaidSales},
		{"remarketing", dayFlags.remarketing, &e.Remarketing},
		{"first-contact", dayFlags.firstContact, &e.FirstContact},
	}
	for _, c := range counters {
		if flags.Changed(c.flag) {
			*c.dst = c.src
		}
	}
	return e, e.Validate()
}
