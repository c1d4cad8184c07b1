package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"salesledger/internal/core"
	"salesledger/internal/mirror"
)

var registerName string

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register the user in the remote Users sheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		out := rt.Syncer.RegisterUser(cmd.Context(), user, registerName)
		return reportOutcome(cmd, "Registered "+user, out)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync [YYYY-MM]",
	Short: "Mirror every day with activity of a month to the remote sheet",
	Long: `Append one DailySales row per day with revenue, investment or scheduled
revenue. Rows are not deduplicated: running sync twice appends twice.`,
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
		if !rt.Syncer.Connected() {
			return fmt.Errorf("%s: set GOOGLE_SPREADSHEET_ID and credentials", mirror.ReasonNotConfigured)
		}
		sum, err := rt.Service.SyncMonth(cmd.Context(), user, month, year)
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "%d attempted, %s mirrored, %s failed, %d skipped\n",
			sum.Attempted, green(sum.Succeeded), red(sum.Failed), sum.Skipped)
		if sum.Failed > 0 {
			return fmt.Errorf("%d days were not mirrored, see logs", sum.Failed)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the remote spreadsheet connection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		cfg := rt.Config
		fmt.Fprintf(w, "%-14s %s (namespace %s)\n", "Backend:", cfg.DataBackend, cfg.LedgerNamespace)
		fmt.Fprintf(w, "%-14s %s\n", "Mirror mode:", cfg.MirrorMode)

		if !rt.Syncer.Connected() {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Fprintf(w, "%-14s %s\n", "Remote:", yellow(mirror.ReasonNotConfigured))
			return nil
		}
		if rt.Syncer.TestConnection(cmd.Context()) {
			fmt.Fprintf(w, "%-14s %s\n", "Remote:", color.GreenString("connected (%s)", cfg.GoogleSpreadsheetID))
			return nil
		}
		fmt.Fprintf(w, "%-14s %s\n", "Remote:", color.RedString("unreachable (%s)", cfg.GoogleSpreadsheetID))
		return fmt.Errorf("remote connection test failed")
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the user's rows in the remote DailySales sheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requireUser()
		if err != nil {
			return err
		}
		rows := rt.Syncer.LoadHistory(cmd.Context(), user)
		if len(rows) == 0 {
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Fprintf(cmd.OutOrStdout(), "%s No remote rows found.\n", yellow("⚠"))
			return nil
		}
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Date", "Revenue", "Investment", "Scheduled", "Net", "Margin %", "Paid"})
		table.SetBorder(false)
		for _, r := range rows {
			table.Append([]string{
				r.Date,
				core.FormatAmount(r.Revenue),
				core.FormatAmount(r.Investment),
				core.FormatAmount(r.ScheduledRevenue),
				core.FormatAmount(r.NetProfit),
				r.MarginPercent.StringFixed(2),
				fmt.Sprint(r.PaidSales),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVarP(&registerName, "name", "n", "", "Display name (defaults to the email local part)")
}

func reportOutcome(cmd *cobra.Command, success string, out mirror.Outcome) error {
	if !out.OK {
		return fmt.Errorf("remote: %s", out.Reason)
	}
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("✓"), success)
	return nil
}
