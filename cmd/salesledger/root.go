package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"salesledger/internal/calendar"
	"salesledger/internal/cli"
	"salesledger/internal/config"
)

var (
	userFlag string
	rt       *cli.Runtime
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "salesledger",
	Short: "Daily sales ledger with monthly aggregates",
	Long: `salesledger keeps a per-user ledger of daily sales, spend and funnel
counters, derives monthly totals (profit, tax, projected profit) and mirrors
daily rows to a Google Sheets spreadsheet in the background.

Examples:
  salesledger show 2025-03 --user ana@example.com
  salesledger set-day 2025-03 5 --revenue 1000 --investment 200
  salesledger set-tax 2025-03 10
  salesledger sync 2025-03
  salesledger export 2025-03 -o march.xlsx`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cli.LoadEnvFile()
		cfg := config.Load()
		logger = cli.SetupLogger("cli", cfg.LogLevel, cfg.LogFormat)
		if err := cfg.Validate(); err != nil {
			return err
		}
		if userFlag == "" {
			userFlag = cfg.LedgerUser
		}

		var err error
		rt, err = cli.NewRuntime(cmd.Context(), logger, cfg)
		return err
	},
}

// Execute runs the root command
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	if cerr := closeRuntime(); cerr != nil && logger != nil {
		logger.Warn("Shutdown incomplete", "error", cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// closeRuntime lets queued mirror jobs finish before the process exits.
func closeRuntime() error {
	if rt == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), rt.Config.MirrorTimeout+5*time.Second)
	defer cancel()
	return rt.Close(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "User id (email); defaults to LEDGER_USER")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(monthsCmd)
	rootCmd.AddCommand(setDayCmd)
	rootCmd.AddCommand(setTaxCmd)
	rootCmd.AddCommand(setActiveCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
}

// requireUser returns the user id or an error telling how to set it.
func requireUser() (string, error) {
	u := strings.TrimSpace(userFlag)
	if u == "" {
		return "", fmt.Errorf("no user: pass --user or set LEDGER_USER")
	}
	return u, nil
}

// monthArg parses an optional YYYY-MM argument, defaulting to the current month.
func monthArg(args []string, now time.Time) (month, year int, err error) {
	if len(args) == 0 || args[0] == "" {
		return int(now.Month()), now.Year(), nil
	}
	return calendar.ParseMonthKey(args[0])
}
