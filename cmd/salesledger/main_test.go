package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"salesledger/internal/calendar"
	"salesledger/internal/core"
)

func TestMonthArg(t *testing.T) {
	now := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)

	m, y, err := monthArg(nil, now)
	if err != nil || m != 7 || y != 2025 {
		t.Fatalf("default month = %d/%d, %v", m, y, err)
	}
	m, y, err = monthArg([]string{"2024-02"}, now)
	if err != nil || m != 2 || y != 2024 {
		t.Fatalf("explicit month = %d/%d, %v", m, y, err)
	}
	if _, _, err := monthArg([]string{"2024-13"}, now); !errors.Is(err, calendar.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestApplyDayFlagsOnlyChangesGivenFlags(t *testing.T) {
	flags := setDayCmd.Flags()
	t.Cleanup(func() {
		flags.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	})
	if err := flags.Parse([]string{"--revenue", "1.234,50", "--paid", "3"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	existing := core.DailyEntry{Investment: decimal.NewFromInt(200), SalesCount: 7}
	got, err := applyDayFlags(flags, existing)
	if err != nil {
		t.Fatalf("applyDayFlags: %v", err)
	}
	if !got.Revenue.Equal(decimal.RequireFromString("1234.5")) || got.PaidSales != 3 {
		t.Fatalf("flags not applied: %+v", got)
	}
	if !got.Investment.Equal(decimal.NewFromInt(200)) || got.SalesCount != 7 {
		t.Fatalf("untouched fields changed: %+v", got)
	}
}

func TestRenderMonthHidesIdleDays(t *testing.T) {
	r, _ := core.NewMonthRecord(3, 2025)
	r, _ = r.WithDay(5, core.DailyEntry{Revenue: decimal.NewFromInt(1000), Investment: decimal.NewFromInt(200)})

	var buf bytes.Buffer
	renderMonth(&buf, r, false)
	out := buf.String()
	if !strings.Contains(out, "R$ 1.000,00") || !strings.Contains(out, "R$ 800,00") {
		t.Fatalf("totals missing from output:\n%s", out)
	}
	if strings.Count(out, "R$ 0,00") > 8 {
		t.Fatalf("idle days rendered:\n%s", out)
	}
}
