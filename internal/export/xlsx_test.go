package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"salesledger/internal/core"
)

func TestWriteMonthXLSX(t *testing.T) {
	r, err := core.NewMonthRecord(2, 2024)
	if err != nil {
		t.Fatalf("NewMonthRecord: %v", err)
	}
	r, _ = r.WithDay(5, core.DailyEntry{Revenue: decimal.NewFromInt(1000), Investment: decimal.NewFromInt(200), PaidSales: 3})
	r, _ = r.WithTaxPercentage(decimal.NewFromInt(10))

	var buf bytes.Buffer
	if err := WriteMonthXLSX(&buf, "ana@example.com", r); err != nil {
		t.Fatalf("WriteMonthXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	daily, err := f.GetRows(DailySheet)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", DailySheet, err)
	}
	// header + 29 days of a leap February
	if len(daily) != 30 {
		t.Fatalf("expected 30 rows, got %d", len(daily))
	}
	if daily[5][0] != "2024-02-05" || daily[5][1] != "1000" || daily[5][6] != "3" {
		t.Fatalf("unexpected day row %v", daily[5])
	}

	summary, err := f.GetRows(SummarySheet)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", SummarySheet, err)
	}
	values := map[string]string{}
	for _, row := range summary {
		if len(row) >= 2 {
			values[row[0]] = row[1]
		}
	}
	checks := map[string]string{
		"User":         "ana@example.com",
		"Month":        "2024-02",
		"Gross profit": "800",
		"Tax paid":     "100",
		"Net profit":   "700",
		"Paid sales":   "3",
	}
	for k, want := range checks {
		if values[k] != want {
			t.Errorf("%s = %q, want %q", k, values[k], want)
		}
	}
}
