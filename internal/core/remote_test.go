package core

import (
	"testing"
	"time"
)

func TestNewDailySalesRow(t *testing.T) {
	row := NewDailySalesRow("ana@example.com", "2025-03-05", DailyEntry{
		Revenue:          dec("1000"),
		Investment:       dec("250"),
		ScheduledRevenue: dec("40"),
		PaidSales:        2,
		Remarketing:      3,
		FirstContact:     4,
	})
	if !row.NetProfit.Equal(dec("750")) {
		t.Errorf("net = %s", row.NetProfit)
	}
	if !row.MarginPercent.Equal(dec("75")) {
		t.Errorf("margin = %s", row.MarginPercent)
	}
	if row.PaidSales != 2 || row.Remarketing != 3 || row.FirstContact != 4 {
		t.Errorf("counters not copied: %+v", row)
	}
}

func TestNewDailySalesRowZeroRevenue(t *testing.T) {
	row := NewDailySalesRow("u", "2025-03-05", DailyEntry{Investment: dec("30")})
	if !row.MarginPercent.IsZero() {
		t.Errorf("margin = %s, want 0", row.MarginPercent)
	}
	if !row.NetProfit.Equal(dec("-30")) {
		t.Errorf("net = %s", row.NetProfit)
	}
}

func TestNewRemoteUserDefaultsName(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	u := NewRemoteUser("ana@example.com", "", now)
	if u.Name != "ana" || u.Email != "ana@example.com" || u.ID != "ana@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u := NewRemoteUser("ana@example.com", "Ana Souza", now); u.Name != "Ana Souza" {
		t.Fatalf("name override ignored: %+v", u)
	}
}
