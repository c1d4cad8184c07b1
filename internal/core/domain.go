package core

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"salesledger/internal/calendar"
)

type (
	// DailyEntry holds one calendar day's raw sales, spend and funnel counters.
	DailyEntry struct {
		Revenue          decimal.Decimal `json:"revenue"`
		Investment       decimal.Decimal `json:"investment"`
		SalesCount       int             `json:"salesCount"`
		ScheduledSales   int             `json:"scheduledSales"`
		PaidSales        int             `json:"paidSales"`
		Remarketing      int             `json:"remarketing"`
		FirstContact     int             `json:"firstContact"`
		ScheduledRevenue decimal.Decimal `json:"scheduledRevenue"`
	}

	// DayEntry pairs a DailyEntry with its day of month.
	DayEntry struct {
		Day   int
		Entry DailyEntry
	}

	// MonthTotals are the aggregates derived from a month's daily entries.
	MonthTotals struct {
		TotalRevenue          decimal.Decimal
		Investment            decimal.Decimal
		GrossProfit           decimal.Decimal
		TotalTaxPaid          decimal.Decimal
		NetProfit             decimal.Decimal
		TotalScheduledRevenue decimal.Decimal
		ProjectedProfit       decimal.Decimal
		SalesCount            int
		ScheduledSales        int
		PaidSales             int
		Remarketing           int
		FirstContact          int
	}

	// MonthRecord is one user's sales picture for one calendar month.
	//
	// Values are immutable from the outside: the With* methods return a
	// recomputed copy, so the totals of any MonthRecord a caller holds are
	// always consistent with its days and tax percentage.
	MonthRecord struct {
		month         int
		year          int
		taxPercentage decimal.Decimal
		daysActive    int
		days          map[int]DailyEntry
		totals        MonthTotals
	}
)

var hundred = decimal.NewFromInt(100)

// Validate rejects negative fields.
func (e DailyEntry) Validate() error {
	money := map[string]decimal.Decimal{
		"revenue":          e.Revenue,
		"investment":       e.Investment,
		"scheduledRevenue": e.ScheduledRevenue,
	}
	for name, v := range money {
		if v.IsNegative() {
			return fmt.Errorf("%w: %s=%s", ErrNegativeValue, name, v)
		}
	}
	counts := map[string]int{
		"salesCount":     e.SalesCount,
		"scheduledSales": e.ScheduledSales,
		"paidSales":      e.PaidSales,
		"remarketing":    e.Remarketing,
		"firstContact":   e.FirstContact,
	}
	for name, v := range counts {
		if v < 0 {
			return fmt.Errorf("%w: %s=%d", ErrNegativeValue, name, v)
		}
	}
	return nil
}

// HasMonetaryActivity reports whether revenue, investment or scheduled
// revenue is non-zero.
func (e DailyEntry) HasMonetaryActivity() bool {
	return !e.Revenue.IsZero() || !e.Investment.IsZero() || !e.ScheduledRevenue.IsZero()
}

// Equal compares entries by value.
func (e DailyEntry) Equal(o DailyEntry) bool {
	return e.Revenue.Equal(o.Revenue) &&
		e.Investment.Equal(o.Investment) &&
		e.ScheduledRevenue.Equal(o.ScheduledRevenue) &&
		e.SalesCount == o.SalesCount &&
		e.ScheduledSales == o.ScheduledSales &&
		e.PaidSales == o.PaidSales &&
		e.Remarketing == o.Remarketing &&
		e.FirstContact == o.FirstContact
}

// Equal compares totals by value.
func (t MonthTotals) Equal(o MonthTotals) bool {
	return t.TotalRevenue.Equal(o.TotalRevenue) &&
		t.Investment.Equal(o.Investment) &&
		t.GrossProfit.Equal(o.GrossProfit) &&
		t.TotalTaxPaid.Equal(o.TotalTaxPaid) &&
		t.NetProfit.Equal(o.NetProfit) &&
		t.TotalScheduledRevenue.Equal(o.TotalScheduledRevenue) &&
		t.ProjectedProfit.Equal(o.ProjectedProfit) &&
		t.SalesCount == o.SalesCount &&
		t.ScheduledSales == o.ScheduledSales &&
		t.PaidSales == o.PaidSales &&
		t.Remarketing == o.Remarketing &&
		t.FirstContact == o.FirstContact
}

// NewMonthRecord returns a zero-initialised record with one entry per day.
// The year must fit a month key (0..9999).
func NewMonthRecord(month, year int) (MonthRecord, error) {
	if !calendar.ValidYear(year) {
		return MonthRecord{}, fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	n := calendar.DaysInMonth(month, year)
	if n == 0 {
		return MonthRecord{}, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}
	days := make(map[int]DailyEntry, n)
	for d := 1; d <= n; d++ {
		days[d] = DailyEntry{}
	}
	return Recompute(MonthRecord{month: month, year: year, days: days}), nil
}

// Month returns the month number, 1..12.
func (r MonthRecord) Month() int { return r.month }

// Year returns the calendar year.
func (r MonthRecord) Year() int { return r.year }

// Key returns the record's "YYYY-MM" month key.
func (r MonthRecord) Key() string { return calendar.MonthKey(r.month, r.year) }

// TaxPercentage returns the configured tax rate, 0..100.
func (r MonthRecord) TaxPercentage() decimal.Decimal { return r.taxPercentage }

// DaysActive returns the user-configured number of active days.
func (r MonthRecord) DaysActive() int { return r.daysActive }

// Totals returns the derived monthly totals.
func (r MonthRecord) Totals() MonthTotals { return r.totals }

// DayCount returns the number of day entries.
func (r MonthRecord) DayCount() int { return len(r.days) }

// IsZero reports whether r is the zero value (no month assigned).
func (r MonthRecord) IsZero() bool { return r.month == 0 }

// Day returns the entry for a day of the month.
func (r MonthRecord) Day(day int) (DailyEntry, bool) {
	e, ok := r.days[day]
	return e, ok
}

// Days returns all entries ordered by day.
func (r MonthRecord) Days() []DayEntry {
	out := make([]DayEntry, 0, len(r.days))
	for d, e := range r.days {
		out = append(out, DayEntry{Day: d, Entry: e})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// ISODate returns the YYYY-MM-DD date of a day in this month.
func (r MonthRecord) ISODate(day int) string {
	return calendar.ISODate(r.year, r.month, day)
}

// WithDay returns a recomputed copy with the entry at day replaced.
func (r MonthRecord) WithDay(day int, e DailyEntry) (MonthRecord, error) {
	if !calendar.ValidDay(r.month, r.year, day) {
		return r, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidDay, day, calendar.DaysInMonth(r.month, r.year))
	}
	if err := e.Validate(); err != nil {
		return r, err
	}
	days := make(map[int]DailyEntry, len(r.days))
	for d, v := range r.days {
		days[d] = v
	}
	days[day] = e
	r.days = days
	return Recompute(r), nil
}

// WithTaxPercentage returns a recomputed copy with a new tax percentage.
func (r MonthRecord) WithTaxPercentage(pct decimal.Decimal) (MonthRecord, error) {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return r, fmt.Errorf("%w: %s not in 0..100", ErrInvalidPercentage, pct)
	}
	r.taxPercentage = pct
	return Recompute(r), nil
}

// WithDaysActive returns a copy with a new days-active count.
func (r MonthRecord) WithDaysActive(n int) (MonthRecord, error) {
	if n < 0 || n > calendar.DaysInMonth(r.month, r.year) {
		return r, fmt.Errorf("%w: %d", ErrInvalidDaysActive, n)
	}
	r.daysActive = n
	return Recompute(r), nil
}

// monthRecordJSON is the persisted shape. Derived totals are written for
// readers of the blob but ignored on decode.
type monthRecordJSON struct {
	Month                 int                `json:"month"`
	Year                  int                `json:"year"`
	TotalRevenue          decimal.Decimal    `json:"totalRevenue"`
	Investment            decimal.Decimal    `json:"investment"`
	DaysActive            int                `json:"daysActive"`
	TaxPercentage         decimal.Decimal    `json:"taxPercentage"`
	TotalTaxPaid          decimal.Decimal    `json:"totalTaxPaid"`
	GrossProfit           decimal.Decimal    `json:"grossProfit"`
	NetProfit             decimal.Decimal    `json:"netProfit"`
	SalesCount            int                `json:"salesCount"`
	ScheduledSales        int                `json:"scheduledSales"`
	PaidSales             int                `json:"paidSales"`
	Remarketing           int                `json:"remarketing"`
	FirstContact          int                `json:"firstContact"`
	TotalScheduledRevenue decimal.Decimal    `json:"totalScheduledRevenue"`
	ProjectedProfit       decimal.Decimal    `json:"projectedProfit"`
	DailySales            map[int]DailyEntry `json:"dailySales"`
}

func (r MonthRecord) MarshalJSON() ([]byte, error) {
	t := r.totals
	return json.Marshal(monthRecordJSON{
		Month:                 r.month,
		Year:                  r.year,
		TotalRevenue:          t.TotalRevenue,
		Investment:            t.Investment,
		DaysActive:            r.daysActive,
		TaxPercentage:         r.taxPercentage,
		TotalTaxPaid:          t.TotalTaxPaid,
		GrossProfit:           t.GrossProfit,
		NetProfit:             t.NetProfit,
		SalesCount:            t.SalesCount,
		ScheduledSales:        t.ScheduledSales,
		PaidSales:             t.PaidSales,
		Remarketing:           t.Remarketing,
		FirstContact:          t.FirstContact,
		TotalScheduledRevenue: t.TotalScheduledRevenue,
		ProjectedProfit:       t.ProjectedProfit,
		DailySales:            r.days,
	})
}

// UnmarshalJSON decodes a persisted record, fills any missing days with
// zero entries, drops days outside the month and recomputes the totals.
func (r *MonthRecord) UnmarshalJSON(data []byte) error {
	var w monthRecordJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	rec, err := NewMonthRecord(w.Month, w.Year)
	if err != nil {
		return err
	}
	for d, e := range w.DailySales {
		if _, ok := rec.days[d]; !ok {
			continue
		}
		if err := e.Validate(); err != nil {
			return fmt.Errorf("day %d: %w", d, err)
		}
		rec.days[d] = e
	}
	if w.TaxPercentage.IsNegative() || w.TaxPercentage.GreaterThan(hundred) {
		return fmt.Errorf("%w: %s", ErrInvalidPercentage, w.TaxPercentage)
	}
	rec.taxPercentage = w.TaxPercentage
	if w.DaysActive >= 0 {
		rec.daysActive = w.DaysActive
	}
	*r = Recompute(rec)
	return nil
}
