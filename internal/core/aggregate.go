package core

import "github.com/shopspring/decimal"

// Recompute derives every total of r from its daily entries and tax
// percentage. It performs no I/O and leaves the non-derived fields untouched.
func Recompute(r MonthRecord) MonthRecord {
	var t MonthTotals
	for _, e := range r.days {
		t.TotalRevenue = t.TotalRevenue.Add(e.Revenue)
		t.Investment = t.Investment.Add(e.Investment)
		t.TotalScheduledRevenue = t.TotalScheduledRevenue.Add(e.ScheduledRevenue)
		t.SalesCount += e.SalesCount
		t.ScheduledSales += e.ScheduledSales
		t.PaidSales += e.PaidSales
		t.Remarketing += e.Remarketing
		t.FirstContact += e.FirstContact
	}

	t.GrossProfit = t.TotalRevenue.Sub(t.Investment)
	t.TotalTaxPaid = t.TotalRevenue.Mul(r.taxPercentage).Div(hundred)
	t.NetProfit = t.GrossProfit.Sub(t.TotalTaxPaid)
	t.ProjectedProfit = t.TotalScheduledRevenue.Mul(ProfitMargin(t))

	r.totals = t
	return r
}

// ProfitMargin returns NetProfit/TotalRevenue, or zero when there is no revenue.
func ProfitMargin(t MonthTotals) decimal.Decimal {
	if !t.TotalRevenue.IsPositive() {
		return decimal.Zero
	}
	return t.NetProfit.Div(t.TotalRevenue)
}
