package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// RemoteUser is a row of the remote Users table.
	RemoteUser struct {
		ID           string
		Email        string
		Name         string
		RegisteredAt time.Time
		Extra        string
	}

	// DailySalesRow is a row of the remote DailySales table.
	DailySalesRow struct {
		UserID           string
		Date             string // YYYY-MM-DD
		Revenue          decimal.Decimal
		Investment       decimal.Decimal
		ScheduledRevenue decimal.Decimal
		NetProfit        decimal.Decimal
		MarginPercent    decimal.Decimal
		PaidSales        int
		Remarketing      int
		FirstContact     int
		Extra            string
	}
)

// NewRemoteUser builds the identity row for a user id (an email address).
// An empty name defaults to the local part of the email.
func NewRemoteUser(userID, name string, now time.Time) RemoteUser {
	if strings.TrimSpace(name) == "" {
		name, _, _ = strings.Cut(userID, "@")
	}
	return RemoteUser{
		ID:           userID,
		Email:        userID,
		Name:         name,
		RegisteredAt: now.UTC(),
	}
}

// NewDailySalesRow builds the mirror row for one day.
//
// NetProfit here is revenue minus investment for the day (no tax), and
// MarginPercent is NetProfit/revenue*100, zero when revenue is zero.
func NewDailySalesRow(userID, isoDate string, e DailyEntry) DailySalesRow {
	net := e.Revenue.Sub(e.Investment)
	margin := decimal.Zero
	if e.Revenue.IsPositive() {
		margin = net.Div(e.Revenue).Mul(hundred)
	}
	return DailySalesRow{
		UserID:           userID,
		Date:             isoDate,
		Revenue:          e.Revenue,
		Investment:       e.Investment,
		ScheduledRevenue: e.ScheduledRevenue,
		NetProfit:        net,
		MarginPercent:    margin,
		PaidSales:        e.PaidSales,
		Remarketing:      e.Remarketing,
		FirstContact:     e.FirstContact,
	}
}
