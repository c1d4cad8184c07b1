package google

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"salesledger/internal/core"
)

// Column layouts of the two sheets. The first row of each is a header.
//
//	Users:      id_usuario | email | nome | data_cadastro | outras_infos
//	DailySales: id_usuario | data | vendas_realizadas | investimento | vendas_agendadas |
//	            lucro_liquido | margem_lucro | vendas_pagas | remarketing | primeiro_contato |
//	            outras_metricas_diarias
var (
	usersHeader      = []any{"id_usuario", "email", "nome", "data_cadastro", "outras_infos"}
	dailySalesHeader = []any{"id_usuario", "data", "vendas_realizadas", "investimento", "vendas_agendadas",
		"lucro_liquido", "margem_lucro", "vendas_pagas", "remarketing", "primeiro_contato", "outras_metricas_diarias"}
)

func userValues(u core.RemoteUser) []any {
	return []any{u.ID, u.Email, u.Name, u.RegisteredAt.Format(time.RFC3339), u.Extra}
}

func dailySalesValues(r core.DailySalesRow) []any {
	return []any{
		r.UserID,
		r.Date,
		r.Revenue.InexactFloat64(),
		r.Investment.InexactFloat64(),
		r.ScheduledRevenue.InexactFloat64(),
		r.NetProfit.InexactFloat64(),
		r.MarginPercent.Round(2).InexactFloat64(),
		r.PaidSales,
		r.Remarketing,
		r.FirstContact,
		r.Extra,
	}
}

// findUser scans Users rows (header first) for a row whose id or email matches.
func findUser(values [][]interface{}, userID string) (core.RemoteUser, bool) {
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if safeGet(row, 0) != userID && safeGet(row, 1) != userID {
			continue
		}
		registered, _ := time.Parse(time.RFC3339, safeGet(row, 3))
		return core.RemoteUser{
			ID:           safeGet(row, 0),
			Email:        safeGet(row, 1),
			Name:         safeGet(row, 2),
			RegisteredAt: registered,
			Extra:        safeGet(row, 4),
		}, true
	}
	return core.RemoteUser{}, false
}

// parseDailySales returns the DailySales rows (header first) belonging to userID.
// Unparseable numbers read as zero.
func parseDailySales(values [][]interface{}, userID string) []core.DailySalesRow {
	var out []core.DailySalesRow
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if safeGet(row, 0) != userID {
			continue
		}
		out = append(out, core.DailySalesRow{
			UserID:           row[0],
			Date:             safeGet(row, 1),
			Revenue:          parseNumber(safeGet(row, 2)),
			Investment:       parseNumber(safeGet(row, 3)),
			ScheduledRevenue: parseNumber(safeGet(row, 4)),
			NetProfit:        parseNumber(safeGet(row, 5)),
			MarginPercent:    parseNumber(safeGet(row, 6)),
			PaidSales:        parseCount(safeGet(row, 7)),
			Remarketing:      parseCount(safeGet(row, 8)),
			FirstContact:     parseCount(safeGet(row, 9)),
			Extra:            safeGet(row, 10),
		})
	}
	return out
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

func parseNumber(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	// Normalize decimal comma
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		// Sheets may render integers as "3.0"
		if f, ferr := strconv.ParseFloat(strings.TrimSpace(s), 64); ferr == nil {
			return int(f)
		}
		return 0
	}
	return n
}
