package core

import (
	"encoding/json"
	"log/slog"

	"salesledger/internal/calendar"
)

// UserLedger maps month keys to one user's month records.
//
// A UserLedger is a value: With returns a new ledger and never mutates the
// receiver's map.
type UserLedger struct {
	months map[string]MonthRecord
}

// NewUserLedger returns an empty ledger.
func NewUserLedger() UserLedger {
	return UserLedger{months: map[string]MonthRecord{}}
}

// Month looks up a record by month key.
func (l UserLedger) Month(key string) (MonthRecord, bool) {
	r, ok := l.months[key]
	return r, ok
}

// Len returns the number of months in the ledger.
func (l UserLedger) Len() int { return len(l.months) }

// Keys returns the month keys in calendar order.
func (l UserLedger) Keys() []string {
	keys := make([]string, 0, len(l.months))
	for k := range l.months {
		keys = append(keys, k)
	}
	calendar.SortKeys(keys)
	return keys
}

// With returns a copy of the ledger holding r under its month key.
func (l UserLedger) With(r MonthRecord) UserLedger {
	months := make(map[string]MonthRecord, len(l.months)+1)
	for k, v := range l.months {
		months[k] = v
	}
	months[r.Key()] = r
	return UserLedger{months: months}
}

type userLedgerJSON struct {
	Months map[string]json.RawMessage `json:"months"`
}

func (l UserLedger) MarshalJSON() ([]byte, error) {
	months := l.months
	if months == nil {
		months = map[string]MonthRecord{}
	}
	return json.Marshal(struct {
		Months map[string]MonthRecord `json:"months"`
	}{Months: months})
}

// UnmarshalJSON decodes a ledger. Months that fail to decode are dropped
// and logged; records are re-keyed by their canonical month key.
func (l *UserLedger) UnmarshalJSON(data []byte) error {
	var w userLedgerJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := NewUserLedger()
	for key, raw := range w.Months {
		var r MonthRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			slog.Warn("Dropping unreadable month record", "month_key", key, "error", err)
			continue
		}
		if key != r.Key() {
			slog.Warn("Month record stored under non-canonical key", "month_key", key, "canonical_key", r.Key())
		}
		out.months[r.Key()] = r
	}
	*l = out
	return nil
}
