// Package calendar derives canonical month keys and day counts.
package calendar

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// ErrInvalidKey is returned when a month key does not have the YYYY-MM shape.
var ErrInvalidKey = errors.New("invalid month key")

var monthKeyPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// DaysInMonth returns the number of days (28-31) in the given month.
// It returns 0 when month is outside 1..12.
func DaysInMonth(month, year int) int {
	if month < 1 || month > 12 {
		return 0
	}
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ValidDay reports whether day exists in the given month.
func ValidDay(month, year, day int) bool {
	return day >= 1 && day <= DaysInMonth(month, year)
}

// Years a month key can address.
const (
	MinYear = 0
	MaxYear = 9999
)

// ValidYear reports whether year fits the four-digit key format.
func ValidYear(year int) bool {
	return year >= MinYear && year <= MaxYear
}

// MonthKey returns the canonical "YYYY-MM" identifier for a month.
//
// Keys sort lexicographically in calendar order for years accepted by ValidYear.
func MonthKey(month, year int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// ParseMonthKey is the inverse of MonthKey.
func ParseMonthKey(key string) (month, year int, err error) {
	m := monthKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	year, _ = strconv.Atoi(m[1])
	month, _ = strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: month %d out of range in %q", ErrInvalidKey, month, key)
	}
	return month, year, nil
}

// ISODateLayout is the time layout of ISODate output.
const ISODateLayout = "2006-01-02"

// ISODate formats a calendar day as YYYY-MM-DD.
func ISODate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// SortKeys sorts month keys in calendar order.
func SortKeys(keys []string) {
	sort.Strings(keys)
}
