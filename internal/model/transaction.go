package model

import "time"

// MonthKey is the layout used for "YYYY-MM" month identifiers, such as a
// budget's last alerted month.
const MonthKey = "2006-01"

// Transaction represents a single ledger entry. Amount is signed with
// positive values meaning expense.
type Transaction struct {
	Date        time.Time
	Description string
	Category    string
	ID          int64
	Amount      float64
}

// MonthOf returns the "YYYY-MM" key of the transaction's calendar month.
func (t *Transaction) MonthOf() string {
	return t.Date.Format(MonthKey)
}

// Weekday returns the ISO-8601 day of week (Monday=1 .. Sunday=7).
// Both the forecaster and the persona clusterer use this encoding.
func (t *Transaction) Weekday() int {
	return ISOWeekday(t.Date)
}

// ISOWeekday converts a date to an ISO-8601 weekday number.
func ISOWeekday(d time.Time) int {
	wd := int(d.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
