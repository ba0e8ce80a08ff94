package model

import (
	"fmt"
	"time"
)

// Frequency describes how often a recurring rule materializes a transaction.
type Frequency string

const (
	// FrequencyMonthly advances the due date by one calendar month.
	FrequencyMonthly Frequency = "MONTHLY"
	// FrequencyYearly advances the due date by one calendar year.
	FrequencyYearly Frequency = "YEARLY"
)

// ParseFrequency converts a stored string into a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case FrequencyMonthly:
		return FrequencyMonthly, nil
	case FrequencyYearly:
		return FrequencyYearly, nil
	default:
		return "", fmt.Errorf("unknown frequency %q", s)
	}
}

// Next returns the due date one period after d. Day-of-month is clamped to
// the last valid day of the target month, so Jan 31 + 1 month is Feb 28 (or
// Feb 29 in a leap year) rather than drifting into March.
func (f Frequency) Next(d time.Time) time.Time {
	year, month, day := d.Date()

	switch f {
	case FrequencyYearly:
		year++
	default:
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}

	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, d.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// RecurringRule is a template for an obligation that repeats on a fixed
// schedule. NextDueDate is advanced only by the scheduler and only forward.
type RecurringRule struct {
	NextDueDate time.Time
	Description string
	Category    string
	Frequency   Frequency
	ID          int64
	Amount      float64
}
