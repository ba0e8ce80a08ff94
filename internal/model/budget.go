package model

// Budget holds a per-category monthly spending limit.
//
// LastAlertedMonth ("YYYY-MM", empty if never alerted) is the sole
// de-duplication mechanism for breach alerts: it is set only after an alert
// has actually been shown, never speculatively.
type Budget struct {
	Category         string
	LastAlertedMonth string
	ID               int64
	MonthlyLimit     float64
}

// AlertedFor reports whether a breach alert was already shown for the given
// "YYYY-MM" month.
func (b *Budget) AlertedFor(month string) bool {
	return b.LastAlertedMonth != "" && b.LastAlertedMonth == month
}
