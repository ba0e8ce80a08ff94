// Package forecast trains and applies the nearest-neighbor spend regressor
// that projects expected daily spending per category.
package forecast

import "github.com/coinwise/coinwise/internal/model"

// CategoryCodes is the immutable category-to-code mapping for one
// forecasting session. It is produced exactly once, at training time, and
// reused for every subsequent prediction in the session; rebuilding it
// mid-session would silently re-number categories and corrupt predictions.
type CategoryCodes struct {
	codes map[string]int
	names []string
}

// NewCategoryCodes assigns dense integer codes to distinct categories in
// first-seen order over the given transactions. Callers pass transactions
// oldest first so codes are stable for a given ledger state.
func NewCategoryCodes(transactions []model.Transaction) CategoryCodes {
	codes := make(map[string]int)
	var names []string
	for _, txn := range transactions {
		if _, ok := codes[txn.Category]; ok {
			continue
		}
		codes[txn.Category] = len(names)
		names = append(names, txn.Category)
	}
	return CategoryCodes{codes: codes, names: names}
}

// Code returns the dense code for a category and whether it is known.
func (c CategoryCodes) Code(category string) (int, bool) {
	code, ok := c.codes[category]
	return code, ok
}

// Categories returns the known categories in code order.
func (c CategoryCodes) Categories() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Len returns the number of known categories.
func (c CategoryCodes) Len() int {
	return len(c.names)
}
