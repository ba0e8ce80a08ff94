// Package budget detects month-to-date limit crossings and suggests limits
// from spending history.
package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/coinwise/coinwise/internal/common"
	"github.com/coinwise/coinwise/internal/model"
	"github.com/coinwise/coinwise/internal/service"
)

// Monitor checks incoming expenses against configured monthly limits. An
// alert fires exactly once per category per month, at the transaction that
// crosses the limit.
type Monitor struct {
	store          service.Storage
	alertsDisabled func() bool
	now            func() time.Time
}

// NewMonitor creates a monitor. alertsDisabled is consulted on every check
// so a preference change takes effect immediately; pass nil to always check.
func NewMonitor(store service.Storage, alertsDisabled func() bool) *Monitor {
	if alertsDisabled == nil {
		alertsDisabled = func() bool { return false }
	}
	return &Monitor{store: store, alertsDisabled: alertsDisabled, now: time.Now}
}

// WithClock overrides the monitor's notion of "now". Used by tests.
func (m *Monitor) WithClock(now func() time.Time) *Monitor {
	m.now = now
	return m
}

// CheckBreach returns the category's budget if adding incomingAmount would
// push month-to-date spend over the limit for the first time this month.
// It returns nil when alerts are disabled, no budget exists, an alert was
// already shown this month, or the limit was already crossed earlier.
func (m *Monitor) CheckBreach(ctx context.Context, category string, incomingAmount float64) (*model.Budget, error) {
	if m.alertsDisabled() {
		return nil, nil
	}

	budget, err := m.store.GetBudgetByCategory(ctx, category)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}

	currentMonth := m.now().Format(model.MonthKey)
	if budget.AlertedFor(currentMonth) {
		return nil, nil
	}

	spent, err := m.store.GetSpentForCategoryMonth(ctx, category, m.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load month-to-date spend: %w", err)
	}

	// Fire only at the crossing: spend was at or under the limit and this
	// transaction takes it over.
	if spent <= budget.MonthlyLimit && spent+incomingAmount > budget.MonthlyLimit {
		slog.Debug("budget breach detected",
			"category", category,
			"limit", budget.MonthlyLimit,
			"spent", spent,
			"incoming", incomingAmount)
		return budget, nil
	}

	return nil, nil
}

// MarkAlerted records that the breach alert for this budget was shown,
// establishing the at-most-once-per-month contract. Callers invoke it after
// presenting the alert, never speculatively.
func (m *Monitor) MarkAlerted(ctx context.Context, budget *model.Budget) error {
	month := m.now().Format(model.MonthKey)
	if err := m.store.UpdateBudgetAlertMonth(ctx, budget.ID, month); err != nil {
		return fmt.Errorf("failed to mark budget alerted: %w", err)
	}
	budget.LastAlertedMonth = month
	return nil
}

// suggestionWindow is how far back Suggest looks when averaging monthly spend.
const suggestionWindow = 6 // months

// Suggest proposes a budget per category: 110% of the category's average
// monthly spend over the last six months, rounded to the nearest 50, with a
// floor of 50.
func (m *Monitor) Suggest(ctx context.Context) ([]model.Budget, error) {
	since := m.now().AddDate(0, -suggestionWindow, 0)
	averages, err := m.store.GetAverageMonthlySpending(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load average monthly spending: %w", err)
	}

	suggestions := make([]model.Budget, 0, len(averages))
	for category, average := range averages {
		limit := math.Round(average*1.10/50.0) * 50.0
		if limit < 50 {
			limit = 50
		}
		suggestions = append(suggestions, model.Budget{Category: category, MonthlyLimit: limit})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Category < suggestions[j].Category
	})

	return suggestions, nil
}
