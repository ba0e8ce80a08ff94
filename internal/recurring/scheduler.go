// Package recurring advances recurring obligations and materializes the
// transactions they are due for.
package recurring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/coinwise/coinwise/internal/model"
	"github.com/coinwise/coinwise/internal/service"
)

// Scheduler walks every due recurring rule forward, creating one ledger
// transaction per missed period. A due date equal to today is processed,
// not skipped.
type Scheduler struct {
	store service.Storage
	now   func() time.Time
}

// NewScheduler creates a scheduler over the given store.
func NewScheduler(store service.Storage) *Scheduler {
	return &Scheduler{store: store, now: time.Now}
}

// WithClock overrides the scheduler's notion of "now". Used by tests.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// ProcessDue materializes catch-up transactions for every rule whose next
// due date is on or before today, however many periods were missed. Each
// rule's advanced due date is persisted once, after its catch-up loop
// finishes, and is always strictly in the future on success. Returns the
// number of transactions materialized.
func (s *Scheduler) ProcessDue(ctx context.Context) (int, error) {
	today := s.today()

	rules, err := s.store.GetDueRecurringRules(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to load due recurring rules: %w", err)
	}

	materialized := 0
	for _, rule := range rules {
		count, loopErr := s.catchUp(ctx, &rule, today)
		materialized += count

		if count > 0 || loopErr == nil {
			// Persist whatever progress was made so already-materialized
			// periods are not repeated on the next pass.
			if updateErr := s.store.UpdateRecurringRuleDueDate(ctx, rule.ID, rule.NextDueDate); updateErr != nil {
				return materialized, fmt.Errorf("failed to persist due date for rule %d: %w", rule.ID, updateErr)
			}
		}
		if loopErr != nil {
			return materialized, loopErr
		}

		slog.Info("processed recurring rule",
			"rule", rule.ID,
			"description", rule.Description,
			"materialized", count,
			"next_due", rule.NextDueDate.Format("2006-01-02"))
	}

	return materialized, nil
}

// catchUp materializes transactions for a single rule until its due date is
// strictly after today, advancing rule.NextDueDate in place.
func (s *Scheduler) catchUp(ctx context.Context, rule *model.RecurringRule, today time.Time) (int, error) {
	count := 0
	for !rule.NextDueDate.After(today) {
		txn := model.Transaction{
			Date:        rule.NextDueDate,
			Amount:      rule.Amount,
			Description: rule.Description,
			Category:    rule.Category,
		}
		if _, err := s.store.SaveTransaction(ctx, &txn); err != nil {
			return count, fmt.Errorf("failed to materialize transaction for rule %d: %w", rule.ID, err)
		}

		rule.NextDueDate = rule.Frequency.Next(rule.NextDueDate)
		count++
	}
	return count, nil
}

func (s *Scheduler) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
