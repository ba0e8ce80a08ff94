package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/coinwise/coinwise/internal/model"
)

// GetRecurringRules returns all recurring rules ordered by next due date,
// soonest first.
func (s *SQLiteStorage) GetRecurringRules(ctx context.Context) ([]model.RecurringRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryRecurringRules(ctx,
		`SELECT id, description, amount, category, frequency, next_due_date
		 FROM recurring_rules ORDER BY next_due_date ASC`)
}

// GetDueRecurringRules returns the rules whose next due date is on or before
// asOf, ordered soonest first.
func (s *SQLiteStorage) GetDueRecurringRules(ctx context.Context, asOf time.Time) ([]model.RecurringRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryRecurringRules(ctx,
		`SELECT id, description, amount, category, frequency, next_due_date
		 FROM recurring_rules WHERE next_due_date <= ? ORDER BY next_due_date ASC`,
		normalizeDay(asOf))
}

func (s *SQLiteStorage) queryRecurringRules(ctx context.Context, query string, args ...any) ([]model.RecurringRule, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.RecurringRule
	for rows.Next() {
		var rule model.RecurringRule
		var frequency string
		if err := rows.Scan(&rule.ID, &rule.Description, &rule.Amount, &rule.Category, &frequency, &rule.NextDueDate); err != nil {
			return nil, fmt.Errorf("failed to scan recurring rule: %w", err)
		}
		rule.Frequency, err = model.ParseFrequency(frequency)
		if err != nil {
			return nil, fmt.Errorf("recurring rule %d: %w", rule.ID, err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring rules: %w", err)
	}

	return rules, nil
}

// SaveRecurringRule inserts a new recurring rule and returns its assigned ID.
func (s *SQLiteStorage) SaveRecurringRule(ctx context.Context, rule *model.RecurringRule) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateRecurringRule(rule); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO recurring_rules (description, amount, category, frequency, next_due_date)
		 VALUES (?, ?, ?, ?, ?)`,
		rule.Description, rule.Amount, rule.Category, string(rule.Frequency), normalizeDay(rule.NextDueDate))
	if err != nil {
		return 0, fmt.Errorf("failed to insert recurring rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get recurring rule id: %w", err)
	}

	slog.Debug("saved recurring rule", "id", id, "description", rule.Description, "frequency", rule.Frequency)
	return id, nil
}

// UpdateRecurringRuleDueDate persists a rule's advanced due date. Called
// once per scheduler pass per rule, after the catch-up loop finishes.
func (s *SQLiteStorage) UpdateRecurringRuleDueDate(ctx context.Context, id int64, nextDue time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}
	if nextDue.IsZero() {
		return fmt.Errorf("%w: missing next due date", ErrInvalidRule)
	}

	return s.execAffectingOne(ctx,
		`UPDATE recurring_rules SET next_due_date = ? WHERE id = ?`, normalizeDay(nextDue), id)
}

// DeleteRecurringRule removes a recurring rule.
func (s *SQLiteStorage) DeleteRecurringRule(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	return s.execAffectingOne(ctx, `DELETE FROM recurring_rules WHERE id = ?`, id)
}
