package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coinwise/coinwise/internal/common"
	"github.com/coinwise/coinwise/internal/model"
)

// GetBudgets returns all configured budgets ordered by category.
func (s *SQLiteStorage) GetBudgets(ctx context.Context) ([]model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category, monthly_limit, last_alerted_month FROM budgets ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var budgets []model.Budget
	for rows.Next() {
		budget, err := scanBudget(rows.Scan)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *budget)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budgets: %w", err)
	}

	return budgets, nil
}

// GetBudgetByCategory looks up the budget for a category, returning
// common.ErrNotFound if none is configured.
func (s *SQLiteStorage) GetBudgetByCategory(ctx context.Context, category string) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, category, monthly_limit, last_alerted_month FROM budgets WHERE category = ?`, category)

	budget, err := scanBudget(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("budget for %q: %w", category, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	return budget, nil
}

func scanBudget(scan func(...any) error) (*model.Budget, error) {
	var budget model.Budget
	var alerted sql.NullString
	if err := scan(&budget.ID, &budget.Category, &budget.MonthlyLimit, &alerted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan budget: %w", err)
	}
	budget.LastAlertedMonth = alerted.String
	return &budget, nil
}

// UpsertBudget creates the budget for a category or updates its limit if one
// already exists. The alert month is never touched here.
func (s *SQLiteStorage) UpsertBudget(ctx context.Context, budget *model.Budget) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBudget(budget); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (category, monthly_limit) VALUES (?, ?)
		 ON CONFLICT(category) DO UPDATE SET monthly_limit = excluded.monthly_limit`,
		budget.Category, budget.MonthlyLimit)
	if err != nil {
		return fmt.Errorf("failed to upsert budget: %w", err)
	}

	slog.Debug("upserted budget", "category", budget.Category, "limit", budget.MonthlyLimit)
	return nil
}

// UpdateBudgetLimit changes the monthly limit of an existing budget.
func (s *SQLiteStorage) UpdateBudgetLimit(ctx context.Context, id int64, limit float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}
	if limit <= 0 {
		return fmt.Errorf("%w: monthly limit must be positive", ErrInvalidBudget)
	}

	return s.execAffectingOne(ctx,
		`UPDATE budgets SET monthly_limit = ? WHERE id = ?`, limit, id)
}

// UpdateBudgetAlertMonth records that a breach alert was shown for the given
// "YYYY-MM" month.
func (s *SQLiteStorage) UpdateBudgetAlertMonth(ctx context.Context, id int64, month string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}
	if err := validateString(month, "month"); err != nil {
		return err
	}

	return s.execAffectingOne(ctx,
		`UPDATE budgets SET last_alerted_month = ? WHERE id = ?`, month, id)
}

// DeleteBudget removes a budget.
func (s *SQLiteStorage) DeleteBudget(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	return s.execAffectingOne(ctx, `DELETE FROM budgets WHERE id = ?`, id)
}

// execAffectingOne runs a statement that must touch exactly one row.
func (s *SQLiteStorage) execAffectingOne(ctx context.Context, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute statement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check statement result: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}
