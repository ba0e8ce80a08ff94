package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// GetCategoryTotalsForMonth sums spending per category within the calendar
// month of the given date.
func (s *SQLiteStorage) GetCategoryTotalsForMonth(ctx context.Context, month time.Time) (map[string]float64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	start, end := monthRange(month)
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, SUM(amount) FROM transactions WHERE date >= ? AND date < ? GROUP BY category`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	totals := make(map[string]float64)
	for rows.Next() {
		var category string
		var total float64
		if err := rows.Scan(&category, &total); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals[category] = total
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}

	return totals, nil
}

// GetTotalForMonth sums all spending within the calendar month of the given
// date. Months with no transactions total zero.
func (s *SQLiteStorage) GetTotalForMonth(ctx context.Context, month time.Time) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	start, end := monthRange(month)
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT SUM(amount) FROM transactions WHERE date >= ? AND date < ?`,
		start, end).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to query month total: %w", err)
	}

	return total.Float64, nil
}

// GetMonthlyTotalsForYear returns "YYYY-MM" keyed spending totals for every
// month of the given year that has transactions.
func (s *SQLiteStorage) GetMonthlyTotalsForYear(ctx context.Context, year int) (map[string]float64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if year <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	rows, err := s.db.QueryContext(ctx,
		`SELECT strftime('%Y-%m', date) AS month, SUM(amount)
		 FROM transactions WHERE date >= ? AND date < ?
		 GROUP BY month ORDER BY month`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	totals := make(map[string]float64)
	for rows.Next() {
		var month string
		var total float64
		if err := rows.Scan(&month, &total); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total: %w", err)
		}
		totals[month] = total
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly totals: %w", err)
	}

	return totals, nil
}

// GetSpentForCategoryMonth sums a single category's spending within the
// calendar month of the given date.
func (s *SQLiteStorage) GetSpentForCategoryMonth(ctx context.Context, category string, month time.Time) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(category, "category"); err != nil {
		return 0, err
	}

	start, end := monthRange(month)
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT SUM(amount) FROM transactions WHERE category = ? AND date >= ? AND date < ?`,
		category, start, end).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to query category month total: %w", err)
	}

	return total.Float64, nil
}

// GetCategoryAverages returns the mean per-transaction amount for every
// category in the ledger. The anomaly detector's cache is a full recompute
// of this map on every ledger mutation.
func (s *SQLiteStorage) GetCategoryAverages(ctx context.Context) (map[string]float64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT category, AVG(amount) FROM transactions GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query category averages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	averages := make(map[string]float64)
	for rows.Next() {
		var category string
		var avg float64
		if err := rows.Scan(&category, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan category average: %w", err)
		}
		averages[category] = avg
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category averages: %w", err)
	}

	return averages, nil
}

// GetAverageMonthlySpending returns, per category, the mean of that
// category's monthly totals over months since the given date. Used for
// budget suggestions.
func (s *SQLiteStorage) GetAverageMonthlySpending(ctx context.Context, since time.Time) (map[string]float64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT category, AVG(monthly_total) FROM (
			SELECT category, strftime('%Y-%m', date) AS month, SUM(amount) AS monthly_total
			FROM transactions WHERE date >= ?
			GROUP BY category, month
		) GROUP BY category`,
		normalizeDay(since))
	if err != nil {
		return nil, fmt.Errorf("failed to query average monthly spending: %w", err)
	}
	defer func() { _ = rows.Close() }()

	averages := make(map[string]float64)
	for rows.Next() {
		var category string
		var avg float64
		if err := rows.Scan(&category, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan average monthly spending: %w", err)
		}
		averages[category] = avg
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating average monthly spending: %w", err)
	}

	return averages, nil
}

// GetDistinctCategories lists every category present in the ledger,
// alphabetically.
func (s *SQLiteStorage) GetDistinctCategories(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM transactions ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}
