// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/coinwise/coinwise/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
// Results are always ordered newest first by (date, id).
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
	Limit     int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Ledger operations
	SaveTransaction(ctx context.Context, txn *model.Transaction) (int64, error)
	GetTransactionByID(ctx context.Context, id int64) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)

	// Ledger aggregates
	GetCategoryTotalsForMonth(ctx context.Context, month time.Time) (map[string]float64, error)
	GetTotalForMonth(ctx context.Context, month time.Time) (float64, error)
	GetMonthlyTotalsForYear(ctx context.Context, year int) (map[string]float64, error)
	GetSpentForCategoryMonth(ctx context.Context, category string, month time.Time) (float64, error)
	GetCategoryAverages(ctx context.Context) (map[string]float64, error)
	GetAverageMonthlySpending(ctx context.Context, since time.Time) (map[string]float64, error)
	GetDistinctCategories(ctx context.Context) ([]string, error)

	// Budget operations
	GetBudgets(ctx context.Context) ([]model.Budget, error)
	GetBudgetByCategory(ctx context.Context, category string) (*model.Budget, error)
	UpsertBudget(ctx context.Context, budget *model.Budget) error
	UpdateBudgetLimit(ctx context.Context, id int64, limit float64) error
	UpdateBudgetAlertMonth(ctx context.Context, id int64, month string) error
	DeleteBudget(ctx context.Context, id int64) error

	// Recurring rule operations
	GetRecurringRules(ctx context.Context) ([]model.RecurringRule, error)
	GetDueRecurringRules(ctx context.Context, asOf time.Time) ([]model.RecurringRule, error)
	SaveRecurringRule(ctx context.Context, rule *model.RecurringRule) (int64, error)
	UpdateRecurringRuleDueDate(ctx context.Context, id int64, nextDue time.Time) error
	DeleteRecurringRule(ctx context.Context, id int64) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
