// Package storage provides the data persistence layer for the coinwise application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coinwise/coinwise/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidID      = errors.New("id must be positive")
	ErrInvalidTxn     = errors.New("invalid transaction")
	ErrInvalidBudget  = errors.New("invalid budget")
	ErrInvalidRule    = errors.New("invalid recurring rule")
	ErrInvalidYear    = errors.New("invalid year")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures a row ID is positive.
func validateID(id int64, paramName string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidID, paramName)
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTxn)
	}
	if txn.Description == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidTxn)
	}
	if txn.Category == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidTxn)
	}
	return nil
}

// validateBudget validates a budget.
func validateBudget(budget *model.Budget) error {
	if budget == nil {
		return fmt.Errorf("%w: budget", ErrNilParameter)
	}
	if budget.Category == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidBudget)
	}
	if budget.MonthlyLimit <= 0 {
		return fmt.Errorf("%w: monthly limit must be positive", ErrInvalidBudget)
	}
	return nil
}

// validateRecurringRule validates a recurring rule.
func validateRecurringRule(rule *model.RecurringRule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	if rule.Description == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidRule)
	}
	if rule.Category == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidRule)
	}
	if rule.Frequency != model.FrequencyMonthly && rule.Frequency != model.FrequencyYearly {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidRule, rule.Frequency)
	}
	if rule.NextDueDate.IsZero() {
		return fmt.Errorf("%w: missing next due date", ErrInvalidRule)
	}
	return nil
}
