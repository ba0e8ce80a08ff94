// Package testutil provides shared helpers for tests: in-memory databases
// with migrations applied and quick ledger seeding.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/coinwise/coinwise/internal/model"
	"github.com/coinwise/coinwise/internal/service"
	"github.com/coinwise/coinwise/internal/storage"
)

// SetupTestDB creates a migrated in-memory database. Cleanup is automatic.
func SetupTestDB(t *testing.T) service.Storage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// Day builds a UTC calendar day, the normal form for ledger dates.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SeedTransactions inserts the given transactions, failing the test on error.
func SeedTransactions(t *testing.T, store service.Storage, txns []model.Transaction) {
	t.Helper()

	ctx := context.Background()
	for i := range txns {
		if _, err := store.SaveTransaction(ctx, &txns[i]); err != nil {
			t.Fatalf("failed to seed transaction %d: %v", i, err)
		}
	}
}

// SpreadTransactions generates count transactions in category, one per day
// starting at start, all with the same amount. Useful for clustering and
// forecasting tests that need volume.
func SpreadTransactions(category string, amount float64, start time.Time, count int) []model.Transaction {
	txns := make([]model.Transaction, count)
	for i := 0; i < count; i++ {
		txns[i] = model.Transaction{
			Date:        start.AddDate(0, 0, i),
			Amount:      amount,
			Description: category + " purchase",
			Category:    category,
		}
	}
	return txns
}
