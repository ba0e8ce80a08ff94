package main

import (
	"context"
	"fmt"
	"time"

	"github.com/coinwise/coinwise/internal/budget"
	"github.com/coinwise/coinwise/internal/common"
	"github.com/coinwise/coinwise/internal/config"
	"github.com/coinwise/coinwise/internal/engine"
	"github.com/coinwise/coinwise/internal/service"
	"github.com/coinwise/coinwise/internal/storage"
	"github.com/spf13/viper"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := config.PathOrDefault(viper.GetString("database.path"), config.DefaultDatabasePath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("could not open the ledger database at %s", dbPath), err)
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initEngine builds the analytics engine over an initialized store. The
// caller owns the store and must Close it.
func initEngine(ctx context.Context, store service.Storage) (*engine.Engine, error) {
	monitor := budget.NewMonitor(store, func() bool {
		return viper.GetBool("budgets.alerts_disabled")
	})

	cfg := engine.Config{
		CorpusPath:      config.PathOrDefault(viper.GetString("training.corpus"), config.DefaultCorpusPath),
		CorrectionsPath: config.PathOrDefault(viper.GetString("training.corrections"), config.DefaultCorrectionsPath),
		ModelPath:       config.PathOrDefault(viper.GetString("training.model"), config.DefaultModelPath),
		PersonaSeed:     viper.GetInt64("persona.seed"),
	}

	return engine.New(ctx, store, monitor, cfg)
}

// parseMonth parses a YYYY-MM month argument; empty means the current month.
func parseMonth(arg string) (time.Time, error) {
	if arg == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	month, err := time.Parse("2006-01", arg)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", arg, err)
	}
	return month, nil
}

// parseDay parses a YYYY-MM-DD date argument; empty means today.
func parseDay(arg string) (time.Time, error) {
	if arg == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	day, err := time.Parse("2006-01-02", arg)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", arg, err)
	}
	return day, nil
}

// formatAmount renders a ledger amount for display.
func formatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
