package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinwise/coinwise/internal/model"
	"github.com/coinwise/coinwise/internal/testutil"
)

func sessionFixture(t *testing.T) []model.Transaction {
	t.Helper()

	// Two categories, steady daily spend through July and August 2025.
	var txns []model.Transaction
	txns = append(txns, testutil.SpreadTransactions("Groceries", 20, testutil.Day(2025, time.July, 1), 40)...)
	txns = append(txns, testutil.SpreadTransactions("Dining", 35, testutil.Day(2025, time.July, 5), 30)...)
	return txns
}

func TestNewSessionRejectsThinHistory(t *testing.T) {
	txns := testutil.SpreadTransactions("Groceries", 20, testutil.Day(2025, time.July, 1), MinTrainingSamples-1)
	_, err := NewSession(txns)
	assert.Error(t, err)
}

func TestPredictDay(t *testing.T) {
	session, err := NewSession(sessionFixture(t))
	require.NoError(t, err)

	spend, err := session.PredictDay(testutil.Day(2025, time.September, 3), "Groceries")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, spend, 0.0)

	_, err = session.PredictDay(testutil.Day(2025, time.September, 3), "Unknown")
	assert.Error(t, err)
}

func TestForecastMonth(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	txns := sessionFixture(t)
	testutil.SeedTransactions(t, store, txns)

	session, err := BuildSession(ctx, store)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Groceries", "Dining"}, session.Categories())

	report, err := session.ForecastMonth(ctx, store, testutil.Day(2025, time.September, 1))
	require.NoError(t, err)

	require.NotEmpty(t, report.Categories)
	var total float64
	for i, cf := range report.Categories {
		assert.Greater(t, cf.Amount, 0.0)
		total += cf.Amount
		if i > 0 {
			assert.GreaterOrEqual(t, report.Categories[i-1].Amount, cf.Amount)
		}
	}
	assert.InDelta(t, report.Total, total, 1e-9)

	// August was fully populated, so last month's actual is non-zero.
	assert.Greater(t, report.LastMonthActual, 0.0)
}

func TestForecastMonthFlagsBudgetBreaches(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	testutil.SeedTransactions(t, store, sessionFixture(t))

	// Groceries run about 20/day; a 100/month limit is certain to be
	// breached, a giant one is not.
	require.NoError(t, store.UpsertBudget(ctx, &model.Budget{Category: "Groceries", MonthlyLimit: 100}))
	require.NoError(t, store.UpsertBudget(ctx, &model.Budget{Category: "Dining", MonthlyLimit: 1e9}))

	session, err := BuildSession(ctx, store)
	require.NoError(t, err)

	report, err := session.ForecastMonth(ctx, store, testutil.Day(2025, time.September, 1))
	require.NoError(t, err)

	require.Len(t, report.Breaches, 1)
	breach := report.Breaches[0]
	assert.Equal(t, "Groceries", breach.Category)
	assert.Equal(t, 100.0, breach.Limit)
	assert.InDelta(t, breach.Projected-breach.Limit, breach.Overspend, 1e-9)
	assert.InDelta(t, breach.Overspend, report.TotalOverspend(), 1e-9)
}

func TestBuildSessionDeterministicForLedgerState(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	testutil.SeedTransactions(t, store, sessionFixture(t))

	s1, err := BuildSession(ctx, store)
	require.NoError(t, err)
	s2, err := BuildSession(ctx, store)
	require.NoError(t, err)

	assert.Equal(t, s1.Categories(), s2.Categories())

	r1, err := s1.ForecastMonth(ctx, store, testutil.Day(2025, time.September, 1))
	require.NoError(t, err)
	r2, err := s2.ForecastMonth(ctx, store, testutil.Day(2025, time.September, 1))
	require.NoError(t, err)

	assert.Equal(t, r1.Categories, r2.Categories)
	assert.Equal(t, r1.Total, r2.Total)
}
