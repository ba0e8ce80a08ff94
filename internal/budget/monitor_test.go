package budget

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinwise/coinwise/internal/model"
	"github.com/coinwise/coinwise/internal/service"
	"github.com/coinwise/coinwise/internal/testutil"
)

func monitorFixture(t *testing.T, alertsDisabled bool) (*Monitor, service.Storage) {
	t.Helper()

	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertBudget(ctx, &model.Budget{Category: "Groceries", MonthlyLimit: 1000}))
	testutil.SeedTransactions(t, store, []model.Transaction{
		{Date: testutil.Day(2025, time.August, 10), Amount: 900, Description: "Groceries so far", Category: "Groceries"},
	})

	m := NewMonitor(store, func() bool { return alertsDisabled }).
		WithClock(func() time.Time { return testutil.Day(2025, time.August, 20) })
	return m, store
}

func TestCheckBreachUnderLimit(t *testing.T) {
	m, _ := monitorFixture(t, false)

	// 900 spent + 50 = 950, still under 1000.
	breach, err := m.CheckBreach(context.Background(), "Groceries", 50)
	require.NoError(t, err)
	assert.Nil(t, breach)
}

func TestCheckBreachAtCrossing(t *testing.T) {
	m, _ := monitorFixture(t, false)

	// 900 spent + 150 = 1050 crosses the 1000 limit.
	breach, err := m.CheckBreach(context.Background(), "Groceries", 150)
	require.NoError(t, err)
	require.NotNil(t, breach)
	assert.Equal(t, "Groceries", breach.Category)
	assert.Equal(t, 1000.0, breach.MonthlyLimit)
}

func TestCheckBreachExactlyAtLimitDoesNotFire(t *testing.T) {
	m, _ := monitorFixture(t, false)

	// 900 + 100 = exactly 1000: not over, no alert.
	breach, err := m.CheckBreach(context.Background(), "Groceries", 100)
	require.NoError(t, err)
	assert.Nil(t, breach)
}

func TestCheckBreachOnlyAtTheCrossing(t *testing.T) {
	m, store := monitorFixture(t, false)
	ctx := context.Background()

	// Push the month over the limit without alerting.
	testutil.SeedTransactions(t, store, []model.Transaction{
		{Date: testutil.Day(2025, time.August, 15), Amount: 200, Description: "Big shop", Category: "Groceries"},
	})

	// Spend is already 1100 > 1000; later transactions are past the
	// crossing and must not fire.
	breach, err := m.CheckBreach(ctx, "Groceries", 50)
	require.NoError(t, err)
	assert.Nil(t, breach)
}

func TestCheckBreachNoBudget(t *testing.T) {
	m, _ := monitorFixture(t, false)

	breach, err := m.CheckBreach(context.Background(), "Dining", 5000)
	require.NoError(t, err)
	assert.Nil(t, breach)
}

func TestCheckBreachAlertsDisabled(t *testing.T) {
	m, _ := monitorFixture(t, true)

	breach, err := m.CheckBreach(context.Background(), "Groceries", 150)
	require.NoError(t, err)
	assert.Nil(t, breach)
}

func TestMarkAlertedSuppressesRepeatAlerts(t *testing.T) {
	m, store := monitorFixture(t, false)
	ctx := context.Background()

	breach, err := m.CheckBreach(ctx, "Groceries", 150)
	require.NoError(t, err)
	require.NotNil(t, breach)

	require.NoError(t, m.MarkAlerted(ctx, breach))
	assert.Equal(t, "2025-08", breach.LastAlertedMonth)

	// Same month: suppressed, even for another crossing-sized amount.
	again, err := m.CheckBreach(ctx, "Groceries", 150)
	require.NoError(t, err)
	assert.Nil(t, again)

	// The mark is persisted, not just in-memory.
	stored, err := store.GetBudgetByCategory(ctx, "Groceries")
	require.NoError(t, err)
	assert.Equal(t, "2025-08", stored.LastAlertedMonth)
}

func TestAlertFiresAgainNextMonth(t *testing.T) {
	m, store := monitorFixture(t, false)
	ctx := context.Background()

	breach, err := m.CheckBreach(ctx, "Groceries", 150)
	require.NoError(t, err)
	require.NotNil(t, breach)
	require.NoError(t, m.MarkAlerted(ctx, breach))

	// New month, fresh spend pattern.
	testutil.SeedTransactions(t, store, []model.Transaction{
		{Date: testutil.Day(2025, time.September, 5), Amount: 950, Description: "September shop", Category: "Groceries"},
	})
	m.WithClock(func() time.Time { return testutil.Day(2025, time.September, 20) })

	breach, err = m.CheckBreach(ctx, "Groceries", 100)
	require.NoError(t, err)
	assert.NotNil(t, breach, "last month's alert must not suppress this month's")
}

func TestSuggest(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	// Groceries: 300/month for three months -> 110% = 330, rounds to 350.
	// Coffee: 10/month -> 11, floors to 50.
	for monthOffset := 0; monthOffset < 3; monthOffset++ {
		testutil.SeedTransactions(t, store, []model.Transaction{
			{Date: testutil.Day(2025, time.June, 5).AddDate(0, monthOffset, 0), Amount: 300, Description: "Groceries", Category: "Groceries"},
			{Date: testutil.Day(2025, time.June, 7).AddDate(0, monthOffset, 0), Amount: 10, Description: "Coffee", Category: "Coffee"},
		})
	}

	m := NewMonitor(store, nil).
		WithClock(func() time.Time { return testutil.Day(2025, time.August, 20) })

	suggestions, err := m.Suggest(ctx)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	// Alphabetical by category.
	assert.Equal(t, "Coffee", suggestions[0].Category)
	assert.Equal(t, 50.0, suggestions[0].MonthlyLimit)
	assert.Equal(t, "Groceries", suggestions[1].Category)
	assert.Equal(t, 350.0, suggestions[1].MonthlyLimit)
}
