package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinwise/coinwise/internal/budget"
	"github.com/coinwise/coinwise/internal/classifier"
	"github.com/coinwise/coinwise/internal/model"
	"github.com/coinwise/coinwise/internal/service"
	"github.com/coinwise/coinwise/internal/testutil"
)

func engineFixture(t *testing.T) (*Engine, service.Storage) {
	t.Helper()

	store := testutil.SetupTestDB(t)
	monitor := budget.NewMonitor(store, nil).
		WithClock(func() time.Time { return testutil.Day(2025, time.August, 20) })

	dir := t.TempDir()
	cfg := Config{
		CorpusPath:      filepath.Join(dir, "corpus.csv"),
		CorrectionsPath: filepath.Join(dir, "corrections.csv"),
		ModelPath:       filepath.Join(dir, "classifier.gob"),
	}

	e, err := New(context.Background(), store, monitor, cfg)
	require.NoError(t, err)
	return e, store
}

func TestAddTransaction(t *testing.T) {
	e, store := engineFixture(t)
	ctx := context.Background()

	txn := &model.Transaction{
		Date:        testutil.Day(2025, time.August, 15),
		Amount:      42.50,
		Description: "Corner cafe",
		Category:    "Dining",
	}

	id, breach, err := e.AddTransaction(ctx, txn)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Nil(t, breach)
	assert.Equal(t, id, txn.ID)

	stored, err := store.GetTransactionByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Dining", stored.Category)
}

func TestAddTransactionRejectsZeroAmount(t *testing.T) {
	e, _ := engineFixture(t)

	_, _, err := e.AddTransaction(context.Background(), &model.Transaction{
		Date:        testutil.Day(2025, time.August, 15),
		Amount:      0,
		Description: "Nothing",
		Category:    "Other",
	})
	assert.Error(t, err)
}

func TestAddTransactionReportsBreachOnce(t *testing.T) {
	e, store := engineFixture(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertBudget(ctx, &model.Budget{Category: "Groceries", MonthlyLimit: 100}))

	_, breach, err := e.AddTransaction(ctx, &model.Transaction{
		Date: testutil.Day(2025, time.August, 10), Amount: 90, Description: "Shop", Category: "Groceries",
	})
	require.NoError(t, err)
	assert.Nil(t, breach)

	_, breach, err = e.AddTransaction(ctx, &model.Transaction{
		Date: testutil.Day(2025, time.August, 12), Amount: 20, Description: "Shop", Category: "Groceries",
	})
	require.NoError(t, err)
	require.NotNil(t, breach, "crossing 100 must flag the budget")
	require.NoError(t, e.Monitor().MarkAlerted(ctx, breach))

	_, breach, err = e.AddTransaction(ctx, &model.Transaction{
		Date: testutil.Day(2025, time.August, 14), Amount: 20, Description: "Shop", Category: "Groceries",
	})
	require.NoError(t, err)
	assert.Nil(t, breach, "alert already shown this month")
}

func TestAddTransactionRefreshesAnomalyBaseline(t *testing.T) {
	e, _ := engineFixture(t)
	ctx := context.Background()

	for day := 1; day <= 4; day++ {
		_, _, err := e.AddTransaction(ctx, &model.Transaction{
			Date:        testutil.Day(2025, time.August, day),
			Amount:      200,
			Description: "Groceries",
			Category:    "Groceries",
		})
		require.NoError(t, err)
	}

	// The cache was refreshed on every insert, so the new baseline is live
	// without any explicit refresh call.
	assert.True(t, e.Detector().IsAnomalous("Groceries", 801))
	assert.False(t, e.Detector().IsAnomalous("Groceries", 799))
}

func TestRecordCorrection(t *testing.T) {
	e, store := engineFixture(t)
	ctx := context.Background()

	id, _, err := e.AddTransaction(ctx, &model.Transaction{
		Date:        testutil.Day(2025, time.August, 15),
		Amount:      12,
		Description: "UBER *TRIP",
		Category:    "Other",
	})
	require.NoError(t, err)

	require.NoError(t, e.RecordCorrection(ctx, id, "Transport"))

	txn, err := store.GetTransactionByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Transport", txn.Category)

	corrections, err := classifier.LoadCorrections(e.cfg.CorrectionsPath)
	require.NoError(t, err)
	require.Len(t, corrections, 1)
	assert.Equal(t, "UBER *TRIP", corrections[0].Description)
	assert.Equal(t, "Transport", corrections[0].Category)
}

func TestRetrainSwapsModel(t *testing.T) {
	e, _ := engineFixture(t)
	ctx := context.Background()

	writeCorpus(t, e.cfg.CorpusPath)
	assert.False(t, e.Categorizer().Ready())

	m, err := e.Retrain().Wait(ctx)
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.True(t, e.Categorizer().Ready())
	assert.Equal(t, "Groceries", e.Categorizer().Predict("supermarket groceries").Category)

	// The artifact is persisted: a fresh categorizer can reload it.
	fresh := classifier.NewCategorizer()
	require.NoError(t, fresh.Reload(e.cfg.ModelPath))
	assert.True(t, fresh.Ready())
}

func TestRetrainFailsWithoutCorpus(t *testing.T) {
	e, _ := engineFixture(t)

	_, err := e.Retrain().Wait(context.Background())
	assert.Error(t, err)
	assert.False(t, e.Categorizer().Ready(), "failed retrain must not swap in a model")
}

func TestForecastJob(t *testing.T) {
	e, store := engineFixture(t)
	ctx := context.Background()

	testutil.SeedTransactions(t, store,
		testutil.SpreadTransactions("Groceries", 20, testutil.Day(2025, time.July, 1), 40))

	report, err := e.Forecast(ctx, testutil.Day(2025, time.September, 1)).Wait(ctx)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Positive(t, report.Total)
}

func TestGeneratePersonaJob(t *testing.T) {
	e, store := engineFixture(t)
	ctx := context.Background()

	// Not enough history: nil persona, no error.
	persona, err := e.GeneratePersona(ctx).Wait(ctx)
	require.NoError(t, err)
	assert.Nil(t, persona)

	testutil.SeedTransactions(t, store,
		testutil.SpreadTransactions("Groceries", 20, testutil.Day(2025, time.July, 1), 40))

	persona, err = e.GeneratePersona(ctx).Wait(ctx)
	require.NoError(t, err)
	require.NotNil(t, persona)
	assert.NotEmpty(t, persona.Clusters)
}

func TestProcessRecurring(t *testing.T) {
	e, store := engineFixture(t)
	ctx := context.Background()

	_, err := store.SaveRecurringRule(ctx, &model.RecurringRule{
		Description: "Streaming",
		Amount:      15.99,
		Category:    "Entertainment",
		Frequency:   model.FrequencyMonthly,
		NextDueDate: testutil.Day(2025, time.July, 1),
	})
	require.NoError(t, err)

	count, err := e.ProcessRecurring(ctx)
	require.NoError(t, err)
	assert.Positive(t, count)

	txns, err := store.GetTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, txns, count)
}
