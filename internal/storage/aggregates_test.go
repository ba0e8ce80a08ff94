package storage

import (
	"context"
	"math"
	"testing"
	"time"
)

func seedAggregateFixture(t *testing.T, store *SQLiteStorage) {
	t.Helper()

	// June: 100 groceries. July: 200 groceries, 60 dining. August: 300
	// groceries split over two purchases.
	seedTransaction(t, store, testDay(2025, time.June, 10), 100, "Groceries", "Groceries")
	seedTransaction(t, store, testDay(2025, time.July, 3), 200, "Groceries", "Groceries")
	seedTransaction(t, store, testDay(2025, time.July, 18), 60, "Dinner out", "Dining")
	seedTransaction(t, store, testDay(2025, time.August, 2), 120, "Groceries", "Groceries")
	seedTransaction(t, store, testDay(2025, time.August, 25), 180, "Groceries", "Groceries")
}

func TestGetCategoryTotalsForMonth(t *testing.T) {
	store := createTestStorage(t)
	seedAggregateFixture(t, store)

	totals, err := store.GetCategoryTotalsForMonth(context.Background(), testDay(2025, time.July, 15))
	if err != nil {
		t.Fatalf("GetCategoryTotalsForMonth failed: %v", err)
	}

	if len(totals) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(totals))
	}
	if totals["Groceries"] != 200 {
		t.Errorf("Groceries = %v, want 200", totals["Groceries"])
	}
	if totals["Dining"] != 60 {
		t.Errorf("Dining = %v, want 60", totals["Dining"])
	}
}

func TestGetTotalForMonth(t *testing.T) {
	store := createTestStorage(t)
	seedAggregateFixture(t, store)
	ctx := context.Background()

	total, err := store.GetTotalForMonth(ctx, testDay(2025, time.August, 1))
	if err != nil {
		t.Fatalf("GetTotalForMonth failed: %v", err)
	}
	if total != 300 {
		t.Errorf("August total = %v, want 300", total)
	}

	empty, err := store.GetTotalForMonth(ctx, testDay(2024, time.January, 1))
	if err != nil {
		t.Fatalf("GetTotalForMonth failed: %v", err)
	}
	if empty != 0 {
		t.Errorf("Empty month total = %v, want 0", empty)
	}
}

func TestGetMonthlyTotalsForYear(t *testing.T) {
	store := createTestStorage(t)
	seedAggregateFixture(t, store)
	ctx := context.Background()

	totals, err := store.GetMonthlyTotalsForYear(ctx, 2025)
	if err != nil {
		t.Fatalf("GetMonthlyTotalsForYear failed: %v", err)
	}

	want := map[string]float64{"2025-06": 100, "2025-07": 260, "2025-08": 300}
	if len(totals) != len(want) {
		t.Fatalf("Expected %d months, got %d: %v", len(want), len(totals), totals)
	}
	for month, amount := range want {
		if totals[month] != amount {
			t.Errorf("%s = %v, want %v", month, totals[month], amount)
		}
	}

	if _, err := store.GetMonthlyTotalsForYear(ctx, 0); err == nil {
		t.Error("Expected error for year 0")
	}
}

func TestGetSpentForCategoryMonth(t *testing.T) {
	store := createTestStorage(t)
	seedAggregateFixture(t, store)
	ctx := context.Background()

	spent, err := store.GetSpentForCategoryMonth(ctx, "Groceries", testDay(2025, time.August, 31))
	if err != nil {
		t.Fatalf("GetSpentForCategoryMonth failed: %v", err)
	}
	if spent != 300 {
		t.Errorf("Groceries August = %v, want 300", spent)
	}

	none, err := store.GetSpentForCategoryMonth(ctx, "Dining", testDay(2025, time.August, 1))
	if err != nil {
		t.Fatalf("GetSpentForCategoryMonth failed: %v", err)
	}
	if none != 0 {
		t.Errorf("Dining August = %v, want 0", none)
	}
}

func TestGetCategoryAverages(t *testing.T) {
	store := createTestStorage(t)
	seedAggregateFixture(t, store)

	averages, err := store.GetCategoryAverages(context.Background())
	if err != nil {
		t.Fatalf("GetCategoryAverages failed: %v", err)
	}

	// Groceries: (100+200+120+180)/4 = 150 per transaction.
	if math.Abs(averages["Groceries"]-150) > 1e-9 {
		t.Errorf("Groceries average = %v, want 150", averages["Groceries"])
	}
	if math.Abs(averages["Dining"]-60) > 1e-9 {
		t.Errorf("Dining average = %v, want 60", averages["Dining"])
	}
}

func TestGetAverageMonthlySpending(t *testing.T) {
	store := createTestStorage(t)
	seedAggregateFixture(t, store)

	averages, err := store.GetAverageMonthlySpending(context.Background(), testDay(2025, time.July, 1))
	if err != nil {
		t.Fatalf("GetAverageMonthlySpending failed: %v", err)
	}

	// Groceries since July: (200 + 300) / 2 months = 250. June is excluded.
	if math.Abs(averages["Groceries"]-250) > 1e-9 {
		t.Errorf("Groceries monthly average = %v, want 250", averages["Groceries"])
	}
	if math.Abs(averages["Dining"]-60) > 1e-9 {
		t.Errorf("Dining monthly average = %v, want 60", averages["Dining"])
	}
}

func TestGetDistinctCategories(t *testing.T) {
	store := createTestStorage(t)
	seedAggregateFixture(t, store)

	categories, err := store.GetDistinctCategories(context.Background())
	if err != nil {
		t.Fatalf("GetDistinctCategories failed: %v", err)
	}

	if len(categories) != 2 || categories[0] != "Dining" || categories[1] != "Groceries" {
		t.Errorf("Categories = %v, want [Dining Groceries]", categories)
	}
}
