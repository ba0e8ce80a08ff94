package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/coinwise/coinwise/internal/common"
	"github.com/coinwise/coinwise/internal/model"
)

func TestUpsertBudgetCreateAndUpdate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.UpsertBudget(ctx, &model.Budget{Category: "Groceries", MonthlyLimit: 400}); err != nil {
		t.Fatalf("UpsertBudget failed: %v", err)
	}

	budget, err := store.GetBudgetByCategory(ctx, "Groceries")
	if err != nil {
		t.Fatalf("GetBudgetByCategory failed: %v", err)
	}
	if budget.MonthlyLimit != 400 {
		t.Errorf("Limit = %v, want 400", budget.MonthlyLimit)
	}
	if budget.LastAlertedMonth != "" {
		t.Errorf("LastAlertedMonth = %q, want empty", budget.LastAlertedMonth)
	}

	// Upserting the same category changes only the limit.
	if err := store.UpdateBudgetAlertMonth(ctx, budget.ID, "2025-08"); err != nil {
		t.Fatalf("UpdateBudgetAlertMonth failed: %v", err)
	}
	if err := store.UpsertBudget(ctx, &model.Budget{Category: "Groceries", MonthlyLimit: 500}); err != nil {
		t.Fatalf("UpsertBudget update failed: %v", err)
	}

	updated, err := store.GetBudgetByCategory(ctx, "Groceries")
	if err != nil {
		t.Fatalf("GetBudgetByCategory failed: %v", err)
	}
	if updated.ID != budget.ID {
		t.Errorf("Upsert created a new row: id %d -> %d", budget.ID, updated.ID)
	}
	if updated.MonthlyLimit != 500 {
		t.Errorf("Limit = %v, want 500", updated.MonthlyLimit)
	}
	if updated.LastAlertedMonth != "2025-08" {
		t.Errorf("LastAlertedMonth = %q, want 2025-08 preserved", updated.LastAlertedMonth)
	}
}

func TestGetBudgetByCategoryNotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetBudgetByCategory(context.Background(), "Missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetBudgetsOrdered(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	for _, category := range []string{"Transport", "Dining", "Groceries"} {
		if err := store.UpsertBudget(ctx, &model.Budget{Category: category, MonthlyLimit: 100}); err != nil {
			t.Fatalf("UpsertBudget failed: %v", err)
		}
	}

	budgets, err := store.GetBudgets(ctx)
	if err != nil {
		t.Fatalf("GetBudgets failed: %v", err)
	}
	if len(budgets) != 3 {
		t.Fatalf("Expected 3 budgets, got %d", len(budgets))
	}
	for i, want := range []string{"Dining", "Groceries", "Transport"} {
		if budgets[i].Category != want {
			t.Errorf("budgets[%d] = %q, want %q", i, budgets[i].Category, want)
		}
	}
}

func TestUpdateBudgetLimit(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.UpsertBudget(ctx, &model.Budget{Category: "Dining", MonthlyLimit: 200}); err != nil {
		t.Fatalf("UpsertBudget failed: %v", err)
	}
	budget, err := store.GetBudgetByCategory(ctx, "Dining")
	if err != nil {
		t.Fatalf("GetBudgetByCategory failed: %v", err)
	}

	if err := store.UpdateBudgetLimit(ctx, budget.ID, 250); err != nil {
		t.Fatalf("UpdateBudgetLimit failed: %v", err)
	}

	updated, err := store.GetBudgetByCategory(ctx, "Dining")
	if err != nil {
		t.Fatalf("GetBudgetByCategory failed: %v", err)
	}
	if updated.MonthlyLimit != 250 {
		t.Errorf("Limit = %v, want 250", updated.MonthlyLimit)
	}

	if err := store.UpdateBudgetLimit(ctx, 999, 100); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateBudgetLimit(ctx, budget.ID, 0); err == nil {
		t.Error("Expected error for non-positive limit")
	}
}

func TestDeleteBudget(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.UpsertBudget(ctx, &model.Budget{Category: "Dining", MonthlyLimit: 200}); err != nil {
		t.Fatalf("UpsertBudget failed: %v", err)
	}
	budget, err := store.GetBudgetByCategory(ctx, "Dining")
	if err != nil {
		t.Fatalf("GetBudgetByCategory failed: %v", err)
	}

	if err := store.DeleteBudget(ctx, budget.ID); err != nil {
		t.Fatalf("DeleteBudget failed: %v", err)
	}
	if _, err := store.GetBudgetByCategory(ctx, "Dining"); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestBudgetValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	if err := store.UpsertBudget(ctx, nil); err == nil {
		t.Error("Expected error for nil budget")
	}
	if err := store.UpsertBudget(ctx, &model.Budget{MonthlyLimit: 100}); err == nil {
		t.Error("Expected error for missing category")
	}
	if err := store.UpsertBudget(ctx, &model.Budget{Category: "Dining", MonthlyLimit: -5}); err == nil {
		t.Error("Expected error for negative limit")
	}
}
