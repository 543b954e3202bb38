package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ally/internal/models"
	"ally/internal/testutil"
)

func TestCreateExpense(t *testing.T) {
	t.Run("refreshes_budget_aggregates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgets := NewBudgetService(db)
		svc := NewExpenseService(db, budgets)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestBudget(t, db, user.ID, models.PeriodMonthly, 2500, time.Now())

		expense, err := svc.CreateExpense(user.ID, "food", decimal.NewFromInt(120), time.Now(), "lunch")
		testutil.AssertNoError(t, err)
		if expense.ID == 0 {
			t.Fatal("expected non-zero expense ID")
		}

		var budget models.Budget
		db.Where("user_id = ?", user.ID).First(&budget)
		if !budget.NeedsSpent.Equal(decimal.NewFromInt(120)) {
			t.Errorf("expected needsSpent 120 after create, got %v", budget.NeedsSpent)
		}
	})

	t.Run("without_budget_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db, NewBudgetService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(user.ID, "food", decimal.NewFromInt(50), time.Now(), "")
		testutil.AssertNoError(t, err)
	})
}

func TestGetUserExpenses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db, NewBudgetService(db))
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestExpense(t, db, user.ID, "food", 10, time.Now().AddDate(0, 0, -2))
	testutil.CreateTestExpense(t, db, user.ID, "wants", 20, time.Now())
	testutil.CreateTestExpense(t, db, other.ID, "food", 99, time.Now())

	expenses, err := svc.GetUserExpenses(user.ID)
	testutil.AssertNoError(t, err)

	if len(expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(expenses))
	}
	if expenses[0].Category != "wants" {
		t.Errorf("expected newest expense first, got %s", expenses[0].Category)
	}
}

func TestDeleteExpense(t *testing.T) {
	t.Run("refreshes_budget_aggregates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		budgets := NewBudgetService(db)
		svc := NewExpenseService(db, budgets)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestBudget(t, db, user.ID, models.PeriodMonthly, 2500, time.Now())

		expense, err := svc.CreateExpense(user.ID, "savings", decimal.NewFromInt(200), time.Now(), "")
		testutil.AssertNoError(t, err)

		err = svc.DeleteExpense(user.ID, expense.ID)
		testutil.AssertNoError(t, err)

		var budget models.Budget
		db.Where("user_id = ?", user.ID).First(&budget)
		if !budget.SavingsSpent.IsZero() {
			t.Errorf("expected savingsSpent zero after delete, got %v", budget.SavingsSpent)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db, NewBudgetService(db))
		user := testutil.CreateTestUser(t, db)

		err := svc.DeleteExpense(user.ID, 9999)
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})

	t.Run("owner_scoped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db, NewBudgetService(db))
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, owner.ID, "food", 10, time.Now())

		err := svc.DeleteExpense(intruder.ID, expense.ID)
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}
