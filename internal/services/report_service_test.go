package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"ally/internal/models"
	"ally/internal/testutil"
)

func TestGetReport(t *testing.T) {
	t.Run("month_period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db).(*reportService)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestBudget(t, db, user.ID, models.PeriodMonthly, 3000, testToday)

		testutil.CreateTestExpense(t, db, user.ID, "Food", 300, testToday)
		testutil.CreateTestExpense(t, db, user.ID, "Wants", 100, testToday)
		// Last month, outside the report window.
		testutil.CreateTestExpense(t, db, user.ID, "Food", 200, testToday.AddDate(0, -1, 0))

		report, err := svc.getReportAt(user.ID, "month", testToday)
		testutil.AssertNoError(t, err)

		if len(report.ExpensesByCategory) != 2 {
			t.Fatalf("expected 2 category slices, got %d", len(report.ExpensesByCategory))
		}
		if report.ExpensesByCategory[0].Name != "Food" || report.ExpensesByCategory[0].Value != 300 {
			t.Errorf("expected Food 300 first, got %+v", report.ExpensesByCategory[0])
		}
		if report.Summary.TotalExpenses != 400 {
			t.Errorf("expected total 400, got %v", report.Summary.TotalExpenses)
		}
		if report.Summary.TopCategory != "Food" {
			t.Errorf("expected top category Food, got %s", report.Summary.TopCategory)
		}
		if len(report.WeeklyTrend) != 7 {
			t.Errorf("expected 7 trend days, got %d", len(report.WeeklyTrend))
		}
		if report.WeeklyTrend[0].Budget != 100 {
			t.Errorf("expected daily budget 100, got %v", report.WeeklyTrend[0].Budget)
		}
		if len(report.MonthlyOverview) != 4 {
			t.Errorf("expected 4 months of overview, got %d", len(report.MonthlyOverview))
		}
		if report.MonthlyOverview[3].Month != "Mar" || report.MonthlyOverview[3].Expenses != 400 {
			t.Errorf("expected current month Mar with 400 expenses, got %+v", report.MonthlyOverview[3])
		}
		if report.BudgetVsActual[0].Category != "Needs" || report.BudgetVsActual[0].Budget != 1500 {
			t.Errorf("expected Needs budget 1500, got %+v", report.BudgetVsActual[0])
		}
		if len(report.Recommendations) == 0 {
			t.Error("expected recommendations")
		}
	})

	t.Run("week_period_windows_from_sunday", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db).(*reportService)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestBudget(t, db, user.ID, models.PeriodWeekly, 700, testToday)

		// Before this week's Sunday (March 15).
		testutil.CreateTestExpense(t, db, user.ID, "Food", 500, testToday.AddDate(0, 0, -5))
		testutil.CreateTestExpense(t, db, user.ID, "Food", 50, testToday)

		report, err := svc.getReportAt(user.ID, "week", testToday)
		testutil.AssertNoError(t, err)

		if report.Summary.TotalExpenses != 50 {
			t.Errorf("expected only this week's 50, got %v", report.Summary.TotalExpenses)
		}
		if report.Summary.AvgDaily != 7 {
			t.Errorf("expected avg daily round(50/7)=7, got %v", report.Summary.AvgDaily)
		}
	})

	t.Run("no_budget_uses_default_allowance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db).(*reportService)
		user := testutil.CreateTestUser(t, db)

		report, err := svc.getReportAt(user.ID, "month", testToday)
		testutil.AssertNoError(t, err)

		if report.Summary.TopCategory != "N/A" {
			t.Errorf("expected N/A top category, got %s", report.Summary.TopCategory)
		}
		if report.WeeklyTrend[0].Budget != 83 {
			t.Errorf("expected daily budget round(2500/30)=83, got %v", report.WeeklyTrend[0].Budget)
		}
	})
}

func TestGetDashboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(db).(*reportService)
	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestBudget(t, db, user.ID, models.PeriodMonthly, 2500, testToday)
	db.Model(&models.Budget{}).Where("user_id = ?", user.ID).
		Updates(map[string]interface{}{
			"needs_spent": decimal.NewFromInt(200),
			"wants_spent": decimal.NewFromInt(100),
		})

	testutil.CreateTestExpense(t, db, user.ID, "Food", 200, testToday)
	testutil.CreateTestExpense(t, db, user.ID, "Wants", 100, testToday.AddDate(0, 0, -1))

	// Finished goals are never featured.
	testutil.CreateTestGoal(t, db, user.ID, 500, 500)
	unfinished := testutil.CreateTestGoal(t, db, user.ID, 1000, 400)

	dash, err := svc.getDashboardAt(user.ID, testToday)
	testutil.AssertNoError(t, err)

	if dash.Allowance != 2500 {
		t.Errorf("expected allowance 2500, got %v", dash.Allowance)
	}
	if dash.Spent != 300 {
		t.Errorf("expected spent 300, got %v", dash.Spent)
	}
	if dash.Balance != 2200 {
		t.Errorf("expected balance 2200, got %v", dash.Balance)
	}
	if dash.BudgetUsed != 12 {
		t.Errorf("expected 12%% budget used, got %d", dash.BudgetUsed)
	}
	if len(dash.RecentExpenses) != 2 {
		t.Fatalf("expected 2 recent expenses, got %d", len(dash.RecentExpenses))
	}
	if dash.RecentExpenses[0].Date != "Today" {
		t.Errorf("expected relative date Today, got %s", dash.RecentExpenses[0].Date)
	}
	if dash.RecentExpenses[1].Date != "Yesterday" {
		t.Errorf("expected relative date Yesterday, got %s", dash.RecentExpenses[1].Date)
	}
	if dash.SavingsGoal == nil {
		t.Fatal("expected a featured savings goal")
	}
	if dash.SavingsGoal.Target != unfinished.Target.InexactFloat64() {
		t.Errorf("expected the unfinished goal, got %+v", dash.SavingsGoal)
	}
}

func TestGetDashboardOverspendBalanceFloorsAtZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(db).(*reportService)
	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestBudget(t, db, user.ID, models.PeriodMonthly, 100, testToday)
	db.Model(&models.Budget{}).Where("user_id = ?", user.ID).
		Update("wants_spent", decimal.NewFromInt(150))

	dash, err := svc.getDashboardAt(user.ID, testToday)
	testutil.AssertNoError(t, err)

	if dash.Balance != 0 {
		t.Errorf("expected balance floored at zero, got %v", dash.Balance)
	}
}

func TestGetDiscipline(t *testing.T) {
	t.Run("wants_warning_alert", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db).(*reportService)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestBudget(t, db, user.ID, models.PeriodWeekly, 1000, testToday)
		// Wants budget is 30% = 300; 270 spent is 90%.
		db.Model(&models.Budget{}).Where("user_id = ?", user.ID).
			Update("wants_spent", decimal.NewFromInt(270))

		disc, err := svc.getDisciplineAt(user.ID, testToday)
		testutil.AssertNoError(t, err)

		found := false
		for _, a := range disc.Alerts {
			if a.ID == "wants-warning" {
				found = true
				if a.Percentage != 90 {
					t.Errorf("expected 90%%, got %d", a.Percentage)
				}
			}
		}
		if !found {
			t.Errorf("expected wants-warning alert, got %+v", disc.Alerts)
		}
	})

	t.Run("savings_success_alert_and_bonus", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db).(*reportService)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestBudget(t, db, user.ID, models.PeriodWeekly, 1000, testToday)
		// Savings target is 20% = 200.
		db.Model(&models.Budget{}).Where("user_id = ?", user.ID).
			Update("savings_spent", decimal.NewFromInt(250))

		disc, err := svc.getDisciplineAt(user.ID, testToday)
		testutil.AssertNoError(t, err)

		found := false
		for _, a := range disc.Alerts {
			if a.ID == "savings-success" {
				found = true
			}
		}
		if !found {
			t.Errorf("expected savings-success alert, got %+v", disc.Alerts)
		}

		// 100 base + 10 savings bonus - 25 for zero tracking days.
		if disc.DisciplineScore != 85 {
			t.Errorf("expected score 85, got %d", disc.DisciplineScore)
		}
	})

	t.Run("zero_wants_budget_with_spending_takes_full_penalty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db).(*reportService)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestBudget(t, db, user.ID, models.PeriodWeekly, 1000, testToday)
		db.Model(&models.Budget{}).Where("user_id = ?", user.ID).
			Updates(map[string]interface{}{
				"wants_allocation": 0,
				"wants_spent":      decimal.NewFromInt(100),
			})

		disc, err := svc.getDisciplineAt(user.ID, testToday)
		testutil.AssertNoError(t, err)

		// 100 base - 30 full wants penalty - 25 for zero tracking days.
		if disc.DisciplineScore != 45 {
			t.Errorf("expected score 45, got %d", disc.DisciplineScore)
		}
	})

	t.Run("score_clamped_to_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db).(*reportService)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestBudget(t, db, user.ID, models.PeriodWeekly, 100, testToday)
		db.Model(&models.Budget{}).Where("user_id = ?", user.ID).
			Updates(map[string]interface{}{
				"needs_spent": decimal.NewFromInt(500),
				"wants_spent": decimal.NewFromInt(500),
			})

		disc, err := svc.getDisciplineAt(user.ID, testToday)
		testutil.AssertNoError(t, err)

		if disc.DisciplineScore < 0 || disc.DisciplineScore > 100 {
			t.Errorf("expected score within 0-100, got %d", disc.DisciplineScore)
		}
	})

	t.Run("streak_counts_tracked_days", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db).(*reportService)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestBudget(t, db, user.ID, models.PeriodWeekly, 1000, testToday)

		testutil.CreateTestExpense(t, db, user.ID, "Food", 10, testToday)
		testutil.CreateTestExpense(t, db, user.ID, "Food", 10, testToday.AddDate(0, 0, -1))
		testutil.CreateTestExpense(t, db, user.ID, "Food", 10, testToday.AddDate(0, 0, -1))
		testutil.CreateTestExpense(t, db, user.ID, "Food", 10, testToday.AddDate(0, 0, -3))

		disc, err := svc.getDisciplineAt(user.ID, testToday)
		testutil.AssertNoError(t, err)

		if disc.Streak != 3 {
			t.Errorf("expected streak 3, got %d", disc.Streak)
		}
		if len(disc.Rules) != 5 {
			t.Errorf("expected 5 rules, got %d", len(disc.Rules))
		}
	})
}
