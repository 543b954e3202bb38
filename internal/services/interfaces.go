package services

import (
	"time"

	"github.com/shopspring/decimal"

	"ally/internal/models"
	"ally/internal/pagination"
)

// UserServicer defines user business logic operations.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	GetActiveUserByID(id uint) (*models.User, error)
	FindOrCreateSupabaseUser(supabaseID, email, firstName, lastName string) (*models.User, error)
	GetAllUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	TotalSaved(userID uint) (float64, error)
}

// BudgetServicer defines budget accounting operations.
type BudgetServicer interface {
	GetBudget(userID uint) (*BudgetSnapshot, error)
	UpdateBudget(userID uint, in BudgetUpdate) (*BudgetSnapshot, error)
	RecalculateSpent(userID uint) error
}

// ExpenseServicer defines expense business logic operations.
type ExpenseServicer interface {
	GetUserExpenses(userID uint) ([]models.Expense, error)
	CreateExpense(userID uint, category string, amount decimal.Decimal, date time.Time, note string) (*models.Expense, error)
	DeleteExpense(userID, expenseID uint) error
}

// SavingsGoalServicer defines savings goal business logic operations.
type SavingsGoalServicer interface {
	GetUserGoals(userID uint) ([]models.SavingsGoal, error)
	CreateGoal(userID uint, name string, target decimal.Decimal, targetDate *time.Time) (*models.SavingsGoal, error)
	AddToGoal(userID, goalID uint, amount decimal.Decimal) (*models.SavingsGoal, error)
	UpdateGoal(userID, goalID uint, name string, target decimal.Decimal, targetDate *time.Time, clearTargetDate bool) (*models.SavingsGoal, error)
	DeleteGoal(userID, goalID uint) error
}

// VideoTipServicer defines video tip business logic operations.
type VideoTipServicer interface {
	GetActiveTips() ([]models.VideoTip, error)
	GetAllTips() ([]models.VideoTip, error)
	CreateTip(createdBy uint, title, description, videoURL, category string) (*models.VideoTip, error)
	UpdateTip(tipID uint, title, description, videoURL, category string) (*models.VideoTip, error)
	DeleteTip(tipID uint) error
}

// ReportServicer defines the read-only analytics operations.
type ReportServicer interface {
	GetReport(userID uint, period string) (*Report, error)
	GetDashboard(userID uint) (*Dashboard, error)
	GetDiscipline(userID uint) (*Discipline, error)
}
