package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ally/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates an active student user with a hashed password and
// unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Role:     models.RoleStudent,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAdmin creates an active admin user.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := CreateTestUser(t, db)
	if err := db.Model(user).Update("role", models.RoleAdmin).Error; err != nil {
		t.Fatalf("failed to promote test user: %v", err)
	}
	user.Role = models.RoleAdmin
	return user
}

// CreateTestBudget creates a budget with the given period type and allowance,
// last reset on the given day.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, period models.PeriodType, allowance float64, lastReset time.Time) *models.Budget {
	t.Helper()

	day := time.Date(lastReset.Year(), lastReset.Month(), lastReset.Day(), 0, 0, 0, 0, lastReset.Location())
	budget := &models.Budget{
		UserID:            userID,
		TotalAllowance:    decimal.NewFromFloat(allowance),
		PeriodType:        period,
		NeedsAllocation:   models.DefaultNeedsAllocation,
		WantsAllocation:   models.DefaultWantsAllocation,
		SavingsAllocation: models.DefaultSavingsAllocation,
		CarryoverAmount:   decimal.Zero,
		LastResetDate:     &day,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestExpense creates an expense on the given date.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID uint, category string, amount float64, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:   userID,
		Category: category,
		Amount:   decimal.NewFromFloat(amount),
		Date:     time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location()),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestGoal creates a savings goal with the given target and progress.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint, target, current float64) *models.SavingsGoal {
	t.Helper()

	goal := &models.SavingsGoal{
		UserID:  userID,
		Name:    fmt.Sprintf("Test Goal %d", nextID()),
		Target:  decimal.NewFromFloat(target),
		Current: decimal.NewFromFloat(current),
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestVideoTip creates an active video tip.
func CreateTestVideoTip(t *testing.T, db *gorm.DB, createdBy uint) *models.VideoTip {
	t.Helper()

	tip := &models.VideoTip{
		Title:     fmt.Sprintf("Test Tip %d", nextID()),
		VideoURL:  "https://www.youtube.com/embed/dQw4w9WgXcQ",
		Category:  "budgeting",
		CreatedBy: createdBy,
		IsActive:  true,
	}
	if err := db.Create(tip).Error; err != nil {
		t.Fatalf("failed to create test video tip: %v", err)
	}
	return tip
}
