package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "ally/internal/errors"
	"ally/internal/models"
)

// expenseService handles expense CRUD. Every mutation is followed by a
// budget spend recompute: the cached aggregates on the budget row are only
// consistent because this service upholds that contract.
type expenseService struct {
	db      *gorm.DB
	budgets BudgetServicer
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, budgets BudgetServicer) ExpenseServicer {
	return &expenseService{db: db, budgets: budgets}
}

// GetUserExpenses returns the user's expenses, newest first.
func (s *expenseService) GetUserExpenses(userID uint) ([]models.Expense, error) {
	var expenses []models.Expense
	err := s.db.Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// CreateExpense stores a new expense and refreshes the budget aggregates.
func (s *expenseService) CreateExpense(userID uint, category string, amount decimal.Decimal, date time.Time, note string) (*models.Expense, error) {
	expense := &models.Expense{
		UserID:   userID,
		Category: category,
		Amount:   amount,
		Date:     date,
		Note:     note,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.budgets.RecalculateSpent(userID); err != nil {
		return nil, err
	}

	return expense, nil
}

// DeleteExpense removes an expense owned by the user and refreshes the
// budget aggregates.
func (s *expenseService) DeleteExpense(userID, expenseID uint) error {
	var expense models.Expense
	err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrExpenseNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.budgets.RecalculateSpent(userID)
}
