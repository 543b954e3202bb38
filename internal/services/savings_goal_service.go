package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "ally/internal/errors"
	"ally/internal/models"
)

// savingsGoalService handles savings goal business logic.
type savingsGoalService struct {
	db *gorm.DB
}

// NewSavingsGoalService creates a new SavingsGoalServicer.
func NewSavingsGoalService(db *gorm.DB) SavingsGoalServicer {
	return &savingsGoalService{db: db}
}

// GetUserGoals returns the user's savings goals, newest first.
func (s *savingsGoalService) GetUserGoals(userID uint) ([]models.SavingsGoal, error) {
	var goals []models.SavingsGoal
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&goals).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goals, nil
}

// CreateGoal stores a new savings goal starting at zero progress.
func (s *savingsGoalService) CreateGoal(userID uint, name string, target decimal.Decimal, targetDate *time.Time) (*models.SavingsGoal, error) {
	goal := &models.SavingsGoal{
		UserID:     userID,
		Name:       name,
		Target:     target,
		Current:    decimal.Zero,
		TargetDate: targetDate,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// AddToGoal adds an amount to the goal's saved progress.
func (s *savingsGoalService) AddToGoal(userID, goalID uint, amount decimal.Decimal) (*models.SavingsGoal, error) {
	goal, err := s.getGoal(userID, goalID)
	if err != nil {
		return nil, err
	}

	goal.Current = goal.Current.Add(amount)
	if err := s.db.Model(goal).Update("current", goal.Current).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// UpdateGoal edits the goal's name, target, and target date. Empty name and
// zero target leave the existing values in place.
func (s *savingsGoalService) UpdateGoal(userID, goalID uint, name string, target decimal.Decimal, targetDate *time.Time, clearTargetDate bool) (*models.SavingsGoal, error) {
	goal, err := s.getGoal(userID, goalID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		goal.Name = name
	}
	if target.IsPositive() {
		goal.Target = target
	}
	if targetDate != nil {
		goal.TargetDate = targetDate
	} else if clearTargetDate {
		goal.TargetDate = nil
	}

	err = s.db.Model(goal).Updates(map[string]interface{}{
		"name":        goal.Name,
		"target":      goal.Target,
		"target_date": goal.TargetDate,
	}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// DeleteGoal removes a savings goal owned by the user.
func (s *savingsGoalService) DeleteGoal(userID, goalID uint) error {
	goal, err := s.getGoal(userID, goalID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *savingsGoalService) getGoal(userID, goalID uint) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}
