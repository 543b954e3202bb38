package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "ally/internal/errors"
	"ally/internal/logger"
	"ally/internal/models"
)

// budgetService owns the budget accounting rules: recomputing the cached
// spend aggregates from raw expenses and applying the period reset/carryover
// before a budget is read or returned.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// BudgetSnapshot is the outward-facing budget view. Amounts are rendered as
// plain numbers for the frontend.
type BudgetSnapshot struct {
	TotalAllowance    float64 `json:"totalAllowance"`
	PeriodType        string  `json:"periodType"`
	NeedsAllocation   int     `json:"needsAllocation"`
	WantsAllocation   int     `json:"wantsAllocation"`
	SavingsAllocation int     `json:"savingsAllocation"`
	NeedsSpent        float64 `json:"needsSpent"`
	WantsSpent        float64 `json:"wantsSpent"`
	SavingsSpent      float64 `json:"savingsSpent"`
	CarryoverAmount   float64 `json:"carryoverAmount"`
	AvailableBudget   float64 `json:"availableBudget"`
}

// BudgetUpdate holds the user-settable budget fields.
type BudgetUpdate struct {
	TotalAllowance    decimal.Decimal
	PeriodType        string
	NeedsAllocation   int
	WantsAllocation   int
	SavingsAllocation int
}

// bucket is the closed set of spend buckets that free-text expense
// categories map into.
type bucket int

const (
	bucketNeeds bucket = iota
	bucketWants
	bucketSavings
	bucketUnclassified
)

// bucketFor maps an expense category into a spend bucket. Matching is
// case-insensitive. Unclassified categories are deliberately excluded from
// all three spent totals.
func bucketFor(category string) bucket {
	switch strings.ToLower(category) {
	case "food", "transportation", "school":
		return bucketNeeds
	case "wants", "others":
		return bucketWants
	case "savings":
		return bucketSavings
	}
	return bucketUnclassified
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sameDay reports whether a and b fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// periodStart returns the first day of the current period for the given
// period type. Weeks start on Sunday, matching the frontend's calendar.
func periodStart(p models.PeriodType, today time.Time) time.Time {
	day := startOfDay(today)
	switch p {
	case models.PeriodDaily:
		return day
	case models.PeriodWeekly:
		return day.AddDate(0, 0, -int(day.Weekday()))
	default:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	}
}

// rollover applies the period reset for the given calendar day to the budget
// in memory. It is a pure, idempotent step: calling it twice with the same
// day leaves the budget unchanged after the first call. Returns true when
// the budget changed and must be persisted.
//
// Daily budgets carry the unspent remainder of the ending day forward,
// floored at zero so overspending never produces negative carryover. Weekly
// and monthly budgets only record that the check ran; their spend totals are
// kept current purely by the aggregator's period windowing.
func rollover(b *models.Budget, today time.Time) bool {
	if b.LastResetDate != nil && sameDay(*b.LastResetDate, today) {
		return false
	}

	if b.PeriodType == models.PeriodDaily {
		leftover := b.AvailableBudget().Sub(b.TotalSpent())
		if leftover.IsNegative() {
			leftover = decimal.Zero
		}
		b.CarryoverAmount = leftover
		b.NeedsSpent = decimal.Zero
		b.WantsSpent = decimal.Zero
		b.SavingsSpent = decimal.Zero
	}

	day := startOfDay(today)
	b.LastResetDate = &day
	return true
}

// categoryTotal is a grouped-sum row from the expenses table.
type categoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// recalculateSpentAt recomputes the three spend aggregates from the expense
// rows in the current period window and overwrites them on the budget row.
// A missing budget row is a no-op, not an error.
func (s *budgetService) recalculateSpentAt(tx *gorm.DB, userID uint, today time.Time) error {
	var budget models.Budget
	if err := tx.Where("user_id = ?", userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rows []categoryTotal
	err := tx.Model(&models.Expense{}).
		Select("category, SUM(amount) AS total").
		Where("user_id = ? AND date >= ?", userID, periodStart(budget.PeriodType, today)).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	needs, wants, savings := decimal.Zero, decimal.Zero, decimal.Zero
	for _, row := range rows {
		switch bucketFor(row.Category) {
		case bucketNeeds:
			needs = needs.Add(row.Total)
		case bucketWants:
			wants = wants.Add(row.Total)
		case bucketSavings:
			savings = savings.Add(row.Total)
		case bucketUnclassified:
			logger.Get().Debugw("expense category matches no bucket",
				"user_id", userID,
				"category", row.Category,
			)
		}
	}

	err = tx.Model(&models.Budget{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"needs_spent":   needs,
		"wants_spent":   wants,
		"savings_spent": savings,
	}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// applyPeriodRolloverAt runs the rollover step for the given day and, for
// daily budgets, immediately re-runs the aggregator so expenses already
// logged for today are reflected instead of left at zero.
func (s *budgetService) applyPeriodRolloverAt(tx *gorm.DB, userID uint, today time.Time) error {
	var budget models.Budget
	if err := tx.Where("user_id = ?", userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if !rollover(&budget, today) {
		return nil
	}

	err := tx.Model(&models.Budget{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"needs_spent":      budget.NeedsSpent,
		"wants_spent":      budget.WantsSpent,
		"savings_spent":    budget.SavingsSpent,
		"carryover_amount": budget.CarryoverAmount,
		"last_reset_date":  budget.LastResetDate,
	}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if budget.PeriodType == models.PeriodDaily {
		return s.recalculateSpentAt(tx, userID, today)
	}
	return nil
}

// getBudgetAt assembles the budget snapshot for the given day, lazily
// creating a default budget on first fetch.
func (s *budgetService) getBudgetAt(userID uint, today time.Time) (*BudgetSnapshot, error) {
	var budget models.Budget

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.applyPeriodRolloverAt(tx, userID, today); err != nil {
			return err
		}

		err := tx.Where("user_id = ?", userID).First(&budget).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			budget = defaultBudget(userID, today)
			if err := tx.Create(&budget).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			return nil
		}
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshot(&budget), nil
}

// updateBudgetAt applies a user's budget settings and refreshes derived
// state for the given day.
func (s *budgetService) updateBudgetAt(userID uint, in BudgetUpdate, today time.Time) (*BudgetSnapshot, error) {
	if in.NeedsAllocation+in.WantsAllocation+in.SavingsAllocation > 100 {
		return nil, apperrors.ErrAllocationSum
	}

	// Invalid or missing period types fall back to monthly.
	period := models.PeriodType(in.PeriodType)
	if !period.Valid() {
		period = models.PeriodMonthly
	}

	var budget models.Budget
	day := startOfDay(today)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Budget
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			budget = models.Budget{
				UserID:            userID,
				TotalAllowance:    in.TotalAllowance,
				PeriodType:        period,
				NeedsAllocation:   in.NeedsAllocation,
				WantsAllocation:   in.WantsAllocation,
				SavingsAllocation: in.SavingsAllocation,
				CarryoverAmount:   decimal.Zero,
				LastResetDate:     &day,
			}
			if err := tx.Create(&budget).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		case err != nil:
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		default:
			// Carryover only survives a daily-to-daily update; any period
			// change discards it.
			carryover := decimal.Zero
			if existing.PeriodType == models.PeriodDaily && period == models.PeriodDaily {
				carryover = existing.CarryoverAmount
			}

			err := tx.Model(&existing).Updates(map[string]interface{}{
				"total_allowance":    in.TotalAllowance,
				"period_type":        period,
				"needs_allocation":   in.NeedsAllocation,
				"wants_allocation":   in.WantsAllocation,
				"savings_allocation": in.SavingsAllocation,
				"carryover_amount":   carryover,
				"last_reset_date":    day,
			}).Error
			if err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		// A period-type change must not leave stale spend data behind.
		if err := s.applyPeriodRolloverAt(tx, userID, today); err != nil {
			return err
		}
		if err := s.recalculateSpentAt(tx, userID, today); err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).First(&budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshot(&budget), nil
}

// GetBudget runs the period rollover and returns the current budget
// snapshot, creating a default budget on first fetch.
func (s *budgetService) GetBudget(userID uint) (*BudgetSnapshot, error) {
	return s.getBudgetAt(userID, time.Now())
}

// UpdateBudget validates and stores the user's budget settings, then
// refreshes the rollover state and spend aggregates.
func (s *budgetService) UpdateBudget(userID uint, in BudgetUpdate) (*BudgetSnapshot, error) {
	return s.updateBudgetAt(userID, in, time.Now())
}

// RecalculateSpent recomputes the cached spend aggregates from the expense
// table. Every expense mutation must be followed by a call to this method;
// the expense service is the call site enforcing that contract.
func (s *budgetService) RecalculateSpent(userID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.recalculateSpentAt(tx, userID, time.Now())
	})
}

// defaultBudget seeds the lazily created budget: 2500 allowance, monthly
// period, 50/30/20 split, no carryover.
func defaultBudget(userID uint, today time.Time) models.Budget {
	day := startOfDay(today)
	return models.Budget{
		UserID:            userID,
		TotalAllowance:    models.DefaultAllowance,
		PeriodType:        models.PeriodMonthly,
		NeedsAllocation:   models.DefaultNeedsAllocation,
		WantsAllocation:   models.DefaultWantsAllocation,
		SavingsAllocation: models.DefaultSavingsAllocation,
		CarryoverAmount:   decimal.Zero,
		LastResetDate:     &day,
	}
}

// snapshot converts a budget row into its outward-facing view.
func snapshot(b *models.Budget) *BudgetSnapshot {
	return &BudgetSnapshot{
		TotalAllowance:    b.TotalAllowance.InexactFloat64(),
		PeriodType:        string(b.PeriodType),
		NeedsAllocation:   b.NeedsAllocation,
		WantsAllocation:   b.WantsAllocation,
		SavingsAllocation: b.SavingsAllocation,
		NeedsSpent:        b.NeedsSpent.InexactFloat64(),
		WantsSpent:        b.WantsSpent.InexactFloat64(),
		SavingsSpent:      b.SavingsSpent.InexactFloat64(),
		CarryoverAmount:   b.CarryoverAmount.InexactFloat64(),
		AvailableBudget:   b.AvailableBudget().InexactFloat64(),
	}
}
