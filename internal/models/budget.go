package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodType is the cadence over which a budget's allowance and spend
// tracking resets.
type PeriodType string

const (
	PeriodDaily   PeriodType = "daily"
	PeriodWeekly  PeriodType = "weekly"
	PeriodMonthly PeriodType = "monthly"
)

// Valid reports whether p is one of the supported period types.
func (p PeriodType) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

// Default budget values used when a user fetches their budget before ever
// configuring one.
const (
	DefaultNeedsAllocation   = 50
	DefaultWantsAllocation   = 30
	DefaultSavingsAllocation = 20
)

// DefaultAllowance is the seed allowance for lazily created budgets.
var DefaultAllowance = decimal.NewFromInt(2500)

// Budget holds one user's allowance plan and the cached spend aggregates for
// the current period. The *Spent columns are derived data: they are
// recomputed wholesale from the expenses table by the budget service, never
// updated incrementally.
type Budget struct {
	Base
	UserID            uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalAllowance    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_allowance"`
	PeriodType        PeriodType      `gorm:"type:varchar(10);not null;default:monthly" json:"period_type"`
	NeedsAllocation   int             `gorm:"not null" json:"needs_allocation"`
	WantsAllocation   int             `gorm:"not null" json:"wants_allocation"`
	SavingsAllocation int             `gorm:"not null" json:"savings_allocation"`
	NeedsSpent        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"needs_spent"`
	WantsSpent        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"wants_spent"`
	SavingsSpent      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"savings_spent"`
	CarryoverAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"carryover_amount"`
	LastResetDate     *time.Time      `gorm:"type:date" json:"last_reset_date,omitempty"`
}

// TotalSpent returns the sum of the three cached spend aggregates.
func (b *Budget) TotalSpent() decimal.Decimal {
	return b.NeedsSpent.Add(b.WantsSpent).Add(b.SavingsSpent)
}

// AvailableBudget returns the allowance plus any carryover from the previous
// day. Carryover is only ever non-zero for daily budgets.
func (b *Budget) AvailableBudget() decimal.Decimal {
	return b.TotalAllowance.Add(b.CarryoverAmount)
}
