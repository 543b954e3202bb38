package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsGoal tracks progress toward a user-defined savings target.
type SavingsGoal struct {
	Base
	UserID     uint            `gorm:"index;not null" json:"user_id"`
	Name       string          `gorm:"not null" json:"name"`
	Target     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"target"`
	Current    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"current"`
	TargetDate *time.Time      `gorm:"type:date" json:"target_date,omitempty"`
}
