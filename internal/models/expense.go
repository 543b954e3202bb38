package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single spending entry. Category is free text; the budget
// service buckets it case-insensitively into needs/wants/savings when
// recomputing spend aggregates.
type Expense struct {
	Base
	UserID   uint            `gorm:"index;not null" json:"user_id"`
	Category string          `gorm:"not null" json:"category"`
	Amount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Date     time.Time       `gorm:"type:date;not null;index" json:"date"`
	Note     string          `json:"note"`
}
