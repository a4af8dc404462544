package models

import "github.com/shopspring/decimal"

// Budget is a monthly spending limit. A user has at most one budget per
// (month, year).
type Budget struct {
	Base
	UserID string          `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_period" json:"user_id"`
	Amount decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	Month  int             `gorm:"not null;uniqueIndex:idx_budgets_user_period" json:"month"`
	Year   int             `gorm:"not null;uniqueIndex:idx_budgets_user_period" json:"year"`
}
