package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single spending record owned by one user.
// CategoryName is a snapshot taken when the expense is written and is not
// refreshed when the category is renamed.
type Expense struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;index:idx_expenses_user_date" json:"user_id"`
	Amount       decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	CategoryID   string          `gorm:"type:uuid;not null;index" json:"category_id"`
	CategoryName string          `gorm:"size:50;not null" json:"category_name"`
	Date         time.Time       `gorm:"not null;index:idx_expenses_user_date" json:"date"`
	Notes        *string         `gorm:"size:500" json:"notes,omitempty"`
}
