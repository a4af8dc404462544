package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Savings goal display defaults.
const (
	DefaultGoalIcon  = "piggy-bank"
	DefaultGoalColor = "#84934A"
)

// SavingsTransactionType is the direction of a savings ledger entry.
type SavingsTransactionType string

const (
	SavingsDeposit  SavingsTransactionType = "deposit"
	SavingsWithdraw SavingsTransactionType = "withdraw"
)

// Valid reports whether t is a known transaction type.
func (t SavingsTransactionType) Valid() bool {
	return t == SavingsDeposit || t == SavingsWithdraw
}

// SavingsGoal is a target amount with a running balance maintained by its
// transaction ledger. Once IsCompleted is set it stays set.
type SavingsGoal struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	Description   *string         `gorm:"size:500" json:"description,omitempty"`
	TargetAmount  decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"current_amount"`
	Icon          string          `gorm:"size:50" json:"icon"`
	Color         string          `gorm:"size:7" json:"color"`
	TargetDate    *time.Time      `json:"target_date,omitempty"`
	IsCompleted   bool            `gorm:"default:false" json:"is_completed"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`

	Transactions []SavingsTransaction `gorm:"foreignKey:SavingsGoalID;constraint:OnDelete:CASCADE" json:"-"`
}

// RemainingAmount is the amount still needed to reach the target, never negative.
func (g *SavingsGoal) RemainingAmount() decimal.Decimal {
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// PercentageComplete is current/target as a percentage rounded to 2dp and
// capped at 100.
func (g *SavingsGoal) PercentageComplete() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(2)
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		return 100
	}
	return pct.InexactFloat64()
}

// SavingsTransaction is an append-only ledger entry against a goal.
// GoalName is a snapshot of the goal's name at write time.
type SavingsTransaction struct {
	Base
	SavingsGoalID string                 `gorm:"type:uuid;not null;index" json:"savings_goal_id"`
	UserID        string                 `gorm:"type:uuid;not null;index" json:"user_id"`
	GoalName      string                 `gorm:"size:100;not null" json:"goal_name"`
	Amount        decimal.Decimal        `gorm:"type:numeric(18,2);not null" json:"amount"`
	Type          SavingsTransactionType `gorm:"size:16;not null" json:"type"`
	Note          *string                `gorm:"size:500" json:"note,omitempty"`
}
