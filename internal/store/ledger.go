// Package store is the persistence boundary for the aggregation and savings
// services. Lookups that find nothing return (nil, nil) so callers can
// choose between a NotFound error and a degraded default.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/models"
)

// ExpenseQuery filters a user's expenses. From is inclusive and To exclusive;
// nil bounds and an empty CategoryID are ignored.
type ExpenseQuery struct {
	UserID     string
	From       *time.Time
	To         *time.Time
	CategoryID string
}

// ExpenseStat is the exact total and number of a set of expenses.
type ExpenseStat struct {
	Total decimal.Decimal `json:"total"`
	Count int64           `json:"count"`
}

// Ledger exposes the queries the aggregation and savings services need.
type Ledger interface {
	FindExpenses(ctx context.Context, q ExpenseQuery) ([]models.Expense, error)
	FindExpensesAllUsers(ctx context.Context, from, to time.Time) ([]models.Expense, error)
	ExpenseStats(ctx context.Context, userIDs []string) (map[string]ExpenseStat, error)
	SystemExpenseStats(ctx context.Context) (ExpenseStat, error)

	FindBudget(ctx context.Context, userID string, month, year int) (*models.Budget, error)

	FindGoal(ctx context.Context, goalID, userID string) (*models.SavingsGoal, error)
	ListGoals(ctx context.Context, userID string) ([]models.SavingsGoal, error)

	FindCategory(ctx context.Context, id string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)

	AppendTransaction(ctx context.Context, tx *models.SavingsTransaction) error
	// AdjustGoalBalance adds delta to the goal's balance only when the result
	// stays non-negative. It reports whether the balance changed; a missing
	// goal reports false.
	AdjustGoalBalance(ctx context.Context, goalID, userID string, delta decimal.Decimal) (bool, error)
	// MarkGoalCompleted flags the goal completed at the given time unless it
	// is already completed. It reports whether this call set the flag.
	MarkGoalCompleted(ctx context.Context, goalID string, at time.Time) (bool, error)
	RecentTransactions(ctx context.Context, userID string, limit int) ([]models.SavingsTransaction, error)
	GoalTransactions(ctx context.Context, goalID string) ([]models.SavingsTransaction, error)

	CountUsers(ctx context.Context) (total int64, active int64, err error)
	ListUsers(ctx context.Context, limit int) ([]models.User, error)

	// WithinTx runs fn against a Ledger bound to a single database
	// transaction, committing when fn returns nil.
	WithinTx(ctx context.Context, fn func(Ledger) error) error
}
