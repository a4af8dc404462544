package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spendwise/internal/models"
)

const maxBalanceAttempts = 5

// ErrBalanceContention is returned when a goal balance keeps changing
// underneath AdjustGoalBalance.
var ErrBalanceContention = errors.New("store: goal balance changed concurrently")

type gormLedger struct {
	db *gorm.DB
}

// NewGormLedger returns a Ledger backed by db.
func NewGormLedger(db *gorm.DB) Ledger {
	return &gormLedger{db: db}
}

func (l *gormLedger) conn(ctx context.Context) *gorm.DB {
	return l.db.WithContext(ctx)
}

func (l *gormLedger) FindExpenses(ctx context.Context, q ExpenseQuery) ([]models.Expense, error) {
	query := l.conn(ctx).Where("user_id = ?", q.UserID)
	if q.From != nil {
		query = query.Where("date >= ?", q.From.UTC())
	}
	if q.To != nil {
		query = query.Where("date < ?", q.To.UTC())
	}
	if q.CategoryID != "" {
		query = query.Where("category_id = ?", q.CategoryID)
	}

	var expenses []models.Expense
	if err := query.Order("date ASC, id ASC").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (l *gormLedger) FindExpensesAllUsers(ctx context.Context, from, to time.Time) ([]models.Expense, error) {
	var expenses []models.Expense
	err := l.conn(ctx).
		Where("date >= ? AND date < ?", from.UTC(), to.UTC()).
		Order("date ASC, id ASC").
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

type amountRow struct {
	UserID string
	Amount decimal.Decimal
}

func (l *gormLedger) ExpenseStats(ctx context.Context, userIDs []string) (map[string]ExpenseStat, error) {
	stats := make(map[string]ExpenseStat, len(userIDs))
	for _, id := range userIDs {
		stats[id] = ExpenseStat{Total: decimal.Zero}
	}
	if len(userIDs) == 0 {
		return stats, nil
	}

	var rows []amountRow
	err := l.conn(ctx).Model(&models.Expense{}).
		Select("user_id, amount").
		Where("user_id IN ?", userIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		s := stats[r.UserID]
		s.Total = s.Total.Add(r.Amount)
		s.Count++
		stats[r.UserID] = s
	}
	return stats, nil
}

func (l *gormLedger) SystemExpenseStats(ctx context.Context) (ExpenseStat, error) {
	stat := ExpenseStat{Total: decimal.Zero}

	var amounts []decimal.Decimal
	if err := l.conn(ctx).Model(&models.Expense{}).Pluck("amount", &amounts).Error; err != nil {
		return stat, err
	}
	for _, a := range amounts {
		stat.Total = stat.Total.Add(a)
	}
	stat.Count = int64(len(amounts))
	return stat, nil
}

func (l *gormLedger) FindBudget(ctx context.Context, userID string, month, year int) (*models.Budget, error) {
	var budget models.Budget
	err := l.conn(ctx).
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		First(&budget).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

func (l *gormLedger) FindGoal(ctx context.Context, goalID, userID string) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	err := l.conn(ctx).Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (l *gormLedger) ListGoals(ctx context.Context, userID string) ([]models.SavingsGoal, error) {
	var goals []models.SavingsGoal
	err := l.conn(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (l *gormLedger) FindCategory(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := l.conn(ctx).Where("id = ?", id).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (l *gormLedger) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := l.conn(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (l *gormLedger) AppendTransaction(ctx context.Context, tx *models.SavingsTransaction) error {
	return l.conn(ctx).Create(tx).Error
}

// AdjustGoalBalance computes the new balance with decimal arithmetic and
// writes it only if the stored balance is still the one it was computed
// from. A lost race re-reads and tries again.
func (l *gormLedger) AdjustGoalBalance(ctx context.Context, goalID, userID string, delta decimal.Decimal) (bool, error) {
	for attempt := 0; attempt < maxBalanceAttempts; attempt++ {
		var goal models.SavingsGoal
		err := l.conn(ctx).Select("current_amount").
			Where("id = ? AND user_id = ?", goalID, userID).
			Take(&goal).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}

		next := goal.CurrentAmount.Add(delta)
		if next.IsNegative() {
			return false, nil
		}

		res := l.conn(ctx).Model(&models.SavingsGoal{}).
			Where("id = ? AND user_id = ? AND current_amount = ?", goalID, userID, goal.CurrentAmount).
			Updates(map[string]interface{}{
				"current_amount": next,
				"updated_at":     time.Now().UTC(),
			})
		if res.Error != nil {
			return false, res.Error
		}
		if res.RowsAffected == 1 {
			return true, nil
		}
	}
	return false, ErrBalanceContention
}

func (l *gormLedger) MarkGoalCompleted(ctx context.Context, goalID string, at time.Time) (bool, error) {
	res := l.conn(ctx).Model(&models.SavingsGoal{}).
		Where("id = ? AND is_completed = ?", goalID, false).
		Updates(map[string]interface{}{
			"is_completed": true,
			"completed_at": at.UTC(),
			"updated_at":   at.UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (l *gormLedger) RecentTransactions(ctx context.Context, userID string, limit int) ([]models.SavingsTransaction, error) {
	var txs []models.SavingsTransaction
	query := l.conn(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (l *gormLedger) GoalTransactions(ctx context.Context, goalID string) ([]models.SavingsTransaction, error) {
	var txs []models.SavingsTransaction
	err := l.conn(ctx).Where("savings_goal_id = ?", goalID).Order("created_at DESC, id DESC").Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (l *gormLedger) CountUsers(ctx context.Context) (int64, int64, error) {
	var total, active int64
	if err := l.conn(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := l.conn(ctx).Model(&models.User{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return 0, 0, err
	}
	return total, active, nil
}

func (l *gormLedger) ListUsers(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	query := l.conn(ctx).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (l *gormLedger) WithinTx(ctx context.Context, fn func(Ledger) error) error {
	return l.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormLedger{db: tx})
	})
}
