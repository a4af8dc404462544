package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"spendwise/internal/analytics"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/store"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db     *gorm.DB
	ledger store.Ledger
	now    func() time.Time
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db, ledger: store.NewGormLedger(db), now: time.Now}
}

// validatePeriod checks month and year bounds.
func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be between 2000 and 2100")
	}
	return nil
}

// EvaluateBudget returns the budget for the month with its spending figures,
// or nil when the user has no budget for that month.
func (s *budgetService) EvaluateBudget(ctx context.Context, userID string, month, year int) (*BudgetView, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	budget, err := s.ledger.FindBudget(ctx, userID, month, year)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if budget == nil {
		return nil, nil
	}
	return evaluate(ctx, s.ledger, budget)
}

// evaluate sums the spending in the budget's month.
func evaluate(ctx context.Context, ledger store.Ledger, budget *models.Budget) (*BudgetView, error) {
	from, to := analytics.MonthWindow(budget.Month, budget.Year)
	expenses, err := ledger.FindExpenses(ctx, store.ExpenseQuery{UserID: budget.UserID, From: &from, To: &to})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return viewOf(budget, analytics.Sum(expenses)), nil
}

func viewOf(budget *models.Budget, spent decimal.Decimal) *BudgetView {
	return &BudgetView{
		Budget:        *budget,
		BudgetFigures: analytics.EvaluateBudget(budget.Amount, spent),
	}
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(ctx context.Context, userID, budgetID string) (*BudgetView, error) {
	budget, err := s.findOwned(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}
	return evaluate(ctx, s.ledger, budget)
}

func (s *budgetService) findOwned(ctx context.Context, userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetCurrentBudget returns the budget for the current calendar month.
func (s *budgetService) GetCurrentBudget(ctx context.Context, userID string) (*BudgetView, error) {
	now := s.now().UTC()
	view, err := s.EvaluateBudget(ctx, userID, int(now.Month()), now.Year())
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, apperrors.ErrBudgetNotFound
	}
	return view, nil
}

// GetUserBudgets returns every budget of the user, most recent month first.
func (s *budgetService) GetUserBudgets(ctx context.Context, userID string) ([]BudgetView, error) {
	var budgets []models.Budget
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("year DESC, month DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]BudgetView, 0, len(budgets))
	for i := range budgets {
		view, err := evaluate(ctx, s.ledger, &budgets[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// CreateOrUpdateBudget sets the user's budget for a month, replacing the
// amount if one already exists.
func (s *budgetService) CreateOrUpdateBudget(ctx context.Context, userID string, amount decimal.Decimal, month, year int) (*BudgetView, error) {
	amount, err := positiveCents(amount, "amount")
	if err != nil {
		return nil, err
	}
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID: userID,
		Amount: amount,
		Month:  month,
		Year:   year,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "month"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(budget).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	view, err := s.EvaluateBudget(ctx, userID, month, year)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, errors.New("budget missing after upsert"))
	}
	return view, nil
}

// DeleteBudget permanently removes a budget.
func (s *budgetService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	budget, err := s.findOwned(ctx, userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
