package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spendwise/internal/analytics"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// calendarDate drops the time of day, keeping the date as seen in UTC.
func calendarDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CreateExpense records a new expense for the user. The category name is
// copied onto the expense; an unknown category is recorded as "Unknown".
func (s *expenseService) CreateExpense(
	userID, categoryID string,
	amount decimal.Decimal,
	date time.Time,
	notes *string,
) (*models.Expense, error) {
	amount, err := positiveCents(amount, "amount")
	if err != nil {
		return nil, err
	}
	if categoryID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category ID is required")
	}
	if date.IsZero() {
		date = time.Now()
	}

	name, err := s.categorySnapshot(categoryID)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		UserID:       userID,
		Amount:       amount,
		CategoryID:   categoryID,
		CategoryName: name,
		Date:         calendarDate(date),
		Notes:        notes,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// categorySnapshot returns the display name to store on an expense.
func (s *expenseService) categorySnapshot(categoryID string) (string, error) {
	var category models.Category
	err := s.db.Select("name").Where("id = ?", categoryID).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UnknownCategoryName, nil
	}
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category.Name, nil
}

// GetExpenseByID retrieves an expense by ID for a specific user
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// GetUserExpenses retrieves a paginated, filtered list of the user's
// expenses, newest first.
func (s *expenseService) GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	base = applyExpenseFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC, created_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyExpenseFilters(q *gorm.DB, f ExpenseFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", calendarDate(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", calendarDate(*f.ToDate))
	}
	if f.CategoryID != nil && *f.CategoryID != "" {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	return q
}

// UpdateExpense applies a partial update. Changing the category refreshes
// the category name snapshot.
func (s *expenseService) UpdateExpense(userID, expenseID string, update ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Amount != nil {
		amount, err := positiveCents(*update.Amount, "amount")
		if err != nil {
			return nil, err
		}
		updates["amount"] = amount
	}
	if update.CategoryID != nil && *update.CategoryID != "" {
		name, err := s.categorySnapshot(*update.CategoryID)
		if err != nil {
			return nil, err
		}
		updates["category_id"] = *update.CategoryID
		updates["category_name"] = name
	}
	if update.Date != nil {
		updates["date"] = calendarDate(*update.Date)
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetExpenseByID(userID, expenseID)
}

// DeleteExpense permanently removes one of the user's expenses.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetMonthlyTotal sums the user's expenses for the given month.
func (s *expenseService) GetMonthlyTotal(userID string, month, year int) (decimal.Decimal, error) {
	start, end := analytics.MonthWindow(month, year)

	var expenses []models.Expense
	err := s.db.Select("amount").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Find(&expenses).Error
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return analytics.Sum(expenses), nil
}
