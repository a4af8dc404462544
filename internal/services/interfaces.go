package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/analytics"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
)

// UserSummary is a user with their lifetime spending totals.
type UserSummary struct {
	ID            string          `json:"id"`
	Username      string          `json:"username"`
	FullName      string          `json:"full_name"`
	Email         string          `json:"email"`
	Role          models.UserRole `json:"role"`
	IsActive      bool            `json:"is_active"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	ExpenseCount  int64           `json:"expense_count"`
	CreatedAt     time.Time       `json:"created_at"`
	LastLoginAt   *time.Time      `json:"last_login_at,omitempty"`
}

// UserUpdate holds the optional fields an administrator may change.
type UserUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	AvatarURL *string
	Currency  *string
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, email, password, firstName, lastName string, role models.UserRole, currency string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	UpdateUser(id string, update UserUpdate) (*models.User, error)
	DeleteUser(id string) error
	ToggleUserStatus(id string) (*models.User, error)
	GetUserSummaries(ctx context.Context) ([]UserSummary, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(username, password string) (*models.User, error)
	ChangePassword(id, currentPassword, newPassword string) error
}

// CategoryUpdate holds the optional fields of a category update.
type CategoryUpdate struct {
	Name        *string
	Icon        *string
	Color       *string
	Description *string
	IsActive    *bool
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	GetCategories() ([]models.Category, error)
	GetActiveCategories() ([]models.Category, error)
	GetCategoryByID(id string) (*models.Category, error)
	CreateCategory(name, icon, color string, description *string) (*models.Category, error)
	UpdateCategory(id string, update CategoryUpdate) (*models.Category, error)
	DeleteCategory(id string) error
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	CategoryID *string
}

// ExpenseUpdate holds the optional fields of an expense update.
type ExpenseUpdate struct {
	Amount     *decimal.Decimal
	CategoryID *string
	Date       *time.Time
	Notes      *string
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID, categoryID string, amount decimal.Decimal, date time.Time, notes *string) (*models.Expense, error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	UpdateExpense(userID, expenseID string, update ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
	GetMonthlyTotal(userID string, month, year int) (decimal.Decimal, error)
}

// BudgetView is a budget together with the figures derived from its
// month's spending.
type BudgetView struct {
	models.Budget
	analytics.BudgetFigures
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	EvaluateBudget(ctx context.Context, userID string, month, year int) (*BudgetView, error)
	GetBudgetByID(ctx context.Context, userID, budgetID string) (*BudgetView, error)
	GetCurrentBudget(ctx context.Context, userID string) (*BudgetView, error)
	GetUserBudgets(ctx context.Context, userID string) ([]BudgetView, error)
	CreateOrUpdateBudget(ctx context.Context, userID string, amount decimal.Decimal, month, year int) (*BudgetView, error)
	DeleteBudget(ctx context.Context, userID, budgetID string) error
}

// DashboardSummary is a user's spending overview for one month.
type DashboardSummary struct {
	Month               int                          `json:"month"`
	Year                int                          `json:"year"`
	TotalThisMonth      decimal.Decimal              `json:"total_this_month"`
	TotalLastMonth      decimal.Decimal              `json:"total_last_month"`
	PercentageChange    float64                      `json:"percentage_change"`
	AveragePerDay       float64                      `json:"average_per_day"`
	TransactionCount    int                          `json:"transaction_count"`
	CategoryBreakdown   []analytics.CategorySpending `json:"category_breakdown"`
	DailyBreakdown      []analytics.DailySpending    `json:"daily_breakdown"`
	MonthlyTrend        []analytics.MonthlySpending  `json:"monthly_trend"`
	CurrentBudget       *BudgetView                  `json:"current_budget"`
	MotivationalMessage string                       `json:"motivational_message"`
}

// AdminDashboard aggregates activity across every user.
type AdminDashboard struct {
	TotalUsers              int64                        `json:"total_users"`
	ActiveUsers             int64                        `json:"active_users"`
	TotalExpenses           decimal.Decimal              `json:"total_expenses"`
	TotalTransactions       int64                        `json:"total_transactions"`
	RecentUsers             []UserSummary                `json:"recent_users"`
	OverallCategorySpending []analytics.CategorySpending `json:"overall_category_spending"`
	SystemMonthlyTrend      []analytics.MonthlySpending  `json:"system_monthly_trend"`
}

// DashboardServicer builds dashboard summaries.
type DashboardServicer interface {
	BuildDashboard(ctx context.Context, userID string, month, year int) (*DashboardSummary, error)
	BuildAdminDashboard(ctx context.Context) (*AdminDashboard, error)
}

// GoalInput carries the fields used to create or update a savings goal.
// Nil pointers leave the field unchanged on update.
type GoalInput struct {
	Name         *string
	Description  *string
	TargetAmount *decimal.Decimal
	Icon         *string
	Color        *string
	TargetDate   *time.Time
}

// GoalView is a savings goal with its derived progress figures.
type GoalView struct {
	models.SavingsGoal
	RemainingAmount    decimal.Decimal `json:"remaining_amount"`
	PercentageComplete float64         `json:"percentage_complete"`
}

// SavingsSummary aggregates a user's savings goals.
type SavingsSummary struct {
	TotalSaved      decimal.Decimal `json:"total_saved"`
	TotalTarget     decimal.Decimal `json:"total_target"`
	ActiveGoals     int             `json:"active_goals"`
	CompletedGoals  int             `json:"completed_goals"`
	OverallProgress float64         `json:"overall_progress"`
}

// SavingsServicer defines the contract for savings goals and their ledger.
type SavingsServicer interface {
	CreateGoal(ctx context.Context, userID string, input GoalInput) (*GoalView, error)
	GetUserGoals(ctx context.Context, userID string) ([]GoalView, error)
	GetGoalByID(ctx context.Context, userID, goalID string) (*GoalView, error)
	UpdateGoal(ctx context.Context, userID, goalID string, input GoalInput) (*GoalView, error)
	DeleteGoal(ctx context.Context, userID, goalID string) error
	ApplyTransaction(ctx context.Context, goalID, userID string, amount decimal.Decimal, txType models.SavingsTransactionType, note *string) (*models.SavingsTransaction, error)
	GetGoalTransactions(ctx context.Context, userID, goalID string) ([]models.SavingsTransaction, error)
	GetRecentTransactions(ctx context.Context, userID string, limit int) ([]models.SavingsTransaction, error)
	Summarize(ctx context.Context, userID string) (*SavingsSummary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
