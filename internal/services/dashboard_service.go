package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"spendwise/internal/analytics"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/store"
)

// AdminRecentUsers is the number of users listed on the admin dashboard.
const AdminRecentUsers = 10

// dashboardService assembles dashboard summaries from ledger data.
type dashboardService struct {
	ledger   store.Ledger
	messages *analytics.MessageSelector
	now      func() time.Time
}

// NewDashboardService creates a new DashboardServicer. A nil picker selects
// motivational messages at random.
func NewDashboardService(db *gorm.DB, picker analytics.Picker) DashboardServicer {
	return &dashboardService{
		ledger:   store.NewGormLedger(db),
		messages: analytics.NewMessageSelector(picker),
		now:      time.Now,
	}
}

// BuildDashboard summarizes the user's spending for the month. A missing
// budget leaves CurrentBudget nil and missing categories fall back to
// placeholders; neither fails the summary.
func (s *dashboardService) BuildDashboard(ctx context.Context, userID string, month, year int) (*DashboardSummary, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	monthStart, monthEnd := analytics.MonthWindow(month, year)
	trendStart, _ := analytics.TrendWindow(monthStart, analytics.TrendMonths)

	// One range query covers the trend, last month and this month.
	expenses, err := s.ledger.FindExpenses(ctx, store.ExpenseQuery{UserID: userID, From: &trendStart, To: &monthEnd})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	prevStart, _ := analytics.MonthWindow(analytics.PreviousMonth(month, year))
	thisMonth := filterWindow(expenses, monthStart, monthEnd)
	lastMonth := filterWindow(expenses, prevStart, monthStart)

	categories, err := s.ledger.ListCategories(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budget *BudgetView
	found, err := s.ledger.FindBudget(ctx, userID, month, year)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totalThis := analytics.Sum(thisMonth)
	totalLast := analytics.Sum(lastMonth)
	if found != nil {
		budget = viewOf(found, totalThis)
	}

	var figures *analytics.BudgetFigures
	if budget != nil {
		figures = &budget.BudgetFigures
	}

	return &DashboardSummary{
		Month:               month,
		Year:                year,
		TotalThisMonth:      totalThis,
		TotalLastMonth:      totalLast,
		PercentageChange:    analytics.PercentageChange(totalThis, totalLast),
		AveragePerDay:       analytics.AveragePerDay(totalThis, month, year, s.now()),
		TransactionCount:    len(thisMonth),
		CategoryBreakdown:   analytics.CategoryBreakdown(thisMonth, categories, analytics.DashboardCategoryLimit),
		DailyBreakdown:      analytics.DailyBreakdown(thisMonth),
		MonthlyTrend:        analytics.MonthlyTrend(expenses, monthStart, analytics.TrendMonths),
		CurrentBudget:       budget,
		MotivationalMessage: s.messages.Select(figures, totalThis, totalLast),
	}, nil
}

// BuildAdminDashboard aggregates activity across all users. Empty data
// yields zero totals and empty lists.
func (s *dashboardService) BuildAdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	total, active, err := s.ledger.CountUsers(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	system, err := s.ledger.SystemExpenseStats(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	users, err := s.ledger.ListUsers(ctx, AdminRecentUsers)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	recent, err := summarizeUsers(ctx, s.ledger, users)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	monthStart, monthEnd := analytics.MonthWindow(int(now.Month()), now.Year())
	trendStart, _ := analytics.TrendWindow(monthStart, analytics.TrendMonths)

	expenses, err := s.ledger.FindExpensesAllUsers(ctx, trendStart, monthEnd)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	categories, err := s.ledger.ListCategories(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &AdminDashboard{
		TotalUsers:              total,
		ActiveUsers:             active,
		TotalExpenses:           system.Total,
		TotalTransactions:       system.Count,
		RecentUsers:             recent,
		OverallCategorySpending: analytics.CategoryBreakdown(filterWindow(expenses, monthStart, monthEnd), categories, 0),
		SystemMonthlyTrend:      analytics.MonthlyTrend(expenses, monthStart, analytics.TrendMonths),
	}, nil
}
