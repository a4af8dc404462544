package services

import (
	"context"
	"testing"
	"time"

	"spendwise/internal/analytics"
	"spendwise/internal/models"
	"spendwise/internal/testutil"
)

// firstPicker always selects the first candidate message.
var firstPicker = analytics.PickerFunc(func(int) int { return 0 })

func newTestDashboard(t *testing.T, now time.Time, picker analytics.Picker) (*dashboardService, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewDashboardService(db, picker).(*dashboardService)
	svc.now = fixedClock(now)
	return svc, func() { testutil.TeardownTestDB(t, db) }
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildDashboard(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewDashboardService(db, firstPicker).(*dashboardService)
	svc.now = fixedClock(day(2025, time.June, 10))

	user := testutil.CreateTestUser(t, db)
	food := testutil.CreateTestCategory(t, db)
	rent := testutil.CreateTestCategory(t, db)

	testutil.CreateTestBudget(t, db, user.ID, "1000", 3, 2025)
	testutil.CreateTestExpense(t, db, user.ID, food, "100", day(2025, time.March, 2))
	testutil.CreateTestExpense(t, db, user.ID, food, "50", day(2025, time.March, 2))
	testutil.CreateTestExpense(t, db, user.ID, rent, "250", day(2025, time.March, 15))
	testutil.CreateTestExpense(t, db, user.ID, rent, "500", day(2025, time.February, 20))
	testutil.CreateTestExpense(t, db, user.ID, food, "70", day(2024, time.October, 5))
	// Outside the trend window.
	testutil.CreateTestExpense(t, db, user.ID, food, "999", day(2024, time.September, 30))
	testutil.CreateTestExpense(t, db, user.ID, food, "999", day(2025, time.April, 1))

	summary, err := svc.BuildDashboard(ctx, user.ID, 3, 2025)
	testutil.AssertNoError(t, err)

	if !summary.TotalThisMonth.Equal(testutil.Money(t, "400")) {
		t.Errorf("expected 400 this month, got %s", summary.TotalThisMonth)
	}
	if !summary.TotalLastMonth.Equal(testutil.Money(t, "500")) {
		t.Errorf("expected 500 last month, got %s", summary.TotalLastMonth)
	}
	if summary.PercentageChange != -20 {
		t.Errorf("expected -20%% change, got %v", summary.PercentageChange)
	}
	if summary.TransactionCount != 3 {
		t.Errorf("expected 3 transactions, got %d", summary.TransactionCount)
	}
	// March is in the past, so the whole month counts.
	if summary.AveragePerDay != 12.9 {
		t.Errorf("expected 12.9 per day, got %v", summary.AveragePerDay)
	}

	if len(summary.CategoryBreakdown) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(summary.CategoryBreakdown))
	}
	top := summary.CategoryBreakdown[0]
	if top.CategoryID != rent.ID || top.Percentage != 62.5 || top.Count != 1 {
		t.Errorf("unexpected top category: %+v", top)
	}

	if len(summary.DailyBreakdown) != 2 {
		t.Fatalf("expected 2 days, got %d", len(summary.DailyBreakdown))
	}
	if summary.DailyBreakdown[0].Count != 2 || !summary.DailyBreakdown[0].Amount.Equal(testutil.Money(t, "150")) {
		t.Errorf("unexpected first day: %+v", summary.DailyBreakdown[0])
	}

	if len(summary.MonthlyTrend) != analytics.TrendMonths {
		t.Fatalf("expected %d trend points, got %d", analytics.TrendMonths, len(summary.MonthlyTrend))
	}
	first := summary.MonthlyTrend[0]
	last := summary.MonthlyTrend[len(summary.MonthlyTrend)-1]
	if first.Month != 10 || first.Year != 2024 || !first.Amount.Equal(testutil.Money(t, "70")) {
		t.Errorf("unexpected first trend point: %+v", first)
	}
	if last.Month != 3 || !last.Amount.Equal(testutil.Money(t, "400")) {
		t.Errorf("unexpected last trend point: %+v", last)
	}

	if summary.CurrentBudget == nil {
		t.Fatal("expected current budget")
	}
	if summary.CurrentBudget.PercentageUsed != 40 || summary.CurrentBudget.Status != analytics.StatusGood {
		t.Errorf("unexpected budget figures: %+v", summary.CurrentBudget.BudgetFigures)
	}
	if summary.MotivationalMessage != analytics.MessagePraise {
		t.Errorf("expected praise message, got %q", summary.MotivationalMessage)
	}
}

func TestBuildDashboardWithoutData(t *testing.T) {
	svc, cleanup := newTestDashboard(t, day(2025, time.March, 10), firstPicker)
	defer cleanup()

	summary, err := svc.BuildDashboard(context.Background(), "00000000-0000-0000-0000-000000000001", 3, 2025)
	testutil.AssertNoError(t, err)

	if summary.CurrentBudget != nil {
		t.Errorf("expected no budget, got %+v", summary.CurrentBudget)
	}
	if summary.PercentageChange != 0 || summary.AveragePerDay != 0 {
		t.Errorf("expected zero figures, got change %v avg %v", summary.PercentageChange, summary.AveragePerDay)
	}
	if len(summary.CategoryBreakdown) != 0 || len(summary.DailyBreakdown) != 0 {
		t.Error("expected empty breakdowns")
	}
	if len(summary.MonthlyTrend) != analytics.TrendMonths {
		t.Errorf("trend should always have %d points, got %d", analytics.TrendMonths, len(summary.MonthlyTrend))
	}
	if summary.MotivationalMessage != analytics.MessageFallback {
		t.Errorf("expected fallback message, got %q", summary.MotivationalMessage)
	}
}

func TestBuildDashboardCurrentMonthAverage(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	svc := NewDashboardService(db, firstPicker).(*dashboardService)
	svc.now = fixedClock(day(2025, time.March, 4))

	user := testutil.CreateTestUser(t, db)
	cat := testutil.CreateTestCategory(t, db)
	testutil.CreateTestExpense(t, db, user.ID, cat, "100", day(2025, time.March, 1))

	summary, err := svc.BuildDashboard(ctx, user.ID, 3, 2025)
	testutil.AssertNoError(t, err)
	if summary.AveragePerDay != 25 {
		t.Errorf("expected 25 per day over 4 elapsed days, got %v", summary.AveragePerDay)
	}
	// No previous month spending means no baseline.
	if summary.PercentageChange != 0 {
		t.Errorf("expected 0%% change, got %v", summary.PercentageChange)
	}
}

func TestBuildDashboardUnknownCategory(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDashboardService(db, firstPicker)

	user := testutil.CreateTestUser(t, db)
	gone := &models.Category{Base: models.Base{ID: "00000000-0000-0000-0000-00000000dead"}, Name: "Old"}
	testutil.CreateTestExpense(t, db, user.ID, gone, "30", day(2025, time.March, 3))

	summary, err := svc.BuildDashboard(ctx, user.ID, 3, 2025)
	testutil.AssertNoError(t, err)
	if len(summary.CategoryBreakdown) != 1 {
		t.Fatalf("expected 1 category, got %d", len(summary.CategoryBreakdown))
	}
	entry := summary.CategoryBreakdown[0]
	if entry.CategoryName != models.UnknownCategoryName || entry.Color != models.UnknownCategoryColor {
		t.Errorf("expected placeholder category, got %+v", entry)
	}
}

func TestBuildDashboardRejectsInvalidPeriod(t *testing.T) {
	svc, cleanup := newTestDashboard(t, time.Now(), nil)
	defer cleanup()

	_, err := svc.BuildDashboard(context.Background(), "u", 0, 2025)
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestBuildAdminDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("empty system", func(t *testing.T) {
		svc, cleanup := newTestDashboard(t, day(2025, time.May, 10), nil)
		defer cleanup()

		dash, err := svc.BuildAdminDashboard(ctx)
		testutil.AssertNoError(t, err)
		if dash.TotalUsers != 0 || dash.TotalTransactions != 0 || !dash.TotalExpenses.IsZero() {
			t.Errorf("expected zero totals, got %+v", dash)
		}
		if dash.RecentUsers == nil || len(dash.RecentUsers) != 0 {
			t.Errorf("expected empty recent users, got %v", dash.RecentUsers)
		}
		if len(dash.OverallCategorySpending) != 0 {
			t.Errorf("expected no category spending, got %v", dash.OverallCategorySpending)
		}
		if len(dash.SystemMonthlyTrend) != analytics.TrendMonths {
			t.Errorf("expected %d trend points, got %d", analytics.TrendMonths, len(dash.SystemMonthlyTrend))
		}
	})

	t.Run("aggregates every user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db, nil).(*dashboardService)
		svc.now = fixedClock(day(2025, time.May, 10))

		alice := testutil.CreateTestUser(t, db)
		bob := testutil.CreateTestUser(t, db)
		inactive := testutil.CreateTestUser(t, db)
		db.Model(inactive).Update("is_active", false)

		cat := testutil.CreateTestCategory(t, db)
		testutil.CreateTestExpense(t, db, alice.ID, cat, "100", day(2025, time.May, 2))
		testutil.CreateTestExpense(t, db, bob.ID, cat, "50", day(2025, time.May, 3))
		testutil.CreateTestExpense(t, db, bob.ID, cat, "25", day(2025, time.January, 3))

		dash, err := svc.BuildAdminDashboard(ctx)
		testutil.AssertNoError(t, err)

		if dash.TotalUsers != 3 || dash.ActiveUsers != 2 {
			t.Errorf("expected 3 users with 2 active, got %d and %d", dash.TotalUsers, dash.ActiveUsers)
		}
		if !dash.TotalExpenses.Equal(testutil.Money(t, "175")) || dash.TotalTransactions != 3 {
			t.Errorf("unexpected totals: %s over %d", dash.TotalExpenses, dash.TotalTransactions)
		}
		if len(dash.RecentUsers) != 3 {
			t.Fatalf("expected 3 recent users, got %d", len(dash.RecentUsers))
		}
		for _, u := range dash.RecentUsers {
			if u.ID == bob.ID && (!u.TotalExpenses.Equal(testutil.Money(t, "75")) || u.ExpenseCount != 2) {
				t.Errorf("unexpected summary for bob: %+v", u)
			}
		}
		if len(dash.OverallCategorySpending) != 1 || !dash.OverallCategorySpending[0].Amount.Equal(testutil.Money(t, "150")) {
			t.Errorf("expected current month category total 150, got %+v", dash.OverallCategorySpending)
		}
		last := dash.SystemMonthlyTrend[len(dash.SystemMonthlyTrend)-1]
		if last.Month != 5 || !last.Amount.Equal(testutil.Money(t, "150")) {
			t.Errorf("unexpected last trend point: %+v", last)
		}
	})

	t.Run("recent users are bounded", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDashboardService(db, nil)

		for i := 0; i < AdminRecentUsers+3; i++ {
			testutil.CreateTestUser(t, db)
		}

		dash, err := svc.BuildAdminDashboard(ctx)
		testutil.AssertNoError(t, err)
		if len(dash.RecentUsers) != AdminRecentUsers {
			t.Errorf("expected %d recent users, got %d", AdminRecentUsers, len(dash.RecentUsers))
		}
		if dash.TotalUsers != int64(AdminRecentUsers+3) {
			t.Errorf("expected %d total users, got %d", AdminRecentUsers+3, dash.TotalUsers)
		}
	})
}
