package testutil_test

import (
	"testing"
	"time"

	"spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"users", "categories", "expenses", "budgets", "savings_goals", "savings_transactions", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDBIsolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestUser(t, first)

	var count int64
	second.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected isolated database, found %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" || user.Username == "" {
		t.Fatal("expected user with ID and username")
	}
	if user.Role != models.UserRoleUser {
		t.Errorf("expected User role, got %s", user.Role)
	}

	admin := testutil.CreateTestAdmin(t, db)
	if !admin.IsAdmin() {
		t.Error("expected admin fixture")
	}

	category := testutil.CreateTestCategory(t, db)
	expense := testutil.CreateTestExpense(t, db, user.ID, category, "12.50", time.Now())
	if expense.CategoryName != category.Name {
		t.Errorf("expected snapshot %q, got %q", category.Name, expense.CategoryName)
	}

	goal := testutil.CreateTestGoal(t, db, user.ID, "1000")
	if !goal.CurrentAmount.IsZero() || goal.IsCompleted {
		t.Error("new goal should be empty and active")
	}
}

func TestAssertAppError(t *testing.T) {
	testutil.AssertAppError(t, errors.ErrGoalNotFound, "GOAL_NOT_FOUND")
	testutil.AssertAppError(t, errors.Wrap(errors.ErrInternalServer, nil), "INTERNAL_ERROR")
}
