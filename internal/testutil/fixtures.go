package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"spendwise/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Money parses a decimal literal and fails the test on bad input.
func Money(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

// CreateTestUser creates a regular user with a hashed password and unique
// username and email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, models.UserRoleUser)
}

// CreateTestAdmin creates a user with the Admin role.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, models.UserRoleAdmin)
}

// CreateTestUserWithRole creates an active user with the given role.
func CreateTestUserWithRole(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := nextID()
	user := &models.User{
		Username:  fmt.Sprintf("user%d", n),
		Email:     fmt.Sprintf("user%d@test.com", n),
		Password:  string(hash),
		FirstName: "Test",
		LastName:  fmt.Sprintf("User%d", n),
		Role:      role,
		IsActive:  true,
		Currency:  models.DefaultCurrency,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates an active, non-default category.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:     fmt.Sprintf("Test Category %d", nextID()),
		Icon:     "tag",
		Color:    "#123456",
		IsActive: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestExpense records an expense for the user in the given category.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, category *models.Category, amount string, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:       userID,
		Amount:       Money(t, amount),
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Date:         date,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestBudget creates a budget for the given month.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, amount string, month, year int) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID: userID,
		Amount: Money(t, amount),
		Month:  month,
		Year:   year,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestGoal creates an empty savings goal with the given target.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID string, target string) *models.SavingsGoal {
	t.Helper()

	goal := &models.SavingsGoal{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:  Money(t, target),
		CurrentAmount: decimal.Zero,
		Icon:          models.DefaultGoalIcon,
		Color:         models.DefaultGoalColor,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}
