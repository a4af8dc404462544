package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/services"
)

// --- mock savings service ---

type mockSavingsService struct {
	createGoalFn       func(ctx context.Context, userID string, input services.GoalInput) (*services.GoalView, error)
	getGoalFn          func(ctx context.Context, userID, goalID string) (*services.GoalView, error)
	updateGoalFn       func(ctx context.Context, userID, goalID string, input services.GoalInput) (*services.GoalView, error)
	deleteGoalFn       func(ctx context.Context, userID, goalID string) error
	applyTransactionFn func(ctx context.Context, goalID, userID string, amount decimal.Decimal, txType models.SavingsTransactionType, note *string) (*models.SavingsTransaction, error)
	recentFn           func(ctx context.Context, userID string, limit int) ([]models.SavingsTransaction, error)
	summarizeFn        func(ctx context.Context, userID string) (*services.SavingsSummary, error)
}

func (m *mockSavingsService) CreateGoal(ctx context.Context, userID string, input services.GoalInput) (*services.GoalView, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(ctx, userID, input)
	}
	return &services.GoalView{}, nil
}

func (m *mockSavingsService) GetUserGoals(_ context.Context, _ string) ([]services.GoalView, error) {
	return []services.GoalView{}, nil
}

func (m *mockSavingsService) GetGoalByID(ctx context.Context, userID, goalID string) (*services.GoalView, error) {
	if m.getGoalFn != nil {
		return m.getGoalFn(ctx, userID, goalID)
	}
	return &services.GoalView{}, nil
}

func (m *mockSavingsService) UpdateGoal(ctx context.Context, userID, goalID string, input services.GoalInput) (*services.GoalView, error) {
	if m.updateGoalFn != nil {
		return m.updateGoalFn(ctx, userID, goalID, input)
	}
	return &services.GoalView{}, nil
}

func (m *mockSavingsService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	if m.deleteGoalFn != nil {
		return m.deleteGoalFn(ctx, userID, goalID)
	}
	return nil
}

func (m *mockSavingsService) ApplyTransaction(ctx context.Context, goalID, userID string, amount decimal.Decimal, txType models.SavingsTransactionType, note *string) (*models.SavingsTransaction, error) {
	if m.applyTransactionFn != nil {
		return m.applyTransactionFn(ctx, goalID, userID, amount, txType, note)
	}
	return &models.SavingsTransaction{}, nil
}

func (m *mockSavingsService) GetGoalTransactions(_ context.Context, _, _ string) ([]models.SavingsTransaction, error) {
	return []models.SavingsTransaction{}, nil
}

func (m *mockSavingsService) GetRecentTransactions(ctx context.Context, userID string, limit int) ([]models.SavingsTransaction, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, userID, limit)
	}
	return []models.SavingsTransaction{}, nil
}

func (m *mockSavingsService) Summarize(ctx context.Context, userID string) (*services.SavingsSummary, error) {
	if m.summarizeFn != nil {
		return m.summarizeFn(ctx, userID)
	}
	return &services.SavingsSummary{}, nil
}

var _ services.SavingsServicer = (*mockSavingsService)(nil)

func setupSavingsRouter(handler *SavingsHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUser(testUserID, models.UserRoleUser))
	auth.GET("/savings/summary", handler.GetSummary)
	auth.GET("/savings/goals", handler.GetGoals)
	auth.POST("/savings/goals", handler.CreateGoal)
	auth.GET("/savings/goals/:id", handler.GetGoal)
	auth.PUT("/savings/goals/:id", handler.UpdateGoal)
	auth.DELETE("/savings/goals/:id", handler.DeleteGoal)
	auth.GET("/savings/goals/:id/transactions", handler.GetGoalTransactions)
	auth.POST("/savings/goals/:id/transactions", handler.CreateTransaction)
	auth.GET("/savings/transactions/recent", handler.GetRecentTransactions)
	return r
}

func TestSavingsHandler_CreateGoal(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.GoalInput
		svc := &mockSavingsService{
			createGoalFn: func(_ context.Context, userID string, input services.GoalInput) (*services.GoalView, error) {
				got = input
				return &services.GoalView{SavingsGoal: models.SavingsGoal{
					Base:         models.Base{ID: testGoalID},
					UserID:       userID,
					Name:         *input.Name,
					TargetAmount: *input.TargetAmount,
				}, RemainingAmount: *input.TargetAmount}, nil
			},
		}
		r := setupSavingsRouter(NewSavingsHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/savings/goals",
			`{"name":"Laptop","target_amount":10000,"color":"#112233","target_date":"2025-12-31"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		goal := parseJSON(t, rec)["goal"].(map[string]interface{})
		if goal["name"] != "Laptop" || goal["target_amount"].(float64) != 10000 {
			t.Errorf("unexpected goal: %v", goal)
		}
		if got.TargetDate == nil || got.TargetDate.Day() != 31 {
			t.Errorf("expected parsed target date, got %v", got.TargetDate)
		}
	})

	t.Run("returns 400 on bad color", func(t *testing.T) {
		r := setupSavingsRouter(NewSavingsHandler(&mockSavingsService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/savings/goals", `{"name":"Laptop","target_amount":10,"color":"blue"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on missing target", func(t *testing.T) {
		r := setupSavingsRouter(NewSavingsHandler(&mockSavingsService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/savings/goals", `{"name":"Laptop"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestSavingsHandler_CreateTransaction(t *testing.T) {
	t.Run("passes amount and type to the ledger", func(t *testing.T) {
		audit := &mockAuditService{}
		var gotAmount decimal.Decimal
		var gotType models.SavingsTransactionType
		svc := &mockSavingsService{
			applyTransactionFn: func(_ context.Context, goalID, userID string, amount decimal.Decimal, txType models.SavingsTransactionType, _ *string) (*models.SavingsTransaction, error) {
				gotAmount, gotType = amount, txType
				return &models.SavingsTransaction{SavingsGoalID: goalID, UserID: userID, Amount: amount, Type: txType}, nil
			},
		}
		r := setupSavingsRouter(NewSavingsHandler(svc, audit))

		rec := doRequest(r, "POST", "/savings/goals/"+testGoalID+"/transactions", `{"amount":"250.50","type":"deposit"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotAmount.Equal(decimal.RequireFromString("250.50")) || gotType != models.SavingsDeposit {
			t.Errorf("unexpected arguments: %s %s", gotAmount, gotType)
		}
		if audit.lastAction() != "SAVINGS_DEPOSIT" {
			t.Errorf("expected SAVINGS_DEPOSIT audit entry, got %q", audit.lastAction())
		}
	})

	t.Run("returns 400 on insufficient balance", func(t *testing.T) {
		svc := &mockSavingsService{
			applyTransactionFn: func(context.Context, string, string, decimal.Decimal, models.SavingsTransactionType, *string) (*models.SavingsTransaction, error) {
				return nil, apperrors.ErrInsufficientBalance
			},
		}
		r := setupSavingsRouter(NewSavingsHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/savings/goals/"+testGoalID+"/transactions", `{"amount":700,"type":"withdraw"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INSUFFICIENT_BALANCE")
	})

	t.Run("returns 400 on unknown type", func(t *testing.T) {
		r := setupSavingsRouter(NewSavingsHandler(&mockSavingsService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/savings/goals/"+testGoalID+"/transactions", `{"amount":5,"type":"transfer"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on malformed goal id", func(t *testing.T) {
		r := setupSavingsRouter(NewSavingsHandler(&mockSavingsService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/savings/goals/42/transactions", `{"amount":5,"type":"deposit"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestSavingsHandler_GetGoal(t *testing.T) {
	svc := &mockSavingsService{
		getGoalFn: func(_ context.Context, userID, goalID string) (*services.GoalView, error) {
			if userID != testUserID {
				t.Errorf("expected caller's id, got %s", userID)
			}
			return nil, apperrors.ErrGoalNotFound
		},
	}
	r := setupSavingsRouter(NewSavingsHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/savings/goals/"+testGoalID, "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "GOAL_NOT_FOUND")
}

func TestSavingsHandler_GetRecentTransactions(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLimit  int
	}{
		{"default limit", "", http.StatusOK, 0},
		{"explicit limit", "?limit=5", http.StatusOK, 5},
		{"non-numeric", "?limit=abc", http.StatusBadRequest, -1},
		{"zero", "?limit=0", http.StatusBadRequest, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotLimit := -1
			svc := &mockSavingsService{
				recentFn: func(_ context.Context, _ string, limit int) ([]models.SavingsTransaction, error) {
					gotLimit = limit
					return []models.SavingsTransaction{}, nil
				},
			}
			r := setupSavingsRouter(NewSavingsHandler(svc, &mockAuditService{}))

			rec := doRequest(r, "GET", "/savings/transactions/recent"+tt.query, "")

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if gotLimit != tt.wantLimit {
				t.Errorf("expected limit %d, got %d", tt.wantLimit, gotLimit)
			}
		})
	}
}

func TestSavingsHandler_DeleteGoal(t *testing.T) {
	audit := &mockAuditService{}
	r := setupSavingsRouter(NewSavingsHandler(&mockSavingsService{}, audit))

	rec := doRequest(r, "DELETE", "/savings/goals/"+testGoalID, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if audit.lastAction() != "DELETE_SAVINGS_GOAL" {
		t.Errorf("expected DELETE_SAVINGS_GOAL audit entry, got %q", audit.lastAction())
	}
}
