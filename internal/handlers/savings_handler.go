package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/services"
)

// SavingsHandler handles savings goals and their transactions.
type SavingsHandler struct {
	savingsService services.SavingsServicer
	auditService   services.AuditServicer
}

// NewSavingsHandler creates a new SavingsHandler.
func NewSavingsHandler(savingsService services.SavingsServicer, auditService services.AuditServicer) *SavingsHandler {
	return &SavingsHandler{savingsService: savingsService, auditService: auditService}
}

// CreateGoalRequest represents the payload for creating a savings goal.
type CreateGoalRequest struct {
	Name         string           `json:"name" binding:"required,min=1,max=100"`
	Description  *string          `json:"description" binding:"omitempty,max=500"`
	TargetAmount *decimal.Decimal `json:"target_amount" binding:"required"`
	Icon         *string          `json:"icon" binding:"omitempty,max=50"`
	Color        *string          `json:"color" binding:"omitempty,hex_color"`
	TargetDate   *string          `json:"target_date"`
}

// UpdateGoalRequest represents the payload for updating a savings goal.
type UpdateGoalRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description  *string          `json:"description" binding:"omitempty,max=500"`
	TargetAmount *decimal.Decimal `json:"target_amount"`
	Icon         *string          `json:"icon" binding:"omitempty,max=50"`
	Color        *string          `json:"color" binding:"omitempty,hex_color"`
	TargetDate   *string          `json:"target_date"`
}

// SavingsTransactionRequest represents a deposit or withdrawal.
type SavingsTransactionRequest struct {
	Amount *decimal.Decimal              `json:"amount" binding:"required"`
	Type   models.SavingsTransactionType `json:"type" binding:"required,savings_tx_type"`
	Note   *string                       `json:"note" binding:"omitempty,max=255"`
}

func goalInput(name, description *string, target *decimal.Decimal, icon, color, targetDate *string) (services.GoalInput, error) {
	input := services.GoalInput{
		Name:         name,
		Description:  description,
		TargetAmount: target,
		Icon:         icon,
		Color:        color,
	}
	if targetDate != nil && *targetDate != "" {
		t, err := parseFlexibleTime(*targetDate)
		if err != nil {
			return input, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		input.TargetDate = &t
	}
	return input, nil
}

// GetSummary totals the user's savings goals.
// @Summary     Savings summary
// @Tags        savings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.SavingsSummary
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /savings/summary [get]
func (h *SavingsHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.savingsService.Summarize(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetGoals lists the user's savings goals.
// @Summary     List savings goals
// @Tags        savings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  services.GoalView
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /savings/goals [get]
func (h *SavingsHandler) GetGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, err := h.savingsService.GetUserGoals(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// CreateGoal creates a savings goal.
// @Summary     Create savings goal
// @Tags        savings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} services.GoalView
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /savings/goals [post]
func (h *SavingsHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	input, err := goalInput(&req.Name, req.Description, req.TargetAmount, req.Icon, req.Color, req.TargetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.savingsService.CreateGoal(c.Request.Context(), userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_SAVINGS_GOAL", "savings_goal", goal.ID, c.ClientIP(),
		map[string]interface{}{"name": goal.Name, "target_amount": goal.TargetAmount.String()})

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// GetGoal returns one savings goal.
// @Summary     Get savings goal
// @Tags        savings
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} services.GoalView
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /savings/goals/{id} [get]
func (h *SavingsHandler) GetGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.savingsService.GetGoalByID(c.Request.Context(), userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// UpdateGoal changes a goal's details. The balance is not editable.
// @Summary     Update savings goal
// @Tags        savings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Goal ID"
// @Param       request body UpdateGoalRequest true "Fields to change"
// @Success     200 {object} services.GoalView
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /savings/goals/{id} [put]
func (h *SavingsHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	input, err := goalInput(req.Name, req.Description, req.TargetAmount, req.Icon, req.Color, req.TargetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.savingsService.UpdateGoal(c.Request.Context(), userID, goalID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SAVINGS_GOAL", "savings_goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// DeleteGoal removes a goal and its transactions.
// @Summary     Delete savings goal
// @Tags        savings
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} MessageResponse "Goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /savings/goals/{id} [delete]
func (h *SavingsHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.savingsService.DeleteGoal(c.Request.Context(), userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_SAVINGS_GOAL", "savings_goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Savings goal deleted successfully"})
}

// CreateTransaction deposits into or withdraws from a goal.
// @Summary     Add savings transaction
// @Description Withdrawals larger than the balance are rejected with INSUFFICIENT_BALANCE
// @Tags        savings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                    true "Goal ID"
// @Param       request body SavingsTransactionRequest true "Transaction details"
// @Success     201 {object} models.SavingsTransaction
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient balance"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /savings/goals/{id}/transactions [post]
func (h *SavingsHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SavingsTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	tx, err := h.savingsService.ApplyTransaction(c.Request.Context(), goalID, userID, *req.Amount, req.Type, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SAVINGS_"+strings.ToUpper(string(req.Type)), "savings_goal", goalID, c.ClientIP(),
		map[string]interface{}{"transaction_id": tx.ID, "amount": tx.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// GetGoalTransactions lists a goal's transactions.
// @Summary     List goal transactions
// @Tags        savings
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {array}  models.SavingsTransaction
// @Failure     400 {object} ErrorResponse "Invalid goal ID"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Router      /savings/goals/{id}/transactions [get]
func (h *SavingsHandler) GetGoalTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	txs, err := h.savingsService.GetGoalTransactions(c.Request.Context(), userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

// GetRecentTransactions lists the user's latest savings transactions.
// @Summary     Recent savings transactions
// @Tags        savings
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Maximum entries (default 20, max 100)"
// @Success     200 {array}  models.SavingsTransaction
// @Failure     400 {object} ErrorResponse "Invalid limit"
// @Router      /savings/transactions/recent [get]
func (h *SavingsHandler) GetRecentTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be a positive integer"))
			return
		}
	}

	txs, err := h.savingsService.GetRecentTransactions(c.Request.Context(), userID, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
