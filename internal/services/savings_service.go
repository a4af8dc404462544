package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spendwise/internal/analytics"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/events"
	"spendwise/internal/logger"
	"spendwise/internal/models"
	"spendwise/internal/store"
)

// Recent transaction limits.
const (
	DefaultRecentTransactions = 20
	MaxRecentTransactions     = 100
)

// savingsService handles savings goals and their transaction ledger.
type savingsService struct {
	db        *gorm.DB
	ledger    store.Ledger
	publisher events.Publisher
	now       func() time.Time
}

// NewSavingsService creates a new SavingsServicer. Ledger events are sent to
// publisher; pass events.NopPublisher{} to disable them.
func NewSavingsService(db *gorm.DB, publisher events.Publisher) SavingsServicer {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &savingsService{
		db:        db,
		ledger:    store.NewGormLedger(db),
		publisher: publisher,
		now:       time.Now,
	}
}

func goalView(goal *models.SavingsGoal) *GoalView {
	return &GoalView{
		SavingsGoal:        *goal,
		RemainingAmount:    goal.RemainingAmount(),
		PercentageComplete: goal.PercentageComplete(),
	}
}

func validateGoalName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if len([]rune(name)) > 100 {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name must be at most 100 characters")
	}
	return name, nil
}

// CreateGoal creates an empty, active savings goal.
func (s *savingsService) CreateGoal(ctx context.Context, userID string, input GoalInput) (*GoalView, error) {
	if input.Name == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	name, err := validateGoalName(*input.Name)
	if err != nil {
		return nil, err
	}
	if input.TargetAmount == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	target, err := positiveCents(*input.TargetAmount, "target amount")
	if err != nil {
		return nil, err
	}

	goal := &models.SavingsGoal{
		UserID:        userID,
		Name:          name,
		Description:   input.Description,
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		Icon:          models.DefaultGoalIcon,
		Color:         models.DefaultGoalColor,
		TargetDate:    input.TargetDate,
	}
	if input.Icon != nil && *input.Icon != "" {
		goal.Icon = *input.Icon
	}
	if input.Color != nil && *input.Color != "" {
		goal.Color = *input.Color
	}

	if err := s.db.WithContext(ctx).Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goalView(goal), nil
}

// GetUserGoals lists the user's goals, newest first.
func (s *savingsService) GetUserGoals(ctx context.Context, userID string) ([]GoalView, error) {
	goals, err := s.ledger.ListGoals(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]GoalView, 0, len(goals))
	for i := range goals {
		views = append(views, *goalView(&goals[i]))
	}
	return views, nil
}

func (s *savingsService) findOwned(ctx context.Context, userID, goalID string) (*models.SavingsGoal, error) {
	goal, err := s.ledger.FindGoal(ctx, goalID, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if goal == nil {
		return nil, apperrors.ErrGoalNotFound
	}
	return goal, nil
}

// GetGoalByID returns one of the user's goals.
func (s *savingsService) GetGoalByID(ctx context.Context, userID, goalID string) (*GoalView, error) {
	goal, err := s.findOwned(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	return goalView(goal), nil
}

// UpdateGoal changes a goal's descriptive fields and target. The balance
// and completion state are only ever changed by transactions.
func (s *savingsService) UpdateGoal(ctx context.Context, userID, goalID string, input GoalInput) (*GoalView, error) {
	goal, err := s.findOwned(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		name, err := validateGoalName(*input.Name)
		if err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.TargetAmount != nil {
		target, err := positiveCents(*input.TargetAmount, "target amount")
		if err != nil {
			return nil, err
		}
		updates["target_amount"] = target
	}
	if input.Icon != nil && *input.Icon != "" {
		updates["icon"] = *input.Icon
	}
	if input.Color != nil && *input.Color != "" {
		updates["color"] = *input.Color
	}
	if input.TargetDate != nil {
		updates["target_date"] = *input.TargetDate
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(goal).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetGoalByID(ctx, userID, goalID)
}

// DeleteGoal removes a goal and its whole ledger.
func (s *savingsService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	goal, err := s.findOwned(ctx, userID, goalID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("savings_goal_id = ?", goal.ID).Delete(&models.SavingsTransaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(goal).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ApplyTransaction deposits into or withdraws from a goal.
//
// The balance is written with a compare-and-swap on the previous value, so
// concurrent withdrawals can never take the balance below zero. A rejected withdrawal
// records nothing. The first deposit that brings the balance to the target
// marks the goal completed; later withdrawals leave it completed.
func (s *savingsService) ApplyTransaction(
	ctx context.Context,
	goalID, userID string,
	amount decimal.Decimal,
	txType models.SavingsTransactionType,
	note *string,
) (*models.SavingsTransaction, error) {
	amount, err := positiveCents(amount, "amount")
	if err != nil {
		return nil, err
	}
	if !txType.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}

	delta := amount
	if txType == models.SavingsWithdraw {
		delta = amount.Neg()
	}

	var (
		record    *models.SavingsTransaction
		goal      *models.SavingsGoal
		completed bool
	)
	err = s.ledger.WithinTx(ctx, func(tx store.Ledger) error {
		applied, err := tx.AdjustGoalBalance(ctx, goalID, userID, delta)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		goal, err = tx.FindGoal(ctx, goalID, userID)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if goal == nil {
			return apperrors.ErrGoalNotFound
		}
		if !applied {
			return apperrors.ErrInsufficientBalance
		}

		if txType == models.SavingsDeposit && !goal.IsCompleted &&
			goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
			completed, err = tx.MarkGoalCompleted(ctx, goalID, s.now())
			if err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		record = &models.SavingsTransaction{
			SavingsGoalID: goal.ID,
			UserID:        userID,
			GoalName:      goal.Name,
			Amount:        amount,
			Type:          txType,
			Note:          note,
		}
		if err := tx.AppendTransaction(ctx, record); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.SavingsEvent{
		Type:          events.TransactionRecorded,
		GoalID:        goal.ID,
		GoalName:      goal.Name,
		UserID:        userID,
		TransactionID: record.ID,
		Kind:          string(txType),
		Amount:        amount,
		OccurredAt:    record.CreatedAt,
	})
	if completed {
		s.publish(ctx, events.SavingsEvent{
			Type:       events.GoalCompleted,
			GoalID:     goal.ID,
			GoalName:   goal.Name,
			UserID:     userID,
			Amount:     goal.TargetAmount,
			OccurredAt: record.CreatedAt,
		})
	}

	return record, nil
}

func (s *savingsService) publish(ctx context.Context, event events.SavingsEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Get().Errorw("failed to publish savings event",
			"error", err,
			"type", event.Type,
			"goal_id", event.GoalID,
		)
	}
}

// GetGoalTransactions returns a goal's ledger, newest first.
func (s *savingsService) GetGoalTransactions(ctx context.Context, userID, goalID string) ([]models.SavingsTransaction, error) {
	if _, err := s.findOwned(ctx, userID, goalID); err != nil {
		return nil, err
	}

	txs, err := s.ledger.GoalTransactions(ctx, goalID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if txs == nil {
		txs = []models.SavingsTransaction{}
	}
	return txs, nil
}

// GetRecentTransactions returns the user's latest transactions across all
// goals. limit defaults to DefaultRecentTransactions and is capped at
// MaxRecentTransactions.
func (s *savingsService) GetRecentTransactions(ctx context.Context, userID string, limit int) ([]models.SavingsTransaction, error) {
	switch {
	case limit <= 0:
		limit = DefaultRecentTransactions
	case limit > MaxRecentTransactions:
		limit = MaxRecentTransactions
	}

	txs, err := s.ledger.RecentTransactions(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if txs == nil {
		txs = []models.SavingsTransaction{}
	}
	return txs, nil
}

// Summarize totals the user's goals.
func (s *savingsService) Summarize(ctx context.Context, userID string) (*SavingsSummary, error) {
	goals, err := s.ledger.ListGoals(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &SavingsSummary{TotalSaved: decimal.Zero, TotalTarget: decimal.Zero}
	for _, g := range goals {
		summary.TotalSaved = summary.TotalSaved.Add(g.CurrentAmount)
		summary.TotalTarget = summary.TotalTarget.Add(g.TargetAmount)
		if g.IsCompleted {
			summary.CompletedGoals++
		} else {
			summary.ActiveGoals++
		}
	}
	summary.OverallProgress = analytics.Percentage(summary.TotalSaved, summary.TotalTarget)
	return summary, nil
}
