package services

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
)

// positiveCents rounds amount to cents and requires the rounded value to be
// greater than zero.
func positiveCents(amount decimal.Decimal, field string) (decimal.Decimal, error) {
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, field+" must be greater than zero")
	}
	return amount, nil
}

// filterWindow keeps the expenses dated within [from, to).
func filterWindow(expenses []models.Expense, from, to time.Time) []models.Expense {
	result := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		d := e.Date.UTC()
		if !d.Before(from) && d.Before(to) {
			result = append(result, e)
		}
	}
	return result
}
