// Package analytics holds the pure spending computations behind budgets and
// dashboards. Nothing here touches the database; callers pass in the rows.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetStatus is the tier derived from the share of a budget consumed.
type BudgetStatus string

const (
	StatusGood    BudgetStatus = "Good"
	StatusWarning BudgetStatus = "Warning"
	StatusDanger  BudgetStatus = "Danger"
)

var (
	hundred          = decimal.NewFromInt(100)
	goodThreshold    = decimal.NewFromInt(50)
	warningThreshold = decimal.NewFromInt(80)
)

// BudgetFigures are the read-time values derived from a budget and the
// spending in its month.
type BudgetFigures struct {
	Spent          decimal.Decimal `json:"spent"`
	Remaining      decimal.Decimal `json:"remaining"`
	PercentageUsed float64         `json:"percentage_used"`
	Status         BudgetStatus    `json:"status"`
}

// MonthWindow returns the half-open UTC range [start, end) covering the month.
func MonthWindow(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// PreviousMonth returns the month and year immediately before the given one.
func PreviousMonth(month, year int) (int, int) {
	if month == 1 {
		return 12, year - 1
	}
	return month - 1, year
}

// EvaluateBudget derives spent, remaining, percentage used and status.
// Remaining goes negative when spending exceeds the budget.
func EvaluateBudget(amount, spent decimal.Decimal) BudgetFigures {
	pct := decimal.Zero
	if amount.IsPositive() {
		pct = spent.Div(amount).Mul(hundred).Round(2)
	}
	return BudgetFigures{
		Spent:          spent,
		Remaining:      amount.Sub(spent),
		PercentageUsed: pct.InexactFloat64(),
		Status:         StatusFor(pct),
	}
}

// StatusFor maps a percentage to its tier. 50 is still Good and 80 is still
// Warning.
func StatusFor(percentage decimal.Decimal) BudgetStatus {
	switch {
	case percentage.LessThanOrEqual(goodThreshold):
		return StatusGood
	case percentage.LessThanOrEqual(warningThreshold):
		return StatusWarning
	default:
		return StatusDanger
	}
}

// PercentageChange is (this-last)/last*100 rounded to 2dp, or 0 when there
// is no positive baseline.
func PercentageChange(this, last decimal.Decimal) float64 {
	if !last.IsPositive() {
		return 0
	}
	return this.Sub(last).Div(last).Mul(hundred).Round(2).InexactFloat64()
}

// AveragePerDay spreads total over the days elapsed in the month. For the
// month containing now that is now's day of month; for any other month it
// is the full length of the month.
func AveragePerDay(total decimal.Decimal, month, year int, now time.Time) float64 {
	now = now.UTC()
	days := DaysIn(month, year)
	if now.Year() == year && int(now.Month()) == month {
		days = now.Day()
	}
	if days <= 0 {
		return 0
	}
	return total.Div(decimal.NewFromInt(int64(days))).Round(2).InexactFloat64()
}

// DaysIn returns the number of days in the month.
func DaysIn(month, year int) int {
	start, end := MonthWindow(month, year)
	return int(end.Sub(start).Hours() / 24)
}

// Percentage returns part/total*100 rounded to 2dp, or 0 when total is not
// positive.
func Percentage(part, total decimal.Decimal) float64 {
	if !total.IsPositive() {
		return 0
	}
	return part.Div(total).Mul(hundred).Round(2).InexactFloat64()
}
