package analytics

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

// Motivational messages.
const (
	MessagePraise     = "Great job! You're well within your budget this month!"
	MessageCaution    = "Good progress! Keep an eye on your spending to stay on track."
	MessageWarning    = "Heads up! You're approaching your budget limit."
	MessageExceeded   = "Budget exceeded! Consider reviewing your expenses."
	MessageSpendingUp = "Spending is up this month. Try to identify areas to cut back."
	MessageFallback   = "Track your expenses daily for better financial health!"
)

var increaseFactor = decimal.NewFromFloat(1.2)

// Picker chooses an index in [0, n). n is always at least 1.
type Picker interface {
	Intn(n int) int
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(n int) int

// Intn implements Picker.
func (f PickerFunc) Intn(n int) int { return f(n) }

type randPicker struct{}

func (randPicker) Intn(n int) int { return rand.IntN(n) }

// MessageSelector picks a motivational message for a dashboard.
type MessageSelector struct {
	picker Picker
}

// NewMessageSelector returns a selector using picker, or the process-wide
// random source when picker is nil.
func NewMessageSelector(picker Picker) *MessageSelector {
	if picker == nil {
		picker = randPicker{}
	}
	return &MessageSelector{picker: picker}
}

// Select returns one message chosen uniformly from Candidates.
func (s *MessageSelector) Select(budget *BudgetFigures, thisMonth, lastMonth decimal.Decimal) string {
	candidates := Candidates(budget, thisMonth, lastMonth)
	idx := s.picker.Intn(len(candidates))
	if idx < 0 || idx >= len(candidates) {
		idx = 0
	}
	return candidates[idx]
}

// Candidates builds the set of applicable messages. The result is never empty.
func Candidates(budget *BudgetFigures, thisMonth, lastMonth decimal.Decimal) []string {
	var candidates []string

	if budget != nil {
		switch pct := budget.PercentageUsed; {
		case pct < 50:
			candidates = append(candidates, MessagePraise)
		case pct < 80:
			candidates = append(candidates, MessageCaution)
		case pct < 100:
			candidates = append(candidates, MessageWarning)
		default:
			candidates = append(candidates, MessageExceeded)
		}
	}

	if lastMonth.IsPositive() {
		switch {
		case thisMonth.LessThan(lastMonth):
			drop := lastMonth.Sub(thisMonth).Div(lastMonth).Mul(hundred).Round(0)
			candidates = append(candidates, DecreaseMessage(drop))
		case thisMonth.GreaterThan(lastMonth.Mul(increaseFactor)):
			candidates = append(candidates, MessageSpendingUp)
		}
	}

	if len(candidates) == 0 {
		candidates = append(candidates, MessageFallback)
	}
	return candidates
}

// DecreaseMessage formats the month-over-month saving message.
func DecreaseMessage(percent decimal.Decimal) string {
	return "You're spending " + percent.String() + "% less than last month!"
}
