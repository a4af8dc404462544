package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/models"
)

// DashboardCategoryLimit is how many categories a user dashboard shows.
const DashboardCategoryLimit = 5

// TrendMonths is the length of the monthly trend series.
const TrendMonths = 6

// CategorySpending is the total spent in one category.
type CategorySpending struct {
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Color        string          `json:"color"`
	Icon         string          `json:"icon"`
	Amount       decimal.Decimal `json:"amount"`
	Percentage   float64         `json:"percentage"`
	Count        int             `json:"count"`
}

// DailySpending is the total spent on one calendar day.
type DailySpending struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// MonthlySpending is the total spent in one calendar month.
type MonthlySpending struct {
	Label  string          `json:"label"`
	Month  int             `json:"month"`
	Year   int             `json:"year"`
	Amount decimal.Decimal `json:"amount"`
}

// Sum adds up the amounts of the expenses exactly.
func Sum(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// CategoryBreakdown groups expenses by category and sorts the groups by
// amount, largest first. Percentages are always taken against the total of
// every expense passed in, even when the result is truncated to limit.
// A limit of zero or less keeps every group. Categories missing from
// categories get the Unknown placeholder.
func CategoryBreakdown(expenses []models.Expense, categories []models.Category, limit int) []CategorySpending {
	byID := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	groups := make(map[string]*CategorySpending)
	order := make([]string, 0)
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
		g, ok := groups[e.CategoryID]
		if !ok {
			g = &CategorySpending{
				CategoryID:   e.CategoryID,
				CategoryName: models.UnknownCategoryName,
				Color:        models.UnknownCategoryColor,
				Icon:         models.UnknownCategoryIcon,
				Amount:       decimal.Zero,
			}
			if c, found := byID[e.CategoryID]; found {
				g.CategoryName = c.Name
				g.Color = c.Color
				g.Icon = c.Icon
			}
			groups[e.CategoryID] = g
			order = append(order, e.CategoryID)
		}
		g.Amount = g.Amount.Add(e.Amount)
		g.Count++
	}

	result := make([]CategorySpending, 0, len(groups))
	for _, id := range order {
		g := groups[id]
		g.Percentage = Percentage(g.Amount, total)
		result = append(result, *g)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if cmp := result[i].Amount.Cmp(result[j].Amount); cmp != 0 {
			return cmp > 0
		}
		if result[i].CategoryName != result[j].CategoryName {
			return result[i].CategoryName < result[j].CategoryName
		}
		return result[i].CategoryID < result[j].CategoryID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

// DailyBreakdown groups expenses by UTC calendar date, oldest first.
func DailyBreakdown(expenses []models.Expense) []DailySpending {
	groups := make(map[string]*DailySpending)
	for _, e := range expenses {
		key := e.Date.UTC().Format(time.DateOnly)
		g, ok := groups[key]
		if !ok {
			g = &DailySpending{Date: key, Amount: decimal.Zero}
			groups[key] = g
		}
		g.Amount = g.Amount.Add(e.Amount)
		g.Count++
	}

	result := make([]DailySpending, 0, len(groups))
	for _, g := range groups {
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result
}

// MonthlyTrend totals expenses for each of the months calendar months that
// end with the month containing anchor, oldest first. Expenses outside the
// series are ignored.
func MonthlyTrend(expenses []models.Expense, anchor time.Time, months int) []MonthlySpending {
	if months <= 0 {
		return []MonthlySpending{}
	}
	anchor = anchor.UTC()
	first, _ := MonthWindow(int(anchor.Month()), anchor.Year())
	first = first.AddDate(0, -(months - 1), 0)

	result := make([]MonthlySpending, months)
	for i := range result {
		start := first.AddDate(0, i, 0)
		result[i] = MonthlySpending{
			Label:  start.Format("Jan"),
			Month:  int(start.Month()),
			Year:   start.Year(),
			Amount: decimal.Zero,
		}
	}

	for _, e := range expenses {
		d := e.Date.UTC()
		idx := (d.Year()-first.Year())*12 + int(d.Month()) - int(first.Month())
		if idx < 0 || idx >= months {
			continue
		}
		result[idx].Amount = result[idx].Amount.Add(e.Amount)
	}
	return result
}

// TrendWindow returns the [start, end) range covered by MonthlyTrend for the
// same anchor and length.
func TrendWindow(anchor time.Time, months int) (time.Time, time.Time) {
	anchor = anchor.UTC()
	start, end := MonthWindow(int(anchor.Month()), anchor.Year())
	if months > 1 {
		start = start.AddDate(0, -(months - 1), 0)
	}
	return start, end
}
