package budget

import (
	"strings"

	"github.com/finview/finview/pkg/transaction"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Summary is a budget with its derived spend fields. Spent is recomputed
// from the current transaction set on every call; it is a view, not a
// stored fact.
type Summary struct {
	Budget
	Spent decimal.Decimal `json:"spent"`
	// PercentUsed is capped at 100 for display. OverBudget is independent of
	// the cap: a budget can read 100% and still be flagged as over.
	PercentUsed int  `json:"percentUsed"`
	OverBudget  bool `json:"overBudget"`
}

// Summarize computes the spend for one budget: the sum of expense
// transactions whose category matches case-insensitively and whose date lies
// in the inclusive window [StartDate, EndDate].
func Summarize(b Budget, transactions []transaction.Transaction) Summary {
	spent := decimal.Zero
	for _, t := range transactions {
		if t.Type != transaction.TypeExpense {
			continue
		}
		if !strings.EqualFold(t.Category, b.Category) {
			continue
		}
		if !t.Date.Within(b.StartDate, b.EndDate) {
			continue
		}
		spent = spent.Add(t.Amount)
	}

	return Summary{
		Budget:      b,
		Spent:       spent,
		PercentUsed: percentUsed(spent, b.Amount),
		OverBudget:  spent.GreaterThan(b.Amount),
	}
}

// SummarizeAll computes summaries for the budgets of the given period, in
// input order. An empty period summarizes every budget.
func SummarizeAll(budgets []Budget, transactions []transaction.Transaction, period Period) []Summary {
	summaries := make([]Summary, 0, len(budgets))
	for _, b := range budgets {
		if period != "" && b.Period != period {
			continue
		}
		summaries = append(summaries, Summarize(b, transactions))
	}
	return summaries
}

func percentUsed(spent, amount decimal.Decimal) int {
	if !amount.IsPositive() {
		if spent.IsPositive() {
			return 100
		}
		return 0
	}
	percent := int(spent.Div(amount).Mul(hundred).Round(0).IntPart())
	if percent > 100 {
		return 100
	}
	if percent < 0 {
		return 0
	}
	return percent
}
