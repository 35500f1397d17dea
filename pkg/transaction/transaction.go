package transaction

import (
	"strings"

	"github.com/finview/finview/pkg/date"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Transaction is a single ledger entry, owned by the remote service and
// fetched read-only by the client.
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        Type            `json:"type"`
	Category    string          `json:"category"`
	Date        date.Date       `json:"date"`
}

// Filter narrows a transaction list the way the transactions view does:
// free-text search over description and category, plus exact type and
// category filters. Zero values match everything.
type Filter struct {
	Search   string
	Type     Type
	Category string
}

func (f Filter) Matches(t Transaction) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Description), needle) &&
			!strings.Contains(strings.ToLower(t.Category), needle) {
			return false
		}
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	return true
}

// Apply returns the transactions matching the filter, preserving order.
func (f Filter) Apply(transactions []Transaction) []Transaction {
	matched := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if f.Matches(t) {
			matched = append(matched, t)
		}
	}
	return matched
}
