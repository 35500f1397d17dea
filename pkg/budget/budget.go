package budget

import (
	"github.com/finview/finview/pkg/date"
	"github.com/shopspring/decimal"
)

type Period string

const (
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodAnnual    Period = "annual"
)

// Budget is a spending target for one category over an inclusive date
// window. The service owns the record; spend against it is derived on the
// client and never persisted.
type Budget struct {
	ID        string          `json:"id"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Period    Period          `json:"period"`
	StartDate date.Date       `json:"start_date"`
	EndDate   date.Date       `json:"end_date"`
}
