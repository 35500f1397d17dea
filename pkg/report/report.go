package report

import (
	"fmt"

	"github.com/finview/finview/pkg/date"
	"github.com/shopspring/decimal"
)

// Type selects one of the service's report aggregations.
type Type string

const (
	TypeSpending Type = "spending"
	TypeIncome   Type = "income"
	TypeTrends   Type = "trends"
)

// Format selects the export blob format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// Range is the inclusive date range a report covers.
type Range struct {
	From date.Date
	To   date.Date
}

func (r Range) String() string {
	return fmt.Sprintf("%s-to-%s", r.From, r.To)
}

// CategoryAmount is one slice of the by-category aggregations.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// TimePoint is one sample of the over-time aggregation.
type TimePoint struct {
	Date   date.Date       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// OverTime is the spending-over-time aggregation: parallel series for
// spending and income.
type OverTime struct {
	Spending []TimePoint `json:"spending"`
	Income   []TimePoint `json:"income"`
}

// ValidType reports whether t names a known report type.
func ValidType(t Type) bool {
	switch t {
	case TypeSpending, TypeIncome, TypeTrends:
		return true
	}
	return false
}

// ValidFormat reports whether f names a known export format.
func ValidFormat(f Format) bool {
	switch f {
	case FormatCSV, FormatPDF:
		return true
	}
	return false
}
