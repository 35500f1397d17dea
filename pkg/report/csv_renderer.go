package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/finview/finview/pkg/budget"
	log "github.com/sirupsen/logrus"
)

// CsvBudgetRendererImpl renders computed budget summaries to CSV locally,
// without a round trip to the export endpoint.
type CsvBudgetRendererImpl struct {
}

func NewCsvBudgetRenderer() *CsvBudgetRendererImpl {
	return &CsvBudgetRendererImpl{}
}

func (t *CsvBudgetRendererImpl) RenderSummaries(summaries []budget.Summary) (string, error) {

	data := make([][]string, 0, len(summaries)+1)
	data = append(data, []string{
		"Category", "Period", "Start", "End", "Budgeted", "Spent", "Remaining", "Used %", "Over budget",
	})

	for _, summary := range summaries {
		remaining := summary.Amount.Sub(summary.Spent)
		data = append(data, []string{
			summary.Category,
			string(summary.Period),
			summary.StartDate.String(),
			summary.EndDate.String(),
			summary.Amount.StringFixed(2),
			summary.Spent.StringFixed(2),
			remaining.StringFixed(2),
			strconv.Itoa(summary.PercentUsed),
			strconv.FormatBool(summary.OverBudget),
		})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}
