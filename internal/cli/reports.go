package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/finview/finview/pkg/date"
	"github.com/finview/finview/pkg/report"
	"github.com/spf13/cobra"
)

func newReportsCommand(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Spending and income analysis",
	}
	cmd.AddCommand(
		newReportShowCommand(deps, report.TypeSpending, "spending", "Spending by category"),
		newReportShowCommand(deps, report.TypeIncome, "income", "Income by category"),
		newReportTrendsCommand(deps),
		newReportExportCommand(deps),
	)
	return cmd
}

// reportRange resolves the date range flags, defaulting to the first of the
// current month through today, matching the reports view default.
func reportRange(deps *Dependencies, from, to string) (report.Range, error) {
	today := date.Of(deps.Clock.Now())
	r := report.Range{
		From: date.New(today.Year(), today.Month(), 1),
		To:   today,
	}
	var err error
	if from != "" {
		if r.From, err = date.Parse(from); err != nil {
			return report.Range{}, err
		}
	}
	if to != "" {
		if r.To, err = date.Parse(to); err != nil {
			return report.Range{}, err
		}
	}
	return r, nil
}

func newReportShowCommand(deps *Dependencies, reportType report.Type, use, short string) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(deps); err != nil {
				return err
			}
			r, err := reportRange(deps, from, to)
			if err != nil {
				return err
			}

			var data []report.CategoryAmount
			if reportType == report.TypeSpending {
				data, err = deps.ReportService.SpendingByCategory(cmd.Context(), r)
			} else {
				data, err = deps.ReportService.IncomeByCategory(cmd.Context(), r)
			}
			if err != nil {
				return err
			}

			fmt.Printf("%s, %s to %s\n", short, r.From, r.To)
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, c := range data {
				fmt.Fprintf(w, "  %s\t%s\n", c.Category, c.Amount.StringFixed(2))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "range end (YYYY-MM-DD)")
	return cmd
}

func newReportTrendsCommand(deps *Dependencies) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Spending and income over time",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(deps); err != nil {
				return err
			}
			r, err := reportRange(deps, from, to)
			if err != nil {
				return err
			}
			data, err := deps.ReportService.SpendingOverTime(cmd.Context(), r)
			if err != nil {
				return err
			}

			fmt.Printf("Trends, %s to %s\n", r.From, r.To)
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "  DATE\tSPENDING")
			for _, p := range data.Spending {
				fmt.Fprintf(w, "  %s\t%s\n", p.Date, p.Amount.StringFixed(2))
			}
			fmt.Fprintln(w, "  DATE\tINCOME")
			for _, p := range data.Income {
				fmt.Fprintf(w, "  %s\t%s\n", p.Date, p.Amount.StringFixed(2))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "range end (YYYY-MM-DD)")
	return cmd
}

func newReportExportCommand(deps *Dependencies) *cobra.Command {
	var from, to, reportType, format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download a report as CSV or PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(deps); err != nil {
				return err
			}
			r, err := reportRange(deps, from, to)
			if err != nil {
				return err
			}
			path, err := deps.ReportService.Export(cmd.Context(), report.Type(reportType), report.Format(format), r)
			if err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "range end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&reportType, "type", string(report.TypeSpending), "spending, income or trends")
	cmd.Flags().StringVar(&format, "format", string(report.FormatCSV), "csv or pdf")
	return cmd
}
