package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/finview/finview/pkg/budget"
	"github.com/finview/finview/pkg/date"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newBudgetsCommand(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Track budgets against actual spend",
	}
	cmd.AddCommand(
		newBudgetsListCommand(deps),
		newBudgetsAddCommand(deps),
		newBudgetsRemoveCommand(deps),
	)
	return cmd
}

func newBudgetsListCommand(deps *Dependencies) *cobra.Command {
	var period string
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List budgets of a period with their computed spend",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(deps); err != nil {
				return err
			}
			summaries, err := deps.BudgetService.Summaries(cmd.Context(), budget.Period(period))
			if err != nil {
				return err
			}

			if asCSV {
				rendered, err := deps.CsvBudgetRenderer.RenderSummaries(summaries)
				if err != nil {
					return err
				}
				fmt.Print(rendered)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCATEGORY\tWINDOW\tBUDGETED\tSPENT\tUSED\tSTATUS")
			for _, s := range summaries {
				status := "on track"
				if s.OverBudget {
					status = "OVER BUDGET"
				}
				fmt.Fprintf(w, "%s\t%s\t%s..%s\t%s\t%s\t%d%%\t%s\n",
					s.ID, s.Category, s.StartDate, s.EndDate,
					s.Amount.StringFixed(2), s.Spent.StringFixed(2), s.PercentUsed, status)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&period, "period", string(budget.PeriodMonthly), "budget period (monthly|quarterly|annual)")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "render as CSV")
	return cmd
}

func newBudgetsAddCommand(deps *Dependencies) *cobra.Command {
	var category, amount, period, start, end string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a budget",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(deps); err != nil {
				return err
			}
			parsedAmount, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}
			startDate, err := date.Parse(start)
			if err != nil {
				return err
			}
			endDate, err := date.Parse(end)
			if err != nil {
				return err
			}
			if endDate.Before(startDate) {
				return fmt.Errorf("end date %s is before start date %s", endDate, startDate)
			}

			created, err := deps.BudgetService.Create(cmd.Context(), budget.Budget{
				Category:  category,
				Amount:    parsedAmount,
				Period:    budget.Period(period),
				StartDate: startDate,
				EndDate:   endDate,
			})
			if err != nil {
				return err
			}
			fmt.Printf("created budget %s\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category the budget tracks")
	cmd.Flags().StringVar(&amount, "amount", "", "target amount")
	cmd.Flags().StringVar(&period, "period", string(budget.PeriodMonthly), "monthly, quarterly or annual")
	cmd.Flags().StringVar(&start, "start", "", "window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "window end (YYYY-MM-DD), inclusive")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func newBudgetsRemoveCommand(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(deps); err != nil {
				return err
			}
			return deps.BudgetService.Delete(cmd.Context(), args[0])
		},
	}
}
