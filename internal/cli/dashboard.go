package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newDashboardCommand(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the financial overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(deps); err != nil {
				return err
			}
			summary, err := deps.DashboardService.GetSummary(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Total income:   %s\n", summary.TotalIncome.StringFixed(2))
			fmt.Printf("Total expenses: %s\n", summary.TotalExpenses.StringFixed(2))
			fmt.Printf("Balance:        %s\n", summary.Balance.StringFixed(2))
			fmt.Printf("Monthly change: %s%%\n", summary.MonthlyChange.StringFixed(1))

			if len(summary.ExpensesByCategory) > 0 {
				fmt.Println("\nExpenses by category:")
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				for _, c := range summary.ExpensesByCategory {
					fmt.Fprintf(w, "  %s\t%s\n", c.Category, c.Amount.StringFixed(2))
				}
				w.Flush()
			}

			if len(summary.RecentTransactions) > 0 {
				fmt.Println("\nRecent transactions:")
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				for _, t := range summary.RecentTransactions {
					fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", t.Date, t.Type, t.Amount.StringFixed(2), t.Description)
				}
				w.Flush()
			}
			return nil
		},
	}
}
