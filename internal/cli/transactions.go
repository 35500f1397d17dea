package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/finview/finview/pkg/date"
	"github.com/finview/finview/pkg/transaction"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newTransactionsCommand(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List and manage transactions",
	}
	cmd.AddCommand(
		newTransactionsListCommand(deps),
		newTransactionsAddCommand(deps),
		newTransactionsRemoveCommand(deps),
	)
	return cmd
}

func newTransactionsListCommand(deps *Dependencies) *cobra.Command {
	var search, txType, category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(deps); err != nil {
				return err
			}
			transactions, err := deps.TransactionService.GetAll(cmd.Context())
			if err != nil {
				return err
			}

			filter := transaction.Filter{
				Search:   search,
				Type:     transaction.Type(txType),
				Category: category,
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tTYPE\tCATEGORY\tAMOUNT\tDESCRIPTION")
			for _, t := range filter.Apply(transactions) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Date, t.Type, t.Category, t.Amount.StringFixed(2), t.Description)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "match against description and category")
	cmd.Flags().StringVar(&txType, "type", "", "filter by type (income|expense)")
	cmd.Flags().StringVar(&category, "category", "", "filter by exact category")
	return cmd
}

func newTransactionsAddCommand(deps *Dependencies) *cobra.Command {
	var description, amount, txType, category, day string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(deps); err != nil {
				return err
			}
			parsedAmount, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}
			if txType != string(transaction.TypeIncome) && txType != string(transaction.TypeExpense) {
				return fmt.Errorf("invalid type %q, want income or expense", txType)
			}
			when := date.Of(deps.Clock.Now())
			if day != "" {
				when, err = date.Parse(day)
				if err != nil {
					return err
				}
			}

			created, err := deps.TransactionService.Create(cmd.Context(), transaction.Transaction{
				Description: description,
				Amount:      parsedAmount,
				Type:        transaction.Type(txType),
				Category:    category,
				Date:        when,
			})
			if err != nil {
				return err
			}
			fmt.Printf("created transaction %s\n", created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "what the money was for")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, e.g. 42.50")
	cmd.Flags().StringVar(&txType, "type", "expense", "income or expense")
	cmd.Flags().StringVar(&category, "category", "", "category name")
	cmd.Flags().StringVar(&day, "date", "", "date (YYYY-MM-DD), defaults to today")
	cmd.MarkFlagRequired("description")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("category")
	return cmd
}

func newTransactionsRemoveCommand(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(deps); err != nil {
				return err
			}
			return deps.TransactionService.Delete(cmd.Context(), args[0])
		},
	}
}
