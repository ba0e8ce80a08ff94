package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/coinwise/coinwise/internal/cli"
	"github.com/coinwise/coinwise/internal/service"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var (
		category string
		monthArg string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent transactions",
		Long:  `Display recent transactions, newest first, optionally filtered by category or month.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			filter := service.TransactionFilter{Category: category, Limit: limit}
			if monthArg != "" {
				month, err := parseMonth(monthArg)
				if err != nil {
					return err
				}
				end := month.AddDate(0, 1, -1) // EndDate is inclusive
				filter.StartDate = &month
				filter.EndDate = &end
			}

			transactions, err := store.GetTransactions(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			if len(transactions) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions found. Use 'coinwise add' to record one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("Date"),
				cli.BoldStyle.Render("Amount"),
				cli.BoldStyle.Render("Category"),
				cli.BoldStyle.Render("Description"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 10),
				strings.Repeat("-", 10),
				strings.Repeat("-", 16),
				strings.Repeat("-", 30))

			for _, txn := range transactions {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					txn.ID,
					txn.Date.Format(time.DateOnly),
					formatAmount(txn.Amount),
					txn.Category,
					txn.Description)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only show this category")
	cmd.Flags().StringVar(&monthArg, "month", "", "only show this month (YYYY-MM)")
	cmd.Flags().IntVar(&limit, "limit", 25, "maximum rows to show (0 for all)")

	return cmd
}
