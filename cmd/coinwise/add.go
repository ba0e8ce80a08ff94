package main

import (
	"fmt"
	"strconv"

	"github.com/coinwise/coinwise/internal/cli"
	"github.com/coinwise/coinwise/internal/model"
	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	var (
		dateArg  string
		category string
	)

	cmd := &cobra.Command{
		Use:   "add <amount> <description>",
		Short: "Record a transaction",
		Long: `Record a transaction in the ledger. Unless --category is given, the
description is classified automatically. Unusually large expenses and
budget limit crossings are flagged as the transaction is saved.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			description := args[1]

			date, err := parseDay(dateArg)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			eng, err := initEngine(ctx, store)
			if err != nil {
				return err
			}

			txn := &model.Transaction{
				Date:        date,
				Amount:      amount,
				Description: description,
				Category:    category,
			}
			if txn.Category == "" {
				ranking := eng.Categorizer().Predict(description)
				txn.Category = ranking.Category
				fmt.Println(cli.FormatInfo(fmt.Sprintf("Categorized as %q (%.0f%% confident)",
					ranking.Category, ranking.Confidence*100)))
			}

			if eng.Detector().IsAnomalous(txn.Category, txn.Amount) {
				fmt.Println(cli.FormatWarning(fmt.Sprintf(
					"This is unusually large for %s — more than 4x your average.", txn.Category)))
			}

			id, breach, err := eng.AddTransaction(ctx, txn)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded transaction #%d: %s %s (%s)",
				id, formatAmount(amount), description, txn.Category)))

			if breach != nil {
				fmt.Println(cli.FormatWarning(fmt.Sprintf(
					"Budget alert: this puts %s over its %s monthly limit.",
					breach.Category, formatAmount(breach.MonthlyLimit))))
				if err := eng.Monitor().MarkAlerted(ctx, breach); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dateArg, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&category, "category", "", "category (classified from the description if omitted)")

	return cmd
}
