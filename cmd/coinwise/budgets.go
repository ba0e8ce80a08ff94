package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/coinwise/coinwise/internal/cli"
	"github.com/coinwise/coinwise/internal/common"
	"github.com/coinwise/coinwise/internal/model"
	"github.com/spf13/cobra"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage monthly category budgets",
		Long:  `List, set, and remove per-category monthly limits, or ask for suggested limits based on your history.`,
	}

	cmd.AddCommand(listBudgetsCmd())
	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(removeBudgetCmd())
	cmd.AddCommand(suggestBudgetsCmd())

	return cmd
}

func listBudgetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List budgets with month-to-date spend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			budgets, err := store.GetBudgets(ctx)
			if err != nil {
				return fmt.Errorf("failed to list budgets: %w", err)
			}

			if len(budgets) == 0 {
				fmt.Println(cli.InfoStyle.Render("No budgets set. Use 'coinwise budgets set' or 'coinwise budgets suggest'."))
				return nil
			}

			now := time.Now().UTC()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("Category"),
				cli.BoldStyle.Render("Limit"),
				cli.BoldStyle.Render("Spent"),
				cli.BoldStyle.Render("Remaining"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 16),
				strings.Repeat("-", 10),
				strings.Repeat("-", 10),
				strings.Repeat("-", 10))

			for _, budget := range budgets {
				spent, err := store.GetSpentForCategoryMonth(ctx, budget.Category, now)
				if err != nil {
					return fmt.Errorf("failed to compute spend for %s: %w", budget.Category, err)
				}
				remaining := budget.MonthlyLimit - spent
				remainingCell := formatAmount(remaining)
				if remaining < 0 {
					remainingCell = cli.ErrorStyle.Render(remainingCell)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					budget.Category,
					formatAmount(budget.MonthlyLimit),
					formatAmount(spent),
					remainingCell)
			}

			return nil
		},
	}
}

func setBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <monthly-limit>",
		Short: "Set or update a category's monthly limit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			limit, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid limit %q: %w", args[1], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			category := args[0]
			existing, err := store.GetBudgetByCategory(ctx, category)
			switch {
			case err == nil:
				// Keep the alert history; only the limit changes.
				if err := store.UpdateBudgetLimit(ctx, existing.ID, limit); err != nil {
					return err
				}
			case errors.Is(err, common.ErrNotFound):
				if err := store.UpsertBudget(ctx, &model.Budget{Category: category, MonthlyLimit: limit}); err != nil {
					return err
				}
			default:
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Budget for %s set to %s/month",
				category, formatAmount(limit))))
			return nil
		},
	}
}

func removeBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <category>",
		Short: "Remove a category's budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			budget, err := store.GetBudgetByCategory(ctx, args[0])
			if err != nil {
				return err
			}
			if err := store.DeleteBudget(ctx, budget.ID); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Removed budget for %s", args[0])))
			return nil
		},
	}
}

func suggestBudgetsCmd() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest budgets from your spending history",
		Long: `Propose a monthly limit per category: 110% of the average monthly spend
over the last six months, rounded to the nearest 50. Use --apply to save
the suggestions as budgets.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			eng, err := initEngine(ctx, store)
			if err != nil {
				return err
			}

			suggestions, err := eng.Monitor().Suggest(ctx)
			if err != nil {
				return err
			}

			if len(suggestions) == 0 {
				fmt.Println(cli.InfoStyle.Render("Not enough history to suggest budgets yet."))
				return nil
			}

			for _, suggestion := range suggestions {
				fmt.Printf("%-20s %10s\n", suggestion.Category, formatAmount(suggestion.MonthlyLimit))
				if apply {
					b := suggestion
					if err := store.UpsertBudget(ctx, &b); err != nil {
						return err
					}
				}
			}

			if apply {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Applied %d suggested budget(s).", len(suggestions))))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "save the suggestions as budgets")

	return cmd
}
