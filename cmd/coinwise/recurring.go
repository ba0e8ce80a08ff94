package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/coinwise/coinwise/internal/cli"
	"github.com/coinwise/coinwise/internal/model"
	"github.com/spf13/cobra"
)

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Manage recurring obligations",
		Long:  `List, add, and delete recurring rules, and materialize everything that has come due.`,
	}

	cmd.AddCommand(listRecurringCmd())
	cmd.AddCommand(addRecurringCmd())
	cmd.AddCommand(deleteRecurringCmd())
	cmd.AddCommand(processRecurringCmd())

	return cmd
}

func listRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurring rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rules, err := store.GetRecurringRules(ctx)
			if err != nil {
				return fmt.Errorf("failed to list recurring rules: %w", err)
			}

			if len(rules) == 0 {
				fmt.Println(cli.InfoStyle.Render("No recurring rules. Use 'coinwise recurring add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.BoldStyle.Render("ID"),
				cli.BoldStyle.Render("Description"),
				cli.BoldStyle.Render("Amount"),
				cli.BoldStyle.Render("Category"),
				cli.BoldStyle.Render("Frequency"),
				cli.BoldStyle.Render("Next due"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 24),
				strings.Repeat("-", 10),
				strings.Repeat("-", 14),
				strings.Repeat("-", 9),
				strings.Repeat("-", 10))

			for _, rule := range rules {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					rule.ID,
					rule.Description,
					formatAmount(rule.Amount),
					rule.Category,
					rule.Frequency,
					rule.NextDueDate.Format(time.DateOnly))
			}

			return nil
		},
	}
}

func addRecurringCmd() *cobra.Command {
	var (
		category  string
		frequency string
		firstDue  string
	)

	cmd := &cobra.Command{
		Use:   "add <amount> <description>",
		Short: "Add a recurring rule",
		Long: `Create a recurring obligation. Each time it comes due, 'coinwise recurring
process' materializes a real transaction and advances the due date.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}

			freq, err := model.ParseFrequency(strings.ToUpper(frequency))
			if err != nil {
				return err
			}

			due, err := parseDay(firstDue)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rule := &model.RecurringRule{
				Description: args[1],
				Amount:      amount,
				Category:    category,
				Frequency:   freq,
				NextDueDate: due,
			}
			id, err := store.SaveRecurringRule(ctx, rule)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Created recurring rule #%d: %s %s every %s, next due %s",
				id, formatAmount(amount), rule.Description,
				strings.ToLower(string(freq)), due.Format(time.DateOnly))))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "Bills", "category for materialized transactions")
	cmd.Flags().StringVar(&frequency, "frequency", "MONTHLY", "MONTHLY or YEARLY")
	cmd.Flags().StringVar(&firstDue, "due", "", "first due date (YYYY-MM-DD, default today)")

	return cmd
}

func deleteRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <rule-id>",
		Short: "Delete a recurring rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid rule id %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteRecurringRule(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted recurring rule #%d", id)))
			return nil
		},
	}
}

func processRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Materialize every due recurring obligation",
		Long: `Walk every recurring rule whose due date has arrived, insert the missed
transactions (one per elapsed period), and advance the due dates.`,
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

			count, err := eng.ProcessRecurring(ctx)
			if err != nil {
				return err
			}

			if count == 0 {
				fmt.Println(cli.FormatInfo("Nothing due."))
				return nil
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Materialized %d transaction(s).", count)))
			return nil
		},
	}
}
