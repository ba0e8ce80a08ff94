package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/coinwise/coinwise/internal/cli"
	"github.com/coinwise/coinwise/internal/model"
	"github.com/spf13/cobra"
)

func totalsCmd() *cobra.Command {
	var (
		yearArg  int
		monthArg string
	)

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Show spending totals",
		Long: `Show per-month totals for a year, or with --month the per-category
breakdown of a single month.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if monthArg != "" {
				month, err := parseMonth(monthArg)
				if err != nil {
					return err
				}
				totals, err := store.GetCategoryTotalsForMonth(ctx, month)
				if err != nil {
					return fmt.Errorf("failed to load category totals: %w", err)
				}
				if len(totals) == 0 {
					fmt.Println(cli.InfoStyle.Render("No spending recorded for " + month.Format(model.MonthKey) + "."))
					return nil
				}

				categories := make([]string, 0, len(totals))
				for category := range totals {
					categories = append(categories, category)
				}
				sort.Strings(categories)

				var sum float64
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				defer w.Flush()
				for _, category := range categories {
					fmt.Fprintf(w, "%s\t%s\n", category, formatAmount(totals[category]))
					sum += totals[category]
				}
				fmt.Fprintf(w, "%s\t%s\n", strings.Repeat("-", 16), strings.Repeat("-", 10))
				fmt.Fprintf(w, "%s\t%s\n", cli.BoldStyle.Render("Total"), cli.BoldStyle.Render(formatAmount(sum)))
				return nil
			}

			if yearArg == 0 {
				yearArg = time.Now().UTC().Year()
			}
			totals, err := store.GetMonthlyTotalsForYear(ctx, yearArg)
			if err != nil {
				return fmt.Errorf("failed to load monthly totals: %w", err)
			}
			if len(totals) == 0 {
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("No spending recorded in %d.", yearArg)))
				return nil
			}

			months := make([]string, 0, len(totals))
			for month := range totals {
				months = append(months, month)
			}
			sort.Strings(months)

			var sum float64
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()
			for _, month := range months {
				fmt.Fprintf(w, "%s\t%s\n", month, formatAmount(totals[month]))
				sum += totals[month]
			}
			fmt.Fprintf(w, "%s\t%s\n", strings.Repeat("-", 7), strings.Repeat("-", 10))
			fmt.Fprintf(w, "%s\t%s\n", cli.BoldStyle.Render(strconv.Itoa(yearArg)), cli.BoldStyle.Render(formatAmount(sum)))
			return nil
		},
	}

	cmd.Flags().IntVar(&yearArg, "year", 0, "year to summarize (default current year)")
	cmd.Flags().StringVar(&monthArg, "month", "", "summarize one month by category (YYYY-MM)")

	return cmd
}
