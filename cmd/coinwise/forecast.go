package main

import (
	"fmt"
	"strings"

	"github.com/coinwise/coinwise/internal/cli"
	"github.com/coinwise/coinwise/internal/model"
	"github.com/spf13/cobra"
)

func forecastCmd() *cobra.Command {
	var monthArg string

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project next month's spending per category",
		Long: `Train a forecasting session over the ledger and project spending for the
target month (default: next month). Categories whose projection exceeds
their budget are flagged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var month = monthArg
			target, err := parseMonth(month)
			if err != nil {
				return err
			}
			if month == "" {
				target = target.AddDate(0, 1, 0)
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

			fmt.Println(cli.FormatInfo(fmt.Sprintf("Forecasting %s...", target.Format("January 2006"))))
			report, err := eng.Forecast(ctx, target).Wait(ctx)
			if err != nil {
				return err
			}

			fmt.Println(renderForecast(report))
			return nil
		},
	}

	cmd.Flags().StringVar(&monthArg, "month", "", "target month (YYYY-MM, default next month)")

	return cmd
}

func renderForecast(report *model.ForecastReport) string {
	var b strings.Builder

	for _, cf := range report.Categories {
		b.WriteString(fmt.Sprintf("%-20s %10s\n", cf.Category, formatAmount(cf.Amount)))
	}
	b.WriteString(fmt.Sprintf("%-20s %10s\n", cli.BoldStyle.Render("Total"),
		cli.BoldStyle.Render(formatAmount(report.Total))))

	if report.LastMonthActual > 0 {
		delta := report.DeltaFromLastMonth()
		line := fmt.Sprintf("vs last month's actual %s: %+.2f", formatAmount(report.LastMonthActual), delta)
		if delta > 0 {
			b.WriteString(cli.WarningStyle.Render(line) + "\n")
		} else {
			b.WriteString(cli.SuccessStyle.Render(line) + "\n")
		}
	}

	for _, breach := range report.Breaches {
		b.WriteString(cli.FormatWarning(fmt.Sprintf(
			"%s is projected at %s, %s over its %s limit",
			breach.Category,
			formatAmount(breach.Projected),
			formatAmount(breach.Overspend),
			formatAmount(breach.Limit))) + "\n")
	}

	title := cli.ChartIcon + " Forecast for " + report.Month.Format("January 2006")
	return cli.RenderBox(title, strings.TrimRight(b.String(), "\n"))
}
