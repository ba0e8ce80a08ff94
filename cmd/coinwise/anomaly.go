package main

import (
	"fmt"
	"strconv"

	"github.com/coinwise/coinwise/internal/anomaly"
	"github.com/coinwise/coinwise/internal/cli"
	"github.com/spf13/cobra"
)

func anomalyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "anomaly <category> <amount>",
		Short: "Check whether an amount would be flagged as unusual",
		Long: `Check a candidate expense against the category's historical average.
Amounts below the floor are never flagged; above it, anything more than
4x the average for the category is considered unusual.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			category := args[0]
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
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

			averages, err := store.GetCategoryAverages(ctx)
			if err != nil {
				return err
			}

			if eng.Detector().IsAnomalous(category, amount) {
				fmt.Println(cli.FormatWarning(fmt.Sprintf(
					"%s is unusually large for %s (average %s).",
					formatAmount(amount), category, formatAmount(averages[category]))))
				return nil
			}

			if averages[category] == 0 {
				fmt.Println(cli.FormatInfo(fmt.Sprintf(
					"No spending history for %s yet, so nothing is flagged.", category)))
				return nil
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"%s looks normal for %s (average %s, flagged above %s).",
				formatAmount(amount), category, formatAmount(averages[category]),
				formatAmount(max(averages[category]*anomaly.Multiplier, anomaly.MinAnomalyAmount)))))
			return nil
		},
	}
}
