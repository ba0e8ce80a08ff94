package main

import (
	"fmt"

	"github.com/coinwise/coinwise/internal/cli"
	"github.com/spf13/cobra"
)

func classifyCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "classify <description>",
		Short: "Preview how a description would be categorized",
		Long: `Run the classifier against a description without recording anything.
With --top, show the strongest candidate categories instead of just the best.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			description := args[0]

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			eng, err := initEngine(ctx, store)
			if err != nil {
				return err
			}

			if !eng.Categorizer().Ready() {
				fmt.Println(cli.FormatWarning("No trained model yet. Run 'coinwise train' first."))
			}

			if top <= 1 {
				ranking := eng.Categorizer().Predict(description)
				fmt.Printf("%s %s (%.0f%% confident)\n",
					cli.BoldStyle.Render(ranking.Category),
					cli.SubtleStyle.Render("←"),
					ranking.Confidence*100)
				return nil
			}

			rankings := eng.Categorizer().PredictTopK(description, top)
			if len(rankings) == 0 {
				fmt.Println(cli.InfoStyle.Render("No category scored above the confidence floor."))
				return nil
			}
			for i, ranking := range rankings {
				fmt.Printf("%d. %s (%.0f%%)\n", i+1, ranking.Category, ranking.Confidence*100)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 1, "show the top N candidate categories")

	return cmd
}

func trainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Retrain the classifier from the corpus and corrections",
		Long: `Rebuild the classification model from the base training corpus plus every
recorded correction, persist it, and make it live.`,
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

			fmt.Println(cli.FormatInfo("Training classifier..."))
			m, err := eng.Retrain().Wait(ctx)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Model trained over %d categories and saved.", len(m.Categories()))))
			return nil
		},
	}
}
