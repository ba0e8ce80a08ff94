package main

import (
	"fmt"

	"github.com/coinwise/coinwise/internal/cli"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories seen in the ledger",
		Long:  `List every category the ledger has seen, with the classifier's labels marked.`,
		Args:  cobra.NoArgs,
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

			categories, err := store.GetDistinctCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories yet. Record a transaction first."))
				return nil
			}

			trainable := make(map[string]bool)
			if eng.Categorizer().Ready() {
				for _, label := range eng.Categorizer().Categories() {
					trainable[label] = true
				}
			}

			for _, category := range categories {
				if trainable[category] {
					fmt.Printf("%s %s\n", category, cli.SubtleStyle.Render("(model label)"))
				} else {
					fmt.Println(category)
				}
			}

			return nil
		},
	}
}
