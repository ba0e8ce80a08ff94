package main

import (
	"fmt"
	"strings"

	"github.com/coinwise/coinwise/internal/cli"
	"github.com/coinwise/coinwise/internal/model"
	"github.com/spf13/cobra"
)

func personaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "persona",
		Short: "Sketch your spending persona",
		Long: `Cluster your transaction history into behavioral groups (weekday vs
weekend, high-value vs low-value) and describe each one.`,
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

			persona, err := eng.GeneratePersona(ctx).Wait(ctx)
			if err != nil {
				return err
			}
			if persona == nil {
				fmt.Println(cli.FormatInfo("Not enough history for a persona yet. Keep recording transactions."))
				return nil
			}

			fmt.Println(renderPersona(persona))
			return nil
		},
	}
}

func renderPersona(persona *model.Persona) string {
	var b strings.Builder

	for i, cluster := range persona.Clusters {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(cli.BoldStyle.Render(cluster.Name) + "\n")
		b.WriteString(fmt.Sprintf("  %d transactions, averaging %s\n",
			cluster.TransactionCount, formatAmount(cluster.AverageAmount)))
		if len(cluster.TopCategories) > 0 {
			names := make([]string, len(cluster.TopCategories))
			for j, cc := range cluster.TopCategories {
				names[j] = fmt.Sprintf("%s (%d)", cc.Category, cc.Count)
			}
			b.WriteString("  Mostly: " + strings.Join(names, ", ") + "\n")
		}
	}

	return cli.RenderBox(persona.Title, strings.TrimRight(b.String(), "\n"))
}
