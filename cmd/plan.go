package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
	"github.com/Lumos-Labs-HQ/qsynth/internal/seeder"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the generation order of each model",
	Long: `
Print, per model, the order schemas are generated in and the references that
force it. Nothing is generated.

Examples:
  qsynth plan -i model.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(cmd)
		if err != nil {
			return err
		}

		for _, m := range doc.Models {
			order, err := seeder.Plan(m)
			if err != nil {
				return fmt.Errorf("model %s: %w", m.Name, err)
			}

			color.Cyan("📋 Model %s (locales: %v)", m.Name, []string(m.Locales))
			for i, s := range order {
				fmt.Printf("  %d. %s  rows=%s\n", i+1, s.Name, s.Rows)
				for _, a := range s.References() {
					ref, _ := a.Params.Ref()
					cord := ref.Cord
					if cord == "" {
						cord = model.OneToMany
					}
					fmt.Printf("       %s -> %s.%s (%s)\n", a.Name, ref.Dataset, ref.Attribute, cord)
				}
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	addInputFlag(planCmd)
}
