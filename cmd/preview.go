package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/qsynth/internal/seeder"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the first rows of generated tables",
	Long: `
Generate the models of a file and print the first rows of each table without
running any experiment.

Examples:
  qsynth preview -i model.yaml
  qsynth preview -i model.yaml --model shop --schema orders --limit 20`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		doc, err := loadDocument(cmd)
		if err != nil {
			return err
		}

		modelName, _ := cmd.Flags().GetString("model")
		schema, _ := cmd.Flags().GetString("schema")
		limit, _ := cmd.Flags().GetInt("limit")
		if limit < 1 {
			return fmt.Errorf("--limit must be at least 1")
		}

		models, err := selectModels(doc, modelName)
		if err != nil {
			return err
		}

		gen := seeder.New(generatorOptions(cfg))
		res, err := gen.GenerateAll(cmd.Context(), models)
		if err != nil {
			return err
		}

		shown := 0
		for _, mr := range res.Models() {
			for _, t := range mr.Tables() {
				if schema != "" && t.Name != schema {
					continue
				}
				color.Cyan("📋 %s.%s (%d rows)", mr.Model, t.Name, t.Len())
				printTable(t, limit)
				fmt.Println()
				shown++
			}
		}
		if shown == 0 {
			return fmt.Errorf("schema %q not found", schema)
		}
		color.Green("🎲 Seed: %d", res.Seed)
		return nil
	},
}

func printTable(t *seeder.Table, limit int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(t.Columns, "\t"))

	cells := make([]string, len(t.Columns))
	for i := 0; i < t.Len() && i < limit; i++ {
		for j, v := range t.Row(i).Values() {
			cells[j] = seeder.FormatValue(v)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()

	if t.Len() > limit {
		fmt.Printf("... %d more rows\n", t.Len()-limit)
	}
}

func init() {
	rootCmd.AddCommand(previewCmd)
	addInputFlag(previewCmd)
	previewCmd.Flags().String("model", "", "Only preview this model")
	previewCmd.Flags().String("schema", "", "Only preview this schema")
	previewCmd.Flags().Int("limit", 10, "Rows to print per table")
}
