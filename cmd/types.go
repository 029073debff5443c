package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/qsynth/internal/experiment"
	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
	"github.com/Lumos-Labs-HQ/qsynth/internal/seeder"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List attribute and experiment types",
	Long: `
List the generator types attributes can use, and the experiment types.

Examples:
  qsynth types
  qsynth types --find random`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		find, _ := cmd.Flags().GetString("find")
		generators := filterPrefix(append(seeder.DefaultRegistry().Names(), model.RefType), find)
		experiments := filterPrefix(experiment.Types(), find)

		if len(generators) == 0 && len(experiments) == 0 {
			color.Yellow("⚠️  No type starts with %q", find)
			return nil
		}
		printTypes("Attribute types", generators)
		printTypes("Experiment types", experiments)
		return nil
	},
}

func printTypes(title string, names []string) {
	if len(names) == 0 {
		return
	}
	color.Cyan("%s (%d):", title, len(names))
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println()
}

func filterPrefix(names []string, prefix string) []string {
	if prefix == "" {
		return names
	}
	var out []string
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(typesCmd)
	typesCmd.Flags().String("find", "", "Only list types starting with this prefix")
}
