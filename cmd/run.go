package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/qsynth/internal/experiment"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run experiments of a model file",
	Long: `
Generate the models of a file and run its experiments. Every experiment of one
invocation sees the same data; pass --seed to reproduce a previous run.

Examples:
  qsynth run -i model.yaml -a
  qsynth run -i model.yaml -e csv_out sql_out
  qsynth run -i model.yaml -e feed --seed 42`,
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

		names, _ := cmd.Flags().GetStringSlice("experiment")
		all, _ := cmd.Flags().GetBool("all")
		if all && len(names) > 0 {
			return fmt.Errorf("use either --experiment or --all, not both")
		}
		if !all && len(names) == 0 {
			return fmt.Errorf("no experiment selected. Available: %s (use -e name or -a)",
				strings.Join(doc.Experiments.Names(), ", "))
		}
		if len(doc.Experiments) == 0 {
			color.Yellow("⚠️  %s declares no experiments", doc.Path)
			return nil
		}

		env := experiment.NewEnv(doc, generatorOptions(cfg))
		env.Database = experiment.DatabaseDefaults{
			Provider: cfg.Database.Provider,
			URLEnv:   cfg.Database.URLEnv,
			Batch:    cfg.Database.Batch,
		}
		if output, _ := cmd.Flags().GetString("output"); output != "" {
			env.BaseDir = output
		} else if cfg.OutputDir != "." {
			env.BaseDir = cfg.OutputDir
		}

		color.Cyan("🎲 Seed: %d", env.Options.Seed)
		if err := experiment.RunAll(cmd.Context(), env, doc.Experiments, names); err != nil {
			return err
		}
		color.Green("✅ Done")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addInputFlag(runCmd)
	runCmd.Flags().StringSliceP("experiment", "e", nil, "Experiments to run, in order")
	runCmd.Flags().BoolP("all", "a", false, "Run every experiment of the file")
	runCmd.Flags().StringP("output", "o", "", "Directory relative output paths resolve against (default: the model file's directory)")
}
