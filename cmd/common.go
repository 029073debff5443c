package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/qsynth/internal/config"
	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
	"github.com/Lumos-Labs-HQ/qsynth/internal/seeder"
)

// loadDocument reads the model file named by the -i flag.
func loadDocument(cmd *cobra.Command) (*model.Document, error) {
	path, _ := cmd.Flags().GetString("input")
	if path == "" {
		return nil, fmt.Errorf("model file is required (-i model.yaml)")
	}
	return model.Load(path)
}

func generatorOptions(cfg *config.Config) seeder.Options {
	return seeder.Options{
		Seed:        cfg.Seed,
		Parallelism: cfg.Parallelism,
		Verbose:     cfg.Verbose,
	}
}

// selectModels keeps the model named name, or all models when name is empty.
func selectModels(doc *model.Document, name string) ([]*model.Model, error) {
	if name == "" {
		return doc.Models, nil
	}
	m := doc.Model(name)
	if m == nil {
		return nil, fmt.Errorf("model %q not found", name)
	}
	return []*model.Model{m}, nil
}

func addInputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "Model file (YAML)")
	cmd.MarkFlagRequired("input")
}
