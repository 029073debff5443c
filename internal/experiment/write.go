package experiment

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
	"github.com/Lumos-Labs-HQ/qsynth/internal/writer"
)

// writeExperiment generates all models once and hands every table to the
// writer named after the experiment type.
type writeExperiment struct {
	name   string
	writer string
	path   string
	params model.Params
}

func newWriteExperiment(name string, spec *model.Experiment) (Experiment, error) {
	if spec.Path == "" {
		return nil, fmt.Errorf("path is missing")
	}
	return &writeExperiment{name: name, writer: spec.Type, path: spec.Path, params: spec.Params}, nil
}

func (e *writeExperiment) Run(ctx context.Context, env *Env) error {
	res, err := env.Generate(ctx, 0)
	if err != nil {
		return err
	}
	datasets := env.Datasets(res, e.path, e.params, nil)
	return writeAll(ctx, e.writer, datasets)
}

// writeAll drives one writer through Init, Write and Finalize.
func writeAll(ctx context.Context, name string, datasets []*writer.Dataset) error {
	if len(datasets) == 0 {
		color.Yellow("⚠️  Nothing generated, no output written")
		return nil
	}
	w, err := writer.Get(name)
	if err != nil {
		return err
	}
	if err := w.Init(datasets[0].Path); err != nil {
		return err
	}
	for _, ds := range datasets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.Write(ctx, ds); err != nil {
			return fmt.Errorf("failed to write %s.%s: %w", ds.Model.Name, ds.Name(), err)
		}
	}
	return w.Finalize()
}
