package experiment

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/Lumos-Labs-HQ/qsynth/internal/database"
	"github.com/Lumos-Labs-HQ/qsynth/internal/database/mongodb"
	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
)

// connection resolves the url param, then the environment variable named by
// url_env, then the default variable.
func connection(params model.Params, defaultEnv string) (string, error) {
	if url := params.String("url", ""); url != "" {
		return url, nil
	}
	env := params.String("url_env", defaultEnv)
	url := os.Getenv(env)
	if url == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", env)
	}
	return url, nil
}

// databaseExperiment loads every generated table into a SQL database.
type databaseExperiment struct {
	name   string
	params model.Params
}

func newDatabaseExperiment(name string, spec *model.Experiment) (Experiment, error) {
	return &databaseExperiment{name: name, params: spec.Params}, nil
}

func (e *databaseExperiment) Run(ctx context.Context, env *Env) error {
	provider := e.params.String("provider", env.Database.Provider)
	url, err := connection(e.params, env.Database.URLEnv)
	if err != nil {
		return err
	}
	adapter, err := database.NewAdapter(provider)
	if err != nil {
		return err
	}

	res, err := env.Generate(ctx, 0)
	if err != nil {
		return err
	}

	if err := adapter.Connect(ctx, url); err != nil {
		return err
	}
	defer adapter.Close()
	if err := adapter.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach %s database: %w", provider, err)
	}

	opts := database.LoadOptions{
		Drop:    e.params.Bool("drop", false),
		Batch:   e.params.Int("batch", env.Database.Batch),
		Verbose: env.Options.Verbose,
	}
	if err := database.Load(ctx, adapter, res.Tables(), opts); err != nil {
		return err
	}
	color.Green("📊 Loaded %d tables into %s", res.Len(), provider)
	return nil
}

// mongoExperiment writes one collection per generated table.
type mongoExperiment struct {
	name   string
	params model.Params
}

func newMongoExperiment(name string, spec *model.Experiment) (Experiment, error) {
	return &mongoExperiment{name: name, params: spec.Params}, nil
}

func (e *mongoExperiment) Run(ctx context.Context, env *Env) error {
	url, err := connection(e.params, "MONGODB_URL")
	if err != nil {
		return err
	}

	res, err := env.Generate(ctx, 0)
	if err != nil {
		return err
	}

	adapter := mongodb.New()
	if err := adapter.Connect(ctx, url); err != nil {
		return err
	}
	defer adapter.Close()
	if name := e.params.String("database", ""); name != "" {
		adapter.Use(name)
	}

	drop := e.params.Bool("drop", false)
	batch := e.params.Int("batch", env.Database.Batch)
	for _, t := range res.Tables() {
		if drop {
			if err := adapter.DropCollection(ctx, t.Name); err != nil {
				return fmt.Errorf("failed to drop collection %s: %w", t.Name, err)
			}
		}
		n, err := adapter.InsertTable(ctx, t, batch)
		if err != nil {
			return err
		}
		if env.Options.Verbose {
			color.Green("  ✅ %s.%s: %d documents", adapter.Name(), t.Name, n)
		}
	}
	return nil
}
