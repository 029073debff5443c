package experiment

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
	"github.com/Lumos-Labs-HQ/qsynth/internal/seeder"
	"github.com/Lumos-Labs-HQ/qsynth/internal/writer"
)

// CronDateLayout formats {cron-date} in path templates.
const CronDateLayout = "2006-01-02T15-04-05"

// Env is what experiments run against: the models of a document, generation
// options and the directory relative output paths are resolved against.
type Env struct {
	Models  []*model.Model
	Options seeder.Options
	BaseDir string
	// Database holds the defaults of database experiments.
	Database DatabaseDefaults
}

type DatabaseDefaults struct {
	Provider string
	URLEnv   string
	Batch    int
}

// NewEnv fixes the base seed so every experiment of a run sees the same data.
func NewEnv(doc *model.Document, opts seeder.Options) *Env {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	env := &Env{
		Models:   doc.Models,
		Options:  opts,
		Database: DatabaseDefaults{Provider: "postgresql", URLEnv: "DATABASE_URL", Batch: 100},
	}
	if doc.Path != "" {
		env.BaseDir = filepath.Dir(doc.Path)
	}
	return env
}

// Generate runs all models with the base seed shifted by offset.
func (e *Env) Generate(ctx context.Context, offset int64) (*seeder.Result, error) {
	opts := e.Options
	opts.Seed += offset
	return seeder.New(opts).GenerateAll(ctx, e.Models)
}

func (e *Env) model(name string) *model.Model {
	for _, m := range e.Models {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Datasets pairs every generated table with its definitions and resolved
// output path. vars are applied on top of {model-name} and {dataset-name}.
func (e *Env) Datasets(res *seeder.Result, pathTemplate string, params model.Params, vars map[string]string) []*writer.Dataset {
	var out []*writer.Dataset
	for _, mr := range res.Models() {
		m := e.model(mr.Model)
		if m == nil {
			continue
		}
		for _, t := range mr.Tables() {
			pathVars := map[string]string{"model-name": m.Name, "dataset-name": t.Name}
			for k, v := range vars {
				pathVars[k] = v
			}
			out = append(out, &writer.Dataset{
				Model:  m,
				Schema: m.Schema(t.Name),
				Table:  t,
				Path:   e.ResolvePath(pathTemplate, pathVars),
				Params: params,
			})
		}
	}
	return out
}

// ResolvePath substitutes {name} variables and anchors relative paths at
// BaseDir.
func (e *Env) ResolvePath(template string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	path := strings.NewReplacer(pairs...).Replace(template)
	if path == "" || filepath.IsAbs(path) || e.BaseDir == "" {
		return path
	}
	return filepath.Join(e.BaseDir, path)
}

// Experiment is one runnable output target.
type Experiment interface {
	Run(ctx context.Context, env *Env) error
}

// Factory builds an experiment from its document entry.
type Factory func(name string, spec *model.Experiment) (Experiment, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register adds an experiment type, replacing any previous one.
func Register(typ string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[typ] = f
}

func Get(typ string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[typ]
	return f, ok
}

// Types returns the registered experiment types sorted.
func Types() []string {
	mu.RLock()
	defer mu.RUnlock()
	types := make([]string, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// New builds the experiment named name from spec.
func New(name string, spec *model.Experiment) (Experiment, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("experiment %q: %w", name, err)
	}
	f, ok := Get(spec.Type)
	if !ok {
		return nil, fmt.Errorf("experiment %q: unknown experiment type: %s", name, spec.Type)
	}
	exp, err := f(name, spec)
	if err != nil {
		return nil, fmt.Errorf("experiment %q: %w", name, err)
	}
	return exp, nil
}

// RunAll runs the named experiments in order; an empty names list runs every
// experiment of the document. It stops at the first failure.
func RunAll(ctx context.Context, env *Env, experiments model.Experiments, names []string) error {
	if len(names) == 0 {
		names = experiments.Names()
	}

	// Build everything first so a typo fails before any output is written.
	built := make([]Experiment, len(names))
	for i, name := range names {
		spec, ok := experiments.Get(name)
		if !ok {
			return fmt.Errorf("experiment %q not found. Available: %s", name, strings.Join(experiments.Names(), ", "))
		}
		exp, err := New(name, spec)
		if err != nil {
			return err
		}
		built[i] = exp
	}

	for i, exp := range built {
		if err := ctx.Err(); err != nil {
			return err
		}
		color.Cyan("🧪 Running experiment %s", names[i])
		if err := exp.Run(ctx, env); err != nil {
			return fmt.Errorf("experiment %q failed: %w", names[i], err)
		}
		color.Green("✅ Experiment %s completed", names[i])
	}
	return nil
}

func init() {
	for _, name := range writer.Names() {
		Register(name, newWriteExperiment)
	}
	Register("cron_feed", newCronFeed)
	Register("database", newDatabaseExperiment)
	Register("mongodb", newMongoExperiment)
}
