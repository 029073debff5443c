package seeder

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
)

// Options configures a Generator.
type Options struct {
	// Seed fixes all randomness of a run. Zero picks a seed from the clock;
	// the chosen value is reported by Generator.Seed and Result.Seed.
	Seed int64
	// Parallelism bounds how many models generate at once. Values below 1 mean 1.
	Parallelism int
	// Registry resolves generator types; nil means DefaultRegistry().
	Registry *Registry
	// Now anchors date defaults; zero means the current time.
	Now     time.Time
	Verbose bool
}

// Generator turns models into tables. It holds no per-run state and may be
// reused; each Generate call is a separate run.
type Generator struct {
	seed        int64
	parallelism int
	registry    *Registry
	now         time.Time
	verbose     bool
}

func New(opts Options) *Generator {
	g := &Generator{
		seed:        opts.Seed,
		parallelism: opts.Parallelism,
		registry:    opts.Registry,
		now:         opts.Now,
		verbose:     opts.Verbose,
	}
	if g.seed == 0 {
		g.seed = time.Now().UnixNano()
	}
	if g.parallelism < 1 {
		g.parallelism = 1
	}
	if g.registry == nil {
		g.registry = DefaultRegistry()
	}
	if g.now.IsZero() {
		g.now = time.Now()
	}
	return g
}

func (g *Generator) Seed() int64 {
	return g.seed
}

func (g *Generator) Registry() *Registry {
	return g.registry
}

// ModelSeed derives the seed of one model from the run seed and the model
// name, so a model's output does not depend on which other models run.
func ModelSeed(base int64, modelName string) int64 {
	h := fnv.New64a()
	h.Write([]byte(modelName))
	return base ^ int64(h.Sum64())
}

// ModelResult holds the tables of one model in generation order.
type ModelResult struct {
	Model string
	Seed  int64

	tables []*Table
}

func (r *ModelResult) Table(schema string) (*Table, bool) {
	for _, t := range r.tables {
		if t.Name == schema {
			return t, true
		}
	}
	return nil, false
}

// Tables returns the tables in generation order.
func (r *ModelResult) Tables() []*Table {
	return r.tables
}

// Order returns the schema names in generation order.
func (r *ModelResult) Order() []string {
	names := make([]string, len(r.tables))
	for i, t := range r.tables {
		names[i] = t.Name
	}
	return names
}

// Result holds every model generated by one run, in declaration order.
type Result struct {
	Seed   int64
	models []*ModelResult
}

func (r *Result) Models() []*ModelResult {
	return r.models
}

func (r *Result) Model(name string) (*ModelResult, bool) {
	for _, m := range r.models {
		if m.Model == name {
			return m, true
		}
	}
	return nil, false
}

func (r *Result) Table(modelName, schema string) (*Table, bool) {
	m, ok := r.Model(modelName)
	if !ok {
		return nil, false
	}
	return m.Table(schema)
}

// Tables returns all tables: models in declaration order, then each model's
// tables in generation order.
func (r *Result) Tables() []*Table {
	var out []*Table
	for _, m := range r.models {
		out = append(out, m.tables...)
	}
	return out
}

// Len returns the number of tables.
func (r *Result) Len() int {
	n := 0
	for _, m := range r.models {
		n += len(m.tables)
	}
	return n
}

// GenerateModel generates one model and stops at its first error.
func (g *Generator) GenerateModel(ctx context.Context, m *model.Model) (*ModelResult, error) {
	if m == nil {
		return nil, fmt.Errorf("model is nil")
	}
	res, err := g.generateModel(ctx, m)
	if err != nil {
		return nil, &ModelError{Model: m.Name, Err: err}
	}
	return res, nil
}

// GenerateAll generates every model, concurrently up to Parallelism. The first
// failure cancels the remaining models and is returned.
func (g *Generator) GenerateAll(ctx context.Context, models []*model.Model) (*Result, error) {
	results := make([]*ModelResult, len(models))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelism)
	for i, m := range models {
		eg.Go(func() error {
			res, err := g.GenerateModel(egCtx, m)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &Result{Seed: g.seed, models: results}, nil
}

// GenerateEach generates every model and keeps going past failures. The
// result holds the models that succeeded; errs holds one ModelError per
// failed model in declaration order.
func (g *Generator) GenerateEach(ctx context.Context, models []*model.Model) (*Result, []error) {
	results := make([]*ModelResult, len(models))
	failures := make([]error, len(models))
	var eg errgroup.Group
	eg.SetLimit(g.parallelism)
	for i, m := range models {
		eg.Go(func() error {
			results[i], failures[i] = g.GenerateModel(ctx, m)
			return nil
		})
	}
	_ = eg.Wait()

	out := &Result{Seed: g.seed}
	var errs []error
	for i := range models {
		if failures[i] != nil {
			errs = append(errs, failures[i])
			continue
		}
		out.models = append(out.models, results[i])
	}
	return out, errs
}

func (g *Generator) generateModel(ctx context.Context, m *model.Model) (*ModelResult, error) {
	if err := checkRowCounts(m); err != nil {
		return nil, err
	}
	order, err := Plan(m)
	if err != nil {
		return nil, err
	}
	if err := g.checkTypes(m); err != nil {
		return nil, err
	}

	seed := ModelSeed(g.seed, m.Name)
	gc := NewGenContext(seed, m.Locales, g.now)
	state := newRunState(m.Name, gc.Rand)

	if g.verbose {
		names := make([]string, len(order))
		for i, s := range order {
			names[i] = s.Name
		}
		color.Cyan("📋 %s generation order: %s", m.Name, strings.Join(names, " → "))
	}

	for _, s := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := g.materialize(gc, m, s, state)
		if err != nil {
			return nil, err
		}
		if err := state.publish(t); err != nil {
			return nil, err
		}
		if g.verbose {
			color.Green("  ✅ %s.%s: %d rows", m.Name, s.Name, t.Len())
		}
	}

	return &ModelResult{Model: m.Name, Seed: seed, tables: state.Tables()}, nil
}

// checkRowCounts rejects row counts that cannot be materialized. Models built
// in code skip the loader's validation, so this runs on every generation.
func checkRowCounts(m *model.Model) error {
	for _, s := range m.Schemas {
		if err := s.Rows.Validate(); err != nil {
			return &InvalidRowCountError{
				Location: Location{Model: m.Name, Schema: s.Name},
				Rows:     s.Rows,
				Reason:   err.Error(),
			}
		}
	}
	return nil
}

// checkTypes rejects unknown generator types before any table is built.
func (g *Generator) checkTypes(m *model.Model) error {
	for _, s := range m.Schemas {
		for _, a := range s.Attributes {
			if a.IsRef() || g.registry.Has(a.Type) {
				continue
			}
			return &UnknownGeneratorError{
				Location: Location{Model: m.Name, Schema: s.Name, Attribute: a.Name},
				Type:     a.Type,
			}
		}
	}
	return nil
}

// materialize builds one schema's table. Columns are bound first, then rows
// are produced in index order with attributes in declared order.
func (g *Generator) materialize(gc *GenContext, m *model.Model, s *model.Schema, state *RunState) (*Table, error) {
	rows := state.RowCount(s)

	cols := make([]columnFunc, len(s.Attributes))
	for i, a := range s.Attributes {
		at := Location{Model: m.Name, Schema: s.Name, Attribute: a.Name}
		col, err := g.bindColumn(gc, at, a, rows, state)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	t := newTable(m.Name, s.Name, s.Columns(), rows)
	for r := 0; r < rows; r++ {
		row := make([]any, len(cols))
		for c, col := range cols {
			v, err := callColumn(col, r)
			if err != nil {
				return nil, &GeneratorError{
					Location: Location{Model: m.Name, Schema: s.Name, Attribute: s.Attributes[c].Name},
					Row:      r,
					Err:      err,
				}
			}
			row[c] = normalize(v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func (g *Generator) bindColumn(gc *GenContext, at Location, a *model.Attribute, rows int, state *RunState) (columnFunc, error) {
	if a.IsRef() {
		ref, err := a.Params.Ref()
		if err != nil {
			return nil, &InvalidParameterError{Location: at, Type: model.RefType, Reason: err.Error()}
		}
		return resolveReference(at, ref, rows, state, gc.Rand)
	}
	p, err := g.registry.Resolve(gc, a.Type, a.Params)
	if err != nil {
		return nil, locate(err, at)
	}
	return producerColumn(p), nil
}

// callColumn turns a producer panic into an error for that row.
func callColumn(col columnFunc, row int) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return col(row)
}
