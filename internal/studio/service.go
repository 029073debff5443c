package studio

import (
	"context"
	"fmt"
	"sync"

	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
	"github.com/Lumos-Labs-HQ/qsynth/internal/seeder"
)

const DefaultLimit = 50

// Service keeps the tables of the latest generation run. Regenerate swaps
// the whole result, so readers never see a half-built run.
type Service struct {
	models []*model.Model
	opts   seeder.Options

	mu     sync.RWMutex
	result *seeder.Result
}

func NewService(ctx context.Context, models []*model.Model, opts seeder.Options) (*Service, error) {
	s := &Service{models: models, opts: opts}
	if _, err := s.Regenerate(ctx, opts.Seed); err != nil {
		return nil, err
	}
	return s, nil
}

// Regenerate runs every model again with seed; zero picks a new random seed.
func (s *Service) Regenerate(ctx context.Context, seed int64) (int64, error) {
	opts := s.opts
	opts.Seed = seed
	gen := seeder.New(opts)
	res, err := gen.GenerateAll(ctx, s.models)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.result = res
	s.mu.Unlock()
	return res.Seed, nil
}

func (s *Service) current() *seeder.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

func (s *Service) Seed() int64 {
	return s.current().Seed
}

func (s *Service) Models() []ModelInfo {
	res := s.current()
	out := make([]ModelInfo, 0, len(res.Models()))
	for _, mr := range res.Models() {
		info := ModelInfo{Name: mr.Model, Seed: mr.Seed, Schemas: []SchemaInfo{}}
		for _, t := range mr.Tables() {
			info.Schemas = append(info.Schemas, SchemaInfo{Name: t.Name, RowCount: t.Len()})
		}
		out = append(out, info)
	}
	return out
}

// Table returns the first limit rows of one generated table.
func (s *Service) Table(modelName, schema string, limit int) (*TableData, error) {
	t, ok := s.current().Table(modelName, schema)
	if !ok {
		return nil, fmt.Errorf("table %s.%s not found", modelName, schema)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	kinds := t.Kinds()
	data := &TableData{
		Model:   modelName,
		Schema:  schema,
		Columns: make([]ColumnInfo, len(t.Columns)),
		Rows:    []seeder.Row{},
		Total:   t.Len(),
		Limit:   limit,
	}
	for i, c := range t.Columns {
		data.Columns[i] = ColumnInfo{Name: c, Type: kinds[i].String()}
	}
	for i := 0; i < t.Len() && i < limit; i++ {
		data.Rows = append(data.Rows, t.Row(i))
	}
	return data, nil
}

func (s *Service) Plan() []PlanInfo {
	res := s.current()
	out := make([]PlanInfo, 0, len(res.Models()))
	for _, mr := range res.Models() {
		out = append(out, PlanInfo{Model: mr.Model, Order: mr.Order()})
	}
	return out
}
