package seeder

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
)

// RunState holds what one model's generation run has produced so far:
// resolved row counts and published tables. Each key is written once.
type RunState struct {
	model string
	rng   *rand.Rand

	mu     sync.RWMutex
	counts map[string]int
	tables map[string]*Table
	order  []string
}

func newRunState(modelName string, rng *rand.Rand) *RunState {
	return &RunState{
		model:  modelName,
		rng:    rng,
		counts: make(map[string]int),
		tables: make(map[string]*Table),
	}
}

// RowCount resolves a schema's row count. A ranged count is drawn on first
// use and the same number is returned for the rest of the run.
func (s *RunState) RowCount(schema *model.Schema) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.counts[schema.Name]; ok {
		return n
	}
	n := schema.Rows.Exact
	if schema.Rows.Ranged {
		n = schema.Rows.Min + s.rng.Intn(schema.Rows.Max-schema.Rows.Min+1)
	}
	s.counts[schema.Name] = n
	return n
}

// Table returns a published table.
func (s *RunState) Table(name string) (*Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[name]
	return t, ok
}

func (s *RunState) publish(t *Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[t.Name]; ok {
		return fmt.Errorf("table %s.%s already published", s.model, t.Name)
	}
	t.seal()
	s.tables[t.Name] = t
	s.order = append(s.order, t.Name)
	return nil
}

// Tables returns the published tables in publish order.
func (s *RunState) Tables() []*Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Table, len(s.order))
	for i, name := range s.order {
		out[i] = s.tables[name]
	}
	return out
}
