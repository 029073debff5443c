package seeder

import (
	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
)

// DependencyGraph links the schemas of one model by their ${ref} attributes.
// Edges run parent -> child.
type DependencyGraph struct {
	model    *model.Model
	index    map[string]int
	children [][]int
	indegree []int
	order    []*model.Schema
}

// NewDependencyGraph builds the graph and checks that every reference target
// exists. Duplicate parent edges from one child count once.
func NewDependencyGraph(m *model.Model) (*DependencyGraph, error) {
	g := &DependencyGraph{
		model:    m,
		index:    make(map[string]int, len(m.Schemas)),
		children: make([][]int, len(m.Schemas)),
		indegree: make([]int, len(m.Schemas)),
	}
	for i, s := range m.Schemas {
		g.index[s.Name] = i
	}

	for ci, s := range m.Schemas {
		seen := make(map[int]bool)
		for _, a := range s.References() {
			at := Location{Model: m.Name, Schema: s.Name, Attribute: a.Name}
			ref, err := a.Params.Ref()
			if err != nil {
				return nil, &InvalidParameterError{Location: at, Type: model.RefType, Reason: err.Error()}
			}
			pi, ok := g.index[ref.Dataset]
			if !ok {
				return nil, &UnknownReferenceTargetError{Location: at, Dataset: ref.Dataset}
			}
			if m.Schemas[pi].Attribute(ref.Attribute) == nil {
				return nil, &UnknownReferenceTargetError{Location: at, Dataset: ref.Dataset, Attribute: ref.Attribute}
			}
			if seen[pi] {
				continue
			}
			seen[pi] = true
			g.children[pi] = append(g.children[pi], ci)
			g.indegree[ci]++
		}
	}
	return g, nil
}

// BuildGenerationOrder runs Kahn's algorithm. Among ready schemas the one
// declared first goes first, so the order is stable for a given model.
func (g *DependencyGraph) BuildGenerationOrder() ([]*model.Schema, error) {
	indegree := append([]int(nil), g.indegree...)
	done := make([]bool, len(indegree))
	order := make([]*model.Schema, 0, len(indegree))

	for len(order) < len(indegree) {
		next := -1
		for i, d := range indegree {
			if d == 0 && !done[i] {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, g.cycleError(done)
		}
		done[next] = true
		order = append(order, g.model.Schemas[next])
		for _, c := range g.children[next] {
			indegree[c]--
		}
	}

	g.order = order
	return order, nil
}

func (g *DependencyGraph) GetOrder() []*model.Schema {
	return g.order
}

// cycleError walks parent edges among the unfinished schemas until a schema
// repeats; the repeated stretch is the cycle, reported in parent -> child order.
func (g *DependencyGraph) cycleError(done []bool) error {
	parents := make([][]int, len(done))
	for p, cs := range g.children {
		for _, c := range cs {
			parents[c] = append(parents[c], p)
		}
	}

	start := -1
	for i := range done {
		if !done[i] {
			start = i
			break
		}
	}

	pos := make(map[int]int)
	var path []int
	cur := start
	for {
		if at, ok := pos[cur]; ok {
			path = path[at:]
			break
		}
		pos[cur] = len(path)
		path = append(path, cur)
		for _, p := range parents[cur] {
			if !done[p] {
				cur = p
				break
			}
		}
	}

	// path follows child -> parent; reverse it
	names := make([]string, len(path))
	for i, idx := range path {
		names[len(path)-1-i] = g.model.Schemas[idx].Name
	}
	return &CyclicReferenceError{Model: g.model.Name, Schemas: rotateToFirst(names, g.index)}
}

// rotateToFirst starts the cycle at its earliest declared schema.
func rotateToFirst(names []string, index map[string]int) []string {
	first := 0
	for i, n := range names {
		if index[n] < index[names[first]] {
			first = i
		}
	}
	return append(append([]string{}, names[first:]...), names[:first]...)
}

// Plan returns the schemas of m in a valid generation order.
func Plan(m *model.Model) ([]*model.Schema, error) {
	g, err := NewDependencyGraph(m)
	if err != nil {
		return nil, err
	}
	return g.BuildGenerationOrder()
}
