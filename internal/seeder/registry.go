package seeder

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
)

// Producer returns the next value of a column. A producer may keep state
// between calls (the sku and order_number counters do); the materializer
// calls it once per row in row order, and every run resolves fresh producers,
// so the same seed still yields the same column.
type Producer func() (any, error)

// GenContext is the per-model randomness and clock a constructor binds to.
// Producers built from one context must be called from one goroutine.
type GenContext struct {
	Faker   *gofakeit.Faker
	Rand    *rand.Rand
	Locales []string
	Now     time.Time
}

// NewGenContext builds a context whose faker and rng both derive from seed.
func NewGenContext(seed int64, locales []string, now time.Time) *GenContext {
	if len(locales) == 0 {
		locales = []string{model.DefaultLocale}
	}
	return &GenContext{
		Faker:   gofakeit.New(fakerSeed(seed)),
		Rand:    rand.New(rand.NewSource(seed)),
		Locales: locales,
		Now:     now,
	}
}

// fakerSeed maps seed to a gofakeit seed. gofakeit treats 0 as "seed from
// the clock", so 0 becomes 1 and every other seed maps to itself.
func fakerSeed(seed int64) uint64 {
	if seed == 0 {
		return 1
	}
	return uint64(seed)
}

// Locale returns the primary locale.
func (c *GenContext) Locale() string {
	return c.Locales[0]
}

// Constructor validates params and returns a producer bound to ctx.
type Constructor func(ctx *GenContext, params model.Params) (Producer, error)

// Registry maps generator type names to constructors. Lookups are safe during
// runs; registering while a run is in flight is not supported.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register adds or replaces a generator type.
func (r *Registry) Register(name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[name] = ctor
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ctors[name]
	return ok
}

// Resolve builds a producer for one attribute.
func (r *Registry) Resolve(ctx *GenContext, name string, params model.Params) (Producer, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownGeneratorError{Type: name}
	}
	if params == nil {
		params = model.Params{}
	}
	return ctor(ctx, params)
}

// Names returns the registered type names sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy, used to extend the defaults for one run.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := NewRegistry()
	for name, ctor := range r.ctors {
		out.ctors[name] = ctor
	}
	return out
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry holding the built-ins.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		registerBuiltins(defaultRegistry)
	})
	return defaultRegistry
}

// Register extends the default registry. Call it before starting a run.
func Register(name string, ctor Constructor) {
	DefaultRegistry().Register(name, ctor)
}
