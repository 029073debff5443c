package writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
	"github.com/Lumos-Labs-HQ/qsynth/internal/seeder"
)

// Dataset is one generated table handed to a writer together with the
// definitions it was generated from.
type Dataset struct {
	Model  *model.Model
	Schema *model.Schema
	Table  *seeder.Table
	// Path is the resolved output path of this dataset.
	Path   string
	Params model.Params
}

// Name returns the dataset (schema) name.
func (d *Dataset) Name() string {
	return d.Schema.Name
}

// Writer receives datasets in generation order. Init is called once with the
// first resolved path, Write once per dataset and Finalize at the end.
// Aggregating writers produce their file in Finalize.
type Writer interface {
	Init(path string) error
	Write(ctx context.Context, ds *Dataset) error
	Finalize() error
}

type Factory func() Writer

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register adds a writer under name, replacing any previous one.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = f
}

// Get returns a new writer instance.
func Get(name string) (Writer, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown writer %q", name)
	}
	return f(), nil
}

// Names returns the registered writer names sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("csv", func() Writer { return &CSVWriter{} })
	Register("json", func() Writer { return &JSONWriter{} })
	Register("parquet", func() Writer { return &ParquetWriter{} })
	Register("avro", func() Writer { return &AvroWriter{} })
	Register("sql", func() Writer { return &SQLWriter{} })
	Register("sqlite", func() Writer { return &SQLiteWriter{} })
	Register("ermodel", func() Writer { return &PlantUMLWriter{} })
	Register("plantuml", func() Writer { return &PlantUMLWriter{} })
	Register("mermaid", func() Writer { return &MermaidWriter{} })
	Register("meta", func() Writer { return &MetaWriter{} })
	Register("llm-prompt", func() Writer { return &LLMPromptWriter{} })
}

// ensurePath replaces an existing file and creates missing parent directories.
func ensurePath(path string) error {
	if path == "" {
		return fmt.Errorf("output path is empty")
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Reference is one ${ref} edge of a model.
type Reference struct {
	Parent          string
	ParentAttribute string
	Child           string
	ChildAttribute  string
	Cord            model.Cardinality
}

func referencesOf(s *model.Schema) []Reference {
	var refs []Reference
	for _, a := range s.References() {
		rp, err := a.Params.Ref()
		if err != nil {
			continue
		}
		refs = append(refs, Reference{
			Parent:          rp.Dataset,
			ParentAttribute: rp.Attribute,
			Child:           s.Name,
			ChildAttribute:  a.Name,
			Cord:            rp.Cord,
		})
	}
	return refs
}

// collector gathers datasets for writers that emit one file at Finalize.
type collector struct {
	path     string
	params   model.Params
	datasets []*Dataset
}

func (c *collector) Init(string) error { return nil }

func (c *collector) add(ds *Dataset) {
	c.path = ds.Path
	if c.params == nil {
		c.params = model.Params{}
	}
	for k, v := range ds.Params {
		c.params[k] = v
	}
	c.datasets = append(c.datasets, ds)
}

func (c *collector) Write(_ context.Context, ds *Dataset) error {
	c.add(ds)
	return nil
}

func (c *collector) create() (*os.File, error) {
	if err := ensurePath(c.path); err != nil {
		return nil, err
	}
	f, err := os.Create(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", c.path, err)
	}
	return f, nil
}

func (c *collector) writeString(content string) error {
	f, err := c.create()
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.path, err)
	}
	return nil
}

// models returns the distinct models of the collected datasets in order.
func (c *collector) models() []string {
	var out []string
	seen := make(map[string]bool)
	for _, ds := range c.datasets {
		if !seen[ds.Model.Name] {
			seen[ds.Model.Name] = true
			out = append(out, ds.Model.Name)
		}
	}
	return out
}
