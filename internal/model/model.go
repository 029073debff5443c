package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RefType marks an attribute whose values are drawn from another schema.
const RefType = "${ref}"

const (
	DefaultLocale  = "en-US"
	DefaultMinRows = 0
	DefaultMaxRows = 10000
)

// Document is a parsed model file: the models to generate and the experiments
// that consume them.
type Document struct {
	Models      []*Model    `yaml:"models"`
	Experiments Experiments `yaml:"experiments,omitempty"`

	// Path is the file the document was loaded from, empty for in-memory documents.
	Path string `yaml:"-"`
}

// Model is a named group of schemas sharing a locale set.
type Model struct {
	Name    string    `yaml:"name"`
	Locales Locales   `yaml:"locales,omitempty"`
	Schemas []*Schema `yaml:"schemas,omitempty"`
}

// Schema is one table definition.
type Schema struct {
	Name        string       `yaml:"name"`
	Rows        RowCount     `yaml:"rows"`
	Attributes  []*Attribute `yaml:"attributes"`
	Description string       `yaml:"description,omitempty"`
}

// Attribute is one column definition.
type Attribute struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Params      Params `yaml:"params,omitempty"`
	Description string `yaml:"description,omitempty"`
}

func (a *Attribute) IsRef() bool {
	return a.Type == RefType
}

// Schema returns the schema with the given name, or nil.
func (m *Model) Schema(name string) *Schema {
	for _, s := range m.Schemas {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Locale returns the primary locale of the model.
func (m *Model) Locale() string {
	if len(m.Locales) == 0 {
		return DefaultLocale
	}
	return m.Locales[0]
}

// Attribute returns the attribute with the given name, or nil.
func (s *Schema) Attribute(name string) *Attribute {
	for _, a := range s.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Columns returns attribute names in declared order.
func (s *Schema) Columns() []string {
	cols := make([]string, len(s.Attributes))
	for i, a := range s.Attributes {
		cols[i] = a.Name
	}
	return cols
}

// References returns the reference attributes of the schema in declared order.
func (s *Schema) References() []*Attribute {
	var refs []*Attribute
	for _, a := range s.Attributes {
		if a.IsRef() {
			refs = append(refs, a)
		}
	}
	return refs
}

// Locales accepts either a single locale string or a list of them.
type Locales []string

func (l *Locales) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		if s == "" {
			*l = nil
			return nil
		}
		*l = Locales{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*l = list
		return nil
	default:
		return fmt.Errorf("line %d: locales must be a string or a list of strings", value.Line)
	}
}

// RowCount is either an exact number of rows or an inclusive range from which
// one count is drawn per generation run.
type RowCount struct {
	Exact  int
	Min    int
	Max    int
	Ranged bool
}

// Rows returns an exact row count.
func Rows(n int) RowCount {
	return RowCount{Exact: n}
}

// RowRange returns a ranged row count.
func RowRange(min, max int) RowCount {
	return RowCount{Min: min, Max: max, Ranged: true}
}

func (r RowCount) String() string {
	if r.Ranged {
		return fmt.Sprintf("%d..%d", r.Min, r.Max)
	}
	return fmt.Sprintf("%d", r.Exact)
}

func (r *RowCount) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var n int
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("line %d: rows must be an integer or a {min, max} mapping", value.Line)
		}
		*r = Rows(n)
		return nil
	case yaml.MappingNode:
		spec := struct {
			Min *int `yaml:"min"`
			Max *int `yaml:"max"`
		}{}
		if err := decodeStrict(value, &spec); err != nil {
			return fmt.Errorf("line %d: rows: %w", value.Line, err)
		}
		out := RowRange(DefaultMinRows, DefaultMaxRows)
		if spec.Min != nil {
			out.Min = *spec.Min
		}
		if spec.Max != nil {
			out.Max = *spec.Max
		}
		*r = out
		return nil
	default:
		return fmt.Errorf("line %d: rows must be an integer or a {min, max} mapping", value.Line)
	}
}

func (r RowCount) MarshalYAML() (interface{}, error) {
	if r.Ranged {
		return map[string]int{"min": r.Min, "max": r.Max}, nil
	}
	return r.Exact, nil
}
