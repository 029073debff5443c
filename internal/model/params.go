package model

import (
	"fmt"
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// Cardinality is the declared parent/child multiplicity of a reference.
type Cardinality string

const (
	OneToOne   Cardinality = "1-1"
	OneToMany  Cardinality = "1-*"
	ManyToMany Cardinality = "*-*"
)

func (c Cardinality) Valid() bool {
	switch c {
	case OneToOne, OneToMany, ManyToMany:
		return true
	}
	return false
}

// Params is the free-form parameter bag of an attribute or writer. Generators
// decode it into one of the typed families below.
type Params map[string]any

// RangeParams configures numeric generators.
type RangeParams struct {
	Min   *float64       `mapstructure:"min"`
	Max   *float64       `mapstructure:"max"`
	Extra map[string]any `mapstructure:",remain"`
}

// ChoiceParams configures categorical generators.
type ChoiceParams struct {
	Elements []any         `mapstructure:"elements"`
	Extra    map[string]any `mapstructure:",remain"`
}

// RefParams configures a ${ref} attribute.
type RefParams struct {
	Dataset   string         `mapstructure:"dataset"`
	Attribute string         `mapstructure:"attribute"`
	Cord      Cardinality    `mapstructure:"cord"`
	Extra     map[string]any `mapstructure:",remain"`
}

// TextParams configures pattern generators such as lexify and numerify.
type TextParams struct {
	Text    string         `mapstructure:"text"`
	Letters string         `mapstructure:"letters"`
	Extra   map[string]any `mapstructure:",remain"`
}

// DateRangeParams configures date generators. Bounds are YYYY-MM-DD strings.
type DateRangeParams struct {
	Start string         `mapstructure:"start"`
	End   string         `mapstructure:"end"`
	Extra map[string]any `mapstructure:",remain"`
}

func (p Params) decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(p))
}

func (p Params) Range() (RangeParams, error) {
	var out RangeParams
	if err := p.decode(&out); err != nil {
		return out, fmt.Errorf("invalid numeric params: %w", err)
	}
	return out, nil
}

func (p Params) Choice() (ChoiceParams, error) {
	var out ChoiceParams
	if err := p.decode(&out); err != nil {
		return out, fmt.Errorf("invalid choice params: %w", err)
	}
	return out, nil
}

// Ref decodes reference params, applying the default cardinality.
func (p Params) Ref() (RefParams, error) {
	var out RefParams
	if err := p.decode(&out); err != nil {
		return out, fmt.Errorf("invalid reference params: %w", err)
	}
	if out.Cord == "" {
		out.Cord = OneToMany
	}
	return out, nil
}

func (p Params) Text() (TextParams, error) {
	var out TextParams
	if err := p.decode(&out); err != nil {
		return out, fmt.Errorf("invalid text params: %w", err)
	}
	return out, nil
}

func (p Params) DateRange() (DateRangeParams, error) {
	var out DateRangeParams
	if err := p.decode(&out); err != nil {
		return out, fmt.Errorf("invalid date params: %w", err)
	}
	return out, nil
}

func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p Params) String(key, def string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}
	return s
}

func (p Params) Int(key string, def int) int {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return n
}

func (p Params) Bool(key string, def bool) bool {
	v, ok := p[key]
	if !ok || v == nil {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

// Strings returns a list parameter; a single scalar is returned as a one-element list.
func (p Params) Strings(key string) []string {
	v, ok := p[key]
	if !ok || v == nil {
		return nil
	}
	if s, isString := v.(string); isString {
		return []string{s}
	}
	out, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil
	}
	return out
}

// Keys returns the parameter names sorted.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
