package writer

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Lumos-Labs-HQ/qsynth/internal/database/common"
)

// MetaWriter describes the collected datasets as a YAML document: tables with
// their attribute types and descriptions, and the references between them,
// grouped by model.
type MetaWriter struct {
	collector
}

type metaDocument struct {
	Schemas []metaSchema `yaml:"schemas"`
}

type metaSchema struct {
	Name       string          `yaml:"name"`
	Tables     []metaTable     `yaml:"tables"`
	References []metaReference `yaml:"references"`
}

type metaTable struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Attributes  []metaAttribute `yaml:"attributes"`
}

type metaAttribute struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description,omitempty"`
}

type metaEndpoint struct {
	Table     string `yaml:"table"`
	Attribute string `yaml:"attribute"`
}

type metaReference struct {
	Parent      metaEndpoint `yaml:"parent"`
	Child       metaEndpoint `yaml:"child"`
	Cardinality string       `yaml:"cardinality"`
}

func (w *MetaWriter) Finalize() error {
	if len(w.datasets) == 0 {
		return nil
	}

	doc := metaDocument{}
	for _, name := range w.models() {
		ms := metaSchema{Name: name, Tables: []metaTable{}, References: []metaReference{}}
		for _, ds := range w.datasets {
			if ds.Model.Name != name {
				continue
			}
			ms.Tables = append(ms.Tables, metaTableOf(ds))
			for _, r := range referencesOf(ds.Schema) {
				ms.References = append(ms.References, metaReference{
					Parent:      metaEndpoint{Table: r.Parent, Attribute: r.ParentAttribute},
					Child:       metaEndpoint{Table: r.Child, Attribute: r.ChildAttribute},
					Cardinality: string(r.Cord),
				})
			}
		}
		doc.Schemas = append(doc.Schemas, ms)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode meta descriptor: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode meta descriptor: %w", err)
	}
	return w.writeString(buf.String())
}

func metaTableOf(ds *Dataset) metaTable {
	kinds := ds.Table.Kinds()
	t := metaTable{Name: ds.Name(), Description: ds.Schema.Description}
	for i, c := range ds.Table.Columns {
		attr := metaAttribute{Name: c, Type: strings.ToLower(common.ANSI.ColumnType(kinds[i]))}
		if a := ds.Schema.Attribute(c); a != nil {
			attr.Description = a.Description
		}
		t.Attributes = append(t.Attributes, attr)
	}
	return t
}
