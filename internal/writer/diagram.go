package writer

import (
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
)

// PlantUMLWriter renders the collected schemas as a PlantUML entity
// relationship diagram.
type PlantUMLWriter struct {
	collector
}

func (w *PlantUMLWriter) Finalize() error {
	if len(w.datasets) == 0 {
		return nil
	}

	b := getBuilder()
	defer putBuilder(b)

	b.WriteString("@startuml\n")
	b.WriteString("skinparam linetype ortho\n")
	b.WriteString("left to right direction\n")
	for _, ds := range w.datasets {
		fmt.Fprintf(b, "entity %q {\n", ds.Name())
		kinds := ds.Table.Kinds()
		for i, c := range ds.Table.Columns {
			fmt.Fprintf(b, "\t%s: %s\n", c, kinds[i])
		}
		b.WriteString("}\n")
	}
	for _, ds := range w.datasets {
		for _, r := range referencesOf(ds.Schema) {
			fmt.Fprintf(b, "%q %s %q\n", r.Parent, plantUMLArrow(r.Cord), r.Child)
		}
	}
	b.WriteString("@enduml\n")

	return w.writeString(b.String())
}

// plantUMLArrow maps 1 to ||, - to .. and * to |{.
func plantUMLArrow(c model.Cardinality) string {
	return strings.NewReplacer("1", "||", "-", "..", "*", "|{").Replace(string(c))
}

// MermaidWriter renders the collected schemas as a Mermaid erDiagram.
type MermaidWriter struct {
	collector
}

func (w *MermaidWriter) Finalize() error {
	if len(w.datasets) == 0 {
		return nil
	}

	b := getBuilder()
	defer putBuilder(b)

	b.WriteString("erDiagram\n")
	for _, ds := range w.datasets {
		fmt.Fprintf(b, "    %s {\n", ds.Name())
		kinds := ds.Table.Kinds()
		for i, c := range ds.Table.Columns {
			fmt.Fprintf(b, "        %s %s\n", kinds[i], c)
		}
		b.WriteString("    }\n")
	}
	for _, ds := range w.datasets {
		for _, r := range referencesOf(ds.Schema) {
			fmt.Fprintf(b, "    %s %s %s : %q\n", r.Parent, mermaidArrow(r.Cord), r.Child, r.ChildAttribute)
		}
	}

	return w.writeString(b.String())
}

func mermaidArrow(c model.Cardinality) string {
	switch c {
	case model.OneToOne:
		return "||--||"
	case model.ManyToMany:
		return "}o--o{"
	default:
		return "||--o{"
	}
}
