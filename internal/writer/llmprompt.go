package writer

import (
	"fmt"
	"strings"
)

const defaultPrologue = "You are SQL bot: Use following database model"

// LLMPromptWriter turns the collected schemas into a text prompt describing
// tables and relations. Params: prologue, rules (string or list), epilogue.
type LLMPromptWriter struct {
	collector
}

func (w *LLMPromptWriter) Finalize() error {
	if len(w.datasets) == 0 {
		return nil
	}
	return w.writeString(w.render())
}

func (w *LLMPromptWriter) render() string {
	var b strings.Builder
	b.WriteString(w.params.String("prologue", defaultPrologue))

	b.WriteString("\nTables:\n")
	var refs []Reference
	for _, ds := range w.datasets {
		b.WriteString("\t" + ds.Name() + ":")
		if ds.Schema.Description != "" {
			b.WriteString("- " + ds.Schema.Description)
		}
		b.WriteString("\n")

		kinds := ds.Table.Kinds()
		for i, c := range ds.Table.Columns {
			fmt.Fprintf(&b, "\t\t- %s:%s", c, kinds[i])
			if a := ds.Schema.Attribute(c); a != nil && a.Description != "" {
				b.WriteString(" - " + a.Description)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		refs = append(refs, referencesOf(ds.Schema)...)
	}

	b.WriteString("Relations:\n")
	for _, r := range refs {
		fmt.Fprintf(&b, "\t%s.%s -(%s)- %s.%s\n", r.Parent, r.ParentAttribute, r.Cord, r.Child, r.ChildAttribute)
	}

	if rules, ok := w.params["rules"].(string); ok {
		if rules != "" {
			b.WriteString("\nRules:\n" + rules + "\n")
		}
	} else if rules := w.params.Strings("rules"); len(rules) > 0 {
		b.WriteString("\nRules:\n")
		for _, r := range rules {
			fmt.Fprintf(&b, "\t -%s\n", strings.ReplaceAll(r, "\n", "\n\t\t "))
		}
	}

	b.WriteString(w.params.String("epilogue", ""))
	return b.String()
}
