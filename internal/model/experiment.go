package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Experiment describes one output target of a document.
type Experiment struct {
	Type   string `yaml:"type"`
	Path   string `yaml:"path"`
	Params Params `yaml:"params,omitempty"`

	// cron_feed only
	Cron   string      `yaml:"cron,omitempty"`
	Dates  *FeedDates  `yaml:"dates,omitempty"`
	Writer *WriterSpec `yaml:"writer,omitempty"`
}

// FeedDates bounds a cron feed. From and To are YYYY-MM-DD; at least one of To
// and Count must be set.
type FeedDates struct {
	From  string `yaml:"from,omitempty"`
	To    string `yaml:"to,omitempty"`
	Count *int   `yaml:"count,omitempty"`
}

// WriterSpec names the writer a cron feed delegates to.
type WriterSpec struct {
	Name   string `yaml:"name"`
	Params Params `yaml:"params,omitempty"`
}

// NamedExperiment pairs an experiment with its key in the document.
type NamedExperiment struct {
	Name string
	*Experiment
}

// Experiments keeps the document order of the experiments mapping.
type Experiments []NamedExperiment

// Get returns the experiment with the given name.
func (e Experiments) Get(name string) (*Experiment, bool) {
	for _, ne := range e {
		if ne.Name == name {
			return ne.Experiment, true
		}
	}
	return nil, false
}

func (e Experiments) Names() []string {
	names := make([]string, len(e))
	for i, ne := range e {
		names[i] = ne.Name
	}
	return names
}

func (e *Experiments) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: experiments must be a mapping of name to experiment", value.Line)
	}
	out := make(Experiments, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, body := value.Content[i], value.Content[i+1]
		exp := &Experiment{}
		if err := decodeStrict(body, exp); err != nil {
			return fmt.Errorf("experiment %q: %w", key.Value, err)
		}
		out = append(out, NamedExperiment{Name: key.Value, Experiment: exp})
	}
	*e = out
	return nil
}

func (e Experiments) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, ne := range e {
		body := &yaml.Node{}
		if err := body.Encode(ne.Experiment); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: ne.Name},
			body,
		)
	}
	return node, nil
}
