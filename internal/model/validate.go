package model

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Validate checks the structural rules of every model and experiment and
// reports all problems at once.
func (d *Document) Validate() error {
	var errs []error
	seen := make(map[string]bool)
	for i, m := range d.Models {
		if m == nil {
			errs = append(errs, fmt.Errorf("models[%d] is empty", i))
			continue
		}
		if seen[m.Name] {
			errs = append(errs, fmt.Errorf("duplicate model name %q", m.Name))
		}
		seen[m.Name] = true
		if err := m.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, ne := range d.Experiments {
		if err := ne.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("experiment %q: %w", ne.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Validate checks one model: names, locales, row counts and reference params.
// Whether reference targets exist is checked by the planner.
func (m *Model) Validate() error {
	var errs []error
	if m.Name == "" {
		errs = append(errs, fmt.Errorf("model name is required"))
	}
	for _, loc := range m.Locales {
		if _, err := language.Parse(loc); err != nil {
			errs = append(errs, fmt.Errorf("model %q: invalid locale %q: %w", m.Name, loc, err))
		}
	}

	seen := make(map[string]bool)
	for i, s := range m.Schemas {
		if s == nil {
			errs = append(errs, fmt.Errorf("model %q: schemas[%d] is empty", m.Name, i))
			continue
		}
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("model %q: schemas[%d] has no name", m.Name, i))
		} else if seen[s.Name] {
			errs = append(errs, fmt.Errorf("model %q: duplicate schema name %q", m.Name, s.Name))
		}
		seen[s.Name] = true
		for _, err := range s.validate() {
			errs = append(errs, fmt.Errorf("model %q schema %q: %w", m.Name, s.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Schema) validate() []error {
	var errs []error
	if err := s.Rows.Validate(); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[string]bool)
	for i, a := range s.Attributes {
		if a == nil {
			errs = append(errs, fmt.Errorf("attributes[%d] is empty", i))
			continue
		}
		if a.Name == "" {
			errs = append(errs, fmt.Errorf("attributes[%d] has no name", i))
			continue
		}
		if seen[a.Name] {
			errs = append(errs, fmt.Errorf("duplicate attribute name %q", a.Name))
		}
		seen[a.Name] = true
		if a.Type == "" {
			errs = append(errs, fmt.Errorf("attribute %q has no type", a.Name))
			continue
		}
		if a.IsRef() {
			if err := validateRef(a); err != nil {
				errs = append(errs, fmt.Errorf("attribute %q: %w", a.Name, err))
			}
		}
	}
	return errs
}

func validateRef(a *Attribute) error {
	ref, err := a.Params.Ref()
	if err != nil {
		return err
	}
	if ref.Dataset == "" {
		return fmt.Errorf("reference requires params.dataset")
	}
	if ref.Attribute == "" {
		return fmt.Errorf("reference requires params.attribute")
	}
	if !ref.Cord.Valid() {
		return fmt.Errorf("unknown cardinality %q (expected %q, %q or %q)", ref.Cord, OneToOne, OneToMany, ManyToMany)
	}
	return nil
}

// Validate enforces non-negative counts and min <= max.
func (r RowCount) Validate() error {
	if !r.Ranged {
		if r.Exact < 0 {
			return fmt.Errorf("rows must not be negative, got %d", r.Exact)
		}
		return nil
	}
	if r.Min < 0 || r.Max < 0 {
		return fmt.Errorf("rows range must not be negative, got %s", r)
	}
	if r.Min > r.Max {
		return fmt.Errorf("rows min (%d) cannot be greater than max (%d)", r.Min, r.Max)
	}
	return nil
}

// Validate checks the fields every experiment type needs.
func (e *Experiment) Validate() error {
	if e == nil {
		return fmt.Errorf("experiment is empty")
	}
	if e.Type == "" {
		return fmt.Errorf("type is missing")
	}
	if e.Type == "cron_feed" {
		if e.Cron == "" {
			return fmt.Errorf("cron_feed requires cron")
		}
		if e.Dates == nil || (e.Dates.To == "" && e.Dates.Count == nil) {
			return fmt.Errorf("one of dates.to or dates.count must be present")
		}
		if e.Writer == nil || e.Writer.Name == "" {
			return fmt.Errorf("cron_feed requires writer.name")
		}
	}
	return nil
}
