package seeder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
)

var (
	ErrUnknownGenerator       = errors.New("unknown generator type")
	ErrInvalidParameter       = errors.New("invalid generator parameter")
	ErrEmptyChoiceSet         = errors.New("empty choice set")
	ErrUnknownReferenceTarget = errors.New("unknown reference target")
	ErrCyclicReference        = errors.New("cyclic reference")
	ErrCardinalityMismatch    = errors.New("cardinality mismatch")
	ErrEmptyReferenceTarget   = errors.New("empty reference target")
	ErrGenerator              = errors.New("generator failed")
	ErrInvalidRowCount        = errors.New("invalid row count")
)

// Location identifies the model element an error belongs to. The model name
// is not part of the message; ModelError adds it once at the model boundary.
type Location struct {
	Model     string
	Schema    string
	Attribute string
}

func (l Location) String() string {
	var parts []string
	if l.Schema != "" {
		parts = append(parts, fmt.Sprintf("schema %q", l.Schema))
	}
	if l.Attribute != "" {
		parts = append(parts, fmt.Sprintf("attribute %q", l.Attribute))
	}
	return strings.Join(parts, " ")
}

func (l *Location) locate(at Location) {
	if l.Model == "" {
		l.Model = at.Model
	}
	if l.Schema == "" {
		l.Schema = at.Schema
	}
	if l.Attribute == "" {
		l.Attribute = at.Attribute
	}
}

func (l Location) prefix() string {
	if s := l.String(); s != "" {
		return s + ": "
	}
	return ""
}

type locatable interface {
	locate(Location)
}

// locate fills in the model element on errors raised without that context,
// such as registry errors.
func locate(err error, at Location) error {
	var le locatable
	if errors.As(err, &le) {
		le.locate(at)
	}
	return err
}

type UnknownGeneratorError struct {
	Location
	Type string
}

func (e *UnknownGeneratorError) Error() string {
	return fmt.Sprintf("%sunknown generator type %q", e.prefix(), e.Type)
}

func (e *UnknownGeneratorError) Is(target error) bool { return target == ErrUnknownGenerator }

type InvalidParameterError struct {
	Location
	Type   string
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("%sinvalid parameters for %s: %s", e.prefix(), e.Type, e.Reason)
	}
	return fmt.Sprintf("%sinvalid parameter %q for %s: %s", e.prefix(), e.Param, e.Type, e.Reason)
}

func (e *InvalidParameterError) Is(target error) bool { return target == ErrInvalidParameter }

type EmptyChoiceSetError struct {
	Location
	Type string
}

func (e *EmptyChoiceSetError) Error() string {
	return fmt.Sprintf("%s%s requires a non-empty elements list", e.prefix(), e.Type)
}

func (e *EmptyChoiceSetError) Is(target error) bool { return target == ErrEmptyChoiceSet }

// UnknownReferenceTargetError reports a ${ref} to a schema or attribute that
// does not exist in the model. Attribute is empty when the schema is missing.
type UnknownReferenceTargetError struct {
	Location
	Dataset   string
	Attribute string
}

func (e *UnknownReferenceTargetError) Error() string {
	if e.Attribute != "" {
		return fmt.Sprintf("%sreference target attribute %q not found in schema %q", e.prefix(), e.Attribute, e.Dataset)
	}
	return fmt.Sprintf("%sreference target schema %q not found", e.prefix(), e.Dataset)
}

func (e *UnknownReferenceTargetError) Is(target error) bool {
	return target == ErrUnknownReferenceTarget
}

// CyclicReferenceError names the schemas on a reference cycle in cycle order.
type CyclicReferenceError struct {
	Model   string
	Schemas []string
}

func (e *CyclicReferenceError) Error() string {
	path := append(append([]string{}, e.Schemas...), e.Schemas[0])
	return fmt.Sprintf("cyclic reference between schemas: %s", strings.Join(path, " -> "))
}

func (e *CyclicReferenceError) Is(target error) bool { return target == ErrCyclicReference }

type CardinalityMismatchError struct {
	Location
	Dataset    string
	Cord       model.Cardinality
	ChildRows  int
	ParentRows int
}

func (e *CardinalityMismatchError) Error() string {
	return fmt.Sprintf("%s%s reference to %q needs equal row counts, got %d child rows and %d parent rows",
		e.prefix(), e.Cord, e.Dataset, e.ChildRows, e.ParentRows)
}

func (e *CardinalityMismatchError) Is(target error) bool { return target == ErrCardinalityMismatch }

type EmptyReferenceTargetError struct {
	Location
	Dataset   string
	ChildRows int
}

func (e *EmptyReferenceTargetError) Error() string {
	return fmt.Sprintf("%scannot sample %d rows from empty schema %q", e.prefix(), e.ChildRows, e.Dataset)
}

func (e *EmptyReferenceTargetError) Is(target error) bool { return target == ErrEmptyReferenceTarget }

// InvalidRowCountError reports a negative count or an inverted range found
// before any table is built.
type InvalidRowCountError struct {
	Location
	Rows   model.RowCount
	Reason string
}

func (e *InvalidRowCountError) Error() string {
	return fmt.Sprintf("%sinvalid rows %s: %s", e.prefix(), e.Rows, e.Reason)
}

func (e *InvalidRowCountError) Is(target error) bool { return target == ErrInvalidRowCount }

// GeneratorError wraps a producer failure with the row it happened on.
type GeneratorError struct {
	Location
	Row int
	Err error
}

func (e *GeneratorError) Error() string {
	return fmt.Sprintf("%srow %d: %v", e.prefix(), e.Row, e.Err)
}

func (e *GeneratorError) Unwrap() error { return e.Err }

func (e *GeneratorError) Is(target error) bool { return target == ErrGenerator }

// ModelError tags a failure with the model it aborted.
type ModelError struct {
	Model string
	Err   error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("failed to generate model %q: %v", e.Model, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }
