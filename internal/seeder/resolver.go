package seeder

import (
	"fmt"
	"math/rand"

	"github.com/Lumos-Labs-HQ/qsynth/internal/model"
)

// columnFunc yields the value of one column for row i. Rows are requested in
// ascending order.
type columnFunc func(row int) (any, error)

// resolveReference builds the column of a ${ref} attribute from the already
// published parent table.
//
// 1-1 maps child row i to parent row i and needs equal row counts. 1-* and *-*
// both sample a parent row uniformly with replacement; the two differ only in
// what the ER and meta outputs document.
func resolveReference(at Location, ref model.RefParams, childRows int, state *RunState, rng *rand.Rand) (columnFunc, error) {
	parent, ok := state.Table(ref.Dataset)
	if !ok {
		return nil, &UnknownReferenceTargetError{Location: at, Dataset: ref.Dataset}
	}
	values, ok := parent.Column(ref.Attribute)
	if !ok {
		return nil, &UnknownReferenceTargetError{Location: at, Dataset: ref.Dataset, Attribute: ref.Attribute}
	}

	switch ref.Cord {
	case model.OneToOne:
		if childRows != len(values) {
			return nil, &CardinalityMismatchError{
				Location:   at,
				Dataset:    ref.Dataset,
				Cord:       ref.Cord,
				ChildRows:  childRows,
				ParentRows: len(values),
			}
		}
		return func(row int) (any, error) {
			return values[row], nil
		}, nil

	case model.OneToMany, model.ManyToMany:
		if len(values) == 0 {
			if childRows == 0 {
				return func(int) (any, error) { return nil, nil }, nil
			}
			return nil, &EmptyReferenceTargetError{Location: at, Dataset: ref.Dataset, ChildRows: childRows}
		}
		return func(int) (any, error) {
			return values[rng.Intn(len(values))], nil
		}, nil

	default:
		return nil, &InvalidParameterError{
			Location: at,
			Type:     model.RefType,
			Param:    "cord",
			Reason:   fmt.Sprintf("unknown cardinality %q", ref.Cord),
		}
	}
}

// producerColumn adapts a registry producer to a column.
func producerColumn(p Producer) columnFunc {
	return func(int) (any, error) {
		return p()
	}
}
