package hydro

import (
	stderrors "errors"

	"github.com/matzehuels/hydronet/pkg/errors"
	"github.com/matzehuels/hydronet/pkg/ordered"
)

// BarrierMeasure reads a per-barrier quantity, such as (*Barrier).Cost.
type BarrierMeasure func(*Barrier) Measure

// Total sums m over structures.
//
// Without strict, structures whose value is undefined are skipped. With
// strict, the first one fails with an UNDEFINED_ATTRIBUTE error naming it.
// Every structure variant carries barrier attributes.
func Total(structures []Structure, m BarrierMeasure, strict bool) (float64, error) {
	attr := func(s Structure) (float64, bool) {
		b, ok := BarrierOf(s)
		if !ok {
			return 0, false
		}
		return m(b).Get()
	}
	v, err := ordered.Aggregate(structures, attr, ordered.Sum, !strict)
	if stderrors.Is(err, ordered.ErrUndefinedAttribute) {
		return 0, errors.Wrap(errors.ErrCodeUndefinedAttribute, err, "total over %d structures", len(structures))
	}
	return v, err
}

// TotalCost sums the cost of making structures passable.
func TotalCost(structures []Structure, strict bool) (float64, error) {
	return Total(structures, (*Barrier).Cost, strict)
}

// TotalHabitat sums the upstream habitat of structures.
func TotalHabitat(structures []Structure, strict bool) (float64, error) {
	return Total(structures, (*Barrier).Habitat, strict)
}
