package ordered

import "fmt"

// Op is a fold operation used by Aggregate.
type Op int

const (
	// Sum adds values; its identity is 0.
	Sum Op = iota
	// Product multiplies values; its identity is 1.
	Product
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case Sum:
		return "sum"
	case Product:
		return "product"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

func (o Op) identity() float64 {
	if o == Product {
		return 1
	}
	return 0
}

func (o Op) apply(acc, v float64) float64 {
	if o == Product {
		return acc * v
	}
	return acc + v
}

// Attribute reads a numeric attribute. ok is false when the value is
// undefined for that object.
type Attribute[T any] func(T) (v float64, ok bool)

// Aggregate folds attr over objects with op.
//
// With ignoreUndefined, objects whose attribute is undefined are skipped.
// Otherwise the first undefined value returns an error wrapping
// ErrUndefinedAttribute. An empty input returns the identity of op.
func Aggregate[T any](objects []T, attr Attribute[T], op Op, ignoreUndefined bool) (float64, error) {
	if op != Sum && op != Product {
		return 0, fmt.Errorf("aggregate: unsupported operation %v", op)
	}
	acc := op.identity()
	for _, o := range objects {
		v, ok := attr(o)
		if !ok {
			if ignoreUndefined {
				continue
			}
			return 0, fmt.Errorf("aggregate %s: %w", describe(o), ErrUndefinedAttribute)
		}
		acc = op.apply(acc, v)
	}
	return acc, nil
}

func describe(o any) string {
	if e, ok := o.(Entity); ok && Valid(e) {
		return fmt.Sprintf("%T %s", e, e.ID())
	}
	return fmt.Sprintf("%T", o)
}
