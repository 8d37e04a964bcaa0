package hydro

import (
	"fmt"

	"github.com/matzehuels/hydronet/pkg/errors"
	"github.com/matzehuels/hydronet/pkg/ordered"
)

func constraint(err error, format string, args ...any) error {
	return errors.Wrap(errors.ErrCodeConstraint, err, format, args...)
}

func lookup(err error, format string, args ...any) error {
	return errors.Wrap(errors.ErrCodeLookup, err, format, args...)
}

// describe names an entity for error messages.
func describe(e ordered.Entity) string {
	if !ordered.Valid(e) {
		return "<nil>"
	}
	switch x := e.(type) {
	case Structure:
		return fmt.Sprintf("%s %s", x.Kind(), x.ID())
	case *Reach:
		return "reach " + x.ID()
	case *Catchment:
		return "catchment " + x.ID()
	case *Tributary:
		return "tributary " + x.ID()
	case *Lake:
		return "lake " + x.ID()
	}
	return fmt.Sprintf("%T %s", e, e.ID())
}
