package hydro

import (
	"github.com/matzehuels/hydronet/pkg/errors"
	"github.com/matzehuels/hydronet/pkg/ordered"
)

// Lake is a terminal water body collecting tributaries.
type Lake struct {
	ordered.Collection[*Tributary]
}

// NewLake creates a lake collecting tributaries and sets their lake
// back-reference.
func NewLake(id string, tributaries ...*Tributary) (*Lake, error) {
	if err := errors.ValidateID(id); err != nil {
		return nil, err
	}
	col, err := ordered.NewCollection(id, tributaries)
	if err != nil {
		return nil, constraint(err, "lake %s", id)
	}
	l := &Lake{Collection: col}
	for _, t := range l.Members() {
		t.lake = l
	}
	return l, nil
}

// Tributaries returns the member tributaries.
func (l *Lake) Tributaries() []*Tributary { return l.Members() }

// LengthAll returns the total reach length over all tributaries.
func (l *Lake) LengthAll() float64 {
	var sum float64
	for _, t := range l.Members() {
		sum += t.LengthAll()
	}
	return sum
}

// AreaAll returns the total catchment area over all tributaries.
func (l *Lake) AreaAll() float64 {
	var sum float64
	for _, t := range l.Members() {
		sum += t.AreaAll()
	}
	return sum
}
