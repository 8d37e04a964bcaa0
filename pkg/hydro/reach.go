package hydro

import (
	"github.com/matzehuels/hydronet/pkg/errors"
	"github.com/matzehuels/hydronet/pkg/ordered"
)

// ReachAttrs are the attributes of a reach.
type ReachAttrs struct {
	Length Measure
	Order  int // Strahler stream order, 0 when unknown
}

// Reach is a river segment: the smallest flow-ordered unit. A reach owns
// the structures located on it and links downstream to another reach.
type Reach struct {
	ordered.Collection[Structure]

	length    Measure
	order     int
	catchment *Catchment
	tributary *Tributary
}

// NewReach creates a terminal reach owning structures. Each structure's
// reach back-reference is set to the new reach.
func NewReach(id string, a ReachAttrs, structures ...Structure) (*Reach, error) {
	if err := errors.ValidateID(id); err != nil {
		return nil, err
	}
	if err := validateMeasure("reach length", a.Length); err != nil {
		return nil, err
	}
	c, err := ordered.NewCollection(id, structures)
	if err != nil {
		return nil, constraint(err, "reach %s", id)
	}
	r := &Reach{Collection: c, length: a.Length, order: a.Order}
	for _, s := range r.Members() {
		s.base().reach = r
	}
	return r, nil
}

// Length returns the reach length.
func (r *Reach) Length() Measure { return r.length }

// Order returns the stream order, or 0 when unknown.
func (r *Reach) Order() int { return r.order }

// Catchment returns the catchment that owns the reach, if any.
func (r *Reach) Catchment() *Catchment { return r.catchment }

// Tributary returns the tributary spanning the reach, if any.
func (r *Reach) Tributary() *Tributary { return r.tributary }

// Structures returns the structures on the reach.
func (r *Reach) Structures() []Structure { return r.Members() }

// DownReach returns the downstream reach, or nil at an outlet.
func (r *Reach) DownReach() *Reach {
	d, _ := r.Down().(*Reach)
	return d
}

// TraceDown returns the reaches downstream of r, closest first.
func (r *Reach) TraceDown(opts ordered.TraceOptions) []*Reach {
	return ordered.OfType[*Reach](ordered.TraceDown(r, opts))
}

// TraceUp returns the structures on r upstream of s.
func (r *Reach) TraceUp(s Structure, opts ordered.TraceOptions) ([]Structure, error) {
	out, err := r.Collection.TraceUp(s, opts)
	if err != nil {
		return nil, lookup(err, "reach %s: trace up from %s", r.ID(), describe(s))
	}
	return out, nil
}

func reachLength(r *Reach) (float64, bool) { return r.length.Get() }
