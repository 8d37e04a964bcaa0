package hydro

import (
	"github.com/matzehuels/hydronet/pkg/errors"
	"github.com/matzehuels/hydronet/pkg/ordered"
)

// Catchment is a drainage area grouping the reaches that start or end
// within it. Catchments link downstream to other catchments.
type Catchment struct {
	ordered.Collection[*Reach]

	area      Measure
	tributary *Tributary
}

// NewCatchment creates a terminal catchment owning reaches. Each reach's
// catchment back-reference is set to the new catchment.
func NewCatchment(id string, area Measure, reaches ...*Reach) (*Catchment, error) {
	if err := errors.ValidateID(id); err != nil {
		return nil, err
	}
	if err := validateMeasure("catchment area", area); err != nil {
		return nil, err
	}
	col, err := ordered.NewCollection(id, reaches)
	if err != nil {
		return nil, constraint(err, "catchment %s", id)
	}
	c := &Catchment{Collection: col, area: area}
	for _, r := range c.Members() {
		r.catchment = c
	}
	return c, nil
}

// Area returns the drainage area.
func (c *Catchment) Area() Measure { return c.area }

// Tributary returns the tributary spanning the catchment, if any.
func (c *Catchment) Tributary() *Tributary { return c.tributary }

// Reaches returns the member reaches.
func (c *Catchment) Reaches() []*Reach { return c.Members() }

// DownCatchment returns the downstream catchment, or nil at an outlet.
func (c *Catchment) DownCatchment() *Catchment {
	d, _ := c.Down().(*Catchment)
	return d
}

// TraceDown returns the catchments downstream of c, closest first.
func (c *Catchment) TraceDown(opts ordered.TraceOptions) []*Catchment {
	return ordered.OfType[*Catchment](ordered.TraceDown(c, opts))
}

// TraceUp returns the member reaches upstream of r.
func (c *Catchment) TraceUp(r *Reach, opts ordered.TraceOptions) ([]*Reach, error) {
	out, err := c.Collection.TraceUp(r, opts)
	if err != nil {
		return nil, lookup(err, "catchment %s: trace up from %s", c.ID(), describe(r))
	}
	return out, nil
}

// Scope passes reaches owned by c.
func (c *Catchment) Scope() ordered.Filter {
	return func(e ordered.Entity) bool {
		r, ok := e.(*Reach)
		return ok && r.catchment == c
	}
}

// LengthAll returns the total length of the member reaches.
func (c *Catchment) LengthAll() float64 {
	v, _ := ordered.Aggregate(c.Members(), reachLength, ordered.Sum, true)
	return v
}

// LengthUp returns the length of the reaches of c upstream of r, up to
// levels steps away. levels <= 0 means unlimited.
func (c *Catchment) LengthUp(r *Reach, levels int) (float64, error) {
	up, err := c.TraceUp(r, ordered.TraceOptions{Levels: levels, Filter: c.Scope()})
	if err != nil {
		return 0, err
	}
	return ordered.Aggregate(up, reachLength, ordered.Sum, true)
}

// LengthDown returns the length of the reaches of c downstream of r, up to
// levels steps away. The walk stops where the river leaves c.
func (c *Catchment) LengthDown(r *Reach, levels int) (float64, error) {
	if r == nil || !c.Index().Has(r) {
		return 0, lookup(ordered.ErrUnknownEntity, "catchment %s: length down from %s", c.ID(), describe(r))
	}
	down := r.TraceDown(ordered.TraceOptions{Levels: levels, Filter: c.Scope()})
	return ordered.Aggregate(down, reachLength, ordered.Sum, true)
}

func catchmentArea(c *Catchment) (float64, bool) { return c.area.Get() }
