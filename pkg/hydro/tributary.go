package hydro

import (
	"github.com/matzehuels/hydronet/pkg/errors"
	"github.com/matzehuels/hydronet/pkg/ordered"
)

// Tributary is a drainage network spanning several catchments and draining
// to one lake. It owns its reaches together with the catchments and
// structures on them, and keeps one reverse index per tier so that any of
// them can be traced upstream within the tributary.
type Tributary struct {
	ordered.Collection[*Reach]

	catchments []*Catchment
	structures []Structure
	catchUp    *ordered.Index[*Catchment]
	barUp      *ordered.Index[Structure]
	lake       *Lake
}

// NewTributary creates a terminal tributary spanning reaches. The
// catchments and structures it spans are those owned by the reaches, in
// first-seen order. Tributary back-references are set on every reach,
// catchment and structure.
func NewTributary(id string, reaches ...*Reach) (*Tributary, error) {
	if err := errors.ValidateID(id); err != nil {
		return nil, err
	}
	col, err := ordered.NewCollection(id, reaches)
	if err != nil {
		return nil, constraint(err, "tributary %s", id)
	}
	t := &Tributary{Collection: col}

	seen := make(map[*Catchment]bool)
	for _, r := range t.Members() {
		if c := r.catchment; c != nil && !seen[c] {
			seen[c] = true
			t.catchments = append(t.catchments, c)
		}
		t.structures = append(t.structures, r.Members()...)
	}

	if t.catchUp, err = ordered.NewIndex(t.catchments); err != nil {
		return nil, constraint(err, "tributary %s: catchment index", id)
	}
	if t.barUp, err = ordered.NewIndex(t.structures); err != nil {
		return nil, constraint(err, "tributary %s: structure index", id)
	}

	for _, r := range t.Members() {
		r.tributary = t
	}
	for _, c := range t.catchments {
		c.tributary = t
	}
	for _, s := range t.structures {
		s.base().tributary = t
	}
	return t, nil
}

// Lake returns the lake the tributary drains to, if assigned.
func (t *Tributary) Lake() *Lake { return t.lake }

// Reaches returns the reaches spanned by the tributary.
func (t *Tributary) Reaches() []*Reach { return t.Members() }

// Catchments returns the catchments spanned by the tributary.
func (t *Tributary) Catchments() []*Catchment { return append([]*Catchment(nil), t.catchments...) }

// Structures returns the structures on the tributary's reaches.
func (t *Tributary) Structures() []Structure { return append([]Structure(nil), t.structures...) }

// CatchmentIndex returns the reverse index over the spanned catchments.
func (t *Tributary) CatchmentIndex() *ordered.Index[*Catchment] { return t.catchUp }

// StructureIndex returns the reverse index over the spanned structures.
func (t *Tributary) StructureIndex() *ordered.Index[Structure] { return t.barUp }

// Scope passes entities spanned by t: reaches, catchments and structures
// whose tributary back-reference is t.
func (t *Tributary) Scope() ordered.Filter {
	return func(e ordered.Entity) bool {
		switch x := e.(type) {
		case *Reach:
			return x.tributary == t
		case *Catchment:
			return x.tributary == t
		case Structure:
			return x.Tributary() == t
		}
		return false
	}
}

// TraceUp returns the entities upstream of start within the tributary,
// using the reverse index of start's tier. Starting from anything other
// than a reach, catchment or structure is unsupported.
func (t *Tributary) TraceUp(start ordered.Entity, opts ordered.TraceOptions) ([]ordered.Entity, error) {
	switch x := start.(type) {
	case *Reach:
		up, err := t.TraceUpReaches(x, opts)
		return widen(up), err
	case *Catchment:
		up, err := t.TraceUpCatchments(x, opts)
		return widen(up), err
	case Structure:
		up, err := t.TraceUpStructures(x, opts)
		return widen(up), err
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "tributary %s: cannot trace up from %s", t.ID(), describe(start))
}

// TraceUpReaches returns the reaches upstream of r within the tributary.
func (t *Tributary) TraceUpReaches(r *Reach, opts ordered.TraceOptions) ([]*Reach, error) {
	out, err := t.Collection.TraceUp(r, opts)
	if err != nil {
		return nil, lookup(err, "tributary %s: trace up from %s", t.ID(), describe(r))
	}
	return out, nil
}

// TraceUpCatchments returns the catchments upstream of c within the
// tributary.
func (t *Tributary) TraceUpCatchments(c *Catchment, opts ordered.TraceOptions) ([]*Catchment, error) {
	out, err := t.catchUp.Trace(c, opts)
	if err != nil {
		return nil, lookup(err, "tributary %s: trace up from %s", t.ID(), describe(c))
	}
	return out, nil
}

// TraceUpStructures returns the structures upstream of s within the
// tributary.
func (t *Tributary) TraceUpStructures(s Structure, opts ordered.TraceOptions) ([]Structure, error) {
	out, err := t.barUp.Trace(s, opts)
	if err != nil {
		return nil, lookup(err, "tributary %s: trace up from %s", t.ID(), describe(s))
	}
	return out, nil
}

// AreaAll returns the total area of the spanned catchments.
func (t *Tributary) AreaAll() float64 {
	v, _ := ordered.Aggregate(t.catchments, catchmentArea, ordered.Sum, true)
	return v
}

// AreaUp returns the area of the catchments of t upstream of c.
func (t *Tributary) AreaUp(c *Catchment, levels int) (float64, error) {
	up, err := t.TraceUpCatchments(c, ordered.TraceOptions{Levels: levels, Filter: t.Scope()})
	if err != nil {
		return 0, err
	}
	return ordered.Aggregate(up, catchmentArea, ordered.Sum, true)
}

// AreaDown returns the area of the catchments of t downstream of c.
func (t *Tributary) AreaDown(c *Catchment, levels int) (float64, error) {
	if c == nil || !t.catchUp.Has(c) {
		return 0, lookup(ordered.ErrUnknownEntity, "tributary %s: area down from %s", t.ID(), describe(c))
	}
	down := c.TraceDown(ordered.TraceOptions{Levels: levels, Filter: t.Scope()})
	return ordered.Aggregate(down, catchmentArea, ordered.Sum, true)
}

// LengthAll returns the total length of the spanned reaches.
func (t *Tributary) LengthAll() float64 {
	v, _ := ordered.Aggregate(t.Members(), reachLength, ordered.Sum, true)
	return v
}

// LengthUp returns the length of the reaches of t upstream of r.
func (t *Tributary) LengthUp(r *Reach, levels int) (float64, error) {
	up, err := t.TraceUpReaches(r, ordered.TraceOptions{Levels: levels, Filter: t.Scope()})
	if err != nil {
		return 0, err
	}
	return ordered.Aggregate(up, reachLength, ordered.Sum, true)
}

// LengthDown returns the length of the reaches of t downstream of r.
func (t *Tributary) LengthDown(r *Reach, levels int) (float64, error) {
	if r == nil || !t.Index().Has(r) {
		return 0, lookup(ordered.ErrUnknownEntity, "tributary %s: length down from %s", t.ID(), describe(r))
	}
	down := r.TraceDown(ordered.TraceOptions{Levels: levels, Filter: t.Scope()})
	return ordered.Aggregate(down, reachLength, ordered.Sum, true)
}

func widen[T ordered.Entity](in []T) []ordered.Entity {
	if in == nil {
		return nil
	}
	out := make([]ordered.Entity, len(in))
	for i, e := range in {
		out[i] = e
	}
	return out
}
