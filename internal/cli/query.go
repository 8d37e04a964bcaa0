package cli

import (
	"context"
	"time"

	"github.com/matzehuels/hydronet/pkg/errors"
	"github.com/matzehuels/hydronet/pkg/hydro"
	"github.com/matzehuels/hydronet/pkg/observability"
	"github.com/matzehuels/hydronet/pkg/ordered"
)

// Query tiers, directions, scopes and quantities accepted by the flags.
const (
	tierStructure = "structure"
	tierReach     = "reach"
	tierCatchment = "catchment"
	tierTributary = "tributary"
	tierLake      = "lake"

	directionUp   = "up"
	directionDown = "down"
	directionAll  = "all"

	scopeNone      = "none"
	scopeReach     = "reach"
	scopeCatchment = "catchment"
	scopeTributary = "tributary"

	quantityLength = "length"
	quantityArea   = "area"
)

// traceRequest is a parsed trace query.
type traceRequest struct {
	Tier      string
	ID        string
	Direction string
	Levels    int
	Scope     string
}

// trace runs req against n and returns the matching entities in traversal
// order.
func trace(ctx context.Context, n *hydro.Network, req traceRequest) ([]ordered.Entity, error) {
	start := time.Now()
	result, err := runTrace(n, req)
	if err == nil {
		observability.Query().OnTrace(ctx, req.Tier, req.Direction, len(result), time.Since(start))
	}
	return result, err
}

func runTrace(n *hydro.Network, req traceRequest) ([]ordered.Entity, error) {
	if req.Direction != directionUp && req.Direction != directionDown {
		return nil, errors.New(errors.ErrCodeInvalidInput, "direction must be up or down, got %q", req.Direction)
	}
	origin, err := lookupEntity(n, req.Tier, req.ID)
	if err != nil {
		return nil, err
	}
	filter, err := scopeFilter(origin, req.Scope)
	if err != nil {
		return nil, err
	}
	opts := ordered.TraceOptions{Levels: req.Levels, Filter: filter}

	if req.Direction == directionDown {
		return ordered.TraceDown(origin, opts), nil
	}

	switch e := origin.(type) {
	case hydro.Structure:
		if req.Scope == scopeReach {
			// The reach index is smaller than the tributary one.
			ups, err := e.Reach().TraceUp(e, ordered.TraceOptions{Levels: req.Levels})
			return widen(ups), err
		}
		return e.Tributary().TraceUp(e, opts)
	case *hydro.Reach:
		return e.Tributary().TraceUp(e, opts)
	case *hydro.Catchment:
		return e.Tributary().TraceUp(e, opts)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "cannot trace up from a %s", req.Tier)
}

// lookupEntity finds a traceable entity by tier and id.
func lookupEntity(n *hydro.Network, tier, id string) (ordered.Entity, error) {
	var (
		e  ordered.Entity
		ok bool
	)
	switch tier {
	case tierStructure:
		e, ok = n.Structure(id)
	case tierReach:
		e, ok = n.Reach(id)
	case tierCatchment:
		e, ok = n.Catchment(id)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "tier must be structure, reach or catchment, got %q", tier)
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "%s %q not found", tier, id)
	}
	return e, nil
}

// scopeFilter restricts a trace to the reach, catchment or tributary that
// contains origin.
func scopeFilter(origin ordered.Entity, scope string) (ordered.Filter, error) {
	if scope == "" || scope == scopeNone {
		return nil, nil
	}
	want, ok := container(origin, scope)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "scope %q does not apply to %T", scope, origin)
	}
	return func(e ordered.Entity) bool {
		got, ok := container(e, scope)
		return ok && ordered.Same(got, want)
	}, nil
}

// container returns the entity of the scope tier that holds e.
func container(e ordered.Entity, scope string) (ordered.Entity, bool) {
	var (
		r *hydro.Reach
		c *hydro.Catchment
		t *hydro.Tributary
	)
	switch v := e.(type) {
	case hydro.Structure:
		r, t = v.Reach(), v.Tributary()
		if r != nil {
			c = r.Catchment()
		}
	case *hydro.Reach:
		r, c, t = v, v.Catchment(), v.Tributary()
	case *hydro.Catchment:
		c, t = v, v.Tributary()
	default:
		return nil, false
	}
	switch scope {
	case scopeReach:
		return r, r != nil
	case scopeCatchment:
		return c, c != nil
	case scopeTributary:
		return t, t != nil
	}
	return nil, false
}

// measureRequest is a parsed aggregate query.
type measureRequest struct {
	Tier      string
	ID        string
	Quantity  string
	Direction string
	From      string
	Levels    int
}

// measure runs req against n.
func measure(ctx context.Context, n *hydro.Network, req measureRequest) (float64, error) {
	start := time.Now()
	v, err := runMeasure(n, req)
	observability.Query().OnMeasure(ctx, req.Tier, req.Quantity, time.Since(start), err)
	return v, err
}

func runMeasure(n *hydro.Network, req measureRequest) (float64, error) {
	if req.Quantity != quantityLength && req.Quantity != quantityArea {
		return 0, errors.New(errors.ErrCodeInvalidInput, "quantity must be length or area, got %q", req.Quantity)
	}
	switch req.Direction {
	case "":
		req.Direction = directionAll
	case directionAll, directionUp, directionDown:
	default:
		return 0, errors.New(errors.ErrCodeInvalidInput, "direction must be up, down or all, got %q", req.Direction)
	}
	if req.Direction != directionAll && req.From == "" {
		return 0, errors.New(errors.ErrCodeInvalidInput, "--from is required for direction %s", req.Direction)
	}

	switch req.Tier {
	case tierLake:
		l, ok := n.Lake(req.ID)
		if !ok {
			return 0, errors.New(errors.ErrCodeNotFound, "lake %q not found", req.ID)
		}
		if req.Direction != directionAll {
			return 0, errors.New(errors.ErrCodeUnsupported, "lakes only support direction all")
		}
		if req.Quantity == quantityArea {
			return l.AreaAll(), nil
		}
		return l.LengthAll(), nil

	case tierCatchment:
		c, ok := n.Catchment(req.ID)
		if !ok {
			return 0, errors.New(errors.ErrCodeNotFound, "catchment %q not found", req.ID)
		}
		if req.Quantity == quantityArea {
			return 0, errors.New(errors.ErrCodeUnsupported, "catchments only aggregate length")
		}
		if req.Direction == directionAll {
			return c.LengthAll(), nil
		}
		r, err := reachByID(n, req.From)
		if err != nil {
			return 0, err
		}
		if req.Direction == directionUp {
			return c.LengthUp(r, req.Levels)
		}
		return c.LengthDown(r, req.Levels)

	case tierTributary:
		t, ok := n.Tributary(req.ID)
		if !ok {
			return 0, errors.New(errors.ErrCodeNotFound, "tributary %q not found", req.ID)
		}
		if req.Quantity == quantityArea {
			return tributaryArea(n, t, req)
		}
		if req.Direction == directionAll {
			return t.LengthAll(), nil
		}
		r, err := reachByID(n, req.From)
		if err != nil {
			return 0, err
		}
		if req.Direction == directionUp {
			return t.LengthUp(r, req.Levels)
		}
		return t.LengthDown(r, req.Levels)
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "tier must be catchment, tributary or lake, got %q", req.Tier)
}

func tributaryArea(n *hydro.Network, t *hydro.Tributary, req measureRequest) (float64, error) {
	if req.Direction == directionAll {
		return t.AreaAll(), nil
	}
	c, ok := n.Catchment(req.From)
	if !ok {
		return 0, errors.New(errors.ErrCodeNotFound, "catchment %q not found", req.From)
	}
	if req.Direction == directionUp {
		return t.AreaUp(c, req.Levels)
	}
	return t.AreaDown(c, req.Levels)
}

func reachByID(n *hydro.Network, id string) (*hydro.Reach, error) {
	r, ok := n.Reach(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "reach %q not found", id)
	}
	return r, nil
}

func widen[T ordered.Entity](in []T) []ordered.Entity {
	out := make([]ordered.Entity, len(in))
	for i, e := range in {
		out[i] = e
	}
	return out
}
