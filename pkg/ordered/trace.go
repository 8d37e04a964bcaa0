package ordered

// Unlimited is the TraceOptions.Levels value that places no bound on the
// number of levels traced. Any value <= 0 behaves the same way, so an
// explicit Levels of 0 traces everything rather than returning nothing.
// Use Levels: 1 for direct neighbours only.
const Unlimited = 0

// Filter is an attribute predicate evaluated on each visited entity.
// Filters are usually closures built by the caller, for example
// "belongs to the same catchment as X".
type Filter func(Entity) bool

// All returns a Filter that passes only when every non-nil filter passes.
// With no filters it passes everything.
func All(filters ...Filter) Filter {
	return func(e Entity) bool {
		for _, f := range filters {
			if f != nil && !f(e) {
				return false
			}
		}
		return true
	}
}

// TraceOptions bounds a trace.
type TraceOptions struct {
	// Levels is the maximum number of steps away from the start entity.
	// Zero or negative means unlimited.
	Levels int
	// Filter, if set, halts the walk at the first entity that fails it.
	// The failing entity is not reported.
	Filter Filter
}

func (o TraceOptions) within(level int) bool {
	return o.Levels <= 0 || level < o.Levels
}

func (o TraceOptions) accepts(e Entity) bool {
	return o.Filter == nil || o.Filter(e)
}

// TraceDown follows downstream links from start and returns the visited
// entities, closest first. start itself is not included.
//
// The walk stops at a terminal, after opts.Levels steps, or before the first
// entity that fails opts.Filter. The network must not contain a cycle that
// never reaches a terminal.
func TraceDown(start Entity, opts TraceOptions) []Entity {
	var out []Entity
	cur := start
	for steps := 0; opts.within(steps); steps++ {
		next := cur.Down()
		if next == nil {
			break
		}
		if !opts.accepts(next) {
			break
		}
		out = append(out, next)
		cur = next
	}
	return out
}
