package ordered

import "slices"

// Member is the constraint for index and collection element types: any
// comparable entity type, including interface types such as Entity itself.
type Member interface {
	comparable
	Entity
}

// Index is the reverse adjacency of a member set: for each entity, the
// members whose downstream link points at it.
//
// An Index is a snapshot. It has an entry for every member and for every
// member's downstream target, computed from the links at construction time.
// Later SetDown calls are not reflected; build a new Index instead.
type Index[T Member] struct {
	up    map[T][]T
	order []T // entries in first-seen order, for deterministic iteration
}

// NewIndex computes the reverse adjacency of members.
//
// Duplicate members are ignored. Returns ErrNotEntity if a member is nil
// or a typed nil pointer, and ErrTierMismatch if a member's downstream
// target is not of type T.
func NewIndex[T Member](members []T) (*Index[T], error) {
	ix := &Index[T]{up: make(map[T][]T, len(members))}
	for _, m := range members {
		if !Valid(m) {
			return nil, ErrNotEntity
		}
		ix.entry(m)
	}
	seen := make(map[T]struct{}, len(members))
	for _, m := range members {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		d := m.Down()
		if d == nil {
			continue
		}
		down, ok := d.(T)
		if !ok {
			return nil, ErrTierMismatch
		}
		ix.entry(down)
		ix.up[down] = append(ix.up[down], m)
	}
	return ix, nil
}

func (ix *Index[T]) entry(e T) {
	if _, ok := ix.up[e]; !ok {
		ix.up[e] = nil
		ix.order = append(ix.order, e)
	}
}

// Has reports whether e has an entry in the index.
func (ix *Index[T]) Has(e T) bool {
	_, ok := ix.up[e]
	return ok
}

// Len returns the number of entries, members plus downstream targets.
func (ix *Index[T]) Len() int { return len(ix.up) }

// Up returns the nearest upstream neighbors of e and whether e is indexed.
// The returned slice must not be modified.
func (ix *Index[T]) Up(e T) ([]T, bool) {
	up, ok := ix.up[e]
	return up, ok
}

// Heads returns the indexed entities with no upstream neighbors
// (headwaters), in first-seen order.
func (ix *Index[T]) Heads() []T {
	var out []T
	for _, e := range ix.order {
		if len(ix.up[e]) == 0 {
			out = append(out, e)
		}
	}
	return out
}

// Trace returns the entities upstream of start, breadth-first, nearest
// levels first. start itself is not included.
//
// The expansion uses a FIFO queue seeded with start's nearest upstream
// neighbors at level 0. Before each pop the level of the queue front is
// compared against opts.Levels and the whole trace stops once it reaches
// the limit. An entity failing opts.Filter is dropped together with
// everything that would only be reached through it.
//
// The result is a set; its order is discovery order and carries no meaning.
// Returns ErrUnknownEntity if start has no entry in the index.
func (ix *Index[T]) Trace(start T, opts TraceOptions) ([]T, error) {
	first, ok := ix.up[start]
	if !ok {
		return nil, ErrUnknownEntity
	}

	type item struct {
		e     T
		level int
	}
	queue := make([]item, 0, len(first))
	for _, e := range first {
		queue = append(queue, item{e, 0})
	}

	var out []T
	for len(queue) > 0 && opts.within(queue[0].level) {
		it := queue[0]
		queue = queue[1:]
		if !opts.accepts(it.e) {
			continue
		}
		out = append(out, it.e)
		for _, u := range ix.up[it.e] {
			queue = append(queue, item{u, it.level + 1})
		}
	}
	return out, nil
}

// Entries returns every indexed entity in first-seen order.
func (ix *Index[T]) Entries() []T { return slices.Clone(ix.order) }
