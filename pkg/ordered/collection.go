package ordered

import "slices"

// Collection is an entity that owns a set of member entities and the
// reverse adjacency over them. Collections are entities themselves, so a
// collection of collections forms the next tier of a hierarchy.
//
// The zero value is an empty collection with no index; use NewCollection.
type Collection[T Member] struct {
	Node

	members []T
	set     map[T]struct{}
	index   *Index[T]
}

// NewCollection creates a terminal collection with the given identifier and
// members, and computes its reverse index.
//
// Duplicate members are kept once, in first-seen order. Returns
// ErrNotEntity if any member is nil or a typed nil pointer, and
// ErrTierMismatch if a member links downstream to a different type.
func NewCollection[T Member](id string, members []T) (Collection[T], error) {
	c := Collection[T]{
		Node: NewNode(id),
		set:  make(map[T]struct{}, len(members)),
	}
	for _, m := range members {
		if !Valid(m) {
			return Collection[T]{}, ErrNotEntity
		}
		if _, dup := c.set[m]; dup {
			continue
		}
		c.set[m] = struct{}{}
		c.members = append(c.members, m)
	}
	if err := c.Reindex(); err != nil {
		return Collection[T]{}, err
	}
	return c, nil
}

// Reindex recomputes the reverse index from the members' current
// downstream links.
func (c *Collection[T]) Reindex() error {
	ix, err := NewIndex(c.members)
	if err != nil {
		return err
	}
	c.index = ix
	return nil
}

// Members returns the members in insertion order. The returned slice is a
// copy.
func (c *Collection[T]) Members() []T { return slices.Clone(c.members) }

// Len returns the number of members.
func (c *Collection[T]) Len() int { return len(c.members) }

// Contains reports whether e is a member.
func (c *Collection[T]) Contains(e T) bool {
	_, ok := c.set[e]
	return ok
}

// Index returns the reverse index over the members.
func (c *Collection[T]) Index() *Index[T] { return c.index }

// TraceUp returns the members upstream of start. See [Index.Trace].
func (c *Collection[T]) TraceUp(start T, opts TraceOptions) ([]T, error) {
	if c.index == nil {
		return nil, ErrUnknownEntity
	}
	return c.index.Trace(start, opts)
}
