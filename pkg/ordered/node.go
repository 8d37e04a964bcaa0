package ordered

import (
	"errors"
	"reflect"
)

var (
	// ErrNotEntity is returned when a value that is not a usable entity is
	// assigned as a downstream link or added to a collection. In practice
	// this means a typed nil pointer wrapped in the Entity interface.
	ErrNotEntity = errors.New("value is not an ordered entity")

	// ErrTierMismatch is returned by [NewIndex] and [NewCollection] when a
	// member's downstream link points at an entity of a different type than
	// the collection members.
	ErrTierMismatch = errors.New("downstream entity belongs to a different tier")

	// ErrUnknownEntity is returned by [Index.Trace] when the starting entity
	// has no entry in the reverse index. Tracing from an unknown entity is a
	// caller bug and is never answered with an empty result.
	ErrUnknownEntity = errors.New("entity not present in index")

	// ErrUndefinedAttribute is returned by [Aggregate] when an attribute is
	// undefined and undefined values are not ignored.
	ErrUndefinedAttribute = errors.New("attribute is undefined")
)

// Entity is a node of a flow-ordered network. It is implemented by embedding
// [Node] in a struct and using a pointer to that struct.
type Entity interface {
	// ID returns the entity identifier.
	ID() string
	// Down returns the downstream successor, or nil for a terminal.
	Down() Entity

	node() *Node
}

// Node is the embeddable base of every entity. It stores the identifier and
// the downstream link.
//
// The zero value is a terminal with an empty identifier.
type Node struct {
	id   string
	down Entity
}

// NewNode returns a terminal node with the given identifier.
func NewNode(id string) Node { return Node{id: id} }

// ID returns the node identifier.
func (n *Node) ID() string { return n.id }

// Down returns the downstream successor, or nil if the node is terminal.
func (n *Node) Down() Entity { return n.down }

// IsTerminal reports whether the node has no downstream successor.
func (n *Node) IsTerminal() bool { return n.down == nil }

// SetDown sets the downstream successor.
//
// A nil value or the entity itself makes the node terminal. A typed nil
// pointer returns ErrNotEntity and leaves the link unchanged.
//
// Changing a link does not update any [Index] built earlier; indices are
// snapshots of the links at construction time.
func (n *Node) SetDown(e Entity) error {
	if e == nil {
		n.down = nil
		return nil
	}
	if isNil(e) {
		return ErrNotEntity
	}
	if e.node() == n {
		n.down = nil
		return nil
	}
	n.down = e
	return nil
}

func (n *Node) node() *Node { return n }

// Valid reports whether e can be used as an entity: it is non-nil and does
// not wrap a nil pointer.
func Valid(e Entity) bool { return e != nil && !isNil(e) }

func isNil(e Entity) bool {
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Same reports whether a and b are the same entity. It compares the
// underlying nodes, so it is safe across interface types.
func Same(a, b Entity) bool {
	if !Valid(a) || !Valid(b) {
		return false
	}
	return a.node() == b.node()
}

// IDs extracts the identifier of each entity, preserving order.
func IDs[T Entity](es []T) []string {
	ids := make([]string, len(es))
	for i, e := range es {
		ids[i] = e.ID()
	}
	return ids
}

// OfType returns the elements of in whose dynamic type is T, preserving
// order. It is the type filter of trace operations.
func OfType[T any, E any](in []E) []T {
	var out []T
	for _, e := range in {
		if t, ok := any(e).(T); ok {
			out = append(out, t)
		}
	}
	return out
}
