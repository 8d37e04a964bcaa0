// Package ordered provides flow-ordered graph primitives for converging
// networks.
//
// An ordered network is a forest of converging directed paths: every
// [Entity] has at most one downstream successor and any number of upstream
// predecessors. Entities without a successor are terminals (outlets). This
// shape models drainage networks where water from many headwaters converges
// toward a single mouth.
//
// # Entities
//
// Concrete entity types embed [Node], which carries the identifier and the
// downstream link. Embedding is the only way to satisfy [Entity], so every
// entity is guaranteed to have a well-formed Node behind it:
//
//	type Reach struct {
//	    ordered.Node
//	    Length float64
//	}
//
//	a, b := &Reach{Node: ordered.NewNode("a")}, &Reach{Node: ordered.NewNode("b")}
//	_ = a.SetDown(b)
//
// A terminal has a nil downstream link. Setting an entity's downstream link
// to itself is accepted and normalized to nil so traversal loops only ever
// check for nil.
//
// # Tracing
//
// [TraceDown] walks successors from an entity toward its outlet and returns
// them closest-first. [Index] holds the reverse adjacency (nearest upstream
// neighbors) for a fixed member set and answers breadth-first upstream
// traces with [Index.Trace]. Both honor [TraceOptions]: a level limit and an
// attribute [Filter]. A filter failing halts the walk at that node; output
// type selection with [OfType] happens afterwards and never affects
// traversal.
//
// # Collections
//
// [Collection] is itself an entity (it embeds Node) that owns a member set
// and its Index. Collections nest, so a collection of collections forms the
// next tier of a hierarchy.
//
// # Aggregation
//
// [Aggregate] folds a numeric attribute over a slice with [Sum] or
// [Product], skipping or rejecting undefined values.
//
// # Concurrency
//
// Nodes and indices are not safe for concurrent mutation. Once a network is
// built and no further SetDown calls are made, all trace and aggregate
// operations are read-only and may run from multiple goroutines.
package ordered
