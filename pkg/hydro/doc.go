// Package hydro models a river drainage network as four nested tiers of
// flow-ordered entities.
//
// # Tiers
//
// Structures (a generic [Barrier], a [Dam] or a [RoadStreamCrossing]) sit
// at a fractional position along a [Reach]. Reaches are grouped into
// drainage-area [Catchment]s. A [Tributary] spans the reaches of several
// catchments and drains to a [Lake].
//
// Every entity links to at most one entity of its own tier downstream, and
// every tier above structures is an ordered collection of the tier below,
// so each can be traced upstream through its reverse index:
//
//	r.TraceDown(opts)                     // reaches below r
//	r.Catchment().TraceUp(r, opts)        // reaches above r in its catchment
//	r.Tributary().TraceUp(r, opts)        // reaches above r in its tributary
//	s.Tributary().TraceUpStructures(s, o) // structures above s
//
// Children hold plain back-references to their owners (Reach, Catchment,
// Tributary and Lake), which scoped filters compare by identity. See
// [Catchment.Scope] and [Tributary.Scope].
//
// # Aggregation
//
// Catchments sum reach lengths; tributaries sum reach lengths and
// catchment areas; lakes sum over their tributaries. Undefined lengths and
// areas are skipped. Starting an upstream or downstream aggregate from an
// entity the tier does not index fails with a LOOKUP_FAILED error.
//
// # Assembly
//
// [Build] assembles a [Network] from a [records.Set], tier by tier, and
// reports records that no lake reaches as [Warning]s rather than errors.
// A network is read-only after Build returns.
package hydro
