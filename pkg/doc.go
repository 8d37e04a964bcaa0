// Package pkg provides the libraries behind hydronet, an in-memory model of
// a lake's drainage network for barrier prioritization.
//
// # Overview
//
// The pkg directory is organized into these areas:
//
//  1. [ordered] - Generic ordered entities: downstream links, reverse
//     indices, trace up/down and aggregation
//  2. [hydro] - The domain tiers (structures, reaches, catchments,
//     tributaries, lakes) and network assembly
//  3. [records], [io], [source/sqlite] - Normalized record sets and the
//     readers that produce them
//  4. [pipeline] - Orchestration (load → build) with caching
//  5. [config], [cache], [errors], [observability], [buildinfo] - Support
//
// # Architecture
//
// The typical data flow:
//
//	SQLite barrier database      JSON record file
//	         ↓                          ↓
//	  [source/sqlite] loader       [io] reader
//	         ↘                        ↙
//	        [records] normalized record set
//	                   ↓
//	        [hydro] Build → Network
//	                   ↓
//	   trace / aggregate queries per tier
//
// # Quick Start
//
//	set, _ := sqlite.Load(ctx, "basin.db")
//	n, _ := hydro.Build(ctx, set)
//
//	reach, _ := n.Reach("1042")
//	upstream, _ := reach.Tributary().TraceUpReaches(reach, ordered.TraceOptions{Levels: 2})
//	area, _ := reach.Tributary().AreaUp(reach.Catchment(), ordered.Unlimited)
package pkg
