// Package io provides JSON import and export for normalized record sets.
//
// # Overview
//
// A record set is the tabular input of network assembly: one table per
// tier, each a field-name to column-index map plus rows of raw values. The
// JSON form mirrors that shape so that records produced by any loader can
// be saved once and assembled many times.
//
// # JSON Format
//
// The format has four required top-level tables:
//
//	{
//	  "barriers": {
//	    "fields": {"id": 0, "down_id": 1, "reach_id": 2, "fprop": 3, "pass_04": 4},
//	    "rows": [["B1", "B2", "R1", 0.25, 1.0], ["B2", -1, "R2", 0.5, 0.4]]
//	  },
//	  "flowlines": {
//	    "fields": {"id": 0, "down_id": 1, "tributary_id": 2, "catchment_id": 3, "length": 4},
//	    "rows": [["R1", "R2", "T1", "C1", 1.1], ["R2", -1, "T1", "C1", 0.9]]
//	  },
//	  "catchments": {"fields": {"id": 0, "down_id": 1, "area": 2}, "rows": [["C1", -1, 10.5]]},
//	  "tributaries": {"fields": {"id": 0, "lake_id": 1}, "rows": [["T1", "LA"]]}
//	}
//
// Numbers are decoded as [encoding/json.Number], so integer identifiers
// keep their exact value. null cells are undefined values; a null
// downstream id is a terminal link.
//
// # Import
//
// Use [ImportJSON] to read records from a file path, or [ReadJSON] to read
// from any io.Reader:
//
//	set, err := io.ImportJSON("records.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions check the required fields of every table and the width of
// every row.
//
// # Export
//
// Use [ExportJSON] to write records to a file, or [WriteJSON] to write to
// any io.Writer. Export followed by import yields an equivalent set.
package io
