// Package records defines the normalized tabular input consumed by network
// assembly.
//
// A [Set] holds one [Table] per tier. Each table is a field-name to
// column-index map plus rows of raw values in column order. Raw values are
// whatever the source produced: JSON numbers, SQLite integers, strings,
// byte slices, booleans or nil. Row accessors convert them to canonical Go
// values and report nil cells as undefined.
//
// Downstream-id columns may carry a sentinel meaning "no downstream
// neighbor". [Set.RemapSentinel] replaces those cells with nil before
// assembly so consumers never see the raw sentinel.
package records

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/hydronet/pkg/errors"
)

// Table names.
const (
	TableBarriers    = "barriers"
	TableFlowlines   = "flowlines"
	TableCatchments  = "catchments"
	TableTributaries = "tributaries"
)

// Normalized field names shared by all tables.
const (
	FieldID     = "id"
	FieldDownID = "down_id"
)

// Barrier fields.
const (
	FieldReachID       = "reach_id"
	FieldFProp         = "fprop"
	FieldCountry       = "country"
	FieldCost          = "cost"
	FieldHabitatUp     = "habitat_up"
	FieldKind          = "kind"
	FieldWidth         = "width"
	FieldHeight        = "height"
	FieldLength        = "length"
	FieldDrop          = "drop"
	FieldBankfullWidth = "bankfull_width"

	// PassPrefix prefixes every per-guild passability column: the column
	// "pass_04" holds the passability for guild "04".
	PassPrefix = "pass_"
)

// Flowline fields. Flowlines also use FieldLength.
const (
	FieldTributaryID = "tributary_id"
	FieldCatchmentID = "catchment_id"
	FieldOrder       = "order"
)

// Catchment and tributary fields.
const (
	FieldArea   = "area"
	FieldLakeID = "lake_id"
)

// DefaultSentinel is the raw downstream-id value meaning "terminal".
const DefaultSentinel = -1

// Required lists the fields each table must declare.
var Required = map[string][]string{
	TableBarriers:    {FieldID, FieldDownID, FieldReachID, FieldFProp},
	TableFlowlines:   {FieldID, FieldDownID, FieldTributaryID, FieldCatchmentID, FieldLength},
	TableCatchments:  {FieldID, FieldDownID, FieldArea},
	TableTributaries: {FieldID, FieldLakeID},
}

// Table is one normalized record table.
type Table struct {
	Fields map[string]int `json:"fields"`
	Rows   [][]any        `json:"rows"`
}

// NewTable creates an empty table whose columns are fields, in order.
func NewTable(fields ...string) Table {
	t := Table{Fields: make(map[string]int, len(fields))}
	for i, f := range fields {
		t.Fields[f] = i
	}
	return t
}

// Append adds a row. The number of values must match the number of fields.
func (t *Table) Append(values ...any) error {
	if len(values) != len(t.Fields) {
		return errors.New(errors.ErrCodeInvalidRecord, "row has %d values, table has %d fields", len(values), len(t.Fields))
	}
	t.Rows = append(t.Rows, values)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Has reports whether the table declares field.
func (t *Table) Has(field string) bool {
	_, ok := t.Fields[field]
	return ok
}

// Row returns row i. It panics if i is out of range.
func (t *Table) Row(i int) Row { return Row{table: t, index: i, values: t.Rows[i]} }

// FieldsWithPrefix returns the declared fields starting with prefix, sorted.
func (t *Table) FieldsWithPrefix(prefix string) []string {
	var out []string
	for _, f := range slices.Sorted(maps.Keys(t.Fields)) {
		if strings.HasPrefix(f, prefix) {
			out = append(out, f)
		}
	}
	return out
}

// Columns returns the field names in column order.
func (t *Table) Columns() []string {
	cols := make([]string, len(t.Fields))
	for f, i := range t.Fields {
		if i >= 0 && i < len(cols) {
			cols[i] = f
		}
	}
	return cols
}

func (t *Table) validate(name string) error {
	for _, f := range Required[name] {
		if !t.Has(f) {
			return errors.New(errors.ErrCodeInvalidRecord, "%s: missing required field %q", name, f)
		}
	}
	for f, i := range t.Fields {
		if i < 0 {
			return errors.New(errors.ErrCodeInvalidRecord, "%s: field %q has negative column %d", name, f, i)
		}
	}
	for i, row := range t.Rows {
		for f, col := range t.Fields {
			if col >= len(row) {
				return errors.New(errors.ErrCodeInvalidRecord, "%s row %d: no value for field %q (column %d)", name, i, f, col)
			}
		}
	}
	return nil
}

// Set is the complete normalized input for one network.
type Set struct {
	Barriers    Table `json:"barriers"`
	Flowlines   Table `json:"flowlines"`
	Catchments  Table `json:"catchments"`
	Tributaries Table `json:"tributaries"`
}

// Tables returns the tables keyed by table name.
func (s *Set) Tables() map[string]*Table {
	return map[string]*Table{
		TableBarriers:    &s.Barriers,
		TableFlowlines:   &s.Flowlines,
		TableCatchments:  &s.Catchments,
		TableTributaries: &s.Tributaries,
	}
}

// Validate checks that every table declares its required fields and that
// every row has a value for every declared column.
func (s *Set) Validate() error {
	tables := s.Tables()
	for _, name := range []string{TableBarriers, TableFlowlines, TableCatchments, TableTributaries} {
		if err := tables[name].validate(name); err != nil {
			return err
		}
	}
	return nil
}

// RemapSentinel replaces every downstream-id cell equal to sentinel with
// nil and returns how many cells changed. Values are compared by canonical
// identifier, so -1, -1.0 and "-1" all match a sentinel of -1.
func (s *Set) RemapSentinel(sentinel any) int {
	want, ok, err := CanonicalID(sentinel)
	if !ok || err != nil {
		return 0
	}
	n := 0
	for _, t := range s.Tables() {
		col, ok := t.Fields[FieldDownID]
		if !ok {
			continue
		}
		for _, row := range t.Rows {
			if col >= len(row) || row[col] == nil {
				continue
			}
			if got, ok, err := CanonicalID(row[col]); err == nil && ok && got == want {
				row[col] = nil
				n++
			}
		}
	}
	return n
}
