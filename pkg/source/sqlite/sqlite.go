// Package sqlite reads raw barrier hydrography tables from a SQLite
// database and normalizes them into a [records.Set].
//
// The database holds six tables whose names and columns come from
// [config.Source]: barriers, road-stream crossings, dams, flowlines,
// catchments and tributaries. Crossing and dam rows are joined onto the
// barrier with the same barrier id. A barrier found in the dam table gets
// kind "dam" and its height; one found in the crossing table gets kind
// "rsx" with its drop and bankfull width. Every other barrier is generic.
// The upstream habitat column is optional and read only when present.
//
// Downstream ids equal to the configured sentinel are replaced with nil
// before the set is returned.
package sqlite

import (
	"context"
	"database/sql"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/matzehuels/hydronet/pkg/config"
	"github.com/matzehuels/hydronet/pkg/errors"
	"github.com/matzehuels/hydronet/pkg/observability"
	"github.com/matzehuels/hydronet/pkg/records"
)

// Kind values written to the normalized barrier table.
const (
	KindDam      = "dam"
	KindCrossing = "rsx"
)

// Loader reads raw tables using a source configuration.
type Loader struct {
	src    config.Source
	logger *log.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for per-table progress.
func WithLogger(l *log.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// New returns a Loader for src.
func New(src config.Source, opts ...Option) *Loader {
	ld := &Loader{src: src, logger: log.NewWithOptions(io.Discard, log.Options{})}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Load reads the database at path with the default configuration.
func Load(ctx context.Context, path string) (*records.Set, error) {
	return New(config.Default().Source).Load(ctx, path)
}

// Load reads the database at path and returns the normalized records.
func (ld *Loader) Load(ctx context.Context, path string) (*records.Set, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)

	start := time.Now()
	set, err := ld.load(ctx, path)
	rows := 0
	if set != nil {
		for _, t := range set.Tables() {
			rows += t.Len()
		}
	}
	hooks.OnLoadComplete(ctx, path, rows, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	ld.logger.Debug("loaded records", "path", path, "rows", rows, "duration", time.Since(start))
	return set, nil
}

func (ld *Loader) load(ctx context.Context, path string) (*records.Set, error) {
	// sql.Open would create a missing file.
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "database %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "database %s", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open sqlite %s", path)
	}
	defer func() { _ = db.Close() }() // safe to ignore

	set := &records.Set{}
	steps := []func(context.Context, *sql.DB, *records.Set) error{
		ld.barriers,
		ld.flowlines,
		ld.catchments,
		ld.tributaries,
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step(ctx, db, set); err != nil {
			return nil, err
		}
	}

	if n := set.RemapSentinel(ld.src.Sentinel); n > 0 {
		ld.logger.Debug("remapped terminal ids", "sentinel", ld.src.Sentinel, "cells", n)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

func (ld *Loader) barriers(ctx context.Context, db *sql.DB, set *records.Set) error {
	f, t := ld.src.Fields, ld.src.Tables
	guilds := f.Guilds()

	dams, err := ld.extras(ctx, db, t.Dams, f.Height)
	if err != nil {
		return err
	}
	rsx, err := ld.extras(ctx, db, t.Crossings, f.Drop, f.BankfullWidth)
	if err != nil {
		return err
	}

	columns := []string{f.BarrierID, f.BarrierDownID, f.ReachID, f.FProp, f.Country, f.Cost}
	fields := []string{
		records.FieldID, records.FieldDownID, records.FieldReachID,
		records.FieldFProp, records.FieldCountry, records.FieldCost,
	}
	habitat, err := ld.hasColumn(ctx, db, t.Barriers, f.HabitatUp)
	if err != nil {
		return err
	}
	if habitat {
		columns = append(columns, f.HabitatUp)
		fields = append(fields, records.FieldHabitatUp)
	}
	for _, g := range guilds {
		columns = append(columns, f.Passability[g])
		fields = append(fields, records.PassPrefix+g)
	}
	raw, err := query(ctx, db, t.Barriers, columns...)
	if err != nil {
		return err
	}

	fields = append(fields, records.FieldKind, records.FieldHeight, records.FieldDrop, records.FieldBankfullWidth)
	set.Barriers = records.NewTable(fields...)

	var nDams, nRSX int
	for _, row := range raw {
		id, _, err := records.CanonicalID(row[0])
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRecord, err, "%s id", t.Barriers)
		}
		var kind, height, drop, bankfull any
		if d, ok := dams[id]; ok {
			kind, height = KindDam, d[0]
			nDams++
		} else if x, ok := rsx[id]; ok {
			kind, drop, bankfull = KindCrossing, x[0], x[1]
			nRSX++
		}
		if err := set.Barriers.Append(append(row, kind, height, drop, bankfull)...); err != nil {
			return err
		}
	}
	ld.logger.Debug("read barriers", "rows", len(raw), "dams", nDams, "rsx", nRSX)
	return nil
}

// hasColumn reports whether the optional column is configured and present
// in table.
func (ld *Loader) hasColumn(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	if column == "" {
		return false, nil
	}
	cols, err := tableColumns(ctx, db, table)
	if err != nil {
		return false, err
	}
	_, ok := cols[strings.ToLower(column)]
	if !ok {
		ld.logger.Debug("optional column not found, skipping", "table", table, "column", column)
	}
	return ok, nil
}

// extras reads the columns of a table joined onto barriers, keyed by
// canonical barrier id. A table missing from the database reads as empty.
func (ld *Loader) extras(ctx context.Context, db *sql.DB, table string, columns ...string) (map[string][]any, error) {
	ok, err := tableExists(ctx, db, table)
	if err != nil {
		return nil, err
	}
	if !ok {
		ld.logger.Debug("table not found, skipping", "table", table)
		return nil, nil
	}

	raw, err := query(ctx, db, table, append([]string{ld.src.Fields.BarrierID}, columns...)...)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]any, len(raw))
	for _, row := range raw {
		id, ok, err := records.CanonicalID(row[0])
		if err != nil || !ok {
			return nil, errors.New(errors.ErrCodeInvalidRecord, "%s: bad barrier id %v", table, row[0])
		}
		out[id] = row[1:]
	}
	return out, nil
}

func (ld *Loader) flowlines(ctx context.Context, db *sql.DB, set *records.Set) error {
	f := ld.src.Fields
	raw, err := query(ctx, db, ld.src.Tables.Flowlines,
		f.ReachID, f.ReachDownID, f.TributaryID, f.CatchmentID, f.Length, f.Order)
	if err != nil {
		return err
	}
	set.Flowlines = records.NewTable(records.FieldID, records.FieldDownID, records.FieldTributaryID,
		records.FieldCatchmentID, records.FieldLength, records.FieldOrder)
	return appendAll(&set.Flowlines, raw)
}

func (ld *Loader) catchments(ctx context.Context, db *sql.DB, set *records.Set) error {
	f := ld.src.Fields
	raw, err := query(ctx, db, ld.src.Tables.Catchments, f.CatchmentID, f.CatchmentDownID, f.Area)
	if err != nil {
		return err
	}
	set.Catchments = records.NewTable(records.FieldID, records.FieldDownID, records.FieldArea)
	return appendAll(&set.Catchments, raw)
}

func (ld *Loader) tributaries(ctx context.Context, db *sql.DB, set *records.Set) error {
	f := ld.src.Fields
	raw, err := query(ctx, db, ld.src.Tables.Tributaries, f.TributaryID, f.Lake)
	if err != nil {
		return err
	}
	set.Tributaries = records.NewTable(records.FieldID, records.FieldLakeID)
	return appendAll(&set.Tributaries, raw)
}

func appendAll(t *records.Table, rows [][]any) error {
	for _, row := range rows {
		if err := t.Append(row...); err != nil {
			return err
		}
	}
	return nil
}

// query selects columns from table in order. Text and blob cells become
// strings; numbers keep the driver's int64 or float64. Every column must
// exist in table.
func query(ctx context.Context, db *sql.DB, table string, columns ...string) ([][]any, error) {
	have, err := tableColumns(ctx, db, table)
	if err != nil {
		return nil, err
	}
	if len(have) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "table %s not found", table)
	}
	for _, c := range columns {
		if _, ok := have[strings.ToLower(c)]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "table %s has no column %s", table, c)
		}
	}

	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quote(c)
	}
	stmt := "SELECT " + strings.Join(quoted, ", ") + " FROM " + quote(table)

	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "query %s", table)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	var out [][]any
	for rows.Next() {
		row := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRecord, err, "scan %s", table)
		}
		for i, v := range row {
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "iterate %s", table)
	}
	return out, nil
}

// tableColumns returns the lowercased column names of table, empty when
// the table does not exist. SQLite matches column names case-insensitively.
func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]struct{}, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "inspect %s", table)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	cols := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "inspect %s", table)
		}
		cols[strings.ToLower(name)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "inspect %s", table)
	}
	return cols, nil
}

func tableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&n)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidInput, err, "inspect %s", table)
	}
	return n > 0, nil
}

// quote quotes an identifier for SQLite. Callers check that the named
// column exists first: SQLite reads a double-quoted name that matches no
// column as a string literal.
func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
