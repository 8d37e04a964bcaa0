package hydro

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hydronet/pkg/errors"
	"github.com/matzehuels/hydronet/pkg/observability"
	"github.com/matzehuels/hydronet/pkg/ordered"
	"github.com/matzehuels/hydronet/pkg/records"
)

// Option configures Build.
type Option func(*builder)

// WithLogger sets the logger used for progress and integrity warnings.
// By default Build logs nothing.
func WithLogger(l *log.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithSentinel sets the raw downstream-id value that means "terminal".
// Downstream ids are compared by canonical form, so a sentinel of -1 also
// matches -1.0 and "-1". Pass nil to disable sentinel matching; nil cells
// are always terminal. The default is records.DefaultSentinel.
func WithSentinel(v any) Option {
	return func(b *builder) {
		b.sentinel, b.hasSentinel, _ = records.CanonicalID(v)
	}
}

// Build assembles a Network from normalized records in five phases:
// structures, reaches, catchments, tributaries and lakes. Downstream links
// within a tier are resolved before the next tier is built, so every
// reverse index sees the final links.
//
// A downstream id that is nil, equal to the sentinel, or equal to the
// entity's own id makes the entity terminal. Any other downstream id must
// name an entity of the same table, otherwise Build fails with
// INVALID_REFERENCE. Records that end up unreachable from every lake are
// dropped and reported as warnings on the returned network.
func Build(ctx context.Context, set *records.Set, opts ...Option) (*Network, error) {
	b := &builder{logger: log.NewWithOptions(io.Discard, log.Options{})}
	WithSentinel(records.DefaultSentinel)(b)
	for _, opt := range opts {
		opt(b)
	}

	rows := 0
	if set != nil {
		for _, t := range set.Tables() {
			rows += t.Len()
		}
	}
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, rows)

	start := time.Now()
	n, err := b.build(ctx, set)
	entities := 0
	if n != nil {
		s := n.Stats()
		entities = s.Lakes + s.Tributaries + s.Catchments + s.Reaches + s.Structures
	}
	hooks.OnBuildComplete(ctx, entities, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	for _, w := range n.warnings {
		b.logger.Warn(w.Message, "tier", w.Tier, "loaded", w.Loaded, "kept", w.Kept)
		hooks.OnIntegrityWarning(ctx, w.Tier, w.Loaded, w.Kept)
	}
	b.logger.Info("assembled network",
		"lakes", len(n.lakes),
		"tributaries", len(n.tributaries),
		"catchments", len(n.catchments),
		"reaches", len(n.reaches),
		"structures", len(n.structures),
		"duration", time.Since(start))
	return n, nil
}

type builder struct {
	logger      *log.Logger
	sentinel    string
	hasSentinel bool

	structures  map[string]Structure
	onReach     map[string][]Structure
	reaches     map[string]*Reach
	inCatchment map[string][]*Reach
	inTributary map[string][]*Reach
	catchments  map[string]*Catchment
	tributaries map[string]*Tributary
	onLake      map[string][]*Tributary
	lakeOrder   []string
}

// link is a pending downstream reference.
type link struct {
	row      int
	id, down string
}

func (b *builder) build(ctx context.Context, set *records.Set) (*Network, error) {
	if set == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no records")
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}

	phases := []struct {
		tier string
		run  func(*records.Table) (int, error)
		in   *records.Table
	}{
		{records.TableBarriers, b.buildStructures, &set.Barriers},
		{records.TableFlowlines, b.buildReaches, &set.Flowlines},
		{records.TableCatchments, b.buildCatchments, &set.Catchments},
		{records.TableTributaries, b.buildTributaries, &set.Tributaries},
	}
	for _, p := range phases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := p.run(p.in)
		if err != nil {
			return nil, err
		}
		b.logger.Debug("built tier", "tier", p.tier, "count", n)
	}

	lakes := make([]*Lake, 0, len(b.lakeOrder))
	for _, id := range b.lakeOrder {
		l, err := NewLake(id, b.onLake[id]...)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "lake %s", id)
		}
		lakes = append(lakes, l)
	}
	b.logger.Debug("built tier", "tier", "lakes", "count", len(lakes))

	n := NewNetwork(lakes...)
	n.warnings = integrity(set, n)
	return n, nil
}

// integrity compares loaded record counts with what the lakes reach.
func integrity(set *records.Set, n *Network) []Warning {
	checks := []Warning{
		{Tier: records.TableCatchments, Loaded: set.Catchments.Len(), Kept: len(n.catchments),
			Message: "discarded catchments without associated reaches"},
		{Tier: records.TableFlowlines, Loaded: set.Flowlines.Len(), Kept: len(n.reaches),
			Message: "discarded reaches without a tributary"},
		{Tier: records.TableBarriers, Loaded: set.Barriers.Len(), Kept: len(n.structures),
			Message: "discarded barriers on unknown reaches"},
	}
	var out []Warning
	for _, w := range checks {
		if w.Kept < w.Loaded {
			out = append(out, w)
		}
	}
	return out
}

func (b *builder) buildStructures(t *records.Table) (int, error) {
	b.structures = make(map[string]Structure, t.Len())
	b.onReach = make(map[string][]Structure)
	passFields := t.FieldsWithPrefix(records.PassPrefix)

	var links []link
	for i := range t.Len() {
		row := t.Row(i)
		id, down, err := b.identity(records.TableBarriers, row)
		if err != nil {
			return 0, err
		}
		if _, dup := b.structures[id]; dup {
			return 0, duplicate(records.TableBarriers, i, id)
		}
		s, err := structureFromRow(row, id, passFields)
		if err != nil {
			return 0, rowErr(records.TableBarriers, i, id, err)
		}
		reachID, _, err := row.ID(records.FieldReachID)
		if err != nil {
			return 0, err
		}
		b.structures[id] = s
		b.onReach[reachID] = append(b.onReach[reachID], s)
		links = append(links, link{row: i, id: id, down: down})
	}
	return len(b.structures), resolve(records.TableBarriers, b.structures, links)
}

func structureFromRow(row records.Row, id string, passFields []string) (Structure, error) {
	fprop, ok, err := row.Float(records.FieldFProp)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidRecord, "missing %s", records.FieldFProp)
	}
	country, _ := row.String(records.FieldCountry)
	attrs := BarrierAttrs{FProp: fprop, Country: country, Passabilities: make(map[string]float64)}
	if attrs.Cost, err = measure(row, records.FieldCost); err != nil {
		return nil, err
	}
	if attrs.Habitat, err = measure(row, records.FieldHabitatUp); err != nil {
		return nil, err
	}
	for _, f := range passFields {
		v, ok, err := row.Float(f)
		if err != nil {
			return nil, err
		}
		if ok {
			attrs.Passabilities[strings.TrimPrefix(f, records.PassPrefix)] = v
		}
	}

	kind, err := kindOf(row)
	if err != nil {
		return nil, err
	}
	ms, err := measures(row, records.FieldWidth, records.FieldHeight, records.FieldLength,
		records.FieldDrop, records.FieldBankfullWidth)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindDam:
		return NewDam(id, DamAttrs{
			BarrierAttrs: attrs,
			Width:        ms[records.FieldWidth],
			Height:       ms[records.FieldHeight],
			Length:       ms[records.FieldLength],
		})
	case KindCrossing:
		return NewRoadStreamCrossing(id, CrossingAttrs{
			BarrierAttrs:  attrs,
			Width:         ms[records.FieldWidth],
			Drop:          ms[records.FieldDrop],
			Length:        ms[records.FieldLength],
			BankfullWidth: ms[records.FieldBankfullWidth],
		})
	default:
		return NewBarrier(id, attrs)
	}
}

// kindOf reads the structure variant. Booleans follow the dam flag
// convention: true is a dam, false a road-stream crossing. Integer 0 and 1
// are read the same way.
func kindOf(row records.Row) (Kind, error) {
	v, ok := row.Value(records.FieldKind)
	if !ok {
		return KindBarrier, nil
	}
	switch x := v.(type) {
	case bool:
		return damFlag(x), nil
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "", "barrier":
			return KindBarrier, nil
		case "dam":
			return KindDam, nil
		case "rsx", "crossing", "road_crossing":
			return KindCrossing, nil
		}
	default:
		f, ok, err := row.Float(records.FieldKind)
		if err == nil && ok && (f == 0 || f == 1) {
			return damFlag(f == 1), nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidRecord, "unknown structure kind %v", v)
}

func damFlag(isDam bool) Kind {
	if isDam {
		return KindDam
	}
	return KindCrossing
}

func (b *builder) buildReaches(t *records.Table) (int, error) {
	b.reaches = make(map[string]*Reach, t.Len())
	b.inCatchment = make(map[string][]*Reach)
	b.inTributary = make(map[string][]*Reach)

	var links []link
	for i := range t.Len() {
		row := t.Row(i)
		id, down, err := b.identity(records.TableFlowlines, row)
		if err != nil {
			return 0, err
		}
		if _, dup := b.reaches[id]; dup {
			return 0, duplicate(records.TableFlowlines, i, id)
		}
		length, err := measure(row, records.FieldLength)
		if err != nil {
			return 0, err
		}
		order, _, err := row.Int(records.FieldOrder)
		if err != nil {
			return 0, err
		}
		r, err := NewReach(id, ReachAttrs{Length: length, Order: order}, b.onReach[id]...)
		if err != nil {
			return 0, rowErr(records.TableFlowlines, i, id, err)
		}
		b.reaches[id] = r
		links = append(links, link{row: i, id: id, down: down})

		if cid, ok, err := row.ID(records.FieldCatchmentID); err != nil {
			return 0, err
		} else if ok {
			b.inCatchment[cid] = append(b.inCatchment[cid], r)
		}
		if tid, ok, err := row.ID(records.FieldTributaryID); err != nil {
			return 0, err
		} else if ok {
			b.inTributary[tid] = append(b.inTributary[tid], r)
		}
	}
	return len(b.reaches), resolve(records.TableFlowlines, b.reaches, links)
}

func (b *builder) buildCatchments(t *records.Table) (int, error) {
	b.catchments = make(map[string]*Catchment, t.Len())

	var links []link
	for i := range t.Len() {
		row := t.Row(i)
		id, down, err := b.identity(records.TableCatchments, row)
		if err != nil {
			return 0, err
		}
		if _, dup := b.catchments[id]; dup {
			return 0, duplicate(records.TableCatchments, i, id)
		}
		area, err := measure(row, records.FieldArea)
		if err != nil {
			return 0, err
		}
		c, err := NewCatchment(id, area, b.inCatchment[id]...)
		if err != nil {
			return 0, rowErr(records.TableCatchments, i, id, err)
		}
		b.catchments[id] = c
		links = append(links, link{row: i, id: id, down: down})
	}
	return len(b.catchments), resolve(records.TableCatchments, b.catchments, links)
}

func (b *builder) buildTributaries(t *records.Table) (int, error) {
	b.tributaries = make(map[string]*Tributary, t.Len())
	b.onLake = make(map[string][]*Tributary)

	for i := range t.Len() {
		row := t.Row(i)
		id, _, err := b.identity(records.TableTributaries, row)
		if err != nil {
			return 0, err
		}
		if _, dup := b.tributaries[id]; dup {
			return 0, duplicate(records.TableTributaries, i, id)
		}
		lakeID, ok, err := row.ID(records.FieldLakeID)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, errors.New(errors.ErrCodeInvalidRecord, "%s row %d (id %s): missing %s",
				records.TableTributaries, i, id, records.FieldLakeID)
		}
		tr, err := NewTributary(id, b.inTributary[id]...)
		if err != nil {
			return 0, rowErr(records.TableTributaries, i, id, err)
		}
		b.tributaries[id] = tr
		if _, seen := b.onLake[lakeID]; !seen {
			b.lakeOrder = append(b.lakeOrder, lakeID)
		}
		b.onLake[lakeID] = append(b.onLake[lakeID], tr)
	}
	return len(b.tributaries), nil
}

// identity reads the id and downstream id of a row. The downstream id is
// empty when the row is terminal.
func (b *builder) identity(table string, row records.Row) (id, down string, err error) {
	id, ok, err := row.ID(records.FieldID)
	if err != nil {
		return "", "", err
	}
	if !ok {
		return "", "", errors.New(errors.ErrCodeInvalidRecord, "%s row %d: missing %s", table, row.Index(), records.FieldID)
	}
	if err := errors.ValidateID(id); err != nil {
		return "", "", rowErr(table, row.Index(), id, err)
	}
	down, ok, err = row.ID(records.FieldDownID)
	if err != nil {
		return "", "", err
	}
	if !ok || down == id || (b.hasSentinel && down == b.sentinel) {
		down = ""
	}
	return id, down, nil
}

type linkable interface {
	ordered.Entity
	SetDown(ordered.Entity) error
}

// resolve applies pending downstream links once every entity of the tier
// exists.
func resolve[T linkable](table string, byID map[string]T, links []link) error {
	for _, l := range links {
		if l.down == "" {
			continue
		}
		target, ok := byID[l.down]
		if !ok {
			return errors.New(errors.ErrCodeInvalidReference, "%s row %d (id %s): downstream id %s does not exist",
				table, l.row, l.id, l.down)
		}
		if err := byID[l.id].SetDown(target); err != nil {
			return rowErr(table, l.row, l.id, constraint(err, "link to %s", l.down))
		}
	}
	return nil
}

func measure(row records.Row, field string) (Measure, error) {
	v, ok, err := row.Float(field)
	if err != nil || !ok {
		return Undefined, err
	}
	return Some(v), nil
}

func measures(row records.Row, fields ...string) (map[string]Measure, error) {
	out := make(map[string]Measure, len(fields))
	for _, f := range fields {
		m, err := measure(row, f)
		if err != nil {
			return nil, err
		}
		out[f] = m
	}
	return out, nil
}

func duplicate(table string, row int, id string) error {
	return errors.New(errors.ErrCodeInvalidRecord, "%s row %d: duplicate id %s", table, row, id)
}

// rowErr adds record context to err, keeping its code.
func rowErr(table string, row int, id string, err error) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInvalidRecord
	}
	return errors.Wrap(code, err, "%s row %d (id %s)", table, row, id)
}
