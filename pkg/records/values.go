package records

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/hydronet/pkg/errors"
)

// Row is a read view of one table row.
type Row struct {
	table  *Table
	index  int
	values []any
}

// Index returns the row position in its table.
func (r Row) Index() int { return r.index }

// Value returns the raw value of field. ok is false when the field is not
// declared or the cell is nil.
func (r Row) Value(field string) (v any, ok bool) {
	col, declared := r.table.Fields[field]
	if !declared || col >= len(r.values) {
		return nil, false
	}
	v = r.values[col]
	return v, v != nil
}

// ID returns field as a canonical identifier.
func (r Row) ID(field string) (string, bool, error) {
	v, ok := r.Value(field)
	if !ok {
		return "", false, nil
	}
	id, ok, err := CanonicalID(v)
	if err != nil {
		return "", false, r.fail(field, err)
	}
	return id, ok, nil
}

// Float returns field as a float64.
func (r Row) Float(field string) (float64, bool, error) {
	v, ok := r.Value(field)
	if !ok {
		return 0, false, nil
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, false, r.fail(field, err)
	}
	if math.IsNaN(f) {
		return 0, false, nil
	}
	return f, true, nil
}

// Int returns field as an int. Fractional values are rejected.
func (r Row) Int(field string) (int, bool, error) {
	f, ok, err := r.Float(field)
	if err != nil || !ok {
		return 0, ok, err
	}
	if f != math.Trunc(f) {
		return 0, false, r.fail(field, fmt.Errorf("%v is not an integer", f))
	}
	return int(f), true, nil
}

// String returns field formatted as a string.
func (r Row) String(field string) (string, bool) {
	v, ok := r.Value(field)
	if !ok {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	default:
		return fmt.Sprint(x), true
	}
}

func (r Row) fail(field string, err error) error {
	return errors.Wrap(errors.ErrCodeInvalidRecord, err, "row %d field %q", r.index, field)
}

// CanonicalID converts a raw identifier to its canonical string form.
// Integers and whole floats become decimal integers, strings are trimmed.
// ok is false for nil and for blank strings.
func CanonicalID(v any) (id string, ok bool, err error) {
	switch x := v.(type) {
	case nil:
		return "", false, nil
	case string:
		s := strings.TrimSpace(x)
		return s, s != "", nil
	case []byte:
		s := strings.TrimSpace(string(x))
		return s, s != "", nil
	case int:
		return strconv.Itoa(x), true, nil
	case int32:
		return strconv.FormatInt(int64(x), 10), true, nil
	case int64:
		return strconv.FormatInt(x, 10), true, nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true, nil
	case uint64:
		return strconv.FormatUint(x, 10), true, nil
	case float32:
		return formatFloatID(float64(x)), true, nil
	case float64:
		if math.IsNaN(x) {
			return "", false, nil
		}
		return formatFloatID(x), true, nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return strconv.FormatInt(i, 10), true, nil
		}
		f, err := x.Float64()
		if err != nil {
			return "", false, fmt.Errorf("invalid identifier %q", x.String())
		}
		return formatFloatID(f), true, nil
	default:
		return "", false, fmt.Errorf("unsupported identifier type %T", v)
	}
}

func formatFloatID(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}
