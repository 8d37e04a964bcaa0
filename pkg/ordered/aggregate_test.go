package ordered

import (
	"errors"
	"math"
	"testing"
)

func TestAggregate(t *testing.T) {
	length := func(s *seg) (float64, bool) { return s.length, !math.IsNaN(s.length) }

	segs := []*seg{newSeg("q", 1.1, ""), newSeg("r", 1.2, ""), newSeg("s", 1.3, "")}
	withMissing := append([]*seg{newSeg("u", math.NaN(), "")}, segs...)

	tests := []struct {
		name    string
		objects []*seg
		op      Op
		ignore  bool
		want    float64
		wantErr error
	}{
		{name: "sum", objects: segs, op: Sum, ignore: true, want: 3.6},
		{name: "product", objects: segs, op: Product, ignore: true, want: 1.1 * 1.2 * 1.3},
		{name: "empty sum", op: Sum, ignore: true, want: 0},
		{name: "empty product", op: Product, ignore: true, want: 1},
		{name: "skip undefined", objects: withMissing, op: Sum, ignore: true, want: 3.6},
		{name: "reject undefined", objects: withMissing, op: Sum, wantErr: ErrUndefinedAttribute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(tt.objects, length, tt.op, tt.ignore)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Aggregate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAggregateUnsupportedOp(t *testing.T) {
	attr := func(s *seg) (float64, bool) { return s.length, true }
	if _, err := Aggregate([]*seg{newSeg("a", 1, "")}, attr, Op(7), true); err == nil {
		t.Error("expected error for unsupported op")
	}
	if Op(7).String() != "Op(7)" {
		t.Errorf("String() = %q", Op(7).String())
	}
}
