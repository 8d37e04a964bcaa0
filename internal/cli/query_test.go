package cli

import (
	"bytes"
	"context"
	"io"
	"math"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/hydronet/pkg/errors"
	"github.com/matzehuels/hydronet/pkg/hydro"
	recio "github.com/matzehuels/hydronet/pkg/io"
	"github.com/matzehuels/hydronet/pkg/ordered"
	"github.com/matzehuels/hydronet/pkg/records"
)

// queryRecords is a small basin draining to lake L:
//
//	R1 (C1) \
//	         R3 (C2) -> R4 (C2) -> outlet
//	R2 (C1) /
//
// Structures B1 on R1 and B4 on R2 drain to B2 on R3, then B3 on R4.
func queryRecords(t *testing.T) *records.Set {
	t.Helper()
	set := &records.Set{
		Barriers: records.NewTable(records.FieldID, records.FieldDownID, records.FieldReachID,
			records.FieldFProp, records.FieldKind, records.FieldHeight, records.PassPrefix+"04"),
		Flowlines: records.NewTable(records.FieldID, records.FieldDownID, records.FieldTributaryID,
			records.FieldCatchmentID, records.FieldLength, records.FieldOrder),
		Catchments:  records.NewTable(records.FieldID, records.FieldDownID, records.FieldArea),
		Tributaries: records.NewTable(records.FieldID, records.FieldLakeID),
	}
	rows := []struct {
		table  *records.Table
		values []any
	}{
		{&set.Flowlines, []any{"R1", "R3", "T1", "C1", 1.0, 1}},
		{&set.Flowlines, []any{"R2", "R3", "T1", "C1", 2.0, 1}},
		{&set.Flowlines, []any{"R3", "R4", "T1", "C2", 3.0, 2}},
		{&set.Flowlines, []any{"R4", -1, "T1", "C2", 4.0, 2}},
		{&set.Catchments, []any{"C1", "C2", 5.0}},
		{&set.Catchments, []any{"C2", -1, 7.0}},
		{&set.Tributaries, []any{"T1", "L"}},
		{&set.Barriers, []any{"B1", "B2", "R1", 0.5, "dam", 3.5, 0.0}},
		{&set.Barriers, []any{"B2", "B3", "R3", 0.5, nil, nil, 0.5}},
		{&set.Barriers, []any{"B3", -1, "R4", 0.5, nil, nil, 1.0}},
		{&set.Barriers, []any{"B4", "B2", "R2", 0.5, nil, nil, 0.8}},
	}
	for _, r := range rows {
		if err := r.table.Append(r.values...); err != nil {
			t.Fatal(err)
		}
	}
	return set
}

func queryNetwork(t *testing.T) *hydro.Network {
	t.Helper()
	n, err := hydro.Build(context.Background(), queryRecords(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return n
}

func sorted(es []ordered.Entity) []string {
	ids := ordered.IDs(es)
	slices.Sort(ids)
	return ids
}

func TestTrace(t *testing.T) {
	n := queryNetwork(t)

	tests := []struct {
		name string
		req  traceRequest
		want []string
	}{
		{"reach up", traceRequest{Tier: tierReach, ID: "R4", Direction: directionUp}, []string{"R1", "R2", "R3"}},
		{"reach up one level", traceRequest{Tier: tierReach, ID: "R4", Direction: directionUp, Levels: 1}, []string{"R3"}},
		{"reach down", traceRequest{Tier: tierReach, ID: "R1", Direction: directionDown}, []string{"R3", "R4"}},
		{"reach down one level", traceRequest{Tier: tierReach, ID: "R1", Direction: directionDown, Levels: 1}, []string{"R3"}},
		{"reach down within catchment", traceRequest{Tier: tierReach, ID: "R1", Direction: directionDown, Scope: scopeCatchment}, nil},
		{"reach up within catchment", traceRequest{Tier: tierReach, ID: "R4", Direction: directionUp, Scope: scopeCatchment}, []string{"R3"}},
		{"reach up within tributary", traceRequest{Tier: tierReach, ID: "R4", Direction: directionUp, Scope: scopeTributary}, []string{"R1", "R2", "R3"}},
		{"structure up", traceRequest{Tier: tierStructure, ID: "B3", Direction: directionUp}, []string{"B1", "B2", "B4"}},
		{"structure up one level", traceRequest{Tier: tierStructure, ID: "B3", Direction: directionUp, Levels: 1}, []string{"B2"}},
		{"structure down", traceRequest{Tier: tierStructure, ID: "B1", Direction: directionDown}, []string{"B2", "B3"}},
		{"structure down within reach", traceRequest{Tier: tierStructure, ID: "B1", Direction: directionDown, Scope: scopeReach}, nil},
		{"structure up within reach", traceRequest{Tier: tierStructure, ID: "B2", Direction: directionUp, Scope: scopeReach}, nil},
		{"catchment down", traceRequest{Tier: tierCatchment, ID: "C1", Direction: directionDown}, []string{"C2"}},
		{"catchment up", traceRequest{Tier: tierCatchment, ID: "C2", Direction: directionUp}, []string{"C1"}},
		{"outlet down", traceRequest{Tier: tierReach, ID: "R4", Direction: directionDown}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := trace(context.Background(), n, tt.req)
			if err != nil {
				t.Fatalf("trace: %v", err)
			}
			if ids := sorted(got); !slices.Equal(ids, tt.want) {
				t.Errorf("trace = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestTraceDownIsOrdered(t *testing.T) {
	n := queryNetwork(t)
	got, err := trace(context.Background(), n, traceRequest{Tier: tierStructure, ID: "B4", Direction: directionDown})
	if err != nil {
		t.Fatal(err)
	}
	if ids := ordered.IDs(got); !slices.Equal(ids, []string{"B2", "B3"}) {
		t.Errorf("trace = %v, want closest first", ids)
	}
}

func TestTraceErrors(t *testing.T) {
	n := queryNetwork(t)

	tests := []struct {
		name string
		req  traceRequest
		code errors.Code
	}{
		{"bad tier", traceRequest{Tier: tierLake, ID: "L", Direction: directionUp}, errors.ErrCodeInvalidInput},
		{"bad direction", traceRequest{Tier: tierReach, ID: "R1", Direction: "sideways"}, errors.ErrCodeInvalidInput},
		{"unknown id", traceRequest{Tier: tierReach, ID: "R9", Direction: directionUp}, errors.ErrCodeNotFound},
		{"reach scope on catchment", traceRequest{Tier: tierCatchment, ID: "C1", Direction: directionUp, Scope: scopeReach}, errors.ErrCodeUnsupported},
		{"unknown scope", traceRequest{Tier: tierReach, ID: "R1", Direction: directionUp, Scope: "basin"}, errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := trace(context.Background(), n, tt.req)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestMeasure(t *testing.T) {
	n := queryNetwork(t)

	tests := []struct {
		name string
		req  measureRequest
		want float64
	}{
		{"lake length", measureRequest{Tier: tierLake, ID: "L", Quantity: quantityLength}, 10},
		{"lake area", measureRequest{Tier: tierLake, ID: "L", Quantity: quantityArea, Direction: directionAll}, 12},
		{"tributary length", measureRequest{Tier: tierTributary, ID: "T1", Quantity: quantityLength}, 10},
		{"tributary length up", measureRequest{Tier: tierTributary, ID: "T1", Quantity: quantityLength, Direction: directionUp, From: "R3"}, 3},
		{"tributary length down", measureRequest{Tier: tierTributary, ID: "T1", Quantity: quantityLength, Direction: directionDown, From: "R1"}, 7},
		{"tributary length down one level", measureRequest{Tier: tierTributary, ID: "T1", Quantity: quantityLength, Direction: directionDown, From: "R1", Levels: 1}, 3},
		{"tributary area", measureRequest{Tier: tierTributary, ID: "T1", Quantity: quantityArea}, 12},
		{"tributary area up", measureRequest{Tier: tierTributary, ID: "T1", Quantity: quantityArea, Direction: directionUp, From: "C2"}, 5},
		{"tributary area down", measureRequest{Tier: tierTributary, ID: "T1", Quantity: quantityArea, Direction: directionDown, From: "C1"}, 7},
		{"catchment length", measureRequest{Tier: tierCatchment, ID: "C1", Quantity: quantityLength}, 3},
		{"catchment length up", measureRequest{Tier: tierCatchment, ID: "C2", Quantity: quantityLength, Direction: directionUp, From: "R4"}, 3},
		{"catchment length down leaves catchment", measureRequest{Tier: tierCatchment, ID: "C1", Quantity: quantityLength, Direction: directionDown, From: "R1"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := measure(context.Background(), n, tt.req)
			if err != nil {
				t.Fatalf("measure: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("measure = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMeasureErrors(t *testing.T) {
	n := queryNetwork(t)

	tests := []struct {
		name string
		req  measureRequest
		code errors.Code
	}{
		{"bad quantity", measureRequest{Tier: tierLake, ID: "L", Quantity: "volume"}, errors.ErrCodeInvalidInput},
		{"bad direction", measureRequest{Tier: tierLake, ID: "L", Quantity: quantityLength, Direction: "across"}, errors.ErrCodeInvalidInput},
		{"missing from", measureRequest{Tier: tierTributary, ID: "T1", Quantity: quantityLength, Direction: directionUp}, errors.ErrCodeInvalidInput},
		{"bad tier", measureRequest{Tier: tierReach, ID: "R1", Quantity: quantityLength}, errors.ErrCodeInvalidInput},
		{"unknown lake", measureRequest{Tier: tierLake, ID: "Huron", Quantity: quantityLength}, errors.ErrCodeNotFound},
		{"unknown tributary", measureRequest{Tier: tierTributary, ID: "T9", Quantity: quantityLength}, errors.ErrCodeNotFound},
		{"unknown from reach", measureRequest{Tier: tierTributary, ID: "T1", Quantity: quantityLength, Direction: directionUp, From: "R9"}, errors.ErrCodeNotFound},
		{"unknown from catchment", measureRequest{Tier: tierTributary, ID: "T1", Quantity: quantityArea, Direction: directionUp, From: "C9"}, errors.ErrCodeNotFound},
		{"lake direction", measureRequest{Tier: tierLake, ID: "L", Quantity: quantityLength, Direction: directionUp, From: "R1"}, errors.ErrCodeUnsupported},
		{"catchment area", measureRequest{Tier: tierCatchment, ID: "C1", Quantity: quantityArea}, errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := measure(context.Background(), n, tt.req)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCommands(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "basin.json")
	if err := recio.ExportJSON(queryRecords(t), path); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"summary", []string{"summary", path, "--no-cache"}, false},
		{"trace", []string{"trace", path, "--id", "R4", "--no-cache"}, false},
		{"trace down scoped", []string{"trace", path, "--tier", "structure", "--id", "B1", "--direction", "down", "--scope", "reach"}, false},
		{"measure", []string{"measure", path, "--tier", "lake", "--id", "L", "--quantity", "area"}, false},
		{"trace missing id", []string{"trace", path}, true},
		{"trace unknown entity", []string{"trace", path, "--id", "R9"}, true},
		{"measure missing input", []string{"measure", filepath.Join(t.TempDir(), "none.json"), "--id", "L"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(io.Discard, LogInfo)
			err := c.Execute(context.Background(), tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("Execute(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestSummaryOutput(t *testing.T) {
	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })

	printSummary(queryNetwork(t), false)

	got := buf.String()
	for _, want := range []string{"Network", "4 reaches", "4 structures", "fresh", "Lake L", "10", "12"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary lacks %q:\n%s", want, got)
		}
	}
}

func TestTraceCommandOutput(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "basin.json")
	if err := recio.ExportJSON(queryRecords(t), path); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })

	c := New(io.Discard, LogInfo)
	if err := c.Execute(context.Background(), []string{"trace", path, "--id", "R1", "--direction", "down"}); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	if !strings.Contains(got, "R3") || !strings.Contains(got, "R4") || !strings.Contains(got, "2 found") {
		t.Errorf("trace output:\n%s", got)
	}
}

func TestTraceStructureTotals(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	set := queryRecords(t)
	set.Barriers = records.NewTable(records.FieldID, records.FieldDownID, records.FieldReachID,
		records.FieldFProp, records.FieldCost, records.FieldHabitatUp)
	for _, row := range [][]any{
		{"B1", "B2", "R1", 0.5, 10.0, 1.5},
		{"B2", "B3", "R3", 0.5, 20.0, nil},
		{"B3", -1, "R4", 0.5, nil, 4.0},
		{"B4", "B2", "R2", 0.5, 40.0, 0.5},
	} {
		if err := set.Barriers.Append(row...); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "basin.json")
	if err := recio.ExportJSON(set, path); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })

	c := New(io.Discard, LogInfo)
	if err := c.Execute(context.Background(), []string{"trace", path, "--tier", "structure", "--id", "B1", "--direction", "down"}); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	for _, want := range []string{"total cost", "20\n", "habitat up", "4\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("trace output lacks %q:\n%s", want, got)
		}
	}
}
