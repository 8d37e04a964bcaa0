package hydro

import (
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/hydronet/pkg/ordered"
	"github.com/matzehuels/hydronet/pkg/records"
)

// fixture is a two-tributary basin draining to lake LA:
//
//	TA: catchments CA, CB -> CD
//	    RA,RB -> RC -> RE -> RI -> RO, RD -> RE
//	    RF,RG -> RH -> RK -> RM -> RN -> RO, RJ -> RM, RL -> RN
//	TB: catchments CC -> CE -> CF
//	    RP -> RQ -> RS -> RT -> RV, RR -> RS, RU -> RV
type fixture struct {
	b    map[string]Structure
	r    map[string]*Reach
	c    map[string]*Catchment
	t    map[string]*Tributary
	lake *Lake
}

var (
	fixtureBarriers = []struct {
		id, reach string
		fprop     float64
	}{
		{"BA", "RA", 0.1}, {"BB", "RC", 0.2}, {"BC", "RC", 0.3}, {"BD", "RF", 0.1},
		{"BE", "RG", 0.2}, {"BF", "RH", 0.3}, {"BG", "RH", 0.4}, {"BH", "RI", 0.1},
		{"BI", "RJ", 0.2}, {"BJ", "RN", 0.3}, {"BK", "RP", 0.1}, {"BL", "RP", 0.2},
		{"BM", "RR", 0.1}, {"BN", "RT", 0.1},
	}
	fixtureBarrierLinks = []string{
		"BA>BB", "BB>BC", "BC>BH", "BD>BF", "BE>BF", "BF>BG", "BG>BJ", "BI>BJ",
		"BK>BL", "BL>BN", "BM>BN",
	}
	fixtureReaches = []struct {
		id, catchment string
		length        float64
	}{
		{"RA", "CA", 1.1}, {"RB", "CA", 1.2}, {"RC", "CA", 1.3}, {"RD", "CA", 1.4},
		{"RE", "CA", 1.5}, {"RF", "CB", 1.1}, {"RG", "CB", 1.2}, {"RH", "CB", 1.3},
		{"RI", "CD", 1.1}, {"RJ", "CD", 1.2}, {"RK", "CD", 1.3}, {"RL", "CD", 1.4},
		{"RM", "CD", 1.5}, {"RN", "CD", 1.6}, {"RO", "CD", 1.7}, {"RP", "CC", 1.1},
		{"RQ", "CE", 1.1}, {"RR", "CE", 1.2}, {"RS", "CE", 1.3}, {"RT", "CF", 1.1},
		{"RU", "CF", 1.2}, {"RV", "CF", 1.3},
	}
	fixtureReachLinks = []string{
		"RA>RC", "RB>RC", "RC>RE", "RD>RE", "RE>RI", "RF>RH", "RG>RH", "RH>RK",
		"RI>RO", "RJ>RM", "RK>RM", "RL>RN", "RM>RN", "RN>RO", "RP>RQ", "RQ>RS",
		"RR>RS", "RS>RT", "RT>RV", "RU>RV",
	}
	fixtureCatchments = []struct {
		id, tributary string
		area          float64
	}{
		{"CA", "TA", 10.1}, {"CB", "TA", 10.2}, {"CC", "TB", 10.1},
		{"CD", "TA", 10.3}, {"CE", "TB", 10.2}, {"CF", "TB", 10.3},
	}
	fixtureCatchmentLinks = []string{"CA>CD", "CB>CD", "CC>CE", "CE>CF"}
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		b: make(map[string]Structure),
		r: make(map[string]*Reach),
		c: make(map[string]*Catchment),
		t: make(map[string]*Tributary),
	}

	onReach := make(map[string][]Structure)
	for _, fb := range fixtureBarriers {
		b, err := NewBarrier(fb.id, BarrierAttrs{
			FProp:         fb.fprop,
			Country:       "USA",
			Passabilities: map[string]float64{"04": 1.0, "03": 0.4},
		})
		if err != nil {
			t.Fatalf("NewBarrier(%s): %v", fb.id, err)
		}
		f.b[fb.id] = b
		onReach[fb.reach] = append(onReach[fb.reach], b)
	}
	chain(t, f.b, fixtureBarrierLinks)

	inCatchment := make(map[string][]*Reach)
	for _, fr := range fixtureReaches {
		r, err := NewReach(fr.id, ReachAttrs{Length: Some(fr.length)}, onReach[fr.id]...)
		if err != nil {
			t.Fatalf("NewReach(%s): %v", fr.id, err)
		}
		f.r[fr.id] = r
		inCatchment[fr.catchment] = append(inCatchment[fr.catchment], r)
	}
	chain(t, f.r, fixtureReachLinks)

	inTributary := make(map[string][]*Reach)
	for _, fc := range fixtureCatchments {
		c, err := NewCatchment(fc.id, Some(fc.area), inCatchment[fc.id]...)
		if err != nil {
			t.Fatalf("NewCatchment(%s): %v", fc.id, err)
		}
		f.c[fc.id] = c
		inTributary[fc.tributary] = append(inTributary[fc.tributary], inCatchment[fc.id]...)
	}
	chain(t, f.c, fixtureCatchmentLinks)

	for _, id := range []string{"TA", "TB"} {
		tr, err := NewTributary(id, inTributary[id]...)
		if err != nil {
			t.Fatalf("NewTributary(%s): %v", id, err)
		}
		f.t[id] = tr
	}

	lake, err := NewLake("LA", f.t["TA"], f.t["TB"])
	if err != nil {
		t.Fatalf("NewLake: %v", err)
	}
	f.lake = lake
	return f
}

// chain applies "up>down" links.
func chain[T linkable](t *testing.T, byID map[string]T, links []string) {
	t.Helper()
	for _, l := range links {
		up, down, _ := strings.Cut(l, ">")
		if err := byID[up].SetDown(byID[down]); err != nil {
			t.Fatalf("SetDown(%s): %v", l, err)
		}
	}
}

// fixtureRecords encodes the fixture as normalized records. Terminal links
// use every supported form: the sentinel, nil and a self reference. CG is
// a catchment without reaches.
func fixtureRecords(t *testing.T) *records.Set {
	t.Helper()
	downs := func(links []string) map[string]string {
		m := make(map[string]string)
		for _, l := range links {
			up, down, _ := strings.Cut(l, ">")
			m[up] = down
		}
		return m
	}
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}

	set := &records.Set{
		Barriers: records.NewTable(records.FieldID, records.FieldDownID, records.FieldReachID,
			records.FieldFProp, records.FieldCountry, "pass_04", "pass_03"),
		Flowlines: records.NewTable(records.FieldID, records.FieldDownID, records.FieldTributaryID,
			records.FieldCatchmentID, records.FieldLength, records.FieldOrder),
		Catchments:  records.NewTable(records.FieldID, records.FieldDownID, records.FieldArea),
		Tributaries: records.NewTable(records.FieldID, records.FieldLakeID),
	}

	bd := downs(fixtureBarrierLinks)
	for _, fb := range fixtureBarriers {
		var down any = records.DefaultSentinel
		if d, ok := bd[fb.id]; ok {
			down = d
		}
		must(set.Barriers.Append(fb.id, down, fb.reach, fb.fprop, "USA", 1.0, 0.4))
	}

	rd := downs(fixtureReachLinks)
	tributaryOf := make(map[string]string)
	for _, fc := range fixtureCatchments {
		tributaryOf[fc.id] = fc.tributary
	}
	for _, fr := range fixtureReaches {
		var down any
		if d, ok := rd[fr.id]; ok {
			down = d
		}
		must(set.Flowlines.Append(fr.id, down, tributaryOf[fr.catchment], fr.catchment, fr.length, 1))
	}

	cd := downs(fixtureCatchmentLinks)
	for _, fc := range fixtureCatchments {
		var down any = fc.id
		if d, ok := cd[fc.id]; ok {
			down = d
		}
		must(set.Catchments.Append(fc.id, down, fc.area))
	}
	must(set.Catchments.Append("CG", -1, 3.0))

	must(set.Tributaries.Append("TA", "LA"))
	must(set.Tributaries.Append("TB", "LA"))
	return set
}

// fixtureFromNetwork indexes a built network the same way as newFixture.
func fixtureFromNetwork(t *testing.T, n *Network) *fixture {
	t.Helper()
	f := &fixture{
		b: make(map[string]Structure),
		r: make(map[string]*Reach),
		c: make(map[string]*Catchment),
		t: make(map[string]*Tributary),
	}
	for _, s := range n.Structures() {
		f.b[s.ID()] = s
	}
	for _, r := range n.Reaches() {
		f.r[r.ID()] = r
	}
	for _, c := range n.Catchments() {
		f.c[c.ID()] = c
	}
	for _, tr := range n.Tributaries() {
		f.t[tr.ID()] = tr
	}
	lake, ok := n.Lake("LA")
	if !ok {
		t.Fatal("lake LA missing")
	}
	f.lake = lake
	return f
}

func (f *fixture) length(ids ...string) float64 {
	var sum float64
	for _, id := range ids {
		sum += f.r[id].Length().Or(0)
	}
	return sum
}

func (f *fixture) area(ids ...string) float64 {
	var sum float64
	for _, id := range ids {
		sum += f.c[id].Area().Or(0)
	}
	return sum
}

func sortedIDs[T ordered.Entity](es []T) []string {
	ids := ordered.IDs(es)
	slices.Sort(ids)
	return ids
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
