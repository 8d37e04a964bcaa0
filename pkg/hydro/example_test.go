package hydro_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/hydronet/pkg/hydro"
	"github.com/matzehuels/hydronet/pkg/ordered"
	"github.com/matzehuels/hydronet/pkg/records"
)

func ExampleBuild() {
	set := &records.Set{
		Barriers:    records.NewTable("id", "down_id", "reach_id", "fprop", "kind", "pass_04"),
		Flowlines:   records.NewTable("id", "down_id", "tributary_id", "catchment_id", "length", "order"),
		Catchments:  records.NewTable("id", "down_id", "area"),
		Tributaries: records.NewTable("id", "lake_id"),
	}
	set.Barriers.Append(1, 2, 10, 0.4, "dam", 0.0)
	set.Barriers.Append(2, -1, 12, 0.9, nil, 0.5)
	set.Flowlines.Append(10, 12, 7, 100, 1.2, 1)
	set.Flowlines.Append(11, 12, 7, 100, 0.8, 1)
	set.Flowlines.Append(12, -1, 7, 101, 2.5, 2)
	set.Catchments.Append(100, 101, 3.5)
	set.Catchments.Append(101, -1, 6.0)
	set.Tributaries.Append(7, "superior")

	n, err := hydro.Build(context.Background(), set)
	if err != nil {
		fmt.Println(err)
		return
	}

	r10, _ := n.Reach("10")
	fmt.Println(ordered.IDs(r10.TraceDown(ordered.TraceOptions{})))

	outlet, _ := n.Reach("12")
	up, _ := outlet.Tributary().LengthUp(outlet, ordered.Unlimited)
	fmt.Printf("%.1f\n", up)

	lake, _ := n.Lake("superior")
	fmt.Printf("%.1f\n", lake.AreaAll())

	dam, _ := n.Structure("1")
	fmt.Println(dam.Kind(), dam.Reach().ID())
	// Output:
	// [12]
	// 2.0
	// 9.5
	// dam 10
}
